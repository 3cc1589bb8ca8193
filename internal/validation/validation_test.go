package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/dmitrijs2005/recordkeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate(t *testing.T) {
	tests := []struct {
		name        string
		recName     string
		description string
		value       uint64
		wantFields  []string
	}{
		{"valid", "Test", "D", 100, nil},
		{"bounds inclusive", strings.Repeat("n", 50), strings.Repeat("d", 200), MaxValue, nil},
		{"zero value", "n", "d", 0, nil},
		{"name 51 chars", strings.Repeat("n", 51), "d", 1, []string{"name"}},
		{"empty name", "", "d", 1, []string{"name"}},
		{"empty description", "n", "", 1, []string{"description"}},
		{"description 201 chars", "n", strings.Repeat("d", 201), 1, []string{"description"}},
		{"value too large", "n", "d", MaxValue + 1, []string{"value"}},
		{"everything wrong", "", "", 1_000_000_000, []string{"name", "description", "value"}},
		{"runes not bytes", strings.Repeat("é", 50), "d", 1, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Create(tt.recName, tt.description, tt.value)
			if tt.wantFields == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, common.ErrValidationFailed)

			var verr *Error
			require.True(t, errors.As(err, &verr))
			got := make([]string, 0, len(verr.Fields))
			for _, f := range verr.Fields {
				got = append(got, f.Field)
			}
			assert.Equal(t, tt.wantFields, got)
		})
	}
}

func TestUpdate_RejectsBadID(t *testing.T) {
	err := Update(0, "n", "d", 1)
	require.ErrorIs(t, err, common.ErrValidationFailed)

	var verr *Error
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "invalid id", verr.Message("id"))
	assert.Empty(t, verr.Message("name"))

	require.NoError(t, Update(1, "n", "d", 1))
}

func TestError_Message(t *testing.T) {
	err := Create(strings.Repeat("x", 51), "d", 1)
	assert.Equal(t, "validation failed: name: name must not exceed 50 characters", err.Error())
}
