package challenges

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/recordkeeper/internal/common"
	"github.com/dmitrijs2005/recordkeeper/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()
	now := time.Now()

	require.NoError(t, r.Create(ctx, models.Challenge{Nonce: "a", Address: "GA", ExpiresAt: now.Add(time.Minute)}))
	require.NoError(t, r.Create(ctx, models.Challenge{Nonce: "b", Address: "GB", ExpiresAt: now.Add(-time.Second)}))

	c, err := r.Take(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "GA", c.Address)

	_, err = r.Take(ctx, "a")
	require.ErrorIs(t, err, common.ErrChallengeExpired)

	n, err := r.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = r.Take(ctx, "b")
	require.ErrorIs(t, err, common.ErrChallengeExpired)
}
