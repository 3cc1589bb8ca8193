package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/dmitrijs2005/recordkeeper/internal/client/models"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
)

const (
	meAddress    = "GMEADDRESS0000ABCD"
	otherAddress = "GOTHERADDRESSXYZ"
)

func TestRenderRecords_Golden(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	at := func(d time.Duration) int64 { return now.Add(-d).UnixMilli() }

	recs := []models.Record{
		{ID: 1, Name: "Example record", Description: "This is an example record", Value: 1000,
			Owner: otherAddress, CreatedAt: at(72 * time.Hour), UpdatedAt: at(72 * time.Hour)},
		{ID: 1_700_000_000_000, Name: "Groceries", Description: "Weekly shopping budget", Value: 250,
			Owner: meAddress, CreatedAt: at(3 * time.Hour), UpdatedAt: at(2 * time.Hour)},
		{ID: 1_700_000_000_001, Name: "A very long record name that overflows", Value: 999_999_999,
			Owner: meAddress, CreatedAt: at(30 * time.Minute), UpdatedAt: at(30 * time.Minute)},
	}

	var buf bytes.Buffer
	renderRecords(&buf, recs, meAddress, true, now)

	g := goldie.New(t, goldie.WithFixtureDir("testdata"), goldie.WithNameSuffix(".golden"))
	g.Assert(t, "records_table", buf.Bytes())
}

func TestRenderRecords_Empty(t *testing.T) {
	var buf bytes.Buffer
	renderRecords(&buf, nil, "", false, time.Now())
	assert.Equal(t, "No records found.\n", buf.String())
}

func TestRenderRecords_SingleFooter(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	var buf bytes.Buffer
	renderRecords(&buf, []models.Record{{ID: 7, Name: "x", Owner: otherAddress, UpdatedAt: now.UnixMilli()}}, "", false, now)
	assert.Contains(t, buf.String(), "\n1 record\n")
	assert.NotContains(t, buf.String(), "(you)")
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "0", formatValue(0))
	assert.Equal(t, "999,999,999", formatValue(999_999_999))
	assert.Equal(t, "18446744073709551615", formatValue(^uint64(0)))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 20))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
	assert.Equal(t, "ab…", truncate("ab cdefgh", 4))
}

func TestRenderOperations(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	ops := []models.Operation{
		{ID: "a", Kind: models.OperationCreate, RecordID: 5, State: models.OperationConfirmed,
			CreatedAt: now.Add(-time.Minute * 5).UnixMilli()},
		{ID: "b", Kind: models.OperationDelete, RecordID: 6, State: models.OperationFailed,
			Error: "ledger unavailable", CreatedAt: now.UnixMilli()},
	}
	var buf bytes.Buffer
	renderOperations(&buf, ops, now)
	assert.Equal(t,
		"confirmed create record 5  5 minutes ago\n"+
			"failed    delete record 6  now  (ledger unavailable)\n",
		buf.String())

	buf.Reset()
	renderOperations(&buf, nil, now)
	assert.Equal(t, "No operations yet.\n", buf.String())
}
