package services

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/recordkeeper/internal/common"
	"github.com/dmitrijs2005/recordkeeper/internal/server/models"
	"github.com/dmitrijs2005/recordkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/recordkeeper/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	alice = "GALICE"
	bob   = "GBOB"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newLedger(t *testing.T) (*LedgerService, *clock) {
	t.Helper()
	c := &clock{t: time.UnixMilli(1_700_000_000_000)}
	s := NewLedgerService(repomanager.NewMemoryRepositoryManager())
	s.now = c.now
	return s, c
}

func TestLedger_CreateAssignsSequentialIDs(t *testing.T) {
	s, _ := newLedger(t)
	ctx := context.Background()

	r1, err := s.Create(ctx, alice, "first", "d", 10)
	require.NoError(t, err)
	r2, err := s.Create(ctx, bob, "second", "desc", 20)
	require.NoError(t, err)

	assert.Equal(t, int64(1), r1.ID)
	assert.Equal(t, int64(2), r2.ID)
	assert.Equal(t, alice, r1.Owner)
	assert.Equal(t, int64(1_700_000_000_000), r1.CreatedAt)
	assert.Equal(t, r1.CreatedAt, r1.UpdatedAt)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestLedger_CreateRejectsInvalidFields(t *testing.T) {
	s, _ := newLedger(t)

	_, err := s.Create(context.Background(), alice, "", "", validation.MaxValue+1)
	require.ErrorIs(t, err, common.ErrValidationFailed)

	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	assert.NotEmpty(t, verr.Message("name"))
	assert.NotEmpty(t, verr.Message("value"))

	n, _ := s.Count(context.Background())
	assert.Zero(t, n)
}

func TestLedger_Update(t *testing.T) {
	s, c := newLedger(t)
	ctx := context.Background()

	rec, err := s.Create(ctx, alice, "name", "d", 1)
	require.NoError(t, err)

	c.t = c.t.Add(time.Second)
	upd, err := s.Update(ctx, alice, rec.ID, "renamed", "d", 2)
	require.NoError(t, err)
	assert.Equal(t, "renamed", upd.Name)
	assert.Equal(t, uint64(2), upd.Value)
	assert.Equal(t, rec.CreatedAt, upd.CreatedAt)
	assert.Equal(t, rec.CreatedAt+1000, upd.UpdatedAt)

	got, err := s.Read(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, upd, got)
}

func TestLedger_UpdateKeepsTimestampMonotonic(t *testing.T) {
	s, c := newLedger(t)
	ctx := context.Background()

	rec, err := s.Create(ctx, alice, "name", "d", 1)
	require.NoError(t, err)

	c.t = c.t.Add(-time.Hour)
	upd, err := s.Update(ctx, alice, rec.ID, "name", "d", 3)
	require.NoError(t, err)
	assert.Equal(t, rec.UpdatedAt, upd.UpdatedAt)
}

func TestLedger_UpdateErrors(t *testing.T) {
	s, _ := newLedger(t)
	ctx := context.Background()

	rec, err := s.Create(ctx, alice, "name", "d", 1)
	require.NoError(t, err)

	_, err = s.Update(ctx, bob, rec.ID, "mine now", "d", 1)
	require.ErrorIs(t, err, common.ErrNotOwner)

	_, err = s.Update(ctx, alice, 99, "x", "d", 1)
	require.ErrorIs(t, err, common.ErrNotFound)

	_, err = s.Update(ctx, alice, 0, "x", "d", 1)
	require.ErrorIs(t, err, common.ErrValidationFailed)

	got, err := s.Read(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "name", got.Name)
}

func TestLedger_Delete(t *testing.T) {
	s, _ := newLedger(t)
	ctx := context.Background()

	rec, err := s.Create(ctx, alice, "name", "d", 1)
	require.NoError(t, err)

	require.ErrorIs(t, s.Delete(ctx, bob, rec.ID), common.ErrNotOwner)
	require.NoError(t, s.Delete(ctx, alice, rec.ID))
	require.ErrorIs(t, s.Delete(ctx, alice, rec.ID), common.ErrNotFound)

	_, err = s.Read(ctx, rec.ID)
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestLedger_IDsAreNotReused(t *testing.T) {
	s, _ := newLedger(t)
	ctx := context.Background()

	r1, _ := s.Create(ctx, alice, "a", "d", 1)
	require.NoError(t, s.Delete(ctx, alice, r1.ID))
	r2, err := s.Create(ctx, alice, "b", "d", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), r2.ID)
}

func TestLedger_ListAndListByOwner(t *testing.T) {
	s, _ := newLedger(t)
	ctx := context.Background()

	for _, owner := range []string{alice, bob, alice} {
		_, err := s.Create(ctx, owner, "r", "d", 1)
		require.NoError(t, err)
	}

	all, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []int64{1, 2, 3}, ids(all))

	mine, err := s.ListByOwner(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3}, ids(mine))
}

func TestLedger_CreateRollsBackOnCounterFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE counters")).WillReturnError(errors.New("boom"))
	mock.ExpectRollback()

	s := NewLedgerService(repomanager.NewPostgresRepositoryManager(db))
	_, err = s.Create(context.Background(), alice, "name", "d", 1)
	require.ErrorContains(t, err, "error creating record")
	require.NoError(t, mock.ExpectationsWereMet())
}

func ids(recs []models.Record) []int64 {
	out := make([]int64, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.ID)
	}
	return out
}
