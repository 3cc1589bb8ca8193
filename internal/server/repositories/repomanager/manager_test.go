package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/recordkeeper/internal/dbx"
	"github.com/dmitrijs2005/recordkeeper/internal/server/models"
	"github.com/dmitrijs2005/recordkeeper/internal/server/repositories/challenges"
	"github.com/dmitrijs2005/recordkeeper/internal/server/repositories/records"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ RepositoryManager = (*PostgresRepositoryManager)(nil)
	_ RepositoryManager = (*MemoryRepositoryManager)(nil)
)

func newDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func TestFactories_ReturnConcreteRepos(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	m := NewPostgresRepositoryManager(db)
	assert.IsType(t, &records.PostgresRepository{}, m.Records(db))
	assert.IsType(t, &challenges.PostgresRepository{}, m.Challenges(db))
	assert.Equal(t, dbx.DBTX(db), m.Conn())
}

func TestRunMigrations_Success(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	orig := gooseUp
	defer func() { gooseUp = orig }()
	var got *sql.DB
	gooseUp = func(ctx context.Context, d *sql.DB) error {
		got = d
		return nil
	}

	m := NewPostgresRepositoryManager(db)
	require.NoError(t, m.RunMigrations(context.Background()))
	assert.Same(t, db, got)
}

func TestRunMigrations_Error(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	orig := gooseUp
	defer func() { gooseUp = orig }()
	gooseUp = func(context.Context, *sql.DB) error { return errors.New("boom") }

	err := NewPostgresRepositoryManager(db).RunMigrations(context.Background())
	require.ErrorContains(t, err, "migration error: boom")
}

func TestPostgresWithTx_CommitAndRollback(t *testing.T) {
	db, mock := newDB(t)
	defer db.Close()
	m := NewPostgresRepositoryManager(db)

	mock.ExpectBegin()
	mock.ExpectCommit()
	require.NoError(t, m.WithTx(context.Background(), func(ctx context.Context, tx dbx.DBTX) error {
		assert.NotNil(t, tx)
		return nil
	}))

	mock.ExpectBegin()
	mock.ExpectRollback()
	err := m.WithTx(context.Background(), func(context.Context, dbx.DBTX) error { return errors.New("fail") })
	require.EqualError(t, err, "fail")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMemoryManager_SharesRepositories(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryRepositoryManager()
	require.NoError(t, m.RunMigrations(ctx))

	err := m.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		return m.Records(tx).Create(ctx, &models.Record{ID: 1, Name: "a"})
	})
	require.NoError(t, err)

	n, err := m.Records(m.Conn()).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Same(t, m.Challenges(nil), m.Challenges(m.Conn()))
	require.NoError(t, m.Close())
}
