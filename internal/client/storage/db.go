// Package storage opens the client SQLite database, applies the embedded
// migrations and hands out the repositories bound to it.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/recordkeeper/internal/client/migrations"
	"github.com/dmitrijs2005/recordkeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/recordkeeper/internal/client/repositories/operations"
	"github.com/dmitrijs2005/recordkeeper/internal/client/repositories/records"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

type Repositories struct {
	Metadata   metadata.Repository
	Records    records.Repository
	Operations operations.Repository
}

func NewRepositories(db *sql.DB) *Repositories {
	return &Repositories{
		Metadata:   metadata.NewSQLiteRepository(db),
		Records:    records.NewSQLiteRepository(db),
		Operations: operations.NewSQLiteRepository(db),
	}
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, migrations.Migrations)
	if err != nil {
		return fmt.Errorf("failed to create migration provider: %w", err)
	}

	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// InitDatabase opens the database at dsn and migrates it to the latest version.
func InitDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// sqlite allows one writer; a single connection avoids SQLITE_BUSY between
	// the REPL and the background watcher.
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}
