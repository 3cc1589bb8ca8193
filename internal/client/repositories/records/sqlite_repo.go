package records

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/recordkeeper/internal/client/models"
	"github.com/dmitrijs2005/recordkeeper/internal/dbx"
)

const upsertQuery = `
	INSERT INTO records (id, name, description, value, owner, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		name = excluded.name,
		description = excluded.description,
		value = excluded.value,
		owner = excluded.owner,
		created_at = excluded.created_at,
		updated_at = excluded.updated_at
`

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func upsert(ctx context.Context, db dbx.DBTX, r models.Record) error {
	// value is stored as text: database/sql refuses uint64 with the high bit set.
	_, err := db.ExecContext(ctx, upsertQuery,
		r.ID, r.Name, r.Description, strconv.FormatUint(r.Value, 10), r.Owner, r.CreatedAt, r.UpdatedAt)
	return err
}

func (r *SQLiteRepository) Upsert(ctx context.Context, record models.Record) error {
	if err := upsert(ctx, r.db, record); err != nil {
		return fmt.Errorf("failed to upsert record %d: %w", record.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) ReplaceAll(ctx context.Context, records []models.Record) error {
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM records`); err != nil {
			return err
		}
		for _, rec := range records {
			if err := upsert(ctx, tx, rec); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to replace records: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM records WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete record %d: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, description, value, owner, created_at, updated_at
		FROM records ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to select records: %w", err)
	}
	defer rows.Close()

	result := []models.Record{}
	for rows.Next() {
		var (
			item  models.Record
			value string
		)
		if err := rows.Scan(&item.ID, &item.Name, &item.Description, &value, &item.Owner, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan record row: %w", err)
		}
		item.Value, err = strconv.ParseUint(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("record %d has invalid value %q: %w", item.ID, value, err)
		}
		result = append(result, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate record rows: %w", err)
	}

	return result, nil
}
