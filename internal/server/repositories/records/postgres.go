package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	"github.com/dmitrijs2005/recordkeeper/internal/common"
	"github.com/dmitrijs2005/recordkeeper/internal/dbx"
	"github.com/dmitrijs2005/recordkeeper/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectColumns = `id, name, description, value, owner, created_at, updated_at`

func (r *PostgresRepository) NextID(ctx context.Context) (int64, error) {
	query := `
		UPDATE counters
		SET value = value + 1
		WHERE name = 'records'
		RETURNING value
	`
	var id int64
	if err := r.db.QueryRowContext(ctx, query).Scan(&id); err != nil {
		return 0, fmt.Errorf("error advancing record counter: %w", err)
	}
	return id, nil
}

func dbValue(v uint64) (int64, error) {
	if v > math.MaxInt64 {
		return 0, fmt.Errorf("value %d out of range", v)
	}
	return int64(v), nil
}

func (r *PostgresRepository) Create(ctx context.Context, rec *models.Record) error {
	value, err := dbValue(rec.Value)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO records (id, name, description, value, owner, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if _, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.Name, rec.Description, value, rec.Owner, rec.CreatedAt, rec.UpdatedAt); err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (models.Record, error) {
	var (
		rec   models.Record
		value int64
	)
	if err := s.Scan(&rec.ID, &rec.Name, &rec.Description, &value, &rec.Owner, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return models.Record{}, err
	}
	if value < 0 {
		return models.Record{}, fmt.Errorf("record %d has negative value", rec.ID)
	}
	rec.Value = uint64(value)
	return rec, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*models.Record, error) {
	query := `SELECT ` + selectColumns + ` FROM records WHERE id = $1`

	rec, err := scanRecord(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &rec, nil
}

func (r *PostgresRepository) Update(ctx context.Context, rec *models.Record) error {
	value, err := dbValue(rec.Value)
	if err != nil {
		return err
	}
	query := `
		UPDATE records
		SET name = $2, description = $3, value = $4, updated_at = $5
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, rec.ID, rec.Name, rec.Description, value, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res)
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]models.Record, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := make([]models.Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]models.Record, error) {
	return r.list(ctx, `SELECT `+selectColumns+` FROM records ORDER BY id`)
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, owner string) ([]models.Record, error) {
	return r.list(ctx, `SELECT `+selectColumns+` FROM records WHERE owner = $1 ORDER BY id`, owner)
}

func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records`).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
