package operations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/recordkeeper/internal/client/models"
	"github.com/dmitrijs2005/recordkeeper/internal/common"
	"github.com/dmitrijs2005/recordkeeper/internal/dbx"
)

const selectColumns = `SELECT id, kind, record_id, state, error, created_at, updated_at FROM operations`

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Insert(ctx context.Context, op models.Operation) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO operations (id, kind, record_id, state, error, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		op.ID, string(op.Kind), op.RecordID, string(op.State), op.Error, op.CreatedAt, op.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert operation %s: %w", op.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) SetState(ctx context.Context, id string, state models.OperationState, errMsg string, updatedAt int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE operations SET state = ?, error = ?, updated_at = ? WHERE id = ?`,
		string(state), errMsg, updatedAt, id)
	if err != nil {
		return fmt.Errorf("failed to update operation %s: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("operation %s: %w", id, common.ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Operation, error) {
	row := r.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)

	op, err := scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("operation %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get operation %s: %w", id, err)
	}
	return op, nil
}

func (r *SQLiteRepository) ListRecent(ctx context.Context, limit int) ([]models.Operation, error) {
	return r.list(ctx, selectColumns+` ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
}

func (r *SQLiteRepository) ListPending(ctx context.Context) ([]models.Operation, error) {
	return r.list(ctx, selectColumns+` WHERE state = ? ORDER BY created_at, id`, string(models.OperationPending))
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(s scanner) (*models.Operation, error) {
	var (
		op          models.Operation
		kind, state string
	)
	if err := s.Scan(&op.ID, &kind, &op.RecordID, &state, &op.Error, &op.CreatedAt, &op.UpdatedAt); err != nil {
		return nil, err
	}
	op.Kind = models.OperationKind(kind)
	op.State = models.OperationState(state)
	return &op, nil
}

func (r *SQLiteRepository) list(ctx context.Context, query string, args ...any) ([]models.Operation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list operations: %w", err)
	}
	defer rows.Close()

	result := []models.Operation{}
	for rows.Next() {
		op, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan operation row: %w", err)
		}
		result = append(result, *op)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate operation rows: %w", err)
	}
	return result, nil
}
