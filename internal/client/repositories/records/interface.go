// Package records caches the last known ledger collection in the client
// database so the list can still be shown when the ledger is unreachable.
package records

import (
	"context"

	"github.com/dmitrijs2005/recordkeeper/internal/client/models"
)

type Repository interface {
	// ReplaceAll swaps the cached collection for records in one transaction.
	ReplaceAll(ctx context.Context, records []models.Record) error
	// Upsert inserts the record or overwrites the cached copy with the same id.
	Upsert(ctx context.Context, record models.Record) error
	// DeleteByID removes the cached record. Missing ids are not an error.
	DeleteByID(ctx context.Context, id int64) error
	// GetAll returns the cached collection ordered by id.
	GetAll(ctx context.Context) ([]models.Record, error)
}
