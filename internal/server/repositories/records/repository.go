// Package records persists ledger records.
package records

import (
	"context"

	"github.com/dmitrijs2005/recordkeeper/internal/server/models"
)

// Repository defines record storage. Lookups of unknown ids return
// common.ErrNotFound.
type Repository interface {
	// NextID advances the record counter and returns the new value.
	NextID(ctx context.Context) (int64, error)
	Create(ctx context.Context, r *models.Record) error
	Get(ctx context.Context, id int64) (*models.Record, error)
	// Update overwrites name, description, value and updated_at.
	Update(ctx context.Context, r *models.Record) error
	Delete(ctx context.Context, id int64) error
	// List returns every record ordered by id.
	List(ctx context.Context) ([]models.Record, error)
	ListByOwner(ctx context.Context, owner string) ([]models.Record, error)
	Count(ctx context.Context) (int64, error)
}
