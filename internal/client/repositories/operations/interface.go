// Package operations persists the journal of submitted record mutations.
package operations

import (
	"context"

	"github.com/dmitrijs2005/recordkeeper/internal/client/models"
)

type Repository interface {
	Insert(ctx context.Context, op models.Operation) error
	// SetState moves an operation to state and stamps updatedAt. Unknown ids
	// return common.ErrNotFound.
	SetState(ctx context.Context, id string, state models.OperationState, errMsg string, updatedAt int64) error
	GetByID(ctx context.Context, id string) (*models.Operation, error)
	// ListRecent returns up to limit operations, newest first.
	ListRecent(ctx context.Context, limit int) ([]models.Operation, error)
	// ListPending returns operations that never reached a final state.
	ListPending(ctx context.Context) ([]models.Operation, error)
}
