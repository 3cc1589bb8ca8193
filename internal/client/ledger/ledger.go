// Package ledger is the client's view of the record ledger. Mock keeps the
// records in memory with simulated network latency; GRPCClient talks to the
// ledger service.
package ledger

import (
	"context"

	"github.com/dmitrijs2005/recordkeeper/internal/client/models"
)

// Ledger is the set of calls the record store makes. owner is the caller's
// wallet address; implementations that enforce ownership check it.
type Ledger interface {
	List(ctx context.Context) ([]models.Record, error)
	Create(ctx context.Context, owner string, in models.CreateRecordInput) (models.Record, error)
	Update(ctx context.Context, owner string, in models.UpdateRecordInput) (models.Record, error)
	Delete(ctx context.Context, owner string, id int64) error
	Ping(ctx context.Context) error
	Close() error
}
