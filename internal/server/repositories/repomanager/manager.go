// Package repomanager vends repositories bound to a database handle and
// runs work in transactions, for both the PostgreSQL and in-memory backends.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/recordkeeper/internal/dbx"
	"github.com/dmitrijs2005/recordkeeper/internal/server/repositories/challenges"
	"github.com/dmitrijs2005/recordkeeper/internal/server/repositories/records"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	// Conn is the handle for work outside a transaction.
	Conn() dbx.DBTX
	// WithTx runs fn in a transaction; repositories built from tx take part in it.
	WithTx(ctx context.Context, fn dbx.TxFunc) error
	Records(db dbx.DBTX) records.Repository
	Challenges(db dbx.DBTX) challenges.Repository
	Close() error
}
