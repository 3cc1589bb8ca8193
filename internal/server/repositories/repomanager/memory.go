package repomanager

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/recordkeeper/internal/dbx"
	"github.com/dmitrijs2005/recordkeeper/internal/server/repositories/challenges"
	"github.com/dmitrijs2005/recordkeeper/internal/server/repositories/records"
)

// MemoryRepositoryManager serves process-local repositories. Transactions
// are serialized but not rolled back.
type MemoryRepositoryManager struct {
	txMu       sync.Mutex
	records    *records.MemoryRepository
	challenges *challenges.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		records:    records.NewMemoryRepository(),
		challenges: challenges.NewMemoryRepository(),
	}
}

func (m *MemoryRepositoryManager) RunMigrations(context.Context) error { return nil }

func (m *MemoryRepositoryManager) Conn() dbx.DBTX { return nil }

func (m *MemoryRepositoryManager) WithTx(ctx context.Context, fn dbx.TxFunc) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()
	return fn(ctx, nil)
}

func (m *MemoryRepositoryManager) Records(dbx.DBTX) records.Repository { return m.records }

func (m *MemoryRepositoryManager) Challenges(dbx.DBTX) challenges.Repository { return m.challenges }

func (m *MemoryRepositoryManager) Close() error { return nil }
