package challenges

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/recordkeeper/internal/common"
	"github.com/dmitrijs2005/recordkeeper/internal/server/models"
)

// MemoryRepository keeps challenges in a map. It is used when the service
// runs without a database.
type MemoryRepository struct {
	mu    sync.Mutex
	items map[string]models.Challenge
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: map[string]models.Challenge{}}
}

func (r *MemoryRepository) Create(_ context.Context, c models.Challenge) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[c.Nonce] = c
	return nil
}

func (r *MemoryRepository) Take(_ context.Context, nonce string) (*models.Challenge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[nonce]
	if !ok {
		return nil, common.ErrChallengeExpired
	}
	delete(r.items, nonce)
	return &c, nil
}

func (r *MemoryRepository) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for k, c := range r.items {
		if c.Expired(now) {
			delete(r.items, k)
			n++
		}
	}
	return n, nil
}
