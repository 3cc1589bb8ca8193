package records

import (
	"context"
	"sort"
	"sync"

	"github.com/dmitrijs2005/recordkeeper/internal/common"
	"github.com/dmitrijs2005/recordkeeper/internal/server/models"
)

// MemoryRepository keeps records in a map. It is used when the service runs
// without a database; contents are lost on restart.
type MemoryRepository struct {
	mu      sync.Mutex
	counter int64
	items   map[int64]models.Record
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: map[int64]models.Record{}}
}

func (r *MemoryRepository) NextID(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counter++
	return r.counter, nil
}

func (r *MemoryRepository) Create(_ context.Context, rec *models.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[rec.ID] = *rec
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, id int64) (*models.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.items[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &rec, nil
}

func (r *MemoryRepository) Update(_ context.Context, rec *models.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.items[rec.ID]
	if !ok {
		return common.ErrNotFound
	}
	cur.Name = rec.Name
	cur.Description = rec.Description
	cur.Value = rec.Value
	cur.UpdatedAt = rec.UpdatedAt
	r.items[rec.ID] = cur
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *MemoryRepository) filter(keep func(models.Record) bool) []models.Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Record, 0, len(r.items))
	for _, rec := range r.items {
		if keep(rec) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *MemoryRepository) List(context.Context) ([]models.Record, error) {
	return r.filter(func(models.Record) bool { return true }), nil
}

func (r *MemoryRepository) ListByOwner(_ context.Context, owner string) ([]models.Record, error) {
	return r.filter(func(rec models.Record) bool { return rec.Owner == owner }), nil
}

func (r *MemoryRepository) Count(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.items)), nil
}
