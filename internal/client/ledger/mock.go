package ledger

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/recordkeeper/internal/client/models"
	"github.com/dmitrijs2005/recordkeeper/internal/common"
)

const (
	DefaultCreateLatency = 2 * time.Second
	DefaultUpdateLatency = 1500 * time.Millisecond
	DefaultDeleteLatency = time.Second

	// PlaceholderOwner owns the example record the mock starts with.
	PlaceholderOwner = "GBXXXXX..."
)

// Mock implements Ledger in memory. It does not check ownership.
type Mock struct {
	mu      sync.Mutex
	records map[int64]models.Record
	lastID  int64
	now     func() time.Time

	createLatency time.Duration
	updateLatency time.Duration
	deleteLatency time.Duration
	failWith      error
}

type MockOption func(*Mock)

// WithClock overrides the clock used for ids and timestamps.
func WithClock(fn func() time.Time) MockOption {
	return func(m *Mock) {
		if fn != nil {
			m.now = fn
		}
	}
}

// WithLatency sets the simulated network delay of each mutation.
func WithLatency(create, update, del time.Duration) MockOption {
	return func(m *Mock) {
		m.createLatency = create
		m.updateLatency = update
		m.deleteLatency = del
	}
}

// WithoutSeed starts the mock empty.
func WithoutSeed() MockOption {
	return func(m *Mock) {
		m.records = map[int64]models.Record{}
	}
}

func NewMock(opts ...MockOption) *Mock {
	m := &Mock{
		now:           time.Now,
		createLatency: DefaultCreateLatency,
		updateLatency: DefaultUpdateLatency,
		deleteLatency: DefaultDeleteLatency,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.records == nil {
		now := m.now().UnixMilli()
		m.records = map[int64]models.Record{
			1: {
				ID:          1,
				Name:        "Example record",
				Description: "This is an example record",
				Value:       1000,
				Owner:       PlaceholderOwner,
				CreatedAt:   now,
				UpdatedAt:   now,
			},
		}
		m.lastID = 1
	}
	return m
}

// FailWith makes every following call return err. nil restores normal behaviour.
func (m *Mock) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWith = err
}

func (m *Mock) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (m *Mock) failure() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.failWith
}

func (m *Mock) List(ctx context.Context) ([]models.Record, error) {
	if err := m.failure(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.Record, 0, len(m.records))
	for _, r := range m.records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// nextID derives the id from the clock and bumps it past any id in use.
func (m *Mock) nextID(now int64) int64 {
	id := now
	if id <= m.lastID {
		id = m.lastID + 1
	}
	for {
		if _, taken := m.records[id]; !taken {
			break
		}
		id++
	}
	m.lastID = id
	return id
}

func (m *Mock) Create(ctx context.Context, owner string, in models.CreateRecordInput) (models.Record, error) {
	if err := m.wait(ctx, m.createLatency); err != nil {
		return models.Record{}, err
	}
	if err := m.failure(); err != nil {
		return models.Record{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now().UnixMilli()
	r := models.Record{
		ID:          m.nextID(now),
		Name:        in.Name,
		Description: in.Description,
		Value:       in.Value,
		Owner:       owner,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	m.records[r.ID] = r
	return r, nil
}

func (m *Mock) Update(ctx context.Context, owner string, in models.UpdateRecordInput) (models.Record, error) {
	if err := m.wait(ctx, m.updateLatency); err != nil {
		return models.Record{}, err
	}
	if err := m.failure(); err != nil {
		return models.Record{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.records[in.ID]
	if !ok {
		return models.Record{}, fmt.Errorf("record %d: %w", in.ID, common.ErrNotFound)
	}
	r.Name = in.Name
	r.Description = in.Description
	r.Value = in.Value
	if now := m.now().UnixMilli(); now > r.UpdatedAt {
		r.UpdatedAt = now
	}
	m.records[r.ID] = r
	return r, nil
}

func (m *Mock) Delete(ctx context.Context, owner string, id int64) error {
	if err := m.wait(ctx, m.deleteLatency); err != nil {
		return err
	}
	if err := m.failure(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, id)
	return nil
}

func (m *Mock) Ping(ctx context.Context) error {
	if err := m.failure(); err != nil {
		return common.ErrUnavailable
	}
	return ctx.Err()
}

func (m *Mock) Close() error { return nil }
