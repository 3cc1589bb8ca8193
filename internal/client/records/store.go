// Package records holds the client's record collection and the operations
// that change it. Every mutation goes through the ledger first; the local
// collection only reflects what the ledger confirmed.
package records

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/recordkeeper/internal/client/ledger"
	"github.com/dmitrijs2005/recordkeeper/internal/client/models"
	"github.com/dmitrijs2005/recordkeeper/internal/client/repositories/operations"
	cache "github.com/dmitrijs2005/recordkeeper/internal/client/repositories/records"
	"github.com/dmitrijs2005/recordkeeper/internal/client/wallet"
	"github.com/dmitrijs2005/recordkeeper/internal/common"
	"github.com/dmitrijs2005/recordkeeper/internal/logging"
	"github.com/dmitrijs2005/recordkeeper/internal/validation"
)

// Session is the part of the wallet session the store depends on.
type Session interface {
	State() wallet.State
}

type Validator interface {
	ValidateCreate(in models.CreateRecordInput) error
	ValidateUpdate(in models.UpdateRecordInput) error
}

// DefaultValidator applies the field rules from the validation package.
type DefaultValidator struct{}

func (DefaultValidator) ValidateCreate(in models.CreateRecordInput) error {
	return validation.Create(in.Name, in.Description, in.Value)
}

func (DefaultValidator) ValidateUpdate(in models.UpdateRecordInput) error {
	return validation.Update(in.ID, in.Name, in.Description, in.Value)
}

// State is a snapshot of the store. Stale is set while the collection comes
// from the local cache instead of the ledger.
type State struct {
	Records []models.Record
	Loading bool
	Error   string
	Stale   bool
}

type Store struct {
	mu      sync.Mutex
	records []models.Record
	loading bool
	err     string
	stale   bool

	ledger    ledger.Ledger
	session   Session
	validator Validator
	cache     cache.Repository
	journal   operations.Repository
	log       logging.Logger
	now       func() time.Time
}

type Option func(*Store)

func WithValidator(v Validator) Option {
	return func(s *Store) { s.validator = v }
}

// WithCache keeps a copy of the collection in repo for offline use.
func WithCache(repo cache.Repository) Option {
	return func(s *Store) { s.cache = repo }
}

// WithJournal records every mutation and its outcome in repo.
func WithJournal(repo operations.Repository) Option {
	return func(s *Store) { s.journal = repo }
}

func WithLogger(l logging.Logger) Option {
	return func(s *Store) { s.log = l }
}

func WithClock(fn func() time.Time) Option {
	return func(s *Store) {
		if fn != nil {
			s.now = fn
		}
	}
}

func NewStore(l ledger.Ledger, session Session, opts ...Option) *Store {
	s := &Store{
		ledger:    l,
		session:   session,
		validator: DefaultValidator{},
		log:       logging.Nop{},
		now:       time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		Records: append([]models.Record(nil), s.records...),
		Loading: s.loading,
		Error:   s.err,
		Stale:   s.stale,
	}
}

func (s *Store) Records() []models.Record {
	return s.State().Records
}

// Find returns the record with id from the current collection.
func (s *Store) Find(id int64) (models.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.records[i], true
	}
	return models.Record{}, false
}

func (s *Store) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = ""
}

func (s *Store) begin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = true
	s.err = ""
}

func (s *Store) end() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
}

func (s *Store) fail(err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err.Error()
	return err
}

func (s *Store) indexOf(id int64) int {
	for i, r := range s.records {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) owner() (string, error) {
	st := s.session.State()
	if !st.Connected || st.PublicKey == "" {
		return "", common.ErrNotAuthorized
	}
	return st.PublicKey, nil
}

// LoadCached fills an empty collection from the local cache.
func (s *Store) LoadCached(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	cached, err := s.cache.GetAll(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.records) == 0 {
		s.records = cached
		s.stale = true
	}
	return nil
}

// FetchRecords replaces the collection with the ledger's. When the ledger
// cannot be reached the cached collection is shown and the error kept.
func (s *Store) FetchRecords(ctx context.Context) error {
	s.begin()
	defer s.end()

	list, err := s.ledger.List(ctx)
	if err != nil {
		err = fmt.Errorf("fetch records: %w", err)
		s.log.Warn(ctx, "fetching records failed", "error", err)
		if s.cache != nil {
			if cached, cerr := s.cache.GetAll(ctx); cerr == nil {
				s.mu.Lock()
				s.records = cached
				s.stale = true
				s.mu.Unlock()
			}
		}
		return s.fail(err)
	}

	s.mu.Lock()
	s.records = list
	s.stale = false
	s.mu.Unlock()

	if s.cache != nil {
		if err := s.cache.ReplaceAll(ctx, list); err != nil {
			s.log.Warn(ctx, "failed to refresh record cache", "error", err)
		}
	}
	return nil
}

func submissionFailed(err error) error {
	return fmt.Errorf("%w: %w", common.ErrSubmissionFailed, err)
}

func (s *Store) CreateRecord(ctx context.Context, in models.CreateRecordInput) (models.Record, error) {
	owner, err := s.owner()
	if err != nil {
		return models.Record{}, err
	}

	s.begin()
	defer s.end()

	if err := s.validator.ValidateCreate(in); err != nil {
		return models.Record{}, s.fail(err)
	}

	op := s.record(ctx, models.OperationCreate, 0)
	rec, err := s.ledger.Create(ctx, owner, in)
	if err != nil {
		s.settle(ctx, op, err)
		return models.Record{}, s.fail(submissionFailed(err))
	}

	s.mu.Lock()
	s.records = append(s.records, rec)
	s.mu.Unlock()

	s.cacheUpsert(ctx, rec)
	s.settle(ctx, op, nil)
	s.log.Info(ctx, "record created", "id", rec.ID, "owner", owner)
	return rec, nil
}

func (s *Store) UpdateRecord(ctx context.Context, in models.UpdateRecordInput) (models.Record, error) {
	owner, err := s.owner()
	if err != nil {
		return models.Record{}, err
	}

	s.begin()
	defer s.end()

	if err := s.validator.ValidateUpdate(in); err != nil {
		return models.Record{}, s.fail(err)
	}
	if _, ok := s.Find(in.ID); !ok {
		return models.Record{}, s.fail(fmt.Errorf("record %d: %w", in.ID, common.ErrNotFound))
	}

	op := s.record(ctx, models.OperationUpdate, in.ID)
	confirmed, err := s.ledger.Update(ctx, owner, in)
	if err != nil {
		s.settle(ctx, op, err)
		return models.Record{}, s.fail(submissionFailed(err))
	}

	s.mu.Lock()
	i := s.indexOf(in.ID)
	if i < 0 {
		// removed by a concurrent fetch; the ledger still confirmed it
		s.mu.Unlock()
		s.settle(ctx, op, nil)
		return confirmed, nil
	}
	rec := s.records[i]
	rec.Name = in.Name
	rec.Description = in.Description
	rec.Value = in.Value
	updatedAt := confirmed.UpdatedAt
	if updatedAt == 0 {
		updatedAt = s.now().UnixMilli()
	}
	if updatedAt > rec.UpdatedAt {
		rec.UpdatedAt = updatedAt
	}
	s.records[i] = rec
	s.mu.Unlock()

	s.cacheUpsert(ctx, rec)
	s.settle(ctx, op, nil)
	s.log.Info(ctx, "record updated", "id", rec.ID)
	return rec, nil
}

// DeleteRecord removes the record. Ids not in the collection are ignored.
func (s *Store) DeleteRecord(ctx context.Context, id int64) error {
	owner, err := s.owner()
	if err != nil {
		return err
	}

	s.begin()
	defer s.end()

	if _, ok := s.Find(id); !ok {
		return nil
	}

	op := s.record(ctx, models.OperationDelete, id)
	if err := s.ledger.Delete(ctx, owner, id); err != nil && !errors.Is(err, common.ErrNotFound) {
		s.settle(ctx, op, err)
		return s.fail(submissionFailed(err))
	}

	s.mu.Lock()
	if i := s.indexOf(id); i >= 0 {
		s.records = append(s.records[:i:i], s.records[i+1:]...)
	}
	s.mu.Unlock()

	if s.cache != nil {
		if err := s.cache.DeleteByID(ctx, id); err != nil {
			s.log.Warn(ctx, "failed to update record cache", "error", err)
		}
	}
	s.settle(ctx, op, nil)
	s.log.Info(ctx, "record deleted", "id", id)
	return nil
}

func (s *Store) cacheUpsert(ctx context.Context, rec models.Record) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Upsert(ctx, rec); err != nil {
		s.log.Warn(ctx, "failed to update record cache", "error", err)
	}
}
