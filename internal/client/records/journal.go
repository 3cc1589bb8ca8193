package records

import (
	"context"

	"github.com/dmitrijs2005/recordkeeper/internal/client/models"
	"github.com/oklog/ulid/v2"
)

const interruptedMessage = "interrupted before the ledger answered"

// record journals a pending operation and returns its id, or "" when no
// journal is configured. Journal failures never fail the mutation.
func (s *Store) record(ctx context.Context, kind models.OperationKind, recordID int64) string {
	if s.journal == nil {
		return ""
	}
	now := s.now().UnixMilli()
	op := models.Operation{
		ID:        ulid.Make().String(),
		Kind:      kind,
		RecordID:  recordID,
		State:     models.OperationPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.journal.Insert(ctx, op); err != nil {
		s.log.Warn(ctx, "failed to journal operation", "kind", kind, "error", err)
		return ""
	}
	return op.ID
}

// settle moves a journaled operation to confirmed, or failed when cause is set.
func (s *Store) settle(ctx context.Context, id string, cause error) {
	if id == "" {
		return
	}
	state, msg := models.OperationConfirmed, ""
	if cause != nil {
		state, msg = models.OperationFailed, cause.Error()
	}
	// the caller's context may be the one that was cancelled
	if err := s.journal.SetState(context.WithoutCancel(ctx), id, state, msg, s.now().UnixMilli()); err != nil {
		s.log.Warn(ctx, "failed to settle operation", "id", id, "error", err)
	}
}

// RecentOperations returns the newest journaled operations.
func (s *Store) RecentOperations(ctx context.Context, limit int) ([]models.Operation, error) {
	if s.journal == nil {
		return nil, nil
	}
	return s.journal.ListRecent(ctx, limit)
}

// RecoverPending marks operations left pending by a previous run as failed.
// Their outcome on the ledger is unknown; the next fetch shows the truth.
func (s *Store) RecoverPending(ctx context.Context) (int, error) {
	if s.journal == nil {
		return 0, nil
	}
	pending, err := s.journal.ListPending(ctx)
	if err != nil {
		return 0, err
	}
	for _, op := range pending {
		if err := s.journal.SetState(ctx, op.ID, models.OperationFailed, interruptedMessage, s.now().UnixMilli()); err != nil {
			return 0, err
		}
	}
	return len(pending), nil
}
