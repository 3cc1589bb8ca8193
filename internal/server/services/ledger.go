// Package services contains server-side business logic. This file implements
// LedgerService, which owns record lifecycle rules: validation, id
// assignment, ownership and timestamps.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/recordkeeper/internal/common"
	"github.com/dmitrijs2005/recordkeeper/internal/dbx"
	"github.com/dmitrijs2005/recordkeeper/internal/server/models"
	"github.com/dmitrijs2005/recordkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/recordkeeper/internal/validation"
)

type LedgerService struct {
	repomanager repomanager.RepositoryManager
	now         func() time.Time
}

func NewLedgerService(m repomanager.RepositoryManager) *LedgerService {
	return &LedgerService{repomanager: m, now: time.Now}
}

// Create validates the fields, assigns the next id and stores a record owned
// by caller. Counter advance and insert share one transaction.
func (s *LedgerService) Create(ctx context.Context, caller, name, description string, value uint64) (*models.Record, error) {
	if err := validation.Create(name, description, value); err != nil {
		return nil, err
	}

	ts := s.now().UnixMilli()
	rec := &models.Record{
		Name:        name,
		Description: description,
		Value:       value,
		Owner:       caller,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}

	if err := s.repomanager.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Records(tx)
		id, err := repo.NextID(ctx)
		if err != nil {
			return err
		}
		rec.ID = id
		return repo.Create(ctx, rec)
	}); err != nil {
		return nil, fmt.Errorf("error creating record: %w", err)
	}
	return rec, nil
}

func (s *LedgerService) Read(ctx context.Context, id int64) (*models.Record, error) {
	return s.repomanager.Records(s.repomanager.Conn()).Get(ctx, id)
}

// Update overwrites name, description and value of a record owned by caller.
// UpdatedAt never moves backwards.
func (s *LedgerService) Update(ctx context.Context, caller string, id int64, name, description string, value uint64) (*models.Record, error) {
	if err := validation.Update(id, name, description, value); err != nil {
		return nil, err
	}

	var out *models.Record
	err := s.repomanager.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Records(tx)
		rec, err := owned(ctx, repo.Get, id, caller)
		if err != nil {
			return err
		}
		rec.Name = name
		rec.Description = description
		rec.Value = value
		rec.UpdatedAt = max(s.now().UnixMilli(), rec.UpdatedAt)
		if err := repo.Update(ctx, rec); err != nil {
			return err
		}
		out = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *LedgerService) Delete(ctx context.Context, caller string, id int64) error {
	return s.repomanager.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Records(tx)
		if _, err := owned(ctx, repo.Get, id, caller); err != nil {
			return err
		}
		return repo.Delete(ctx, id)
	})
}

func (s *LedgerService) List(ctx context.Context) ([]models.Record, error) {
	return s.repomanager.Records(s.repomanager.Conn()).List(ctx)
}

func (s *LedgerService) ListByOwner(ctx context.Context, owner string) ([]models.Record, error) {
	return s.repomanager.Records(s.repomanager.Conn()).ListByOwner(ctx, owner)
}

func (s *LedgerService) Count(ctx context.Context) (int64, error) {
	return s.repomanager.Records(s.repomanager.Conn()).Count(ctx)
}

func owned(ctx context.Context, get func(context.Context, int64) (*models.Record, error), id int64, caller string) (*models.Record, error) {
	rec, err := get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.Owner != caller {
		return nil, common.ErrNotOwner
	}
	return rec, nil
}
