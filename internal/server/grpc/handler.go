package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/recordkeeper/internal/common"
	"github.com/dmitrijs2005/recordkeeper/internal/ledgerpb"
	"github.com/dmitrijs2005/recordkeeper/internal/server/models"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func toPB(r *models.Record) ledgerpb.Record {
	return ledgerpb.Record{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Value:       r.Value,
		Owner:       r.Owner,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// toStatus maps service errors onto gRPC status codes. Authentication
// failures keep the sentinel text so clients can tell them apart.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, common.ErrValidationFailed):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrNotFound):
		return status.Error(codes.NotFound, common.ErrNotFound.Error())
	case errors.Is(err, common.ErrNotOwner):
		return status.Error(codes.PermissionDenied, common.ErrNotOwner.Error())
	}
	for _, e := range []error{common.ErrTokenExpired, common.ErrInvalidSignature, common.ErrChallengeExpired, common.ErrInvalidToken} {
		if errors.Is(err, e) {
			return status.Error(codes.Unauthenticated, e.Error())
		}
	}
	s.logger.Error(ctx, err.Error())
	return status.Error(codes.Internal, "internal error")
}

func (s *GRPCServer) Ping(ctx context.Context, req *ledgerpb.PingRequest) (*ledgerpb.PingResponse, error) {
	return &ledgerpb.PingResponse{Status: "OK"}, nil
}

func (s *GRPCServer) Challenge(ctx context.Context, req *ledgerpb.ChallengeRequest) (*ledgerpb.ChallengeResponse, error) {
	c, err := s.auth.Challenge(ctx, req.Address)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &ledgerpb.ChallengeResponse{Nonce: c.Nonce, ExpiresAt: c.ExpiresAt.UnixMilli()}, nil
}

func (s *GRPCServer) Authenticate(ctx context.Context, req *ledgerpb.AuthenticateRequest) (*ledgerpb.AuthenticateResponse, error) {
	token, err := s.auth.Authenticate(ctx, req.Address, req.Nonce, req.Signature)
	if err != nil {
		s.logger.Info(ctx, "authentication rejected", "address", req.Address, "reason", err.Error())
		return nil, s.toStatus(ctx, err)
	}
	s.logger.Info(ctx, "authenticated", "address", req.Address)
	return &ledgerpb.AuthenticateResponse{AccessToken: token}, nil
}

func (s *GRPCServer) CreateRecord(ctx context.Context, req *ledgerpb.CreateRecordRequest) (*ledgerpb.RecordResponse, error) {
	caller, ok := callerFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}
	rec, err := s.ledger.Create(ctx, caller, req.Name, req.Description, req.Value)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	s.logger.Info(ctx, "record created", "id", rec.ID, "owner", caller)
	return &ledgerpb.RecordResponse{Record: toPB(rec)}, nil
}

func (s *GRPCServer) ReadRecord(ctx context.Context, req *ledgerpb.RecordIDRequest) (*ledgerpb.RecordResponse, error) {
	rec, err := s.ledger.Read(ctx, req.ID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &ledgerpb.RecordResponse{Record: toPB(rec)}, nil
}

func (s *GRPCServer) UpdateRecord(ctx context.Context, req *ledgerpb.UpdateRecordRequest) (*ledgerpb.RecordResponse, error) {
	caller, ok := callerFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}
	rec, err := s.ledger.Update(ctx, caller, req.ID, req.Name, req.Description, req.Value)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	s.logger.Info(ctx, "record updated", "id", rec.ID)
	return &ledgerpb.RecordResponse{Record: toPB(rec)}, nil
}

func (s *GRPCServer) DeleteRecord(ctx context.Context, req *ledgerpb.RecordIDRequest) (*ledgerpb.DeleteRecordResponse, error) {
	caller, ok := callerFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}
	if err := s.ledger.Delete(ctx, caller, req.ID); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	s.logger.Info(ctx, "record deleted", "id", req.ID)
	return &ledgerpb.DeleteRecordResponse{}, nil
}

func (s *GRPCServer) ListRecords(ctx context.Context, req *ledgerpb.ListRecordsRequest) (*ledgerpb.ListRecordsResponse, error) {
	var (
		recs []models.Record
		err  error
	)
	if req.Owner != "" {
		recs, err = s.ledger.ListByOwner(ctx, req.Owner)
	} else {
		recs, err = s.ledger.List(ctx)
	}
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	out := make([]ledgerpb.Record, 0, len(recs))
	for i := range recs {
		out = append(out, toPB(&recs[i]))
	}
	return &ledgerpb.ListRecordsResponse{Records: out}, nil
}

func (s *GRPCServer) CountRecords(ctx context.Context, req *ledgerpb.CountRecordsRequest) (*ledgerpb.CountRecordsResponse, error) {
	n, err := s.ledger.Count(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &ledgerpb.CountRecordsResponse{Count: n}, nil
}

func (s *GRPCServer) ExportSnapshot(ctx context.Context, req *ledgerpb.ExportSnapshotRequest) (*ledgerpb.ExportSnapshotResponse, error) {
	if s.snapshots == nil {
		return nil, status.Error(codes.FailedPrecondition, "snapshot storage is not configured")
	}
	caller, _ := callerFromContext(ctx)
	key, url, err := s.snapshots.Export(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	s.logger.Info(ctx, "snapshot exported", "key", key, "by", caller)
	return &ledgerpb.ExportSnapshotResponse{Key: key, URL: url}, nil
}
