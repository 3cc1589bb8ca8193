// Package grpc exposes the ledger services over gRPC.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/recordkeeper/internal/ledgerpb"
	"github.com/dmitrijs2005/recordkeeper/internal/logging"
	"github.com/dmitrijs2005/recordkeeper/internal/server/services"
	"google.golang.org/grpc"
)

type GRPCServer struct {
	ledgerpb.UnimplementedLedgerServiceServer
	address   string
	ledger    *services.LedgerService
	auth      *services.AuthService
	snapshots *services.SnapshotService
	logger    logging.Logger
}

func NewGRPCServer(a string, l logging.Logger, ls *services.LedgerService, as *services.AuthService, ss *services.SnapshotService) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		ledger:    ls,
		auth:      as,
		snapshots: ss,
	}
}

// newServer builds a grpc.Server with the interceptor chain and the ledger
// service registered.
func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))
	ledgerpb.RegisterLedgerServiceServer(srv, s)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
