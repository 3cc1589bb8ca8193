package grpc

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/recordkeeper/internal/logging"
	"github.com/dmitrijs2005/recordkeeper/internal/server/config"
	"github.com/dmitrijs2005/recordkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/recordkeeper/internal/server/services"
)

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:                   "secret",
		AccessTokenValidityDuration: time.Hour,
		ChallengeValidityDuration:   time.Minute,
	}
}

// newTestServer wires a GRPCServer over in-memory repositories.
func newTestServer(t *testing.T) *GRPCServer {
	t.Helper()
	rm := repomanager.NewMemoryRepositoryManager()
	ls := services.NewLedgerService(rm)
	as := services.NewAuthService(rm, testConfig())
	return NewGRPCServer("127.0.0.1:0", logging.Nop{}, ls, as, nil)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx)
	}()

	select {
	case err := <-done:
		t.Fatalf("server exited too early: %v", err)
	case <-time.After(150 * time.Millisecond):
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error on graceful stop: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop within timeout after context cancel")
	}
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	srv.address = "127.0.0.1:99999"

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := srv.Run(ctx); err == nil {
		t.Fatal("expected error from Run on bad address, got nil")
	}
}
