// Package server initializes and runs the ledger service: it selects the
// storage backend, wires the services, starts the gRPC endpoint and the
// challenge cleanup loop, and shuts everything down on a signal.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/recordkeeper/internal/logging"
	"github.com/dmitrijs2005/recordkeeper/internal/server/config"
	"github.com/dmitrijs2005/recordkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/recordkeeper/internal/server/services"

	gs "github.com/dmitrijs2005/recordkeeper/internal/server/grpc"
)

const challengeCleanupInterval = time.Minute

type App struct {
	config          *config.Config
	logger          logging.Logger
	repomanager     repomanager.RepositoryManager
	ledgerService   *services.LedgerService
	authService     *services.AuthService
	snapshotService *services.SnapshotService
}

// openRepositories returns the repository manager for the configured
// storage mode; tests replace it.
var openRepositories = func(ctx context.Context, c *config.Config) (repomanager.RepositoryManager, error) {
	if c.StorageMode == config.StorageModeMemory {
		return repomanager.NewMemoryRepositoryManager(), nil
	}
	return repomanager.OpenPostgres(ctx, c.DatabaseDSN)
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	rm, err := openRepositories(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	ls := services.NewLedgerService(rm)
	return &App{
		config:          c,
		logger:          logger,
		repomanager:     rm,
		ledgerService:   ls,
		authService:     services.NewAuthService(rm, c),
		snapshotService: services.NewSnapshotService(ls, c),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.ledgerService, app.authService, app.snapshotService)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run blocks until ctx is cancelled, a termination signal arrives or the
// gRPC server fails.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "storage", app.config.StorageMode)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.authService.RunCleanup(ctx, challengeCleanupInterval, app.logger)
	}()

	wg.Wait()

	if err := app.repomanager.Close(); err != nil {
		app.logger.Error(ctx, "error closing storage", "error", err)
	}
	app.logger.Info(ctx, "Stopped")
}
