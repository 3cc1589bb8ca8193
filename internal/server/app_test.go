package server

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/recordkeeper/internal/logging"
	"github.com/dmitrijs2005/recordkeeper/internal/server/config"
	"github.com/dmitrijs2005/recordkeeper/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig() *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	c.StorageMode = config.StorageModeMemory
	c.EndpointAddrGRPC = "127.0.0.1:0"
	return c
}

func TestNewApp_MemoryStorage(t *testing.T) {
	app, err := NewApp(context.Background(), memoryConfig(), logging.Nop{})
	require.NoError(t, err)
	assert.IsType(t, &repomanager.MemoryRepositoryManager{}, app.repomanager)
	assert.NotNil(t, app.ledgerService)
	assert.NotNil(t, app.authService)
	assert.NotNil(t, app.snapshotService)
}

func TestNewApp_StorageError(t *testing.T) {
	orig := openRepositories
	t.Cleanup(func() { openRepositories = orig })
	openRepositories = func(context.Context, *config.Config) (repomanager.RepositoryManager, error) {
		return nil, errors.New("no db")
	}

	_, err := NewApp(context.Background(), memoryConfig(), logging.Nop{})
	require.ErrorContains(t, err, "db init error")
}

func TestRun_StopsOnCancel(t *testing.T) {
	app, err := NewApp(context.Background(), memoryConfig(), logging.Nop{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		app.Run(ctx)
		close(done)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("app did not stop")
	}
}

func TestRun_StopsWhenServerFails(t *testing.T) {
	c := memoryConfig()
	c.EndpointAddrGRPC = "127.0.0.1:99999"
	app, err := NewApp(context.Background(), c, logging.Nop{})
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		app.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("app did not stop after listen failure")
	}
}
