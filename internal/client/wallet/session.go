package wallet

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/recordkeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/recordkeeper/internal/common"
	"github.com/dmitrijs2005/recordkeeper/internal/logging"
)

const (
	DefaultPollInterval = 100 * time.Millisecond
	DefaultGraceDelay   = time.Second

	connectAttempts = 10
	restoreAttempts = 50
)

type Status int

const (
	Disconnected Status = iota
	Connecting
	Connected
)

func (s Status) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return "disconnected"
	}
}

// State is a snapshot of the session. PublicKey is non-empty iff Connected.
type State struct {
	Connected  bool
	PublicKey  string
	Connecting bool
	LastError  string
}

func (s State) Status() Status {
	switch {
	case s.Connecting:
		return Connecting
	case s.Connected:
		return Connected
	default:
		return Disconnected
	}
}

type Session struct {
	mu       sync.Mutex
	state    State
	provider Provider

	locate       LocateFunc
	store        metadata.Repository
	log          logging.Logger
	pollInterval time.Duration
	graceDelay   time.Duration
	network      string
}

type Option func(*Session)

func WithLogger(l logging.Logger) Option {
	return func(s *Session) { s.log = l }
}

func WithPollInterval(d time.Duration) Option {
	return func(s *Session) { s.pollInterval = d }
}

// WithGraceDelay sets how long RestoreFromStorage waits before it looks at
// the persisted connection.
func WithGraceDelay(d time.Duration) Option {
	return func(s *Session) { s.graceDelay = d }
}

// WithNetwork pins the network passed along with signature requests.
func WithNetwork(n string) Option {
	return func(s *Session) { s.network = n }
}

func NewSession(locate LocateFunc, store metadata.Repository, opts ...Option) *Session {
	s := &Session{
		locate:       locate,
		store:        store,
		log:          logging.Nop{},
		pollInterval: DefaultPollInterval,
		graceDelay:   DefaultGraceDelay,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Status() Status {
	return s.State().Status()
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// waitForProvider checks for the provider and then retries up to attempts
// more times, pollInterval apart.
func (s *Session) waitForProvider(ctx context.Context, attempts int) (Provider, error) {
	for i := 0; ; i++ {
		if p, ok := s.locate(); ok {
			return p, nil
		}
		if i >= attempts {
			return nil, nil
		}
		if err := sleep(ctx, s.pollInterval); err != nil {
			return nil, err
		}
	}
}

// Connect asks the wallet for access and stores the granted address.
// Failures are recorded in LastError and returned. Connect on a session
// that is already connected is a no-op.
func (s *Session) Connect(ctx context.Context) error {
	s.mu.Lock()
	if s.state.Connected {
		s.mu.Unlock()
		return nil
	}
	if s.state.Connecting {
		s.mu.Unlock()
		return common.ErrConnectInProgress
	}
	s.state.Connecting = true
	s.state.LastError = ""
	s.mu.Unlock()

	p, publicKey, err := s.connect(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Connecting = false
	if err != nil {
		s.state.LastError = err.Error()
		s.log.Warn(ctx, "wallet connect failed", "error", err)
		return err
	}
	s.provider = p
	s.state.Connected = true
	s.state.PublicKey = publicKey
	s.log.Info(ctx, "wallet connected", "address", publicKey)
	return nil
}

func (s *Session) connect(ctx context.Context) (Provider, string, error) {
	p, err := s.waitForProvider(ctx, connectAttempts)
	if err != nil {
		return nil, "", err
	}
	if p == nil {
		return nil, "", common.ErrWalletNotInstalled
	}

	connected, err := p.IsConnected(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("check wallet connection: %w", err)
	}
	if !connected {
		if _, err := p.RequestAccess(ctx); err != nil {
			return nil, "", err
		}
	}

	publicKey, err := p.GetPublicKey(ctx)
	if err != nil {
		return nil, "", err
	}
	if publicKey == "" {
		return nil, "", common.ErrAccessDenied
	}

	if err := s.persist(ctx, publicKey); err != nil {
		return nil, "", err
	}
	return p, publicKey, nil
}

func (s *Session) persist(ctx context.Context, publicKey string) error {
	if err := s.store.Set(ctx, common.StorageKeyConnected, []byte("true")); err != nil {
		return err
	}
	return s.store.Set(ctx, common.StorageKeyPublicKey, []byte(publicKey))
}

// Disconnect resets the session and forgets the persisted connection. The
// local state is reset even when the store fails.
func (s *Session) Disconnect(ctx context.Context) error {
	s.mu.Lock()
	s.state.Connected = false
	s.state.PublicKey = ""
	s.state.LastError = ""
	s.provider = nil
	s.mu.Unlock()

	err := errors.Join(
		s.store.Delete(ctx, common.StorageKeyConnected),
		s.store.Delete(ctx, common.StorageKeyPublicKey),
	)
	if err != nil {
		s.log.Warn(ctx, "failed to clear persisted wallet connection", "error", err)
	}
	return err
}

// RestoreFromStorage reconnects silently when a previous connection was
// persisted and the wallet still reports access. Otherwise it disconnects.
func (s *Session) RestoreFromStorage(ctx context.Context) error {
	if err := sleep(ctx, s.graceDelay); err != nil {
		return err
	}

	connected, err := s.store.Get(ctx, common.StorageKeyConnected)
	if err != nil {
		return err
	}
	publicKey, err := s.store.Get(ctx, common.StorageKeyPublicKey)
	if err != nil {
		return err
	}
	if string(connected) != "true" || len(publicKey) == 0 {
		return nil
	}

	p, err := s.waitForProvider(ctx, restoreAttempts)
	if err != nil {
		return err
	}
	if p == nil {
		s.log.Info(ctx, "wallet not found, dropping persisted connection")
		return s.Disconnect(ctx)
	}

	ok, err := p.IsConnected(ctx)
	if err != nil {
		s.log.Warn(ctx, "error checking wallet connection", "error", err)
		return s.Disconnect(ctx)
	}
	if !ok {
		return s.Disconnect(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.provider = p
	s.state.Connected = true
	s.state.PublicKey = string(publicKey)
	s.log.Info(ctx, "wallet connection restored", "address", s.state.PublicKey)
	return nil
}

// Sign asks the connected wallet to sign payload.
func (s *Session) Sign(ctx context.Context, payload []byte) ([]byte, error) {
	s.mu.Lock()
	p, connected := s.provider, s.state.Connected
	s.mu.Unlock()

	if !connected || p == nil {
		return nil, common.ErrNotAuthorized
	}
	return p.SignTransaction(ctx, payload, SignOptions{Network: s.network})
}

// Network returns the wallet network, or "" when not connected.
func (s *Session) Network(ctx context.Context) (string, error) {
	s.mu.Lock()
	p := s.provider
	s.mu.Unlock()

	if p == nil {
		return "", nil
	}
	return p.GetNetwork(ctx)
}
