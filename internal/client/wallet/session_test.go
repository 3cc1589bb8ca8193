package wallet

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/recordkeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAddress = "GAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAWHF"

type memStore struct {
	mu     sync.Mutex
	m      map[string][]byte
	setErr error
}

func newMemStore() *memStore { return &memStore{m: map[string][]byte{}} }

func (s *memStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m[key], nil
}

func (s *memStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.setErr != nil {
		return s.setErr
	}
	s.m[key] = value
	return nil
}

func (s *memStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
	return nil
}

func (s *memStore) List(context.Context) (map[string][]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[string][]byte{}
	for k, v := range s.m {
		out[k] = v
	}
	return out, nil
}

func (s *memStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m = map[string][]byte{}
	return nil
}

type fakeProvider struct {
	connected    bool
	connectedErr error
	accessErr    error
	address      string
	block        chan struct{}

	accessCalls atomic.Int32
	signed      [][]byte
}

func (p *fakeProvider) IsConnected(ctx context.Context) (bool, error) {
	if p.block != nil {
		<-p.block
	}
	return p.connected, p.connectedErr
}

func (p *fakeProvider) RequestAccess(context.Context) (string, error) {
	p.accessCalls.Add(1)
	if p.accessErr != nil {
		return "", p.accessErr
	}
	p.connected = true
	return p.address, nil
}

func (p *fakeProvider) GetPublicKey(context.Context) (string, error) { return p.address, nil }

func (p *fakeProvider) GetNetwork(context.Context) (string, error) { return "TESTNET", nil }

func (p *fakeProvider) SignTransaction(_ context.Context, payload []byte, _ SignOptions) ([]byte, error) {
	p.signed = append(p.signed, payload)
	return []byte("sig:" + string(payload)), nil
}

func newTestSession(locate LocateFunc, store *memStore) *Session {
	return NewSession(locate, store, WithPollInterval(time.Millisecond), WithGraceDelay(0))
}

func TestConnect_AlreadyAllowed(t *testing.T) {
	store := newMemStore()
	p := &fakeProvider{connected: true, address: testAddress}
	s := newTestSession(Static(p), store)

	require.NoError(t, s.Connect(context.Background()))

	st := s.State()
	assert.True(t, st.Connected)
	assert.False(t, st.Connecting)
	assert.Equal(t, testAddress, st.PublicKey)
	assert.Empty(t, st.LastError)
	assert.Equal(t, Connected, st.Status())
	assert.Zero(t, p.accessCalls.Load())

	assert.Equal(t, []byte("true"), store.m[common.StorageKeyConnected])
	assert.Equal(t, []byte(testAddress), store.m[common.StorageKeyPublicKey])
}

func TestConnect_RequestsAccess(t *testing.T) {
	p := &fakeProvider{address: testAddress}
	s := newTestSession(Static(p), newMemStore())

	require.NoError(t, s.Connect(context.Background()))
	assert.Equal(t, int32(1), p.accessCalls.Load())
	assert.True(t, s.State().Connected)
}

func TestConnect_AccessDenied(t *testing.T) {
	store := newMemStore()
	p := &fakeProvider{address: testAddress, accessErr: common.ErrAccessDenied}
	s := newTestSession(Static(p), store)

	err := s.Connect(context.Background())
	require.ErrorIs(t, err, common.ErrAccessDenied)

	st := s.State()
	assert.False(t, st.Connected)
	assert.False(t, st.Connecting)
	assert.Empty(t, st.PublicKey)
	assert.Equal(t, common.ErrAccessDenied.Error(), st.LastError)
	assert.Empty(t, store.m)
}

func TestConnect_NotInstalled(t *testing.T) {
	var calls atomic.Int32
	locate := func() (Provider, bool) {
		calls.Add(1)
		return nil, false
	}
	s := newTestSession(locate, newMemStore())

	err := s.Connect(context.Background())
	require.ErrorIs(t, err, common.ErrWalletNotInstalled)
	assert.Equal(t, int32(connectAttempts+1), calls.Load())
	assert.Equal(t, common.ErrWalletNotInstalled.Error(), s.State().LastError)
	assert.False(t, s.State().Connecting)
}

func TestConnect_ProviderAppearsWhileWaiting(t *testing.T) {
	p := &fakeProvider{connected: true, address: testAddress}
	var calls atomic.Int32
	locate := func() (Provider, bool) {
		if calls.Add(1) < 4 {
			return nil, false
		}
		return p, true
	}
	s := newTestSession(locate, newMemStore())

	require.NoError(t, s.Connect(context.Background()))
	assert.Equal(t, int32(4), calls.Load())
}

func TestConnect_ClearsPreviousError(t *testing.T) {
	p := &fakeProvider{address: testAddress, accessErr: common.ErrAccessDenied}
	s := newTestSession(Static(p), newMemStore())

	require.Error(t, s.Connect(context.Background()))
	require.NotEmpty(t, s.State().LastError)

	p.accessErr = nil
	require.NoError(t, s.Connect(context.Background()))
	assert.Empty(t, s.State().LastError)
}

func TestConnect_PersistFailure(t *testing.T) {
	store := newMemStore()
	store.setErr = errors.New("disk full")
	p := &fakeProvider{connected: true, address: testAddress}
	s := newTestSession(Static(p), store)

	err := s.Connect(context.Background())
	require.ErrorContains(t, err, "disk full")
	assert.False(t, s.State().Connected)
}

func TestConnect_ConcurrentCallRejected(t *testing.T) {
	p := &fakeProvider{connected: true, address: testAddress, block: make(chan struct{})}
	s := newTestSession(Static(p), newMemStore())

	done := make(chan error, 1)
	go func() { done <- s.Connect(context.Background()) }()

	require.Eventually(t, func() bool { return s.State().Connecting }, time.Second, time.Millisecond)
	assert.Equal(t, Connecting, s.Status())
	require.ErrorIs(t, s.Connect(context.Background()), common.ErrConnectInProgress)

	close(p.block)
	require.NoError(t, <-done)
	assert.True(t, s.State().Connected)
}

func TestDisconnect_ClearsStateAndStorage(t *testing.T) {
	store := newMemStore()
	p := &fakeProvider{connected: true, address: testAddress}
	s := newTestSession(Static(p), store)
	require.NoError(t, s.Connect(context.Background()))

	require.NoError(t, s.Disconnect(context.Background()))

	st := s.State()
	assert.False(t, st.Connected)
	assert.Empty(t, st.PublicKey)
	assert.Empty(t, st.LastError)
	assert.Empty(t, store.m)

	_, err := s.Sign(context.Background(), []byte("x"))
	require.ErrorIs(t, err, common.ErrNotAuthorized)
}

func TestDisconnect_ClearsLastError(t *testing.T) {
	s := newTestSession(Static(nil), newMemStore())
	require.ErrorIs(t, s.Connect(context.Background()), common.ErrWalletNotInstalled)
	require.NotEmpty(t, s.State().LastError)

	require.NoError(t, s.Disconnect(context.Background()))
	assert.Empty(t, s.State().LastError)
	assert.Equal(t, Disconnected, s.Status())
}

func TestConnect_AlreadyConnectedIsNoop(t *testing.T) {
	p := &fakeProvider{connected: true, address: testAddress}
	s := newTestSession(Static(p), newMemStore())
	require.NoError(t, s.Connect(context.Background()))

	p.connectedErr = errors.New("wallet locked")
	require.NoError(t, s.Connect(context.Background()))

	st := s.State()
	assert.True(t, st.Connected)
	assert.Equal(t, testAddress, st.PublicKey)
	assert.Empty(t, st.LastError)
}

func persisted(address string) *memStore {
	store := newMemStore()
	store.m[common.StorageKeyConnected] = []byte("true")
	store.m[common.StorageKeyPublicKey] = []byte(address)
	return store
}

func TestRestore_NothingPersisted(t *testing.T) {
	located := false
	locate := func() (Provider, bool) {
		located = true
		return nil, false
	}
	s := newTestSession(locate, newMemStore())

	require.NoError(t, s.RestoreFromStorage(context.Background()))
	assert.False(t, s.State().Connected)
	assert.False(t, located)
}

func TestRestore_StillConnected(t *testing.T) {
	p := &fakeProvider{connected: true, address: "GOTHER"}
	s := newTestSession(Static(p), persisted(testAddress))

	require.NoError(t, s.RestoreFromStorage(context.Background()))

	st := s.State()
	assert.True(t, st.Connected)
	assert.Equal(t, testAddress, st.PublicKey)
	assert.Zero(t, p.accessCalls.Load())
}

func TestRestore_RevokedDisconnects(t *testing.T) {
	store := persisted(testAddress)
	p := &fakeProvider{connected: false, address: testAddress}
	s := newTestSession(Static(p), store)

	require.NoError(t, s.RestoreFromStorage(context.Background()))
	assert.False(t, s.State().Connected)
	assert.Empty(t, store.m)
	assert.Zero(t, p.accessCalls.Load())
}

func TestRestore_ProviderErrorDisconnects(t *testing.T) {
	store := persisted(testAddress)
	p := &fakeProvider{connectedErr: errors.New("locked")}
	s := newTestSession(Static(p), store)

	require.NoError(t, s.RestoreFromStorage(context.Background()))
	assert.False(t, s.State().Connected)
	assert.Empty(t, store.m)
}

func TestRestore_ProviderAbsentDisconnects(t *testing.T) {
	store := persisted(testAddress)
	var calls atomic.Int32
	locate := func() (Provider, bool) {
		calls.Add(1)
		return nil, false
	}
	s := newTestSession(locate, store)

	require.NoError(t, s.RestoreFromStorage(context.Background()))
	assert.Equal(t, int32(restoreAttempts+1), calls.Load())
	assert.False(t, s.State().Connected)
	assert.Empty(t, store.m)
}

func TestRestore_HonoursContextDuringGraceDelay(t *testing.T) {
	s := NewSession(Static(nil), persisted(testAddress), WithGraceDelay(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.RestoreFromStorage(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestSign_DelegatesToProvider(t *testing.T) {
	p := &fakeProvider{connected: true, address: testAddress}
	s := newTestSession(Static(p), newMemStore())
	require.NoError(t, s.Connect(context.Background()))

	sig, err := s.Sign(context.Background(), []byte("nonce"))
	require.NoError(t, err)
	assert.Equal(t, []byte("sig:nonce"), sig)
	assert.Equal(t, [][]byte{[]byte("nonce")}, p.signed)

	network, err := s.Network(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "TESTNET", network)
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "disconnected", Disconnected.String())
	assert.Equal(t, "connecting", Connecting.String())
	assert.Equal(t, "connected", Connected.String())
}
