package wallet

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/dmitrijs2005/recordkeeper/internal/common"
	"github.com/dmitrijs2005/recordkeeper/internal/cryptox"
	"github.com/dmitrijs2005/recordkeeper/internal/filex"
)

// Approver asks the user to confirm wallet actions.
type Approver interface {
	ApproveAccess(ctx context.Context, site, address string) (bool, error)
	Passphrase(ctx context.Context, address string) ([]byte, error)
}

// KeystoreProvider is a Provider backed by a keystore directory. Access is
// granted per site and remembered in grants.json; every signature asks the
// Approver for the passphrase.
type KeystoreProvider struct {
	mu       sync.Mutex
	dir      string
	site     string
	approver Approver
}

func NewKeystoreProvider(dir, site string, approver Approver) *KeystoreProvider {
	return &KeystoreProvider{dir: dir, site: site, approver: approver}
}

// KeystoreLocator finds the wallet once a keystore exists in dir.
func KeystoreLocator(dir, site string, approver Approver) LocateFunc {
	p := NewKeystoreProvider(dir, site, approver)
	return func() (Provider, bool) {
		if !filex.Exists(filepath.Join(dir, KeystoreFileName)) {
			return nil, false
		}
		return p, true
	}
}

func (p *KeystoreProvider) grant() (Grant, bool, error) {
	ks, err := LoadKeystore(p.dir)
	if err != nil {
		return Grant{}, false, err
	}
	g, err := loadGrants(p.dir)
	if err != nil {
		return Grant{}, false, err
	}
	gr, ok := g.Sites[p.site]
	// a grant for a replaced keystore does not count
	if !ok || gr.Address != ks.Address {
		return Grant{}, false, nil
	}
	return gr, true, nil
}

func (p *KeystoreProvider) IsConnected(ctx context.Context) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	_, ok, err := p.grant()
	return ok, err
}

func (p *KeystoreProvider) RequestAccess(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	ks, err := LoadKeystore(p.dir)
	if err != nil {
		return "", err
	}
	if _, ok, err := p.grant(); err != nil {
		return "", err
	} else if ok {
		return ks.Address, nil
	}

	allowed, err := p.approver.ApproveAccess(ctx, p.site, ks.Address)
	if err != nil {
		return "", fmt.Errorf("request access: %w", err)
	}
	if !allowed {
		return "", common.ErrAccessDenied
	}
	if err := AddGrant(p.dir, p.site, ks.Address); err != nil {
		return "", err
	}
	return ks.Address, nil
}

func (p *KeystoreProvider) GetPublicKey(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	gr, ok, err := p.grant()
	if err != nil {
		return "", err
	}
	if !ok {
		return "", common.ErrAccessDenied
	}
	return gr.Address, nil
}

func (p *KeystoreProvider) GetNetwork(ctx context.Context) (string, error) {
	ks, err := LoadKeystore(p.dir)
	if err != nil {
		return "", err
	}
	return ks.Network, nil
}

func (p *KeystoreProvider) SignTransaction(ctx context.Context, payload []byte, opts SignOptions) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok, err := p.grant(); err != nil {
		return nil, err
	} else if !ok {
		return nil, common.ErrAccessDenied
	}

	ks, err := LoadKeystore(p.dir)
	if err != nil {
		return nil, err
	}
	if opts.Network != "" && ks.Network != "" && opts.Network != ks.Network {
		return nil, fmt.Errorf("keystore is for network %q, not %q", ks.Network, opts.Network)
	}

	pass, err := p.approver.Passphrase(ctx, ks.Address)
	if err != nil {
		return nil, fmt.Errorf("read passphrase: %w", err)
	}
	defer common.WipeByteArray(pass)

	seed, err := ks.Unlock(pass)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(seed)

	return cryptox.Sign(seed, payload), nil
}
