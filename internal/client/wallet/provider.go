// Package wallet connects the client to a signing wallet and keeps the
// connection state for the rest of the application.
//
// A Provider is the wallet itself: it answers whether this application has
// been granted access, hands out the public address and signs payloads. The
// Session wraps a Provider with connect, disconnect and restore semantics and
// persists the connection in the client metadata store so it survives a
// restart.
package wallet

import "context"

// SignOptions are passed through to the provider on every signature request.
type SignOptions struct {
	Network string
}

// Provider is the wallet API the session talks to.
type Provider interface {
	// IsConnected reports whether the application already has access.
	IsConnected(ctx context.Context) (bool, error)
	// RequestAccess asks the user to grant access and returns the address.
	// A rejection is reported as common.ErrAccessDenied.
	RequestAccess(ctx context.Context) (string, error)
	GetPublicKey(ctx context.Context) (string, error)
	GetNetwork(ctx context.Context) (string, error)
	SignTransaction(ctx context.Context, payload []byte, opts SignOptions) ([]byte, error)
}

// LocateFunc returns the provider when the wallet is installed.
type LocateFunc func() (Provider, bool)

// Static always locates p. A nil p means the wallet is not installed.
func Static(p Provider) LocateFunc {
	return func() (Provider, bool) {
		return p, p != nil
	}
}
