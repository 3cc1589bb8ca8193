package ledger

import (
	"context"
	"encoding/base64"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/recordkeeper/internal/client/models"
	"github.com/dmitrijs2005/recordkeeper/internal/common"
	"github.com/dmitrijs2005/recordkeeper/internal/ledgerpb"
	"github.com/dmitrijs2005/recordkeeper/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// Signer proves ownership of an address by signing the server's challenge.
type Signer interface {
	Sign(ctx context.Context, payload []byte) ([]byte, error)
}

type ownerKey struct{}

func withOwner(ctx context.Context, owner string) context.Context {
	return context.WithValue(ctx, ownerKey{}, owner)
}

func ownerFromContext(ctx context.Context) string {
	owner, _ := ctx.Value(ownerKey{}).(string)
	return owner
}

// GRPCClient implements Ledger over the ledger service. Mutations are
// authenticated lazily: the first call for an owner runs the challenge
// exchange and the resulting token is attached by an interceptor.
type GRPCClient struct {
	endpointURL string
	dialOpts    []grpc.DialOption
	conn        *grpc.ClientConn
	client      *ledgerpb.LedgerServiceClient
	signer      Signer
	log         logging.Logger

	mu           sync.Mutex
	accessToken  string
	tokenAddress string
}

type GRPCOption func(*GRPCClient)

func WithDialOptions(opts ...grpc.DialOption) GRPCOption {
	return func(c *GRPCClient) { c.dialOpts = append(c.dialOpts, opts...) }
}

func WithLogger(l logging.Logger) GRPCOption {
	return func(c *GRPCClient) { c.log = l }
}

func NewGRPCClient(endpointURL string, signer Signer, opts ...GRPCOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, signer: signer, log: logging.Nop{}}
	for _, o := range opts {
		o(c)
	}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, c.dialOpts...)

	conn, err := grpc.NewClient(endpointURL, dialOpts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = ledgerpb.NewLedgerServiceClient(conn)
	return c, nil
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AccessTokenHeaderName, token)
	return metadata.NewOutgoingContext(ctx, md)
}

func publicMethod(method string) bool {
	switch method {
	case ledgerpb.MethodPing, ledgerpb.MethodChallenge, ledgerpb.MethodAuthenticate:
		return true
	}
	return false
}

func (c *GRPCClient) token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accessToken
}

func (c *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if publicMethod(method) {
		return invoker(ctx, method, req, reply, cc, opts...)
	}

	err := invoker(withAccessToken(ctx, c.token()), method, req, reply, cc, opts...)
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.Unauthenticated || st.Message() != common.ErrTokenExpired.Error() {
		return err
	}
	owner := ownerFromContext(ctx)
	if owner == "" {
		return err
	}

	c.log.Debug(ctx, "access token expired, re-authenticating", "address", owner)
	if err := c.authenticate(ctx, owner); err != nil {
		return err
	}
	return invoker(withAccessToken(ctx, c.token()), method, req, reply, cc, opts...)
}

func (c *GRPCClient) authenticate(ctx context.Context, address string) error {
	ch, err := c.client.Challenge(ctx, &ledgerpb.ChallengeRequest{Address: address})
	if err != nil {
		return mapError(err)
	}

	sig, err := c.signer.Sign(ctx, []byte(ch.Nonce))
	if err != nil {
		return fmt.Errorf("sign challenge: %w", err)
	}

	resp, err := c.client.Authenticate(ctx, &ledgerpb.AuthenticateRequest{
		Address:   address,
		Nonce:     ch.Nonce,
		Signature: base64.StdEncoding.EncodeToString(sig),
	})
	if err != nil {
		return mapError(err)
	}

	c.mu.Lock()
	c.accessToken = resp.AccessToken
	c.tokenAddress = address
	c.mu.Unlock()
	return nil
}

// ensureToken authenticates when there is no token for owner yet.
func (c *GRPCClient) ensureToken(ctx context.Context, owner string) (context.Context, error) {
	c.mu.Lock()
	ok := c.accessToken != "" && c.tokenAddress == owner
	c.mu.Unlock()

	if !ok {
		if err := c.authenticate(ctx, owner); err != nil {
			return nil, err
		}
	}
	return withOwner(ctx, owner), nil
}

func toModel(r ledgerpb.Record) models.Record {
	return models.Record{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Value:       r.Value,
		Owner:       r.Owner,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func (c *GRPCClient) List(ctx context.Context) ([]models.Record, error) {
	resp, err := c.client.ListRecords(ctx, &ledgerpb.ListRecordsRequest{})
	if err != nil {
		return nil, mapError(err)
	}
	out := make([]models.Record, 0, len(resp.Records))
	for _, r := range resp.Records {
		out = append(out, toModel(r))
	}
	return out, nil
}

func (c *GRPCClient) Create(ctx context.Context, owner string, in models.CreateRecordInput) (models.Record, error) {
	ctx, err := c.ensureToken(ctx, owner)
	if err != nil {
		return models.Record{}, err
	}
	resp, err := c.client.CreateRecord(ctx, &ledgerpb.CreateRecordRequest{
		Name:        in.Name,
		Description: in.Description,
		Value:       in.Value,
	})
	if err != nil {
		return models.Record{}, mapError(err)
	}
	return toModel(resp.Record), nil
}

func (c *GRPCClient) Update(ctx context.Context, owner string, in models.UpdateRecordInput) (models.Record, error) {
	ctx, err := c.ensureToken(ctx, owner)
	if err != nil {
		return models.Record{}, err
	}
	resp, err := c.client.UpdateRecord(ctx, &ledgerpb.UpdateRecordRequest{
		ID:          in.ID,
		Name:        in.Name,
		Description: in.Description,
		Value:       in.Value,
	})
	if err != nil {
		return models.Record{}, mapError(err)
	}
	return toModel(resp.Record), nil
}

func (c *GRPCClient) Delete(ctx context.Context, owner string, id int64) error {
	ctx, err := c.ensureToken(ctx, owner)
	if err != nil {
		return err
	}
	if _, err := c.client.DeleteRecord(ctx, &ledgerpb.RecordIDRequest{ID: id}); err != nil {
		return mapError(err)
	}
	return nil
}

// Count returns the number of records on the ledger.
func (c *GRPCClient) Count(ctx context.Context) (int64, error) {
	resp, err := c.client.CountRecords(ctx, &ledgerpb.CountRecordsRequest{})
	if err != nil {
		return 0, mapError(err)
	}
	return resp.Count, nil
}

// ExportSnapshot asks the service to store a snapshot of all records and
// returns a time-limited download URL.
func (c *GRPCClient) ExportSnapshot(ctx context.Context, owner string) (string, error) {
	ctx, err := c.ensureToken(ctx, owner)
	if err != nil {
		return "", err
	}
	resp, err := c.client.ExportSnapshot(ctx, &ledgerpb.ExportSnapshotRequest{})
	if err != nil {
		return "", mapError(err)
	}
	return resp.URL, nil
}

func (c *GRPCClient) Ping(ctx context.Context) error {
	resp, err := c.client.Ping(ctx, &ledgerpb.PingRequest{})
	if err != nil {
		return mapError(err)
	}
	if resp.Status != "OK" {
		return common.ErrUnavailable
	}
	return nil
}

func (c *GRPCClient) Close() error {
	return c.conn.Close()
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Code() {
	case codes.NotFound:
		return common.ErrNotFound
	case codes.PermissionDenied:
		return common.ErrNotOwner
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", common.ErrValidationFailed, st.Message())
	case codes.Unauthenticated:
		for _, e := range []error{common.ErrTokenExpired, common.ErrInvalidSignature, common.ErrChallengeExpired} {
			if st.Message() == e.Error() {
				return e
			}
		}
		return common.ErrInvalidToken
	case codes.Unavailable, codes.DeadlineExceeded:
		return common.ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
