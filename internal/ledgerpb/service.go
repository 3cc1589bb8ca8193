package ledgerpb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "recordkeeper.ledger.LedgerService"

const (
	MethodPing           = "/" + ServiceName + "/Ping"
	MethodChallenge      = "/" + ServiceName + "/Challenge"
	MethodAuthenticate   = "/" + ServiceName + "/Authenticate"
	MethodCreateRecord   = "/" + ServiceName + "/CreateRecord"
	MethodReadRecord     = "/" + ServiceName + "/ReadRecord"
	MethodUpdateRecord   = "/" + ServiceName + "/UpdateRecord"
	MethodDeleteRecord   = "/" + ServiceName + "/DeleteRecord"
	MethodListRecords    = "/" + ServiceName + "/ListRecords"
	MethodCountRecords   = "/" + ServiceName + "/CountRecords"
	MethodExportSnapshot = "/" + ServiceName + "/ExportSnapshot"
)

// LedgerServiceServer is implemented by the ledger service.
type LedgerServiceServer interface {
	Ping(context.Context, *PingRequest) (*PingResponse, error)
	Challenge(context.Context, *ChallengeRequest) (*ChallengeResponse, error)
	Authenticate(context.Context, *AuthenticateRequest) (*AuthenticateResponse, error)
	CreateRecord(context.Context, *CreateRecordRequest) (*RecordResponse, error)
	ReadRecord(context.Context, *RecordIDRequest) (*RecordResponse, error)
	UpdateRecord(context.Context, *UpdateRecordRequest) (*RecordResponse, error)
	DeleteRecord(context.Context, *RecordIDRequest) (*DeleteRecordResponse, error)
	ListRecords(context.Context, *ListRecordsRequest) (*ListRecordsResponse, error)
	CountRecords(context.Context, *CountRecordsRequest) (*CountRecordsResponse, error)
	ExportSnapshot(context.Context, *ExportSnapshotRequest) (*ExportSnapshotResponse, error)
}

// UnimplementedLedgerServiceServer can be embedded to satisfy the interface
// partially; missing methods answer codes.Unimplemented.
type UnimplementedLedgerServiceServer struct{}

func (UnimplementedLedgerServiceServer) Ping(context.Context, *PingRequest) (*PingResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Ping not implemented")
}
func (UnimplementedLedgerServiceServer) Challenge(context.Context, *ChallengeRequest) (*ChallengeResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Challenge not implemented")
}
func (UnimplementedLedgerServiceServer) Authenticate(context.Context, *AuthenticateRequest) (*AuthenticateResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Authenticate not implemented")
}
func (UnimplementedLedgerServiceServer) CreateRecord(context.Context, *CreateRecordRequest) (*RecordResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateRecord not implemented")
}
func (UnimplementedLedgerServiceServer) ReadRecord(context.Context, *RecordIDRequest) (*RecordResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ReadRecord not implemented")
}
func (UnimplementedLedgerServiceServer) UpdateRecord(context.Context, *UpdateRecordRequest) (*RecordResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method UpdateRecord not implemented")
}
func (UnimplementedLedgerServiceServer) DeleteRecord(context.Context, *RecordIDRequest) (*DeleteRecordResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method DeleteRecord not implemented")
}
func (UnimplementedLedgerServiceServer) ListRecords(context.Context, *ListRecordsRequest) (*ListRecordsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListRecords not implemented")
}
func (UnimplementedLedgerServiceServer) CountRecords(context.Context, *CountRecordsRequest) (*CountRecordsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CountRecords not implemented")
}
func (UnimplementedLedgerServiceServer) ExportSnapshot(context.Context, *ExportSnapshotRequest) (*ExportSnapshotResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ExportSnapshot not implemented")
}

func unaryHandler[Req, Resp any](fullMethod string, call func(LedgerServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}

		invoke := func(ctx context.Context, req any) (any, error) {
			var r Req
			if err := Decode(req.(*structpb.Struct), &r); err != nil {
				return nil, status.Error(codes.InvalidArgument, err.Error())
			}
			resp, err := call(srv.(LedgerServiceServer), ctx, &r)
			if err != nil {
				return nil, err
			}
			out, err := Encode(resp)
			if err != nil {
				return nil, status.Error(codes.Internal, err.Error())
			}
			return out, nil
		}

		if interceptor == nil {
			return invoke(ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		return interceptor(ctx, in, info, invoke)
	}
}

var LedgerService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*LedgerServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Ping", Handler: unaryHandler(MethodPing, LedgerServiceServer.Ping)},
		{MethodName: "Challenge", Handler: unaryHandler(MethodChallenge, LedgerServiceServer.Challenge)},
		{MethodName: "Authenticate", Handler: unaryHandler(MethodAuthenticate, LedgerServiceServer.Authenticate)},
		{MethodName: "CreateRecord", Handler: unaryHandler(MethodCreateRecord, LedgerServiceServer.CreateRecord)},
		{MethodName: "ReadRecord", Handler: unaryHandler(MethodReadRecord, LedgerServiceServer.ReadRecord)},
		{MethodName: "UpdateRecord", Handler: unaryHandler(MethodUpdateRecord, LedgerServiceServer.UpdateRecord)},
		{MethodName: "DeleteRecord", Handler: unaryHandler(MethodDeleteRecord, LedgerServiceServer.DeleteRecord)},
		{MethodName: "ListRecords", Handler: unaryHandler(MethodListRecords, LedgerServiceServer.ListRecords)},
		{MethodName: "CountRecords", Handler: unaryHandler(MethodCountRecords, LedgerServiceServer.CountRecords)},
		{MethodName: "ExportSnapshot", Handler: unaryHandler(MethodExportSnapshot, LedgerServiceServer.ExportSnapshot)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "recordkeeper/ledger.proto",
}

func RegisterLedgerServiceServer(s grpc.ServiceRegistrar, srv LedgerServiceServer) {
	s.RegisterService(&LedgerService_ServiceDesc, srv)
}

// LedgerServiceClient is the client stub for LedgerService.
type LedgerServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewLedgerServiceClient(cc grpc.ClientConnInterface) *LedgerServiceClient {
	return &LedgerServiceClient{cc: cc}
}

func invoke[Req, Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in *Req, opts ...grpc.CallOption) (*Resp, error) {
	req, err := Encode(in)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := cc.Invoke(ctx, method, req, out, opts...); err != nil {
		return nil, err
	}
	var resp Resp
	if err := Decode(out, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *LedgerServiceClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingRequest, PingResponse](ctx, c.cc, MethodPing, in, opts...)
}

func (c *LedgerServiceClient) Challenge(ctx context.Context, in *ChallengeRequest, opts ...grpc.CallOption) (*ChallengeResponse, error) {
	return invoke[ChallengeRequest, ChallengeResponse](ctx, c.cc, MethodChallenge, in, opts...)
}

func (c *LedgerServiceClient) Authenticate(ctx context.Context, in *AuthenticateRequest, opts ...grpc.CallOption) (*AuthenticateResponse, error) {
	return invoke[AuthenticateRequest, AuthenticateResponse](ctx, c.cc, MethodAuthenticate, in, opts...)
}

func (c *LedgerServiceClient) CreateRecord(ctx context.Context, in *CreateRecordRequest, opts ...grpc.CallOption) (*RecordResponse, error) {
	return invoke[CreateRecordRequest, RecordResponse](ctx, c.cc, MethodCreateRecord, in, opts...)
}

func (c *LedgerServiceClient) ReadRecord(ctx context.Context, in *RecordIDRequest, opts ...grpc.CallOption) (*RecordResponse, error) {
	return invoke[RecordIDRequest, RecordResponse](ctx, c.cc, MethodReadRecord, in, opts...)
}

func (c *LedgerServiceClient) UpdateRecord(ctx context.Context, in *UpdateRecordRequest, opts ...grpc.CallOption) (*RecordResponse, error) {
	return invoke[UpdateRecordRequest, RecordResponse](ctx, c.cc, MethodUpdateRecord, in, opts...)
}

func (c *LedgerServiceClient) DeleteRecord(ctx context.Context, in *RecordIDRequest, opts ...grpc.CallOption) (*DeleteRecordResponse, error) {
	return invoke[RecordIDRequest, DeleteRecordResponse](ctx, c.cc, MethodDeleteRecord, in, opts...)
}

func (c *LedgerServiceClient) ListRecords(ctx context.Context, in *ListRecordsRequest, opts ...grpc.CallOption) (*ListRecordsResponse, error) {
	return invoke[ListRecordsRequest, ListRecordsResponse](ctx, c.cc, MethodListRecords, in, opts...)
}

func (c *LedgerServiceClient) CountRecords(ctx context.Context, in *CountRecordsRequest, opts ...grpc.CallOption) (*CountRecordsResponse, error) {
	return invoke[CountRecordsRequest, CountRecordsResponse](ctx, c.cc, MethodCountRecords, in, opts...)
}

func (c *LedgerServiceClient) ExportSnapshot(ctx context.Context, in *ExportSnapshotRequest, opts ...grpc.CallOption) (*ExportSnapshotResponse, error) {
	return invoke[ExportSnapshotRequest, ExportSnapshotResponse](ctx, c.cc, MethodExportSnapshot, in, opts...)
}
