package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified name of the ledger service
const ServiceName = "ledger.v1.LedgerService"

// LedgerServiceServer is the server API for ledger.v1.LedgerService (proto/ledger/v1/ledger.proto)
type LedgerServiceServer interface {
	CreateAccount(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetAccount(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetBalance(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetHistory(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Deposit(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Withdraw(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Transfer(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CalculateInterest(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CheckMaturity(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CloseAccount(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ReactivateAccount(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SetOverdraftLimit(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteAccount(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListAccounts(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Report(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(LedgerServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

// LedgerService_ServiceDesc is the grpc.ServiceDesc for ledger.v1.LedgerService
var LedgerService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*LedgerServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod("CreateAccount", LedgerServiceServer.CreateAccount),
		unaryMethod("GetAccount", LedgerServiceServer.GetAccount),
		unaryMethod("GetBalance", LedgerServiceServer.GetBalance),
		unaryMethod("GetHistory", LedgerServiceServer.GetHistory),
		unaryMethod("Deposit", LedgerServiceServer.Deposit),
		unaryMethod("Withdraw", LedgerServiceServer.Withdraw),
		unaryMethod("Transfer", LedgerServiceServer.Transfer),
		unaryMethod("CalculateInterest", LedgerServiceServer.CalculateInterest),
		unaryMethod("CheckMaturity", LedgerServiceServer.CheckMaturity),
		unaryMethod("CloseAccount", LedgerServiceServer.CloseAccount),
		unaryMethod("ReactivateAccount", LedgerServiceServer.ReactivateAccount),
		unaryMethod("SetOverdraftLimit", LedgerServiceServer.SetOverdraftLimit),
		unaryMethod("DeleteAccount", LedgerServiceServer.DeleteAccount),
		unaryMethod("ListAccounts", LedgerServiceServer.ListAccounts),
		unaryMethod("Report", LedgerServiceServer.Report),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "proto/ledger/v1/ledger.proto",
}

// RegisterLedgerServiceServer registers srv on s
func RegisterLedgerServiceServer(s grpc.ServiceRegistrar, srv LedgerServiceServer) {
	s.RegisterService(&LedgerService_ServiceDesc, srv)
}

// FullMethod returns the "/service/method" path of a LedgerService method
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

func unaryMethod(name string, call unaryCall) grpc.MethodDesc {
	fullMethod := FullMethod(name)
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(LedgerServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: fullMethod,
			}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(LedgerServiceServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// LedgerClient calls LedgerService methods over a client connection
type LedgerClient struct {
	cc grpc.ClientConnInterface
}

// NewLedgerClient creates a client on cc
func NewLedgerClient(cc grpc.ClientConnInterface) *LedgerClient {
	return &LedgerClient{cc: cc}
}

// Call invokes method with the given request fields
func (c *LedgerClient) Call(ctx context.Context, method string, fields map[string]interface{}, opts ...grpc.CallOption) (*structpb.Struct, error) {
	in, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
