package engineserver

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Every RPC of the engine service carries a google.protobuf.Struct in both
// directions, so the service needs no generated message types.
const ServiceName = "rwb.engine.v1.EngineService"

const (
	EngineService_CreateGame_FullMethodName = "/" + ServiceName + "/CreateGame"
	EngineService_GetState_FullMethodName   = "/" + ServiceName + "/GetState"
	EngineService_GetHint_FullMethodName    = "/" + ServiceName + "/GetHint"
	EngineService_PlayTurn_FullMethodName   = "/" + ServiceName + "/PlayTurn"
	EngineService_ChooseMove_FullMethodName = "/" + ServiceName + "/ChooseMove"
)

// EngineServiceServer is the server API for the engine service.
type EngineServiceServer interface {
	CreateGame(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetState(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetHint(context.Context, *structpb.Struct) (*structpb.Struct, error)
	PlayTurn(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ChooseMove(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryMethod func(EngineServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call unaryMethod) grpc.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(EngineServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(EngineServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// EngineService_ServiceDesc is the grpc.ServiceDesc for the engine service.
var EngineService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*EngineServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "CreateGame",
			Handler:    unaryHandler(EngineService_CreateGame_FullMethodName, EngineServiceServer.CreateGame),
		},
		{
			MethodName: "GetState",
			Handler:    unaryHandler(EngineService_GetState_FullMethodName, EngineServiceServer.GetState),
		},
		{
			MethodName: "GetHint",
			Handler:    unaryHandler(EngineService_GetHint_FullMethodName, EngineServiceServer.GetHint),
		},
		{
			MethodName: "PlayTurn",
			Handler:    unaryHandler(EngineService_PlayTurn_FullMethodName, EngineServiceServer.PlayTurn),
		},
		{
			MethodName: "ChooseMove",
			Handler:    unaryHandler(EngineService_ChooseMove_FullMethodName, EngineServiceServer.ChooseMove),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "rwb/engine/v1/engine.proto",
}

// RegisterEngineServiceServer registers srv with s
func RegisterEngineServiceServer(s grpc.ServiceRegistrar, srv EngineServiceServer) {
	s.RegisterService(&EngineService_ServiceDesc, srv)
}

// EngineServiceClient is the client API for the engine service.
type EngineServiceClient interface {
	CreateGame(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetState(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetHint(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	PlayTurn(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	ChooseMove(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type engineServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewEngineServiceClient(cc grpc.ClientConnInterface) EngineServiceClient {
	return &engineServiceClient{cc}
}

func (c *engineServiceClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts []grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *engineServiceClient) CreateGame(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, EngineService_CreateGame_FullMethodName, in, opts)
}

func (c *engineServiceClient) GetState(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, EngineService_GetState_FullMethodName, in, opts)
}

func (c *engineServiceClient) GetHint(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, EngineService_GetHint_FullMethodName, in, opts)
}

func (c *engineServiceClient) PlayTurn(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, EngineService_PlayTurn_FullMethodName, in, opts)
}

func (c *engineServiceClient) ChooseMove(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, EngineService_ChooseMove_FullMethodName, in, opts)
}
