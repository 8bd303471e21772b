package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
)

const ServiceName = "scankeeper.v1.ScanKeeperService"

// Full method names, as seen by interceptors.
const (
	MethodPing        = "/" + ServiceName + "/Ping"
	MethodEncode      = "/" + ServiceName + "/Encode"
	MethodClassify    = "/" + ServiceName + "/Classify"
	MethodPushHistory = "/" + ServiceName + "/PushHistory"
	MethodListHistory = "/" + ServiceName + "/ListHistory"
)

// ScanKeeperServer is implemented by the server.
type ScanKeeperServer interface {
	Ping(context.Context, *emptypb.Empty) (*PingResponse, error)
	Encode(context.Context, *EncodeRequest) (*EncodeResponse, error)
	Classify(context.Context, *ClassifyRequest) (*ClassifyResponse, error)
	PushHistory(context.Context, *PushHistoryRequest) (*PushHistoryResponse, error)
	ListHistory(context.Context, *ListHistoryRequest) (*ListHistoryResponse, error)
}

// RegisterScanKeeperServer registers srv on s.
func RegisterScanKeeperServer(s grpc.ServiceRegistrar, srv ScanKeeperServer) {
	s.RegisterService(&ScanKeeperService_ServiceDesc, srv)
}

// unary builds a method handler; it is the shape protoc-gen-go-grpc emits
// for every unary method.
func unary[Req any, Resp any](fullMethod string, call func(ScanKeeperServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ScanKeeperServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(ScanKeeperServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var ScanKeeperService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ScanKeeperServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Ping",
			Handler:    unary(MethodPing, ScanKeeperServer.Ping),
		},
		{
			MethodName: "Encode",
			Handler:    unary(MethodEncode, ScanKeeperServer.Encode),
		},
		{
			MethodName: "Classify",
			Handler:    unary(MethodClassify, ScanKeeperServer.Classify),
		},
		{
			MethodName: "PushHistory",
			Handler:    unary(MethodPushHistory, ScanKeeperServer.PushHistory),
		},
		{
			MethodName: "ListHistory",
			Handler:    unary(MethodListHistory, ScanKeeperServer.ListHistory),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "scankeeper_rpc",
}
