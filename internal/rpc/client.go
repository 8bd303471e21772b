package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
)

// ScanKeeperClient is the client API of the service.
type ScanKeeperClient interface {
	Ping(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*PingResponse, error)
	Encode(ctx context.Context, in *EncodeRequest, opts ...grpc.CallOption) (*EncodeResponse, error)
	Classify(ctx context.Context, in *ClassifyRequest, opts ...grpc.CallOption) (*ClassifyResponse, error)
	PushHistory(ctx context.Context, in *PushHistoryRequest, opts ...grpc.CallOption) (*PushHistoryResponse, error)
	ListHistory(ctx context.Context, in *ListHistoryRequest, opts ...grpc.CallOption) (*ListHistoryResponse, error)
}

type scanKeeperClient struct {
	cc grpc.ClientConnInterface
}

func NewScanKeeperClient(cc grpc.ClientConnInterface) ScanKeeperClient {
	return &scanKeeperClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *scanKeeperClient) Ping(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, MethodPing, in, opts)
}

func (c *scanKeeperClient) Encode(ctx context.Context, in *EncodeRequest, opts ...grpc.CallOption) (*EncodeResponse, error) {
	return invoke[EncodeResponse](ctx, c.cc, MethodEncode, in, opts)
}

func (c *scanKeeperClient) Classify(ctx context.Context, in *ClassifyRequest, opts ...grpc.CallOption) (*ClassifyResponse, error) {
	return invoke[ClassifyResponse](ctx, c.cc, MethodClassify, in, opts)
}

func (c *scanKeeperClient) PushHistory(ctx context.Context, in *PushHistoryRequest, opts ...grpc.CallOption) (*PushHistoryResponse, error) {
	return invoke[PushHistoryResponse](ctx, c.cc, MethodPushHistory, in, opts)
}

func (c *scanKeeperClient) ListHistory(ctx context.Context, in *ListHistoryRequest, opts ...grpc.CallOption) (*ListHistoryResponse, error) {
	return invoke[ListHistoryResponse](ctx, c.cc, MethodListHistory, in, opts)
}
