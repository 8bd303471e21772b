package client

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/dmitrijs2005/scankeeper/internal/common"
	"github.com/dmitrijs2005/scankeeper/internal/rpc"
)

/*************
 * Fake rpc client
 *************/

type fakeRPC struct {
	lastPushReq *rpc.PushHistoryRequest
	lastListReq *rpc.ListHistoryRequest

	pingResp *rpc.PingResponse
	pingErr  error

	pushResp *rpc.PushHistoryResponse
	pushErr  error

	listResp *rpc.ListHistoryResponse
	listErr  error
}

func (f *fakeRPC) Ping(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*rpc.PingResponse, error) {
	return f.pingResp, f.pingErr
}

func (f *fakeRPC) Encode(ctx context.Context, in *rpc.EncodeRequest, opts ...grpc.CallOption) (*rpc.EncodeResponse, error) {
	return nil, status.Error(codes.Unimplemented, "encode")
}

func (f *fakeRPC) Classify(ctx context.Context, in *rpc.ClassifyRequest, opts ...grpc.CallOption) (*rpc.ClassifyResponse, error) {
	return nil, status.Error(codes.Unimplemented, "classify")
}

func (f *fakeRPC) PushHistory(ctx context.Context, in *rpc.PushHistoryRequest, opts ...grpc.CallOption) (*rpc.PushHistoryResponse, error) {
	f.lastPushReq = in
	return f.pushResp, f.pushErr
}

func (f *fakeRPC) ListHistory(ctx context.Context, in *rpc.ListHistoryRequest, opts ...grpc.CallOption) (*rpc.ListHistoryResponse, error) {
	f.lastListReq = in
	return f.listResp, f.listErr
}

/*************
 * Interceptor tests
 *************/

func TestWithAccessToken_KeepsExistingMetadata(t *testing.T) {
	ctx := metadata.NewOutgoingContext(context.Background(), metadata.Pairs("x-other", "1"))
	ctx = withAccessToken(ctx, "T")

	md, ok := metadata.FromOutgoingContext(ctx)
	require.True(t, ok)
	require.Equal(t, []string{"T"}, md.Get(common.AccessTokenHeaderName))
	require.Equal(t, []string{"1"}, md.Get("x-other"))
}

func TestInterceptor_AttachesToken(t *testing.T) {
	c := &GRPCClient{accessToken: "A1"}

	var got []string
	invoker := func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		md, _ := metadata.FromOutgoingContext(ctx)
		got = md.Get(common.AccessTokenHeaderName)
		return nil
	}

	require.NoError(t, c.accessTokenInterceptor(context.Background(), "/svc/Method", nil, nil, nil, invoker))
	require.Equal(t, []string{"A1"}, got)
}

func TestInterceptor_NoTokenNoMetadata(t *testing.T) {
	c := &GRPCClient{}

	invoker := func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		_, ok := metadata.FromOutgoingContext(ctx)
		require.False(t, ok)
		return status.Error(codes.Internal, "boom")
	}

	require.Error(t, c.accessTokenInterceptor(context.Background(), "/svc/Method", nil, nil, nil, invoker))
}

/*************
 * mapError tests
 *************/

func TestMapError(t *testing.T) {
	c := &GRPCClient{}

	require.ErrorIs(t, c.mapError(status.Error(codes.Unauthenticated, "x")), ErrUnauthorized)
	require.ErrorIs(t, c.mapError(status.Error(codes.PermissionDenied, "x")), ErrUnauthorized)
	require.Equal(t, ErrUnavailable, c.mapError(status.Error(codes.Unavailable, "x")))
	require.Equal(t, ErrUnavailable, c.mapError(status.Error(codes.DeadlineExceeded, "x")))

	err := c.mapError(status.Error(codes.InvalidArgument, "ssid: is required"))
	require.ErrorIs(t, err, ErrInvalidRequest)
	require.ErrorContains(t, err, "ssid: is required")

	require.ErrorContains(t, c.mapError(errors.New("plain")), "rpc error:")
	require.NoError(t, c.mapError(nil))
}

/*************
 * Call tests
 *************/

func TestPing_OK(t *testing.T) {
	f := &fakeRPC{pingResp: &rpc.PingResponse{Status: "OK", ServerTime: time.Now()}}
	c := &GRPCClient{client: f}
	require.NoError(t, c.Ping(context.Background()))
}

func TestPing_NotOK_ReturnsUnavailable(t *testing.T) {
	f := &fakeRPC{pingResp: &rpc.PingResponse{Status: "NOT_OK"}}
	c := &GRPCClient{client: f}
	require.ErrorIs(t, c.Ping(context.Background()), ErrUnavailable)
}

func TestPing_MapsRPCError(t *testing.T) {
	f := &fakeRPC{pingErr: status.Error(codes.Unavailable, "down")}
	c := &GRPCClient{client: f}
	require.ErrorIs(t, c.Ping(context.Background()), ErrUnavailable)
}

func TestPushHistory(t *testing.T) {
	f := &fakeRPC{pushResp: &rpc.PushHistoryResponse{Accepted: []string{"a"}}}
	c := &GRPCClient{client: f}

	ids, err := c.PushHistory(context.Background(), []rpc.HistoryItem{{ID: "a"}})
	require.NoError(t, err)
	require.Equal(t, []string{"a"}, ids)
	require.Len(t, f.lastPushReq.Items, 1)
}

func TestPushHistory_Unauthorized(t *testing.T) {
	f := &fakeRPC{pushErr: status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error())}
	c := &GRPCClient{client: f}

	_, err := c.PushHistory(context.Background(), []rpc.HistoryItem{{ID: "a"}})
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestListHistory(t *testing.T) {
	f := &fakeRPC{listResp: &rpc.ListHistoryResponse{Items: []rpc.HistoryItem{{ID: "a"}, {ID: "b"}}}}
	c := &GRPCClient{client: f}

	items, err := c.ListHistory(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, 10, f.lastListReq.Limit)
}

func TestNewScanKeeperClient_LazyConnect(t *testing.T) {
	c, err := NewScanKeeperClient("127.0.0.1:1", "tok")
	require.NoError(t, err)
	require.NotNil(t, c.client)
	require.NoError(t, c.Close())
}

func TestClose_NilConn(t *testing.T) {
	c := &GRPCClient{}
	require.NoError(t, c.Close())
}
