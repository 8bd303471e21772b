package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/dmitrijs2005/scankeeper/internal/common"
	"github.com/dmitrijs2005/scankeeper/internal/payload"
	"github.com/dmitrijs2005/scankeeper/internal/rpc"
)

func (s *GRPCServer) Ping(ctx context.Context, _ *emptypb.Empty) (*rpc.PingResponse, error) {
	if device := metadataValue(ctx, common.DeviceIDHeaderName); device != "" {
		s.logger.Debug(ctx, "ping", "device", device)
	}
	return &rpc.PingResponse{Status: "OK", ServerTime: s.now().UTC()}, nil
}

func (s *GRPCServer) Encode(ctx context.Context, req *rpc.EncodeRequest) (*rpc.EncodeResponse, error) {
	resp, err := s.codes.Encode(req)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return resp, nil
}

func (s *GRPCServer) Classify(ctx context.Context, req *rpc.ClassifyRequest) (*rpc.ClassifyResponse, error) {
	return s.codes.Classify(req), nil
}

func (s *GRPCServer) PushHistory(ctx context.Context, req *rpc.PushHistoryRequest) (*rpc.PushHistoryResponse, error) {
	if s.history == nil {
		return nil, status.Error(codes.Unavailable, "history sync is disabled")
	}
	deviceID, ok := DeviceIDFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "unauthorized")
	}
	if err := req.Validate(); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	accepted, err := s.history.Push(ctx, deviceID, req.Items)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.PushHistoryResponse{Accepted: accepted}, nil
}

func (s *GRPCServer) ListHistory(ctx context.Context, req *rpc.ListHistoryRequest) (*rpc.ListHistoryResponse, error) {
	if s.history == nil {
		return nil, status.Error(codes.Unavailable, "history sync is disabled")
	}
	deviceID, ok := DeviceIDFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "unauthorized")
	}
	if req.Limit < 0 {
		return nil, status.Error(codes.InvalidArgument, "limit must not be negative")
	}

	items, err := s.history.List(ctx, deviceID, req.Limit)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.ListHistoryResponse{Items: items}, nil
}

// toStatus maps service errors onto gRPC codes. Internal errors are logged
// and their text is not sent to the caller.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, payload.ErrValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		return status.Error(codes.Unauthenticated, "unauthorized")
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, "not found")
	default:
		s.logger.Error(ctx, "request failed", "error", err)
		return status.Error(codes.Internal, "internal error")
	}
}
