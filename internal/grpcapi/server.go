// Package grpcapi serves the ReaderGateway service from
// api/portunus/v1 over gRPC.
package grpcapi

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	pb "github.com/BrandonDHaskell/Portunus/policyd/api/portunus/v1"
	"github.com/BrandonDHaskell/Portunus/policyd/internal/logging"
	"github.com/BrandonDHaskell/Portunus/policyd/internal/portunus/service"
	"github.com/BrandonDHaskell/Portunus/policyd/internal/portunus/wire"
)

type Dependencies struct {
	Logger        *slog.Logger
	AccessService *service.AccessService
	ReaderService *service.ReaderService
}

type Server struct {
	pb.UnimplementedReaderGatewayServer

	grpcServer    *grpc.Server
	logger        *slog.Logger
	accessService *service.AccessService
	readerService *service.ReaderService
}

func NewServer(d Dependencies) *Server {
	if d.Logger == nil {
		d.Logger = logging.Discard()
	}
	s := &Server{
		logger:        d.Logger,
		accessService: d.AccessService,
		readerService: d.ReaderService,
	}
	s.grpcServer = grpc.NewServer(grpc.ChainUnaryInterceptor(loggingInterceptor(d.Logger)))
	pb.RegisterReaderGatewayServer(s.grpcServer, s)
	return s
}

// Serve accepts connections on lis until Stop or GracefulStop is called.
func (s *Server) Serve(lis net.Listener) error {
	return s.grpcServer.Serve(lis)
}

func (s *Server) GracefulStop() { s.grpcServer.GracefulStop() }
func (s *Server) Stop()         { s.grpcServer.Stop() }

func (s *Server) Swipe(ctx context.Context, req *pb.AccessRequest) (*pb.AccessResponse, error) {
	resp, err := s.accessService.Decide(ctx, wire.AccessRequestFromProto(req))
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	return wire.AccessResponseToProto(resp), nil
}

func (s *Server) Heartbeat(ctx context.Context, req *pb.HeartbeatRequest) (*pb.HeartbeatResponse, error) {
	resp, err := s.readerService.Heartbeat(ctx, wire.HeartbeatRequestFromProto(req))
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	return wire.HeartbeatResponseToProto(resp), nil
}

func toStatus(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidReaderID), errors.Is(err, service.ErrInvalidBadgeCode):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, service.ErrUnknownReader):
		return status.Error(codes.PermissionDenied, err.Error())
	}
	logging.From(ctx).Error("rpc failed", "error", err)
	return status.Error(codes.Internal, "unexpected server error")
}

func loggingInterceptor(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		reqLogger := logger.With("method", info.FullMethod)
		resp, err := handler(logging.Into(ctx, reqLogger), req)

		code := status.Code(err)
		level := slog.LevelInfo
		switch code {
		case codes.OK:
		case codes.Internal, codes.Unknown:
			level = slog.LevelError
		default:
			level = slog.LevelWarn
		}
		reqLogger.Log(ctx, level, "grpc request",
			"code", code.String(),
			"duration_ms", time.Since(start).Milliseconds())
		return resp, err
	}
}
