// Package rpc exposes the internal gRPC health endpoint consumed by load
// balancers and the deployment platform (grpc.health.v1.Health). The public
// API stays HTTP; this server carries no business methods.
package rpc

import (
	"context"
	"fmt"
	"net"
	"runtime/debug"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"github.com/lidosole/lidosole/pkg/logger"
)

// recoveryInterceptor turns handler panics into INTERNAL errors instead of
// killing the serving goroutine.
func recoveryInterceptor(
	ctx context.Context,
	req interface{},
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (resp interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("rpc: panic recovered",
				"method", info.FullMethod,
				"panic", fmt.Sprintf("%v", r),
				"stack", string(debug.Stack()),
			)
			err = status.Errorf(codes.Internal, "internal error")
		}
	}()
	return handler(ctx, req)
}

func loggingInterceptor(
	ctx context.Context,
	req interface{},
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	logger.Debug("rpc: call",
		"method", info.FullMethod,
		"duration", time.Since(start).String(),
		"code", status.Code(err).String(),
	)
	return resp, err
}

// Server wraps the gRPC server and its health reporter.
type Server struct {
	grpc   *grpc.Server
	health *health.Server
}

// Start listens on port and serves the health service in the background.
func Start(port string) (*Server, error) {
	lis, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return nil, fmt.Errorf("rpc: listen :%s: %w", port, err)
	}

	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(
		recoveryInterceptor,
		loggingInterceptor,
	))

	hs := health.NewServer()
	hs.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	grpc_health_v1.RegisterHealthServer(srv, hs)

	go func() {
		if err := srv.Serve(lis); err != nil {
			logger.Error("rpc: serve", "error", err)
		}
	}()

	logger.Info("rpc: health server listening", "port", port)
	return &Server{grpc: srv, health: hs}, nil
}

// SetNotServing flips the health status during shutdown so balancers drain
// traffic before connections are cut.
func (s *Server) SetNotServing() {
	s.health.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)
}

// Stop gracefully stops the server.
func (s *Server) Stop() {
	s.grpc.GracefulStop()
}
