package grpc

import (
	"context"
	"errors"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// UsersService is the service name reported alongside the overall server
// status ("").
const UsersService = "docai.v1.Users"

// Server exposes the standard gRPC health-checking protocol and server
// reflection so orchestrators can probe the API without speaking HTTP.
type Server struct {
	srv    *grpc.Server
	health *health.Server
}

// NewServer creates a gRPC server with every service marked SERVING.
func NewServer(opts ...grpc.ServerOption) *Server {
	srv := grpc.NewServer(opts...)
	hs := health.NewServer()

	healthpb.RegisterHealthServer(srv, hs)
	reflection.Register(srv)

	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(UsersService, healthpb.HealthCheckResponse_SERVING)

	return &Server{srv: srv, health: hs}
}

// Serve accepts connections on lis until Stop is called. Stopping before
// Serve starts is not an error.
func (s *Server) Serve(lis net.Listener) error {
	if err := s.srv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}

// Stop marks every service NOT_SERVING, then drains in-flight RPCs. Health
// Watch streams never finish on their own, so once ctx is done the
// remaining RPCs are cancelled and ctx.Err() is returned.
func (s *Server) Stop(ctx context.Context) error {
	s.health.Shutdown()

	done := make(chan struct{})
	go func() {
		s.srv.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		s.srv.Stop()
		<-done
		return ctx.Err()
	}
}
