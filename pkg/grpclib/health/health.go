package health

import (
	"context"
	"time"

	"google.golang.org/grpc"

	healthgrpc "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Server wraps grpc health server
type Server struct {
	server   *healthgrpc.Server
	services []string
}

// NewServer creates health server reporting for services, plus the empty
// overall service name.
func NewServer(services ...string) *Server {
	return &Server{
		server:   healthgrpc.NewServer(),
		services: append([]string{""}, services...),
	}
}

// SetServing sets the status of every service.
func (h *Server) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	for _, service := range h.services {
		h.server.SetServingStatus(service, status)
	}
}

// Watch runs check every interval and mirrors its result into the serving
// status until ctx is done.
func (h *Server) Watch(ctx context.Context, interval time.Duration, check func(context.Context) error) {
	h.SetServing(check(ctx) == nil)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.SetServing(check(ctx) == nil)
		}
	}
}

// Shutdown sets all serving status to NOT_SERVING and ignores later updates.
func (h *Server) Shutdown() {
	h.server.Shutdown()
}

// Register registers health server.
func (h *Server) Register(grpc *grpc.Server) {
	healthpb.RegisterHealthServer(grpc, h.server)
}

// Check answers a health request directly, as a client would see it.
func (h *Server) Check(ctx context.Context, service string) (healthpb.HealthCheckResponse_ServingStatus, error) {
	resp, err := h.server.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN, err
	}
	return resp.GetStatus(), nil
}
