package database

import (
	"fmt"
	"net"

	"talent_realtime_service/pkg/logger"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// HealthServer grpc.health.v1 server, status follows the service lifecycle
type HealthServer struct {
	server *grpc.Server
	health *health.Server
}

// StartGRPCHealthServer listen port and serve grpc health check
func StartGRPCHealthServer(port string) (*HealthServer, error) {
	listener, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return nil, fmt.Errorf("grpc health listen: %w", err)
	}

	hs := &HealthServer{
		server: grpc.NewServer(),
		health: health.NewServer(),
	}
	healthpb.RegisterHealthServer(hs.server, hs.health)

	go func() {
		if err := hs.server.Serve(listener); err != nil {
			logger.Log.Error("grpc health server stopped", zap.Error(err))
		}
	}()
	logger.Log.Info("grpc health server listening", zap.String("addr", listener.Addr().String()))
	return hs, nil
}

// SetServing mark service serving / not serving
func (h *HealthServer) SetServing(service string, serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	h.health.SetServingStatus(service, status)
}

// Stop shutdown grpc server
func (h *HealthServer) Stop() {
	h.health.Shutdown()
	h.server.GracefulStop()
}
