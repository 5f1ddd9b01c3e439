package testtool

import (
	"context"
	"fmt"
	"strings"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Service started container and its mapped address
type Service struct {
	Container testcontainers.Container
	Host      string
	Port      string
}

// Addr host:port
func (s *Service) Addr() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

// Terminate stop container, nil safe
func (s *Service) Terminate(ctx context.Context) error {
	if s == nil || s.Container == nil {
		return nil
	}
	return s.Container.Terminate(ctx)
}

// SetupContainer 通用函式來啟動測試容器, 只對應第一個 exposed port
func SetupContainer(ctx context.Context, req testcontainers.ContainerRequest) (*Service, error) {
	if len(req.ExposedPorts) == 0 {
		return nil, fmt.Errorf("container %s exposes no port", req.Image)
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, err
	}

	svc := &Service{Container: container}
	if svc.Host, err = container.Host(ctx); err != nil {
		_ = svc.Terminate(ctx)
		return nil, err
	}

	// ExposedPorts[0] 形如 "27017/tcp"
	natPort, err := nat.NewPort("tcp", strings.TrimSuffix(req.ExposedPorts[0], "/tcp"))
	if err != nil {
		_ = svc.Terminate(ctx)
		return nil, err
	}
	port, err := container.MappedPort(ctx, natPort)
	if err != nil {
		_ = svc.Terminate(ctx)
		return nil, err
	}
	svc.Port = port.Port()
	return svc, nil
}

// StartMongo mongo for the persistence gateway
func StartMongo(ctx context.Context) (*Service, error) {
	return SetupContainer(ctx, testcontainers.ContainerRequest{
		Image:        "mongo:7",
		ExposedPorts: []string{"27017/tcp"},
		WaitingFor:   wait.ForListeningPort("27017/tcp"),
	})
}

// StartRedis redis for relay / last seen / profile cache
func StartRedis(ctx context.Context) (*Service, error) {
	return SetupContainer(ctx, testcontainers.ContainerRequest{
		Image:        "redis:7",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	})
}
