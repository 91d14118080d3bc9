package grpc

import (
	"context"
	"net"

	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"EmpireBuilder/internal/shared/transport"
	"EmpireBuilder/modules/kit/logx"
)

// Server 内部运维用 grpc 服务：health + reflection。
type Server struct {
	addr   string
	srv    *gogrpc.Server
	health *health.Server
}

func NewServer(addr string, log logx.Logger) *Server {
	srv := gogrpc.NewServer(
		gogrpc.ChainUnaryInterceptor(serverTraceUnary, UnaryServerAccessLogInterceptor(log)),
		gogrpc.ChainStreamInterceptor(serverTraceStream),
	)
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	reflection.Register(srv)
	return &Server{addr: addr, srv: srv, health: hs}
}

// SetServing 更新某个服务的健康状态，service 为空表示整体。
func (s *Server) SetServing(service string, serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus(service, status)
}

// Start 监听并阻塞服务。
func (s *Server) Start() error {
	lis, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	return s.Serve(lis)
}

func (s *Server) Serve(lis net.Listener) error {
	return s.srv.Serve(lis)
}

// Shutdown 优雅停止，ctx 到期后强制停止。
func (s *Server) Shutdown(ctx context.Context) error {
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
		return ctx.Err()
	}
}

// UnaryServerAccessLogInterceptor 为 unary 请求写访问日志。
func UnaryServerAccessLogInterceptor(log logx.Logger) gogrpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *gogrpc.UnaryServerInfo,
		handler gogrpc.UnaryHandler,
	) (any, error) {
		ctx = transport.NewContextWithParent(ctx, info.FullMethod)
		resp, err := handler(ctx, req)
		transport.SetResult(ctx, err)
		transport.WriteAccessLog(ctx, log)
		return resp, err
	}
}
