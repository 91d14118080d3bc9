package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	gogrpc "google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/test/bufconn"

	"EmpireBuilder/modules/kit/logx"
	"EmpireBuilder/modules/kit/tracex"
)

func startBuf(t *testing.T, s *Server) *gogrpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Shutdown(ctx)
	})

	conn, err := Dial("passthrough:///bufnet", gogrpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	}))
	if err != nil {
		t.Fatalf("Dial err=%v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestServer_健康检查随状态切换(t *testing.T) {
	s := NewServer("", logx.Nop())
	s.SetServing("", true)
	conn := startBuf(t, s)
	client := healthpb.NewHealthClient(conn)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{})
	if err != nil {
		t.Fatalf("Check err=%v", err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		t.Fatalf("期望 SERVING, got=%v", resp.GetStatus())
	}

	s.SetServing("", false)
	resp, err = client.Check(ctx, &healthpb.HealthCheckRequest{})
	if err != nil {
		t.Fatalf("Check err=%v", err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Fatalf("期望 NOT_SERVING, got=%v", resp.GetStatus())
	}
}

func TestTrace_出站注入入站提取(t *testing.T) {
	ctx := tracex.WithTraceID(context.Background(), "trace-1")
	ctx = tracex.WithSpanID(ctx, "span-1")

	out := injectTraceToOutgoing(ctx)
	md, ok := metadata.FromOutgoingContext(out)
	if !ok || len(md.Get(traceIDHeader)) == 0 {
		t.Fatalf("期望注入 trace 元数据")
	}

	in := extractTraceFromIncoming(metadata.NewIncomingContext(context.Background(), md), "/svc/M")
	if tid, _ := tracex.TraceIDFrom(in); tid != "trace-1" {
		t.Fatalf("期望提取 trace-1, got=%s", tid)
	}
	if sid, _ := tracex.SpanIDFrom(in); sid != "span-1" {
		t.Fatalf("期望提取 span-1, got=%s", sid)
	}
}

func TestTrace_上游未带trace时新建(t *testing.T) {
	ctx := extractTraceFromIncoming(context.Background(), "/grpc.health.v1.Health/Check")
	if tid, ok := tracex.TraceIDFrom(ctx); !ok || tid == "" {
		t.Fatalf("期望生成 trace_id")
	}
	if sid, _ := tracex.SpanIDFrom(ctx); sid != "/grpc.health.v1.Health/Check" {
		t.Fatalf("期望 span 为方法名, got=%s", sid)
	}
}
