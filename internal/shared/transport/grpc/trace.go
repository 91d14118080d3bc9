package grpc

import (
	"context"

	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"EmpireBuilder/modules/kit/tracex"
)

// 与 http 层 X-Trace-Id 对应的 metadata 键，grpc 要求小写。
const (
	traceIDHeader = "x-trace-id"
	spanIDHeader  = "x-span-id"
)

func clientTraceUnary(ctx context.Context, method string, req, reply any, cc *gogrpc.ClientConn,
	invoker gogrpc.UnaryInvoker, opts ...gogrpc.CallOption) error {
	return invoker(injectTraceToOutgoing(ctx), method, req, reply, cc, opts...)
}

func clientTraceStream(ctx context.Context, desc *gogrpc.StreamDesc, cc *gogrpc.ClientConn, method string,
	streamer gogrpc.Streamer, opts ...gogrpc.CallOption) (gogrpc.ClientStream, error) {
	return streamer(injectTraceToOutgoing(ctx), desc, cc, method, opts...)
}

// serverTraceUnary 提取上游 trace；没有时以方法名为 span 新建一个。
func serverTraceUnary(ctx context.Context, req any, info *gogrpc.UnaryServerInfo, handler gogrpc.UnaryHandler) (any, error) {
	return handler(extractTraceFromIncoming(ctx, info.FullMethod), req)
}

func serverTraceStream(srv any, ss gogrpc.ServerStream, info *gogrpc.StreamServerInfo, handler gogrpc.StreamHandler) error {
	return handler(srv, &tracedStream{ServerStream: ss, ctx: extractTraceFromIncoming(ss.Context(), info.FullMethod)})
}

// health Watch 是 stream 调用，需要替换 Context 才能把 trace 带进去。
type tracedStream struct {
	gogrpc.ServerStream
	ctx context.Context
}

func (s *tracedStream) Context() context.Context { return s.ctx }

func injectTraceToOutgoing(ctx context.Context) context.Context {
	var kv []string
	if tid, ok := tracex.TraceIDFrom(ctx); ok {
		kv = append(kv, traceIDHeader, tid)
	}
	if sid, ok := tracex.SpanIDFrom(ctx); ok {
		kv = append(kv, spanIDHeader, sid)
	}
	if len(kv) == 0 {
		return ctx
	}
	return metadata.AppendToOutgoingContext(ctx, kv...)
}

func extractTraceFromIncoming(ctx context.Context, method string) context.Context {
	span := method
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if tid := first(md, traceIDHeader); tid != "" {
			ctx = tracex.WithTraceID(ctx, tid)
		}
		if sid := first(md, spanIDHeader); sid != "" {
			span = sid
		}
	}
	return tracex.Ensure(ctx, span)
}

func first(md metadata.MD, key string) string {
	if vs := md.Get(key); len(vs) > 0 {
		return vs[0]
	}
	return ""
}
