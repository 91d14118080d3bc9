package grpc

import (
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Dial 建立带 trace 注入的 grpc 连接。
func Dial(target string, extra ...grpc.DialOption) (*grpc.ClientConn, error) {
	// grpc Dial 拨号配置
	opts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithChainUnaryInterceptor(clientTraceUnary),
		grpc.WithChainStreamInterceptor(clientTraceStream),
	}
	opts = append(opts, extra...)
	// NewClient 不会立即建连：resolver 和 balancer 异步启动，首次调用时才真正连接
	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, fmt.Errorf("dial %s failed: %w", target, err)
	}
	return conn, nil
}
