package logx

import (
	"context"

	"go.uber.org/zap"
)

// Logger 引擎各层共用的日志接口，字段一律用 zap.Field。
// WithContext 会把 ctx 上的 trace_id/span_id 带进后续每条日志。
type Logger interface {
	Debug(msg string, fields ...zap.Field)
	Info(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
	With(fields ...zap.Field) Logger
	WithContext(ctx context.Context) Logger
}

func Nop() Logger {
	return NewZapLogger(nil)
}
