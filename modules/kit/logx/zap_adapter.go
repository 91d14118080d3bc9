package logx

import (
	"context"

	"go.uber.org/zap"

	"EmpireBuilder/modules/kit/tracex"
)

// ZapLogger 把 *zap.Logger 适配成 Logger，零值和 nil 接收者都等同于 Nop。
type ZapLogger struct {
	logger *zap.Logger
}

func NewZapLogger(l *zap.Logger) *ZapLogger {
	return &ZapLogger{logger: l}
}

func (z *ZapLogger) zap() *zap.Logger {
	if z == nil || z.logger == nil {
		return zap.NewNop()
	}
	return z.logger
}

func (z *ZapLogger) WithContext(ctx context.Context) Logger {
	if ctx == nil {
		return z
	}
	fields := make([]zap.Field, 0, 2)
	if tid, ok := tracex.TraceIDFrom(ctx); ok {
		fields = append(fields, zap.String("trace_id", tid))
	}
	if sid, ok := tracex.SpanIDFrom(ctx); ok {
		fields = append(fields, zap.String("span_id", sid))
	}
	if len(fields) == 0 {
		return z
	}
	return &ZapLogger{logger: z.zap().With(fields...)}
}

func (z *ZapLogger) With(fields ...zap.Field) Logger {
	return &ZapLogger{logger: z.zap().With(fields...)}
}

func (z *ZapLogger) Debug(msg string, fields ...zap.Field) { z.zap().Debug(msg, fields...) }
func (z *ZapLogger) Info(msg string, fields ...zap.Field)  { z.zap().Info(msg, fields...) }
func (z *ZapLogger) Warn(msg string, fields ...zap.Field)  { z.zap().Warn(msg, fields...) }
func (z *ZapLogger) Error(msg string, fields ...zap.Field) { z.zap().Error(msg, fields...) }
