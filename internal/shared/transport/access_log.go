package transport

import (
	"context"
	"time"

	"go.uber.org/zap"

	"EmpireBuilder/modules/kit/errx"
	"EmpireBuilder/modules/kit/logx"
	"EmpireBuilder/modules/kit/tracex"
)

// AccessLog 一次请求的访问日志，http/ws/grpc 三个入口共用。
// 入口创建时 BizCode 预置为 SystemError，由 handler 通过 SetResult/SetBizCode 回写。
type AccessLog struct {
	BizCode     BizCode
	ErrorReason string

	action  string
	start   time.Time
	settled bool
}

type accessLogKey struct{}

func NewContext(action string) context.Context {
	return NewContextWithParent(context.Background(), action)
}

// NewContextWithParent 保留 parent 的取消信号和已有 trace_id，没有 trace_id 时新生成。
func NewContextWithParent(parent context.Context, action string) context.Context {
	if parent == nil {
		parent = context.Background()
	}
	if action == "" {
		action = "unknown"
	}
	al := &AccessLog{BizCode: BizCode(SystemError), action: action, start: time.Now()}
	return context.WithValue(tracex.Ensure(parent, "edge"), accessLogKey{}, al)
}

func FromContext(ctx context.Context) *AccessLog {
	if ctx == nil {
		return nil
	}
	al, _ := ctx.Value(accessLogKey{}).(*AccessLog)
	return al
}

// Settled 是否已有 handler 回写过业务码。
func (al *AccessLog) Settled() bool { return al.settled }

// SetResult 按错误写入业务码与失败原因，err 为 nil 记为成功。
func SetResult(ctx context.Context, err error) {
	SetBizCode(ctx, BizCode(CodeOf(err)))
	if err != nil {
		SetErrorReason(ctx, string(errx.CodeOf(err)))
	}
}

func SetBizCode(ctx context.Context, code BizCode) {
	if al := FromContext(ctx); al != nil {
		al.BizCode = code
		al.settled = true
	}
}

func SetErrorReason(ctx context.Context, reason string) {
	if al := FromContext(ctx); al != nil && reason != "" {
		al.ErrorReason = reason
	}
}

// WriteAccessLog 入口处 defer 调用。级别随业务码变化，见 logx.ReportAccessWithLoggerContext。
func WriteAccessLog(ctx context.Context, log logx.Logger) {
	al := FromContext(ctx)
	if al == nil || log == nil {
		return
	}
	result := "success"
	fields := []zap.Field{zap.Duration("latency", time.Since(al.start))}
	if al.BizCode != BizCode(OK) {
		result = "failure"
		if al.ErrorReason != "" {
			fields = append(fields, zap.String("error_reason", al.ErrorReason))
		}
	}
	fields = append(fields, zap.String("result", result))
	logx.ReportAccessWithLoggerContext(ctx, log, al.action, int(al.BizCode), fields...)
}
