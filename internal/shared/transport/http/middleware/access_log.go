package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"EmpireBuilder/internal/shared/transport"
	"EmpireBuilder/modules/kit/logx"
	"EmpireBuilder/modules/kit/tracex"
)

// TraceHeader 上游可带入 trace_id，响应里总会回写一份。
const TraceHeader = "X-Trace-Id"

// AccessLog 为每个请求建立访问日志上下文。handler 没有回写业务码时按 HTTP 状态码推断。
func AccessLog(log logx.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}

		parent := c.Request.Context()
		if tid := c.GetHeader(TraceHeader); tid != "" {
			parent = tracex.WithTraceID(parent, tid)
		}
		ctx := transport.NewContextWithParent(parent, c.Request.Method+" "+route)
		c.Request = c.Request.WithContext(ctx)
		if tid, ok := tracex.TraceIDFrom(ctx); ok {
			c.Header(TraceHeader, tid)
		}

		c.Next()

		if al := transport.FromContext(ctx); al != nil && !al.Settled() {
			transport.SetBizCode(ctx, transport.BizCode(codeOfStatus(c.Writer.Status())))
		}
		transport.WriteAccessLog(ctx, log)
	}
}

// 业务码与 HTTP 状态码同区间，失败时直接沿用状态码。
func codeOfStatus(status int) int {
	if status < http.StatusBadRequest {
		return transport.OK
	}
	return status
}
