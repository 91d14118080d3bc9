package transport

import (
	"errors"

	"EmpireBuilder/modules/kit/errx"
)

// BizCode 表示业务码的强类型封装，用于在日志上下文中减少误传风险。
type BizCode int

// 响应体里的 code。0 成功；4xx 调用方问题；5xx 服务端问题。
const (
	OK           = 0
	InvalidParam = 400
	NotFound     = 404
	Conflict     = 409
	Rejected     = 422
	SystemError  = 500
	Unavailable  = 503
	Timeout      = 504
)

// CodeOf 把 errx 错误归一成响应码。业务拒绝统一为 Rejected，具体原因看 reason。
func CodeOf(err error) int {
	if err == nil {
		return OK
	}
	var e *errx.Error
	if !errors.As(err, &e) {
		return SystemError
	}
	switch {
	case e.Code() == errx.CodeReqParamError:
		return InvalidParam
	case e.IsBiz():
		return Rejected
	case e.Retryable():
		return Conflict
	case e.Code() == errx.CodeUnavailable:
		return Unavailable
	case e.Code() == errx.CodeTimeout:
		return Timeout
	default:
		return SystemError
	}
}
