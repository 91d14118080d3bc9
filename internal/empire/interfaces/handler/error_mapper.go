package handler

import (
	"context"
	"errors"

	"EmpireBuilder/internal/empire/entity"
	"EmpireBuilder/internal/shared/logs"
	"EmpireBuilder/internal/shared/transport"
	"EmpireBuilder/modules/kit/errx"
	"EmpireBuilder/modules/kit/logx"
)

// ErrorBody 返回给客户端的失败详情。
type ErrorBody struct {
	Reason string         `json:"reason"`
	Msg    string         `json:"msg"`
	Data   map[string]any `json:"data,omitempty"`
}

const busyMsg = "系统繁忙，请稍后重试"

// HandleError 把错误归一成业务码与响应体，并写入访问日志上下文。
// 业务拒绝带上 data（缺哪种资源、差多少）；系统错误只给通用文案。
func HandleError(ctx context.Context, err error) (int, ErrorBody) {
	transport.SetResult(ctx, err)

	var e *errx.Error
	if !errors.As(err, &e) {
		ReportError(ctx, "empire request failed", err)
		return transport.SystemError, ErrorBody{Reason: string(errx.CodeInternal), Msg: busyMsg}
	}

	code := transport.CodeOf(err)
	switch e.Code() {
	case entity.CodeEmpireNotFound, entity.CodeCityNotFound:
		code = transport.NotFound
		transport.SetBizCode(ctx, transport.BizCode(code))
	}

	body := ErrorBody{Reason: e.CodeText(), Msg: e.Msg()}
	if e.IsBiz() {
		body.Data = e.Data()
		return code, body
	}
	if !e.Retryable() {
		ReportError(ctx, "empire request failed", err)
		body.Msg = busyMsg
	}
	return code, body
}

// ReportError 接口层统一打印一次系统错误。
func ReportError(ctx context.Context, msg string, err error) {
	if err == nil {
		return
	}
	logx.ReportErrorWithLoggerContext(ctx, logx.NewZapLogger(logs.Logger()), msg, err)
}

// ParseMilitary 把 {"infantry": 10} 形式的兵力解析成 Military，未知兵种直接拒绝。
func ParseMilitary(in map[string]int64) (entity.Military, error) {
	var m entity.Military
	for name, n := range in {
		k, ok := entity.ParseUnitKind(name)
		if !ok {
			return entity.Military{}, entity.ErrUnknownKind.WithData("unit", name)
		}
		m.Set(k, n)
	}
	return m, nil
}
