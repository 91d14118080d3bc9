package ws

import (
	"errors"

	"EmpireBuilder/modules/kit/errx"
)

type errorMsg struct {
	Reason string         `json:"reason"`
	Msg    string         `json:"msg"`
	Data   map[string]any `json:"data,omitempty"`
}

// errorBody 业务错误带上 data 方便客户端展示缺什么；系统错误只给通用文案。
func errorBody(err error) errorMsg {
	var e *errx.Error
	if !errors.As(err, &e) {
		return errorMsg{Reason: string(errx.CodeInternal), Msg: errx.ErrInternal.Msg()}
	}
	out := errorMsg{Reason: e.CodeText(), Msg: e.Msg()}
	if e.IsBiz() {
		out.Data = e.Data()
	}
	return out
}
