package ws

import (
	"context"
	"strings"

	"EmpireBuilder/internal/shared/transport"
	"EmpireBuilder/modules/kit/logx"
)

type HandlerFunc func(ctx context.Context, req *WsMsgReq, resp *WsMsgResp)

// Registrar 业务模块向 ws 路由注册自己的处理器。
type Registrar interface {
	WsRegister(r *Router)
}

// Router 按 "组.方法" 分发上行帧，例如 empire.join。
// 注册只在启动阶段进行，之后只读，不加锁。
type Router struct {
	routes map[string]HandlerFunc
	log    logx.Logger
}

type Group struct {
	r      *Router
	prefix string
}

func NewRouter(l logx.Logger) *Router {
	if l == nil {
		l = logx.Nop()
	}
	return &Router{routes: make(map[string]HandlerFunc), log: l}
}

func (r *Router) Group(prefix string) *Group {
	return &Group{r: r, prefix: prefix}
}

func (g *Group) Handle(name string, h HandlerFunc) {
	g.r.routes[g.prefix+"."+name] = h
}

// Dispatch 执行路由并写访问日志。resp.Body.Code 预置为系统错误，handler 忘记回写时不会被当成成功。
func (r *Router) Dispatch(req *WsMsgReq, resp *WsMsgResp) {
	if resp == nil || resp.Body == nil {
		return
	}
	name := "unknown"
	if req != nil && req.Body != nil {
		name = req.Body.Name
	}
	ctx := transport.NewContext("WS " + name)
	resp.Body.Code, resp.Body.Msg = transport.SystemError, nil
	defer func() {
		transport.SetBizCode(ctx, transport.BizCode(resp.Body.Code))
		transport.WriteAccessLog(ctx, r.log)
	}()

	if req == nil || req.Body == nil {
		reject(resp, "请求体为空")
		return
	}
	group, method, ok := strings.Cut(name, ".")
	if !ok || group == "" || method == "" || strings.Contains(method, ".") {
		reject(resp, "路由格式应为 group.method")
		return
	}
	h := r.routes[name]
	if h == nil {
		reject(resp, "路由不存在: "+name)
		return
	}
	h(ctx, req, resp)
}

func reject(resp *WsMsgResp, msg string) {
	resp.Body.Code = transport.InvalidParam
	resp.Body.Msg = msg
}

// Fail 按错误设置响应码与原因，handler 出错时调用。
func Fail(resp *WsMsgResp, err error) {
	if resp == nil || resp.Body == nil {
		return
	}
	resp.Body.Code = transport.CodeOf(err)
	resp.Body.Msg = errorBody(err)
}

func OK(resp *WsMsgResp, data any) {
	if resp == nil || resp.Body == nil {
		return
	}
	resp.Body.Code = transport.OK
	resp.Body.Msg = data
}
