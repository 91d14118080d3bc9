package ws

import (
	"context"
	"sync"
	"testing"

	"EmpireBuilder/internal/shared/transport"
	"EmpireBuilder/modules/kit/errx"
	"EmpireBuilder/modules/kit/logx"
)

type fakeConn struct {
	mu     sync.Mutex
	pushed []string
	done   chan struct{}
	props  map[string]any
}

func newFakeConn() *fakeConn {
	return &fakeConn{done: make(chan struct{}), props: map[string]any{}}
}

func (c *fakeConn) SetProperty(key string, value any) { c.props[key] = value }
func (c *fakeConn) GetProperty(key string) any        { return c.props[key] }
func (c *fakeConn) RemoveProperty(key string)         { delete(c.props, key) }
func (c *fakeConn) Addr() string                      { return "fake" }
func (c *fakeConn) Close()                            { close(c.done) }
func (c *fakeConn) Done() <-chan struct{}             { return c.done }
func (c *fakeConn) Push(name string, _ any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pushed = append(c.pushed, name)
}

func (c *fakeConn) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pushed)
}

func TestHub_按房间广播且关闭后自动退出(t *testing.T) {
	h := NewHub()
	a, b := newFakeConn(), newFakeConn()
	h.Join("empire_1", a)
	h.Join("empire_1", b)
	h.Join("empire_2", a)

	if n := h.Broadcast("empire_1", "empire_update", nil); n != 2 {
		t.Fatalf("期望推送 2 个连接, got=%d", n)
	}
	h.Leave("empire_1", b)
	if n := h.Broadcast("empire_1", "empire_update", nil); n != 1 {
		t.Fatalf("离开后不应再收到, got=%d", n)
	}

	a.Close()
	h.LeaveAll(a)
	if h.Size("empire_1") != 0 || h.Size("empire_2") != 0 {
		t.Fatalf("关闭的连接应退出所有房间")
	}
	if a.count() != 2 || b.count() != 1 {
		t.Fatalf("推送次数不符, a=%d b=%d", a.count(), b.count())
	}
}

func TestRouter_路由分发与错误码(t *testing.T) {
	r := NewRouter(logx.Nop())
	g := r.Group("empire")
	g.Handle("ok", func(ctx context.Context, req *WsMsgReq, resp *WsMsgResp) {
		OK(resp, "fine")
	})
	g.Handle("reject", func(ctx context.Context, req *WsMsgReq, resp *WsMsgResp) {
		Fail(resp, errx.NewBiz("NOPE", "不行").WithData("need", 3))
	})

	cases := []struct {
		name string
		want int
	}{
		{"empire.ok", transport.OK},
		{"empire.reject", transport.Rejected},
		{"empire.missing", transport.InvalidParam},
		{"nogroup.ok", transport.InvalidParam},
		{"bad-route", transport.InvalidParam},
	}
	for _, c := range cases {
		resp := &WsMsgResp{Body: &RespBody{}}
		r.Dispatch(&WsMsgReq{Body: &ReqBody{Name: c.name}}, resp)
		if resp.Body.Code != c.want {
			t.Fatalf("%s: 期望 code=%d, got=%d", c.name, c.want, resp.Body.Code)
		}
	}

	resp := &WsMsgResp{Body: &RespBody{}}
	r.Dispatch(&WsMsgReq{Body: &ReqBody{Name: "empire.reject"}}, resp)
	body, ok := resp.Body.Msg.(errorMsg)
	if !ok || body.Reason != "NOPE" || body.Data["need"] != 3 {
		t.Fatalf("业务错误应带 reason 与 data, got=%+v", resp.Body.Msg)
	}
}

func TestBindJSON_按json标签解码(t *testing.T) {
	var dst struct {
		EmpireID string `json:"empire_id"`
		Count    int64  `json:"count"`
	}
	req := &WsMsgReq{Body: &ReqBody{Msg: map[string]any{"empire_id": "e1", "count": float64(3)}}}
	if err := BindJSON(req, &dst); err != nil {
		t.Fatalf("BindJSON err=%v", err)
	}
	if dst.EmpireID != "e1" || dst.Count != 3 {
		t.Fatalf("解码结果不符, got=%+v", dst)
	}
	if err := BindJSON(&WsMsgReq{Body: &ReqBody{}}, &dst); err == nil {
		t.Fatalf("空 msg 应报错")
	}
}
