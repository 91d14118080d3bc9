package ws

import (
	"context"
	"sync"
	"testing"

	"EmpireBuilder/internal/empire/entity"
	"EmpireBuilder/internal/empire/interfaces/handler"
	"EmpireBuilder/internal/shared/transport"
	"EmpireBuilder/internal/shared/transport/ws"
	"EmpireBuilder/modules/kit/logx"
)

type fakeConn struct {
	mu     sync.Mutex
	events []string
	done   chan struct{}
}

func newFakeConn() *fakeConn { return &fakeConn{done: make(chan struct{})} }

func (c *fakeConn) SetProperty(string, any) {}
func (c *fakeConn) GetProperty(string) any  { return nil }
func (c *fakeConn) RemoveProperty(string)   {}
func (c *fakeConn) Addr() string            { return "fake" }
func (c *fakeConn) Close()                  { close(c.done) }
func (c *fakeConn) Done() <-chan struct{}   { return c.done }
func (c *fakeConn) Push(name string, _ any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, name)
}

func (c *fakeConn) received() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.events...)
}

type fakeReader map[entity.EmpireID]*entity.Empire

func (f fakeReader) GetEmpire(_ context.Context, id entity.EmpireID) (*entity.Empire, error) {
	if e, ok := f[id]; ok {
		return e, nil
	}
	return nil, entity.ErrEmpireNotFound.WithData("empire_id", string(id))
}

func call(r *ws.Router, conn ws.WSConn, name string, msg any) *ws.RespBody {
	resp := &ws.WsMsgResp{Body: &ws.RespBody{Name: name}}
	r.Dispatch(&ws.WsMsgReq{Body: &ws.ReqBody{Name: name, Msg: msg}, Conn: conn}, resp)
	return resp.Body
}

func setup() (*ws.Router, *ws.Hub) {
	hub := ws.NewHub()
	reader := fakeReader{"e1": {ID: "e1", Name: "Rome"}}
	r := ws.NewRouter(logx.Nop())
	NewWsHandler(reader, hub).RegisterRoutes(r)
	return r, hub
}

func TestJoin_订阅后收到更新与战报(t *testing.T) {
	r, hub := setup()
	conn := newFakeConn()

	body := call(r, conn, "empire.join", map[string]any{"empire_id": "e1"})
	if body.Code != transport.OK {
		t.Fatalf("订阅失败, body=%+v", body)
	}
	if e, ok := body.Msg.(*entity.Empire); !ok || e.ID != "e1" {
		t.Fatalf("期望返回当前快照, got=%+v", body.Msg)
	}
	if hub.Size(Room("e1")) != 1 {
		t.Fatalf("期望加入房间")
	}

	n := NewNotifier(hub)
	n.EmpireUpdated(context.Background(), &entity.Empire{ID: "e1"})
	n.EmpireUpdated(context.Background(), &entity.Empire{ID: "other"})
	n.BattleResolved(context.Background(), &entity.BattleResult{AttackerID: "x", DefenderID: "e1"})

	got := conn.received()
	if len(got) != 2 || got[0] != EventEmpireUpdate || got[1] != EventBattleResult {
		t.Fatalf("推送不符, got=%v", got)
	}

	if body := call(r, conn, "empire.leave", map[string]any{"empire_id": "e1"}); body.Code != transport.OK {
		t.Fatalf("退订失败, body=%+v", body)
	}
	if hub.Size(Room("e1")) != 0 {
		t.Fatalf("期望退出房间")
	}
}

func TestJoin_帝国不存在不入房间(t *testing.T) {
	r, hub := setup()
	conn := newFakeConn()

	body := call(r, conn, "empire.join", map[string]any{"empire_id": "nope"})
	if body.Code != transport.NotFound {
		t.Fatalf("期望 NotFound, got=%+v", body)
	}
	if eb, ok := body.Msg.(handler.ErrorBody); !ok || eb.Reason != string(entity.CodeEmpireNotFound) {
		t.Fatalf("期望 EMPIRE_NOT_FOUND, got=%+v", body.Msg)
	}
	if hub.Size(Room("nope")) != 0 {
		t.Fatalf("不存在的帝国不应建房间")
	}
}

func TestGet_缺少参数(t *testing.T) {
	r, _ := setup()
	body := call(r, newFakeConn(), "empire.get", map[string]any{})
	if body.Code != transport.InvalidParam {
		t.Fatalf("期望 InvalidParam, got=%+v", body)
	}
}
