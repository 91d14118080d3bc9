package ws

import (
	"context"

	"EmpireBuilder/internal/empire/entity"
	"EmpireBuilder/internal/empire/interfaces/handler"
	"EmpireBuilder/internal/shared/transport"
	"EmpireBuilder/internal/shared/transport/ws"
)

// Reader 订阅时返回一次当前快照。
type Reader interface {
	GetEmpire(ctx context.Context, id entity.EmpireID) (*entity.Empire, error)
}

type EmpireReq struct {
	EmpireID string `json:"empire_id"`
}

type WsHandler struct {
	reader Reader
	hub    *ws.Hub
}

func NewWsHandler(reader Reader, hub *ws.Hub) *WsHandler {
	return &WsHandler{reader: reader, hub: hub}
}

func (h *WsHandler) RegisterRoutes(r *ws.Router) {
	empireGroup := r.Group("empire")
	empireGroup.Handle("join", h.Join)
	empireGroup.Handle("leave", h.Leave)
	empireGroup.Handle("get", h.Get)
}

// Join 订阅某个帝国的推送（empire_update、battle_result），并返回当前快照。
func (h *WsHandler) Join(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
	id, ok := h.bind(wsReq, wsResp)
	if !ok {
		return
	}
	e, err := h.reader.GetEmpire(ctx, id)
	if err != nil {
		h.error(ctx, wsResp, err)
		return
	}
	h.hub.Join(Room(id), wsReq.Conn)
	ws.OK(wsResp, e)
}

func (h *WsHandler) Leave(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
	id, ok := h.bind(wsReq, wsResp)
	if !ok {
		return
	}
	h.hub.Leave(Room(id), wsReq.Conn)
	ws.OK(wsResp, nil)
}

func (h *WsHandler) Get(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
	id, ok := h.bind(wsReq, wsResp)
	if !ok {
		return
	}
	e, err := h.reader.GetEmpire(ctx, id)
	if err != nil {
		h.error(ctx, wsResp, err)
		return
	}
	ws.OK(wsResp, e)
}

func (h *WsHandler) bind(wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) (entity.EmpireID, bool) {
	if wsReq == nil || wsReq.Body == nil || wsReq.Conn == nil || wsResp == nil || wsResp.Body == nil {
		h.fail(wsResp, transport.InvalidParam, "参数有误")
		return "", false
	}
	var req EmpireReq
	if err := ws.BindJSON(wsReq, &req); err != nil || req.EmpireID == "" {
		h.fail(wsResp, transport.InvalidParam, "参数有误")
		return "", false
	}
	return entity.EmpireID(req.EmpireID), true
}

func (h *WsHandler) fail(resp *ws.WsMsgResp, code int, msg string) {
	if resp == nil || resp.Body == nil {
		return
	}
	resp.Body.Code = code
	if msg != "" {
		resp.Body.Msg = msg
	}
}

func (h *WsHandler) error(ctx context.Context, resp *ws.WsMsgResp, err error) {
	if resp == nil || resp.Body == nil {
		return
	}
	code, body := handler.HandleError(ctx, err)
	resp.Body.Code = code
	resp.Body.Msg = body
}
