package ws

import (
	"context"

	"EmpireBuilder/internal/empire/entity"
	"EmpireBuilder/internal/shared/transport/ws"
)

const (
	EventEmpireUpdate = "empire_update"
	EventBattleResult = "battle_result"
)

// Room 每个帝国一个房间。
func Room(id entity.EmpireID) string {
	return "empire_" + string(id)
}

// Notifier 把引擎事件推给订阅了对应帝国的连接。
type Notifier struct {
	hub *ws.Hub
}

func NewNotifier(hub *ws.Hub) *Notifier {
	return &Notifier{hub: hub}
}

func (n *Notifier) EmpireUpdated(_ context.Context, e *entity.Empire) {
	if e == nil {
		return
	}
	n.hub.Broadcast(Room(e.ID), EventEmpireUpdate, e)
}

// BattleResolved 攻守双方的房间都会收到同一份战报。
func (n *Notifier) BattleResolved(_ context.Context, r *entity.BattleResult) {
	if r == nil {
		return
	}
	n.hub.Broadcast(Room(r.AttackerID), EventBattleResult, r)
	n.hub.Broadcast(Room(r.DefenderID), EventBattleResult, r)
}
