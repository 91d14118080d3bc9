package actors

import (
	"github.com/asynkron/protoactor-go/actor"

	"EmpireBuilder/internal/shared/actor/messages"
)

type EmpireHandler struct {
}

// 全局实例
var EH = &EmpireHandler{}

func (h *EmpireHandler) HandleGetEmpire(ctx actor.Context, a *EmpireActor, req *messages.GetEmpire) {
	c, cancel := a.callContext(req.TraceID)
	defer cancel()
	e, err := a.cmds.GetEmpire(c, a.id)
	ctx.Respond(&messages.Reply{Empire: e, Err: err})
}

func (h *EmpireHandler) HandleTrain(ctx actor.Context, a *EmpireActor, req *messages.Train) {
	c, cancel := a.callContext(req.TraceID)
	defer cancel()
	e, cost, err := a.cmds.Train(c, a.id, req.Units)
	ctx.Respond(&messages.Reply{Empire: e, Cost: cost, Err: err})
}

func (h *EmpireHandler) HandleBuildCity(ctx actor.Context, a *EmpireActor, req *messages.BuildCity) {
	c, cancel := a.callContext(req.TraceID)
	defer cancel()
	e, city, err := a.cmds.BuildCity(c, a.id, req.Name, req.Tier)
	ctx.Respond(&messages.Reply{Empire: e, City: city, Err: err})
}

func (h *EmpireHandler) HandleBuildBuilding(ctx actor.Context, a *EmpireActor, req *messages.BuildBuilding) {
	c, cancel := a.callContext(req.TraceID)
	defer cancel()
	e, err := a.cmds.BuildBuilding(c, a.id, req.City, req.Kind)
	ctx.Respond(&messages.Reply{Empire: e, Err: err})
}

func (h *EmpireHandler) HandleBuyLand(ctx actor.Context, a *EmpireActor, req *messages.BuyLand) {
	c, cancel := a.callContext(req.TraceID)
	defer cancel()
	e, gold, err := a.cmds.BuyLand(c, a.id, req.Acres)
	ctx.Respond(&messages.Reply{Empire: e, Gold: gold, Err: err})
}

func (h *EmpireHandler) HandleAttack(ctx actor.Context, a *EmpireActor, req *messages.Attack) {
	c, cancel := a.callContext(req.TraceID)
	defer cancel()
	res, err := a.cmds.Attack(c, a.id, req.Defender, req.Units)
	ctx.Respond(&messages.Reply{Battle: res, Err: err})
}

func fail(err error) *messages.Reply {
	return &messages.Reply{Err: err}
}
