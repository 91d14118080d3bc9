package actors

import (
	"context"
	"time"

	"github.com/asynkron/protoactor-go/actor"

	"EmpireBuilder/internal/empire/entity"
	"EmpireBuilder/internal/shared/actor/messages"
	"EmpireBuilder/modules/kit/tracex"
)

type State int

const (
	None State = iota
	Online
	Stopping
)

// EmpireActor 单个帝国的邮箱：同一帝国的请求按到达顺序逐个执行。
type EmpireActor struct {
	state       State
	id          entity.EmpireID
	cmds        Commands
	idle        time.Duration
	callTimeout time.Duration
	dispatcher  *Dispatcher
}

func NewEmpireActor(id entity.EmpireID, cmds Commands, idle, callTimeout time.Duration) *EmpireActor {
	if callTimeout <= 0 {
		callTimeout = 3 * time.Second
	}
	return &EmpireActor{
		state:       None,
		id:          id,
		cmds:        cmds,
		idle:        idle,
		callTimeout: callTimeout,
		dispatcher:  defaultDispatcher,
	}
}

func (a *EmpireActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		a.state = Online
		if a.idle > 0 {
			ctx.SetReceiveTimeout(a.idle)
		}
	case *actor.Stopping:
		a.state = Stopping
	case *actor.Stopped, *actor.Restarting:
		a.state = None
	case *actor.ReceiveTimeout:
		ctx.Request(ctx.Parent(), &idleEmpire{id: a.id})
	case messages.EmpireMessage:
		if a.state != Online {
			ctx.Respond(&messages.Reply{Err: entity.ErrEmpireNotFound.WithData("empire_id", string(a.id))})
			return
		}
		a.dispatcher.Dispatch(ctx, a, msg)
	}
}

func (a *EmpireActor) ID() entity.EmpireID {
	return a.id
}

// callContext 每个请求独立超时，并恢复调用方的 trace id。
func (a *EmpireActor) callContext(traceID string) (context.Context, context.CancelFunc) {
	ctx := context.Background()
	if traceID != "" {
		ctx = tracex.WithTraceID(ctx, traceID)
	}
	ctx = tracex.WithSpanID(ctx, "empire-actor")
	return context.WithTimeout(ctx, a.callTimeout)
}
