package actors

import (
	"time"

	"github.com/asynkron/protoactor-go/actor"

	"EmpireBuilder/internal/empire/entity"
	"EmpireBuilder/internal/shared/actor/messages"
	"EmpireBuilder/internal/shared/transport"
)

// ManagerActor 只做路由：按帝国 id 找到（或创建）子 actor 并转发，不干重活。
type ManagerActor struct {
	cmds         Commands
	idle         time.Duration
	callTimeout  time.Duration
	empireActors map[entity.EmpireID]*actor.PID
}

// idleEmpire 子 actor 空闲超时后上报，由 manager 摘除并投递毒丸。
type idleEmpire struct {
	id entity.EmpireID
}

// ActiveCount 查询当前存活的帝国 actor 数。
type ActiveCount struct{}

func NewManagerActor(cmds Commands, idle, callTimeout time.Duration) *ManagerActor {
	return &ManagerActor{
		cmds:         cmds,
		idle:         idle,
		callTimeout:  callTimeout,
		empireActors: make(map[entity.EmpireID]*actor.PID),
	}
}

func (m *ManagerActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *idleEmpire:
		if pid, ok := m.empireActors[msg.id]; ok && pid.Equal(ctx.Sender()) {
			delete(m.empireActors, msg.id)
			// 毒丸排在已转发的请求之后，摘除前进入邮箱的请求仍会被处理
			ctx.Poison(pid)
		}
	case *actor.Terminated:
		for id, pid := range m.empireActors {
			if pid.Equal(msg.Who) {
				delete(m.empireActors, id)
			}
		}
	case *ActiveCount:
		ctx.Respond(len(m.empireActors))
	case messages.EmpireMessage:
		id := msg.EmpireID()
		if id == "" {
			ctx.Respond(&messages.FailResp{Code: transport.InvalidParam, Message: "empire id 不能为空"})
			return
		}
		ctx.Forward(m.getOrSpawn(ctx, id))
	}
}

func (m *ManagerActor) getOrSpawn(ctx actor.Context, id entity.EmpireID) *actor.PID {
	if pid, ok := m.empireActors[id]; ok && pid != nil {
		return pid
	}
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewEmpireActor(id, m.cmds, m.idle, m.callTimeout)
	})
	// ManagerActor 创建子 actor，子 actor 退出时会收到 Terminated
	pid := ctx.Spawn(props)
	m.empireActors[id] = pid
	return pid
}
