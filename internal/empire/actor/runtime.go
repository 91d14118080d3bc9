package actor

import (
	"context"
	"errors"
	"time"

	protoactor "github.com/asynkron/protoactor-go/actor"

	"EmpireBuilder/internal/empire/actors"
	"EmpireBuilder/internal/empire/entity"
	"EmpireBuilder/internal/shared/actor/messages"
	"EmpireBuilder/internal/shared/transport"
	"EmpireBuilder/modules/kit/tracex"
)

const (
	defaultAskTimeout  = 3 * time.Second
	defaultIdleTimeout = 5 * time.Minute
)

type RuntimeError struct {
	Code    int
	Message string
	Cause   error
}

func (e *RuntimeError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

func (e *RuntimeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Runtime 帝国 actor 的宿主：一个 manager 负责路由，每个帝国一个子 actor。
type Runtime struct {
	system  *protoactor.ActorSystem
	root    *protoactor.RootContext
	manager *protoactor.PID
	timeout time.Duration
}

type Options struct {
	AskTimeout  time.Duration
	IdleTimeout time.Duration
}

func NewRuntime(cmds actors.Commands, opts Options) *Runtime {
	if opts.AskTimeout <= 0 {
		opts.AskTimeout = defaultAskTimeout
	}
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = defaultIdleTimeout
	}

	// ActorSystem 是 PID、调度、邮箱的容器；root context 是系统外部对 actor 的操作入口
	system := protoactor.NewActorSystem()
	root := system.Root
	managerProps := protoactor.PropsFromProducer(func() protoactor.Actor {
		return actors.NewManagerActor(cmds, opts.IdleTimeout, opts.AskTimeout)
	})
	manager := root.Spawn(managerProps)

	return &Runtime{
		system:  system,
		root:    root,
		manager: manager,
		timeout: opts.AskTimeout,
	}
}

func (r *Runtime) Shutdown() {
	if r == nil {
		return
	}
	if r.root != nil && r.manager != nil {
		_ = r.root.StopFuture(r.manager).Wait()
	}
	if r.system != nil {
		r.system.Shutdown()
	}
}

func (r *Runtime) request(pid *protoactor.PID, msg any, timeout time.Duration) (any, error) {
	if r == nil || r.root == nil {
		return nil, &RuntimeError{Code: transport.SystemError, Message: "actor runtime 未初始化"}
	}
	if pid == nil {
		return nil, &RuntimeError{Code: transport.SystemError, Message: "actor pid 为空"}
	}

	// 发送并阻塞等待回复或超时
	future := r.root.RequestFuture(pid, msg, timeout)
	res, err := future.Result()
	if err != nil {
		code := transport.SystemError
		if errors.Is(err, protoactor.ErrTimeout) {
			code = transport.Timeout
		}
		return nil, &RuntimeError{
			Code:    code,
			Message: "actor 请求失败",
			Cause:   err,
		}
	}
	return res, nil
}

func (r *Runtime) timeoutFromContext(ctx context.Context) time.Duration {
	if r == nil || r.timeout <= 0 {
		return defaultAskTimeout
	}
	if ctx == nil {
		return r.timeout
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		return r.timeout
	}
	remain := time.Until(deadline)
	if remain <= 0 {
		return time.Millisecond
	}
	if remain < r.timeout {
		return remain
	}
	return r.timeout
}

// Handle 把请求投给对应帝国的 actor 并等待回复。业务错误原样从 Reply.Err 返回。
func (r *Runtime) Handle(ctx context.Context, msg messages.EmpireMessage) (*messages.Reply, error) {
	if msg == nil {
		return nil, &RuntimeError{
			Code:    transport.InvalidParam,
			Message: "empire request 不能为空",
		}
	}

	res, err := r.request(r.manager, msg, r.timeoutFromContext(ctx))
	if err != nil {
		return nil, err
	}

	switch resp := res.(type) {
	case *messages.Reply:
		if resp.Err != nil {
			return nil, resp.Err
		}
		return resp, nil
	case *messages.FailResp:
		return nil, &RuntimeError{Code: resp.Code, Message: resp.Message}
	default:
		return nil, &RuntimeError{
			Code:    transport.SystemError,
			Message: "actor 返回类型非法",
		}
	}
}

// ActiveEmpires 当前驻留的帝国 actor 数。
func (r *Runtime) ActiveEmpires(ctx context.Context) (int, error) {
	res, err := r.request(r.manager, &actors.ActiveCount{}, r.timeoutFromContext(ctx))
	if err != nil {
		return 0, err
	}
	n, _ := res.(int)
	return n, nil
}

func base(ctx context.Context, id entity.EmpireID) messages.EmpireBase {
	b := messages.EmpireBase{Empire: id}
	if tid, ok := tracex.TraceIDFrom(ctx); ok {
		b.TraceID = tid
	}
	return b
}

func (r *Runtime) GetEmpire(ctx context.Context, id entity.EmpireID) (*entity.Empire, error) {
	rep, err := r.Handle(ctx, &messages.GetEmpire{EmpireBase: base(ctx, id)})
	if err != nil {
		return nil, err
	}
	return rep.Empire, nil
}

func (r *Runtime) Train(ctx context.Context, id entity.EmpireID, units entity.Military) (*entity.Empire, entity.Resources, error) {
	rep, err := r.Handle(ctx, &messages.Train{EmpireBase: base(ctx, id), Units: units})
	if err != nil {
		return nil, entity.Resources{}, err
	}
	return rep.Empire, rep.Cost, nil
}

func (r *Runtime) BuildCity(ctx context.Context, id entity.EmpireID, name string, tier entity.CityTier) (*entity.Empire, *entity.City, error) {
	rep, err := r.Handle(ctx, &messages.BuildCity{EmpireBase: base(ctx, id), Name: name, Tier: tier})
	if err != nil {
		return nil, nil, err
	}
	return rep.Empire, rep.City, nil
}

func (r *Runtime) BuildBuilding(ctx context.Context, id entity.EmpireID, cityID entity.CityID, kind entity.BuildingKind) (*entity.Empire, error) {
	rep, err := r.Handle(ctx, &messages.BuildBuilding{EmpireBase: base(ctx, id), City: cityID, Kind: kind})
	if err != nil {
		return nil, err
	}
	return rep.Empire, nil
}

func (r *Runtime) BuyLand(ctx context.Context, id entity.EmpireID, acres int64) (*entity.Empire, int64, error) {
	rep, err := r.Handle(ctx, &messages.BuyLand{EmpireBase: base(ctx, id), Acres: acres})
	if err != nil {
		return nil, 0, err
	}
	return rep.Empire, rep.Gold, nil
}

func (r *Runtime) Attack(ctx context.Context, attackerID, defenderID entity.EmpireID, units entity.Military) (*entity.BattleResult, error) {
	rep, err := r.Handle(ctx, &messages.Attack{EmpireBase: base(ctx, attackerID), Defender: defenderID, Units: units})
	if err != nil {
		return nil, err
	}
	return rep.Battle, nil
}

// CodeFromError actor 层错误优先取 RuntimeError.Code，其余按 errx 归一。
func CodeFromError(err error) int {
	if err == nil {
		return transport.OK
	}
	var re *RuntimeError
	if errors.As(err, &re) && re != nil && re.Code != 0 {
		return re.Code
	}
	return transport.CodeOf(err)
}
