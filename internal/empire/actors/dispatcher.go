package actors

import (
	"fmt"
	"reflect"

	"github.com/asynkron/protoactor-go/actor"

	"EmpireBuilder/internal/shared/actor/messages"
	"EmpireBuilder/modules/kit/errx"
)

type Dispatcher struct {
	handlers map[reflect.Type]Handler
}

type Handler struct {
	fn      reflect.Value // handler 函数
	reqType reflect.Type  // 请求类型
}

var defaultDispatcher = NewDispatcher()

func NewDispatcher() *Dispatcher {
	d := &Dispatcher{
		handlers: make(map[reflect.Type]Handler),
	}
	d.registerAll()
	return d
}

func (d *Dispatcher) registerAll() {
	register(d, EH.HandleGetEmpire)
	register(d, EH.HandleTrain)
	register(d, EH.HandleBuildCity)
	register(d, EH.HandleBuildBuilding)
	register(d, EH.HandleBuyLand)
	register(d, EH.HandleAttack)
}

// register 注册统一分发函数，要求 Req 是指针消息。
func register[Req messages.EmpireMessage](
	d *Dispatcher,
	fn func(ctx actor.Context, a *EmpireActor, req Req),
) {
	reqType := reflect.TypeOf((*Req)(nil)).Elem()
	if reqType.Kind() != reflect.Ptr {
		panic("dispatcher req type must be pointer message")
	}
	d.handlers[reqType] = Handler{
		fn:      reflect.ValueOf(fn),
		reqType: reqType,
	}
}

func (d *Dispatcher) Dispatch(ctx actor.Context, a *EmpireActor, req messages.EmpireMessage) {
	if v := reflect.ValueOf(req); req == nil || (v.Kind() == reflect.Ptr && v.IsNil()) {
		ctx.Respond(fail(errx.ErrReqParamERR.WithData("reason", "nil request")))
		return
	}
	handler, ok := d.handlers[reflect.TypeOf(req)]
	if !ok {
		ctx.Respond(fail(errx.ErrReqParamERR.WithData("message", fmt.Sprintf("%T", req))))
		return
	}
	handler.fn.Call([]reflect.Value{
		reflect.ValueOf(ctx),
		reflect.ValueOf(a),
		reflect.ValueOf(req),
	})
}
