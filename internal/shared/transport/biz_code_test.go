package transport

import (
	"context"
	"errors"
	"testing"

	"EmpireBuilder/modules/kit/errx"
)

func TestCodeOf_错误归类(t *testing.T) {
	biz := errx.NewBiz("INSUFFICIENT_GOLD", "金币不足")
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"成功", nil, OK},
		{"参数错误", errx.ErrReqParamERR.WithData("field", "name"), InvalidParam},
		{"业务拒绝", biz, Rejected},
		{"包装后的业务拒绝", errors.Join(errors.New("ctx"), biz), Rejected},
		{"并发冲突", errx.ErrConflict, Conflict},
		{"依赖不可用", errx.ErrUnavailable.WithCause(errors.New("dial tcp")), Unavailable},
		{"超时", errx.ErrTimeout, Timeout},
		{"内部错误", errx.ErrInternal, SystemError},
		{"非 errx 错误", errors.New("boom"), SystemError},
	}
	for _, c := range cases {
		if got := CodeOf(c.err); got != c.want {
			t.Fatalf("%s: 期望 %d, got=%d", c.name, c.want, got)
		}
	}
}

func TestSetResult_写入业务码与原因(t *testing.T) {
	ctx := NewContext("POST /api/empires/:id/train")
	al := FromContext(ctx)
	if al == nil || al.BizCode != BizCode(SystemError) {
		t.Fatalf("期望默认业务码为 SystemError")
	}

	SetResult(ctx, errx.NewBiz("INSUFFICIENT_GOLD", "金币不足"))
	if al.BizCode != BizCode(Rejected) || al.ErrorReason != "INSUFFICIENT_GOLD" {
		t.Fatalf("期望 Rejected + 原因, got=%+v", al)
	}

	SetResult(ctx, nil)
	if al.BizCode != BizCode(OK) {
		t.Fatalf("期望成功码, got=%d", al.BizCode)
	}
}

func TestFromContext_无AccessLog返回nil(t *testing.T) {
	if FromContext(context.Background()) != nil {
		t.Fatalf("期望 nil")
	}
	SetBizCode(context.Background(), BizCode(OK))
}
