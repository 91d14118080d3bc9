package logx

import (
	"context"
	"errors"
	"testing"

	"EmpireBuilder/modules/kit/errx"
	"EmpireBuilder/modules/kit/tracex"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestBuildErrorLog_能提取语义与栈(t *testing.T) {
	e := errx.NewSys("SYS_INTERNAL", "服务器内部错误").
		WithData("method", "Attack").
		WithCause(errors.New("store down"))

	meta := BuildErrorLog(e)
	if meta.Error == "" || meta.Code == "" || meta.Msg == "" {
		t.Fatalf("期望 Error/Code/Msg 非空, got=%+v", meta)
	}
	if meta.Data["method"] != "Attack" {
		t.Fatalf("期望 meta.Data 包含 method=Attack, got=%v", meta.Data)
	}
	if len(meta.CauseChain) == 0 {
		t.Fatalf("期望 meta.CauseChain 非空")
	}
	if meta.Origin == "" || meta.Stack == "" {
		t.Fatalf("期望 origin/stack 非空 origin=%q stack=%q", meta.Origin, meta.Stack)
	}
	if meta.Biz {
		t.Fatalf("期望系统错误 Biz=false")
	}
}

func TestReportError_业务拒绝走INFO_系统错误走ERROR(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewZapLogger(zap.New(core))
	ctx := tracex.WithTraceID(context.Background(), "t-42")

	ReportErrorWithLoggerContext(ctx, l, "train", errx.NewBiz("INSUFFICIENT_RESOURCES", "资源不足"))
	ReportErrorWithLoggerContext(ctx, l, "save", errx.ErrUnavailable.WithCause(errors.New("mongo down")))

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("期望两条日志, got=%d", len(entries))
	}
	if entries[0].Level != zapcore.InfoLevel || entries[0].ContextMap()["err_type"] != "biz" {
		t.Fatalf("期望业务拒绝 INFO/biz, got=%v %v", entries[0].Level, entries[0].ContextMap())
	}
	if entries[1].Level != zapcore.ErrorLevel || entries[1].ContextMap()["err_type"] != "sys" {
		t.Fatalf("期望系统错误 ERROR/sys, got=%v %v", entries[1].Level, entries[1].ContextMap())
	}
	if entries[1].ContextMap()["trace_id"] != "t-42" {
		t.Fatalf("期望带 trace_id, got=%v", entries[1].ContextMap())
	}
}
