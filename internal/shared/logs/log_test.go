package logs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"EmpireBuilder/internal/shared/serverconfig"
)

func TestSetLevel_非法级别保持原值(t *testing.T) {
	t.Cleanup(func() { atomicLevel.SetLevel(zapcore.InfoLevel) })

	if !SetLevel("WARN") {
		t.Fatalf("期望 WARN 可解析")
	}
	if atomicLevel.Level() != zapcore.WarnLevel {
		t.Fatalf("期望级别 warn, got=%v", atomicLevel.Level())
	}
	if SetLevel("loud") {
		t.Fatalf("期望非法级别返回 false")
	}
	if atomicLevel.Level() != zapcore.WarnLevel {
		t.Fatalf("期望保持 warn, got=%v", atomicLevel.Level())
	}
}

func TestInit_文件输出JSON并受级别控制(t *testing.T) {
	t.Cleanup(func() {
		logger = zap.NewNop()
		atomicLevel.SetLevel(zapcore.InfoLevel)
	})
	path := filepath.Join(t.TempDir(), "empire.log")
	if err := Init("test", serverconfig.LogConfig{FileDir: path, Level: "info"}); err != nil {
		t.Fatalf("Init err=%v", err)
	}
	Debug("hidden")
	Info("visible", zap.String("empire_id", "e1"))
	Sync()

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log err=%v", err)
	}
	out := string(raw)
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug 日志不应输出: %s", out)
	}
	if !strings.Contains(out, `"msg":"visible"`) || !strings.Contains(out, `"empire_id":"e1"`) {
		t.Fatalf("期望 JSON 格式的 info 日志: %s", out)
	}
	if !strings.Contains(out, "log_test.go") {
		t.Fatalf("期望 caller 指向调用处: %s", out)
	}
}
