package errs

import (
	"errors"
	"testing"
)

func TestWrap_nil原因返回nil(t *testing.T) {
	if err := Wrap("op", KindInfra, nil, nil); err != nil {
		t.Fatalf("期望 nil, got=%v", err)
	}
}

func TestWrap_保留根因与分类(t *testing.T) {
	root := errors.New("dial tcp: timeout")
	err := Wrap("repo.empire.Get", KindInfra, root, map[string]any{"empire_id": "e1"})
	if !errors.Is(err, root) {
		t.Fatalf("期望能 errors.Is 到根因")
	}
	if KindOf(err) != KindInfra {
		t.Fatalf("期望 infra, got=%v", KindOf(err))
	}
	if err.Error() != "repo.empire.Get: dial tcp: timeout" {
		t.Fatalf("错误文案不符, got=%q", err.Error())
	}
	if KindOf(root) != KindUnknown {
		t.Fatalf("未包装错误应为 unknown")
	}
}
