package metrics

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_按标签计数(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.Battle(true)
	m.Battle(true)
	m.Battle(false)
	m.ProductionTicks(3)
	m.ProductionTicks(0)
	m.Sweep(20*time.Millisecond, 2)
	m.AIIntent("train", "executed")
	m.Rejected("train", "INSUFFICIENT_RESOURCES")
	m.Conflict()

	if got := testutil.ToFloat64(m.battles.WithLabelValues("attacker")); got != 2 {
		t.Fatalf("期望攻方胜 2 次, got=%v", got)
	}
	if got := testutil.ToFloat64(m.battles.WithLabelValues("defender")); got != 1 {
		t.Fatalf("期望守方胜 1 次, got=%v", got)
	}
	if got := testutil.ToFloat64(m.productionTicks); got != 3 {
		t.Fatalf("期望产出 3 tick, got=%v", got)
	}
	if got := testutil.ToFloat64(m.sweepFailures); got != 2 {
		t.Fatalf("期望失败 2 个, got=%v", got)
	}
	if got := testutil.ToFloat64(m.rejections.WithLabelValues("train", "INSUFFICIENT_RESOURCES")); got != 1 {
		t.Fatalf("期望拒绝 1 次, got=%v", got)
	}
	if n, err := testutil.GatherAndCount(reg, "empire_write_conflicts_total"); err != nil || n != 1 {
		t.Fatalf("期望注册冲突计数, n=%d err=%v", n, err)
	}
}

func TestMetrics_空接收者不panic(t *testing.T) {
	var m *Metrics
	m.Battle(true)
	m.ProductionTicks(1)
	m.Sweep(time.Second, 1)
	m.AIIntent("attack", "idle")
	m.Rejected("attack", "SELF_ATTACK")
	m.Conflict()
}

func TestWatchActiveEmpires_抓取时采样(t *testing.T) {
	reg := prometheus.NewRegistry()
	n, fail := 3, false
	if err := WatchActiveEmpires(reg, func() (int, error) {
		if fail {
			return 0, errors.New("ask timeout")
		}
		return n, nil
	}); err != nil {
		t.Fatalf("register err=%v", err)
	}

	want := `
# HELP empire_active_empire_actors Empire actors currently resident in memory.
# TYPE empire_active_empire_actors gauge
empire_active_empire_actors 3
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(want), "empire_active_empire_actors"); err != nil {
		t.Fatalf("采样值不符: %v", err)
	}
	fail = true
	if err := testutil.GatherAndCompare(reg, strings.NewReader(strings.Replace(want, "actors 3", "actors -1", 1)), "empire_active_empire_actors"); err != nil {
		t.Fatalf("失败时应上报 -1: %v", err)
	}
}
