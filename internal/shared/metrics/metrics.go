package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "empire"

// Metrics 引擎运行指标。nil 接收者上的所有方法都是空操作。
type Metrics struct {
	battles         *prometheus.CounterVec
	productionTicks prometheus.Counter
	sweepDuration   prometheus.Histogram
	sweepFailures   prometheus.Counter
	aiIntents       *prometheus.CounterVec
	rejections      *prometheus.CounterVec
	conflicts       prometheus.Counter
}

// New 在 reg 上注册全部指标；reg 为 nil 时使用独立的新注册表（测试用）。
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)
	return &Metrics{
		battles: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "battles_total",
			Help:      "Resolved battles by outcome.",
		}, []string{"outcome"}),
		productionTicks: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "production_ticks_total",
			Help:      "Production ticks applied across all empires.",
		}),
		sweepDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "production_sweep_seconds",
			Help:      "Duration of one production sweep.",
			Buckets:   prometheus.DefBuckets,
		}),
		sweepFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "production_failures_total",
			Help:      "Empires skipped by a production sweep because of an error.",
		}),
		aiIntents: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ai_intents_total",
			Help:      "AI intents by kind and result.",
		}, []string{"kind", "result"}),
		rejections: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rejections_total",
			Help:      "Commands rejected with a business error code.",
		}, []string{"op", "code"}),
		conflicts: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "write_conflicts_total",
			Help:      "Optimistic version conflicts reported by storage.",
		}),
	}
}

func (m *Metrics) Battle(attackerWon bool) {
	if m == nil {
		return
	}
	outcome := "defender"
	if attackerWon {
		outcome = "attacker"
	}
	m.battles.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ProductionTicks(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.productionTicks.Add(float64(n))
}

func (m *Metrics) Sweep(d time.Duration, failed int) {
	if m == nil {
		return
	}
	m.sweepDuration.Observe(d.Seconds())
	if failed > 0 {
		m.sweepFailures.Add(float64(failed))
	}
}

func (m *Metrics) AIIntent(kind, result string) {
	if m == nil {
		return
	}
	m.aiIntents.WithLabelValues(kind, result).Inc()
}

func (m *Metrics) Rejected(op, code string) {
	if m == nil {
		return
	}
	m.rejections.WithLabelValues(op, code).Inc()
}

func (m *Metrics) Conflict() {
	if m == nil {
		return
	}
	m.conflicts.Inc()
}

// WatchActiveEmpires 注册一个按需采样的 gauge，每次抓取 /metrics 时调用 count。
// 采样失败时上报 -1。
func WatchActiveEmpires(reg prometheus.Registerer, count func() (int, error)) error {
	return reg.Register(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_empire_actors",
		Help:      "Empire actors currently resident in memory.",
	}, func() float64 {
		n, err := count()
		if err != nil {
			return -1
		}
		return float64(n)
	}))
}
