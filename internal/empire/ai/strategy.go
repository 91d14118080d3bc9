package ai

import (
	"math/rand/v2"
	"time"

	"EmpireBuilder/internal/empire/entity"
)

// Rand 是 AI 的随机源。
type Rand interface {
	Float64() float64
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }
func (globalRand) IntN(n int) int { return rand.IntN(n) }

// DefaultRand 返回进程级并发安全的随机源。
func DefaultRand() Rand { return globalRand{} }

// 各难度两次行动之间的最小间隔。
var minIntervals = map[entity.Difficulty]time.Duration{
	entity.Easy:   120 * time.Second,
	entity.Normal: 90 * time.Second,
	entity.Hard:   60 * time.Second,
}

type weighted struct {
	strategy entity.Strategy
	weight   int
}

var strategyWeights = map[entity.Difficulty][]weighted{
	entity.Easy: {
		{entity.Aggressive, 1}, {entity.Defensive, 3}, {entity.Economic, 3}, {entity.Balanced, 2},
	},
	entity.Normal: {
		{entity.Aggressive, 1}, {entity.Defensive, 1}, {entity.Economic, 1}, {entity.Balanced, 1},
	},
	entity.Hard: {
		{entity.Aggressive, 4}, {entity.Defensive, 1}, {entity.Economic, 2}, {entity.Balanced, 3},
	},
}

// MinInterval 未知难度按 normal 处理。
func MinInterval(d entity.Difficulty) time.Duration {
	if v, ok := minIntervals[d]; ok {
		return v
	}
	return minIntervals[entity.Normal]
}

// PickStrategy 按难度权重抽取策略，只在创建 AI 帝国时调用一次。
func PickStrategy(d entity.Difficulty, rng Rand) entity.Strategy {
	table, ok := strategyWeights[d]
	if !ok {
		table = strategyWeights[entity.Normal]
	}
	total := 0
	for _, w := range table {
		total += w.weight
	}
	roll := rng.IntN(total)
	for _, w := range table {
		if roll < w.weight {
			return w.strategy
		}
		roll -= w.weight
	}
	return table[len(table)-1].strategy
}

// ShouldAct 冷却门：距上次行动必须严格超过该难度的最小间隔。
func ShouldAct(p *entity.AIProfile, now time.Time) bool {
	if p == nil {
		return false
	}
	if p.LastActionAt.IsZero() {
		return true
	}
	return now.Sub(p.LastActionAt) > MinInterval(p.Difficulty)
}

func uniform(rng Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// randInt 返回 [lo, hi] 闭区间整数。
func randInt(rng Rand, lo, hi int) int {
	return lo + rng.IntN(hi-lo+1)
}
