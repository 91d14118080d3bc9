package ai

import (
	"math"
	"sort"

	"EmpireBuilder/internal/empire/economy"
	"EmpireBuilder/internal/empire/entity"
)

type IntentKind string

const (
	IntentTrain  IntentKind = "train"
	IntentAttack IntentKind = "attack"
)

// Intent 是 AI 的决策输出，执行时和玩家请求走同一条路径（会重新校验）。
type Intent struct {
	Kind     IntentKind      `json:"kind"`
	Strategy entity.Strategy `json:"strategy"`
	Behavior entity.Strategy `json:"behavior"`
	Train    entity.Military `json:"train"`
	Target   entity.EmpireID `json:"target,omitempty"`
	Units    entity.Military `json:"units"`
}

// 目标筛选阈值：我方战力必须高于对方 1.2 倍。
const attackAdvantage = 1.2

var defensivePriority = []entity.UnitKind{entity.Infantry, entity.Tanks, entity.Ships, entity.Aircraft}

type Planner struct {
	econ *economy.Engine
	rng  Rand
}

func NewPlanner(econ *economy.Engine, rng Rand) *Planner {
	if rng == nil {
		rng = DefaultRand()
	}
	return &Planner{econ: econ, rng: rng}
}

// Decide 按帝国固定策略给出一次决策，无事可做时返回 false。
func (p *Planner) Decide(self *entity.Empire, others []*entity.Empire) (Intent, bool) {
	if self == nil || self.AI == nil {
		return Intent{}, false
	}
	behavior := self.AI.Strategy
	if behavior == entity.Balanced {
		behavior = []entity.Strategy{entity.Aggressive, entity.Defensive, entity.Economic}[p.rng.IntN(3)]
	}

	var (
		in Intent
		ok bool
	)
	switch behavior {
	case entity.Aggressive:
		in, ok = p.attack(self, others)
	case entity.Defensive:
		in, ok = p.train(self, defensivePriority, 0.2, 0.5)
	case entity.Economic:
		in, ok = p.train(self, entity.UnitKinds, 0.1, 0.2)
	default:
		return Intent{}, false
	}
	in.Strategy = self.AI.Strategy
	in.Behavior = behavior
	return in, ok
}

// attack 选出最弱、其次最近的可攻击目标，派出每个兵种 30%~70% 的兵力。
func (p *Planner) attack(self *entity.Empire, others []*entity.Empire) (Intent, bool) {
	cat := p.econ.Catalog()
	mine := float64(cat.Power(self.Military))

	type candidate struct {
		e     *entity.Empire
		power int64
		dist  float64
	}
	var cands []candidate
	for _, o := range others {
		if o == nil || o.ID == self.ID {
			continue
		}
		their := cat.Power(o.Military)
		if mine > float64(their)*attackAdvantage {
			cands = append(cands, candidate{e: o, power: their, dist: distance(self.Location, o.Location)})
		}
	}
	if len(cands) == 0 {
		return Intent{}, false
	}
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].power != cands[j].power {
			return cands[i].power < cands[j].power
		}
		return cands[i].dist < cands[j].dist
	})

	var force entity.Military
	for _, k := range entity.UnitKinds {
		if n := self.Military.Get(k); n > 0 {
			force.Set(k, int64(float64(n)*uniform(p.rng, 0.3, 0.7)))
		}
	}
	if force.Total() == 0 {
		return Intent{}, false
	}
	return Intent{Kind: IntentAttack, Target: cands[0].e.ID, Units: force}, true
}

// train 贪心：按顺序对每个兵种算出可负担上限，取其 [lo,hi) 比例训练并先行扣减。
func (p *Planner) train(self *entity.Empire, order []entity.UnitKind, lo, hi float64) (Intent, bool) {
	cat := p.econ.Catalog()
	budget := self.Resources
	var batch entity.Military
	for _, k := range order {
		most := p.econ.MaxAffordable(budget, k)
		if most <= 0 {
			continue
		}
		n := int64(float64(most) * uniform(p.rng, lo, hi))
		if n <= 0 {
			continue
		}
		batch.Set(k, n)
		budget = budget.Minus(cat.Units[k].Cost.Times(n))
	}
	if batch.Total() == 0 {
		return Intent{}, false
	}
	return Intent{Kind: IntentTrain, Train: batch}, true
}

func distance(a, b entity.Location) float64 {
	return math.Hypot(a.Lat-b.Lat, a.Lng-b.Lng)
}
