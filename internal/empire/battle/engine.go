package battle

import (
	"math"
	"math/big"
	"math/rand/v2"
	"time"

	"EmpireBuilder/internal/empire/entity"
	"EmpireBuilder/internal/shared/gameconfig/catalog"
)

// Rand 是战斗随机源，测试里替换成固定序列。
type Rand interface {
	Float64() float64
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }

// CapturableResources 战利品只掠夺这四种资源，人口不参与。
var CapturableResources = []entity.ResourceKind{entity.Gold, entity.Food, entity.Iron, entity.Oil}

// Engine 结算一次攻击：先全部校验，再一次性计算，最后把结果同时写到双方。
//
// 胜负模型：双方战力各自乘以区间随机系数（防守方区间更高更窄），战力高者胜，平局判防守方胜。
type Engine struct {
	cat  *catalog.Catalog
	spec catalog.BattleSpec
	rng  Rand
}

type Option func(*Engine)

func WithRand(r Rand) Option {
	return func(e *Engine) {
		if r != nil {
			e.rng = r
		}
	}
}

// WithoutSwing 关闭战力随机浮动，伤亡区间仍由 Rand 决定。
func WithoutSwing() Option {
	return func(e *Engine) {
		e.spec.AttackSwing = catalog.Band{Min: 1, Max: 1}
		e.spec.DefenseSwing = catalog.Band{Min: 1, Max: 1}
	}
}

func NewEngine(cat *catalog.Catalog, opts ...Option) *Engine {
	if cat == nil {
		cat = catalog.Default()
	}
	e := &Engine{cat: cat, spec: cat.Battle, rng: globalRand{}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Validate 只做校验，不修改任何一方。
func (g *Engine) Validate(attacker, defender *entity.Empire, force entity.Military) error {
	if attacker == nil {
		return entity.ErrEmpireNotFound.WithData("role", "attacker")
	}
	if defender == nil {
		return entity.ErrEmpireNotFound.WithData("role", "defender")
	}
	if attacker.ID == defender.ID {
		return entity.ErrSelfAttack.WithData("empire_id", string(attacker.ID))
	}
	if force.HasNegative() || force.Total() <= 0 {
		return entity.ErrInvalidAmount.WithData("units", force.Map())
	}
	if lacking := attacker.Military.Lacking(force); len(lacking) > 0 {
		names := make([]string, 0, len(lacking))
		for _, k := range lacking {
			names = append(names, string(k))
		}
		return entity.ErrInsufficientUnits.WithDataMap(map[string]any{
			"lacking": names,
			"want":    force.Map(),
			"have":    attacker.Military.Map(),
		})
	}
	return nil
}

// Resolve 结算战斗并原地修改双方。返回错误时双方都未被修改。
func (g *Engine) Resolve(attacker, defender *entity.Empire, force entity.Military, now time.Time) (*entity.BattleResult, error) {
	if err := g.Validate(attacker, defender, force); err != nil {
		return nil, err
	}

	res := &entity.BattleResult{
		ID:               entity.NewBattleID(),
		AttackerID:       attacker.ID,
		DefenderID:       defender.ID,
		Committed:        force,
		DefenderSnapshot: defender.Military,
		BaseAttackPower:  g.AttackPower(force),
		BaseDefensePower: g.DefensePower(defender),
		FoughtAt:         now,
	}
	res.AttackPower = res.BaseAttackPower * g.uniform(g.spec.AttackSwing)
	res.DefensePower = res.BaseDefensePower * g.uniform(g.spec.DefenseSwing)
	res.AttackerWon = res.AttackPower > res.DefensePower

	bands := g.spec.DefenderWinLosses
	res.Winner = defender.ID
	if res.AttackerWon {
		bands = g.spec.AttackerWinLosses
		res.Winner = attacker.ID
	}
	res.AttackerLosses = g.casualties(force, bands.Attacker)
	res.DefenderLosses = g.casualties(defender.Military, bands.Defender)
	if res.AttackerWon {
		res.DefenderLosses = loserWorse(res.DefenderLosses, defender.Military, res.AttackerLosses, force)
	} else {
		res.AttackerLosses = loserWorse(res.AttackerLosses, force, res.DefenderLosses, defender.Military)
	}

	if res.AttackerWon {
		res.VictoryRatio = g.victoryRatio(res.AttackPower, res.DefensePower)
		res.LandCaptured = g.landCaptured(defender.Land, res.VictoryRatio)
		res.ResourcesCaptured = g.resourcesCaptured(defender.Resources, res.VictoryRatio)
	}

	apply(attacker, defender, res)
	return res, nil
}

// AttackPower = Σ 出征数量 × 攻击。
func (g *Engine) AttackPower(force entity.Military) float64 {
	var p float64
	for _, k := range entity.UnitKinds {
		p += float64(force.Get(k) * g.cat.Units[k].Attack)
	}
	return p
}

// DefensePower = Σ 全部驻军 × 防御 × 城市防御倍率。
func (g *Engine) DefensePower(defender *entity.Empire) float64 {
	var p float64
	for _, k := range entity.UnitKinds {
		p += float64(defender.Military.Get(k) * g.cat.Units[k].Defense)
	}
	return p * g.CityDefenseMultiplier(defender)
}

// CityDefenseMultiplier = 1 + Σ(城市防御加成 - 1)，每座城在 1.0 之上叠加。
func (g *Engine) CityDefenseMultiplier(e *entity.Empire) float64 {
	m := 1.0
	for _, c := range e.Cities {
		if tier, ok := g.cat.Tier(c.Tier); ok {
			m += tier.DefenseBonus - 1
		}
	}
	return m
}

func (g *Engine) uniform(b catalog.Band) float64 {
	if b.Max <= b.Min {
		return b.Min
	}
	return b.Min + g.rng.Float64()*(b.Max-b.Min)
}

func (g *Engine) casualties(units entity.Military, band catalog.Band) entity.Military {
	var out entity.Military
	for _, k := range entity.UnitKinds {
		n := units.Get(k)
		if n <= 0 {
			continue
		}
		loss := int64(math.Floor(float64(n) * g.uniform(band)))
		out.Set(k, min(max(loss, 0), n))
	}
	return out
}

// loserWorse 补足向下取整吞掉的伤亡，使败方伤亡率严格高于胜方。
// 比较用整数交叉相乘：losses/total > winLoss/winBase。
// 每次从剩余最多的兵种扣 1，败方无兵时不补。
func loserWorse(losses, base, winLoss, winBase entity.Military) entity.Military {
	total := base.Total()
	if total <= 0 {
		return losses
	}
	need := int64(1)
	if wb := winBase.Total(); wb > 0 {
		q := new(big.Int).Mul(big.NewInt(winLoss.Total()), big.NewInt(total))
		need = q.Quo(q, big.NewInt(wb)).Int64() + 1
	}
	need = min(need, total)
	for extra := need - losses.Total(); extra > 0; extra-- {
		var pick entity.UnitKind
		var left int64
		for _, k := range entity.UnitKinds {
			if r := base.Get(k) - losses.Get(k); r > left {
				pick, left = k, r
			}
		}
		if left == 0 {
			break
		}
		losses.Add(pick, 1)
	}
	return losses
}

func (g *Engine) victoryRatio(ap, dp float64) float64 {
	if dp <= 0 {
		return g.spec.MaxVictoryRatio
	}
	return math.Min(ap/dp, g.spec.MaxVictoryRatio)
}

func (g *Engine) landCaptured(land int64, ratio float64) int64 {
	if land <= 0 {
		return 0
	}
	taken := int64(math.Floor(float64(land) * g.spec.LandFraction * ratio))
	limit := int64(math.Floor(float64(land) * g.spec.MaxLandShare))
	return min(max(taken, 0), limit)
}

func (g *Engine) resourcesCaptured(held entity.Resources, ratio float64) entity.Resources {
	var out entity.Resources
	for _, k := range CapturableResources {
		have := held.Get(k)
		if have <= 0 {
			continue
		}
		taken := int64(math.Floor(float64(have) * g.spec.ResourceCaptureFraction * ratio))
		out.Set(k, min(max(taken, 0), have))
	}
	return out
}

func apply(attacker, defender *entity.Empire, res *entity.BattleResult) {
	for _, k := range entity.UnitKinds {
		attacker.Military.Add(k, -res.AttackerLosses.Get(k))
		defender.Military.Add(k, -res.DefenderLosses.Get(k))
	}
	if res.AttackerWon {
		defender.Land -= res.LandCaptured
		attacker.Land += res.LandCaptured
		defender.Resources = defender.Resources.Minus(res.ResourcesCaptured)
		attacker.Resources = attacker.Resources.Plus(res.ResourcesCaptured)
	}
	attacker.Clamp()
	defender.Clamp()
}
