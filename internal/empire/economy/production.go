package economy

import (
	"time"

	"EmpireBuilder/internal/empire/entity"
)

// Produce 按经过的完整 tick 数结算被动产出，返回实际结算的 tick 数。
//
// 规则：
// - n = floor((now - last) / interval)，最多结算 maxCatchUp 个，超出部分作废
// - last 只前进 n*interval（未结算的零头保留到下次），重复调用不会重复计算
// - 每个 tick 依次叠加：土地基础产出、建筑产出（乘城市产出加成）、人口增长
func (g *Engine) Produce(e *entity.Empire, now time.Time) int {
	if e == nil {
		return 0
	}
	if e.LastResourceUpdate.IsZero() {
		e.LastResourceUpdate = now
		return 0
	}
	elapsed := now.Sub(e.LastResourceUpdate)
	if elapsed < g.interval {
		return 0
	}

	windows := int64(elapsed / g.interval)
	apply := windows
	if g.maxCatchUp > 0 && apply > int64(g.maxCatchUp) {
		apply = int64(g.maxCatchUp)
	}
	for i := int64(0); i < apply; i++ {
		g.applyTick(e)
	}
	e.LastResourceUpdate = e.LastResourceUpdate.Add(time.Duration(windows) * g.interval)
	return int(apply)
}

// TickYield 返回当前状态下一个 tick 的产出（人口增长按当前人口计算）。
func (g *Engine) TickYield(e *entity.Empire) entity.Resources {
	if e == nil {
		return entity.Resources{}
	}
	out := g.landYield(e.Land).Plus(g.buildingYield(e))
	out.Population += int64(float64(e.Resources.Population+out.Population) * g.cat.Production.PopulationGrowth)
	return out
}

func (g *Engine) applyTick(e *entity.Empire) {
	e.Resources = e.Resources.Plus(g.landYield(e.Land)).Plus(g.buildingYield(e))
	e.Resources.Population += int64(float64(e.Resources.Population) * g.cat.Production.PopulationGrowth)
	e.Resources.Clamp()
}

// landYield: rate = land/1000，每种资源 floor(base*rate)。
func (g *Engine) landYield(land int64) entity.Resources {
	rate := float64(land) / 1000
	base := g.cat.Production.BasePerThousandAcres
	var out entity.Resources
	for _, k := range entity.ResourceKinds {
		if v := base.Get(k); v != 0 {
			out.Set(k, int64(float64(v)*rate))
		}
	}
	return out
}

// buildingYield 按城市逐个计算：floor(产量 × 数量 × 城市产出加成)。
func (g *Engine) buildingYield(e *entity.Empire) entity.Resources {
	var out entity.Resources
	for _, city := range e.Cities {
		tier, ok := g.cat.Tier(city.Tier)
		if !ok {
			continue
		}
		for _, bk := range entity.BuildingKinds {
			count := city.Buildings.Get(bk)
			if count <= 0 {
				continue
			}
			spec, ok := g.cat.Building(bk)
			if !ok {
				continue
			}
			for _, rk := range entity.ResourceKinds {
				amount := spec.Production.Get(rk)
				if amount == 0 {
					continue
				}
				out.Add(rk, int64(float64(amount*count)*tier.ProductionBonus))
			}
		}
	}
	return out
}
