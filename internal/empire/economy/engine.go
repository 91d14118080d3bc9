package economy

import (
	"math"
	"strings"
	"time"

	"EmpireBuilder/internal/empire/entity"
	"EmpireBuilder/internal/shared/gameconfig/catalog"
)

// 与 engine.production_interval / engine.max_catch_up_ticks 的默认值一致。
const (
	DefaultInterval   = 60 * time.Second
	DefaultMaxCatchUp = 1440
)

// Engine 是纯计算的经济引擎：只修改传入的 Empire，不做任何 I/O。
// 所有校验都在修改之前完成，失败时 Empire 保持原样。
type Engine struct {
	cat        *catalog.Catalog
	interval   time.Duration
	maxCatchUp int
}

func NewEngine(cat *catalog.Catalog, interval time.Duration, maxCatchUp int) *Engine {
	if cat == nil {
		cat = catalog.Default()
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	if maxCatchUp <= 0 {
		maxCatchUp = DefaultMaxCatchUp
	}
	return &Engine{cat: cat, interval: interval, maxCatchUp: maxCatchUp}
}

func (g *Engine) Catalog() *catalog.Catalog { return g.cat }

func (g *Engine) Interval() time.Duration { return g.interval }

// Charge 全有或全无地扣除 cost：先校验土地再校验资源，任何一项不足都不做修改。
func (g *Engine) Charge(e *entity.Empire, cost entity.Cost) error {
	if cost.Land > 0 && e.Land < cost.Land {
		return entity.ErrInsufficientLand.WithDataMap(map[string]any{
			"need": cost.Land,
			"have": e.Land,
		})
	}
	if missing := e.Resources.Missing(cost.Resources); len(missing) > 0 {
		return entity.ErrInsufficientResources.WithDataMap(map[string]any{
			"missing": kindNames(missing),
			"need":    cost.Resources.Map(),
			"have":    e.Resources.Map(),
		})
	}
	e.Resources = e.Resources.Minus(cost.Resources)
	e.Land -= cost.Land
	e.Clamp()
	return nil
}

// Train 训练一批兵力，返回实际花费。
func (g *Engine) Train(e *entity.Empire, units entity.Military) (entity.Resources, error) {
	if units.HasNegative() || units.Total() <= 0 {
		return entity.Resources{}, entity.ErrInvalidAmount.WithData("units", units.Map())
	}
	if overflowsTraining(g.cat, units) {
		return entity.Resources{}, entity.ErrInvalidAmount.WithData("units", units.Map())
	}
	cost := g.cat.TrainingCost(units)
	if err := g.Charge(e, entity.Cost{Resources: cost}); err != nil {
		return entity.Resources{}, err
	}
	for _, k := range entity.UnitKinds {
		e.Military.Add(k, units.Get(k))
	}
	return cost, nil
}

// BuildCity 按等级造价建城，新城所有建筑数量为 0。
func (g *Engine) BuildCity(e *entity.Empire, name string, tier entity.CityTier, now time.Time) (*entity.City, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, entity.ErrInvalidName.WithData("field", "city_name")
	}
	spec, ok := g.cat.Tier(tier)
	if !ok {
		return nil, entity.ErrUnknownKind.WithData("city_tier", string(tier))
	}
	if err := g.Charge(e, entity.Cost{Resources: spec.Cost, Land: spec.Land}); err != nil {
		return nil, err
	}
	city := &entity.City{ID: entity.NewCityID(), Name: name, Tier: tier, CreatedAt: now}
	if e.Cities == nil {
		e.Cities = make(map[entity.CityID]*entity.City)
	}
	e.Cities[city.ID] = city
	return city, nil
}

// BuildBuilding 校验顺序：城市存在、单城单类上限、城市总量上限、土地、资源。
func (g *Engine) BuildBuilding(e *entity.Empire, cityID entity.CityID, kind entity.BuildingKind) error {
	city, ok := e.Cities[cityID]
	if !ok || city == nil {
		return entity.ErrCityNotFound.WithData("city_id", string(cityID))
	}
	spec, ok := g.cat.Building(kind)
	if !ok {
		return entity.ErrUnknownKind.WithData("building", string(kind))
	}
	if city.Buildings.Get(kind) >= spec.MaxPerCity {
		return entity.ErrBuildingLimit.WithDataMap(map[string]any{
			"building": string(kind),
			"max":      spec.MaxPerCity,
		})
	}
	tier, ok := g.cat.Tier(city.Tier)
	if !ok {
		return entity.ErrUnknownKind.WithData("city_tier", string(city.Tier))
	}
	if city.Buildings.Total() >= tier.MaxBuildings {
		return entity.ErrCityFull.WithDataMap(map[string]any{
			"city_id": string(cityID),
			"max":     tier.MaxBuildings,
		})
	}
	if err := g.Charge(e, entity.Cost{Resources: spec.Cost, Land: spec.LandRequired}); err != nil {
		return err
	}
	city.Buildings.Add(kind, 1)
	e.Buildings.Add(kind, 1)
	return nil
}

// BuyLand 按固定地价购买土地，返回花费的金币。
func (g *Engine) BuyLand(e *entity.Empire, acres int64) (int64, error) {
	if acres <= 0 || acres > math.MaxInt64/g.cat.LandPricePerAcre {
		return 0, entity.ErrInvalidAmount.WithData("acres", acres)
	}
	gold := acres * g.cat.LandPricePerAcre
	if err := g.Charge(e, entity.Cost{Resources: entity.Resources{Gold: gold}}); err != nil {
		return 0, err
	}
	e.Land += acres
	return gold, nil
}

// MaxAffordable 计算当前资源最多能训练多少个 kind。
func (g *Engine) MaxAffordable(res entity.Resources, kind entity.UnitKind) int64 {
	spec, ok := g.cat.Unit(kind)
	if !ok {
		return 0
	}
	best := int64(math.MaxInt64)
	for _, rk := range entity.ResourceKinds {
		c := spec.Cost.Get(rk)
		if c <= 0 {
			continue
		}
		if n := res.Get(rk) / c; n < best {
			best = n
		}
	}
	if best == math.MaxInt64 || best < 0 {
		return 0
	}
	return best
}

func overflowsTraining(cat *catalog.Catalog, units entity.Military) bool {
	for _, k := range entity.UnitKinds {
		n := units.Get(k)
		if n == 0 {
			continue
		}
		spec := cat.Units[k]
		for _, rk := range entity.ResourceKinds {
			if c := spec.Cost.Get(rk); c > 0 && n > math.MaxInt64/(c*int64(len(entity.UnitKinds))) {
				return true
			}
		}
	}
	return false
}

func kindNames(kinds []entity.ResourceKind) []string {
	out := make([]string, 0, len(kinds))
	for _, k := range kinds {
		out = append(out, string(k))
	}
	return out
}
