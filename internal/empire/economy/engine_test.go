package economy

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"EmpireBuilder/internal/empire/entity"
	"EmpireBuilder/internal/shared/gameconfig/catalog"
	"EmpireBuilder/modules/kit/errx"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newEngine() *Engine {
	return NewEngine(catalog.Default(), time.Minute, 10)
}

func newEmpire() *entity.Empire {
	return entity.NewEmpire("e-1", "Rome", "Caesar", entity.Location{}, t0)
}

func TestProduce_单个tick按土地与人口增长(t *testing.T) {
	g := newEngine()
	e := newEmpire()

	if n := g.Produce(e, t0.Add(time.Minute)); n != 1 {
		t.Fatalf("期望结算 1 个 tick, got=%d", n)
	}
	// rate=2：gold+20 food+30 iron+10 oil+6；人口 +floor(1000*0.01)
	want := entity.Resources{Gold: 10020, Food: 5030, Iron: 2010, Oil: 1006, Population: 1010}
	if e.Resources != want {
		t.Fatalf("产出不符, got=%+v want=%+v", e.Resources, want)
	}
	if !e.LastResourceUpdate.Equal(t0.Add(time.Minute)) {
		t.Fatalf("期望 last 前进一个 interval, got=%v", e.LastResourceUpdate)
	}
}

func TestProduce_窗口内重复调用幂等(t *testing.T) {
	g := newEngine()
	e := newEmpire()
	now := t0.Add(90 * time.Second)

	g.Produce(e, now)
	after := e.Clone()
	if n := g.Produce(e, now); n != 0 {
		t.Fatalf("期望第二次不结算, got=%d", n)
	}
	if n := g.Produce(e, now.Add(20*time.Second)); n != 0 {
		t.Fatalf("期望未满一个 interval 不结算, got=%d", n)
	}
	if !reflect.DeepEqual(after, e) {
		t.Fatalf("期望状态不变, before=%+v after=%+v", after, e)
	}
	// 零头 30s 保留：再过 30s 正好补满一个 tick
	if n := g.Produce(e, now.Add(30*time.Second)); n != 1 {
		t.Fatalf("期望零头保留后结算 1 个 tick, got=%d", n)
	}
}

func TestProduce_追赶上限与时钟回拨(t *testing.T) {
	g := newEngine()
	e := newEmpire()

	if n := g.Produce(e, t0.Add(-time.Hour)); n != 0 {
		t.Fatalf("期望时钟回拨不结算, got=%d", n)
	}
	if n := g.Produce(e, t0.Add(100*time.Minute)); n != 10 {
		t.Fatalf("期望最多结算 10 个 tick, got=%d", n)
	}
	if !e.LastResourceUpdate.Equal(t0.Add(100 * time.Minute)) {
		t.Fatalf("期望超出上限的窗口作废, last=%v", e.LastResourceUpdate)
	}
}

func TestNewEngine_默认追赶上限为一天(t *testing.T) {
	g := NewEngine(nil, 0, 0)
	if g.interval != time.Minute || g.maxCatchUp != 1440 {
		t.Fatalf("默认值不符, interval=%v maxCatchUp=%d", g.interval, g.maxCatchUp)
	}
	e := newEmpire()
	if n := g.Produce(e, t0.Add(30*time.Hour)); n != 1440 {
		t.Fatalf("期望默认最多结算 1440 个 tick, got=%d", n)
	}
}

func TestProduce_建筑产出乘城市加成且不为负(t *testing.T) {
	g := newEngine()
	e := newEmpire()
	e.Land = 0
	e.Resources = entity.Resources{Gold: -50}
	e.Cities["c"] = &entity.City{ID: "c", Tier: entity.TierLarge, Buildings: entity.Buildings{Bank: 2, Farm: 1}}
	e.RecountBuildings()

	g.Produce(e, t0.Add(time.Minute))
	// bank: floor(50*2*1.2)=120，再加上 -50；farm: floor(25*1*1.2)=30
	if e.Resources.Gold != 70 || e.Resources.Food != 30 {
		t.Fatalf("建筑产出不符, got=%+v", e.Resources)
	}
	for _, k := range entity.ResourceKinds {
		if e.Resources.Get(k) < 0 {
			t.Fatalf("资源 %s 出现负值 %d", k, e.Resources.Get(k))
		}
	}
}

func TestTrain_资源不足拒绝且状态不变(t *testing.T) {
	g := newEngine()
	e := newEmpire()
	before := e.Clone()

	_, err := g.Train(e, entity.Military{Aircraft: 100})
	if !errors.Is(err, entity.ErrInsufficientResources) {
		t.Fatalf("期望资源不足, got=%v", err)
	}
	var xe *errx.Error
	if !errors.As(err, &xe) || !reflect.DeepEqual(xe.Data()["missing"], []string{"gold", "iron", "oil"}) {
		t.Fatalf("期望 missing 列出全部不足项, got=%v", err)
	}
	if !reflect.DeepEqual(before, e) {
		t.Fatalf("期望被拒绝后状态完全不变")
	}
}

func TestTrain_成功扣费并增加兵力(t *testing.T) {
	g := newEngine()
	e := newEmpire()
	cost, err := g.Train(e, entity.Military{Infantry: 10, Tanks: 2})
	if err != nil {
		t.Fatalf("Train err=%v", err)
	}
	if cost != (entity.Resources{Gold: 2000, Iron: 1100, Food: 200, Oil: 200}) {
		t.Fatalf("花费不符, got=%+v", cost)
	}
	if e.Military.Infantry != 110 || e.Military.Tanks != 12 || e.Resources.Gold != 8000 {
		t.Fatalf("训练结果不符, military=%+v res=%+v", e.Military, e.Resources)
	}
}

func TestTrain_非法数量(t *testing.T) {
	g := newEngine()
	e := newEmpire()
	for _, units := range []entity.Military{{}, {Infantry: -1, Tanks: 5}, {Infantry: 1 << 60}} {
		if _, err := g.Train(e, units); !errors.Is(err, entity.ErrInvalidAmount) {
			t.Fatalf("期望非法数量 %+v 被拒绝, got=%v", units, err)
		}
	}
}

func TestBuildCity_扣费扣地并创建空城(t *testing.T) {
	g := newEngine()
	e := newEmpire()
	city, err := g.BuildCity(e, "  Ostia ", entity.TierSmall, t0)
	if err != nil {
		t.Fatalf("BuildCity err=%v", err)
	}
	if city.Name != "Ostia" || city.Buildings.Total() != 0 || e.Cities[city.ID] != city {
		t.Fatalf("城市不符, got=%+v", city)
	}
	if e.Land != 1900 || e.Resources.Gold != 5000 || e.Resources.Population != 500 {
		t.Fatalf("建城扣费不符, land=%d res=%+v", e.Land, e.Resources)
	}

	if _, err := g.BuildCity(e, "", entity.TierSmall, t0); !errors.Is(err, entity.ErrInvalidName) {
		t.Fatalf("期望空名被拒绝, got=%v", err)
	}
	if _, err := g.BuildCity(e, "X", entity.CityTier("huge"), t0); !errors.Is(err, entity.ErrUnknownKind) {
		t.Fatalf("期望未知等级被拒绝, got=%v", err)
	}
	if _, err := g.BuildCity(e, "Big", entity.TierLarge, t0); !errors.Is(err, entity.ErrInsufficientResources) {
		t.Fatalf("期望大城资源不足, got=%v", err)
	}
}

func TestBuildCity_连续建城各自入表(t *testing.T) {
	g := newEngine()
	e := newEmpire()
	e.Resources = entity.Resources{Gold: 1_000_000, Food: 1_000_000, Iron: 1_000_000, Oil: 1_000_000, Population: 1_000_000}

	a, err := g.BuildCity(e, "Ostia", entity.TierSmall, t0)
	if err != nil {
		t.Fatalf("BuildCity err=%v", err)
	}
	b, err := g.BuildCity(e, "Capua", entity.TierSmall, t0)
	if err != nil {
		t.Fatalf("BuildCity err=%v", err)
	}
	if a.ID == "" || a.ID == b.ID {
		t.Fatalf("期望城市 id 唯一, a=%q b=%q", a.ID, b.ID)
	}
	if len(e.Cities) != 2 || e.Cities[a.ID] != a || e.Cities[b.ID] != b {
		t.Fatalf("期望两座城都按 id 入表, got=%+v", e.Cities)
	}
}

func TestBuildBuilding_城市已满被拒绝且建筑不变(t *testing.T) {
	g := newEngine()
	e := newEmpire()
	e.Resources.Gold = 1_000_000
	full := entity.Buildings{Farm: 5, Mine: 3, OilWell: 2, Bank: 2, Housing: 3}
	e.Cities["c"] = &entity.City{ID: "c", Tier: entity.TierSmall, Buildings: full}
	e.RecountBuildings()
	before := e.Clone()

	err := g.BuildBuilding(e, "c", entity.Factory)
	if !errors.Is(err, entity.ErrCityFull) {
		t.Fatalf("期望城市已满, got=%v", err)
	}
	if e.Cities["c"].Buildings != full || !reflect.DeepEqual(before, e) {
		t.Fatalf("期望建筑表不变, got=%+v", e.Cities["c"].Buildings)
	}
}

func TestBuildBuilding_校验顺序与成功路径(t *testing.T) {
	g := newEngine()
	e := newEmpire()
	e.Cities["c"] = &entity.City{ID: "c", Tier: entity.TierSmall, Buildings: entity.Buildings{Factory: 1}}
	e.RecountBuildings()

	if err := g.BuildBuilding(e, "nope", entity.Farm); !errors.Is(err, entity.ErrCityNotFound) {
		t.Fatalf("期望城市不存在, got=%v", err)
	}
	if err := g.BuildBuilding(e, "c", entity.BuildingKind("castle")); !errors.Is(err, entity.ErrUnknownKind) {
		t.Fatalf("期望未知建筑, got=%v", err)
	}
	if err := g.BuildBuilding(e, "c", entity.Factory); !errors.Is(err, entity.ErrBuildingLimit) {
		t.Fatalf("期望单类上限, got=%v", err)
	}

	e.Land = 5
	if err := g.BuildBuilding(e, "c", entity.Farm); !errors.Is(err, entity.ErrInsufficientLand) {
		t.Fatalf("期望土地不足, got=%v", err)
	}

	e.Land = 2000
	if err := g.BuildBuilding(e, "c", entity.Farm); err != nil {
		t.Fatalf("BuildBuilding err=%v", err)
	}
	if e.Cities["c"].Buildings.Farm != 1 || e.Buildings.Farm != 1 || e.Land != 1990 {
		t.Fatalf("建造结果不符, city=%+v agg=%+v land=%d", e.Cities["c"].Buildings, e.Buildings, e.Land)
	}
	if !e.BuildingsConsistent() {
		t.Fatalf("期望汇总与各城一致")
	}
}

func TestBuyLand(t *testing.T) {
	g := newEngine()
	e := newEmpire()
	gold, err := g.BuyLand(e, 100)
	if err != nil || gold != 1000 || e.Land != 2100 || e.Resources.Gold != 9000 {
		t.Fatalf("购地结果不符, gold=%d land=%d res=%+v err=%v", gold, e.Land, e.Resources, err)
	}
	before := e.Clone()
	if _, err := g.BuyLand(e, 10_000); !errors.Is(err, entity.ErrInsufficientResources) {
		t.Fatalf("期望金币不足, got=%v", err)
	}
	if _, err := g.BuyLand(e, 0); !errors.Is(err, entity.ErrInvalidAmount) {
		t.Fatalf("期望 0 英亩被拒绝, got=%v", err)
	}
	if !reflect.DeepEqual(before, e) {
		t.Fatalf("期望失败后状态不变")
	}
}

func TestMaxAffordable(t *testing.T) {
	g := newEngine()
	// 步兵 gold100 iron50 food20
	if n := g.MaxAffordable(entity.Resources{Gold: 1000, Iron: 200, Food: 1000}, entity.Infantry); n != 4 {
		t.Fatalf("期望 4, got=%d", n)
	}
	if n := g.MaxAffordable(entity.Resources{}, entity.Tanks); n != 0 {
		t.Fatalf("期望 0, got=%d", n)
	}
}
