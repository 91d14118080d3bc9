package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"

	"EmpireBuilder/internal/empire/entity"

	"github.com/spf13/viper"
)

//go:embed catalog.json
var defaultCatalog []byte

// UnitSpec 兵种的造价与战斗属性；Power 是 AI 评估用的粗略战力系数。
type UnitSpec struct {
	Cost    entity.Resources `mapstructure:"cost" json:"cost"`
	Attack  int64            `mapstructure:"attack" json:"attack"`
	Defense int64            `mapstructure:"defense" json:"defense"`
	Speed   int64            `mapstructure:"speed" json:"speed"`
	Power   int64            `mapstructure:"power" json:"power"`
}

type BuildingSpec struct {
	Cost         entity.Resources `mapstructure:"cost" json:"cost"`
	Production   entity.Resources `mapstructure:"production" json:"production"`
	LandRequired int64            `mapstructure:"land_required" json:"land_required"`
	MaxPerCity   int64            `mapstructure:"max_per_city" json:"max_per_city"`
}

type TierSpec struct {
	Cost            entity.Resources `mapstructure:"cost" json:"cost"`
	Land            int64            `mapstructure:"land" json:"land"`
	MaxBuildings    int64            `mapstructure:"max_buildings" json:"max_buildings"`
	DefenseBonus    float64          `mapstructure:"defense_bonus" json:"defense_bonus"`
	ProductionBonus float64          `mapstructure:"production_bonus" json:"production_bonus"`
}

type ProductionSpec struct {
	// BasePerThousandAcres 每 1000 英亩每个 tick 的基础产出。
	BasePerThousandAcres entity.Resources `mapstructure:"base_per_thousand_acres" json:"base_per_thousand_acres"`
	PopulationGrowth     float64          `mapstructure:"population_growth" json:"population_growth"`
}

// Band 是 [Min, Max) 的均匀分布区间。
type Band struct {
	Min float64 `mapstructure:"min" json:"min"`
	Max float64 `mapstructure:"max" json:"max"`
}

func (b Band) valid() bool {
	return b.Min >= 0 && b.Max >= b.Min
}

type LossBands struct {
	Attacker Band `mapstructure:"attacker" json:"attacker"`
	Defender Band `mapstructure:"defender" json:"defender"`
}

type BattleSpec struct {
	AttackSwing             Band      `mapstructure:"attack_swing" json:"attack_swing"`
	DefenseSwing            Band      `mapstructure:"defense_swing" json:"defense_swing"`
	MaxVictoryRatio         float64   `mapstructure:"max_victory_ratio" json:"max_victory_ratio"`
	LandFraction            float64   `mapstructure:"land_fraction" json:"land_fraction"`
	MaxLandShare            float64   `mapstructure:"max_land_share" json:"max_land_share"`
	ResourceCaptureFraction float64   `mapstructure:"resource_capture_fraction" json:"resource_capture_fraction"`
	AttackerWinLosses       LossBands `mapstructure:"attacker_win_losses" json:"attacker_win_losses"`
	DefenderWinLosses       LossBands `mapstructure:"defender_win_losses" json:"defender_win_losses"`
}

// Catalog 进程启动时加载一次，之后只读。
type Catalog struct {
	LandPricePerAcre int64                                `mapstructure:"land_price_per_acre" json:"land_price_per_acre"`
	Production       ProductionSpec                       `mapstructure:"production" json:"production"`
	Units            map[entity.UnitKind]UnitSpec         `mapstructure:"units" json:"units"`
	Buildings        map[entity.BuildingKind]BuildingSpec `mapstructure:"buildings" json:"buildings"`
	Tiers            map[entity.CityTier]TierSpec         `mapstructure:"city_tiers" json:"city_tiers"`
	Battle           BattleSpec                           `mapstructure:"battle" json:"battle"`
}

// Default 返回内置配置，内置配置损坏属于编程错误，直接 panic。
func Default() *Catalog {
	c, err := Load("")
	if err != nil {
		panic(fmt.Errorf("load embedded catalog failed: %w", err))
	}
	return c
}

// Load 读取内置配置；overridePath 非空时把该文件合并覆盖到内置配置之上。
func Load(overridePath string) (*Catalog, error) {
	v := viper.New()
	v.SetConfigType("json")
	if err := v.ReadConfig(bytes.NewReader(defaultCatalog)); err != nil {
		return nil, fmt.Errorf("read embedded catalog: %w", err)
	}
	if overridePath != "" {
		v.SetConfigFile(overridePath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("merge catalog %q: %w", overridePath, err)
		}
	}

	var c Catalog
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate 保证每个兵种/建筑/城市等级都有配置且数值合法。
func (c *Catalog) Validate() error {
	if c.LandPricePerAcre <= 0 {
		return fmt.Errorf("catalog: land_price_per_acre must be positive, got %d", c.LandPricePerAcre)
	}
	if c.Production.PopulationGrowth < 0 {
		return fmt.Errorf("catalog: population_growth must not be negative")
	}
	for _, k := range entity.UnitKinds {
		u, ok := c.Units[k]
		if !ok {
			return fmt.Errorf("catalog: unit %q missing", k)
		}
		if negative(u.Cost) || u.Attack < 0 || u.Defense < 0 || u.Power < 0 {
			return fmt.Errorf("catalog: unit %q has negative values", k)
		}
		if u.Cost.IsZero() {
			return fmt.Errorf("catalog: unit %q must cost something", k)
		}
	}
	for _, k := range entity.BuildingKinds {
		b, ok := c.Buildings[k]
		if !ok {
			return fmt.Errorf("catalog: building %q missing", k)
		}
		if negative(b.Cost) || negative(b.Production) || b.LandRequired < 0 || b.MaxPerCity <= 0 {
			return fmt.Errorf("catalog: building %q has invalid values", k)
		}
	}
	for _, t := range entity.CityTiers {
		s, ok := c.Tiers[t]
		if !ok {
			return fmt.Errorf("catalog: city tier %q missing", t)
		}
		if negative(s.Cost) || s.Land < 0 || s.MaxBuildings <= 0 || s.DefenseBonus < 1 || s.ProductionBonus <= 0 {
			return fmt.Errorf("catalog: city tier %q has invalid values", t)
		}
	}
	return c.Battle.validate()
}

func (b BattleSpec) validate() error {
	bands := map[string]Band{
		"attack_swing":                 b.AttackSwing,
		"defense_swing":                b.DefenseSwing,
		"attacker_win_losses.attacker": b.AttackerWinLosses.Attacker,
		"attacker_win_losses.defender": b.AttackerWinLosses.Defender,
		"defender_win_losses.attacker": b.DefenderWinLosses.Attacker,
		"defender_win_losses.defender": b.DefenderWinLosses.Defender,
	}
	for name, band := range bands {
		if !band.valid() {
			return fmt.Errorf("catalog: battle.%s invalid band [%v,%v)", name, band.Min, band.Max)
		}
		if strings.Contains(name, "losses") && band.Max > 1 {
			return fmt.Errorf("catalog: battle.%s loss rate above 1", name)
		}
	}
	// 胜方伤亡区间必须整体低于败方，才能保证胜方损失更轻。
	if b.AttackerWinLosses.Attacker.Max > b.AttackerWinLosses.Defender.Min {
		return fmt.Errorf("catalog: attacker_win_losses bands overlap")
	}
	if b.DefenderWinLosses.Defender.Max > b.DefenderWinLosses.Attacker.Min {
		return fmt.Errorf("catalog: defender_win_losses bands overlap")
	}
	if b.MaxVictoryRatio <= 0 || b.LandFraction < 0 || b.ResourceCaptureFraction < 0 {
		return fmt.Errorf("catalog: battle ratios must be positive")
	}
	if b.MaxLandShare < 0 || b.MaxLandShare > 1 {
		return fmt.Errorf("catalog: battle.max_land_share must be within [0,1]")
	}
	return nil
}

func negative(r entity.Resources) bool {
	for _, k := range entity.ResourceKinds {
		if r.Get(k) < 0 {
			return true
		}
	}
	return false
}

func (c *Catalog) Unit(k entity.UnitKind) (UnitSpec, bool) {
	u, ok := c.Units[k]
	return u, ok
}

func (c *Catalog) Building(k entity.BuildingKind) (BuildingSpec, bool) {
	b, ok := c.Buildings[k]
	return b, ok
}

func (c *Catalog) Tier(t entity.CityTier) (TierSpec, bool) {
	s, ok := c.Tiers[t]
	return s, ok
}

// TrainingCost 计算一批兵力的总造价。
func (c *Catalog) TrainingCost(units entity.Military) entity.Resources {
	var total entity.Resources
	for _, k := range entity.UnitKinds {
		n := units.Get(k)
		if n == 0 {
			continue
		}
		total = total.Plus(c.Units[k].Cost.Times(n))
	}
	return total
}

// Power 是 AI 用的粗略战力：Σ 数量 × 兵种战力系数。
func (c *Catalog) Power(m entity.Military) int64 {
	var p int64
	for _, k := range entity.UnitKinds {
		p += m.Get(k) * c.Units[k].Power
	}
	return p
}
