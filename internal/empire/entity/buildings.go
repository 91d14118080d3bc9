package entity

import "time"

// BuildingKind 建筑种类。
type BuildingKind string

const (
	Farm    BuildingKind = "farm"
	Mine    BuildingKind = "mine"
	OilWell BuildingKind = "oil_well"
	Bank    BuildingKind = "bank"
	Housing BuildingKind = "housing"
	Factory BuildingKind = "factory"
)

var BuildingKinds = []BuildingKind{Farm, Mine, OilWell, Bank, Housing, Factory}

func ParseBuildingKind(s string) (BuildingKind, bool) {
	for _, k := range BuildingKinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// Buildings 是各建筑数量，既用于单城也用于帝国汇总。
type Buildings struct {
	Farm    int64 `json:"farm" bson:"farm" mapstructure:"farm"`
	Mine    int64 `json:"mine" bson:"mine" mapstructure:"mine"`
	OilWell int64 `json:"oil_well" bson:"oil_well" mapstructure:"oil_well"`
	Bank    int64 `json:"bank" bson:"bank" mapstructure:"bank"`
	Housing int64 `json:"housing" bson:"housing" mapstructure:"housing"`
	Factory int64 `json:"factory" bson:"factory" mapstructure:"factory"`
}

func (b Buildings) Get(k BuildingKind) int64 {
	switch k {
	case Farm:
		return b.Farm
	case Mine:
		return b.Mine
	case OilWell:
		return b.OilWell
	case Bank:
		return b.Bank
	case Housing:
		return b.Housing
	case Factory:
		return b.Factory
	default:
		return 0
	}
}

func (b *Buildings) Set(k BuildingKind, v int64) {
	switch k {
	case Farm:
		b.Farm = v
	case Mine:
		b.Mine = v
	case OilWell:
		b.OilWell = v
	case Bank:
		b.Bank = v
	case Housing:
		b.Housing = v
	case Factory:
		b.Factory = v
	}
}

func (b *Buildings) Add(k BuildingKind, delta int64) {
	b.Set(k, b.Get(k)+delta)
}

func (b Buildings) Total() int64 {
	var n int64
	for _, k := range BuildingKinds {
		n += b.Get(k)
	}
	return n
}

// CityTier 城市等级。
type CityTier string

const (
	TierSmall  CityTier = "small"
	TierMedium CityTier = "medium"
	TierLarge  CityTier = "large"
)

var CityTiers = []CityTier{TierSmall, TierMedium, TierLarge}

func ParseCityTier(s string) (CityTier, bool) {
	for _, t := range CityTiers {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

type City struct {
	ID        CityID    `json:"id"`
	Name      string    `json:"name"`
	Tier      CityTier  `json:"tier"`
	Buildings Buildings `json:"buildings"`
	CreatedAt time.Time `json:"created_at"`
}

func (c *City) Clone() *City {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}
