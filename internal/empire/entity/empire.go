package entity

import (
	"sort"
	"time"
)

// 新帝国的起始配置。
const (
	StartingLand = 2000
)

var (
	StartingResources = Resources{Gold: 10000, Food: 5000, Iron: 2000, Oil: 1000, Population: 1000}
	StartingMilitary  = Military{Infantry: 100, Tanks: 10, Aircraft: 5, Ships: 8}
)

type Location struct {
	Lat float64 `json:"lat" bson:"lat"`
	Lng float64 `json:"lng" bson:"lng"`
}

// Difficulty AI 难度。
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Normal Difficulty = "normal"
	Hard   Difficulty = "hard"
)

func ParseDifficulty(s string) (Difficulty, bool) {
	switch Difficulty(s) {
	case Easy, Normal, Hard:
		return Difficulty(s), true
	default:
		return "", false
	}
}

// Strategy AI 行为模式，创建时确定后不再变化。
type Strategy string

const (
	Aggressive Strategy = "aggressive"
	Defensive  Strategy = "defensive"
	Economic   Strategy = "economic"
	Balanced   Strategy = "balanced"
)

var Strategies = []Strategy{Aggressive, Defensive, Economic, Balanced}

// AIProfile 随帝国一起持久化，重启后策略与冷却不丢。
type AIProfile struct {
	Difficulty   Difficulty `json:"difficulty"`
	Strategy     Strategy   `json:"strategy"`
	LastActionAt time.Time  `json:"last_action_at"`
}

// Empire 是一次读-改-写的最小单元。
// Buildings 是 Cities 内建筑数量之和的冗余缓存，由 RecountBuildings 维护。
type Empire struct {
	ID                 EmpireID         `json:"id"`
	Name               string           `json:"name"`
	Ruler              string           `json:"ruler"`
	Location           Location         `json:"location"`
	IsAI               bool             `json:"is_ai"`
	AI                 *AIProfile       `json:"ai,omitempty"`
	Land               int64            `json:"land"`
	Resources          Resources        `json:"resources"`
	Military           Military         `json:"military"`
	Cities             map[CityID]*City `json:"cities"`
	Buildings          Buildings        `json:"buildings"`
	LastResourceUpdate time.Time        `json:"last_resource_update"`
	CreatedAt          time.Time        `json:"created_at"`
	Version            int64            `json:"version"`
}

func NewEmpire(id EmpireID, name, ruler string, loc Location, now time.Time) *Empire {
	return &Empire{
		ID:                 id,
		Name:               name,
		Ruler:              ruler,
		Location:           loc,
		Land:               StartingLand,
		Resources:          StartingResources,
		Military:           StartingMilitary,
		Cities:             make(map[CityID]*City),
		LastResourceUpdate: now,
		CreatedAt:          now,
	}
}

// Clone 深拷贝，校验失败时用于保证原对象不被触碰，也用于仓储隔离。
func (e *Empire) Clone() *Empire {
	if e == nil {
		return nil
	}
	cp := *e
	if e.AI != nil {
		ai := *e.AI
		cp.AI = &ai
	}
	cp.Cities = make(map[CityID]*City, len(e.Cities))
	for id, c := range e.Cities {
		cp.Cities[id] = c.Clone()
	}
	return &cp
}

// RecountBuildings 用各城市的建筑数量重算帝国汇总。
func (e *Empire) RecountBuildings() {
	var sum Buildings
	for _, c := range e.Cities {
		for _, k := range BuildingKinds {
			sum.Add(k, c.Buildings.Get(k))
		}
	}
	e.Buildings = sum
}

// BuildingsConsistent 判断汇总缓存与城市明细是否一致。
func (e *Empire) BuildingsConsistent() bool {
	cp := Empire{Cities: e.Cities}
	cp.RecountBuildings()
	return cp.Buildings == e.Buildings
}

// SortedCities 按创建时间、id 排序，保证遍历结果稳定。
func (e *Empire) SortedCities() []*City {
	out := make([]*City, 0, len(e.Cities))
	for _, c := range e.Cities {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Clamp 资源、兵力、土地统一归零兜底。
func (e *Empire) Clamp() {
	e.Resources.Clamp()
	e.Military.Clamp()
	if e.Land < 0 {
		e.Land = 0
	}
}
