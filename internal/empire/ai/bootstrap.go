package ai

import (
	"fmt"
	"time"

	"EmpireBuilder/internal/empire/entity"
)

// Seed 是预置 AI 帝国的名称与坐标。
type Seed struct {
	Name     string
	Ruler    string
	Location entity.Location
}

var Seeds = []Seed{
	{Name: "Iron Dominion", Ruler: "General Steel", Location: entity.Location{Lat: 55.7558, Lng: 37.6176}},
	{Name: "Golden Republic", Ruler: "Emperor Gold", Location: entity.Location{Lat: 39.9042, Lng: 116.4074}},
	{Name: "Azure Federation", Ruler: "Admiral Blue", Location: entity.Location{Lat: 51.5074, Lng: -0.1278}},
	{Name: "Crimson Empire", Ruler: "Marshal Red", Location: entity.Location{Lat: 48.8566, Lng: 2.3522}},
	{Name: "Emerald Kingdom", Ruler: "King Green", Location: entity.Location{Lat: 35.6762, Lng: 139.6503}},
}

// Bootstrap 生成第 from 到 from+n-1 个 AI 帝国：固定坐标，起始资源和兵力按随机倍数放大。
// 超过预置数量时循环使用坐标，名称追加序号。补足时 from 传已有 AI 数量，名称不会重复。
func Bootstrap(from, n int, d entity.Difficulty, rng Rand, now time.Time) []*entity.Empire {
	if rng == nil {
		rng = DefaultRand()
	}
	if _, ok := entity.ParseDifficulty(string(d)); !ok {
		d = entity.Normal
	}
	out := make([]*entity.Empire, 0, max(n, 0))
	from = max(from, 0)
	for i := from; i < from+n; i++ {
		seed := Seeds[i%len(Seeds)]
		name := seed.Name
		if round := i / len(Seeds); round > 0 {
			name = fmt.Sprintf("%s %d", seed.Name, round+1)
		}
		e := entity.NewEmpire(entity.NewEmpireID(), name, seed.Ruler, seed.Location, now)
		e.IsAI = true
		e.AI = &entity.AIProfile{Difficulty: d, Strategy: PickStrategy(d, rng)}
		Boost(e, rng)
		out = append(out, e)
	}
	return out
}

// Boost 金币 ×[2,4]，粮/铁/油各自 ×[2,3]，每个兵种各自 ×[2,5]。
func Boost(e *entity.Empire, rng Rand) {
	e.Resources.Gold *= int64(randInt(rng, 2, 4))
	for _, k := range []entity.ResourceKind{entity.Food, entity.Iron, entity.Oil} {
		e.Resources.Set(k, e.Resources.Get(k)*int64(randInt(rng, 2, 3)))
	}
	for _, k := range entity.UnitKinds {
		e.Military.Set(k, e.Military.Get(k)*int64(randInt(rng, 2, 5)))
	}
}
