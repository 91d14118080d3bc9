package mapper

import (
	"encoding/json"
	"sort"

	"EmpireBuilder/internal/empire/entity"
	"EmpireBuilder/internal/empire/infra/persistence/model"
)

// EmpireToDoc 城市按创建时间排序写入，保证文档稳定。
func EmpireToDoc(e *entity.Empire) model.EmpireDoc {
	doc := model.EmpireDoc{
		ID:                 string(e.ID),
		Name:               e.Name,
		Ruler:              e.Ruler,
		Lat:                e.Location.Lat,
		Lng:                e.Location.Lng,
		IsAI:               e.IsAI,
		Land:               e.Land,
		Resources:          e.Resources,
		Military:           e.Military,
		Cities:             make([]model.CityDoc, 0, len(e.Cities)),
		Buildings:          e.Buildings,
		LastResourceUpdate: e.LastResourceUpdate,
		CreatedAt:          e.CreatedAt,
		Version:            e.Version,
	}
	if e.AI != nil {
		doc.AI = &model.AIProfileDoc{
			Difficulty:   string(e.AI.Difficulty),
			Strategy:     string(e.AI.Strategy),
			LastActionAt: e.AI.LastActionAt,
		}
	}
	for _, c := range e.SortedCities() {
		doc.Cities = append(doc.Cities, model.CityDoc{
			ID:        string(c.ID),
			Name:      c.Name,
			Tier:      string(c.Tier),
			Buildings: c.Buildings,
			CreatedAt: c.CreatedAt,
		})
	}
	return doc
}

// DocToEmpire 读回时按城市明细重算建筑汇总，文档里的汇总只做冗余。
func DocToEmpire(doc model.EmpireDoc) *entity.Empire {
	e := &entity.Empire{
		ID:                 entity.EmpireID(doc.ID),
		Name:               doc.Name,
		Ruler:              doc.Ruler,
		Location:           entity.Location{Lat: doc.Lat, Lng: doc.Lng},
		IsAI:               doc.IsAI,
		Land:               doc.Land,
		Resources:          doc.Resources,
		Military:           doc.Military,
		Cities:             make(map[entity.CityID]*entity.City, len(doc.Cities)),
		LastResourceUpdate: doc.LastResourceUpdate,
		CreatedAt:          doc.CreatedAt,
		Version:            doc.Version,
	}
	if doc.AI != nil {
		e.AI = &entity.AIProfile{
			Difficulty:   entity.Difficulty(doc.AI.Difficulty),
			Strategy:     entity.Strategy(doc.AI.Strategy),
			LastActionAt: doc.AI.LastActionAt,
		}
	}
	for _, c := range doc.Cities {
		id := entity.CityID(c.ID)
		e.Cities[id] = &entity.City{
			ID:        id,
			Name:      c.Name,
			Tier:      entity.CityTier(c.Tier),
			Buildings: c.Buildings,
			CreatedAt: c.CreatedAt,
		}
	}
	e.RecountBuildings()
	return e
}

func BattleToReport(r *entity.BattleResult) (*model.BattleReport, error) {
	detail, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	return &model.BattleReport{
		ID:           r.ID,
		AttackerID:   string(r.AttackerID),
		DefenderID:   string(r.DefenderID),
		Winner:       string(r.Winner),
		AttackerWon:  r.AttackerWon,
		AttackPower:  r.AttackPower,
		DefensePower: r.DefensePower,
		LandCaptured: r.LandCaptured,
		Detail:       string(detail),
		FoughtAt:     r.FoughtAt,
	}, nil
}

func ReportToBattle(m *model.BattleReport) (*entity.BattleResult, error) {
	var r entity.BattleResult
	if m.Detail != "" {
		if err := json.Unmarshal([]byte(m.Detail), &r); err != nil {
			return nil, err
		}
	}
	r.ID = m.ID
	r.AttackerID = entity.EmpireID(m.AttackerID)
	r.DefenderID = entity.EmpireID(m.DefenderID)
	r.Winner = entity.EmpireID(m.Winner)
	r.AttackerWon = m.AttackerWon
	r.FoughtAt = m.FoughtAt
	return &r, nil
}

// SortBattles 新的在前。
func SortBattles(rs []*entity.BattleResult) {
	sort.SliceStable(rs, func(i, j int) bool {
		return rs[i].FoughtAt.After(rs[j].FoughtAt)
	})
}
