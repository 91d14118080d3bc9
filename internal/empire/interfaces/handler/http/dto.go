package http

import (
	"EmpireBuilder/internal/empire/entity"
)

type Response struct {
	Code   int            `json:"code"`
	Reason string         `json:"reason,omitempty"`
	Msg    string         `json:"msg,omitempty"`
	Data   any            `json:"data,omitempty"`
	Detail map[string]any `json:"detail,omitempty"`
}

type CreateEmpireReq struct {
	Name  string  `json:"name"`
	Ruler string  `json:"ruler"`
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
}

type TrainReq struct {
	Units map[string]int64 `json:"units" binding:"required"`
}

type TrainResp struct {
	Empire *entity.Empire   `json:"empire"`
	Cost   entity.Resources `json:"cost"`
}

type BuildCityReq struct {
	Name string `json:"name"`
	Tier string `json:"tier" binding:"required"`
}

type BuildCityResp struct {
	Empire *entity.Empire `json:"empire"`
	City   *entity.City   `json:"city"`
}

type BuildBuildingReq struct {
	CityID string `json:"city_id" binding:"required"`
	Kind   string `json:"kind" binding:"required"`
}

type BuyLandReq struct {
	Acres int64 `json:"acres"`
}

type BuyLandResp struct {
	Empire *entity.Empire `json:"empire"`
	Gold   int64          `json:"gold_spent"`
}

type AttackReq struct {
	DefenderID string           `json:"defender_id" binding:"required"`
	Units      map[string]int64 `json:"units" binding:"required"`
}

// RankEntry 排行榜条目，按战力降序，同战力按土地。
type RankEntry struct {
	Rank   int             `json:"rank"`
	ID     entity.EmpireID `json:"id"`
	Name   string          `json:"name"`
	Ruler  string          `json:"ruler"`
	IsAI   bool            `json:"is_ai"`
	Power  int64           `json:"power"`
	Land   int64           `json:"land"`
	Cities int             `json:"cities"`
}
