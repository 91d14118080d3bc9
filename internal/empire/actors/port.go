package actors

import (
	"context"

	"EmpireBuilder/internal/empire/entity"
)

// Commands 帝国 actor 需要的写路径，由 app.EmpireService 实现。
type Commands interface {
	GetEmpire(ctx context.Context, id entity.EmpireID) (*entity.Empire, error)
	Train(ctx context.Context, id entity.EmpireID, units entity.Military) (*entity.Empire, entity.Resources, error)
	BuildCity(ctx context.Context, id entity.EmpireID, name string, tier entity.CityTier) (*entity.Empire, *entity.City, error)
	BuildBuilding(ctx context.Context, id entity.EmpireID, cityID entity.CityID, kind entity.BuildingKind) (*entity.Empire, error)
	BuyLand(ctx context.Context, id entity.EmpireID, acres int64) (*entity.Empire, int64, error)
	Attack(ctx context.Context, attackerID, defenderID entity.EmpireID, units entity.Military) (*entity.BattleResult, error)
}
