package messages

import (
	"EmpireBuilder/internal/empire/entity"
)

// EmpireMessage 按帝国 id 路由到对应 actor 的请求。
type EmpireMessage interface {
	EmpireID() entity.EmpireID
}

// EmpireBase 所有帝国请求的公共头，TraceID 用于在 actor 内恢复日志链路。
type EmpireBase struct {
	Empire  entity.EmpireID
	TraceID string
}

func (m EmpireBase) EmpireID() entity.EmpireID {
	return m.Empire
}

type GetEmpire struct {
	EmpireBase
}

type Train struct {
	EmpireBase
	Units entity.Military
}

type BuildCity struct {
	EmpireBase
	Name string
	Tier entity.CityTier
}

type BuildBuilding struct {
	EmpireBase
	City entity.CityID
	Kind entity.BuildingKind
}

type BuyLand struct {
	EmpireBase
	Acres int64
}

// Attack 由进攻方的 actor 处理，守方通过服务层的双锁串行。
type Attack struct {
	EmpireBase
	Defender entity.EmpireID
	Units    entity.Military
}

// Reply 所有帝国请求的统一回复。Err 为 nil 表示成功。
type Reply struct {
	Empire *entity.Empire
	City   *entity.City
	Battle *entity.BattleResult
	Cost   entity.Resources
	Gold   int64
	Err    error
}

type FailResp struct {
	Code    int
	Message string
}
