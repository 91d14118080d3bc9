package port

import (
	"context"

	"EmpireBuilder/internal/empire/entity"
)

// EmpireRepository 存储适配器。
//
// 约定：
// - Get 找不到时返回 entity.ErrEmpireNotFound
// - Update 按 Version 做乐观并发控制：传入版本必须等于存储版本，成功后双方版本都 +1；
//   多个帝国一起提交时要么全部成功要么全部失败，版本不一致返回 errx.ErrConflict
// - 返回给调用方的对象与存储内的对象互不共享内存
type EmpireRepository interface {
	Get(ctx context.Context, id entity.EmpireID) (*entity.Empire, error)
	All(ctx context.Context) ([]*entity.Empire, error)
	Create(ctx context.Context, e *entity.Empire) error
	Update(ctx context.Context, empires ...*entity.Empire) error
}

// BattleLog 战报台账，只追加。
type BattleLog interface {
	Record(ctx context.Context, r *entity.BattleResult) error
	Recent(ctx context.Context, id entity.EmpireID, limit int) ([]*entity.BattleResult, error)
}

// Notifier 实时推送给关心该帝国的连接。
type Notifier interface {
	EmpireUpdated(ctx context.Context, e *entity.Empire)
	BattleResolved(ctx context.Context, r *entity.BattleResult)
}
