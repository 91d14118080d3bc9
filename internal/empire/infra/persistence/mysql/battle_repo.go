package mysql

import (
	"context"

	"gorm.io/gorm"

	"EmpireBuilder/internal/empire/entity"
	"EmpireBuilder/internal/empire/errs"
	"EmpireBuilder/internal/empire/infra/persistence/mapper"
	"EmpireBuilder/internal/empire/infra/persistence/model"
)

const (
	OpRecordBattle  = "repo.battle.Record"
	OpRecentBattles = "repo.battle.Recent"
	OpMigrate       = "repo.battle.Migrate"
)

type BattleRepo struct {
	db *gorm.DB
}

func NewBattleRepo(db *gorm.DB) *BattleRepo {
	return &BattleRepo{db: db}
}

func (r *BattleRepo) AutoMigrate(ctx context.Context) error {
	err := r.db.WithContext(ctx).AutoMigrate(&model.BattleReport{})
	return errs.Wrap(OpMigrate, errs.KindInfra, err, nil)
}

func (r *BattleRepo) Record(ctx context.Context, res *entity.BattleResult) error {
	m, err := mapper.BattleToReport(res)
	if err != nil {
		return errs.Wrap(OpRecordBattle, errs.KindCorrupt, err, map[string]any{"battle_id": res.ID})
	}
	err = r.db.WithContext(ctx).Create(m).Error
	return errs.Wrap(OpRecordBattle, errs.KindInfra, err, map[string]any{"battle_id": res.ID})
}

// Recent 帝国作为任一方参与的最近 limit 条战报，新的在前。
func (r *BattleRepo) Recent(ctx context.Context, id entity.EmpireID, limit int) ([]*entity.BattleResult, error) {
	var rows []model.BattleReport
	err := r.db.WithContext(ctx).
		Where("attacker_id = ? OR defender_id = ?", string(id), string(id)).
		Order("fought_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, errs.Wrap(OpRecentBattles, errs.KindInfra, err, map[string]any{"empire_id": string(id)})
	}

	out := make([]*entity.BattleResult, 0, len(rows))
	for i := range rows {
		b, err := mapper.ReportToBattle(&rows[i])
		if err != nil {
			return nil, errs.Wrap(OpRecentBattles, errs.KindCorrupt, err, map[string]any{"battle_id": rows[i].ID})
		}
		out = append(out, b)
	}
	mapper.SortBattles(out)
	return out, nil
}
