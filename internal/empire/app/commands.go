package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"EmpireBuilder/internal/empire/entity"
	"EmpireBuilder/modules/kit/errx"
	"EmpireBuilder/modules/kit/logx"
)

const defaultHistoryLimit = 20

// Train 训练兵种，返回新快照与实际花费。
func (s *EmpireService) Train(ctx context.Context, id entity.EmpireID, units entity.Military) (*entity.Empire, entity.Resources, error) {
	var cost entity.Resources
	e, _, err := s.mutate(ctx, "train", id, func(e *entity.Empire, _ time.Time) error {
		c, err := s.econ.Train(e, units)
		cost = c
		return err
	})
	if err != nil {
		return nil, entity.Resources{}, err
	}
	return e, cost, nil
}

func (s *EmpireService) BuildCity(ctx context.Context, id entity.EmpireID, name string, tier entity.CityTier) (*entity.Empire, *entity.City, error) {
	var city *entity.City
	e, _, err := s.mutate(ctx, "build_city", id, func(e *entity.Empire, now time.Time) error {
		c, err := s.econ.BuildCity(e, name, tier, now)
		city = c
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return e, city, nil
}

func (s *EmpireService) BuildBuilding(ctx context.Context, id entity.EmpireID, cityID entity.CityID, kind entity.BuildingKind) (*entity.Empire, error) {
	e, _, err := s.mutate(ctx, "build_building", id, func(e *entity.Empire, _ time.Time) error {
		return s.econ.BuildBuilding(e, cityID, kind)
	})
	return e, err
}

// BuyLand 返回新快照与花费的金币。
func (s *EmpireService) BuyLand(ctx context.Context, id entity.EmpireID, acres int64) (*entity.Empire, int64, error) {
	var cost int64
	e, _, err := s.mutate(ctx, "buy_land", id, func(e *entity.Empire, _ time.Time) error {
		c, err := s.econ.BuyLand(e, acres)
		cost = c
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return e, cost, nil
}

// Attack 同时锁住双方（按 id 升序），两边的变更在一次存储提交中生效。
// 战报写入失败只记日志：战斗结果已经提交。
func (s *EmpireService) Attack(ctx context.Context, attackerID, defenderID entity.EmpireID, units entity.Military) (*entity.BattleResult, error) {
	if attackerID == defenderID {
		err := entity.ErrSelfAttack.WithData("empire_id", string(attackerID))
		s.reject("attack", err)
		return nil, err
	}
	unlock := s.locks.lockPair(attackerID, defenderID)
	defer unlock()

	var lastErr error
	for attempt := 0; attempt <= s.retries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, errx.ErrTimeout.WithCause(err)
		}
		att, err := s.load(ctx, attackerID)
		if err != nil {
			return nil, err
		}
		def, err := s.load(ctx, defenderID)
		if err != nil {
			return nil, err
		}
		now := s.now()
		ticks := s.econ.Produce(att, now) + s.econ.Produce(def, now)

		res, err := s.war.Resolve(att, def, units, now)
		if err != nil {
			s.reject("attack", err)
			return nil, err
		}
		err = s.repo.Update(ctx, att, def)
		if err != nil {
			if !errx.IsRetryable(err) {
				return nil, storageErr(err)
			}
			s.metrics.Conflict()
			lastErr = err
			continue
		}

		s.metrics.ProductionTicks(ticks)
		s.metrics.Battle(res.AttackerWon)
		if err := s.battles.Record(ctx, res); err != nil {
			logx.ReportErrorWithLoggerContext(ctx, s.log, "battle.record", storageErr(err),
				zap.String("battle_id", res.ID))
		}
		s.notify.EmpireUpdated(ctx, att)
		s.notify.EmpireUpdated(ctx, def)
		s.notify.BattleResolved(ctx, res)
		return res, nil
	}
	return nil, lastErr
}

// BattleHistory 帝国作为任一方参与的最近战报，新的在前。
func (s *EmpireService) BattleHistory(ctx context.Context, id entity.EmpireID, limit int) ([]*entity.BattleResult, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if _, err := s.load(ctx, id); err != nil {
		return nil, err
	}
	out, err := s.battles.Recent(ctx, id, limit)
	if err != nil {
		return nil, storageErr(err)
	}
	return out, nil
}
