package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"EmpireBuilder/modules/kit/logx"
)

// SweepReport 一次全量产出结算的统计。
type SweepReport struct {
	Empires  int `json:"empires"`
	Produced int `json:"produced"`
	Failed   int `json:"failed"`
}

// ProduceAll 依次为每个帝国补算产出。单个帝国失败只记录并跳过，不影响其它帝国；
// 只有拿不到帝国列表或 ctx 结束时才整体返回错误。
func (s *EmpireService) ProduceAll(ctx context.Context) (SweepReport, error) {
	start := time.Now()
	var rep SweepReport

	all, err := s.repo.All(ctx)
	if err != nil {
		return rep, storageErr(err)
	}
	rep.Empires = len(all)
	for _, e := range all {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		_, ticks, err := s.mutate(ctx, "produce", e.ID, nil)
		if err != nil {
			rep.Failed++
			logx.ReportErrorWithLoggerContext(ctx, s.log, "production.sweep", err,
				zap.String("empire_id", string(e.ID)))
			continue
		}
		if ticks > 0 {
			rep.Produced++
		}
	}
	s.metrics.Sweep(time.Since(start), rep.Failed)
	return rep, nil
}
