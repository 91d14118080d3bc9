package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"EmpireBuilder/internal/empire/ai"
	"EmpireBuilder/internal/empire/entity"
	"EmpireBuilder/modules/kit/errx"
	"EmpireBuilder/modules/kit/logx"
)

// Commander AI 意图的执行通道，与玩家请求走同一条写路径。
type Commander interface {
	Train(ctx context.Context, id entity.EmpireID, units entity.Military) (*entity.Empire, entity.Resources, error)
	Attack(ctx context.Context, attackerID, defenderID entity.EmpireID, units entity.Military) (*entity.BattleResult, error)
}

// AIReport 一轮 AI 调度的统计。
type AIReport struct {
	Considered int `json:"considered"`
	Executed   int `json:"executed"`
	Idle       int `json:"idle"`
	Rejected   int `json:"rejected"`
	Failed     int `json:"failed"`
}

type AIRunner struct {
	svc     *EmpireService
	cmd     Commander
	planner *ai.Planner
}

// NewAIRunner cmd 为 nil 时直接调用 svc。
func NewAIRunner(svc *EmpireService, cmd Commander, planner *ai.Planner) *AIRunner {
	if cmd == nil {
		cmd = svc
	}
	if planner == nil {
		planner = ai.NewPlanner(svc.econ, svc.aiRand)
	}
	return &AIRunner{svc: svc, cmd: cmd, planner: planner}
}

// RunOnce 对冷却已过的 AI 帝国各做一次决策。
// 先记录行动时间再执行：被拒绝的意图同样占用一次冷却，之后直接丢弃。
func (r *AIRunner) RunOnce(ctx context.Context) (AIReport, error) {
	var rep AIReport
	all, err := r.svc.ListEmpires(ctx)
	if err != nil {
		return rep, err
	}
	now := r.svc.now()
	for _, e := range all {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		if !e.IsAI || !ai.ShouldAct(e.AI, now) {
			continue
		}
		rep.Considered++

		self, err := r.markActed(ctx, e.ID)
		if err != nil {
			rep.Failed++
			logx.ReportErrorWithLoggerContext(ctx, r.svc.log, "ai.mark", err, zap.String("empire_id", string(e.ID)))
			continue
		}
		in, ok := r.planner.Decide(self, all)
		if !ok {
			rep.Idle++
			r.svc.metrics.AIIntent("none", "idle")
			continue
		}
		err = r.execute(ctx, self.ID, in)
		switch {
		case err == nil:
			rep.Executed++
			r.svc.metrics.AIIntent(string(in.Kind), "executed")
		case errx.IsBiz(err):
			rep.Rejected++
			r.svc.metrics.AIIntent(string(in.Kind), "rejected")
			r.svc.log.WithContext(ctx).Debug("ai intent dropped",
				zap.String("empire_id", string(self.ID)),
				zap.String("intent", string(in.Kind)),
				zap.String("code", string(errx.CodeOf(err))))
		default:
			rep.Failed++
			r.svc.metrics.AIIntent(string(in.Kind), "failed")
			logx.ReportErrorWithLoggerContext(ctx, r.svc.log, "ai.execute", err,
				zap.String("empire_id", string(self.ID)),
				zap.String("intent", string(in.Kind)))
		}
	}
	return rep, nil
}

func (r *AIRunner) markActed(ctx context.Context, id entity.EmpireID) (*entity.Empire, error) {
	e, _, err := r.svc.mutate(ctx, "ai_mark", id, func(e *entity.Empire, now time.Time) error {
		if e.AI == nil {
			e.AI = &entity.AIProfile{Difficulty: entity.Normal, Strategy: entity.Balanced}
		}
		e.AI.LastActionAt = now
		return nil
	})
	return e, err
}

func (r *AIRunner) execute(ctx context.Context, id entity.EmpireID, in ai.Intent) error {
	switch in.Kind {
	case ai.IntentTrain:
		_, _, err := r.cmd.Train(ctx, id, in.Train)
		return err
	case ai.IntentAttack:
		_, err := r.cmd.Attack(ctx, id, in.Target, in.Units)
		return err
	}
	return nil
}

// SeedAI 把 AI 帝国补足到 n 个，已有的不动。返回新建的帝国。
func (s *EmpireService) SeedAI(ctx context.Context, n int, difficulty string) ([]*entity.Empire, error) {
	d, ok := entity.ParseDifficulty(difficulty)
	if !ok {
		return nil, entity.ErrUnknownKind.WithData("difficulty", difficulty)
	}
	all, err := s.repo.All(ctx)
	if err != nil {
		return nil, storageErr(err)
	}
	existing := 0
	for _, e := range all {
		if e.IsAI {
			existing++
		}
	}
	if existing >= n {
		return nil, nil
	}

	created := ai.Bootstrap(existing, n-existing, d, s.aiRand, s.now())
	for _, e := range created {
		if err := s.repo.Create(ctx, e); err != nil {
			return nil, storageErr(err)
		}
	}
	return created, nil
}
