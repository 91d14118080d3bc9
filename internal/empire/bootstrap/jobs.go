package bootstrap

import (
	"context"

	"go.uber.org/zap"

	"EmpireBuilder/internal/empire/app"
	"EmpireBuilder/internal/shared/scheduler"
)

const (
	JobProduction = "production"
	JobAI         = "ai"
)

// Jobs 周期任务：全量产出结算 + AI 决策。cmd 为 AI 意图的执行通道。
func (c *Components) Jobs(cmd app.Commander) []scheduler.Job {
	runner := app.NewAIRunner(c.Service, cmd, nil)
	return []scheduler.Job{
		{
			Name:  JobProduction,
			Every: c.Config.Engine.ProductionInterval,
			Run: func(ctx context.Context) error {
				rep, err := c.Service.ProduceAll(ctx)
				if err != nil {
					return err
				}
				c.Log.Debug("production sweep done",
					zap.Int("empires", rep.Empires),
					zap.Int("produced", rep.Produced),
					zap.Int("failed", rep.Failed))
				return nil
			},
		},
		{
			Name:  JobAI,
			Every: c.Config.Engine.AIInterval,
			Run: func(ctx context.Context) error {
				rep, err := runner.RunOnce(ctx)
				if err != nil {
					return err
				}
				c.Log.Debug("ai round done",
					zap.Int("considered", rep.Considered),
					zap.Int("executed", rep.Executed),
					zap.Int("rejected", rep.Rejected),
					zap.Int("failed", rep.Failed))
				return nil
			},
		},
	}
}

// Job 按名称取一个任务，empirectl 手动触发时使用。
func (c *Components) Job(cmd app.Commander, name string) (scheduler.Job, bool) {
	for _, j := range c.Jobs(cmd) {
		if j.Name == name {
			return j, true
		}
	}
	return scheduler.Job{}, false
}
