package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"EmpireBuilder/modules/kit/errx"
	"EmpireBuilder/modules/kit/logx"
	"EmpireBuilder/modules/kit/tracex"
)

const defaultMaxBackoff = 10 * time.Minute

// Job 周期任务。Run 返回错误或 panic 都只影响本次执行。
type Job struct {
	Name    string
	Every   time.Duration
	Timeout time.Duration // 单次执行超时，0 表示与 Every 相同
	Run     func(ctx context.Context) error
}

// Scheduler 每个 Job 一个 goroutine，生命周期跟随 Start 传入的 ctx。
// 连续失败时下次执行间隔翻倍，最长 maxBackoff，成功一次即恢复。
type Scheduler struct {
	log        logx.Logger
	maxBackoff time.Duration
	jobs       []Job
	wg         sync.WaitGroup
	started    bool
}

func New(log logx.Logger) *Scheduler {
	if log == nil {
		log = logx.Nop()
	}
	return &Scheduler{log: log, maxBackoff: defaultMaxBackoff}
}

// WithMaxBackoff 调整退避上限，必须在 Start 之前调用。
func (s *Scheduler) WithMaxBackoff(d time.Duration) *Scheduler {
	if d > 0 {
		s.maxBackoff = d
	}
	return s
}

// Add 注册任务，必须在 Start 之前调用。
func (s *Scheduler) Add(job Job) error {
	if s.started {
		return errx.ErrInternal.WithData("reason", "scheduler already started")
	}
	if job.Run == nil || job.Every <= 0 {
		return errx.ErrReqParamERR.WithDataMap(map[string]any{"job": job.Name, "every": job.Every.String()})
	}
	s.jobs = append(s.jobs, job)
	return nil
}

func (s *Scheduler) Start(ctx context.Context) {
	s.started = true
	for _, job := range s.jobs {
		s.wg.Add(1)
		go func(job Job) {
			defer s.wg.Done()
			s.loop(ctx, job)
		}(job)
	}
	s.log.Info("scheduler started", zap.Int("jobs", len(s.jobs)))
}

// Wait 阻塞到所有任务循环退出（ctx 结束后当前执行完成即退出）。
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

func (s *Scheduler) loop(ctx context.Context, job Job) {
	fails := 0
	timer := time.NewTimer(job.Every)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		if err := s.runOnce(ctx, job); err != nil {
			fails++
			logx.ReportErrorWithLoggerContext(ctx, s.log, "scheduler."+job.Name, err, zap.Int("consecutive_failures", fails))
		} else {
			fails = 0
		}
		timer.Reset(s.nextDelay(job.Every, fails))
	}
}

func (s *Scheduler) nextDelay(every time.Duration, fails int) time.Duration {
	d := every
	for i := 0; i < fails && d < s.maxBackoff; i++ {
		d *= 2
	}
	return min(d, max(s.maxBackoff, every))
}

// RunOnce 立即执行一次 Job，用于启动时补跑和测试。
func (s *Scheduler) RunOnce(ctx context.Context, job Job) error {
	return s.runOnce(ctx, job)
}

func (s *Scheduler) runOnce(parent context.Context, job Job) (err error) {
	timeout := job.Timeout
	if timeout <= 0 {
		timeout = job.Every
	}
	// 每次执行一条新的 trace
	traced := tracex.WithSpanID(tracex.WithTraceID(parent, tracex.NewTraceID()), "job."+job.Name)
	ctx, cancel := context.WithTimeout(traced, timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			err = errx.ErrInternal.WithCause(fmt.Errorf("job %s panic: %v", job.Name, r))
		}
	}()
	return job.Run(ctx)
}
