package app

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"EmpireBuilder/internal/empire/ai"
	"EmpireBuilder/internal/empire/app/port"
	"EmpireBuilder/internal/empire/battle"
	"EmpireBuilder/internal/empire/economy"
	"EmpireBuilder/internal/empire/entity"
	"EmpireBuilder/internal/shared/metrics"
	"EmpireBuilder/modules/kit/errx"
	"EmpireBuilder/modules/kit/logx"
)

// Deps 构造 EmpireService 需要的依赖，除 Repo 外都有默认值。
type Deps struct {
	Repo            port.EmpireRepository
	Battles         port.BattleLog
	Notifier        port.Notifier
	Economy         *economy.Engine
	Battle          *battle.Engine
	Metrics         *metrics.Metrics
	Logger          logx.Logger
	Now             func() time.Time
	AIRand          ai.Rand
	ConflictRetries int
}

// EmpireService 所有写操作的唯一入口：同一帝国的操作串行，不同帝国并行。
//
// 每次写都是 加锁 → 读取 → 补算产出 → 校验并修改 → 按版本提交。
// 校验失败时什么都不写；版本冲突按 ConflictRetries 重放整个流程。
type EmpireService struct {
	repo    port.EmpireRepository
	battles port.BattleLog
	notify  port.Notifier
	econ    *economy.Engine
	war     *battle.Engine
	metrics *metrics.Metrics
	log     logx.Logger
	now     func() time.Time
	aiRand  ai.Rand
	retries int
	locks   *keyedLocks
}

func NewEmpireService(d Deps) *EmpireService {
	s := &EmpireService{
		repo:    d.Repo,
		battles: d.Battles,
		notify:  d.Notifier,
		econ:    d.Economy,
		war:     d.Battle,
		metrics: d.Metrics,
		log:     d.Logger,
		now:     d.Now,
		aiRand:  d.AIRand,
		retries: max(d.ConflictRetries, 0),
		locks:   newKeyedLocks(),
	}
	if s.battles == nil {
		s.battles = nopBattleLog{}
	}
	if s.notify == nil {
		s.notify = nopNotifier{}
	}
	if s.econ == nil {
		s.econ = economy.NewEngine(nil, 0, 0)
	}
	if s.war == nil {
		s.war = battle.NewEngine(s.econ.Catalog())
	}
	if s.log == nil {
		s.log = logx.Nop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.aiRand == nil {
		s.aiRand = ai.DefaultRand()
	}
	return s
}

func (s *EmpireService) Economy() *economy.Engine { return s.econ }

// CreateEmpire 新建玩家帝国，返回带 id 的初始快照。
func (s *EmpireService) CreateEmpire(ctx context.Context, name, ruler string, lat, lng float64) (*entity.Empire, error) {
	name, ruler = strings.TrimSpace(name), strings.TrimSpace(ruler)
	if name == "" {
		return nil, entity.ErrInvalidName.WithData("field", "name")
	}
	if ruler == "" {
		return nil, entity.ErrInvalidName.WithData("field", "ruler")
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil, errx.ErrReqParamERR.WithDataMap(map[string]any{"lat": lat, "lng": lng})
	}
	e := entity.NewEmpire(entity.NewEmpireID(), name, ruler, entity.Location{Lat: lat, Lng: lng}, s.now())
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, storageErr(err)
	}
	return e, nil
}

// GetEmpire 读取时顺带补算离线期间的产出。
func (s *EmpireService) GetEmpire(ctx context.Context, id entity.EmpireID) (*entity.Empire, error) {
	e, _, err := s.mutate(ctx, "get", id, nil)
	return e, err
}

// ListEmpires 按创建时间排序的快照，不补算产出。
func (s *EmpireService) ListEmpires(ctx context.Context) ([]*entity.Empire, error) {
	all, err := s.repo.All(ctx)
	if err != nil {
		return nil, storageErr(err)
	}
	sort.SliceStable(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.Before(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})
	return all, nil
}

func (s *EmpireService) load(ctx context.Context, id entity.EmpireID) (*entity.Empire, error) {
	e, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, entity.ErrEmpireNotFound) {
			return nil, entity.ErrEmpireNotFound.WithData("empire_id", string(id))
		}
		return nil, storageErr(err)
	}
	return e, nil
}

// mutate fn 为 nil 时只补算产出，没有新 tick 就不写库。
func (s *EmpireService) mutate(ctx context.Context, op string, id entity.EmpireID, fn func(e *entity.Empire, now time.Time) error) (*entity.Empire, int, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	var lastErr error
	for attempt := 0; attempt <= s.retries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, 0, errx.ErrTimeout.WithCause(err)
		}
		e, err := s.load(ctx, id)
		if err != nil {
			return nil, 0, err
		}
		now := s.now()
		ticks := s.econ.Produce(e, now)
		if fn == nil && ticks == 0 {
			return e, 0, nil
		}
		if fn != nil {
			if err := fn(e, now); err != nil {
				s.reject(op, err)
				return nil, 0, err
			}
		}
		err = s.repo.Update(ctx, e)
		if err == nil {
			s.metrics.ProductionTicks(ticks)
			s.notify.EmpireUpdated(ctx, e)
			return e, ticks, nil
		}
		if !errx.IsRetryable(err) {
			return nil, 0, storageErr(err)
		}
		s.metrics.Conflict()
		lastErr = err
	}
	return nil, 0, lastErr
}

func (s *EmpireService) reject(op string, err error) {
	if errx.IsBiz(err) {
		s.metrics.Rejected(op, string(errx.CodeOf(err)))
	}
}

type nopBattleLog struct{}

func (nopBattleLog) Record(context.Context, *entity.BattleResult) error { return nil }
func (nopBattleLog) Recent(context.Context, entity.EmpireID, int) ([]*entity.BattleResult, error) {
	return nil, nil
}

type nopNotifier struct{}

func (nopNotifier) EmpireUpdated(context.Context, *entity.Empire)       {}
func (nopNotifier) BattleResolved(context.Context, *entity.BattleResult) {}
