package memory

import (
	"context"
	"errors"
	"sync"

	"EmpireBuilder/internal/empire/entity"
	"EmpireBuilder/internal/empire/errs"
	"EmpireBuilder/modules/kit/errx"
)

const (
	OpCreateEmpire = "repo.empire.memory.Create"
	OpUpdateEmpire = "repo.empire.memory.Update"
)

var errDuplicateID = errors.New("empire id already exists")

// EmpireRepo 进程内存储，读写都复制，调用方拿到的对象与存储互不影响。
type EmpireRepo struct {
	mu   sync.RWMutex
	data map[entity.EmpireID]*entity.Empire
}

func NewEmpireRepo() *EmpireRepo {
	return &EmpireRepo{data: make(map[entity.EmpireID]*entity.Empire)}
}

func (r *EmpireRepo) Get(ctx context.Context, id entity.EmpireID) (*entity.Empire, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.data[id]
	if !ok {
		return nil, entity.ErrEmpireNotFound
	}
	return e.Clone(), nil
}

func (r *EmpireRepo) All(ctx context.Context) ([]*entity.Empire, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entity.Empire, 0, len(r.data))
	for _, e := range r.data {
		out = append(out, e.Clone())
	}
	return out, nil
}

func (r *EmpireRepo) Create(ctx context.Context, e *entity.Empire) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[e.ID]; ok {
		return errs.Wrap(OpCreateEmpire, errs.KindInfra, errDuplicateID, map[string]any{"empire_id": string(e.ID)})
	}
	r.data[e.ID] = e.Clone()
	return nil
}

// Update 全部校验通过后才写入；成功后传入对象的 Version 同步 +1。
func (r *EmpireRepo) Update(ctx context.Context, empires ...*entity.Empire) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[entity.EmpireID]struct{}, len(empires))
	for _, e := range empires {
		if _, dup := seen[e.ID]; dup {
			return errs.Wrap(OpUpdateEmpire, errs.KindInfra, errDuplicateID, map[string]any{"empire_id": string(e.ID)})
		}
		seen[e.ID] = struct{}{}

		cur, ok := r.data[e.ID]
		if !ok {
			return entity.ErrEmpireNotFound
		}
		if cur.Version != e.Version {
			return errx.ErrConflict.WithDataMap(map[string]any{
				"empire_id": string(e.ID),
				"have":      e.Version,
				"stored":    cur.Version,
			})
		}
	}
	for _, e := range empires {
		e.Version++
		r.data[e.ID] = e.Clone()
	}
	return nil
}
