package memory

import (
	"context"
	"sync"

	"EmpireBuilder/internal/empire/entity"
)

// BattleLog 进程内战报，只保留最近 capacity 条。
type BattleLog struct {
	mu       sync.Mutex
	capacity int
	reports  []*entity.BattleResult
}

func NewBattleLog(capacity int) *BattleLog {
	if capacity <= 0 {
		capacity = 1000
	}
	return &BattleLog{capacity: capacity}
}

func (l *BattleLog) Record(ctx context.Context, r *entity.BattleResult) error {
	_ = ctx
	cp := *r
	l.mu.Lock()
	defer l.mu.Unlock()
	l.reports = append(l.reports, &cp)
	if over := len(l.reports) - l.capacity; over > 0 {
		l.reports = append(l.reports[:0:0], l.reports[over:]...)
	}
	return nil
}

func (l *BattleLog) Recent(ctx context.Context, id entity.EmpireID, limit int) ([]*entity.BattleResult, error) {
	_ = ctx
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []*entity.BattleResult
	for i := len(l.reports) - 1; i >= 0 && len(out) < limit; i-- {
		r := l.reports[i]
		if r.AttackerID == id || r.DefenderID == id {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}
