package app

import (
	"sync"

	"EmpireBuilder/internal/empire/entity"
)

// keyedLocks 为每个帝国提供一把互斥锁，无人持有时回收。
// 不同帝国之间互不阻塞；攻击需要同时持有双方的锁，统一按 id 升序加锁避免死锁。
type keyedLocks struct {
	mu    sync.Mutex
	locks map[entity.EmpireID]*refLock
}

type refLock struct {
	sync.Mutex
	refs int
}

func newKeyedLocks() *keyedLocks {
	return &keyedLocks{locks: make(map[entity.EmpireID]*refLock)}
}

func (k *keyedLocks) lock(id entity.EmpireID) func() {
	k.mu.Lock()
	l, ok := k.locks[id]
	if !ok {
		l = &refLock{}
		k.locks[id] = l
	}
	l.refs++
	k.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, id)
		}
		k.mu.Unlock()
	}
}

func (k *keyedLocks) lockPair(a, b entity.EmpireID) func() {
	if a == b {
		return k.lock(a)
	}
	if b < a {
		a, b = b, a
	}
	unlockA := k.lock(a)
	unlockB := k.lock(b)
	return func() {
		unlockB()
		unlockA()
	}
}

func (k *keyedLocks) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
