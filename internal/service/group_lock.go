package service

import (
	"slices"
	"sync"
)

// groupLocks сериализует операции над одной группой заявок внутри процесса
type groupLocks struct {
	mu    sync.Mutex
	locks map[string]*groupLock
}

type groupLock struct {
	mu   sync.Mutex
	refs int
}

func newGroupLocks() *groupLocks {
	return &groupLocks{locks: make(map[string]*groupLock)}
}

// Lock захватывает блокировки всех ключей в отсортированном порядке
// и возвращает функцию освобождения
func (g *groupLocks) Lock(keys ...string) func() {
	keys = slices.Clone(keys)
	slices.Sort(keys)
	keys = slices.Compact(keys)

	acquired := make([]*groupLock, 0, len(keys))
	for _, key := range keys {
		l := g.acquire(key)
		l.mu.Lock()
		acquired = append(acquired, l)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			for i := len(acquired) - 1; i >= 0; i-- {
				acquired[i].mu.Unlock()
				g.release(keys[i])
			}
		})
	}
}

func (g *groupLocks) acquire(key string) *groupLock {
	g.mu.Lock()
	defer g.mu.Unlock()

	l, ok := g.locks[key]
	if !ok {
		l = &groupLock{}
		g.locks[key] = l
	}
	l.refs++
	return l
}

func (g *groupLocks) release(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	l, ok := g.locks[key]
	if !ok {
		return
	}
	l.refs--
	if l.refs == 0 {
		delete(g.locks, key)
	}
}

// size количество ключей с активными держателями
func (g *groupLocks) size() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.locks)
}
