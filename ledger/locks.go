package ledger

import "sync"

// userLocks 按用户串行化写操作，保证同一用户同一时刻只有一个写者
type userLocks struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func (l *userLocks) lock(userID uint) func() {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[uint]*sync.Mutex)
	}
	m, ok := l.locks[userID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[userID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
