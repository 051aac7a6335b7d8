package ledger

import "sync"

// LabourLocks serializes writers per labour. Two concurrent mutations on the
// same labour would otherwise interleave their read-recompute-write cycles
// and corrupt the running-balance chain.
//
// Entries are reference counted and removed when the last holder unlocks.
type LabourLocks struct {
	mu    sync.Mutex
	locks map[LabourID]*labourLock
}

type labourLock struct {
	mu   sync.Mutex
	refs int
}

func NewLabourLocks() *LabourLocks {
	return &LabourLocks{locks: make(map[LabourID]*labourLock)}
}

// Lock blocks until the labour is free and returns the matching unlock.
func (l *LabourLocks) Lock(id LabourID) (unlock func()) {
	l.mu.Lock()
	lk, ok := l.locks[id]
	if !ok {
		lk = &labourLock{}
		l.locks[id] = lk
	}
	lk.refs++
	l.mu.Unlock()

	lk.mu.Lock()
	return func() {
		lk.mu.Unlock()
		l.mu.Lock()
		lk.refs--
		if lk.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}
