package booking

import "sync"

// machineLocks hands out one mutex per machine so that the overlap check and
// the insert it guards run as a unit.
type machineLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newMachineLocks() *machineLocks {
	return &machineLocks{locks: make(map[int64]*sync.Mutex)}
}

// Lock acquires the machine's mutex and returns its release func.
func (l *machineLocks) Lock(machineID int64) func() {
	l.mu.Lock()
	m, ok := l.locks[machineID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[machineID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
