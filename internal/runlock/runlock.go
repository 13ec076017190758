// Package runlock keeps two pipeline runs on one host from overlapping.
package runlock

import (
	"fmt"
	"sync"

	"github.com/gofrs/flock"
)

// Lock combines an in-process mutex with an advisory file lock.
// flock is re-entrant for a single handle, so the mutex covers goroutines
// of this process and the file covers other processes.
type Lock struct {
	mu sync.Mutex
	fl *flock.Flock
}

func New(path string) *Lock {
	return &Lock{fl: flock.New(path)}
}

// TryAcquire does not block. ok is false when another run holds the lock.
func (l *Lock) TryAcquire() (release func(), ok bool, err error) {
	if !l.mu.TryLock() {
		return nil, false, nil
	}
	locked, err := l.fl.TryLock()
	if err != nil {
		l.mu.Unlock()
		return nil, false, fmt.Errorf("lock %s: %w", l.fl.Path(), err)
	}
	if !locked {
		l.mu.Unlock()
		return nil, false, nil
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			_ = l.fl.Unlock()
			l.mu.Unlock()
		})
	}, true, nil
}

func (l *Lock) Path() string { return l.fl.Path() }
