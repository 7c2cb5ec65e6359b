package sessionlock

import (
	"chunkvault/internal/core/domain"
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Locker serializes per-session mutations. Acquisition is bounded: callers
// that cannot take the lock within the configured timeout get
// domain.ErrSessionBusy instead of blocking.
type Locker struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*entry
	timeout time.Duration
}

type entry struct {
	ch   chan struct{}
	refs int
}

// New creates a Locker with the given acquisition timeout
func New(timeout time.Duration) *Locker {
	return &Locker{
		entries: make(map[uuid.UUID]*entry),
		timeout: timeout,
	}
}

// Acquire takes the exclusive lock for the session id and returns a release
// func. Returns domain.ErrSessionBusy when the lock is held past the timeout.
func (l *Locker) Acquire(ctx context.Context, id uuid.UUID) (func(), error) {
	l.mu.Lock()
	e, ok := l.entries[id]
	if !ok {
		e = &entry{ch: make(chan struct{}, 1)}
		l.entries[id] = e
	}
	e.refs++
	l.mu.Unlock()

	timer := time.NewTimer(l.timeout)
	defer timer.Stop()

	select {
	case e.ch <- struct{}{}:
		return func() {
			<-e.ch
			l.put(id, e)
		}, nil
	case <-timer.C:
		l.put(id, e)
		return nil, domain.ErrSessionBusy
	case <-ctx.Done():
		l.put(id, e)
		return nil, ctx.Err()
	}
}

func (l *Locker) put(id uuid.UUID, e *entry) {
	l.mu.Lock()
	e.refs--
	if e.refs == 0 {
		delete(l.entries, id)
	}
	l.mu.Unlock()
}
