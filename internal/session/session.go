// Package session enforces single-flight generation per user session: at
// most one generation may be in progress for a session at any time.
package session

import (
	"context"
	"errors"
	"sync"
)

// ErrInFlight is returned by Acquire when the session already holds the lock.
var ErrInFlight = errors.New("a generation is already in progress for this session")

// Locker grants per-session exclusive generation slots.
type Locker interface {
	// Acquire takes the slot for sessionID. The returned release func must be
	// called exactly once when the generation finishes.
	Acquire(ctx context.Context, sessionID string) (release func(), err error)
}

// MemoryLocker is a process-local Locker.
type MemoryLocker struct {
	mu     sync.Mutex
	active map[string]struct{}
}

// NewMemoryLocker creates an empty MemoryLocker.
func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{active: make(map[string]struct{})}
}

// Acquire implements Locker.
func (m *MemoryLocker) Acquire(_ context.Context, sessionID string) (func(), error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, busy := m.active[sessionID]; busy {
		return nil, ErrInFlight
	}
	m.active[sessionID] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.active, sessionID)
			m.mu.Unlock()
		})
	}, nil
}
