// internal/store/memory.go
//
// In-memory implementation of the Store interface.
// Holds live 2048 sessions; durable history lives in SQLite (see httpserver).
//
// Characteristics:
//   - Sessions keyed by ID in a map guarded by an RWMutex.
//   - Each session has its own mutex; Update runs callbacks under it, which is
//     how concurrent requests for the same game are serialized.
//   - Idle sessions are dropped by Sweep.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robalobadob/game2048/internal/game"
)

// ErrNotFound is returned for unknown session IDs.
var ErrNotFound = errors.New("not found")

// Store defines the persistence interface for game sessions.
type Store interface {
	// Save adds or replaces a session.
	Save(ctx context.Context, s *game.Session) error

	// Get returns a snapshot of the session with the given ID.
	Get(ctx context.Context, id string) (game.Snapshot, error)

	// Update runs fn with exclusive access to the session.
	// fn's error is returned unchanged.
	Update(ctx context.Context, id string, fn func(*game.Session) error) error

	// Delete removes a session. Deleting a missing ID is not an error.
	Delete(ctx context.Context, id string) error

	// Len returns the number of live sessions.
	Len() int
}

type entry struct {
	mu      sync.Mutex
	sess    *game.Session
	touched time.Time
}

var _ Store = (*Memory)(nil)

// Memory is a map-based Store.
type Memory struct {
	mu    sync.RWMutex      // guards games map
	games map[string]*entry // keyed by Session.ID
	now   func() time.Time
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() *Memory {
	return &Memory{games: make(map[string]*entry), now: time.Now}
}

// Save adds or replaces the session in the map.
func (m *Memory) Save(ctx context.Context, s *game.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.games[s.ID]; ok {
		e.mu.Lock()
		e.sess, e.touched = s, m.now()
		e.mu.Unlock()
		return nil
	}
	m.games[s.ID] = &entry{sess: s, touched: m.now()}
	return nil
}

// Get looks up a session by ID and returns a copy of its state.
func (m *Memory) Get(ctx context.Context, id string) (game.Snapshot, error) {
	var snap game.Snapshot
	err := m.Update(ctx, id, func(s *game.Session) error {
		snap = s.Snapshot()
		return nil
	})
	return snap, err
}

// Update looks up id and calls fn while holding that session's lock.
func (m *Memory) Update(ctx context.Context, id string, fn func(*game.Session) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.RLock()
	e, ok := m.games[id]
	m.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.touched = m.now()
	return fn(e.sess)
}

// Delete removes a session.
func (m *Memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.games, id)
	return nil
}

// Len returns the number of live sessions.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.games)
}

// Sweep removes sessions untouched for longer than idle and returns how many
// were dropped.
func (m *Memory) Sweep(idle time.Duration) int {
	cutoff := m.now().Add(-idle)
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, e := range m.games {
		e.mu.Lock()
		stale := e.touched.Before(cutoff)
		e.mu.Unlock()
		if stale {
			delete(m.games, id)
			n++
		}
	}
	return n
}

// RunSweeper calls Sweep every interval until ctx is done.
func (m *Memory) RunSweeper(ctx context.Context, interval, idle time.Duration, onSweep func(n int)) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := m.Sweep(idle); n > 0 && onSweep != nil {
				onSweep(n)
			}
		}
	}
}
