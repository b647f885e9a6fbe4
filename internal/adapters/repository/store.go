// Package repository holds viewer sessions in memory.
package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/passnet/internal/domain/model"
	"github.com/okian/passnet/internal/domain/passing"
	"github.com/okian/passnet/internal/domain/selection"
)

// State is what one viewer currently looks at. Every field is replaced
// wholesale when a new team's graph lands.
type State struct {
	Team       model.Team
	Graph      passing.Graph
	Stats      passing.Stats
	Controller *selection.Controller

	// Generation increments on every team selection. A fetch that finishes
	// under an older generation is stale and must be dropped.
	Generation uint64
	Loaded     bool
}

// Session is one viewer's state guarded by its own lock.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu       sync.Mutex
	state    State
	lastSeen atomic.Int64 // unix nanos
}

func newSession(id string, now time.Time) *Session {
	s := &Session{
		ID:        id,
		CreatedAt: now,
		state:     State{Controller: selection.NewController(passing.Graph{})},
	}
	s.lastSeen.Store(now.UnixNano())
	return s
}

// With runs fn while holding the session lock.
func (s *Session) With(fn func(*State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.state)
}

// LastSeen returns when the session was last fetched from the store.
func (s *Session) LastSeen() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

func (s *Session) touch(now time.Time) {
	s.lastSeen.Store(now.UnixNano())
}

// Store provides access to viewer sessions.
type Store interface {
	// Create registers a new idle session.
	Create(ctx context.Context) (*Session, error)

	// Get returns the session and refreshes its idle timer.
	// Returns ErrNotFound if the id is unknown or expired.
	Get(ctx context.Context, id string) (*Session, error)

	// Delete removes a session. Deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error

	// Count returns the number of live sessions.
	Count(ctx context.Context) int
}
