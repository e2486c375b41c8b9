package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/siba2623/portfolio-assistant/internal/responder"
)

const (
	// DefaultTypingDelay is how long the bot pretends to type before a
	// reply appears.
	DefaultTypingDelay = 600 * time.Millisecond

	// DefaultTTL is how long an idle session survives before the
	// janitor sweeps it.
	DefaultTTL = 30 * time.Minute
)

// Manager owns the live session set: creation, lookup, and idle-session
// eviction. Safe for concurrent use.
type Manager struct {
	responder   *responder.Responder
	clock       Clock
	sleeper     Sleeper
	typingDelay time.Duration
	ttl         time.Duration

	mu       sync.RWMutex
	sessions map[string]*Session
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock injects a custom clock (for testing).
func WithClock(c Clock) Option {
	return func(m *Manager) { m.clock = c }
}

// WithSleeper injects a custom typing-delay sleeper (for testing).
func WithSleeper(s Sleeper) Option {
	return func(m *Manager) { m.sleeper = s }
}

// WithTypingDelay overrides the simulated typing delay.
func WithTypingDelay(d time.Duration) Option {
	return func(m *Manager) { m.typingDelay = d }
}

// WithTTL overrides the idle-session TTL.
func WithTTL(d time.Duration) Option {
	return func(m *Manager) { m.ttl = d }
}

// NewManager creates a Manager over the given responder.
func NewManager(r *responder.Responder, opts ...Option) *Manager {
	m := &Manager{
		responder:   r,
		clock:       realClock{},
		sleeper:     realSleeper{},
		typingDelay: DefaultTypingDelay,
		ttl:         DefaultTTL,
		sessions:    make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create starts a new session (greeting pre-seeded, widget closed,
// badge armed) and registers it under a fresh UUID.
func (m *Manager) Create() *Session {
	s := newSession(uuid.NewString(), m.responder, m.clock, m.sleeper, m.typingDelay)

	m.mu.Lock()
	m.sessions[s.ID()] = s
	m.mu.Unlock()

	return s
}

// Get looks up a live session by ID.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep drops sessions idle longer than the TTL and returns how many
// were removed.
func (m *Manager) Sweep() int {
	cutoff := m.clock.Now().Add(-m.ttl)

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, s := range m.sessions {
		if s.LastActive().Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// Run sweeps idle sessions on the given interval until the context is
// cancelled. Meant to run in its own goroutine.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				slog.Debug("swept idle sessions", "count", n, "remaining", m.Len())
			}
		}
	}
}
