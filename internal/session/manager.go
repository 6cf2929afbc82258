package session

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"

	"github.com/google/uuid"

	"github.com/pixil98/cryptocity/internal/driver"
	"github.com/pixil98/cryptocity/internal/tutorial"
)

// Manager owns every live session and advances them from the frame driver.
type Manager struct {
	cfg         Config
	provider    tutorial.Provider
	publisher   Publisher
	maxSessions int

	mu       sync.RWMutex
	sessions map[string]*Session
}

type ManagerOpt func(*Manager)

// WithMaxSessions caps the number of concurrent sessions. Zero means no cap.
func WithMaxSessions(n int) ManagerOpt {
	return func(m *Manager) {
		m.maxSessions = n
	}
}

// NewManager creates sessions from cfg. A zero cfg.Seed gives every session
// its own random city.
func NewManager(cfg Config, provider tutorial.Provider, publisher Publisher, opts ...ManagerOpt) *Manager {
	m := &Manager{
		cfg:       cfg,
		provider:  provider,
		publisher: publisher,
		sessions:  map[string]*Session{},
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

func (m *Manager) Create(ctx context.Context) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.maxSessions > 0 && len(m.sessions) >= m.maxSessions {
		return nil, ErrTooManySessions
	}

	cfg := m.cfg
	if cfg.Seed == 0 {
		cfg.Seed = rand.Uint64()
	}

	id := uuid.NewString()
	s, err := New(id, cfg, m.provider, m.publisher)
	if err != nil {
		return nil, err
	}
	m.sessions[id] = s

	slog.InfoContext(ctx, "session created", "session", id, "seed", cfg.Seed, "active", len(m.sessions))
	return s, nil
}

func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Remove stops and forgets a session. Removing an unknown id is a no-op.
func (m *Manager) Remove(ctx context.Context, id string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return
	}
	s.Stop()
	slog.InfoContext(ctx, "session removed", "session", id)
}

func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *Manager) Tick(ctx context.Context, f driver.Frame) error {
	m.mu.RLock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.RUnlock()

	for _, s := range sessions {
		s.Tick(ctx, f.Now, f.Delta)
	}
	return nil
}
