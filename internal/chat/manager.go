package chat

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Manager keeps the live sessions of the HTTP API.
type Manager struct {
	deps   Deps
	opts   Options
	ttl    time.Duration
	logger *zap.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager builds a registry whose sessions share deps and opts. A
// non-positive ttl disables idle eviction.
func NewManager(deps Deps, opts Options, ttl time.Duration) *Manager {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &Manager{
		deps:     deps,
		opts:     opts,
		ttl:      ttl,
		logger:   opts.Logger,
		sessions: make(map[string]*Session),
	}
}

// Create starts a new conversation. An empty lang uses the configured default.
func (m *Manager) Create(lang Language) *Session {
	opts := m.opts
	if lang != "" {
		opts.Language = lang
	}
	s := NewSession(uuid.NewString(), m.deps, opts)

	m.mu.Lock()
	m.sessions[s.ID()] = s
	m.mu.Unlock()

	m.logger.Debug("session created", zap.String("session_id", s.ID()), zap.String("language", string(s.Language())))
	return s
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

func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Evict drops sessions idle for longer than the ttl. Busy sessions are kept.
func (m *Manager) Evict() int {
	if m.ttl <= 0 {
		return 0
	}
	cutoff := m.opts.Clock().Add(-m.ttl)

	m.mu.Lock()
	defer m.mu.Unlock()
	evicted := 0
	for id, s := range m.sessions {
		if s.Busy() || s.IdleSince().After(cutoff) {
			continue
		}
		delete(m.sessions, id)
		evicted++
	}
	if evicted > 0 {
		m.logger.Info("evicted idle sessions", zap.Int("count", evicted))
	}
	return evicted
}

// RunEviction calls Evict every interval until ctx is done.
func (m *Manager) RunEviction(ctx context.Context, interval time.Duration) {
	if m.ttl <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Evict()
		}
	}
}
