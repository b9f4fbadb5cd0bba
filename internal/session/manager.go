package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"

	"scoreboard/internal/constants"
)

// Manager keeps open sessions in memory. Sessions idle for longer than
// constants.SessionIdleTTL are dropped, and when the table is full the least
// recently used session makes room for a new one.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	deps     Deps
	now      func() time.Time
	logger   zerolog.Logger
}

func NewManager(deps Deps, logger zerolog.Logger) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		deps:     deps,
		now:      time.Now,
		logger:   logger.With().Str("component", "session").Logger(),
	}
}

// Open creates and loads a new session. It is not registered if loading fails.
func (m *Manager) Open(ctx context.Context) (*Session, error) {
	id, err := gonanoid.New(constants.SessionIDLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate nanoid: %w", err)
	}

	s := New(id, m.deps, m.logger)
	if _, err := s.Load(ctx); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.expire(now)
	for len(m.sessions) >= constants.MaxSessions {
		m.evictOldest()
	}
	s.lastUsed = now
	m.sessions[id] = s
	m.logger.Info().Str("session_id", id).Msg("session opened")
	return s, nil
}

// expire drops sessions idle past the TTL. Callers hold m.mu.
func (m *Manager) expire(now time.Time) {
	for id, s := range m.sessions {
		if now.Sub(s.lastUsed) > constants.SessionIdleTTL {
			delete(m.sessions, id)
			m.logger.Info().Str("session_id", id).Msg("session expired")
		}
	}
}

// evictOldest drops the least recently used session. Callers hold m.mu.
func (m *Manager) evictOldest() {
	var (
		oldestID string
		oldest   time.Time
	)
	for id, s := range m.sessions {
		if oldestID == "" || s.lastUsed.Before(oldest) {
			oldestID, oldest = id, s.lastUsed
		}
	}
	delete(m.sessions, oldestID)
	m.logger.Info().Str("session_id", oldestID).Msg("session evicted")
}

// Get returns the session and marks it as used.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	s.lastUsed = m.now()
	return s, nil
}

func (m *Manager) End(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, id)
	m.logger.Info().Str("session_id", id).Msg("session ended")
	return nil
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
