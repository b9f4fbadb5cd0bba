package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"scoreboard/internal/domain"
)

// memStore is an in-memory Store with the same ordering and not-found
// behaviour as the SQL repositories.
type memStore struct {
	mu           sync.Mutex
	competitions []domain.Competition
	players      []domain.Player
	scores       []domain.Score
	nextID       int64
	failWith     error
}

func newMemStore() *memStore {
	return &memStore{}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) ListCompetitions(context.Context) ([]domain.Competition, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	out := make([]domain.Competition, len(m.competitions))
	copy(out, m.competitions)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memStore) GetCompetition(_ context.Context, id int64) (*domain.Competition, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.competitions {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, domain.ErrCompetitionNotFound
}

func (m *memStore) CreateCompetition(_ context.Context, name string, isActive bool) (*domain.Competition, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	c := domain.Competition{ID: m.id(), Name: name, IsActive: isActive, CreatedAt: time.Now()}
	m.competitions = append(m.competitions, c)
	return &c, nil
}

func (m *memStore) CloseCompetition(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	for i := range m.competitions {
		if m.competitions[i].ID == id {
			m.competitions[i].IsActive = false
			return nil
		}
	}
	return domain.ErrCompetitionNotFound
}

func (m *memStore) ListPlayers(context.Context) ([]domain.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	out := make([]domain.Player, len(m.players))
	copy(out, m.players)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memStore) GetPlayer(_ context.Context, id int64) (*domain.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.players {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, domain.ErrPlayerNotFound
}

func (m *memStore) CreatePlayer(_ context.Context, name string) (*domain.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	p := domain.Player{ID: m.id(), Name: name, CreatedAt: time.Now()}
	m.players = append(m.players, p)
	return &p, nil
}

func (m *memStore) GetScore(_ context.Context, key domain.ScoreKey) (*domain.Score, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	for _, s := range m.scores {
		if s.ScoreKey == key {
			return &s, nil
		}
	}
	return nil, domain.ErrScoreNotFound
}

func (m *memStore) UpsertScore(_ context.Context, score *domain.Score) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	score.Recalculate()
	for i := range m.scores {
		if m.scores[i].ScoreKey == score.ScoreKey {
			score.ID = m.scores[i].ID
			m.scores[i] = *score
			return nil
		}
	}
	score.ID = m.id()
	m.scores = append(m.scores, *score)
	return nil
}

func (m *memStore) ListLeaderboardScores(_ context.Context, competitionID int64, week *int) ([]domain.ScoreRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	names := map[int64]string{}
	for _, p := range m.players {
		names[p.ID] = p.Name
	}
	var out []domain.ScoreRecord
	for _, s := range m.scores {
		if s.CompetitionID != competitionID || (week != nil && s.Week != *week) {
			continue
		}
		out = append(out, domain.ScoreRecord{
			ScoreID:    s.ID,
			PlayerID:   s.PlayerID,
			PlayerName: names[s.PlayerID],
			TotalScore: s.TotalScore,
		})
	}
	return out, nil
}

var errBackendDown = errors.New("backend unavailable")

func mustPlayer(m *memStore, name string) domain.Player {
	p, _ := m.CreatePlayer(context.Background(), strings.TrimSpace(name))
	return *p
}
