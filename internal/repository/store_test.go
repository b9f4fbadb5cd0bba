package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	"scoreboard/internal/config"
	"scoreboard/internal/database"
	"scoreboard/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	cfg := &config.Config{
		StoreBackend: config.BackendSQLite,
		DBPath:       filepath.Join(t.TempDir(), "scoreboard.db"),
	}
	db, err := database.New(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewStore(db.DB, zerolog.Nop())
}

func seed(t *testing.T, s *Store, players ...string) (*domain.Competition, []domain.Player) {
	t.Helper()
	ctx := context.Background()
	c, err := s.CreateCompetition(ctx, "October 2026", true)
	if err != nil {
		t.Fatalf("failed to create competition: %v", err)
	}
	var created []domain.Player
	for _, name := range players {
		p, err := s.CreatePlayer(ctx, name)
		if err != nil {
			t.Fatalf("failed to create player %s: %v", name, err)
		}
		created = append(created, *p)
	}
	return c, created
}

func TestCompetitionsNewestFirstAndClose(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.CreateCompetition(ctx, "September 2026", true)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	second, err := s.CreateCompetition(ctx, "October 2026", true)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	list, err := s.ListCompetitions(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != second.ID || list[1].ID != first.ID {
		t.Fatalf("expected newest first, got %+v", list)
	}

	if err := s.CloseCompetition(ctx, first.ID); err != nil {
		t.Fatalf("close: %v", err)
	}
	got, err := s.GetCompetition(ctx, first.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.IsActive {
		t.Fatal("expected competition to be inactive after close")
	}

	if err := s.CloseCompetition(ctx, 999); !errors.Is(err, domain.ErrCompetitionNotFound) {
		t.Fatalf("expected ErrCompetitionNotFound, got %v", err)
	}
}

func TestPlayersAlphabetical(t *testing.T) {
	s := newTestStore(t)
	seed(t, s, "Zoe", "adam", "Bea")

	list, err := s.ListPlayers(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var names []string
	for _, p := range list {
		names = append(names, p.Name)
	}
	if diff := cmp.Diff([]string{"Bea", "Zoe", "adam"}, names); diff != "" {
		t.Fatalf("unexpected order (-want +got):\n%s", diff)
	}

	if _, err := s.GetPlayer(context.Background(), 42); !errors.Is(err, domain.ErrPlayerNotFound) {
		t.Fatalf("expected ErrPlayerNotFound, got %v", err)
	}
}

func TestGetScoreNotFound(t *testing.T) {
	s := newTestStore(t)
	c, players := seed(t, s, "A")

	_, err := s.GetScore(context.Background(), domain.ScoreKey{
		CompetitionID: c.ID, PlayerID: players[0].ID, Week: 1, Tour: 1,
	})
	if !errors.Is(err, domain.ErrScoreNotFound) {
		t.Fatalf("expected ErrScoreNotFound, got %v", err)
	}
}

func TestUpsertScoreOverwrites(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	c, players := seed(t, s, "A")
	key := domain.ScoreKey{CompetitionID: c.ID, PlayerID: players[0].ID, Week: 2, Tour: 1}

	first := &domain.Score{ScoreKey: key, Trials: [5]int{1, 1, 1, 1, 1}}
	if err := s.UpsertScore(ctx, first); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	second := &domain.Score{ScoreKey: key, Trials: [5]int{5, 4, 3, 2, 1}, TotalScore: 999}
	if err := s.UpsertScore(ctx, second); err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected upsert to keep row id %d, got %d", first.ID, second.ID)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Fatalf("expected upsert to keep created_at %v, got %v", first.CreatedAt, second.CreatedAt)
	}

	got, err := s.GetScore(ctx, key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Trials != [5]int{5, 4, 3, 2, 1} {
		t.Fatalf("expected latest trials, got %v", got.Trials)
	}
	if got.TotalScore != 35 {
		t.Fatalf("expected recomputed total 35, got %d", got.TotalScore)
	}

	var count int
	if err := s.ScoreRepository.db.Get(&count, "SELECT COUNT(*) FROM scores"); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one stored row, got %d", count)
	}
}

func TestListLeaderboardScoresFiltersByWeek(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	c, players := seed(t, s, "A", "B")
	a, b := players[0], players[1]

	for _, sc := range []domain.Score{
		{ScoreKey: domain.ScoreKey{CompetitionID: c.ID, PlayerID: a.ID, Week: 1, Tour: 1}, Trials: [5]int{1}},
		{ScoreKey: domain.ScoreKey{CompetitionID: c.ID, PlayerID: b.ID, Week: 1, Tour: 2}, Trials: [5]int{0, 1}},
		{ScoreKey: domain.ScoreKey{CompetitionID: c.ID, PlayerID: a.ID, Week: 2, Tour: 1}, Trials: [5]int{0, 0, 1}},
	} {
		if err := s.UpsertScore(ctx, &sc); err != nil {
			t.Fatalf("upsert: %v", err)
		}
	}

	week := 1
	weekly, err := s.ListLeaderboardScores(ctx, c.ID, &week)
	if err != nil {
		t.Fatalf("weekly: %v", err)
	}
	if len(weekly) != 2 {
		t.Fatalf("expected 2 week-1 records, got %+v", weekly)
	}
	if weekly[0].PlayerName != "A" || weekly[0].TotalScore != 1 || weekly[1].PlayerName != "B" || weekly[1].TotalScore != 2 {
		t.Fatalf("unexpected weekly records: %+v", weekly)
	}

	all, err := s.ListLeaderboardScores(ctx, c.ID, nil)
	if err != nil {
		t.Fatalf("overall: %v", err)
	}
	if len(all) != 3 || all[2].TotalScore != 3 {
		t.Fatalf("unexpected overall records: %+v", all)
	}
}
