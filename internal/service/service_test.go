package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	"scoreboard/internal/domain"
)

func TestCompetitionCreateDefaultsName(t *testing.T) {
	store := newMemStore()
	svc := NewCompetitionService(store, zerolog.Nop())
	svc.now = func() time.Time { return time.Date(2026, time.October, 15, 9, 0, 0, 0, time.UTC) }

	c, err := svc.Create(context.Background(), "   ")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if c.Name != "October 2026" {
		t.Fatalf("expected default name %q, got %q", "October 2026", c.Name)
	}
	if !c.IsActive {
		t.Fatal("expected new competition to be active")
	}
}

func TestCompetitionCloseTwice(t *testing.T) {
	store := newMemStore()
	svc := NewCompetitionService(store, zerolog.Nop())
	ctx := context.Background()

	c, _ := svc.Create(ctx, "Cup")
	closed, err := svc.Close(ctx, c.ID)
	if err != nil {
		t.Fatalf("expected close to succeed, got %v", err)
	}
	if closed.IsActive {
		t.Fatal("expected closed competition to be inactive")
	}

	if _, err := svc.Close(ctx, c.ID); !errors.Is(err, ErrCompetitionClosed) {
		t.Fatalf("expected ErrCompetitionClosed, got %v", err)
	}
	if _, err := svc.Close(ctx, 404); !errors.Is(err, domain.ErrCompetitionNotFound) {
		t.Fatalf("expected ErrCompetitionNotFound, got %v", err)
	}
}

func TestPlayerCreateRequiresName(t *testing.T) {
	svc := NewPlayerService(newMemStore(), zerolog.Nop())

	if _, err := svc.Create(context.Background(), " \t"); !errors.Is(err, ErrPlayerNameRequired) {
		t.Fatalf("expected ErrPlayerNameRequired, got %v", err)
	}
	p, err := svc.Create(context.Background(), "  Ann ")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if p.Name != "Ann" {
		t.Fatalf("expected trimmed name, got %q", p.Name)
	}
}

func TestScoreGetMissingIsNotAnError(t *testing.T) {
	store := newMemStore()
	svc := NewScoreService(store, zerolog.Nop())

	score, err := svc.Get(context.Background(), domain.ScoreKey{CompetitionID: 1, PlayerID: 1, Week: 1, Tour: 1})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if score != nil {
		t.Fatalf("expected nil score, got %+v", score)
	}

	store.failWith = errBackendDown
	if _, err := svc.Get(context.Background(), domain.ScoreKey{CompetitionID: 1, PlayerID: 1, Week: 1, Tour: 1}); !errors.Is(err, errBackendDown) {
		t.Fatalf("expected backend error to surface, got %v", err)
	}
}

func TestScoreSaveClampsAndOverwrites(t *testing.T) {
	store := newMemStore()
	svc := NewScoreService(store, zerolog.Nop())
	ctx := context.Background()

	c, _ := store.CreateCompetition(ctx, "Cup", true)
	p := mustPlayer(store, "Ann")
	key := domain.ScoreKey{CompetitionID: c.ID, PlayerID: p.ID, Week: 3, Tour: 2}

	first, err := svc.Save(ctx, key, []int{9, -1, 2})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if first.Trials != [5]int{5, 0, 2, 0, 0} || first.TotalScore != 11 {
		t.Fatalf("unexpected clamped score: %+v", first)
	}

	second, err := svc.Save(ctx, key, []int{5, 5, 5, 5, 5})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if second.ID != first.ID || second.TotalScore != 75 {
		t.Fatalf("expected overwrite of row %d with 75, got %+v", first.ID, second)
	}
	if len(store.scores) != 1 {
		t.Fatalf("expected one stored score, got %d", len(store.scores))
	}
}

func TestScoreSaveValidates(t *testing.T) {
	store := newMemStore()
	svc := NewScoreService(store, zerolog.Nop())
	ctx := context.Background()
	c, _ := store.CreateCompetition(ctx, "Cup", true)
	p := mustPlayer(store, "Ann")

	tests := []struct {
		name string
		key  domain.ScoreKey
		want error
	}{
		{"week too high", domain.ScoreKey{CompetitionID: c.ID, PlayerID: p.ID, Week: 5, Tour: 1}, domain.ErrInvalidWeek},
		{"tour zero", domain.ScoreKey{CompetitionID: c.ID, PlayerID: p.ID, Week: 1, Tour: 0}, domain.ErrInvalidTour},
		{"unknown competition", domain.ScoreKey{CompetitionID: 99, PlayerID: p.ID, Week: 1, Tour: 1}, domain.ErrCompetitionNotFound},
		{"unknown player", domain.ScoreKey{CompetitionID: c.ID, PlayerID: 99, Week: 1, Tour: 1}, domain.ErrPlayerNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Save(ctx, tt.key, []int{1}); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
	if len(store.scores) != 0 {
		t.Fatalf("expected nothing stored, got %d scores", len(store.scores))
	}
}

func TestLeaderboardBoth(t *testing.T) {
	store := newMemStore()
	scores := NewScoreService(store, zerolog.Nop())
	boards := NewLeaderboardService(store, zerolog.Nop())
	ctx := context.Background()

	c, _ := store.CreateCompetition(ctx, "Cup", true)
	a := mustPlayer(store, "A")
	b := mustPlayer(store, "B")

	save := func(p domain.Player, week, tour int, trials ...int) {
		t.Helper()
		if _, err := scores.Save(ctx, domain.ScoreKey{CompetitionID: c.ID, PlayerID: p.ID, Week: week, Tour: tour}, trials); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
	save(a, 1, 1, 5)       // 5
	save(b, 1, 1, 0, 5)    // 10
	save(a, 1, 2, 0, 0, 5) // 15
	save(a, 2, 1, 5, 5)    // 15

	got, err := boards.Both(ctx, c.ID, 1)
	if err != nil {
		t.Fatalf("both: %v", err)
	}

	wantWeekly := []domain.LeaderboardEntry{
		{Rank: 1, PlayerID: a.ID, PlayerName: "A", TotalScore: 20},
		{Rank: 2, PlayerID: b.ID, PlayerName: "B", TotalScore: 10},
	}
	wantOverall := []domain.LeaderboardEntry{
		{Rank: 1, PlayerID: a.ID, PlayerName: "A", TotalScore: 35},
		{Rank: 2, PlayerID: b.ID, PlayerName: "B", TotalScore: 10},
	}
	if diff := cmp.Diff(wantWeekly, got.Weekly); diff != "" {
		t.Fatalf("weekly mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantOverall, got.Overall); diff != "" {
		t.Fatalf("overall mismatch (-want +got):\n%s", diff)
	}

	empty, err := boards.Weekly(ctx, c.ID, 4)
	if err != nil {
		t.Fatalf("weekly: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected empty week 4 board, got %+v", empty)
	}

	store.failWith = errBackendDown
	if _, err := boards.Both(ctx, c.ID, 1); !errors.Is(err, errBackendDown) {
		t.Fatalf("expected backend error, got %v", err)
	}
}
