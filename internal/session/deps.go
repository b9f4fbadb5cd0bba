package session

import (
	"context"

	"scoreboard/internal/domain"
	"scoreboard/internal/service"
)

type Competitions interface {
	List(ctx context.Context) ([]domain.Competition, error)
	Create(ctx context.Context, name string) (*domain.Competition, error)
	Close(ctx context.Context, id int64) (*domain.Competition, error)
}

type Players interface {
	List(ctx context.Context) ([]domain.Player, error)
	Create(ctx context.Context, name string) (*domain.Player, error)
}

type Scores interface {
	Get(ctx context.Context, key domain.ScoreKey) (*domain.Score, error)
	Save(ctx context.Context, key domain.ScoreKey, trials []int) (*domain.Score, error)
}

type Leaderboards interface {
	Both(ctx context.Context, competitionID int64, week int) (*domain.Leaderboards, error)
}

// Deps are the services a session reads from and writes through.
type Deps struct {
	Competitions Competitions
	Players      Players
	Scores       Scores
	Leaderboards Leaderboards
}

func NewDeps(
	competitions *service.CompetitionService,
	players *service.PlayerService,
	scores *service.ScoreService,
	leaderboards *service.LeaderboardService,
) Deps {
	return Deps{
		Competitions: competitions,
		Players:      players,
		Scores:       scores,
		Leaderboards: leaderboards,
	}
}
