package service

import (
	"context"

	"scoreboard/internal/domain"
)

type CompetitionStore interface {
	ListCompetitions(ctx context.Context) ([]domain.Competition, error)
	GetCompetition(ctx context.Context, id int64) (*domain.Competition, error)
	CreateCompetition(ctx context.Context, name string, isActive bool) (*domain.Competition, error)
	CloseCompetition(ctx context.Context, id int64) error
}

type PlayerStore interface {
	ListPlayers(ctx context.Context) ([]domain.Player, error)
	GetPlayer(ctx context.Context, id int64) (*domain.Player, error)
	CreatePlayer(ctx context.Context, name string) (*domain.Player, error)
}

type ScoreStore interface {
	// GetScore returns domain.ErrScoreNotFound when nothing is stored for key.
	GetScore(ctx context.Context, key domain.ScoreKey) (*domain.Score, error)
	UpsertScore(ctx context.Context, score *domain.Score) error
	ListLeaderboardScores(ctx context.Context, competitionID int64, week *int) ([]domain.ScoreRecord, error)
}

// Store is the record-storage backend behind the services.
type Store interface {
	CompetitionStore
	PlayerStore
	ScoreStore
}
