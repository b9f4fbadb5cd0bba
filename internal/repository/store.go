package repository

import (
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"scoreboard/internal/service"
)

var _ service.Store = (*Store)(nil)

// Store bundles the SQL repositories into one storage backend.
type Store struct {
	*CompetitionRepository
	*PlayerRepository
	*ScoreRepository
}

func NewStore(db *sqlx.DB, logger zerolog.Logger) *Store {
	logger = logger.With().Str("component", "repository").Logger()
	return &Store{
		CompetitionRepository: NewCompetitionRepository(db, logger),
		PlayerRepository:      NewPlayerRepository(db, logger),
		ScoreRepository:       NewScoreRepository(db, logger),
	}
}
