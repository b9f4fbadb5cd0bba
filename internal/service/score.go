package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"scoreboard/internal/constants"
	"scoreboard/internal/domain"
	"scoreboard/internal/scoring"
)

type ScoreService struct {
	store  Store
	logger zerolog.Logger
}

func NewScoreService(store Store, logger zerolog.Logger) *ScoreService {
	return &ScoreService{store: store, logger: logger}
}

// Get returns the stored score for key, or nil when none has been entered yet.
func (s *ScoreService) Get(ctx context.Context, key domain.ScoreKey) (*domain.Score, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	score, err := s.store.GetScore(ctx, key)
	if errors.Is(err, domain.ErrScoreNotFound) {
		return nil, nil
	}
	if err != nil {
		s.logger.Error().Err(err).
			Int64("competition_id", key.CompetitionID).
			Int64("player_id", key.PlayerID).
			Int("week", key.Week).
			Int("tour", key.Tour).
			Msg("failed to load score")
		return nil, fmt.Errorf("failed to load score: %w", err)
	}
	return score, nil
}

// Save clamps and weighs trials and stores them under key, replacing any
// previous entry for the same competition, player, week and tour.
func (s *ScoreService) Save(ctx context.Context, key domain.ScoreKey, trials []int) (*domain.Score, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if _, err := s.store.GetCompetition(ctx, key.CompetitionID); err != nil {
		return nil, fmt.Errorf("failed to load competition %d: %w", key.CompetitionID, err)
	}
	if _, err := s.store.GetPlayer(ctx, key.PlayerID); err != nil {
		return nil, fmt.Errorf("failed to load player %d: %w", key.PlayerID, err)
	}

	result := scoring.Calculate(trials)
	score := &domain.Score{
		ScoreKey:   key,
		Trials:     result.Trials,
		TotalScore: result.Total,
	}
	if err := s.store.UpsertScore(ctx, score); err != nil {
		s.logger.Error().Err(err).
			Int64("competition_id", key.CompetitionID).
			Int64("player_id", key.PlayerID).
			Msg("failed to save score")
		return nil, fmt.Errorf("failed to save score: %w", err)
	}

	s.logger.Info().
		Int64("score_id", score.ID).
		Int64("competition_id", key.CompetitionID).
		Int64("player_id", key.PlayerID).
		Int("week", key.Week).
		Int("tour", key.Tour).
		Int("total_score", score.TotalScore).
		Msg("score saved")
	return score, nil
}
