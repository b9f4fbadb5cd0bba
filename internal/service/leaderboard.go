package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"scoreboard/internal/constants"
	"scoreboard/internal/domain"
	"scoreboard/internal/leaderboard"
)

type LeaderboardService struct {
	store  ScoreStore
	logger zerolog.Logger
}

func NewLeaderboardService(store ScoreStore, logger zerolog.Logger) *LeaderboardService {
	return &LeaderboardService{store: store, logger: logger}
}

// Weekly ranks players by their summed totals for one week across both tours.
func (s *LeaderboardService) Weekly(ctx context.Context, competitionID int64, week int) ([]domain.LeaderboardEntry, error) {
	if week < domain.MinWeek || week > domain.MaxWeek {
		return nil, domain.ErrInvalidWeek
	}
	return s.ranked(ctx, competitionID, &week)
}

// Overall ranks players by their summed totals across every week and tour.
func (s *LeaderboardService) Overall(ctx context.Context, competitionID int64) ([]domain.LeaderboardEntry, error) {
	return s.ranked(ctx, competitionID, nil)
}

func (s *LeaderboardService) Both(ctx context.Context, competitionID int64, week int) (*domain.Leaderboards, error) {
	if week < domain.MinWeek || week > domain.MaxWeek {
		return nil, domain.ErrInvalidWeek
	}

	boards := &domain.Leaderboards{Week: week}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		weekly, err := s.ranked(gctx, competitionID, &week)
		if err != nil {
			return err
		}
		boards.Weekly = weekly
		return nil
	})
	g.Go(func() error {
		overall, err := s.ranked(gctx, competitionID, nil)
		if err != nil {
			return err
		}
		boards.Overall = overall
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return boards, nil
}

func (s *LeaderboardService) ranked(ctx context.Context, competitionID int64, week *int) ([]domain.LeaderboardEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	records, err := s.store.ListLeaderboardScores(ctx, competitionID, week)
	if err != nil {
		event := s.logger.Error().Err(err).Int64("competition_id", competitionID)
		if week != nil {
			event = event.Int("week", *week)
		}
		event.Msg("failed to load leaderboard scores")
		return nil, fmt.Errorf("failed to load leaderboard: %w", err)
	}
	return leaderboard.Aggregate(records), nil
}
