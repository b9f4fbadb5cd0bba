package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"scoreboard/internal/constants"
	"scoreboard/internal/domain"
)

type CompetitionService struct {
	store  CompetitionStore
	now    func() time.Time
	logger zerolog.Logger
}

func NewCompetitionService(store CompetitionStore, logger zerolog.Logger) *CompetitionService {
	return &CompetitionService{store: store, now: time.Now, logger: logger}
}

func (s *CompetitionService) List(ctx context.Context) ([]domain.Competition, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	competitions, err := s.store.ListCompetitions(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list competitions")
		return nil, fmt.Errorf("failed to list competitions: %w", err)
	}
	return competitions, nil
}

// DefaultName is the name given to a competition created without one,
// e.g. "October 2026".
func (s *CompetitionService) DefaultName() string {
	return s.now().Format("January 2006")
}

// Create opens a new active competition. A blank name falls back to DefaultName.
func (s *CompetitionService) Create(ctx context.Context, name string) (*domain.Competition, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	name = strings.TrimSpace(name)
	if name == "" {
		name = s.DefaultName()
	}

	competition, err := s.store.CreateCompetition(ctx, name, true)
	if err != nil {
		s.logger.Error().Err(err).Str("name", name).Msg("failed to create competition")
		return nil, fmt.Errorf("failed to create competition: %w", err)
	}

	s.logger.Info().Int64("competition_id", competition.ID).Str("name", competition.Name).Msg("competition created")
	return competition, nil
}

// Close ends an active competition. Closed competitions cannot be reopened.
func (s *CompetitionService) Close(ctx context.Context, id int64) (*domain.Competition, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	competition, err := s.store.GetCompetition(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load competition %d: %w", id, err)
	}
	if !competition.IsActive {
		return nil, ErrCompetitionClosed
	}

	if err := s.store.CloseCompetition(ctx, id); err != nil {
		s.logger.Error().Err(err).Int64("competition_id", id).Msg("failed to close competition")
		return nil, fmt.Errorf("failed to close competition %d: %w", id, err)
	}

	competition.IsActive = false
	s.logger.Info().Int64("competition_id", id).Msg("competition closed")
	return competition, nil
}
