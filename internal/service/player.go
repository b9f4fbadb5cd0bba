package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"scoreboard/internal/constants"
	"scoreboard/internal/domain"
)

type PlayerService struct {
	store  PlayerStore
	logger zerolog.Logger
}

func NewPlayerService(store PlayerStore, logger zerolog.Logger) *PlayerService {
	return &PlayerService{store: store, logger: logger}
}

func (s *PlayerService) List(ctx context.Context) ([]domain.Player, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	players, err := s.store.ListPlayers(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list players")
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	return players, nil
}

func (s *PlayerService) Create(ctx context.Context, name string) (*domain.Player, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrPlayerNameRequired
	}

	player, err := s.store.CreatePlayer(ctx, name)
	if err != nil {
		s.logger.Error().Err(err).Str("name", name).Msg("failed to create player")
		return nil, fmt.Errorf("failed to create player: %w", err)
	}

	s.logger.Info().Int64("player_id", player.ID).Str("name", player.Name).Msg("player created")
	return player, nil
}
