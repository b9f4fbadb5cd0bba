package service

import "errors"

var (
	ErrPlayerNameRequired = errors.New("player name is required")
	ErrCompetitionClosed  = errors.New("competition is already closed")
)
