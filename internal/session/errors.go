package session

import "errors"

var (
	ErrSessionNotFound       = errors.New("session not found")
	ErrNoCompetitionSelected = errors.New("select a competition first")
	ErrNoPlayerSelected      = errors.New("select a player first")
	ErrCloseUnavailable      = errors.New("closing is only available in week 4 of an active competition")
	ErrConfirmationRequired  = errors.New("closing a competition must be confirmed")
)
