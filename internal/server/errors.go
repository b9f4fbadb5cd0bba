package server

import (
	"context"
	"errors"

	"connectrpc.com/connect"
	"github.com/rs/zerolog"

	"scoreboard/internal/domain"
	"scoreboard/internal/service"
	"scoreboard/internal/session"
)

func connectCode(err error) connect.Code {
	switch {
	case errors.Is(err, domain.ErrCompetitionNotFound),
		errors.Is(err, domain.ErrPlayerNotFound),
		errors.Is(err, domain.ErrScoreNotFound),
		errors.Is(err, session.ErrSessionNotFound):
		return connect.CodeNotFound
	case errors.Is(err, domain.ErrInvalidWeek),
		errors.Is(err, domain.ErrInvalidTour),
		errors.Is(err, service.ErrPlayerNameRequired):
		return connect.CodeInvalidArgument
	case errors.Is(err, service.ErrCompetitionClosed),
		errors.Is(err, session.ErrCloseUnavailable),
		errors.Is(err, session.ErrConfirmationRequired),
		errors.Is(err, session.ErrNoCompetitionSelected),
		errors.Is(err, session.ErrNoPlayerSelected):
		return connect.CodeFailedPrecondition
	case errors.Is(err, context.DeadlineExceeded):
		return connect.CodeDeadlineExceeded
	case errors.Is(err, context.Canceled):
		return connect.CodeCanceled
	default:
		return connect.CodeInternal
	}
}

// toConnectError maps service errors to RPC codes. Internal errors are logged
// with the request logger.
func toConnectError(ctx context.Context, procedure string, err error) error {
	code := connectCode(err)
	if code == connect.CodeInternal {
		zerolog.Ctx(ctx).Error().Err(err).Str("procedure", procedure).Msg("request failed")
	}
	return connect.NewError(code, err)
}
