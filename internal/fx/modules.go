package fx

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"scoreboard/internal/api"
	"scoreboard/internal/config"
	"scoreboard/internal/database"
	"scoreboard/internal/logger"
	"scoreboard/internal/repository"
	"scoreboard/internal/server"
	"scoreboard/internal/service"
	"scoreboard/internal/session"
)

// ProvideStore opens the configured backend. SQL handles are closed on stop.
func ProvideStore(lc fx.Lifecycle, cfg *config.Config, logger zerolog.Logger) (service.Store, error) {
	if cfg.StoreBackend == config.BackendPostgREST {
		logger.Info().Str("url", cfg.PostgRESTURL).Msg("using postgrest store")
		return api.NewPostgRESTClient(cfg, logger), nil
	}

	db, err := database.New(cfg, logger)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			if err := db.Close(); err != nil {
				logger.Warn().Err(err).Msg("error closing database connection")
				return err
			}
			return nil
		},
	})
	return repository.NewStore(db.DB, logger), nil
}

func provideCompetitionService(store service.Store, logger zerolog.Logger) *service.CompetitionService {
	return service.NewCompetitionService(store, logger)
}

func providePlayerService(store service.Store, logger zerolog.Logger) *service.PlayerService {
	return service.NewPlayerService(store, logger)
}

func provideLeaderboardService(store service.Store, logger zerolog.Logger) *service.LeaderboardService {
	return service.NewLeaderboardService(store, logger)
}

var Module = fx.Options(
	logger.Module,
	config.Module,
	// storage
	fx.Provide(ProvideStore),
	// svc
	fx.Provide(provideCompetitionService),
	fx.Provide(providePlayerService),
	fx.Provide(service.NewScoreService),
	fx.Provide(provideLeaderboardService),
	fx.Provide(session.NewDeps),
	fx.Provide(session.NewManager),
	// server
	fx.Provide(server.NewScoreboardServer),
	fx.Provide(server.NewSessionServer),
)
