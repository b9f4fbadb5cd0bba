package logger

import (
	"os"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"scoreboard/internal/config"
)

func New() zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	return zerolog.New(os.Stdout).
		With().
		Timestamp().
		Caller().
		Logger().
		Level(zerolog.DebugLevel)
}

// ApplyLevel switches the global level once the configuration is known.
func ApplyLevel(cfg *config.Config, logger zerolog.Logger) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Warn().Err(err).Str("log_level", cfg.LogLevel).Msg("keeping default log level")
		return
	}
	zerolog.SetGlobalLevel(level)
	logger.Debug().Str("log_level", level.String()).Msg("log level applied")
}

var Module = fx.Options(
	fx.Provide(New),
	fx.Invoke(ApplyLevel),
)
