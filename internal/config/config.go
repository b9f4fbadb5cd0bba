package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

const (
	BackendSQLite    = "sqlite"
	BackendPostgres  = "postgres"
	BackendPostgREST = "postgrest"
)

type Config struct {
	StoreBackend    string
	DBPath          string
	DatabaseURL     string
	DBTrace         bool
	PostgRESTURL    string
	PostgRESTAPIKey string
	ServerPort      string
	LogLevel        string
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	trace, err := strconv.ParseBool(getEnv("DB_TRACE", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_TRACE: %w", err)
	}

	cfg := &Config{
		StoreBackend:    getEnv("STORE_BACKEND", BackendSQLite),
		DBPath:          getEnv("DB_PATH", "scoreboard.db"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		DBTrace:         trace,
		PostgRESTURL:    getEnv("POSTGREST_URL", ""),
		PostgRESTAPIKey: getEnv("POSTGREST_API_KEY", ""),
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	logger.Info().
		Str("store_backend", cfg.StoreBackend).
		Str("db_path", cfg.DBPath).
		Bool("db_trace", cfg.DBTrace).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Msg("configuration loaded")

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreBackend {
	case BackendSQLite:
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the %s backend", BackendPostgres)
		}
	case BackendPostgREST:
		if c.PostgRESTURL == "" {
			return fmt.Errorf("POSTGREST_URL is required for the %s backend", BackendPostgREST)
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}

	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

var Module = fx.Provide(Load)
