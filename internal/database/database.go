package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"path"

	"github.com/gofrs/flock"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"

	"scoreboard/internal/config"
	"scoreboard/internal/constants"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var embedMigrations embed.FS

var ErrDatabaseLocked = errors.New("database is in use by another scoreboard process")

// DB is the sql handle plus the file lock held for sqlite databases.
type DB struct {
	*sqlx.DB
	lock *flock.Flock
}

func (d *DB) Close() error {
	err := d.DB.Close()
	if d.lock != nil {
		if uerr := d.lock.Unlock(); uerr != nil && err == nil {
			err = fmt.Errorf("failed to release database lock: %w", uerr)
		}
	}
	return err
}

func New(cfg *config.Config, logger zerolog.Logger) (*DB, error) {
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		return openPostgres(cfg, logger)
	default:
		return openSQLite(cfg, logger)
	}
}

func openSQLite(cfg *config.Config, logger zerolog.Logger) (*DB, error) {
	logger.Info().Str("path", cfg.DBPath).Msg("connecting to database")

	lock := flock.New(cfg.DBPath + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to lock database: %w", err)
	}
	if !locked {
		return nil, ErrDatabaseLocked
	}

	dsn := cfg.DBPath + "?_foreign_keys=on&_busy_timeout=5000"
	db, err := open(driverName("sqlite3", cfg.DBTrace, logger), dsn, "sqlite3")
	if err != nil {
		lock.Unlock()
		logger.Error().Err(err).Msg("failed to connect to database")
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	d := &DB{DB: db, lock: lock}

	if err := optimizeSQLite(d, logger); err != nil {
		d.Close()
		logger.Error().Err(err).Msg("failed to optimize SQLite")
		return nil, fmt.Errorf("failed to optimize SQLite: %w", err)
	}
	if err := runMigrations(d, "sqlite3", "sqlite", logger); err != nil {
		d.Close()
		logger.Error().Err(err).Msg("failed to run migrations")
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info().Msg("database connection established and optimized")
	return d, nil
}

func openPostgres(cfg *config.Config, logger zerolog.Logger) (*DB, error) {
	logger.Info().Msg("connecting to postgres")

	db, err := open(driverName("postgres", cfg.DBTrace, logger), cfg.DatabaseURL, "postgres")
	if err != nil {
		logger.Error().Err(err).Msg("failed to connect to database")
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	d := &DB{DB: db}

	ctx, cancel := context.WithTimeout(context.Background(), constants.DBPingTimeout)
	defer cancel()
	if err := d.PingContext(ctx); err != nil {
		d.Close()
		return nil, fmt.Errorf("failed to ping database within %v: %w", constants.DBPingTimeout, err)
	}

	if err := runMigrations(d, "postgres", "postgres", logger); err != nil {
		d.Close()
		logger.Error().Err(err).Msg("failed to run migrations")
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info().Msg("database connection established")
	return d, nil
}

// open uses the possibly traced driver but binds queries for the base dialect.
func open(driver, dsn, dialect string) (*sqlx.DB, error) {
	sqlDB, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	db := sqlx.NewDb(sqlDB, dialect)

	db.SetMaxOpenConns(constants.DBMaxOpenConns)
	db.SetMaxIdleConns(constants.DBMaxIdleConns)
	db.SetConnMaxLifetime(constants.DBConnMaxLifetime)
	db.SetConnMaxIdleTime(constants.DBMaxIdleTime)
	return db, nil
}

func runMigrations(db *DB, dialect, dir string, logger zerolog.Logger) error {
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.Up(db.DB.DB, path.Join("migrations", dir)); err != nil {
		return fmt.Errorf("failed to run goose migrations: %w", err)
	}

	logger.Info().Str("dialect", dialect).Msg("migrations completed successfully")
	return nil
}

func optimizeSQLite(db *DB, logger zerolog.Logger) error {
	pragmas := []struct {
		name  string
		value string
	}{
		{"journal_mode", "WAL"},
		{"synchronous", "NORMAL"},
		{"busy_timeout", "5000"},
		{"foreign_keys", "ON"},
		{"temp_store", "MEMORY"},
	}

	for _, pragma := range pragmas {
		query := fmt.Sprintf("PRAGMA %s = %s", pragma.name, pragma.value)
		if _, err := db.Exec(query); err != nil {
			logger.Warn().
				Err(err).
				Str("pragma", pragma.name).
				Str("value", pragma.value).
				Msg("failed to set pragma")
			return fmt.Errorf("failed to set PRAGMA %s: %w", pragma.name, err)
		}
		logger.Debug().
			Str("pragma", pragma.name).
			Str("value", pragma.value).
			Msg("SQLite pragma set")
	}

	return nil
}
