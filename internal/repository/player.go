package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"scoreboard/internal/domain"
)

type playerRow struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}

type PlayerRepository struct {
	db     *sqlx.DB
	logger zerolog.Logger
}

func NewPlayerRepository(db *sqlx.DB, logger zerolog.Logger) *PlayerRepository {
	return &PlayerRepository{db: db, logger: logger}
}

// ListPlayers returns players in alphabetical order.
func (r *PlayerRepository) ListPlayers(ctx context.Context) ([]domain.Player, error) {
	var rows []playerRow
	if err := r.db.SelectContext(ctx, &rows,
		"SELECT id, name, created_at FROM players ORDER BY name, id",
	); err != nil {
		return nil, fmt.Errorf("error Select players: %w", err)
	}

	result := make([]domain.Player, len(rows))
	for i, p := range rows {
		result[i] = domain.Player{ID: p.ID, Name: p.Name, CreatedAt: p.CreatedAt}
	}
	return result, nil
}

func (r *PlayerRepository) GetPlayer(ctx context.Context, id int64) (*domain.Player, error) {
	var row playerRow
	err := r.db.GetContext(ctx, &row,
		r.db.Rebind("SELECT id, name, created_at FROM players WHERE id = ?"), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrPlayerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error Select player: id=%d, %w", id, err)
	}
	return &domain.Player{ID: row.ID, Name: row.Name, CreatedAt: row.CreatedAt}, nil
}

func (r *PlayerRepository) CreatePlayer(ctx context.Context, name string) (*domain.Player, error) {
	p := domain.Player{Name: name, CreatedAt: time.Now().UTC()}
	if err := r.db.QueryRowxContext(ctx,
		r.db.Rebind("INSERT INTO players (name, created_at) VALUES (?, ?) RETURNING id"),
		p.Name, p.CreatedAt,
	).Scan(&p.ID); err != nil {
		return nil, fmt.Errorf("error Insert player: name=%s, %w", name, err)
	}

	r.logger.Debug().Int64("player_id", p.ID).Str("name", p.Name).Msg("player created")
	return &p, nil
}
