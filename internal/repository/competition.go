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

type competitionRow struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	IsActive  bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`
}

func (r competitionRow) toDomain() domain.Competition {
	return domain.Competition{
		ID:        r.ID,
		Name:      r.Name,
		IsActive:  r.IsActive,
		CreatedAt: r.CreatedAt,
	}
}

type CompetitionRepository struct {
	db     *sqlx.DB
	logger zerolog.Logger
}

func NewCompetitionRepository(db *sqlx.DB, logger zerolog.Logger) *CompetitionRepository {
	return &CompetitionRepository{db: db, logger: logger}
}

// ListCompetitions returns every competition, newest first.
func (r *CompetitionRepository) ListCompetitions(ctx context.Context) ([]domain.Competition, error) {
	var rows []competitionRow
	if err := r.db.SelectContext(ctx, &rows,
		"SELECT id, name, is_active, created_at FROM competitions ORDER BY created_at DESC, id DESC",
	); err != nil {
		return nil, fmt.Errorf("error Select competitions: %w", err)
	}

	result := make([]domain.Competition, len(rows))
	for i, row := range rows {
		result[i] = row.toDomain()
	}
	return result, nil
}

func (r *CompetitionRepository) GetCompetition(ctx context.Context, id int64) (*domain.Competition, error) {
	var row competitionRow
	err := r.db.GetContext(ctx, &row,
		r.db.Rebind("SELECT id, name, is_active, created_at FROM competitions WHERE id = ?"), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrCompetitionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error Select competition: id=%d, %w", id, err)
	}
	c := row.toDomain()
	return &c, nil
}

func (r *CompetitionRepository) CreateCompetition(ctx context.Context, name string, isActive bool) (*domain.Competition, error) {
	c := domain.Competition{
		Name:      name,
		IsActive:  isActive,
		CreatedAt: time.Now().UTC(),
	}
	if err := r.db.QueryRowxContext(ctx,
		r.db.Rebind("INSERT INTO competitions (name, is_active, created_at) VALUES (?, ?, ?) RETURNING id"),
		c.Name, c.IsActive, c.CreatedAt,
	).Scan(&c.ID); err != nil {
		return nil, fmt.Errorf("error Insert competition: name=%s, %w", name, err)
	}

	r.logger.Debug().Int64("competition_id", c.ID).Str("name", c.Name).Msg("competition created")
	return &c, nil
}

// CloseCompetition marks the competition inactive. Nothing sets it back.
func (r *CompetitionRepository) CloseCompetition(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx,
		r.db.Rebind("UPDATE competitions SET is_active = ? WHERE id = ?"), false, id)
	if err != nil {
		return fmt.Errorf("error Update competition: id=%d, %w", id, err)
	}
	if err := checkAffectedRows(result, domain.ErrCompetitionNotFound); err != nil {
		return err
	}

	r.logger.Debug().Int64("competition_id", id).Msg("competition closed")
	return nil
}
