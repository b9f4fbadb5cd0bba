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

type scoreRow struct {
	ID            int64     `db:"id"`
	CompetitionID int64     `db:"competition_id"`
	PlayerID      int64     `db:"player_id"`
	Week          int       `db:"week"`
	Tour          int       `db:"tour"`
	Trial1        int       `db:"trial1"`
	Trial2        int       `db:"trial2"`
	Trial3        int       `db:"trial3"`
	Trial4        int       `db:"trial4"`
	Trial5        int       `db:"trial5"`
	TotalScore    int       `db:"total_score"`
	CreatedAt     time.Time `db:"created_at"`
}

func (r scoreRow) toDomain() domain.Score {
	return domain.Score{
		ID: r.ID,
		ScoreKey: domain.ScoreKey{
			CompetitionID: r.CompetitionID,
			PlayerID:      r.PlayerID,
			Week:          r.Week,
			Tour:          r.Tour,
		},
		Trials:     [domain.TrialCount]int{r.Trial1, r.Trial2, r.Trial3, r.Trial4, r.Trial5},
		TotalScore: r.TotalScore,
		CreatedAt:  r.CreatedAt,
	}
}

type leaderboardRow struct {
	ScoreID    int64  `db:"score_id"`
	PlayerID   int64  `db:"player_id"`
	PlayerName string `db:"player_name"`
	TotalScore int    `db:"total_score"`
}

type ScoreRepository struct {
	db     *sqlx.DB
	logger zerolog.Logger
}

func NewScoreRepository(db *sqlx.DB, logger zerolog.Logger) *ScoreRepository {
	return &ScoreRepository{db: db, logger: logger}
}

// GetScore returns domain.ErrScoreNotFound when no row exists for key.
func (r *ScoreRepository) GetScore(ctx context.Context, key domain.ScoreKey) (*domain.Score, error) {
	var row scoreRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(`
		SELECT id, competition_id, player_id, week, tour,
		       trial1, trial2, trial3, trial4, trial5, total_score, created_at
		FROM scores
		WHERE competition_id = ? AND player_id = ? AND week = ? AND tour = ?`),
		key.CompetitionID, key.PlayerID, key.Week, key.Tour,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrScoreNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error Select score: key=%+v, %w", key, err)
	}
	s := row.toDomain()
	return &s, nil
}

// UpsertScore writes score under its key, overwriting the trials and total of
// an existing row. The total is always recomputed from the trials first.
func (r *ScoreRepository) UpsertScore(ctx context.Context, score *domain.Score) error {
	score.Recalculate()
	if score.CreatedAt.IsZero() {
		score.CreatedAt = time.Now().UTC()
	}

	t := score.Trials
	err := r.db.QueryRowxContext(ctx, r.db.Rebind(`
		INSERT INTO scores (competition_id, player_id, week, tour,
		                    trial1, trial2, trial3, trial4, trial5, total_score, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (competition_id, player_id, week, tour) DO UPDATE SET
			trial1 = excluded.trial1,
			trial2 = excluded.trial2,
			trial3 = excluded.trial3,
			trial4 = excluded.trial4,
			trial5 = excluded.trial5,
			total_score = excluded.total_score
		RETURNING id, created_at`),
		score.CompetitionID, score.PlayerID, score.Week, score.Tour,
		t[0], t[1], t[2], t[3], t[4], score.TotalScore, score.CreatedAt,
	).Scan(&score.ID, &score.CreatedAt)
	if err != nil {
		return fmt.Errorf("error Upsert score: key=%+v, %w", score.ScoreKey, err)
	}

	r.logger.Debug().
		Int64("score_id", score.ID).
		Int64("competition_id", score.CompetitionID).
		Int64("player_id", score.PlayerID).
		Int("week", score.Week).
		Int("tour", score.Tour).
		Int("total_score", score.TotalScore).
		Msg("score upserted")
	return nil
}

// ListLeaderboardScores returns the competition's scores with player names in
// insertion order. A nil week selects every week.
func (r *ScoreRepository) ListLeaderboardScores(ctx context.Context, competitionID int64, week *int) ([]domain.ScoreRecord, error) {
	query := `
		SELECT s.id AS score_id, s.player_id, p.name AS player_name, s.total_score
		FROM scores s
		JOIN players p ON p.id = s.player_id
		WHERE s.competition_id = ?`
	args := []any{competitionID}
	if week != nil {
		query += " AND s.week = ?"
		args = append(args, *week)
	}
	query += " ORDER BY s.id"

	var rows []leaderboardRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("error Select leaderboard scores: competitionID=%d, %w", competitionID, err)
	}

	result := make([]domain.ScoreRecord, len(rows))
	for i, row := range rows {
		result[i] = domain.ScoreRecord{
			ScoreID:    row.ScoreID,
			PlayerID:   row.PlayerID,
			PlayerName: row.PlayerName,
			TotalScore: row.TotalScore,
		}
	}
	return result, nil
}
