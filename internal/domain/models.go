package domain

import (
	"errors"
	"fmt"
	"time"
)

const (
	TrialCount = 5
	MinTrial   = 0
	MaxTrial   = 5
)

const (
	MinWeek = 1
	MaxWeek = 4 // closing week
	MinTour = 1
	MaxTour = 2
)

var (
	ErrCompetitionNotFound = errors.New("competition not found")
	ErrPlayerNotFound      = errors.New("player not found")
	ErrScoreNotFound       = errors.New("score not found")

	ErrInvalidWeek = fmt.Errorf("week must be between %d and %d", MinWeek, MaxWeek)
	ErrInvalidTour = fmt.Errorf("tour must be between %d and %d", MinTour, MaxTour)
)

type Player struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

type Competition struct {
	ID        int64
	Name      string
	IsActive  bool // false once closed, never reopened
	CreatedAt time.Time
}

// ScoreKey is the uniqueness constraint of a score row.
type ScoreKey struct {
	CompetitionID int64
	PlayerID      int64
	Week          int
	Tour          int
}

func (k ScoreKey) Validate() error {
	if k.Week < MinWeek || k.Week > MaxWeek {
		return ErrInvalidWeek
	}
	if k.Tour < MinTour || k.Tour > MaxTour {
		return ErrInvalidTour
	}
	return nil
}

type Score struct {
	ID int64
	ScoreKey
	Trials     [TrialCount]int
	TotalScore int
	CreatedAt  time.Time
}

// Recalculate derives TotalScore from Trials; trial i weighs i+1.
func (s *Score) Recalculate() {
	total := 0
	for i, v := range s.Trials {
		total += v * (i + 1)
	}
	s.TotalScore = total
}

// ScoreRecord is one stored score as seen by the leaderboard query.
type ScoreRecord struct {
	ScoreID    int64
	PlayerID   int64
	PlayerName string
	TotalScore int
}

type LeaderboardEntry struct {
	Rank       int
	PlayerID   int64
	PlayerName string
	TotalScore int
}

type Leaderboards struct {
	Week    int
	Weekly  []LeaderboardEntry
	Overall []LeaderboardEntry
}
