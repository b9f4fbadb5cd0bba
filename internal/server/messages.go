package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"scoreboard/internal/domain"
	"scoreboard/internal/scoring"
	"scoreboard/internal/session"
)

// Trial is one entered trial value. It accepts numbers, numeric strings,
// null and anything else; unusable input reads as 0. Numbers are truncated,
// strings are read by their leading integer, and both are clamped.
type Trial int

func (t *Trial) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*t = 0
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*t = 0
			return nil
		}
		*t = Trial(scoring.ParseTrial(s))
	default:
		// out-of-range literals such as 1e400 come back as ±Inf with ErrRange
		f, err := strconv.ParseFloat(string(data), 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			*t = 0
			return nil
		}
		*t = Trial(scoring.TrialFromNumber(f))
	}
	return nil
}

func trialValues(trials []Trial) []int {
	out := make([]int, len(trials))
	for i, t := range trials {
		out[i] = int(t)
	}
	return out
}

type Competition struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
}

type Player struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

type Score struct {
	ID            int64  `json:"id"`
	CompetitionID int64  `json:"competition_id"`
	PlayerID      int64  `json:"player_id"`
	Week          int    `json:"week"`
	Tour          int    `json:"tour"`
	Trials        []int  `json:"trials"`
	Points        []int  `json:"points"`
	TotalScore    int    `json:"total_score"`
	CreatedAt     string `json:"created_at"`
}

type LeaderboardEntry struct {
	Rank       int    `json:"rank"`
	PlayerID   int64  `json:"player_id"`
	PlayerName string `json:"player_name"`
	TotalScore int    `json:"total_score"`
}

type ListCompetitionsRequest struct{}

type ListCompetitionsResponse struct {
	Competitions []Competition `json:"competitions"`
}

type CreateCompetitionRequest struct {
	Name string `json:"name"`
}

type CloseCompetitionRequest struct {
	ID int64 `json:"id"`
}

type CompetitionResponse struct {
	Competition Competition `json:"competition"`
}

type ListPlayersRequest struct{}

type ListPlayersResponse struct {
	Players []Player `json:"players"`
}

type CreatePlayerRequest struct {
	Name string `json:"name"`
}

type PlayerResponse struct {
	Player Player `json:"player"`
}

type GetScoreRequest struct {
	CompetitionID int64 `json:"competition_id"`
	PlayerID      int64 `json:"player_id"`
	Week          int   `json:"week"`
	Tour          int   `json:"tour"`
}

type SaveScoreRequest struct {
	CompetitionID int64   `json:"competition_id"`
	PlayerID      int64   `json:"player_id"`
	Week          int     `json:"week"`
	Tour          int     `json:"tour"`
	Trials        []Trial `json:"trials"`
}

// ScoreResponse carries a null score when nothing is stored yet.
type ScoreResponse struct {
	Score *Score `json:"score"`
}

type GetLeaderboardsRequest struct {
	CompetitionID int64 `json:"competition_id"`
	Week          int   `json:"week"`
}

type GetLeaderboardsResponse struct {
	Week    int                `json:"week"`
	Weekly  []LeaderboardEntry `json:"weekly"`
	Overall []LeaderboardEntry `json:"overall"`
}

type OpenSessionRequest struct{}

type SessionRequest struct {
	SessionID string `json:"session_id"`
}

// UpdateSelectionRequest changes only the fields that are set.
type UpdateSelectionRequest struct {
	SessionID     string `json:"session_id"`
	CompetitionID *int64 `json:"competition_id,omitempty"`
	PlayerID      *int64 `json:"player_id,omitempty"`
	Week          *int   `json:"week,omitempty"`
	Tour          *int   `json:"tour,omitempty"`
}

type SessionCreateCompetitionRequest struct {
	SessionID string `json:"session_id"`
	Name      string `json:"name"`
}

type AddPlayerRequest struct {
	SessionID string `json:"session_id"`
	Name      string `json:"name"`
}

type SaveTrialsRequest struct {
	SessionID string  `json:"session_id"`
	Trials    []Trial `json:"trials"`
}

type SessionCloseCompetitionRequest struct {
	SessionID string `json:"session_id"`
	Confirm   bool   `json:"confirm"`
}

type SessionState struct {
	ID            string             `json:"id"`
	Competitions  []Competition      `json:"competitions"`
	Players       []Player           `json:"players"`
	CompetitionID int64              `json:"competition_id"`
	PlayerID      int64              `json:"player_id"`
	Week          int                `json:"week"`
	Tour          int                `json:"tour"`
	Existing      *Score             `json:"existing"`
	Weekly        []LeaderboardEntry `json:"weekly"`
	Overall       []LeaderboardEntry `json:"overall"`
	CanClose      bool               `json:"can_close"`
}

type SessionResponse struct {
	Session SessionState `json:"session"`
}

type EndSessionResponse struct{}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func toCompetition(c domain.Competition) Competition {
	return Competition{ID: c.ID, Name: c.Name, IsActive: c.IsActive, CreatedAt: formatTime(c.CreatedAt)}
}

func toCompetitions(in []domain.Competition) []Competition {
	out := make([]Competition, 0, len(in))
	for _, c := range in {
		out = append(out, toCompetition(c))
	}
	return out
}

func toPlayer(p domain.Player) Player {
	return Player{ID: p.ID, Name: p.Name, CreatedAt: formatTime(p.CreatedAt)}
}

func toPlayers(in []domain.Player) []Player {
	out := make([]Player, 0, len(in))
	for _, p := range in {
		out = append(out, toPlayer(p))
	}
	return out
}

func toScore(s *domain.Score) *Score {
	if s == nil {
		return nil
	}
	trials := make([]int, domain.TrialCount)
	points := make([]int, domain.TrialCount)
	for i, v := range s.Trials {
		trials[i] = v
		points[i] = scoring.WeightedTrial(v, i)
	}
	return &Score{
		ID:            s.ID,
		CompetitionID: s.CompetitionID,
		PlayerID:      s.PlayerID,
		Week:          s.Week,
		Tour:          s.Tour,
		Trials:        trials,
		Points:        points,
		TotalScore:    s.TotalScore,
		CreatedAt:     formatTime(s.CreatedAt),
	}
}

func toEntries(in []domain.LeaderboardEntry) []LeaderboardEntry {
	out := make([]LeaderboardEntry, 0, len(in))
	for _, e := range in {
		out = append(out, LeaderboardEntry{
			Rank:       e.Rank,
			PlayerID:   e.PlayerID,
			PlayerName: e.PlayerName,
			TotalScore: e.TotalScore,
		})
	}
	return out
}

func toSessionState(st session.State) SessionState {
	return SessionState{
		ID:            st.ID,
		Competitions:  toCompetitions(st.Competitions),
		Players:       toPlayers(st.Players),
		CompetitionID: st.Selection.CompetitionID,
		PlayerID:      st.Selection.PlayerID,
		Week:          st.Selection.Week,
		Tour:          st.Selection.Tour,
		Existing:      toScore(st.Existing),
		Weekly:        toEntries(st.Weekly),
		Overall:       toEntries(st.Overall),
		CanClose:      st.CanClose,
	}
}
