package session

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"scoreboard/internal/domain"
)

// Selection is what the operator currently has picked in the form.
// Zero ids mean nothing is selected.
type Selection struct {
	CompetitionID int64
	PlayerID      int64
	Week          int
	Tour          int
}

func (s Selection) validate() error {
	return domain.ScoreKey{Week: s.Week, Tour: s.Tour}.Validate()
}

func (s Selection) key() domain.ScoreKey {
	return domain.ScoreKey{CompetitionID: s.CompetitionID, PlayerID: s.PlayerID, Week: s.Week, Tour: s.Tour}
}

// State is a point-in-time copy of a session's form.
type State struct {
	ID           string
	Competitions []domain.Competition
	Players      []domain.Player
	Selection    Selection
	Existing     *domain.Score // nil when nothing is stored for the selection
	Weekly       []domain.LeaderboardEntry
	Overall      []domain.LeaderboardEntry
	CanClose     bool
}

// Session holds one operator's form. Every mutation either commits a fully
// refreshed state or leaves the previous one in place and returns an error.
type Session struct {
	mu     sync.Mutex
	deps   Deps
	logger zerolog.Logger
	state  State

	lastUsed time.Time // guarded by the owning Manager's mutex
}

func New(id string, deps Deps, logger zerolog.Logger) *Session {
	return &Session{
		deps:   deps,
		logger: logger.With().Str("session_id", id).Logger(),
		state: State{
			ID:        id,
			Selection: Selection{Week: domain.MinWeek, Tour: domain.MinTour},
		},
	}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Session) snapshot() State {
	st := s.state
	st.Competitions = slices.Clone(s.state.Competitions)
	st.Players = slices.Clone(s.state.Players)
	st.Weekly = slices.Clone(s.state.Weekly)
	st.Overall = slices.Clone(s.state.Overall)
	if s.state.Existing != nil {
		existing := *s.state.Existing
		st.Existing = &existing
	}
	st.CanClose = s.canClose()
	return st
}

// Load fetches the competition and player lists.
func (s *Session) Load(ctx context.Context) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		competitions []domain.Competition
		players      []domain.Player
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		competitions, err = s.deps.Competitions.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		players, err = s.deps.Players.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to load session lists")
		return s.snapshot(), fmt.Errorf("failed to load: %w", err)
	}

	s.state.Competitions = competitions
	s.state.Players = players
	return s.snapshot(), nil
}

func (s *Session) SelectCompetition(ctx context.Context, id int64) (State, error) {
	return s.Select(ctx, func(sel *Selection) { sel.CompetitionID = id })
}

func (s *Session) SelectPlayer(ctx context.Context, id int64) (State, error) {
	return s.Select(ctx, func(sel *Selection) { sel.PlayerID = id })
}

func (s *Session) SelectWeek(ctx context.Context, week int) (State, error) {
	return s.Select(ctx, func(sel *Selection) { sel.Week = week })
}

func (s *Session) SelectTour(ctx context.Context, tour int) (State, error) {
	return s.Select(ctx, func(sel *Selection) { sel.Tour = tour })
}

// Select applies change to the current selection and refreshes the existing
// score and leaderboards for the result.
func (s *Session) Select(ctx context.Context, change func(*Selection)) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Selection
	change(&next)
	if err := s.apply(ctx, next); err != nil {
		return s.snapshot(), err
	}
	return s.snapshot(), nil
}

func (s *Session) apply(ctx context.Context, sel Selection) error {
	if err := sel.validate(); err != nil {
		return err
	}
	if sel.CompetitionID != 0 && s.competition(sel.CompetitionID) == nil {
		return domain.ErrCompetitionNotFound
	}
	if sel.PlayerID != 0 && !slices.ContainsFunc(s.state.Players, func(p domain.Player) bool { return p.ID == sel.PlayerID }) {
		return domain.ErrPlayerNotFound
	}

	var existing *domain.Score
	if sel.CompetitionID != 0 && sel.PlayerID != 0 {
		score, err := s.deps.Scores.Get(ctx, sel.key())
		if err != nil {
			return fmt.Errorf("failed to load existing score: %w", err)
		}
		existing = score
	}

	var boards *domain.Leaderboards
	if sel.CompetitionID != 0 {
		b, err := s.deps.Leaderboards.Both(ctx, sel.CompetitionID, sel.Week)
		if err != nil {
			return fmt.Errorf("failed to load leaderboards: %w", err)
		}
		boards = b
	}

	s.state.Selection = sel
	s.state.Existing = existing
	if boards != nil {
		s.state.Weekly, s.state.Overall = boards.Weekly, boards.Overall
	} else {
		s.state.Weekly, s.state.Overall = nil, nil
	}
	return nil
}

func (s *Session) competition(id int64) *domain.Competition {
	for i := range s.state.Competitions {
		if s.state.Competitions[i].ID == id {
			return &s.state.Competitions[i]
		}
	}
	return nil
}

// CreateCompetition creates an active competition, lists it first and selects
// it. If the selection cannot be refreshed the form is left as it was; the
// competition still exists and shows up on the next Load.
func (s *Session) CreateCompetition(ctx context.Context, name string) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.deps.Competitions.Create(ctx, name)
	if err != nil {
		return s.snapshot(), err
	}
	prev := s.state.Competitions
	s.state.Competitions = slices.Insert(slices.Clone(prev), 0, *c)

	next := s.state.Selection
	next.CompetitionID = c.ID
	if err := s.apply(ctx, next); err != nil {
		s.state.Competitions = prev
		return s.snapshot(), err
	}
	return s.snapshot(), nil
}

// AddPlayer creates a player, appends it to the list and selects it. Like
// CreateCompetition, a failed refresh leaves the form unchanged.
func (s *Session) AddPlayer(ctx context.Context, name string) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.deps.Players.Create(ctx, name)
	if err != nil {
		return s.snapshot(), err
	}
	prev := s.state.Players
	s.state.Players = append(slices.Clone(prev), *p)

	next := s.state.Selection
	next.PlayerID = p.ID
	if err := s.apply(ctx, next); err != nil {
		s.state.Players = prev
		return s.snapshot(), err
	}
	return s.snapshot(), nil
}

// SaveTrials stores trials for the current selection and refreshes the
// leaderboards.
func (s *Session) SaveTrials(ctx context.Context, trials []int) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sel := s.state.Selection
	if sel.CompetitionID == 0 {
		return s.snapshot(), ErrNoCompetitionSelected
	}
	if sel.PlayerID == 0 {
		return s.snapshot(), ErrNoPlayerSelected
	}

	score, err := s.deps.Scores.Save(ctx, sel.key(), trials)
	if err != nil {
		return s.snapshot(), err
	}
	s.state.Existing = score

	if err := s.apply(ctx, sel); err != nil {
		return s.snapshot(), err
	}
	return s.snapshot(), nil
}

func (s *Session) canClose() bool {
	if s.state.Selection.Week != domain.MaxWeek || s.state.Selection.CompetitionID == 0 {
		return false
	}
	c := s.competition(s.state.Selection.CompetitionID)
	return c != nil && c.IsActive
}

// CloseCompetition closes the selected competition. It is offered only in the
// closing week of an active competition and must be confirmed.
func (s *Session) CloseCompetition(ctx context.Context, confirm bool) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.canClose() {
		return s.snapshot(), ErrCloseUnavailable
	}
	if !confirm {
		return s.snapshot(), ErrConfirmationRequired
	}

	id := s.state.Selection.CompetitionID
	if _, err := s.deps.Competitions.Close(ctx, id); err != nil {
		return s.snapshot(), err
	}
	s.competition(id).IsActive = false
	s.logger.Info().Int64("competition_id", id).Msg("competition closed from session")

	competitions, err := s.deps.Competitions.List(ctx)
	if err != nil {
		return s.snapshot(), fmt.Errorf("failed to reload competitions: %w", err)
	}
	s.state.Competitions = competitions
	return s.snapshot(), nil
}
