package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"scoreboard/internal/config"
	"scoreboard/internal/constants"
	"scoreboard/internal/domain"
	"scoreboard/internal/service"
)

const (
	mediaSingleObject = "application/vnd.pgrst.object+json"

	// codeNoRows is returned when a single-object request matches zero rows.
	codeNoRows = "PGRST116"
)

var errNoRows = errors.New("postgrest: no rows")

var _ service.Store = (*PostgRESTClient)(nil)

// PostgRESTClient stores scoreboard records in a Supabase/PostgREST schema
// with the same tables as the SQL migrations.
type PostgRESTClient struct {
	baseURL string
	apiKey  string
	client  *fasthttp.Client
	logger  zerolog.Logger
}

func NewPostgRESTClient(cfg *config.Config, logger zerolog.Logger) *PostgRESTClient {
	return newPostgRESTClient(cfg.PostgRESTURL, cfg.PostgRESTAPIKey, &fasthttp.Client{
		MaxConnsPerHost:     100,
		ReadTimeout:         constants.ExternalAPITimeout,
		WriteTimeout:        constants.ExternalAPITimeout,
		MaxIdleConnDuration: 1 * time.Minute,
	}, logger)
}

func newPostgRESTClient(baseURL, apiKey string, client *fasthttp.Client, logger zerolog.Logger) *PostgRESTClient {
	return &PostgRESTClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  client,
		logger:  logger.With().Str("component", "postgrest").Logger(),
	}
}

type apiError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (e *apiError) Error() string {
	return fmt.Sprintf("postgrest error %d (%s): %s", e.Status, e.Code, e.Message)
}

type request struct {
	method string
	path   string
	query  url.Values
	body   any
	single bool
	prefer string
}

func doRequest[T any](ctx context.Context, c *PostgRESTClient, r request) (*T, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	uri := c.baseURL + r.path
	if len(r.query) > 0 {
		uri += "?" + r.query.Encode()
	}
	req.SetRequestURI(uri)
	req.Header.SetMethod(r.method)
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if r.single {
		req.Header.Set("Accept", mediaSingleObject)
	} else {
		req.Header.Set("Accept", "application/json")
	}
	if r.prefer != "" {
		req.Header.Set("Prefer", r.prefer)
	}
	if r.body != nil {
		body, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		req.Header.SetContentType("application/json")
		req.SetBody(body)
	}

	deadline, ok := ctx.Deadline()
	if ok {
		if err := c.client.DoDeadline(req, resp, deadline); err != nil {
			return nil, err
		}
	} else {
		if err := c.client.DoTimeout(req, resp, constants.ExternalAPITimeout); err != nil {
			return nil, err
		}
	}

	status := resp.StatusCode()
	c.logger.Debug().
		Str("method", r.method).
		Str("path", r.path).
		Int("status", status).
		Msg("postgrest request")

	if status < 200 || status >= 300 {
		apiErr := &apiError{Status: status}
		_ = json.Unmarshal(resp.Body(), apiErr)
		if apiErr.Code == codeNoRows {
			return nil, errNoRows
		}
		return nil, apiErr
	}

	var result T
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to decode postgrest response: %w", err)
	}
	return &result, nil
}

type competitionJSON struct {
	ID        int64     `json:"id,omitempty"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func (c competitionJSON) toDomain() domain.Competition {
	return domain.Competition{ID: c.ID, Name: c.Name, IsActive: c.IsActive, CreatedAt: c.CreatedAt}
}

type playerJSON struct {
	ID        int64     `json:"id,omitempty"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func (p playerJSON) toDomain() domain.Player {
	return domain.Player{ID: p.ID, Name: p.Name, CreatedAt: p.CreatedAt}
}

type scoreJSON struct {
	ID            int64     `json:"id,omitempty"`
	CompetitionID int64     `json:"competition_id"`
	PlayerID      int64     `json:"player_id"`
	Week          int       `json:"week"`
	Tour          int       `json:"tour"`
	Trial1        int       `json:"trial1"`
	Trial2        int       `json:"trial2"`
	Trial3        int       `json:"trial3"`
	Trial4        int       `json:"trial4"`
	Trial5        int       `json:"trial5"`
	TotalScore    int       `json:"total_score"`
	CreatedAt     time.Time `json:"created_at,omitzero"`
}

func (s scoreJSON) toDomain() domain.Score {
	return domain.Score{
		ID: s.ID,
		ScoreKey: domain.ScoreKey{
			CompetitionID: s.CompetitionID,
			PlayerID:      s.PlayerID,
			Week:          s.Week,
			Tour:          s.Tour,
		},
		Trials:     [domain.TrialCount]int{s.Trial1, s.Trial2, s.Trial3, s.Trial4, s.Trial5},
		TotalScore: s.TotalScore,
		CreatedAt:  s.CreatedAt,
	}
}

type leaderboardJSON struct {
	ID         int64 `json:"id"`
	PlayerID   int64 `json:"player_id"`
	TotalScore int   `json:"total_score"`
	Players    *struct {
		Name string `json:"name"`
	} `json:"players"`
}

func eq(v any) string {
	return fmt.Sprintf("eq.%v", v)
}

func (c *PostgRESTClient) ListCompetitions(ctx context.Context) ([]domain.Competition, error) {
	rows, err := doRequest[[]competitionJSON](ctx, c, request{
		method: fasthttp.MethodGet,
		path:   "/competitions",
		query:  url.Values{"select": {"*"}, "order": {"created_at.desc,id.desc"}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list competitions: %w", err)
	}
	out := make([]domain.Competition, 0, len(*rows))
	for _, r := range *rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

func (c *PostgRESTClient) GetCompetition(ctx context.Context, id int64) (*domain.Competition, error) {
	row, err := doRequest[competitionJSON](ctx, c, request{
		method: fasthttp.MethodGet,
		path:   "/competitions",
		query:  url.Values{"select": {"*"}, "id": {eq(id)}},
		single: true,
	})
	if errors.Is(err, errNoRows) {
		return nil, domain.ErrCompetitionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get competition %d: %w", id, err)
	}
	competition := row.toDomain()
	return &competition, nil
}

func (c *PostgRESTClient) CreateCompetition(ctx context.Context, name string, isActive bool) (*domain.Competition, error) {
	row, err := doRequest[competitionJSON](ctx, c, request{
		method: fasthttp.MethodPost,
		path:   "/competitions",
		body:   competitionJSON{Name: name, IsActive: isActive, CreatedAt: time.Now().UTC()},
		single: true,
		prefer: "return=representation",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create competition: %w", err)
	}
	competition := row.toDomain()
	return &competition, nil
}

func (c *PostgRESTClient) CloseCompetition(ctx context.Context, id int64) error {
	rows, err := doRequest[[]competitionJSON](ctx, c, request{
		method: fasthttp.MethodPatch,
		path:   "/competitions",
		query:  url.Values{"id": {eq(id)}},
		body:   map[string]bool{"is_active": false},
		prefer: "return=representation",
	})
	if err != nil {
		return fmt.Errorf("failed to close competition %d: %w", id, err)
	}
	if len(*rows) == 0 {
		return domain.ErrCompetitionNotFound
	}
	return nil
}

func (c *PostgRESTClient) ListPlayers(ctx context.Context) ([]domain.Player, error) {
	rows, err := doRequest[[]playerJSON](ctx, c, request{
		method: fasthttp.MethodGet,
		path:   "/players",
		query:  url.Values{"select": {"*"}, "order": {"name.asc,id.asc"}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	out := make([]domain.Player, 0, len(*rows))
	for _, r := range *rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

func (c *PostgRESTClient) GetPlayer(ctx context.Context, id int64) (*domain.Player, error) {
	row, err := doRequest[playerJSON](ctx, c, request{
		method: fasthttp.MethodGet,
		path:   "/players",
		query:  url.Values{"select": {"*"}, "id": {eq(id)}},
		single: true,
	})
	if errors.Is(err, errNoRows) {
		return nil, domain.ErrPlayerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player %d: %w", id, err)
	}
	player := row.toDomain()
	return &player, nil
}

func (c *PostgRESTClient) CreatePlayer(ctx context.Context, name string) (*domain.Player, error) {
	row, err := doRequest[playerJSON](ctx, c, request{
		method: fasthttp.MethodPost,
		path:   "/players",
		body:   playerJSON{Name: name, CreatedAt: time.Now().UTC()},
		single: true,
		prefer: "return=representation",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create player: %w", err)
	}
	player := row.toDomain()
	return &player, nil
}

func scoreKeyQuery(key domain.ScoreKey) url.Values {
	return url.Values{
		"select":         {"*"},
		"competition_id": {eq(key.CompetitionID)},
		"player_id":      {eq(key.PlayerID)},
		"week":           {eq(key.Week)},
		"tour":           {eq(key.Tour)},
	}
}

func (c *PostgRESTClient) GetScore(ctx context.Context, key domain.ScoreKey) (*domain.Score, error) {
	row, err := doRequest[scoreJSON](ctx, c, request{
		method: fasthttp.MethodGet,
		path:   "/scores",
		query:  scoreKeyQuery(key),
		single: true,
	})
	if errors.Is(err, errNoRows) {
		return nil, domain.ErrScoreNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get score: %w", err)
	}
	score := row.toDomain()
	return &score, nil
}

func (c *PostgRESTClient) UpsertScore(ctx context.Context, score *domain.Score) error {
	score.Recalculate()

	// created_at is left to the column default so a merge keeps the original.
	body := scoreJSON{
		CompetitionID: score.CompetitionID,
		PlayerID:      score.PlayerID,
		Week:          score.Week,
		Tour:          score.Tour,
		Trial1:        score.Trials[0],
		Trial2:        score.Trials[1],
		Trial3:        score.Trials[2],
		Trial4:        score.Trials[3],
		Trial5:        score.Trials[4],
		TotalScore:    score.TotalScore,
	}
	row, err := doRequest[scoreJSON](ctx, c, request{
		method: fasthttp.MethodPost,
		path:   "/scores",
		query:  url.Values{"on_conflict": {"competition_id,player_id,week,tour"}},
		body:   body,
		single: true,
		prefer: "resolution=merge-duplicates,return=representation",
	})
	if err != nil {
		return fmt.Errorf("failed to upsert score: %w", err)
	}
	score.ID = row.ID
	score.CreatedAt = row.CreatedAt
	return nil
}

func (c *PostgRESTClient) ListLeaderboardScores(ctx context.Context, competitionID int64, week *int) ([]domain.ScoreRecord, error) {
	query := url.Values{
		"select":         {"id,player_id,total_score,players(name)"},
		"competition_id": {eq(competitionID)},
		"order":          {"id.asc"},
	}
	if week != nil {
		query.Set("week", eq(*week))
	}

	rows, err := doRequest[[]leaderboardJSON](ctx, c, request{
		method: fasthttp.MethodGet,
		path:   "/scores",
		query:  query,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list leaderboard scores: %w", err)
	}
	out := make([]domain.ScoreRecord, 0, len(*rows))
	for _, r := range *rows {
		record := domain.ScoreRecord{ScoreID: r.ID, PlayerID: r.PlayerID, TotalScore: r.TotalScore}
		if r.Players != nil {
			record.PlayerName = r.Players.Name
		}
		out = append(out, record)
	}
	return out, nil
}
