package server

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
)

const (
	ScoreboardServiceName = "scoreboard.v1.ScoreboardService"
	SessionServiceName    = "scoreboard.v1.SessionService"
)

const (
	ListCompetitionsProcedure  = "/" + ScoreboardServiceName + "/ListCompetitions"
	CreateCompetitionProcedure = "/" + ScoreboardServiceName + "/CreateCompetition"
	CloseCompetitionProcedure  = "/" + ScoreboardServiceName + "/CloseCompetition"
	ListPlayersProcedure       = "/" + ScoreboardServiceName + "/ListPlayers"
	CreatePlayerProcedure      = "/" + ScoreboardServiceName + "/CreatePlayer"
	GetScoreProcedure          = "/" + ScoreboardServiceName + "/GetScore"
	SaveScoreProcedure         = "/" + ScoreboardServiceName + "/SaveScore"
	GetLeaderboardsProcedure   = "/" + ScoreboardServiceName + "/GetLeaderboards"

	OpenSessionProcedure              = "/" + SessionServiceName + "/OpenSession"
	GetSessionProcedure               = "/" + SessionServiceName + "/GetSession"
	ReloadSessionProcedure            = "/" + SessionServiceName + "/ReloadSession"
	UpdateSelectionProcedure          = "/" + SessionServiceName + "/UpdateSelection"
	SessionCreateCompetitionProcedure = "/" + SessionServiceName + "/CreateCompetition"
	AddPlayerProcedure                = "/" + SessionServiceName + "/AddPlayer"
	SaveTrialsProcedure               = "/" + SessionServiceName + "/SaveTrials"
	SessionCloseCompetitionProcedure  = "/" + SessionServiceName + "/CloseCompetition"
	EndSessionProcedure               = "/" + SessionServiceName + "/EndSession"
)

type routes map[string]http.Handler

func unary[Req, Res any](r routes, procedure string, fn func(context.Context, *connect.Request[Req]) (*connect.Response[Res], error), opts []connect.HandlerOption) {
	r[procedure] = connect.NewUnaryHandler(procedure, fn, opts...)
}

func (r routes) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if h, ok := r[req.URL.Path]; ok {
		h.ServeHTTP(w, req)
		return
	}
	http.NotFound(w, req)
}

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(Codec)}, opts...)
}

// NewScoreboardServiceHandler returns the mount path and handler for the
// scoreboard RPCs.
func NewScoreboardServiceHandler(s *ScoreboardServer, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	r := routes{}
	unary(r, ListCompetitionsProcedure, s.ListCompetitions, opts)
	unary(r, CreateCompetitionProcedure, s.CreateCompetition, opts)
	unary(r, CloseCompetitionProcedure, s.CloseCompetition, opts)
	unary(r, ListPlayersProcedure, s.ListPlayers, opts)
	unary(r, CreatePlayerProcedure, s.CreatePlayer, opts)
	unary(r, GetScoreProcedure, s.GetScore, opts)
	unary(r, SaveScoreProcedure, s.SaveScore, opts)
	unary(r, GetLeaderboardsProcedure, s.GetLeaderboards, opts)
	return "/" + ScoreboardServiceName + "/", r
}

// NewSessionServiceHandler returns the mount path and handler for the form
// session RPCs.
func NewSessionServiceHandler(s *SessionServer, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	r := routes{}
	unary(r, OpenSessionProcedure, s.OpenSession, opts)
	unary(r, GetSessionProcedure, s.GetSession, opts)
	unary(r, ReloadSessionProcedure, s.ReloadSession, opts)
	unary(r, UpdateSelectionProcedure, s.UpdateSelection, opts)
	unary(r, SessionCreateCompetitionProcedure, s.CreateCompetition, opts)
	unary(r, AddPlayerProcedure, s.AddPlayer, opts)
	unary(r, SaveTrialsProcedure, s.SaveTrials, opts)
	unary(r, SessionCloseCompetitionProcedure, s.CloseCompetition, opts)
	unary(r, EndSessionProcedure, s.EndSession, opts)
	return "/" + SessionServiceName + "/", r
}
