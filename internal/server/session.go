package server

import (
	"context"

	"connectrpc.com/connect"

	"scoreboard/internal/session"
)

type SessionServer struct {
	sessions *session.Manager
}

func NewSessionServer(sessions *session.Manager) *SessionServer {
	return &SessionServer{sessions: sessions}
}

// respond wraps a session operation: it looks up the session, runs fn and
// maps the result.
func (s *SessionServer) respond(ctx context.Context, procedure, id string, fn func(*session.Session) (session.State, error)) (*connect.Response[SessionResponse], error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return nil, toConnectError(ctx, procedure, err)
	}
	st, err := fn(sess)
	if err != nil {
		return nil, toConnectError(ctx, procedure, err)
	}
	return connect.NewResponse(&SessionResponse{Session: toSessionState(st)}), nil
}

func (s *SessionServer) OpenSession(ctx context.Context, _ *connect.Request[OpenSessionRequest]) (*connect.Response[SessionResponse], error) {
	sess, err := s.sessions.Open(ctx)
	if err != nil {
		return nil, toConnectError(ctx, OpenSessionProcedure, err)
	}
	return connect.NewResponse(&SessionResponse{Session: toSessionState(sess.State())}), nil
}

func (s *SessionServer) GetSession(ctx context.Context, req *connect.Request[SessionRequest]) (*connect.Response[SessionResponse], error) {
	return s.respond(ctx, GetSessionProcedure, req.Msg.SessionID, func(sess *session.Session) (session.State, error) {
		return sess.State(), nil
	})
}

// ReloadSession re-reads the competition and player lists so records created
// elsewhere become selectable.
func (s *SessionServer) ReloadSession(ctx context.Context, req *connect.Request[SessionRequest]) (*connect.Response[SessionResponse], error) {
	return s.respond(ctx, ReloadSessionProcedure, req.Msg.SessionID, func(sess *session.Session) (session.State, error) {
		return sess.Load(ctx)
	})
}

func (s *SessionServer) UpdateSelection(ctx context.Context, req *connect.Request[UpdateSelectionRequest]) (*connect.Response[SessionResponse], error) {
	msg := req.Msg
	return s.respond(ctx, UpdateSelectionProcedure, msg.SessionID, func(sess *session.Session) (session.State, error) {
		return sess.Select(ctx, func(sel *session.Selection) {
			if msg.CompetitionID != nil {
				sel.CompetitionID = *msg.CompetitionID
			}
			if msg.PlayerID != nil {
				sel.PlayerID = *msg.PlayerID
			}
			if msg.Week != nil {
				sel.Week = *msg.Week
			}
			if msg.Tour != nil {
				sel.Tour = *msg.Tour
			}
		})
	})
}

func (s *SessionServer) CreateCompetition(ctx context.Context, req *connect.Request[SessionCreateCompetitionRequest]) (*connect.Response[SessionResponse], error) {
	return s.respond(ctx, SessionCreateCompetitionProcedure, req.Msg.SessionID, func(sess *session.Session) (session.State, error) {
		return sess.CreateCompetition(ctx, req.Msg.Name)
	})
}

func (s *SessionServer) AddPlayer(ctx context.Context, req *connect.Request[AddPlayerRequest]) (*connect.Response[SessionResponse], error) {
	return s.respond(ctx, AddPlayerProcedure, req.Msg.SessionID, func(sess *session.Session) (session.State, error) {
		return sess.AddPlayer(ctx, req.Msg.Name)
	})
}

func (s *SessionServer) SaveTrials(ctx context.Context, req *connect.Request[SaveTrialsRequest]) (*connect.Response[SessionResponse], error) {
	return s.respond(ctx, SaveTrialsProcedure, req.Msg.SessionID, func(sess *session.Session) (session.State, error) {
		return sess.SaveTrials(ctx, trialValues(req.Msg.Trials))
	})
}

func (s *SessionServer) CloseCompetition(ctx context.Context, req *connect.Request[SessionCloseCompetitionRequest]) (*connect.Response[SessionResponse], error) {
	return s.respond(ctx, SessionCloseCompetitionProcedure, req.Msg.SessionID, func(sess *session.Session) (session.State, error) {
		return sess.CloseCompetition(ctx, req.Msg.Confirm)
	})
}

func (s *SessionServer) EndSession(ctx context.Context, req *connect.Request[SessionRequest]) (*connect.Response[EndSessionResponse], error) {
	if err := s.sessions.End(req.Msg.SessionID); err != nil {
		return nil, toConnectError(ctx, EndSessionProcedure, err)
	}
	return connect.NewResponse(&EndSessionResponse{}), nil
}
