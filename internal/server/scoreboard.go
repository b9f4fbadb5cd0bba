package server

import (
	"context"

	"connectrpc.com/connect"

	"scoreboard/internal/domain"
	"scoreboard/internal/service"
)

type ScoreboardServer struct {
	competitionSvc *service.CompetitionService
	playerSvc      *service.PlayerService
	scoreSvc       *service.ScoreService
	leaderboardSvc *service.LeaderboardService
}

func NewScoreboardServer(
	competitionSvc *service.CompetitionService,
	playerSvc *service.PlayerService,
	scoreSvc *service.ScoreService,
	leaderboardSvc *service.LeaderboardService,
) *ScoreboardServer {
	return &ScoreboardServer{
		competitionSvc: competitionSvc,
		playerSvc:      playerSvc,
		scoreSvc:       scoreSvc,
		leaderboardSvc: leaderboardSvc,
	}
}

func (s *ScoreboardServer) ListCompetitions(ctx context.Context, _ *connect.Request[ListCompetitionsRequest]) (*connect.Response[ListCompetitionsResponse], error) {
	competitions, err := s.competitionSvc.List(ctx)
	if err != nil {
		return nil, toConnectError(ctx, ListCompetitionsProcedure, err)
	}
	return connect.NewResponse(&ListCompetitionsResponse{Competitions: toCompetitions(competitions)}), nil
}

func (s *ScoreboardServer) CreateCompetition(ctx context.Context, req *connect.Request[CreateCompetitionRequest]) (*connect.Response[CompetitionResponse], error) {
	competition, err := s.competitionSvc.Create(ctx, req.Msg.Name)
	if err != nil {
		return nil, toConnectError(ctx, CreateCompetitionProcedure, err)
	}
	return connect.NewResponse(&CompetitionResponse{Competition: toCompetition(*competition)}), nil
}

func (s *ScoreboardServer) CloseCompetition(ctx context.Context, req *connect.Request[CloseCompetitionRequest]) (*connect.Response[CompetitionResponse], error) {
	competition, err := s.competitionSvc.Close(ctx, req.Msg.ID)
	if err != nil {
		return nil, toConnectError(ctx, CloseCompetitionProcedure, err)
	}
	return connect.NewResponse(&CompetitionResponse{Competition: toCompetition(*competition)}), nil
}

func (s *ScoreboardServer) ListPlayers(ctx context.Context, _ *connect.Request[ListPlayersRequest]) (*connect.Response[ListPlayersResponse], error) {
	players, err := s.playerSvc.List(ctx)
	if err != nil {
		return nil, toConnectError(ctx, ListPlayersProcedure, err)
	}
	return connect.NewResponse(&ListPlayersResponse{Players: toPlayers(players)}), nil
}

func (s *ScoreboardServer) CreatePlayer(ctx context.Context, req *connect.Request[CreatePlayerRequest]) (*connect.Response[PlayerResponse], error) {
	player, err := s.playerSvc.Create(ctx, req.Msg.Name)
	if err != nil {
		return nil, toConnectError(ctx, CreatePlayerProcedure, err)
	}
	return connect.NewResponse(&PlayerResponse{Player: toPlayer(*player)}), nil
}

func (s *ScoreboardServer) GetScore(ctx context.Context, req *connect.Request[GetScoreRequest]) (*connect.Response[ScoreResponse], error) {
	score, err := s.scoreSvc.Get(ctx, domain.ScoreKey{
		CompetitionID: req.Msg.CompetitionID,
		PlayerID:      req.Msg.PlayerID,
		Week:          req.Msg.Week,
		Tour:          req.Msg.Tour,
	})
	if err != nil {
		return nil, toConnectError(ctx, GetScoreProcedure, err)
	}
	return connect.NewResponse(&ScoreResponse{Score: toScore(score)}), nil
}

func (s *ScoreboardServer) SaveScore(ctx context.Context, req *connect.Request[SaveScoreRequest]) (*connect.Response[ScoreResponse], error) {
	key := domain.ScoreKey{
		CompetitionID: req.Msg.CompetitionID,
		PlayerID:      req.Msg.PlayerID,
		Week:          req.Msg.Week,
		Tour:          req.Msg.Tour,
	}
	score, err := s.scoreSvc.Save(ctx, key, trialValues(req.Msg.Trials))
	if err != nil {
		return nil, toConnectError(ctx, SaveScoreProcedure, err)
	}
	return connect.NewResponse(&ScoreResponse{Score: toScore(score)}), nil
}

func (s *ScoreboardServer) GetLeaderboards(ctx context.Context, req *connect.Request[GetLeaderboardsRequest]) (*connect.Response[GetLeaderboardsResponse], error) {
	boards, err := s.leaderboardSvc.Both(ctx, req.Msg.CompetitionID, req.Msg.Week)
	if err != nil {
		return nil, toConnectError(ctx, GetLeaderboardsProcedure, err)
	}
	return connect.NewResponse(&GetLeaderboardsResponse{
		Week:    boards.Week,
		Weekly:  toEntries(boards.Weekly),
		Overall: toEntries(boards.Overall),
	}), nil
}
