package services

import (
	"context"
	"fmt"

	"github.com/Dosada05/livescore/models"
	"github.com/Dosada05/livescore/repositories"
	"github.com/Dosada05/livescore/scoring"
	"github.com/Dosada05/livescore/storage"
)

type StandingsService interface {
	// Standings строит таблицу всех команд по завершенным матчам, опционально по одному виду спорта.
	Standings(ctx context.Context, sport *models.Sport) ([]models.TeamStanding, error)
	PlayerLeaderboard(ctx context.Context) ([]models.PlayerLeader, error)
}

type standingsService struct {
	repos   Repositories
	objects storage.ObjectStore
}

func NewStandingsService(repos Repositories, objects storage.ObjectStore) StandingsService {
	return &standingsService{repos: repos, objects: objects}
}

func (s *standingsService) Standings(ctx context.Context, sport *models.Sport) ([]models.TeamStanding, error) {
	if sport != nil && !sport.Valid() {
		return nil, scoring.ErrInvalidSport
	}
	teams, err := s.repos.Teams.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStandingsFailed, err)
	}
	finished := models.GameStatusFinished
	games, err := s.repos.Games.List(ctx, nil, repositories.GameFilter{Status: &finished, Sport: sport})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStandingsFailed, err)
	}

	for i := range teams {
		populateTeamLogoURL(&teams[i], s.objects)
	}
	flat := make([]models.Game, len(games))
	for i, g := range games {
		flat[i] = *g
	}
	return scoring.ComputeStandings(teams, flat), nil
}

func (s *standingsService) PlayerLeaderboard(ctx context.Context) ([]models.PlayerLeader, error) {
	shots, err := s.repos.Events.ListShots(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLeaderboardFailed, err)
	}
	return scoring.ComputeLeaderboard(shots), nil
}
