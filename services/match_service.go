package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/livescore/models"
	"github.com/Dosada05/livescore/repositories"
	"github.com/Dosada05/livescore/scoring"
	"github.com/Dosada05/livescore/storage"
)

const (
	DefaultRecentEvents = 10
	MaxRecentEvents     = 50
)

type TeamBoxScore struct {
	Team    *models.Team        `json:"team"`
	Players []models.PlayerStat `json:"players"`
}

type MatchDetail struct {
	Game      *models.Game       `json:"game"`
	Team1     TeamBoxScore       `json:"team1"`
	Team2     TeamBoxScore       `json:"team2"`
	Events    []models.GameEvent `json:"events"`
	Stoppages []models.Stoppage  `json:"stoppages"`
}

// BasketballLive отдает табло, которое опрашивают экраны у площадки.
type BasketballLive struct {
	GameID        int                `json:"game_id"`
	Status        models.GameStatus  `json:"status"`
	Quarter       int                `json:"quarter"`
	Team1Score    int                `json:"team1_score"`
	Team2Score    int                `json:"team2_score"`
	Team1Fouls    int                `json:"team1_quarter_fouls"`
	Team2Fouls    int                `json:"team2_quarter_fouls"`
	Team1Timeouts int                `json:"team1_timeouts"`
	Team2Timeouts int                `json:"team2_timeouts"`
	ClockStopped  bool               `json:"clock_stopped"`
	RecentEvents  []models.GameEvent `json:"recent_events"`
}

type MatchService interface {
	ListMatches(ctx context.Context, filter repositories.GameFilter) ([]*models.Game, error)
	MatchDetail(ctx context.Context, gameID int) (*MatchDetail, error)
	LiveUpdate(ctx context.Context, gameID int, lastN int) (*BasketballLive, error)
}

type matchService struct {
	repos   Repositories
	objects storage.ObjectStore
}

// NewMatchService создает сервис чтения. objects может быть nil, тогда логотипы не заполняются.
func NewMatchService(repos Repositories, objects storage.ObjectStore) MatchService {
	return &matchService{repos: repos, objects: objects}
}

func (s *matchService) ListMatches(ctx context.Context, filter repositories.GameFilter) ([]*models.Game, error) {
	games, err := s.repos.Games.List(ctx, nil, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMatchesListFailed, err)
	}
	if len(games) == 0 {
		return []*models.Game{}, nil
	}
	teams, err := s.repos.Teams.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: teams: %w", ErrMatchesListFailed, err)
	}
	byID := make(map[int]*models.Team, len(teams))
	for i := range teams {
		populateTeamLogoURL(&teams[i], s.objects)
		byID[teams[i].ID] = &teams[i]
	}
	for _, g := range games {
		g.Team1 = byID[g.Team1ID]
		g.Team2 = byID[g.Team2ID]
	}
	return games, nil
}

func (s *matchService) MatchDetail(ctx context.Context, gameID int) (*MatchDetail, error) {
	ctx, span := tracer.Start(ctx, "match.detail")
	defer span.End()

	game, err := s.repos.Games.GetByID(ctx, nil, gameID)
	if err != nil {
		return nil, translateRepoError(err)
	}

	var (
		teams  []models.Team
		stats  []models.PlayerStat
		events []models.GameEvent
	)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var errLoad error
		teams, errLoad = s.repos.Teams.ListByIDs(egCtx, nil, []int{game.Team1ID, game.Team2ID})
		return errLoad
	})
	eg.Go(func() error {
		var errLoad error
		stats, errLoad = s.repos.Stats.ListByGame(egCtx, nil, gameID)
		return errLoad
	})
	eg.Go(func() error {
		var errLoad error
		events, errLoad = s.repos.Events.ListByGame(egCtx, nil, gameID)
		return errLoad
	})
	if err = eg.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load detail of game %d: %w", gameID, err)
	}

	detail := &MatchDetail{
		Game:      game,
		Team1:     TeamBoxScore{Players: []models.PlayerStat{}},
		Team2:     TeamBoxScore{Players: []models.PlayerStat{}},
		Events:    events,
		Stoppages: scoring.PairStoppages(events),
	}
	if detail.Events == nil {
		detail.Events = []models.GameEvent{}
	}
	for i := range teams {
		t := &teams[i]
		populateTeamLogoURL(t, s.objects)
		switch t.ID {
		case game.Team1ID:
			detail.Team1.Team, game.Team1 = t, t
		case game.Team2ID:
			detail.Team2.Team, game.Team2 = t, t
		}
	}
	for _, st := range stats {
		if st.TeamID == game.Team1ID {
			detail.Team1.Players = append(detail.Team1.Players, st)
		} else {
			detail.Team2.Players = append(detail.Team2.Players, st)
		}
	}
	return detail, nil
}

func (s *matchService) LiveUpdate(ctx context.Context, gameID int, lastN int) (*BasketballLive, error) {
	switch {
	case lastN <= 0:
		lastN = DefaultRecentEvents
	case lastN > MaxRecentEvents:
		lastN = MaxRecentEvents
	}

	game, err := s.repos.Games.GetByID(ctx, nil, gameID)
	if err != nil {
		return nil, translateRepoError(err)
	}
	b := game.Basketball
	if game.Sport != models.SportBasketball || b == nil {
		return nil, scoring.ErrUnsupportedSport
	}
	recent, err := s.repos.Events.ListRecent(ctx, nil, gameID, lastN)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent events of game %d: %w", gameID, err)
	}
	if recent == nil {
		recent = []models.GameEvent{}
	}
	return &BasketballLive{
		GameID:        game.ID,
		Status:        game.Status,
		Quarter:       b.CurrentQuarter,
		Team1Score:    game.Team1Score,
		Team2Score:    game.Team2Score,
		Team1Fouls:    b.Team1QuarterFouls,
		Team2Fouls:    b.Team2QuarterFouls,
		Team1Timeouts: b.Team1Timeouts,
		Team2Timeouts: b.Team2Timeouts,
		ClockStopped:  b.ClockStopped,
		RecentEvents:  recent,
	}, nil
}

func populateTeamLogoURL(team *models.Team, objects storage.ObjectStore) {
	if team == nil || team.LogoKey == nil || *team.LogoKey == "" || objects == nil {
		return
	}
	if url := objects.PublicURL(*team.LogoKey); url != "" {
		team.LogoURL = &url
	}
}
