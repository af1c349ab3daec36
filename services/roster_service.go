package services

import (
	"context"
	"fmt"

	"github.com/Dosada05/livescore/models"
	"github.com/Dosada05/livescore/scoring"
)

type RosterService interface {
	SetInitialRoster(ctx context.Context, gameID int, team1, team2 []int) (*MutationResult, error)
	// IsActive возвращает true для любого игрока матча, пока состав не задан. Игрок чужой
	// команды считается ошибкой, а не неактивным игроком.
	IsActive(ctx context.Context, gameID, playerID int) (bool, error)
}

type rosterService struct {
	store *GameStore
}

func NewRosterService(store *GameStore) RosterService {
	return &rosterService{store: store}
}

func (s *rosterService) SetInitialRoster(ctx context.Context, gameID int, team1, team2 []int) (*MutationResult, error) {
	return s.store.mutate(ctx, gameID, "set_roster", pure(func(g *scoring.Game) (*scoring.Effect, error) {
		return g.SetInitialRoster(team1, team2)
	}))
}

func (s *rosterService) IsActive(ctx context.Context, gameID, playerID int) (bool, error) {
	repos := s.store.repos
	state, err := repos.Games.GetByID(ctx, nil, gameID)
	if err != nil {
		return false, translateRepoError(err)
	}
	rows, err := repos.Rosters.List(ctx, nil, gameID)
	if err != nil {
		return false, fmt.Errorf("failed to load roster of game %d: %w", gameID, err)
	}
	players, err := repos.Players.ListByTeams(ctx, nil, []int{state.Team1ID, state.Team2ID})
	if err != nil {
		return false, fmt.Errorf("failed to load players of game %d: %w", gameID, err)
	}
	if !containsPlayer(players, playerID) {
		return false, s.store.explainPlayerError(ctx, nil, &scoring.PlayerNotInGameError{PlayerID: playerID})
	}
	return scoring.NewGame(state, scoring.NewRoster(false, rows), players, nil).IsActive(playerID), nil
}

func containsPlayer(players []models.Player, id int) bool {
	for _, p := range players {
		if p.ID == id {
			return true
		}
	}
	return false
}
