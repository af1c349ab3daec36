package services

import (
	"context"
	"errors"
	"testing"

	"github.com/Dosada05/livescore/models"
	"github.com/Dosada05/livescore/scoring"
)

func TestIsActiveBeforeRosterIsSet(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.liveGame(t, models.SportBasketball)

	for _, p := range []int{11, 17, 21, 27} {
		active, err := env.rosters.IsActive(ctx, id, p)
		if err != nil {
			t.Fatal(err)
		}
		if !active {
			t.Errorf("player %d inactive before any roster was set", p)
		}
	}
	if _, err := env.recorder.RecordShot(ctx, id, scoring.ShotInput{PlayerID: 17, ShotType: models.ShotTwo, Result: models.ShotMade}); err != nil {
		t.Errorf("shot without roster: %v", err)
	}
}

func TestIsActiveRejectsPlayersOutsideTheGame(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.liveGame(t, models.SportBasketball)

	tests := []struct {
		name     string
		playerID int
		want     error
	}{
		{"unknown player", 999, scoring.ErrPlayerNotFound},
		{"player of a third team", 31, scoring.ErrPlayerNotInGame},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			active, err := env.rosters.IsActive(ctx, id, tc.playerID)
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
			if active {
				t.Error("active = true for a player outside the game")
			}
		})
	}

	if _, err := env.rosters.IsActive(ctx, 4242, 11); !errors.Is(err, scoring.ErrGameNotFound) {
		t.Errorf("missing game: err = %v, want ErrGameNotFound", err)
	}
}

func TestSetInitialRosterValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.liveGame(t, models.SportBasketball)

	tests := []struct {
		name         string
		team1, team2 []int
		want         error
	}{
		{"four players", alphaPlayers[:4], bravoPlayers[:5], scoring.ErrInvalidRosterSize},
		{"duplicate", []int{11, 11, 12, 13, 14}, bravoPlayers[:5], scoring.ErrInvalidRosterSize},
		{"wrong team", []int{11, 12, 13, 14, 21}, bravoPlayers[1:6], scoring.ErrPlayerTeamMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := env.rosters.SetInitialRoster(ctx, id, tt.team1, tt.team2); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
	if g := env.db.game(id); g.Basketball.RosterInitialized {
		t.Error("rejected rosters marked the game initialized")
	}
}

func TestSubstitutionKeepsRosterSize(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.liveGame(t, models.SportBasketball)
	env.withRoster(t, id)

	if _, err := env.recorder.RecordSubstitution(ctx, id, scoring.SubstitutionInput{TeamID: 1, PlayerOutID: 11, PlayerInID: 16}); err != nil {
		t.Fatalf("RecordSubstitution: %v", err)
	}
	if _, err := env.recorder.RecordSubstitution(ctx, id, scoring.SubstitutionInput{TeamID: 1, PlayerOutID: 11, PlayerInID: 17}); !errors.Is(err, scoring.ErrPlayerNotActive) {
		t.Errorf("benched player subbed out: err = %v", err)
	}

	perTeam := make(map[int]int)
	for _, row := range env.db.roster[id] {
		perTeam[row.TeamID]++
	}
	if perTeam[1] != scoring.RosterSize || perTeam[2] != scoring.RosterSize {
		t.Errorf("roster sizes = %v", perTeam)
	}
	if ok, _ := env.rosters.IsActive(ctx, id, 16); !ok {
		t.Error("incoming player is not active")
	}
	if ok, _ := env.rosters.IsActive(ctx, id, 11); ok {
		t.Error("outgoing player is still active")
	}
	if _, err := env.recorder.RecordShot(ctx, id, scoring.ShotInput{PlayerID: 11, ShotType: models.ShotTwo, Result: models.ShotMade}); !errors.Is(err, scoring.ErrNotActivePlayer) {
		t.Errorf("benched player shot: err = %v", err)
	}
}
