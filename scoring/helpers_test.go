package scoring

import (
	"testing"
	"time"

	"github.com/Dosada05/livescore/models"
)

var fixedNow = time.Date(2026, 3, 14, 19, 30, 0, 0, time.UTC)

const (
	team1 = 10
	team2 = 20
)

// players: 101..107 play for team1, 201..207 for team2.
func testPlayers() []models.Player {
	var ps []models.Player
	for i := 1; i <= 7; i++ {
		ps = append(ps, models.Player{ID: 100 + i, Name: "home", TeamID: team1})
		ps = append(ps, models.Player{ID: 200 + i, Name: "away", TeamID: team2})
	}
	return ps
}

func newTestGame(t *testing.T, sport models.Sport, status models.GameStatus) *Game {
	t.Helper()
	state, err := NewGameState(sport, team1, team2)
	if err != nil {
		t.Fatalf("NewGameState: %v", err)
	}
	state.ID = 1
	state.Status = status
	return NewGame(state, nil, testPlayers(), func() time.Time { return fixedNow })
}

func liveBasketballWithRoster(t *testing.T) *Game {
	t.Helper()
	g := newTestGame(t, models.SportBasketball, models.GameStatusLive)
	if _, err := g.SetInitialRoster([]int{101, 102, 103, 104, 105}, []int{201, 202, 203, 204, 205}); err != nil {
		t.Fatalf("SetInitialRoster: %v", err)
	}
	return g
}

// logged returns the single appended event of eff with an id assigned, as the store would.
func logged(t *testing.T, eff *Effect, id int64) *models.GameEvent {
	t.Helper()
	if eff == nil || len(eff.Events) != 1 {
		t.Fatalf("expected exactly one appended event, got %+v", eff)
	}
	ev := *eff.Events[0]
	ev.ID = id
	return &ev
}
