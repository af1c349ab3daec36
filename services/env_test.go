package services

import (
	"context"
	"testing"

	"github.com/Dosada05/livescore/models"
)

var (
	alphaPlayers = []int{11, 12, 13, 14, 15, 16, 17}
	bravoPlayers = []int{21, 22, 23, 24, 25, 26, 27}
)

type testEnv struct {
	db        *memDB
	pub       *recordingPublisher
	objects   *memObjects
	store     *GameStore
	recorder  RecorderService
	rosters   RosterService
	undo      UndoService
	lifecycle LifecycleService
	matches   MatchService
	standings StandingsService
	archiver  *BoxScoreArchiver
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newMemDB()
	db.addTeam(1, "Alpha", alphaPlayers...)
	db.addTeam(2, "Bravo", bravoPlayers...)
	db.addTeam(3, "Charlie", 31, 32, 33, 34, 35)

	repos := Repositories{
		Tx:      memTx{db},
		Games:   memGames{db},
		Teams:   memTeams{db},
		Players: memPlayers{db},
		Stats:   memStats{db},
		Events:  memEvents{db},
		Rosters: memRosters{db},
	}
	pub := &recordingPublisher{}
	objects := &memObjects{}
	logger := discardLogger()
	store := NewGameStore(repos, pub, logger)
	matches := NewMatchService(repos, objects)
	archiver := NewBoxScoreArchiver(objects, matches, logger)

	return &testEnv{
		db:        db,
		pub:       pub,
		objects:   objects,
		store:     store,
		recorder:  NewRecorderService(store),
		rosters:   NewRosterService(store),
		undo:      NewUndoService(store),
		lifecycle: NewLifecycleService(store, archiver, logger),
		matches:   matches,
		standings: NewStandingsService(repos, objects),
		archiver:  archiver,
	}
}

// liveGame создает матч Alpha против Bravo и запускает его.
func (e *testEnv) liveGame(t *testing.T, sport models.Sport) int {
	t.Helper()
	ctx := context.Background()
	g, err := e.lifecycle.CreateGame(ctx, CreateGameInput{Sport: sport, Team1ID: 1, Team2ID: 2})
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	if _, err = e.lifecycle.Start(ctx, g.ID); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return g.ID
}

func (e *testEnv) withRoster(t *testing.T, gameID int) {
	t.Helper()
	if _, err := e.rosters.SetInitialRoster(context.Background(), gameID, alphaPlayers[:5], bravoPlayers[:5]); err != nil {
		t.Fatalf("SetInitialRoster: %v", err)
	}
}

func intp(v int) *int { return &v }
