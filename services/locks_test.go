package services

import (
	"context"
	"sync"
	"testing"

	"github.com/Dosada05/livescore/models"
	"github.com/Dosada05/livescore/scoring"
)

func TestGameLocksSerializeAndRelease(t *testing.T) {
	locks := newGameLocks()
	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.lock(7)
			defer unlock()
			v := counter
			counter = v + 1
		}()
	}
	wg.Wait()
	if counter != 50 {
		t.Errorf("counter = %d, want 50", counter)
	}
	if n := locks.size(); n != 0 {
		t.Errorf("%d lock entries left", n)
	}
}

func TestConcurrentMutationsOfOneGame(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.liveGame(t, models.SportBasketball)
	startVersion := env.db.game(id).Version

	const writers = 25
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			player := alphaPlayers[i%len(alphaPlayers)]
			_, err := env.recorder.RecordShot(ctx, id, scoring.ShotInput{PlayerID: player, ShotType: models.ShotTwo, Result: models.ShotMade})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent shot: %v", err)
		}
	}

	g := env.db.game(id)
	if g.Team1Score != 2*writers {
		t.Errorf("score = %d, want %d", g.Team1Score, 2*writers)
	}
	if g.Version != startVersion+writers {
		t.Errorf("version = %d, want %d", g.Version, startVersion+writers)
	}
	total := 0
	for _, p := range alphaPlayers {
		total += env.db.stat(id, p).Points
	}
	if total != g.Team1Score {
		t.Errorf("player points %d do not add up to team score %d", total, g.Team1Score)
	}
}
