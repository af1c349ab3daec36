package fixtures

import (
	"errors"
	"testing"
	"time"
)

type pair struct{ a, b int }

func key(a, b int) pair {
	if a > b {
		a, b = b, a
	}
	return pair{a, b}
}

func TestGenerateRoundRobin(t *testing.T) {
	start := time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC)
	tests := []struct {
		name       string
		teams      []int
		legs       int
		wantGames  int
		wantRounds int
	}{
		{"four teams", []int{1, 2, 3, 4}, 1, 6, 3},
		{"five teams with rest", []int{1, 2, 3, 4, 5}, 1, 10, 5},
		{"home and away", []int{1, 2, 3, 4}, 2, 12, 6},
		{"two teams", []int{8, 9}, 1, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GenerateRoundRobin(RoundRobinParams{TeamIDs: tt.teams, Legs: tt.legs, FirstAt: start, Interval: 24 * time.Hour})
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != tt.wantGames {
				t.Fatalf("fixtures = %d, want %d", len(got), tt.wantGames)
			}

			pairs := make(map[pair]int)
			perRound := make(map[int]map[int]bool)
			maxRound := 0
			for i, f := range got {
				if f.Order != i+1 {
					t.Errorf("fixture %d has order %d", i, f.Order)
				}
				if f.Team1ID == f.Team2ID {
					t.Errorf("team %d plays itself", f.Team1ID)
				}
				if want := start.Add(time.Duration(f.Round-1) * 24 * time.Hour); !f.ScheduledAt.Equal(want) {
					t.Errorf("round %d scheduled at %v, want %v", f.Round, f.ScheduledAt, want)
				}
				pairs[key(f.Team1ID, f.Team2ID)]++
				if perRound[f.Round] == nil {
					perRound[f.Round] = make(map[int]bool)
				}
				for _, id := range []int{f.Team1ID, f.Team2ID} {
					if perRound[f.Round][id] {
						t.Errorf("team %d plays twice in round %d", id, f.Round)
					}
					perRound[f.Round][id] = true
				}
				if f.Round > maxRound {
					maxRound = f.Round
				}
			}
			if maxRound != tt.wantRounds {
				t.Errorf("rounds = %d, want %d", maxRound, tt.wantRounds)
			}
			for i := 0; i < len(tt.teams); i++ {
				for j := i + 1; j < len(tt.teams); j++ {
					if n := pairs[key(tt.teams[i], tt.teams[j])]; n != tt.legs {
						t.Errorf("pair %d-%d played %d times, want %d", tt.teams[i], tt.teams[j], n, tt.legs)
					}
				}
			}
		})
	}
}

func TestGenerateRoundRobinErrors(t *testing.T) {
	tests := []struct {
		name   string
		params RoundRobinParams
		want   error
	}{
		{"one team", RoundRobinParams{TeamIDs: []int{1}}, ErrNotEnoughTeams},
		{"duplicate", RoundRobinParams{TeamIDs: []int{1, 2, 1}}, ErrDuplicateTeam},
		{"three legs", RoundRobinParams{TeamIDs: []int{1, 2}, Legs: 3}, ErrInvalidLegs},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := GenerateRoundRobin(tt.params); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}
