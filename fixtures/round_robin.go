// Package fixtures builds league schedules.
package fixtures

import (
	"fmt"
	"sort"
	"time"

	"github.com/Dosada05/livescore/scoring"
)

var (
	ErrNotEnoughTeams = fmt.Errorf("%w: round robin needs at least 2 teams", scoring.ErrValidationFailed)
	ErrDuplicateTeam  = fmt.Errorf("%w: team listed twice", scoring.ErrValidationFailed)
	ErrInvalidLegs    = fmt.Errorf("%w: legs must be 1 or 2", scoring.ErrValidationFailed)
)

// Fixture is one scheduled pairing. Round is the matchday, starting at 1.
type Fixture struct {
	Round       int
	Order       int
	Team1ID     int
	Team2ID     int
	ScheduledAt time.Time
}

type RoundRobinParams struct {
	TeamIDs []int
	// Legs is 1 for a single round robin, 2 when every pairing is played home and away.
	Legs     int
	FirstAt  time.Time
	Interval time.Duration
}

// GenerateRoundRobin pairs every team with every other team using the circle method, so each
// team plays at most once per round. With an odd number of teams one team rests each round.
func GenerateRoundRobin(p RoundRobinParams) ([]Fixture, error) {
	if p.Legs == 0 {
		p.Legs = 1
	}
	if p.Legs != 1 && p.Legs != 2 {
		return nil, ErrInvalidLegs
	}
	if len(p.TeamIDs) < 2 {
		return nil, ErrNotEnoughTeams
	}
	seen := make(map[int]struct{}, len(p.TeamIDs))
	for _, id := range p.TeamIDs {
		if _, dup := seen[id]; dup {
			return nil, ErrDuplicateTeam
		}
		seen[id] = struct{}{}
	}

	const bye = -1
	teams := append([]int(nil), p.TeamIDs...)
	if len(teams)%2 == 1 {
		teams = append(teams, bye)
	}
	n := len(teams)
	rounds := n - 1

	fixtures := make([]Fixture, 0, p.Legs*len(p.TeamIDs)*(len(p.TeamIDs)-1)/2)
	for round := 0; round < rounds; round++ {
		for i := 0; i < n/2; i++ {
			home, away := teams[i], teams[n-1-i]
			if home == bye || away == bye {
				continue
			}
			// Alternate the fixed team's home side so it does not host every round.
			if i == 0 && round%2 == 1 {
				home, away = away, home
			}
			fixtures = append(fixtures, Fixture{Round: round + 1, Team1ID: home, Team2ID: away})
		}
		// Rotate every team but the first one position clockwise.
		last := teams[n-1]
		copy(teams[2:], teams[1:n-1])
		teams[1] = last
	}

	if p.Legs == 2 {
		firstLeg := len(fixtures)
		for _, f := range fixtures[:firstLeg] {
			fixtures = append(fixtures, Fixture{Round: f.Round + rounds, Team1ID: f.Team2ID, Team2ID: f.Team1ID})
		}
	}

	sort.SliceStable(fixtures, func(i, j int) bool { return fixtures[i].Round < fixtures[j].Round })
	for i := range fixtures {
		fixtures[i].Order = i + 1
		fixtures[i].ScheduledAt = p.FirstAt.Add(time.Duration(fixtures[i].Round-1) * p.Interval)
	}
	return fixtures, nil
}
