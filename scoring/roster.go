package scoring

import (
	"sort"

	"github.com/Dosada05/livescore/models"
)

// RosterSize is the number of players each basketball team has on the floor.
const RosterSize = 5

// Roster holds the active players of both teams of one basketball game.
// An uninitialized roster treats every player as active.
type Roster struct {
	Initialized bool
	active      map[int]map[int]struct{}
}

func NewRoster(initialized bool, rows []models.ActivePlayer) *Roster {
	r := &Roster{Initialized: initialized, active: make(map[int]map[int]struct{})}
	for _, row := range rows {
		r.add(row.TeamID, row.PlayerID)
	}
	return r
}

func (r *Roster) add(teamID, playerID int) {
	set, ok := r.active[teamID]
	if !ok {
		set = make(map[int]struct{})
		r.active[teamID] = set
	}
	set[playerID] = struct{}{}
}

// IsActive reports whether playerID is on teamID's active set.
func (r *Roster) IsActive(teamID, playerID int) bool {
	if !r.Initialized {
		return true
	}
	_, ok := r.active[teamID][playerID]
	return ok
}

// Active returns the sorted active ids of teamID.
func (r *Roster) Active(teamID int) []int {
	ids := make([]int, 0, len(r.active[teamID]))
	for id := range r.active[teamID] {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func (r *Roster) Replace(team1ID int, team1 []int, team2ID int, team2 []int) {
	r.active = make(map[int]map[int]struct{})
	for _, id := range team1 {
		r.add(team1ID, id)
	}
	for _, id := range team2 {
		r.add(team2ID, id)
	}
	r.Initialized = true
}

// Swap removes out and adds in for teamID. Cardinality is preserved by construction.
func (r *Roster) Swap(teamID, out, in int) {
	delete(r.active[teamID], out)
	r.add(teamID, in)
}

// Rows flattens the roster back into store rows.
func (r *Roster) Rows(gameID int) []models.ActivePlayer {
	teams := make([]int, 0, len(r.active))
	for teamID := range r.active {
		teams = append(teams, teamID)
	}
	sort.Ints(teams)
	rows := make([]models.ActivePlayer, 0, 2*RosterSize)
	for _, teamID := range teams {
		for _, playerID := range r.Active(teamID) {
			rows = append(rows, models.ActivePlayer{GameID: gameID, TeamID: teamID, PlayerID: playerID})
		}
	}
	return rows
}
