package scoring

import (
	"sort"

	"github.com/Dosada05/livescore/models"
)

// PointsPerWin is the standings credit for a win. Losses and ties earn nothing.
const PointsPerWin = 1

// ComputeStandings folds finished games into one row per team. Teams without games still
// get a zero row. Games of other statuses are ignored.
func ComputeStandings(teams []models.Team, games []models.Game) []models.TeamStanding {
	rows := make(map[int]*models.TeamStanding, len(teams))
	order := make([]*models.TeamStanding, 0, len(teams))
	for _, t := range teams {
		if _, dup := rows[t.ID]; dup {
			continue
		}
		row := &models.TeamStanding{TeamID: t.ID, TeamName: t.Name, LogoURL: t.LogoURL}
		rows[t.ID] = row
		order = append(order, row)
	}

	for _, g := range games {
		if g.Status != models.GameStatusFinished {
			continue
		}
		home, okHome := rows[g.Team1ID]
		away, okAway := rows[g.Team2ID]
		if okHome {
			accumulate(home, g.Team1Score, g.Team2Score)
		}
		if okAway {
			accumulate(away, g.Team2Score, g.Team1Score)
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.NetRate != b.NetRate {
			return a.NetRate > b.NetRate
		}
		if a.TeamName != b.TeamName {
			return a.TeamName < b.TeamName
		}
		return a.TeamID < b.TeamID
	})

	result := make([]models.TeamStanding, len(order))
	for i, row := range order {
		row.Rank = i + 1
		result[i] = *row
	}
	return result
}

func accumulate(row *models.TeamStanding, scored, conceded int) {
	row.MatchesPlayed++
	row.PointsFor += scored
	row.PointsAgainst += conceded
	row.NetRate = row.PointsFor - row.PointsAgainst
	switch {
	case scored > conceded:
		row.Wins++
		row.Points += PointsPerWin
	case scored < conceded:
		row.Losses++
	default:
		row.Ties++
	}
}
