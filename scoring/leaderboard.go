package scoring

import (
	"sort"

	"github.com/Dosada05/livescore/models"
)

// ComputeLeaderboard aggregates shot records per player across games. Points come from made
// shots only; attempts count every record of the type.
func ComputeLeaderboard(shots []models.ShotRecord) []models.PlayerLeader {
	leaders := make(map[int]*models.PlayerLeader)
	games := make(map[int]map[int]struct{})
	for _, s := range shots {
		l, ok := leaders[s.PlayerID]
		if !ok {
			l = &models.PlayerLeader{
				PlayerID:   s.PlayerID,
				PlayerName: s.PlayerName,
				TeamID:     s.TeamID,
				TeamName:   s.TeamName,
			}
			leaders[s.PlayerID] = l
			games[s.PlayerID] = make(map[int]struct{})
		}
		games[s.PlayerID][s.GameID] = struct{}{}

		made := s.ShotResult == models.ShotMade
		points := ShotPoints(s.ShotType, s.ShotResult)
		switch s.ShotType {
		case models.ShotFreeThrow:
			l.FTAttempted++
			if made {
				l.FTMade++
				l.FTPoints += points
			}
		case models.ShotTwo:
			l.TwoAttempted++
			if made {
				l.TwoMade++
				l.TwoPoints += points
			}
		case models.ShotThree:
			l.ThreeAttempted++
			if made {
				l.ThreeMade++
				l.ThreePoints += points
			}
		}
		l.TotalPoints = l.FTPoints + l.TwoPoints + l.ThreePoints
	}

	result := make([]models.PlayerLeader, 0, len(leaders))
	for id, l := range leaders {
		l.Games = len(games[id])
		result = append(result, *l)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].TotalPoints != result[j].TotalPoints {
			return result[i].TotalPoints > result[j].TotalPoints
		}
		if result[i].PlayerName != result[j].PlayerName {
			return result[i].PlayerName < result[j].PlayerName
		}
		return result[i].PlayerID < result[j].PlayerID
	})
	return result
}
