package models

type TeamStanding struct {
	TeamID        int     `json:"team_id"`
	TeamName      string  `json:"team_name"`
	LogoURL       *string `json:"logo_url,omitempty"`
	MatchesPlayed int     `json:"matches_played"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	Ties          int     `json:"ties"`
	PointsFor     int     `json:"points_for"`
	PointsAgainst int     `json:"points_against"`
	NetRate       int     `json:"net_rate"`
	Points        int     `json:"points"`
	Rank          int     `json:"rank"`
}

type PlayerLeader struct {
	PlayerID       int    `json:"player_id"`
	PlayerName     string `json:"player_name"`
	TeamID         int    `json:"team_id"`
	TeamName       string `json:"team_name"`
	Games          int    `json:"games"`
	FTMade         int    `json:"ft_made"`
	FTAttempted    int    `json:"ft_attempted"`
	TwoMade        int    `json:"two_made"`
	TwoAttempted   int    `json:"two_attempted"`
	ThreeMade      int    `json:"three_made"`
	ThreeAttempted int    `json:"three_attempted"`
	FTPoints       int    `json:"ft_points"`
	TwoPoints      int    `json:"two_points"`
	ThreePoints    int    `json:"three_points"`
	TotalPoints    int    `json:"total_points"`
}

// ShotRecord is the projection of a SHOT event the leaderboard folds over.
type ShotRecord struct {
	GameID     int
	PlayerID   int
	PlayerName string
	TeamID     int
	TeamName   string
	ShotType   ShotType
	ShotResult ShotResult
	Points     int
}
