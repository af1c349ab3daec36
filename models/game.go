package models

import "time"

type Sport string

const (
	SportFootball   Sport = "FOOTBALL"
	SportBasketball Sport = "BASKETBALL"
	SportCricket    Sport = "CRICKET"
)

func (s Sport) Valid() bool {
	switch s {
	case SportFootball, SportBasketball, SportCricket:
		return true
	}
	return false
}

type GameStatus string

const (
	GameStatusScheduled GameStatus = "SCHEDULED"
	GameStatusLive      GameStatus = "LIVE"
	GameStatusFinished  GameStatus = "FINISHED"
)

func (s GameStatus) Valid() bool {
	switch s {
	case GameStatusScheduled, GameStatusLive, GameStatusFinished:
		return true
	}
	return false
}

// Side identifies one of the two teams of a game by position rather than by id.
type Side string

const (
	SideTeam1 Side = "TEAM1"
	SideTeam2 Side = "TEAM2"
)

func (s Side) Valid() bool {
	return s == SideTeam1 || s == SideTeam2
}

func (s Side) Opposite() Side {
	if s == SideTeam1 {
		return SideTeam2
	}
	return SideTeam1
}

type Game struct {
	ID           int        `json:"id" db:"id"`
	Sport        Sport      `json:"sport" db:"sport"`
	Status       GameStatus `json:"status" db:"status"`
	Team1ID      int        `json:"team1_id" db:"team1_id"`
	Team2ID      int        `json:"team2_id" db:"team2_id"`
	Team1Score   int        `json:"team1_score" db:"team1_score"`
	Team2Score   int        `json:"team2_score" db:"team2_score"`
	ScheduledAt  time.Time  `json:"scheduled_at" db:"scheduled_at"`
	StartedAt    *time.Time `json:"started_at,omitempty" db:"started_at"`
	EndedAt      *time.Time `json:"ended_at,omitempty" db:"ended_at"`
	WinnerTeamID *int       `json:"winner_team_id,omitempty" db:"winner_team_id"`
	Version      int        `json:"-" db:"version"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`

	// Sport-specific extension rows, exactly one is set for basketball and cricket games.
	Basketball *BasketballDetails `json:"basketball,omitempty" db:"-"`
	Cricket    *CricketDetails    `json:"cricket,omitempty" db:"-"`

	Team1 *Team `json:"team1,omitempty" db:"-"`
	Team2 *Team `json:"team2,omitempty" db:"-"`
}

// SideOf reports which side teamID plays on. ok is false for teams outside the game.
func (g *Game) SideOf(teamID int) (Side, bool) {
	switch teamID {
	case g.Team1ID:
		return SideTeam1, true
	case g.Team2ID:
		return SideTeam2, true
	}
	return "", false
}

func (g *Game) TeamID(side Side) int {
	if side == SideTeam1 {
		return g.Team1ID
	}
	return g.Team2ID
}

func (g *Game) Score(side Side) int {
	if side == SideTeam1 {
		return g.Team1Score
	}
	return g.Team2Score
}

type BasketballDetails struct {
	CurrentQuarter    int  `json:"current_quarter" db:"current_quarter"`
	OvertimePeriods   int  `json:"overtime_periods" db:"overtime_periods"`
	Team1QuarterFouls int  `json:"team1_quarter_fouls" db:"team1_quarter_fouls"`
	Team2QuarterFouls int  `json:"team2_quarter_fouls" db:"team2_quarter_fouls"`
	Team1Timeouts     int  `json:"team1_timeouts" db:"team1_timeouts"`
	Team2Timeouts     int  `json:"team2_timeouts" db:"team2_timeouts"`
	ClockStopped      bool `json:"clock_stopped" db:"clock_stopped"`
	RosterInitialized bool `json:"roster_initialized" db:"roster_initialized"`
}

type CricketDetails struct {
	BattingSide      Side `json:"batting_side" db:"batting_side"`
	CurrentBatsmanID *int `json:"current_batsman_id,omitempty" db:"current_batsman_id"`
	CurrentBowlerID  *int `json:"current_bowler_id,omitempty" db:"current_bowler_id"`
	Team1Wickets     int  `json:"team1_wickets" db:"team1_wickets"`
	Team2Wickets     int  `json:"team2_wickets" db:"team2_wickets"`
}

type PlayerStat struct {
	GameID    int       `json:"game_id" db:"game_id"`
	PlayerID  int       `json:"player_id" db:"player_id"`
	TeamID    int       `json:"team_id" db:"team_id"`
	Points    int       `json:"points" db:"points"`
	Runs      int       `json:"runs" db:"runs"`
	Balls     int       `json:"balls" db:"balls"`
	Wickets   int       `json:"wickets" db:"wickets"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	PlayerName string `json:"player_name,omitempty" db:"-"`
}
