package models

import "time"

type EventKind string

const (
	EventScore         EventKind = "SCORE"
	EventRuns          EventKind = "RUNS"
	EventWicket        EventKind = "WICKET"
	EventShot          EventKind = "SHOT"
	EventFoul          EventKind = "FOUL"
	EventSubstitution  EventKind = "SUBSTITUTION"
	EventTimeout       EventKind = "TIMEOUT"
	EventStoppageStart EventKind = "STOPPAGE_START"
	EventStoppageEnd   EventKind = "STOPPAGE_END"
	EventRosterSet     EventKind = "ROSTER_SET"
	EventGameStart     EventKind = "GAME_START"
	EventQuarterEnd    EventKind = "QUARTER_END"
	EventGameEnd       EventKind = "GAME_END"
)

// ReversibleKinds lists the kinds the undo operations may pop, everything else is a marker.
var ReversibleKinds = []EventKind{
	EventScore, EventRuns, EventWicket, EventShot, EventFoul, EventSubstitution, EventTimeout,
}

func (k EventKind) Reversible() bool {
	for _, r := range ReversibleKinds {
		if k == r {
			return true
		}
	}
	return false
}

type ShotType string

const (
	ShotFreeThrow ShotType = "FT"
	ShotTwo       ShotType = "2PT"
	ShotThree     ShotType = "3PT"
)

func (t ShotType) Valid() bool {
	return t == ShotFreeThrow || t == ShotTwo || t == ShotThree
}

type ShotResult string

const (
	ShotMade    ShotResult = "MADE"
	ShotMissed  ShotResult = "MISSED"
	ShotBlocked ShotResult = "BLOCKED"
)

func (r ShotResult) Valid() bool {
	return r == ShotMade || r == ShotMissed || r == ShotBlocked
}

// GameEvent is one row of the append-only per-game log. Scoring rows (SCORE, RUNS, WICKET,
// SHOT) form the ledger; the remaining columns are filled only for the kinds that use them.
type GameEvent struct {
	ID          int64     `json:"id" db:"id"`
	GameID      int       `json:"game_id" db:"game_id"`
	Kind        EventKind `json:"kind" db:"kind"`
	Sport       Sport     `json:"sport" db:"sport"`
	TeamID      *int      `json:"team_id,omitempty" db:"team_id"`
	PlayerID    *int      `json:"player_id,omitempty" db:"player_id"`
	Points      int       `json:"points" db:"points"`
	Runs        int       `json:"runs" db:"runs"`
	Wicket      bool      `json:"wicket" db:"wicket"`
	BattingSide *Side     `json:"batting_side,omitempty" db:"batting_side"`
	Quarter     *int      `json:"quarter,omitempty" db:"quarter"`
	GameClock   *string   `json:"game_clock,omitempty" db:"game_clock"`

	ShotType   *ShotType   `json:"shot_type,omitempty" db:"shot_type"`
	ShotResult *ShotResult `json:"shot_result,omitempty" db:"shot_result"`

	FoulType       *string `json:"foul_type,omitempty" db:"foul_type"`
	ShotsAwarded   int     `json:"shots_awarded,omitempty" db:"shots_awarded"`
	FouledPlayerID *int    `json:"fouled_player_id,omitempty" db:"fouled_player_id"`

	PlayerOutID *int `json:"player_out_id,omitempty" db:"player_out_id"`
	PlayerInID  *int `json:"player_in_id,omitempty" db:"player_in_id"`

	Note      *string   `json:"note,omitempty" db:"note"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Stoppage is a clock stop interval paired from STOPPAGE_START/STOPPAGE_END markers.
type Stoppage struct {
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
	Quarter   *int       `json:"quarter,omitempty"`
	Reason    *string    `json:"reason,omitempty"`
}

type ActivePlayer struct {
	GameID   int `json:"game_id" db:"game_id"`
	TeamID   int `json:"team_id" db:"team_id"`
	PlayerID int `json:"player_id" db:"player_id"`
}
