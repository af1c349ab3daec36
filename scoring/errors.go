package scoring

import (
	"errors"
	"fmt"
)

// Error classes. Every specific error below wraps exactly one of them so transport code can
// map by class with errors.Is.
var (
	ErrNotFound         = errors.New("requested resource not found")
	ErrValidationFailed = errors.New("validation failed")
)

var (
	ErrGameNotFound   = fmt.Errorf("%w: game not found", ErrNotFound)
	ErrTeamNotFound   = fmt.Errorf("%w: team not found", ErrNotFound)
	ErrPlayerNotFound = fmt.Errorf("%w: player not found", ErrNotFound)
)

var (
	ErrGameNotLive             = fmt.Errorf("%w: game is not live", ErrValidationFailed)
	ErrGameFinished            = fmt.Errorf("%w: game is already finished", ErrValidationFailed)
	ErrInvalidStatus           = fmt.Errorf("%w: invalid game status", ErrValidationFailed)
	ErrInvalidStatusTransition = fmt.Errorf("%w: invalid game status transition", ErrValidationFailed)
	ErrInvalidSport            = fmt.Errorf("%w: invalid sport", ErrValidationFailed)
	ErrUnsupportedSport        = fmt.Errorf("%w: operation is not supported for this sport", ErrValidationFailed)
	ErrSameTeams               = fmt.Errorf("%w: a game needs two different teams", ErrValidationFailed)

	ErrPlayerNotInGame     = fmt.Errorf("%w: player does not play in this game", ErrValidationFailed)
	ErrTeamNotInGame       = fmt.Errorf("%w: team does not play in this game", ErrValidationFailed)
	ErrPlayerTeamMismatch  = fmt.Errorf("%w: player does not belong to the expected team", ErrValidationFailed)
	ErrNotActivePlayer     = fmt.Errorf("%w: player is not on the active roster", ErrValidationFailed)
	ErrPlayerNotActive     = fmt.Errorf("%w: outgoing player is not active", ErrValidationFailed)
	ErrPlayerAlreadyActive = fmt.Errorf("%w: incoming player is already active", ErrValidationFailed)
	ErrSamePlayer          = fmt.Errorf("%w: outgoing and incoming player are the same", ErrValidationFailed)

	ErrInvalidRosterSize    = fmt.Errorf("%w: each roster needs exactly %d distinct players", ErrValidationFailed, RosterSize)
	ErrRosterNotInitialized = fmt.Errorf("%w: active roster has not been set", ErrValidationFailed)

	ErrInvalidPoints = fmt.Errorf("%w: invalid points amount", ErrValidationFailed)
	ErrInvalidRuns   = fmt.Errorf("%w: runs must be between 0 and 6", ErrValidationFailed)
	ErrInvalidShot   = fmt.Errorf("%w: invalid shot type or result", ErrValidationFailed)
	ErrInvalidFoul   = fmt.Errorf("%w: invalid foul", ErrValidationFailed)
	ErrNoBatsmanSet  = fmt.Errorf("%w: no current batsman set", ErrValidationFailed)
	ErrNoBowlerSet   = fmt.Errorf("%w: no current bowler set", ErrValidationFailed)
	ErrInvalidSide   = fmt.Errorf("%w: batting side must be TEAM1 or TEAM2", ErrValidationFailed)

	ErrClockAlreadyStopped = fmt.Errorf("%w: clock is already stopped", ErrValidationFailed)
	ErrClockNotStopped     = fmt.Errorf("%w: clock is not stopped", ErrValidationFailed)

	ErrNotReversible = fmt.Errorf("%w: event cannot be undone", ErrValidationFailed)
	ErrUndoConflict  = fmt.Errorf("%w: roster changed since the event, cannot undo", ErrValidationFailed)
)

// PlayerNotInGameError carries the offending id so callers can tell an unknown player
// apart from one that plays for another team.
type PlayerNotInGameError struct {
	PlayerID int
}

func (e *PlayerNotInGameError) Error() string {
	return fmt.Sprintf("%v (player %d)", ErrPlayerNotInGame, e.PlayerID)
}

func (e *PlayerNotInGameError) Unwrap() error {
	return ErrPlayerNotInGame
}

// ErrConcurrentUpdate is returned when the game row changed between load and write.
var ErrConcurrentUpdate = errors.New("game was modified concurrently, retry")

// ErrOvertimeUnsupported marks the overtime extension point. A tied basketball game at the end
// of the fourth quarter finishes without a winner instead.
var ErrOvertimeUnsupported = fmt.Errorf("%w: overtime is not supported", ErrValidationFailed)
