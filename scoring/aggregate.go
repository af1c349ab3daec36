// Package scoring holds the live-game aggregate: every rule about how an event changes
// scores, player stats, rosters and counters lives here, free of storage and transport.
// Services load a Game, call exactly one operation and persist the returned Effect.
package scoring

import (
	"time"

	"github.com/Dosada05/livescore/models"
)

// StatDelta is a signed change to one PlayerStat row.
type StatDelta struct {
	PlayerID int
	TeamID   int
	Points   int
	Runs     int
	Balls    int
	Wickets  int
}

// RosterChange describes how the active roster must be rewritten in the store.
type RosterChange struct {
	Replace bool
	TeamID  int
	Out     int
	In      int
}

// Effect is everything a single operation changed. The aggregate state itself (scores,
// counters, status) is already updated in place when an Effect is returned.
type Effect struct {
	Kind string

	// Events are appended to the log in order. Remove is the log row an undo pops.
	Events     []*models.GameEvent
	Remove     *models.GameEvent
	StatDeltas []StatDelta
	Roster     *RosterChange

	// Clamped is set when a decrement hit the zero floor on a game counter.
	Clamped bool
	Fields  map[string]any
}

type ScoreInput struct {
	PlayerID int
	Amount   int
	Kind     string
}

type ShotInput struct {
	PlayerID  int
	ShotType  models.ShotType
	Result    models.ShotResult
	GameClock *string
}

type FoulInput struct {
	TeamID         int
	PlayerID       *int
	FoulType       string
	ShotsAwarded   int
	PointsScored   int
	FouledPlayerID *int
	GameClock      *string
}

type SubstitutionInput struct {
	TeamID      int
	PlayerOutID int
	PlayerInID  int
}

type CricketStateInput struct {
	BattingSide  *models.Side
	BatsmanID    *int
	BowlerID     *int
	ClearBatsman bool
	ClearBowler  bool
}

// Game wraps one loaded game with its roster and the players of both teams.
type Game struct {
	state   *models.Game
	roster  *Roster
	players map[int]models.Player
	now     func() time.Time
}

func NewGame(state *models.Game, roster *Roster, players []models.Player, now func() time.Time) *Game {
	if roster == nil {
		roster = NewRoster(false, nil)
	}
	if now == nil {
		now = time.Now
	}
	byID := make(map[int]models.Player, len(players))
	for _, p := range players {
		if p.TeamID == state.Team1ID || p.TeamID == state.Team2ID {
			byID[p.ID] = p
		}
	}
	if state.Basketball != nil {
		roster.Initialized = state.Basketball.RosterInitialized
	}
	return &Game{state: state, roster: roster, players: byID, now: now}
}

func (a *Game) State() *models.Game {
	return a.state
}

func (a *Game) Roster() *Roster {
	return a.roster
}

// IsActive reports roster membership for any player of the game.
func (a *Game) IsActive(playerID int) bool {
	p, ok := a.players[playerID]
	if !ok {
		return false
	}
	return a.roster.IsActive(p.TeamID, playerID)
}

func (a *Game) RecordScore(in ScoreInput) (*Effect, error) {
	if err := a.requireLive(); err != nil {
		return nil, err
	}
	amount := in.Amount
	switch a.state.Sport {
	case models.SportFootball:
		if amount == 0 {
			amount = 1
		}
		if amount != 1 {
			return nil, ErrInvalidPoints
		}
	case models.SportBasketball:
		if amount < 1 || amount > 3 {
			return nil, ErrInvalidPoints
		}
	default:
		return nil, ErrUnsupportedSport
	}
	player, side, err := a.player(in.PlayerID)
	if err != nil {
		return nil, err
	}
	if a.state.Sport == models.SportBasketball && !a.roster.IsActive(player.TeamID, player.ID) {
		return nil, ErrNotActivePlayer
	}

	a.addScore(side, amount)
	ev := a.newEvent(models.EventScore)
	ev.TeamID = intPtr(player.TeamID)
	ev.PlayerID = intPtr(player.ID)
	ev.Points = amount
	if in.Kind != "" {
		ev.Note = strPtr(SanitizeText(in.Kind))
	}
	return &Effect{
		Kind:       "score",
		Events:     []*models.GameEvent{ev},
		StatDeltas: []StatDelta{{PlayerID: player.ID, TeamID: player.TeamID, Points: amount}},
		Fields: map[string]any{
			"player_id": player.ID,
			"team_id":   player.TeamID,
			"points":    amount,
		},
	}, nil
}

func (a *Game) RecordRuns(runs int) (*Effect, error) {
	if err := a.requireLive(); err != nil {
		return nil, err
	}
	c, err := a.cricket()
	if err != nil {
		return nil, err
	}
	if c.CurrentBatsmanID == nil {
		return nil, ErrNoBatsmanSet
	}
	if runs < 0 || runs > 6 {
		return nil, ErrInvalidRuns
	}
	batsman, _, err := a.player(*c.CurrentBatsmanID)
	if err != nil {
		return nil, err
	}

	a.addScore(c.BattingSide, runs)
	ev := a.newEvent(models.EventRuns)
	ev.TeamID = intPtr(batsman.TeamID)
	ev.PlayerID = intPtr(batsman.ID)
	ev.Runs = runs
	ev.BattingSide = sidePtr(c.BattingSide)
	return &Effect{
		Kind:       "runs",
		Events:     []*models.GameEvent{ev},
		StatDeltas: []StatDelta{{PlayerID: batsman.ID, TeamID: batsman.TeamID, Runs: runs, Balls: 1}},
		Fields: map[string]any{
			"batsman_id":   batsman.ID,
			"runs":         runs,
			"batting_side": c.BattingSide,
		},
	}, nil
}

func (a *Game) RecordWicket() (*Effect, error) {
	if err := a.requireLive(); err != nil {
		return nil, err
	}
	c, err := a.cricket()
	if err != nil {
		return nil, err
	}
	if c.CurrentBowlerID == nil {
		return nil, ErrNoBowlerSet
	}
	bowler, _, err := a.player(*c.CurrentBowlerID)
	if err != nil {
		return nil, err
	}

	if c.BattingSide == models.SideTeam1 {
		c.Team1Wickets++
	} else {
		c.Team2Wickets++
	}
	ev := a.newEvent(models.EventWicket)
	ev.TeamID = intPtr(bowler.TeamID)
	ev.PlayerID = intPtr(bowler.ID)
	ev.Wicket = true
	ev.BattingSide = sidePtr(c.BattingSide)
	return &Effect{
		Kind:       "wicket",
		Events:     []*models.GameEvent{ev},
		StatDeltas: []StatDelta{{PlayerID: bowler.ID, TeamID: bowler.TeamID, Wickets: 1}},
		Fields: map[string]any{
			"bowler_id":     bowler.ID,
			"batting_side":  c.BattingSide,
			"team1_wickets": c.Team1Wickets,
			"team2_wickets": c.Team2Wickets,
		},
	}, nil
}

func (a *Game) RecordShot(in ShotInput) (*Effect, error) {
	if err := a.requireLive(); err != nil {
		return nil, err
	}
	b, err := a.basketball()
	if err != nil {
		return nil, err
	}
	if !in.ShotType.Valid() || !in.Result.Valid() {
		return nil, ErrInvalidShot
	}
	player, side, err := a.player(in.PlayerID)
	if err != nil {
		return nil, err
	}
	if !a.roster.IsActive(player.TeamID, player.ID) {
		return nil, ErrNotActivePlayer
	}

	points := ShotPoints(in.ShotType, in.Result)
	ev := a.newEvent(models.EventShot)
	ev.TeamID = intPtr(player.TeamID)
	ev.PlayerID = intPtr(player.ID)
	ev.Points = points
	ev.Quarter = intPtr(b.CurrentQuarter)
	ev.GameClock = in.GameClock
	shotType, result := in.ShotType, in.Result
	ev.ShotType = &shotType
	ev.ShotResult = &result

	eff := &Effect{
		Kind:   "shot",
		Events: []*models.GameEvent{ev},
		Fields: map[string]any{
			"player_id":     player.ID,
			"team_id":       player.TeamID,
			"shot_type":     in.ShotType,
			"result":        in.Result,
			"points_scored": points,
			"quarter":       b.CurrentQuarter,
		},
	}
	if points > 0 {
		a.addScore(side, points)
		eff.StatDeltas = []StatDelta{{PlayerID: player.ID, TeamID: player.TeamID, Points: points}}
	}
	return eff, nil
}

func (a *Game) RecordFoul(in FoulInput) (*Effect, error) {
	if err := a.requireLive(); err != nil {
		return nil, err
	}
	b, err := a.basketball()
	if err != nil {
		return nil, err
	}
	side, ok := a.state.SideOf(in.TeamID)
	if !ok {
		return nil, ErrTeamNotInGame
	}
	if in.PointsScored < 0 || in.PointsScored > 3 || in.ShotsAwarded < 0 || in.ShotsAwarded > 3 {
		return nil, ErrInvalidFoul
	}
	if in.PlayerID != nil {
		player, _, err := a.player(*in.PlayerID)
		if err != nil {
			return nil, err
		}
		if player.TeamID != in.TeamID {
			return nil, ErrPlayerTeamMismatch
		}
		if !a.roster.IsActive(player.TeamID, player.ID) {
			return nil, ErrNotActivePlayer
		}
	}
	if in.FouledPlayerID != nil {
		fouled, _, err := a.player(*in.FouledPlayerID)
		if err != nil {
			return nil, err
		}
		if fouled.TeamID == in.TeamID {
			return nil, ErrPlayerTeamMismatch
		}
	}

	if side == models.SideTeam1 {
		b.Team1QuarterFouls++
	} else {
		b.Team2QuarterFouls++
	}
	if in.PointsScored > 0 {
		a.addScore(side.Opposite(), in.PointsScored)
	}

	ev := a.newEvent(models.EventFoul)
	ev.TeamID = intPtr(in.TeamID)
	ev.PlayerID = in.PlayerID
	ev.Points = in.PointsScored
	ev.Quarter = intPtr(b.CurrentQuarter)
	ev.GameClock = in.GameClock
	ev.ShotsAwarded = in.ShotsAwarded
	ev.FouledPlayerID = in.FouledPlayerID
	if ft := SanitizeText(in.FoulType); ft != "" {
		ev.FoulType = &ft
	}
	return &Effect{
		Kind:   "foul",
		Events: []*models.GameEvent{ev},
		Fields: map[string]any{
			"team_id":             in.TeamID,
			"player_id":           in.PlayerID,
			"points_scored":       in.PointsScored,
			"shots_awarded":       in.ShotsAwarded,
			"quarter":             b.CurrentQuarter,
			"team1_quarter_fouls": b.Team1QuarterFouls,
			"team2_quarter_fouls": b.Team2QuarterFouls,
		},
	}, nil
}

func (a *Game) RecordSubstitution(in SubstitutionInput) (*Effect, error) {
	if err := a.requireLive(); err != nil {
		return nil, err
	}
	b, err := a.basketball()
	if err != nil {
		return nil, err
	}
	if _, ok := a.state.SideOf(in.TeamID); !ok {
		return nil, ErrTeamNotInGame
	}
	if in.PlayerOutID == in.PlayerInID {
		return nil, ErrSamePlayer
	}
	if !a.roster.Initialized {
		return nil, ErrRosterNotInitialized
	}
	out, _, err := a.player(in.PlayerOutID)
	if err != nil {
		return nil, err
	}
	incoming, _, err := a.player(in.PlayerInID)
	if err != nil {
		return nil, err
	}
	if out.TeamID != in.TeamID || incoming.TeamID != in.TeamID {
		return nil, ErrPlayerTeamMismatch
	}
	if !a.roster.IsActive(in.TeamID, out.ID) {
		return nil, ErrPlayerNotActive
	}
	if a.roster.IsActive(in.TeamID, incoming.ID) {
		return nil, ErrPlayerAlreadyActive
	}

	a.roster.Swap(in.TeamID, out.ID, incoming.ID)
	ev := a.newEvent(models.EventSubstitution)
	ev.TeamID = intPtr(in.TeamID)
	ev.PlayerOutID = intPtr(out.ID)
	ev.PlayerInID = intPtr(incoming.ID)
	ev.Quarter = intPtr(b.CurrentQuarter)
	return &Effect{
		Kind:   "substitution",
		Events: []*models.GameEvent{ev},
		Roster: &RosterChange{TeamID: in.TeamID, Out: out.ID, In: incoming.ID},
		Fields: map[string]any{
			"team_id":        in.TeamID,
			"player_out_id":  out.ID,
			"player_in_id":   incoming.ID,
			"active_players": a.roster.Active(in.TeamID),
		},
	}, nil
}

func (a *Game) RecordTimeout(teamID int) (*Effect, error) {
	if err := a.requireLive(); err != nil {
		return nil, err
	}
	b, err := a.basketball()
	if err != nil {
		return nil, err
	}
	side, ok := a.state.SideOf(teamID)
	if !ok {
		return nil, ErrTeamNotInGame
	}
	if side == models.SideTeam1 {
		b.Team1Timeouts++
	} else {
		b.Team2Timeouts++
	}
	ev := a.newEvent(models.EventTimeout)
	ev.TeamID = intPtr(teamID)
	ev.Quarter = intPtr(b.CurrentQuarter)
	return &Effect{
		Kind:   "timeout",
		Events: []*models.GameEvent{ev},
		Fields: map[string]any{
			"team_id":        teamID,
			"team1_timeouts": b.Team1Timeouts,
			"team2_timeouts": b.Team2Timeouts,
		},
	}, nil
}

func (a *Game) StartStoppage(reason string) (*Effect, error) {
	if err := a.requireLive(); err != nil {
		return nil, err
	}
	b, err := a.basketball()
	if err != nil {
		return nil, err
	}
	if b.ClockStopped {
		return nil, ErrClockAlreadyStopped
	}
	b.ClockStopped = true
	ev := a.newEvent(models.EventStoppageStart)
	ev.Quarter = intPtr(b.CurrentQuarter)
	if r := SanitizeText(reason); r != "" {
		ev.Note = &r
	}
	return &Effect{
		Kind:   "stoppage_start",
		Events: []*models.GameEvent{ev},
		Fields: map[string]any{"quarter": b.CurrentQuarter, "reason": ev.Note},
	}, nil
}

func (a *Game) EndStoppage() (*Effect, error) {
	if err := a.requireLive(); err != nil {
		return nil, err
	}
	b, err := a.basketball()
	if err != nil {
		return nil, err
	}
	if !b.ClockStopped {
		return nil, ErrClockNotStopped
	}
	b.ClockStopped = false
	ev := a.newEvent(models.EventStoppageEnd)
	ev.Quarter = intPtr(b.CurrentQuarter)
	return &Effect{
		Kind:   "stoppage_end",
		Events: []*models.GameEvent{ev},
		Fields: map[string]any{"quarter": b.CurrentQuarter},
	}, nil
}

// SetInitialRoster replaces both active sets. Allowed before and during the game.
func (a *Game) SetInitialRoster(team1, team2 []int) (*Effect, error) {
	if a.state.Status == models.GameStatusFinished {
		return nil, ErrGameFinished
	}
	b, err := a.basketball()
	if err != nil {
		return nil, err
	}
	if !distinctOfSize(team1, RosterSize) || !distinctOfSize(team2, RosterSize) {
		return nil, ErrInvalidRosterSize
	}
	for _, id := range team1 {
		if p, ok := a.players[id]; !ok || p.TeamID != a.state.Team1ID {
			return nil, ErrPlayerTeamMismatch
		}
	}
	for _, id := range team2 {
		if p, ok := a.players[id]; !ok || p.TeamID != a.state.Team2ID {
			return nil, ErrPlayerTeamMismatch
		}
	}

	a.roster.Replace(a.state.Team1ID, team1, a.state.Team2ID, team2)
	b.RosterInitialized = true
	ev := a.newEvent(models.EventRosterSet)
	ev.Quarter = intPtr(b.CurrentQuarter)
	return &Effect{
		Kind:   "roster",
		Events: []*models.GameEvent{ev},
		Roster: &RosterChange{Replace: true},
		Fields: map[string]any{
			"team1_active": a.roster.Active(a.state.Team1ID),
			"team2_active": a.roster.Active(a.state.Team2ID),
		},
	}, nil
}

func (a *Game) SetCricketState(in CricketStateInput) (*Effect, error) {
	if a.state.Status == models.GameStatusFinished {
		return nil, ErrGameFinished
	}
	c, err := a.cricket()
	if err != nil {
		return nil, err
	}
	side := c.BattingSide
	if in.BattingSide != nil {
		if !in.BattingSide.Valid() {
			return nil, ErrInvalidSide
		}
		side = *in.BattingSide
	}
	if in.BatsmanID != nil {
		p, _, err := a.player(*in.BatsmanID)
		if err != nil {
			return nil, err
		}
		if p.TeamID != a.state.TeamID(side) {
			return nil, ErrPlayerTeamMismatch
		}
	}
	if in.BowlerID != nil {
		p, _, err := a.player(*in.BowlerID)
		if err != nil {
			return nil, err
		}
		if p.TeamID != a.state.TeamID(side.Opposite()) {
			return nil, ErrPlayerTeamMismatch
		}
	}

	// A new innings invalidates the batsman and bowler of the previous one.
	if side != c.BattingSide {
		c.CurrentBatsmanID = nil
		c.CurrentBowlerID = nil
	}
	c.BattingSide = side
	switch {
	case in.BatsmanID != nil:
		c.CurrentBatsmanID = intPtr(*in.BatsmanID)
	case in.ClearBatsman:
		c.CurrentBatsmanID = nil
	}
	switch {
	case in.BowlerID != nil:
		c.CurrentBowlerID = intPtr(*in.BowlerID)
	case in.ClearBowler:
		c.CurrentBowlerID = nil
	}
	return &Effect{
		Kind: "cricket_state",
		Fields: map[string]any{
			"batting_side":       c.BattingSide,
			"current_batsman_id": c.CurrentBatsmanID,
			"current_bowler_id":  c.CurrentBowlerID,
		},
	}, nil
}

func (a *Game) requireLive() error {
	if a.state.Status != models.GameStatusLive {
		return ErrGameNotLive
	}
	return nil
}

func (a *Game) basketball() (*models.BasketballDetails, error) {
	if a.state.Sport != models.SportBasketball || a.state.Basketball == nil {
		return nil, ErrUnsupportedSport
	}
	return a.state.Basketball, nil
}

func (a *Game) cricket() (*models.CricketDetails, error) {
	if a.state.Sport != models.SportCricket || a.state.Cricket == nil {
		return nil, ErrUnsupportedSport
	}
	return a.state.Cricket, nil
}

func (a *Game) player(id int) (models.Player, models.Side, error) {
	p, ok := a.players[id]
	if !ok {
		return models.Player{}, "", &PlayerNotInGameError{PlayerID: id}
	}
	side, _ := a.state.SideOf(p.TeamID)
	return p, side, nil
}

func (a *Game) addScore(side models.Side, amount int) {
	if side == models.SideTeam1 {
		a.state.Team1Score += amount
	} else {
		a.state.Team2Score += amount
	}
}

// subScore lowers a running score, flooring at zero. It reports whether the floor engaged.
func (a *Game) subScore(side models.Side, amount int) bool {
	if side == models.SideTeam1 {
		return floorSub(&a.state.Team1Score, amount)
	}
	return floorSub(&a.state.Team2Score, amount)
}

func (a *Game) newEvent(kind models.EventKind) *models.GameEvent {
	return &models.GameEvent{
		GameID:    a.state.ID,
		Kind:      kind,
		Sport:     a.state.Sport,
		CreatedAt: a.now(),
	}
}

func floorSub(v *int, amount int) bool {
	if *v < amount {
		*v = 0
		return true
	}
	*v -= amount
	return false
}

func distinctOfSize(ids []int, size int) bool {
	if len(ids) != size {
		return false
	}
	seen := make(map[int]struct{}, size)
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return false
		}
		seen[id] = struct{}{}
	}
	return true
}

// ApplyStatDelta adds d to stat, flooring every counter at zero. It reports whether any
// counter was clamped.
func ApplyStatDelta(stat *models.PlayerStat, d StatDelta) bool {
	clamped := false
	apply := func(v *int, delta int) {
		*v += delta
		if *v < 0 {
			*v = 0
			clamped = true
		}
	}
	apply(&stat.Points, d.Points)
	apply(&stat.Runs, d.Runs)
	apply(&stat.Balls, d.Balls)
	apply(&stat.Wickets, d.Wickets)
	return clamped
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func sidePtr(v models.Side) *models.Side { return &v }
