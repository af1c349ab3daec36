package scoring

import "github.com/Dosada05/livescore/models"

// Undo reverses ev, which must be the latest reversible log row the caller selected for this
// game. Every decrement floors at zero; the row is removed even when a floor engaged.
func (a *Game) Undo(ev *models.GameEvent) (*Effect, error) {
	if err := a.requireLive(); err != nil {
		return nil, err
	}
	if ev == nil || ev.GameID != a.state.ID || !ev.Kind.Reversible() {
		return nil, ErrNotReversible
	}

	eff := &Effect{
		Kind:   "undo",
		Remove: ev,
		Fields: map[string]any{
			"undone_event_id": ev.ID,
			"undone_kind":     ev.Kind,
			"team_id":         ev.TeamID,
			"player_id":       ev.PlayerID,
		},
	}

	switch ev.Kind {
	case models.EventScore, models.EventShot:
		if ev.Points > 0 {
			if side, ok := a.eventSide(ev); ok {
				eff.Clamped = a.subScore(side, ev.Points)
			}
			eff.addDelta(ev, StatDelta{Points: -ev.Points})
		}
		eff.Fields["points"] = ev.Points

	case models.EventRuns:
		c, err := a.cricket()
		if err != nil {
			return nil, err
		}
		side := c.BattingSide
		if ev.BattingSide != nil {
			side = *ev.BattingSide
		}
		eff.Clamped = a.subScore(side, ev.Runs)
		eff.addDelta(ev, StatDelta{Runs: -ev.Runs, Balls: -1})
		eff.Fields["runs"] = ev.Runs

	case models.EventWicket:
		c, err := a.cricket()
		if err != nil {
			return nil, err
		}
		side := c.BattingSide
		if ev.BattingSide != nil {
			side = *ev.BattingSide
		}
		if side == models.SideTeam1 {
			eff.Clamped = floorSub(&c.Team1Wickets, 1)
		} else {
			eff.Clamped = floorSub(&c.Team2Wickets, 1)
		}
		eff.addDelta(ev, StatDelta{Wickets: -1})
		eff.Fields["team1_wickets"] = c.Team1Wickets
		eff.Fields["team2_wickets"] = c.Team2Wickets

	case models.EventFoul:
		b, err := a.basketball()
		if err != nil {
			return nil, err
		}
		side, ok := a.eventSide(ev)
		if !ok {
			return nil, ErrTeamNotInGame
		}
		if ev.Points > 0 {
			eff.Clamped = a.subScore(side.Opposite(), ev.Points)
		}
		// Counters of an earlier quarter were already reset by the quarter advance.
		if ev.Quarter != nil && *ev.Quarter == b.CurrentQuarter {
			var clamped bool
			if side == models.SideTeam1 {
				clamped = floorSub(&b.Team1QuarterFouls, 1)
			} else {
				clamped = floorSub(&b.Team2QuarterFouls, 1)
			}
			eff.Clamped = eff.Clamped || clamped
		}
		eff.Fields["team1_quarter_fouls"] = b.Team1QuarterFouls
		eff.Fields["team2_quarter_fouls"] = b.Team2QuarterFouls

	case models.EventSubstitution:
		if _, err := a.basketball(); err != nil {
			return nil, err
		}
		if ev.TeamID == nil || ev.PlayerOutID == nil || ev.PlayerInID == nil {
			return nil, ErrUndoConflict
		}
		teamID, out, in := *ev.TeamID, *ev.PlayerOutID, *ev.PlayerInID
		if !a.roster.Initialized || !a.roster.IsActive(teamID, in) || a.roster.IsActive(teamID, out) {
			return nil, ErrUndoConflict
		}
		a.roster.Swap(teamID, in, out)
		eff.Roster = &RosterChange{TeamID: teamID, Out: in, In: out}
		eff.Fields["active_players"] = a.roster.Active(teamID)

	case models.EventTimeout:
		b, err := a.basketball()
		if err != nil {
			return nil, err
		}
		side, ok := a.eventSide(ev)
		if !ok {
			return nil, ErrTeamNotInGame
		}
		if side == models.SideTeam1 {
			eff.Clamped = floorSub(&b.Team1Timeouts, 1)
		} else {
			eff.Clamped = floorSub(&b.Team2Timeouts, 1)
		}
		eff.Fields["team1_timeouts"] = b.Team1Timeouts
		eff.Fields["team2_timeouts"] = b.Team2Timeouts
	}
	return eff, nil
}

func (a *Game) eventSide(ev *models.GameEvent) (models.Side, bool) {
	if ev.TeamID == nil {
		return "", false
	}
	return a.state.SideOf(*ev.TeamID)
}

// addDelta targets the event's player. Rows whose player was deleted keep no stat to revert.
func (e *Effect) addDelta(ev *models.GameEvent, d StatDelta) {
	if ev.PlayerID == nil {
		return
	}
	d.PlayerID = *ev.PlayerID
	if ev.TeamID != nil {
		d.TeamID = *ev.TeamID
	}
	e.StatDeltas = append(e.StatDeltas, d)
}
