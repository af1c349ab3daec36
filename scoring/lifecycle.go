package scoring

import "github.com/Dosada05/livescore/models"

// RegulationQuarters is the number of basketball quarters before the game finishes.
const RegulationQuarters = 4

// NewGameState returns the zero state of a freshly created game, with the extension row its
// sport needs.
func NewGameState(sport models.Sport, team1ID, team2ID int) (*models.Game, error) {
	if !sport.Valid() {
		return nil, ErrInvalidSport
	}
	if team1ID == team2ID {
		return nil, ErrSameTeams
	}
	g := &models.Game{
		Sport:   sport,
		Status:  models.GameStatusScheduled,
		Team1ID: team1ID,
		Team2ID: team2ID,
	}
	switch sport {
	case models.SportBasketball:
		g.Basketball = &models.BasketballDetails{CurrentQuarter: 1}
	case models.SportCricket:
		g.Cricket = &models.CricketDetails{BattingSide: models.SideTeam1}
	}
	return g, nil
}

// Start moves a scheduled game to LIVE.
func (a *Game) Start() (*Effect, error) {
	if a.state.Status != models.GameStatusScheduled {
		return nil, ErrInvalidStatusTransition
	}
	now := a.now()
	a.state.Status = models.GameStatusLive
	a.state.StartedAt = &now
	if b := a.state.Basketball; b != nil {
		b.CurrentQuarter = 1
		b.Team1QuarterFouls = 0
		b.Team2QuarterFouls = 0
	}
	ev := a.newEvent(models.EventGameStart)
	if b := a.state.Basketball; b != nil {
		ev.Quarter = intPtr(b.CurrentQuarter)
	}
	return &Effect{
		Kind:   "game_start",
		Events: []*models.GameEvent{ev},
		Fields: map[string]any{"started_at": now},
	}, nil
}

// AdvanceQuarter closes the current basketball quarter. Closing the last regulation quarter
// finishes the game.
func (a *Game) AdvanceQuarter() (*Effect, error) {
	if err := a.requireLive(); err != nil {
		return nil, err
	}
	b, err := a.basketball()
	if err != nil {
		return nil, err
	}
	if b.CurrentQuarter >= RegulationQuarters {
		return a.finish()
	}

	ended := b.CurrentQuarter
	ev := a.newEvent(models.EventQuarterEnd)
	ev.Quarter = intPtr(ended)
	b.CurrentQuarter++
	b.Team1QuarterFouls = 0
	b.Team2QuarterFouls = 0
	return &Effect{
		Kind:   "quarter_end",
		Events: []*models.GameEvent{ev},
		Fields: map[string]any{
			"ended_quarter":   ended,
			"current_quarter": b.CurrentQuarter,
			"ended_at":        ev.CreatedAt,
		},
	}, nil
}

// End finishes a live game.
func (a *Game) End() (*Effect, error) {
	if err := a.requireLive(); err != nil {
		return nil, err
	}
	return a.finish()
}

func (a *Game) finish() (*Effect, error) {
	now := a.now()
	a.state.Status = models.GameStatusFinished
	a.state.EndedAt = &now
	a.state.WinnerTeamID = a.winner()

	var events []*models.GameEvent
	if b := a.state.Basketball; b != nil {
		qe := a.newEvent(models.EventQuarterEnd)
		qe.Quarter = intPtr(b.CurrentQuarter)
		events = append(events, qe)
	}
	events = append(events, a.newEvent(models.EventGameEnd))
	return &Effect{
		Kind:   "game_end",
		Events: events,
		Fields: map[string]any{
			"ended_at":       now,
			"winner_team_id": a.state.WinnerTeamID,
		},
	}, nil
}

// SetStatus is the administrative override. It may move between any two statuses and skips
// quarter and foul resets.
func (a *Game) SetStatus(status models.GameStatus) (*Effect, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	now := a.now()
	a.state.Status = status
	switch status {
	case models.GameStatusLive:
		if a.state.StartedAt == nil {
			a.state.StartedAt = &now
		}
		a.state.WinnerTeamID = nil
	case models.GameStatusFinished:
		if a.state.EndedAt == nil {
			a.state.EndedAt = &now
		}
		a.state.WinnerTeamID = a.winner()
	case models.GameStatusScheduled:
		a.state.WinnerTeamID = nil
	}
	return &Effect{
		Kind: "status",
		Fields: map[string]any{
			"started_at":     a.state.StartedAt,
			"ended_at":       a.state.EndedAt,
			"winner_team_id": a.state.WinnerTeamID,
		},
	}, nil
}

// winner is the team with the strictly higher score, nil on a tie.
func (a *Game) winner() *int {
	switch {
	case a.state.Team1Score > a.state.Team2Score:
		return intPtr(a.state.Team1ID)
	case a.state.Team2Score > a.state.Team1Score:
		return intPtr(a.state.Team2ID)
	}
	return nil
}
