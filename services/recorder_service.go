package services

import (
	"context"

	"github.com/Dosada05/livescore/scoring"
)

type RecorderService interface {
	RecordScore(ctx context.Context, gameID int, in scoring.ScoreInput) (*MutationResult, error)
	RecordRuns(ctx context.Context, gameID int, runs int) (*MutationResult, error)
	RecordWicket(ctx context.Context, gameID int) (*MutationResult, error)
	RecordShot(ctx context.Context, gameID int, in scoring.ShotInput) (*MutationResult, error)
	RecordFoul(ctx context.Context, gameID int, in scoring.FoulInput) (*MutationResult, error)
	RecordSubstitution(ctx context.Context, gameID int, in scoring.SubstitutionInput) (*MutationResult, error)
	RecordTimeout(ctx context.Context, gameID int, teamID int) (*MutationResult, error)
	StartStoppage(ctx context.Context, gameID int, reason string) (*MutationResult, error)
	EndStoppage(ctx context.Context, gameID int) (*MutationResult, error)
	SetCricketState(ctx context.Context, gameID int, in scoring.CricketStateInput) (*MutationResult, error)
}

type recorderService struct {
	store *GameStore
}

func NewRecorderService(store *GameStore) RecorderService {
	return &recorderService{store: store}
}

func (s *recorderService) RecordScore(ctx context.Context, gameID int, in scoring.ScoreInput) (*MutationResult, error) {
	return s.store.mutate(ctx, gameID, "record_score", pure(func(g *scoring.Game) (*scoring.Effect, error) {
		return g.RecordScore(in)
	}))
}

func (s *recorderService) RecordRuns(ctx context.Context, gameID int, runs int) (*MutationResult, error) {
	return s.store.mutate(ctx, gameID, "record_runs", pure(func(g *scoring.Game) (*scoring.Effect, error) {
		return g.RecordRuns(runs)
	}))
}

func (s *recorderService) RecordWicket(ctx context.Context, gameID int) (*MutationResult, error) {
	return s.store.mutate(ctx, gameID, "record_wicket", pure((*scoring.Game).RecordWicket))
}

func (s *recorderService) RecordShot(ctx context.Context, gameID int, in scoring.ShotInput) (*MutationResult, error) {
	return s.store.mutate(ctx, gameID, "shot", pure(func(g *scoring.Game) (*scoring.Effect, error) {
		return g.RecordShot(in)
	}))
}

func (s *recorderService) RecordFoul(ctx context.Context, gameID int, in scoring.FoulInput) (*MutationResult, error) {
	return s.store.mutate(ctx, gameID, "foul", pure(func(g *scoring.Game) (*scoring.Effect, error) {
		return g.RecordFoul(in)
	}))
}

func (s *recorderService) RecordSubstitution(ctx context.Context, gameID int, in scoring.SubstitutionInput) (*MutationResult, error) {
	return s.store.mutate(ctx, gameID, "substitution", pure(func(g *scoring.Game) (*scoring.Effect, error) {
		return g.RecordSubstitution(in)
	}))
}

func (s *recorderService) RecordTimeout(ctx context.Context, gameID int, teamID int) (*MutationResult, error) {
	return s.store.mutate(ctx, gameID, "timeout", pure(func(g *scoring.Game) (*scoring.Effect, error) {
		return g.RecordTimeout(teamID)
	}))
}

func (s *recorderService) StartStoppage(ctx context.Context, gameID int, reason string) (*MutationResult, error) {
	return s.store.mutate(ctx, gameID, "stoppage_start", pure(func(g *scoring.Game) (*scoring.Effect, error) {
		return g.StartStoppage(reason)
	}))
}

func (s *recorderService) EndStoppage(ctx context.Context, gameID int) (*MutationResult, error) {
	return s.store.mutate(ctx, gameID, "stoppage_end", pure((*scoring.Game).EndStoppage))
}

func (s *recorderService) SetCricketState(ctx context.Context, gameID int, in scoring.CricketStateInput) (*MutationResult, error) {
	return s.store.mutate(ctx, gameID, "cricket_state", pure(func(g *scoring.Game) (*scoring.Effect, error) {
		return g.SetCricketState(in)
	}))
}
