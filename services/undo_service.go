package services

import (
	"context"
	"errors"

	"github.com/Dosada05/livescore/models"
	"github.com/Dosada05/livescore/repositories"
	"github.com/Dosada05/livescore/scoring"
)

// UndoService снимает последнюю обратимую запись журнала матча. Если отменять нечего,
// все методы возвращают nil.
type UndoService interface {
	UndoLast(ctx context.Context, gameID int, teamID *int) (*MutationResult, error)
	UndoLastShot(ctx context.Context, gameID int) (*MutationResult, error)
	UndoLastFoul(ctx context.Context, gameID int) (*MutationResult, error)
	UndoLastSubstitution(ctx context.Context, gameID int) (*MutationResult, error)
}

type undoService struct {
	store *GameStore
}

func NewUndoService(store *GameStore) UndoService {
	return &undoService{store: store}
}

func (s *undoService) UndoLast(ctx context.Context, gameID int, teamID *int) (*MutationResult, error) {
	return s.undo(ctx, gameID, "undo_last", models.ReversibleKinds, teamID)
}

func (s *undoService) UndoLastShot(ctx context.Context, gameID int) (*MutationResult, error) {
	return s.undo(ctx, gameID, "undo_last_shot", []models.EventKind{models.EventShot}, nil)
}

func (s *undoService) UndoLastFoul(ctx context.Context, gameID int) (*MutationResult, error) {
	return s.undo(ctx, gameID, "undo_last_foul", []models.EventKind{models.EventFoul}, nil)
}

func (s *undoService) UndoLastSubstitution(ctx context.Context, gameID int) (*MutationResult, error) {
	return s.undo(ctx, gameID, "undo_last_substitution", []models.EventKind{models.EventSubstitution}, nil)
}

func (s *undoService) undo(ctx context.Context, gameID int, name string, kinds []models.EventKind, teamID *int) (*MutationResult, error) {
	return s.store.mutate(ctx, gameID, name, func(ctx context.Context, tx repositories.SQLExecutor, g *scoring.Game) (*scoring.Effect, error) {
		ev, err := s.store.repos.Events.Latest(ctx, tx, gameID, kinds, teamID)
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return g.Undo(ev)
	})
}
