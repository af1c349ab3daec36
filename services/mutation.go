package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Dosada05/livescore/live"
	"github.com/Dosada05/livescore/models"
	"github.com/Dosada05/livescore/repositories"
	"github.com/Dosada05/livescore/scoring"
)

var tracer = otel.Tracer("github.com/Dosada05/livescore/services")

// MutationResult описывает результат изменяющей операции для транспортного слоя.
type MutationResult struct {
	Game   *models.Game        `json:"game"`
	Events []*models.GameEvent `json:"events,omitempty"`
	Undone *models.GameEvent   `json:"undone,omitempty"`
	Stats  []models.PlayerStat `json:"stats,omitempty"`
}

// Repositories собирает репозитории, нужные сервисам матчей.
type Repositories struct {
	Tx      repositories.TxRunner
	Games   repositories.GameRepository
	Teams   repositories.TeamRepository
	Players repositories.PlayerRepository
	Stats   repositories.StatRepository
	Events  repositories.EventRepository
	Rosters repositories.RosterRepository
}

type operation func(ctx context.Context, tx repositories.SQLExecutor, g *scoring.Game) (*scoring.Effect, error)

// GameStore реализует единственный путь записи: загрузить агрегат под блокировкой, выполнить одну
// операцию, сохранить ее Effect в той же транзакции и затем опубликовать.
type GameStore struct {
	repos     Repositories
	locks     *gameLocks
	publisher live.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewGameStore создает общий путь записи. Все пишущие сервисы процесса должны использовать
// один экземпляр, иначе блокировки матчей не будут общими.
func NewGameStore(repos Repositories, publisher live.Publisher, logger *slog.Logger) *GameStore {
	return &GameStore{
		repos:     repos,
		locks:     newGameLocks(),
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// mutate возвращает nil и nil, если операции нечего было делать.
func (s *GameStore) mutate(ctx context.Context, gameID int, name string, op operation) (res *MutationResult, err error) {
	ctx, span := tracer.Start(ctx, "game."+name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.Int("game.id", gameID)))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	unlock := s.locks.lock(gameID)
	defer unlock()

	var (
		eff   *scoring.Effect
		state *models.Game
	)
	err = s.repos.Tx.WithinTx(ctx, func(ctx context.Context, tx repositories.SQLExecutor) error {
		g, errLoad := s.load(ctx, tx, gameID)
		if errLoad != nil {
			return errLoad
		}
		e, errOp := op(ctx, tx, g)
		if errOp != nil {
			return s.explainPlayerError(ctx, tx, errOp)
		}
		if e == nil {
			return nil
		}
		r, errPersist := s.persist(ctx, tx, g, e)
		if errPersist != nil {
			return errPersist
		}
		eff, state, res = e, g.State(), r
		return nil
	})
	if err != nil {
		return nil, err
	}
	if eff == nil {
		return nil, nil
	}

	span.SetAttributes(attribute.String("game.effect", eff.Kind))
	s.publisher.Publish(live.NewUpdate(eff.Kind, state, eff.Fields))
	return res, nil
}

func (s *GameStore) load(ctx context.Context, tx repositories.SQLExecutor, gameID int) (*scoring.Game, error) {
	state, err := s.repos.Games.GetForUpdate(ctx, tx, gameID)
	if err != nil {
		return nil, translateRepoError(err)
	}
	rows, err := s.repos.Rosters.List(ctx, tx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster of game %d: %w", gameID, err)
	}
	players, err := s.repos.Players.ListByTeams(ctx, tx, []int{state.Team1ID, state.Team2ID})
	if err != nil {
		return nil, fmt.Errorf("failed to load players of game %d: %w", gameID, err)
	}
	return scoring.NewGame(state, scoring.NewRoster(false, rows), players, s.now), nil
}

// explainPlayerError отличает несуществующего игрока от игрока,
// который не играет ни за одну из команд.
func (s *GameStore) explainPlayerError(ctx context.Context, tx repositories.SQLExecutor, err error) error {
	var notInGame *scoring.PlayerNotInGameError
	if !errors.As(err, &notInGame) {
		return err
	}
	if _, errGet := s.repos.Players.GetByID(ctx, tx, notInGame.PlayerID); errors.Is(errGet, repositories.ErrPlayerNotFound) {
		return fmt.Errorf("%w (player %d)", scoring.ErrPlayerNotFound, notInGame.PlayerID)
	}
	return err
}

func (s *GameStore) persist(ctx context.Context, tx repositories.SQLExecutor, g *scoring.Game, eff *scoring.Effect) (*MutationResult, error) {
	state := g.State()
	if err := s.repos.Games.Update(ctx, tx, state); err != nil {
		return nil, translateRepoError(err)
	}

	if rc := eff.Roster; rc != nil {
		var err error
		if rc.Replace {
			err = s.repos.Rosters.Replace(ctx, tx, state.ID, g.Roster().Rows(state.ID))
		} else {
			err = s.repos.Rosters.Swap(ctx, tx, state.ID, rc.TeamID, rc.Out, rc.In)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to write roster of game %d: %w", state.ID, translateRepoError(err))
		}
	}

	res := &MutationResult{Game: state, Undone: eff.Remove}
	clamped := eff.Clamped
	for _, d := range eff.StatDeltas {
		stat, err := s.repos.Stats.GetOrCreate(ctx, tx, state.ID, d.PlayerID, d.TeamID)
		if err != nil {
			return nil, fmt.Errorf("failed to load stat of player %d: %w", d.PlayerID, translateRepoError(err))
		}
		if scoring.ApplyStatDelta(stat, d) {
			clamped = true
		}
		if err = s.repos.Stats.Update(ctx, tx, stat); err != nil {
			return nil, fmt.Errorf("failed to update stat of player %d: %w", d.PlayerID, translateRepoError(err))
		}
		res.Stats = append(res.Stats, *stat)
	}

	if eff.Remove != nil {
		if err := s.repos.Events.Delete(ctx, tx, eff.Remove.ID); err != nil {
			return nil, fmt.Errorf("failed to delete event %d: %w", eff.Remove.ID, err)
		}
	}
	for _, ev := range eff.Events {
		if err := s.repos.Events.Append(ctx, tx, ev); err != nil {
			return nil, fmt.Errorf("failed to append %s event: %w", ev.Kind, translateRepoError(err))
		}
		res.Events = append(res.Events, ev)
	}

	if clamped {
		s.logger.WarnContext(ctx, "decrement clamped at zero",
			slog.Int("game_id", state.ID),
			slog.String("effect", eff.Kind))
	}
	return res, nil
}

// pure оборачивает вызов агрегата, которому транзакция не нужна.
func pure(fn func(g *scoring.Game) (*scoring.Effect, error)) operation {
	return func(_ context.Context, _ repositories.SQLExecutor, g *scoring.Game) (*scoring.Effect, error) {
		return fn(g)
	}
}
