package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/livescore/fixtures"
	"github.com/Dosada05/livescore/live"
	"github.com/Dosada05/livescore/models"
	"github.com/Dosada05/livescore/repositories"
	"github.com/Dosada05/livescore/scoring"
)

// DefaultFixtureInterval задает интервал между турами кругового турнира, если он не указан.
const DefaultFixtureInterval = 7 * 24 * time.Hour

type CreateGameInput struct {
	Sport   models.Sport
	Team1ID int
	Team2ID int
	// По умолчанию ScheduledAt равно времени создания.
	ScheduledAt *time.Time
}

type RoundRobinInput struct {
	Sport    models.Sport
	TeamIDs  []int
	Legs     int
	FirstAt  time.Time
	Interval time.Duration
}

type LifecycleService interface {
	CreateGame(ctx context.Context, in CreateGameInput) (*models.Game, error)
	DeleteGame(ctx context.Context, gameID int) error
	ScheduleRoundRobin(ctx context.Context, in RoundRobinInput) ([]*models.Game, error)

	Start(ctx context.Context, gameID int) (*MutationResult, error)
	AdvanceQuarter(ctx context.Context, gameID int) (*MutationResult, error)
	End(ctx context.Context, gameID int) (*MutationResult, error)
	SetStatus(ctx context.Context, gameID int, status models.GameStatus) (*MutationResult, error)
}

type lifecycleService struct {
	store    *GameStore
	archiver *BoxScoreArchiver
	logger   *slog.Logger
}

// NewLifecycleService создает контроллер жизненного цикла. archiver может быть nil,
// если объектное хранилище не настроено.
func NewLifecycleService(store *GameStore, archiver *BoxScoreArchiver, logger *slog.Logger) LifecycleService {
	return &lifecycleService{store: store, archiver: archiver, logger: logger}
}

func (s *lifecycleService) CreateGame(ctx context.Context, in CreateGameInput) (*models.Game, error) {
	ctx, span := tracer.Start(ctx, "game.create")
	defer span.End()

	var game *models.Game
	err := s.store.repos.Tx.WithinTx(ctx, func(ctx context.Context, tx repositories.SQLExecutor) error {
		at := s.store.now()
		if in.ScheduledAt != nil {
			at = *in.ScheduledAt
		}
		g, err := s.createGame(ctx, tx, in.Sport, in.Team1ID, in.Team2ID, at)
		if err != nil {
			return err
		}
		game = g
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "game created",
		slog.Int("game_id", game.ID),
		slog.String("sport", string(game.Sport)))
	s.store.publisher.Publish(live.NewUpdate("game_created", game, map[string]any{
		"team1_id":     game.Team1ID,
		"team2_id":     game.Team2ID,
		"scheduled_at": game.ScheduledAt,
	}))
	return game, nil
}

func (s *lifecycleService) createGame(ctx context.Context, tx repositories.SQLExecutor, sport models.Sport, team1ID, team2ID int, at time.Time) (*models.Game, error) {
	game, err := scoring.NewGameState(sport, team1ID, team2ID)
	if err != nil {
		return nil, err
	}
	teams, err := s.store.repos.Teams.ListByIDs(ctx, tx, []int{team1ID, team2ID})
	if err != nil {
		return nil, fmt.Errorf("failed to load teams: %w", err)
	}
	if len(teams) != 2 {
		return nil, scoring.ErrTeamNotFound
	}
	game.ScheduledAt = at

	if err = s.store.repos.Games.Create(ctx, tx, game); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", translateRepoError(err))
	}
	if err = s.store.repos.Stats.SeedForGame(ctx, tx, game.ID, team1ID, team2ID); err != nil {
		return nil, fmt.Errorf("failed to seed stats of game %d: %w", game.ID, translateRepoError(err))
	}
	return game, nil
}

func (s *lifecycleService) DeleteGame(ctx context.Context, gameID int) error {
	ctx, span := tracer.Start(ctx, "game.delete")
	defer span.End()

	unlock := s.store.locks.lock(gameID)
	defer unlock()

	var game *models.Game
	err := s.store.repos.Tx.WithinTx(ctx, func(ctx context.Context, tx repositories.SQLExecutor) error {
		g, err := s.store.repos.Games.GetForUpdate(ctx, tx, gameID)
		if err != nil {
			return translateRepoError(err)
		}
		if err = s.store.repos.Games.Delete(ctx, tx, gameID); err != nil {
			return translateRepoError(err)
		}
		game = g
		return nil
	})
	if err != nil {
		return err
	}

	if s.archiver != nil && game.Status == models.GameStatusFinished {
		s.archiver.Discard(ctx, game)
	}
	s.logger.InfoContext(ctx, "game deleted", slog.Int("game_id", gameID))
	s.store.publisher.Publish(live.NewUpdate("game_deleted", game, nil))
	return nil
}

func (s *lifecycleService) ScheduleRoundRobin(ctx context.Context, in RoundRobinInput) ([]*models.Game, error) {
	ctx, span := tracer.Start(ctx, "game.schedule_round_robin")
	defer span.End()

	if !in.Sport.Valid() {
		return nil, scoring.ErrInvalidSport
	}
	if in.FirstAt.IsZero() {
		in.FirstAt = s.store.now()
	}
	if in.Interval <= 0 {
		in.Interval = DefaultFixtureInterval
	}
	schedule, err := fixtures.GenerateRoundRobin(fixtures.RoundRobinParams{
		TeamIDs:  in.TeamIDs,
		Legs:     in.Legs,
		FirstAt:  in.FirstAt,
		Interval: in.Interval,
	})
	if err != nil {
		return nil, err
	}

	games := make([]*models.Game, 0, len(schedule))
	err = s.store.repos.Tx.WithinTx(ctx, func(ctx context.Context, tx repositories.SQLExecutor) error {
		for _, f := range schedule {
			g, errCreate := s.createGame(ctx, tx, in.Sport, f.Team1ID, f.Team2ID, f.ScheduledAt)
			if errCreate != nil {
				return fmt.Errorf("round %d, %d vs %d: %w", f.Round, f.Team1ID, f.Team2ID, errCreate)
			}
			games = append(games, g)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "round robin scheduled",
		slog.String("sport", string(in.Sport)),
		slog.Int("teams", len(in.TeamIDs)),
		slog.Int("games", len(games)))
	for _, g := range games {
		s.store.publisher.Publish(live.NewUpdate("game_created", g, map[string]any{
			"team1_id":     g.Team1ID,
			"team2_id":     g.Team2ID,
			"scheduled_at": g.ScheduledAt,
		}))
	}
	return games, nil
}

func (s *lifecycleService) Start(ctx context.Context, gameID int) (*MutationResult, error) {
	return s.store.mutate(ctx, gameID, "start_game", pure((*scoring.Game).Start))
}

func (s *lifecycleService) AdvanceQuarter(ctx context.Context, gameID int) (*MutationResult, error) {
	return s.finishing(s.store.mutate(ctx, gameID, "next_quarter", pure((*scoring.Game).AdvanceQuarter)))
}

func (s *lifecycleService) End(ctx context.Context, gameID int) (*MutationResult, error) {
	return s.finishing(s.store.mutate(ctx, gameID, "end_game", pure((*scoring.Game).End)))
}

func (s *lifecycleService) SetStatus(ctx context.Context, gameID int, status models.GameStatus) (*MutationResult, error) {
	return s.finishing(s.store.mutate(ctx, gameID, "set_status", pure(func(g *scoring.Game) (*scoring.Effect, error) {
		return g.SetStatus(status)
	})))
}

// finishing передает завершенный матч архиватору после коммита транзакции.
func (s *lifecycleService) finishing(res *MutationResult, err error) (*MutationResult, error) {
	if err != nil || res == nil {
		return res, err
	}
	if res.Game.Status == models.GameStatusFinished {
		s.logger.Info("game finished",
			slog.Int("game_id", res.Game.ID),
			slog.Int("team1_score", res.Game.Team1Score),
			slog.Int("team2_score", res.Game.Team2Score))
		if s.archiver != nil {
			s.archiver.Archive(res.Game.ID)
		}
	}
	return res, nil
}
