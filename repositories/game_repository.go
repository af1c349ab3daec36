package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Dosada05/livescore/models"
)

var (
	ErrGameNotFound        = errors.New("game not found")
	ErrGameVersionConflict = errors.New("game version changed")
)

// GameFilter сужает List. Поля nil не фильтруют.
type GameFilter struct {
	Status *models.GameStatus
	Sport  *models.Sport
}

type GameRepository interface {
	Create(ctx context.Context, exec SQLExecutor, game *models.Game) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Game, error)
	// GetForUpdate загружает матч и держит блокировку строки до конца транзакции.
	GetForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Game, error)
	// Update записывает матч и строку его вида спорта, если сохраненная версия совпадает
	// с game.Version, и увеличивает версию.
	Update(ctx context.Context, exec SQLExecutor, game *models.Game) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
	List(ctx context.Context, exec SQLExecutor, filter GameFilter) ([]*models.Game, error)
}

type postgresGameRepository struct {
	db *sql.DB
}

func NewPostgresGameRepository(db *sql.DB) GameRepository {
	return &postgresGameRepository{db: db}
}

func (r *postgresGameRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const selectGame = `
	SELECT g.id, g.sport, g.status, g.team1_id, g.team2_id, g.team1_score, g.team2_score,
	       g.scheduled_at, g.started_at, g.ended_at, g.winner_team_id, g.version,
	       g.created_at, g.updated_at,
	       b.current_quarter, b.overtime_periods, b.team1_quarter_fouls, b.team2_quarter_fouls,
	       b.team1_timeouts, b.team2_timeouts, b.clock_stopped, b.roster_initialized,
	       c.batting_side, c.current_batsman_id, c.current_bowler_id, c.team1_wickets, c.team2_wickets
	FROM games g
	LEFT JOIN basketball_games b ON b.game_id = g.id
	LEFT JOIN cricket_games c ON c.game_id = g.id`

func (r *postgresGameRepository) Create(ctx context.Context, exec SQLExecutor, game *models.Game) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO games (sport, status, team1_id, team2_id, team1_score, team2_score, scheduled_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, version, created_at, updated_at`
	err := executor.QueryRowContext(ctx, query,
		game.Sport, game.Status, game.Team1ID, game.Team2ID, game.Team1Score, game.Team2Score, game.ScheduledAt,
	).Scan(&game.ID, &game.Version, &game.CreatedAt, &game.UpdatedAt)
	if err != nil {
		return mapPQError(err)
	}

	switch {
	case game.Basketball != nil:
		b := game.Basketball
		_, err = executor.ExecContext(ctx, `
			INSERT INTO basketball_games (game_id, current_quarter, overtime_periods, team1_quarter_fouls,
			    team2_quarter_fouls, team1_timeouts, team2_timeouts, clock_stopped, roster_initialized)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			game.ID, b.CurrentQuarter, b.OvertimePeriods, b.Team1QuarterFouls, b.Team2QuarterFouls,
			b.Team1Timeouts, b.Team2Timeouts, b.ClockStopped, b.RosterInitialized)
	case game.Cricket != nil:
		c := game.Cricket
		_, err = executor.ExecContext(ctx, `
			INSERT INTO cricket_games (game_id, batting_side, current_batsman_id, current_bowler_id,
			    team1_wickets, team2_wickets)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			game.ID, c.BattingSide, c.CurrentBatsmanID, c.CurrentBowlerID, c.Team1Wickets, c.Team2Wickets)
	}
	if err != nil {
		return fmt.Errorf("failed to create %s details for game %d: %w", game.Sport, game.ID, mapPQError(err))
	}
	return nil
}

func (r *postgresGameRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Game, error) {
	row := r.getExecutor(exec).QueryRowContext(ctx, selectGame+` WHERE g.id = $1`, id)
	return r.scanGame(row)
}

func (r *postgresGameRepository) GetForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Game, error) {
	row := r.getExecutor(exec).QueryRowContext(ctx, selectGame+` WHERE g.id = $1 FOR UPDATE OF g`, id)
	return r.scanGame(row)
}

func (r *postgresGameRepository) scanGame(row rowScanner) (*models.Game, error) {
	var (
		g       models.Game
		quarter sql.NullInt64
		ot      sql.NullInt64
		f1, f2  sql.NullInt64
		t1, t2  sql.NullInt64
		stopped sql.NullBool
		rosterS sql.NullBool
		side    sql.NullString
		batsman *int
		bowler  *int
		w1, w2  sql.NullInt64
	)
	err := row.Scan(
		&g.ID, &g.Sport, &g.Status, &g.Team1ID, &g.Team2ID, &g.Team1Score, &g.Team2Score,
		&g.ScheduledAt, &g.StartedAt, &g.EndedAt, &g.WinnerTeamID, &g.Version,
		&g.CreatedAt, &g.UpdatedAt,
		&quarter, &ot, &f1, &f2, &t1, &t2, &stopped, &rosterS,
		&side, &batsman, &bowler, &w1, &w2,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to scan game: %w", err)
	}

	if quarter.Valid {
		g.Basketball = &models.BasketballDetails{
			CurrentQuarter:    int(quarter.Int64),
			OvertimePeriods:   int(ot.Int64),
			Team1QuarterFouls: int(f1.Int64),
			Team2QuarterFouls: int(f2.Int64),
			Team1Timeouts:     int(t1.Int64),
			Team2Timeouts:     int(t2.Int64),
			ClockStopped:      stopped.Bool,
			RosterInitialized: rosterS.Bool,
		}
	}
	if side.Valid {
		g.Cricket = &models.CricketDetails{
			BattingSide:      models.Side(side.String),
			CurrentBatsmanID: batsman,
			CurrentBowlerID:  bowler,
			Team1Wickets:     int(w1.Int64),
			Team2Wickets:     int(w2.Int64),
		}
	}
	return &g, nil
}

func (r *postgresGameRepository) Update(ctx context.Context, exec SQLExecutor, game *models.Game) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE games SET
			status = $1, team1_score = $2, team2_score = $3, started_at = $4, ended_at = $5,
			winner_team_id = $6, version = version + 1, updated_at = NOW()
		WHERE id = $7 AND version = $8
		RETURNING version, updated_at`
	err := executor.QueryRowContext(ctx, query,
		game.Status, game.Team1Score, game.Team2Score, game.StartedAt, game.EndedAt,
		game.WinnerTeamID, game.ID, game.Version,
	).Scan(&game.Version, &game.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrGameVersionConflict
		}
		return fmt.Errorf("failed to update game %d: %w", game.ID, mapPQError(err))
	}

	var result sql.Result
	switch {
	case game.Basketball != nil:
		b := game.Basketball
		result, err = executor.ExecContext(ctx, `
			UPDATE basketball_games SET
				current_quarter = $1, overtime_periods = $2, team1_quarter_fouls = $3, team2_quarter_fouls = $4,
				team1_timeouts = $5, team2_timeouts = $6, clock_stopped = $7, roster_initialized = $8
			WHERE game_id = $9`,
			b.CurrentQuarter, b.OvertimePeriods, b.Team1QuarterFouls, b.Team2QuarterFouls,
			b.Team1Timeouts, b.Team2Timeouts, b.ClockStopped, b.RosterInitialized, game.ID)
	case game.Cricket != nil:
		c := game.Cricket
		result, err = executor.ExecContext(ctx, `
			UPDATE cricket_games SET
				batting_side = $1, current_batsman_id = $2, current_bowler_id = $3,
				team1_wickets = $4, team2_wickets = $5
			WHERE game_id = $6`,
			c.BattingSide, c.CurrentBatsmanID, c.CurrentBowlerID, c.Team1Wickets, c.Team2Wickets, game.ID)
	default:
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to update %s details for game %d: %w", game.Sport, game.ID, mapPQError(err))
	}
	return checkAffectedRows(result, ErrGameNotFound)
}

func (r *postgresGameRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	result, err := r.getExecutor(exec).ExecContext(ctx, `DELETE FROM games WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete game %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrGameNotFound)
}

func (r *postgresGameRepository) List(ctx context.Context, exec SQLExecutor, filter GameFilter) ([]*models.Game, error) {
	query, args := buildGameListQuery(filter)
	rows, err := r.getExecutor(exec).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query games: %w", err)
	}
	defer rows.Close()

	games := make([]*models.Game, 0)
	for rows.Next() {
		g, errScan := r.scanGame(rows)
		if errScan != nil {
			return nil, errScan
		}
		games = append(games, g)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return games, nil
}

func buildGameListQuery(filter GameFilter) (string, []interface{}) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(selectGame)

	var (
		conds []string
		args  []interface{}
	)
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conds = append(conds, "g.status = $"+strconv.Itoa(len(args)))
	}
	if filter.Sport != nil {
		args = append(args, *filter.Sport)
		conds = append(conds, "g.sport = $"+strconv.Itoa(len(args)))
	}
	if len(conds) > 0 {
		queryBuilder.WriteString(" WHERE ")
		queryBuilder.WriteString(strings.Join(conds, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY g.scheduled_at DESC, g.id DESC")
	return queryBuilder.String(), args
}
