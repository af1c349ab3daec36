package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/livescore/models"
	"github.com/lib/pq"
)

var ErrEventNotFound = errors.New("game event not found")

// EventRepository ведет единый журнал событий матча (только добавление). Порядок по id,
// который растет в порядке добавления.
type EventRepository interface {
	Append(ctx context.Context, exec SQLExecutor, ev *models.GameEvent) error
	// Latest возвращает самое новое событие одного из kinds, опционально только для teamID.
	Latest(ctx context.Context, exec SQLExecutor, gameID int, kinds []models.EventKind, teamID *int) (*models.GameEvent, error)
	Delete(ctx context.Context, exec SQLExecutor, id int64) error
	ListByGame(ctx context.Context, exec SQLExecutor, gameID int) ([]models.GameEvent, error)
	ListRecent(ctx context.Context, exec SQLExecutor, gameID, limit int) ([]models.GameEvent, error)
	ListShots(ctx context.Context, exec SQLExecutor) ([]models.ShotRecord, error)
}

type postgresEventRepository struct {
	db *sql.DB
}

func NewPostgresEventRepository(db *sql.DB) EventRepository {
	return &postgresEventRepository{db: db}
}

func (r *postgresEventRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const eventColumns = `id, game_id, kind, sport, team_id, player_id, points, runs, wicket, batting_side,
	quarter, game_clock, shot_type, shot_result, foul_type, shots_awarded, fouled_player_id,
	player_out_id, player_in_id, note, created_at`

func (r *postgresEventRepository) Append(ctx context.Context, exec SQLExecutor, ev *models.GameEvent) error {
	query := `
		INSERT INTO game_events (game_id, kind, sport, team_id, player_id, points, runs, wicket, batting_side,
		    quarter, game_clock, shot_type, shot_result, foul_type, shots_awarded, fouled_player_id,
		    player_out_id, player_in_id, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		RETURNING id`
	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		ev.GameID, ev.Kind, ev.Sport, ev.TeamID, ev.PlayerID, ev.Points, ev.Runs, ev.Wicket, ev.BattingSide,
		ev.Quarter, ev.GameClock, ev.ShotType, ev.ShotResult, ev.FoulType, ev.ShotsAwarded, ev.FouledPlayerID,
		ev.PlayerOutID, ev.PlayerInID, ev.Note, ev.CreatedAt,
	).Scan(&ev.ID)
	if err != nil {
		return fmt.Errorf("failed to append %s event for game %d: %w", ev.Kind, ev.GameID, mapPQError(err))
	}
	return nil
}

func scanEvent(row rowScanner) (*models.GameEvent, error) {
	var ev models.GameEvent
	err := row.Scan(
		&ev.ID, &ev.GameID, &ev.Kind, &ev.Sport, &ev.TeamID, &ev.PlayerID, &ev.Points, &ev.Runs, &ev.Wicket,
		&ev.BattingSide, &ev.Quarter, &ev.GameClock, &ev.ShotType, &ev.ShotResult, &ev.FoulType,
		&ev.ShotsAwarded, &ev.FouledPlayerID, &ev.PlayerOutID, &ev.PlayerInID, &ev.Note, &ev.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

func (r *postgresEventRepository) Latest(ctx context.Context, exec SQLExecutor, gameID int, kinds []models.EventKind, teamID *int) (*models.GameEvent, error) {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	query := `SELECT ` + eventColumns + `
		FROM game_events
		WHERE game_id = $1 AND kind = ANY($2) AND ($3::int IS NULL OR team_id = $3)
		ORDER BY id DESC
		LIMIT 1`
	ev, err := scanEvent(r.getExecutor(exec).QueryRowContext(ctx, query, gameID, pq.Array(names), teamID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get latest event for game %d: %w", gameID, err)
	}
	return ev, nil
}

func (r *postgresEventRepository) Delete(ctx context.Context, exec SQLExecutor, id int64) error {
	result, err := r.getExecutor(exec).ExecContext(ctx, `DELETE FROM game_events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete event %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrEventNotFound)
}

func (r *postgresEventRepository) ListByGame(ctx context.Context, exec SQLExecutor, gameID int) ([]models.GameEvent, error) {
	query := `SELECT ` + eventColumns + ` FROM game_events WHERE game_id = $1 ORDER BY id ASC`
	return r.list(ctx, exec, query, gameID)
}

func (r *postgresEventRepository) ListRecent(ctx context.Context, exec SQLExecutor, gameID, limit int) ([]models.GameEvent, error) {
	query := `SELECT ` + eventColumns + ` FROM game_events WHERE game_id = $1 ORDER BY id DESC LIMIT $2`
	return r.list(ctx, exec, query, gameID, limit)
}

func (r *postgresEventRepository) list(ctx context.Context, exec SQLExecutor, query string, args ...interface{}) ([]models.GameEvent, error) {
	rows, err := r.getExecutor(exec).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	events := make([]models.GameEvent, 0)
	for rows.Next() {
		ev, errScan := scanEvent(rows)
		if errScan != nil {
			return nil, fmt.Errorf("failed to scan event: %w", errScan)
		}
		events = append(events, *ev)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func (r *postgresEventRepository) ListShots(ctx context.Context, exec SQLExecutor) ([]models.ShotRecord, error) {
	query := `
		SELECT e.game_id, e.player_id, p.name, p.team_id, t.name, e.shot_type, e.shot_result, e.points
		FROM game_events e
		JOIN players p ON p.id = e.player_id
		JOIN teams t ON t.id = p.team_id
		WHERE e.kind = $1 AND e.sport = $2`
	rows, err := r.getExecutor(exec).QueryContext(ctx, query, models.EventShot, models.SportBasketball)
	if err != nil {
		return nil, fmt.Errorf("failed to query shots: %w", err)
	}
	defer rows.Close()

	shots := make([]models.ShotRecord, 0)
	for rows.Next() {
		var s models.ShotRecord
		if err := rows.Scan(&s.GameID, &s.PlayerID, &s.PlayerName, &s.TeamID, &s.TeamName, &s.ShotType, &s.ShotResult, &s.Points); err != nil {
			return nil, fmt.Errorf("failed to scan shot: %w", err)
		}
		shots = append(shots, s)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return shots, nil
}
