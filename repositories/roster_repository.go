package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Dosada05/livescore/models"
)

type RosterRepository interface {
	List(ctx context.Context, exec SQLExecutor, gameID int) ([]models.ActivePlayer, error)
	// Replace удаляет все активные строки матча и вставляет rows.
	Replace(ctx context.Context, exec SQLExecutor, gameID int, rows []models.ActivePlayer) error
	Swap(ctx context.Context, exec SQLExecutor, gameID, teamID, outID, inID int) error
}

type postgresRosterRepository struct {
	db *sql.DB
}

func NewPostgresRosterRepository(db *sql.DB) RosterRepository {
	return &postgresRosterRepository{db: db}
}

func (r *postgresRosterRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresRosterRepository) List(ctx context.Context, exec SQLExecutor, gameID int) ([]models.ActivePlayer, error) {
	query := `SELECT game_id, team_id, player_id FROM active_players WHERE game_id = $1 ORDER BY team_id, player_id`
	rows, err := r.getExecutor(exec).QueryContext(ctx, query, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to query roster for game %d: %w", gameID, err)
	}
	defer rows.Close()

	roster := make([]models.ActivePlayer, 0)
	for rows.Next() {
		var ap models.ActivePlayer
		if err := rows.Scan(&ap.GameID, &ap.TeamID, &ap.PlayerID); err != nil {
			return nil, fmt.Errorf("failed to scan active player: %w", err)
		}
		roster = append(roster, ap)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return roster, nil
}

func (r *postgresRosterRepository) Replace(ctx context.Context, exec SQLExecutor, gameID int, rows []models.ActivePlayer) error {
	executor := r.getExecutor(exec)
	if _, err := executor.ExecContext(ctx, `DELETE FROM active_players WHERE game_id = $1`, gameID); err != nil {
		return fmt.Errorf("failed to clear roster for game %d: %w", gameID, err)
	}
	for _, row := range rows {
		if err := r.insert(ctx, executor, gameID, row.TeamID, row.PlayerID); err != nil {
			return err
		}
	}
	return nil
}

func (r *postgresRosterRepository) Swap(ctx context.Context, exec SQLExecutor, gameID, teamID, outID, inID int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx,
		`DELETE FROM active_players WHERE game_id = $1 AND team_id = $2 AND player_id = $3`, gameID, teamID, outID)
	if err != nil {
		return fmt.Errorf("failed to remove player %d from roster: %w", outID, err)
	}
	if err := checkAffectedRows(result, ErrPlayerNotFound); err != nil {
		return err
	}
	return r.insert(ctx, executor, gameID, teamID, inID)
}

func (r *postgresRosterRepository) insert(ctx context.Context, exec SQLExecutor, gameID, teamID, playerID int) error {
	_, err := exec.ExecContext(ctx,
		`INSERT INTO active_players (game_id, team_id, player_id) VALUES ($1, $2, $3)`, gameID, teamID, playerID)
	if err != nil {
		return fmt.Errorf("failed to add player %d to roster: %w", playerID, mapPQError(err))
	}
	return nil
}
