package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/livescore/models"
)

var ErrPlayerStatNotFound = errors.New("player stat not found")

type StatRepository interface {
	Get(ctx context.Context, exec SQLExecutor, gameID, playerID int) (*models.PlayerStat, error)
	GetOrCreate(ctx context.Context, exec SQLExecutor, gameID, playerID, teamID int) (*models.PlayerStat, error)
	Update(ctx context.Context, exec SQLExecutor, stat *models.PlayerStat) error
	// SeedForGame создает нулевую строку для каждого игрока обеих команд.
	SeedForGame(ctx context.Context, exec SQLExecutor, gameID, team1ID, team2ID int) error
	ListByGame(ctx context.Context, exec SQLExecutor, gameID int) ([]models.PlayerStat, error)
}

type postgresStatRepository struct {
	db *sql.DB
}

func NewPostgresStatRepository(db *sql.DB) StatRepository {
	return &postgresStatRepository{db: db}
}

func (r *postgresStatRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresStatRepository) Get(ctx context.Context, exec SQLExecutor, gameID, playerID int) (*models.PlayerStat, error) {
	var s models.PlayerStat
	query := `
		SELECT game_id, player_id, team_id, points, runs, balls, wickets, updated_at
		FROM player_stats
		WHERE game_id = $1 AND player_id = $2`
	err := r.getExecutor(exec).QueryRowContext(ctx, query, gameID, playerID).Scan(
		&s.GameID, &s.PlayerID, &s.TeamID, &s.Points, &s.Runs, &s.Balls, &s.Wickets, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerStatNotFound
		}
		return nil, fmt.Errorf("failed to get stat g:%d p:%d: %w", gameID, playerID, err)
	}
	return &s, nil
}

func (r *postgresStatRepository) GetOrCreate(ctx context.Context, exec SQLExecutor, gameID, playerID, teamID int) (*models.PlayerStat, error) {
	executor := r.getExecutor(exec)
	stat, err := r.Get(ctx, executor, gameID, playerID)
	if err == nil {
		return stat, nil
	}
	if !errors.Is(err, ErrPlayerStatNotFound) {
		return nil, err
	}

	stat = &models.PlayerStat{GameID: gameID, PlayerID: playerID, TeamID: teamID}
	query := `
		INSERT INTO player_stats (game_id, player_id, team_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (game_id, player_id) DO UPDATE SET team_id = player_stats.team_id
		RETURNING points, runs, balls, wickets, updated_at`
	err = executor.QueryRowContext(ctx, query, gameID, playerID, teamID).Scan(
		&stat.Points, &stat.Runs, &stat.Balls, &stat.Wickets, &stat.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create stat g:%d p:%d: %w", gameID, playerID, mapPQError(err))
	}
	return stat, nil
}

func (r *postgresStatRepository) Update(ctx context.Context, exec SQLExecutor, stat *models.PlayerStat) error {
	query := `
		UPDATE player_stats SET points = $1, runs = $2, balls = $3, wickets = $4, updated_at = NOW()
		WHERE game_id = $5 AND player_id = $6`
	result, err := r.getExecutor(exec).ExecContext(ctx, query,
		stat.Points, stat.Runs, stat.Balls, stat.Wickets, stat.GameID, stat.PlayerID,
	)
	if err != nil {
		return fmt.Errorf("failed to update stat g:%d p:%d: %w", stat.GameID, stat.PlayerID, mapPQError(err))
	}
	return checkAffectedRows(result, ErrPlayerStatNotFound)
}

func (r *postgresStatRepository) SeedForGame(ctx context.Context, exec SQLExecutor, gameID, team1ID, team2ID int) error {
	query := `
		INSERT INTO player_stats (game_id, player_id, team_id)
		SELECT $1, p.id, p.team_id FROM players p WHERE p.team_id IN ($2, $3)
		ON CONFLICT (game_id, player_id) DO NOTHING`
	if _, err := r.getExecutor(exec).ExecContext(ctx, query, gameID, team1ID, team2ID); err != nil {
		return fmt.Errorf("failed to seed stats for game %d: %w", gameID, mapPQError(err))
	}
	return nil
}

func (r *postgresStatRepository) ListByGame(ctx context.Context, exec SQLExecutor, gameID int) ([]models.PlayerStat, error) {
	query := `
		SELECT s.game_id, s.player_id, s.team_id, s.points, s.runs, s.balls, s.wickets, s.updated_at, p.name
		FROM player_stats s
		JOIN players p ON p.id = s.player_id
		WHERE s.game_id = $1
		ORDER BY s.team_id ASC, s.points DESC, s.runs DESC, p.name ASC`
	rows, err := r.getExecutor(exec).QueryContext(ctx, query, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to query stats for game %d: %w", gameID, err)
	}
	defer rows.Close()

	stats := make([]models.PlayerStat, 0)
	for rows.Next() {
		var s models.PlayerStat
		if err := rows.Scan(&s.GameID, &s.PlayerID, &s.TeamID, &s.Points, &s.Runs, &s.Balls, &s.Wickets, &s.UpdatedAt, &s.PlayerName); err != nil {
			return nil, fmt.Errorf("failed to scan stat: %w", err)
		}
		stats = append(stats, s)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return stats, nil
}
