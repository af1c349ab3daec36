package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/livescore/models"
	"github.com/lib/pq"
)

var (
	ErrTeamNotFound   = errors.New("team not found")
	ErrPlayerNotFound = errors.New("player not found")
)

type TeamRepository interface {
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Team, error)
	ListByIDs(ctx context.Context, exec SQLExecutor, ids []int) ([]models.Team, error)
	List(ctx context.Context, exec SQLExecutor) ([]models.Team, error)
}

type PlayerRepository interface {
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Player, error)
	ListByTeams(ctx context.Context, exec SQLExecutor, teamIDs []int) ([]models.Player, error)
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func scanTeam(row rowScanner) (*models.Team, error) {
	var t models.Team
	if err := row.Scan(&t.ID, &t.Name, &t.LeaderID, &t.LogoKey, &t.CreatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Team, error) {
	query := `SELECT id, name, leader_id, logo_key, created_at FROM teams WHERE id = $1`
	team, err := scanTeam(r.getExecutor(exec).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team %d: %w", id, err)
	}
	return team, nil
}

func (r *postgresTeamRepository) ListByIDs(ctx context.Context, exec SQLExecutor, ids []int) ([]models.Team, error) {
	query := `SELECT id, name, leader_id, logo_key, created_at FROM teams WHERE id = ANY($1) ORDER BY name ASC, id ASC`
	return r.list(ctx, exec, query, pq.Array(ids))
}

func (r *postgresTeamRepository) List(ctx context.Context, exec SQLExecutor) ([]models.Team, error) {
	query := `SELECT id, name, leader_id, logo_key, created_at FROM teams ORDER BY name ASC, id ASC`
	return r.list(ctx, exec, query)
}

func (r *postgresTeamRepository) list(ctx context.Context, exec SQLExecutor, query string, args ...interface{}) ([]models.Team, error) {
	rows, err := r.getExecutor(exec).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query teams: %w", err)
	}
	defer rows.Close()

	teams := make([]models.Team, 0)
	for rows.Next() {
		t, errScan := scanTeam(rows)
		if errScan != nil {
			return nil, fmt.Errorf("failed to scan team: %w", errScan)
		}
		teams = append(teams, *t)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return teams, nil
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

func (r *postgresPlayerRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresPlayerRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Player, error) {
	var p models.Player
	query := `SELECT id, name, team_id, updated_at FROM players WHERE id = $1`
	err := r.getExecutor(exec).QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Name, &p.TeamID, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player %d: %w", id, err)
	}
	return &p, nil
}

func (r *postgresPlayerRepository) ListByTeams(ctx context.Context, exec SQLExecutor, teamIDs []int) ([]models.Player, error) {
	query := `SELECT id, name, team_id, updated_at FROM players WHERE team_id = ANY($1) ORDER BY team_id ASC, name ASC, id ASC`
	rows, err := r.getExecutor(exec).QueryContext(ctx, query, pq.Array(teamIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	players := make([]models.Player, 0)
	for rows.Next() {
		var p models.Player
		if err := rows.Scan(&p.ID, &p.Name, &p.TeamID, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, p)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return players, nil
}
