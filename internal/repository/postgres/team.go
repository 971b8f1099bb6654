package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/teamboard/api/internal/domain"
	"github.com/teamboard/api/internal/repository"
)

const teamSelect = `SELECT t.id, t.name, t.owner_id, t.created_at,
	COALESCE(array_agg(m.user_id ORDER BY m.user_id) FILTER (WHERE m.user_id IS NOT NULL), '{}')
	FROM teams t
	LEFT JOIN team_members m ON m.team_id = t.id`

// CreateTeam inserts a team and its initial membership rows. The owner is
// always written into team_members.
func (r *Repository) CreateTeam(ctx context.Context, team *domain.Team) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		const query = `INSERT INTO teams (id, name, owner_id, created_at) VALUES ($1, $2, $3, $4)`
		if _, err := tx.Exec(ctx, query, team.ID, team.Name, team.OwnerID, team.CreatedAt); err != nil {
			return mapError(err)
		}
		return insertMembers(ctx, tx, team.ID, withOwner(team.Members, team.OwnerID))
	})
}

// GetTeamByID returns a team with its members loaded.
func (r *Repository) GetTeamByID(ctx context.Context, teamID string) (*domain.Team, error) {
	query := teamSelect + ` WHERE t.id = $1 GROUP BY t.id`
	row := r.pool.QueryRow(ctx, query, teamID)
	var team domain.Team
	if err := row.Scan(&team.ID, &team.Name, &team.OwnerID, &team.CreatedAt, &team.Members); err != nil {
		return nil, mapError(err)
	}
	return &team, nil
}

// UpdateTeam persists name changes.
func (r *Repository) UpdateTeam(ctx context.Context, team *domain.Team) error {
	tag, err := r.pool.Exec(ctx, `UPDATE teams SET name = $2 WHERE id = $1`, team.ID, team.Name)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteTeam removes a team; projects and tasks cascade away.
func (r *Repository) DeleteTeam(ctx context.Context, teamID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM teams WHERE id = $1`, teamID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ReplaceMembers swaps the membership set. The owner is re-added so the
// owner-in-members invariant survives arbitrary member lists.
func (r *Repository) ReplaceMembers(ctx context.Context, teamID string, memberIDs []string) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var ownerID string
		if err := tx.QueryRow(ctx, `SELECT owner_id FROM teams WHERE id = $1 FOR UPDATE`, teamID).Scan(&ownerID); err != nil {
			return mapError(err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM team_members WHERE team_id = $1`, teamID); err != nil {
			return err
		}
		return insertMembers(ctx, tx, teamID, withOwner(memberIDs, ownerID))
	})
}

// ListTeamsByUser returns teams the user owns or belongs to.
func (r *Repository) ListTeamsByUser(ctx context.Context, userID string) ([]domain.Team, error) {
	query := teamSelect + `
		WHERE t.owner_id = $1 OR t.id IN (SELECT team_id FROM team_members WHERE user_id = $1)
		GROUP BY t.id ORDER BY t.name`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var teams []domain.Team
	for rows.Next() {
		var team domain.Team
		if err := rows.Scan(&team.ID, &team.Name, &team.OwnerID, &team.CreatedAt, &team.Members); err != nil {
			return nil, err
		}
		teams = append(teams, team)
	}
	return teams, rows.Err()
}

func insertMembers(ctx context.Context, tx pgx.Tx, teamID string, memberIDs []string) error {
	for _, userID := range memberIDs {
		const query = `INSERT INTO team_members (team_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
		if _, err := tx.Exec(ctx, query, teamID, userID); err != nil {
			return fmt.Errorf("insert member %s: %w", userID, err)
		}
	}
	return nil
}

func withOwner(memberIDs []string, ownerID string) []string {
	for _, id := range memberIDs {
		if id == ownerID {
			return memberIDs
		}
	}
	return append(append([]string(nil), memberIDs...), ownerID)
}
