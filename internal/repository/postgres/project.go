package postgres

import (
	"context"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/teamboard/api/internal/domain"
	"github.com/teamboard/api/internal/repository"
)

// CreateProject inserts a project after checking the active project cap
// against a consistent count. The team row is locked so concurrent creators
// serialize on the count check.
func (r *Repository) CreateProject(ctx context.Context, project *domain.Project, maxActive int) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var teamID string
		if err := tx.QueryRow(ctx, `SELECT id FROM teams WHERE id = $1 FOR UPDATE`, project.TeamID).Scan(&teamID); err != nil {
			return mapError(err)
		}
		var count int
		if err := tx.QueryRow(ctx, `SELECT COUNT(1) FROM projects WHERE team_id = $1 AND is_active`, project.TeamID).Scan(&count); err != nil {
			return err
		}
		if count >= maxActive {
			return repository.ErrProjectCapReached
		}
		const query = `INSERT INTO projects (id, team_id, title, description, is_active, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)`
		_, err := tx.Exec(ctx, query, project.ID, project.TeamID, project.Title, project.Description, project.IsActive, project.CreatedAt)
		return mapError(err)
	})
}

// GetProjectByID returns a project by identifier.
func (r *Repository) GetProjectByID(ctx context.Context, projectID string) (*domain.Project, error) {
	const query = `SELECT id, team_id, title, description, is_active, created_at FROM projects WHERE id = $1`
	row := r.pool.QueryRow(ctx, query, projectID)
	var p domain.Project
	if err := row.Scan(&p.ID, &p.TeamID, &p.Title, &p.Description, &p.IsActive, &p.CreatedAt); err != nil {
		return nil, mapError(err)
	}
	return &p, nil
}

// UpdateProject persists mutable project fields.
func (r *Repository) UpdateProject(ctx context.Context, project *domain.Project) error {
	const query = `UPDATE projects SET title = $2, description = $3, is_active = $4 WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, project.ID, project.Title, project.Description, project.IsActive)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteProject removes a project; its tasks cascade away.
func (r *Repository) DeleteProject(ctx context.Context, projectID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, projectID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ListProjectsByUser returns projects whose owning team the user belongs to,
// optionally narrowed by filter.
func (r *Repository) ListProjectsByUser(ctx context.Context, userID string, filter repository.ProjectFilter) ([]domain.Project, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT p.id, p.team_id, p.title, p.description, p.is_active, p.created_at
		FROM projects p
		JOIN teams t ON t.id = p.team_id
		WHERE (t.owner_id = $1 OR t.id IN (SELECT team_id FROM team_members WHERE user_id = $1))`)
	args := []any{userID}
	if filter.TeamID != "" {
		args = append(args, filter.TeamID)
		sb.WriteString(" AND p.team_id = $" + strconv.Itoa(len(args)))
	}
	if filter.IsActive != nil {
		args = append(args, *filter.IsActive)
		sb.WriteString(" AND p.is_active = $" + strconv.Itoa(len(args)))
	}
	sb.WriteString(" ORDER BY p.created_at DESC")

	rows, err := r.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var projects []domain.Project
	for rows.Next() {
		var p domain.Project
		if err := rows.Scan(&p.ID, &p.TeamID, &p.Title, &p.Description, &p.IsActive, &p.CreatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// CountActiveProjects counts active projects in a team.
func (r *Repository) CountActiveProjects(ctx context.Context, teamID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(1) FROM projects WHERE team_id = $1 AND is_active`, teamID).Scan(&count)
	return count, err
}
