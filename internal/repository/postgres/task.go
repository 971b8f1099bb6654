package postgres

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"github.com/teamboard/api/internal/domain"
	"github.com/teamboard/api/internal/repository"
)

// CreateTask inserts a task.
func (r *Repository) CreateTask(ctx context.Context, task *domain.Task) error {
	const query = `INSERT INTO tasks (id, project_id, title, description, assignee_id, status, due_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.pool.Exec(ctx, query, task.ID, task.ProjectID, task.Title, task.Description,
		nullableID(task.AssigneeID), task.Status, task.DueDate, task.CreatedAt)
	return mapError(err)
}

// GetTaskByID returns a task by identifier.
func (r *Repository) GetTaskByID(ctx context.Context, taskID string) (*domain.Task, error) {
	const query = `SELECT id, project_id, title, description, COALESCE(assignee_id, ''), status, due_date, created_at
		FROM tasks WHERE id = $1`
	row := r.pool.QueryRow(ctx, query, taskID)
	var t domain.Task
	if err := row.Scan(&t.ID, &t.ProjectID, &t.Title, &t.Description, &t.AssigneeID, &t.Status, &t.DueDate, &t.CreatedAt); err != nil {
		return nil, mapError(err)
	}
	return &t, nil
}

// UpdateTask persists mutable task fields.
func (r *Repository) UpdateTask(ctx context.Context, task *domain.Task) error {
	const query = `UPDATE tasks SET title = $2, description = $3, assignee_id = $4, status = $5, due_date = $6 WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, task.ID, task.Title, task.Description,
		nullableID(task.AssigneeID), task.Status, task.DueDate)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteTask removes a task.
func (r *Repository) DeleteTask(ctx context.Context, taskID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, taskID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ListTasksByUser returns tasks whose owning team the user belongs to,
// optionally narrowed by filter.
func (r *Repository) ListTasksByUser(ctx context.Context, userID string, filter repository.TaskFilter) ([]domain.Task, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT k.id, k.project_id, k.title, k.description, COALESCE(k.assignee_id, ''), k.status, k.due_date, k.created_at
		FROM tasks k
		JOIN projects p ON p.id = k.project_id
		JOIN teams t ON t.id = p.team_id
		WHERE (t.owner_id = $1 OR t.id IN (SELECT team_id FROM team_members WHERE user_id = $1))`)
	args := []any{userID}
	if filter.ProjectID != "" {
		args = append(args, filter.ProjectID)
		sb.WriteString(" AND k.project_id = $" + strconv.Itoa(len(args)))
	}
	if filter.AssigneeID != "" {
		args = append(args, filter.AssigneeID)
		sb.WriteString(" AND k.assignee_id = $" + strconv.Itoa(len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		sb.WriteString(" AND k.status = $" + strconv.Itoa(len(args)))
	}
	if filter.DueBefore != nil {
		args = append(args, *filter.DueBefore)
		sb.WriteString(" AND k.due_date <= $" + strconv.Itoa(len(args)))
	}
	if filter.DueAfter != nil {
		args = append(args, *filter.DueAfter)
		sb.WriteString(" AND k.due_date >= $" + strconv.Itoa(len(args)))
	}
	sb.WriteString(" ORDER BY k.created_at DESC")

	rows, err := r.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var tasks []domain.Task
	for rows.Next() {
		var t domain.Task
		if err := rows.Scan(&t.ID, &t.ProjectID, &t.Title, &t.Description, &t.AssigneeID, &t.Status, &t.DueDate, &t.CreatedAt); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func nullableID(id string) sql.NullString {
	return sql.NullString{String: id, Valid: id != ""}
}
