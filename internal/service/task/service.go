package task

import (
	"context"
	"errors"
	"strings"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"github.com/teamboard/api/internal/apperr"
	"github.com/teamboard/api/internal/authz"
	"github.com/teamboard/api/internal/domain"
	"github.com/teamboard/api/internal/repository"
	"github.com/teamboard/api/internal/ws"
)

// Service orchestrates task management.
type Service struct {
	tasks    repository.TaskRepository
	projects repository.ProjectRepository
	engine   authz.Engine
	hub      *ws.Hub
	logger   *slog.Logger
}

// New constructs a Service.
func New(tasks repository.TaskRepository, projects repository.ProjectRepository, engine authz.Engine, hub *ws.Hub, logger *slog.Logger) Service {
	return Service{tasks: tasks, projects: projects, engine: engine, hub: hub, logger: logger}
}

// CreateInput carries task creation attributes.
type CreateInput struct {
	ProjectID   string
	Title       string
	Description string
	AssigneeID  string
	Status      string
	DueDate     *time.Time
}

// UpdateInput carries mutable task attributes. Nil fields are untouched;
// Fields lists the names present in the incoming request body, which the
// authorization engine compares against the assignee allowlist.
type UpdateInput struct {
	Title       *string
	Description *string
	AssigneeID  *string
	Status      *string
	DueDate     **time.Time
	Fields      []string
}

// Create registers a task under a project whose team the actor owns.
func (s Service) Create(ctx context.Context, actorID string, input CreateInput) (*domain.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, apperr.Validation(map[string][]string{"title": {"this field is required"}})
	}
	status := input.Status
	if status == "" {
		status = domain.TaskStatusTodo
	}
	if !domain.ValidTaskStatus(status) {
		return nil, apperr.Validation(map[string][]string{"status": {"invalid status"}})
	}
	project, err := s.engine.AuthorizeTaskCreate(ctx, actorID, input.ProjectID)
	if err != nil {
		return nil, err
	}
	task := &domain.Task{
		ID:          uuid.NewString(),
		ProjectID:   project.ID,
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		AssigneeID:  input.AssigneeID,
		Status:      status,
		DueDate:     input.DueDate,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.tasks.CreateTask(ctx, task); err != nil {
		return nil, err
	}
	s.logger.Info("task created", "task_id", task.ID, "project_id", project.ID, "actor_id", actorID)
	s.hub.Publish("task.created", project.TeamID, task.ID)
	return task, nil
}

// Get returns a task visible to the actor.
func (s Service) Get(ctx context.Context, actorID, taskID string) (*domain.Task, error) {
	task, err := s.get(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.engine.Authorize(ctx, actorID, authz.ActionRead, authz.TaskTarget(task)); err != nil {
		return nil, err
	}
	return task, nil
}

// List returns tasks in teams the actor belongs to.
func (s Service) List(ctx context.Context, actorID string, filter repository.TaskFilter) ([]domain.Task, error) {
	return s.tasks.ListTasksByUser(ctx, actorID, filter)
}

// Update mutates a task. The team owner may change anything; the assignee
// may submit a mutation touching exactly the status field.
func (s Service) Update(ctx context.Context, actorID, taskID string, input UpdateInput) (*domain.Task, error) {
	task, err := s.get(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.engine.Authorize(ctx, actorID, authz.ActionUpdate, authz.TaskTarget(task, input.Fields...)); err != nil {
		return nil, err
	}
	oldStatus := task.Status
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, apperr.Validation(map[string][]string{"title": {"this field may not be blank"}})
		}
		task.Title = title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.AssigneeID != nil {
		task.AssigneeID = *input.AssigneeID
	}
	if input.Status != nil {
		if !domain.ValidTaskStatus(*input.Status) {
			return nil, apperr.Validation(map[string][]string{"status": {"invalid status"}})
		}
		task.Status = *input.Status
	}
	if input.DueDate != nil {
		task.DueDate = *input.DueDate
	}
	if err := s.tasks.UpdateTask(ctx, task); err != nil {
		return nil, err
	}
	s.logger.Info("task updated", "task_id", task.ID, "actor_id", actorID,
		"old_status", oldStatus, "new_status", task.Status)
	s.publish(ctx, "task.updated", task)
	return task, nil
}

// Delete removes a task. Team owner only.
func (s Service) Delete(ctx context.Context, actorID, taskID string) error {
	task, err := s.get(ctx, taskID)
	if err != nil {
		return err
	}
	if err := s.engine.Authorize(ctx, actorID, authz.ActionDelete, authz.TaskTarget(task)); err != nil {
		return err
	}
	if err := s.tasks.DeleteTask(ctx, taskID); err != nil {
		return err
	}
	s.logger.Info("task deleted", "task_id", taskID, "actor_id", actorID)
	s.publish(ctx, "task.deleted", task)
	return nil
}

func (s Service) get(ctx context.Context, taskID string) (*domain.Task, error) {
	task, err := s.tasks.GetTaskByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("task not found")
		}
		return nil, err
	}
	return task, nil
}

func (s Service) publish(ctx context.Context, eventType string, task *domain.Task) {
	project, err := s.projects.GetProjectByID(ctx, task.ProjectID)
	if err != nil {
		return
	}
	s.hub.Publish(eventType, project.TeamID, task.ID)
}
