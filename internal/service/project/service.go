package project

import (
	"context"
	"errors"
	"net/http"
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

// Service orchestrates project management.
type Service struct {
	projects repository.ProjectRepository
	engine   authz.Engine
	hub      *ws.Hub
	logger   *slog.Logger
}

// New constructs a Service.
func New(projects repository.ProjectRepository, engine authz.Engine, hub *ws.Hub, logger *slog.Logger) Service {
	return Service{projects: projects, engine: engine, hub: hub, logger: logger}
}

// CreateInput carries project creation attributes.
type CreateInput struct {
	TeamID      string
	Title       string
	Description string
	IsActive    *bool
}

// UpdateInput carries mutable project attributes. Nil fields are untouched.
type UpdateInput struct {
	Title       *string
	Description *string
	IsActive    *bool
}

// Create registers a project under a team the actor owns, respecting the
// active project cap. The cap is enforced inside the insert transaction so
// concurrent creators cannot both land the final slot.
func (s Service) Create(ctx context.Context, actorID string, input CreateInput) (*domain.Project, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, apperr.Validation(map[string][]string{"title": {"this field is required"}})
	}
	team, err := s.engine.AuthorizeProjectCreate(ctx, actorID, input.TeamID)
	if err != nil {
		return nil, err
	}
	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}
	project := &domain.Project{
		ID:          uuid.NewString(),
		TeamID:      team.ID,
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		IsActive:    active,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.projects.CreateProject(ctx, project, domain.MaxActiveProjects); err != nil {
		if errors.Is(err, repository.ErrProjectCapReached) {
			return nil, apperr.BusinessRule(http.StatusBadRequest, authz.ReasonMaxProjects)
		}
		return nil, err
	}
	s.logger.Info("project created", "project_id", project.ID, "team_id", team.ID, "actor_id", actorID)
	s.hub.Publish("project.created", team.ID, project.ID)
	return project, nil
}

// Get returns a project visible to the actor.
func (s Service) Get(ctx context.Context, actorID, projectID string) (*domain.Project, error) {
	project, err := s.get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.engine.Authorize(ctx, actorID, authz.ActionRead, authz.ProjectTarget(project)); err != nil {
		return nil, err
	}
	return project, nil
}

// List returns projects in teams the actor belongs to.
func (s Service) List(ctx context.Context, actorID string, filter repository.ProjectFilter) ([]domain.Project, error) {
	return s.projects.ListProjectsByUser(ctx, actorID, filter)
}

// Update mutates a project. Owner only.
func (s Service) Update(ctx context.Context, actorID, projectID string, input UpdateInput) (*domain.Project, error) {
	project, err := s.get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.engine.Authorize(ctx, actorID, authz.ActionUpdate, authz.ProjectTarget(project)); err != nil {
		return nil, err
	}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, apperr.Validation(map[string][]string{"title": {"this field may not be blank"}})
		}
		project.Title = title
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	if input.IsActive != nil {
		project.IsActive = *input.IsActive
	}
	if err := s.projects.UpdateProject(ctx, project); err != nil {
		return nil, err
	}
	s.logger.Info("project updated", "project_id", projectID, "actor_id", actorID)
	s.hub.Publish("project.updated", project.TeamID, project.ID)
	return project, nil
}

// Delete removes a project and its tasks. Owner only.
func (s Service) Delete(ctx context.Context, actorID, projectID string) error {
	project, err := s.get(ctx, projectID)
	if err != nil {
		return err
	}
	if err := s.engine.Authorize(ctx, actorID, authz.ActionDelete, authz.ProjectTarget(project)); err != nil {
		return err
	}
	if err := s.projects.DeleteProject(ctx, projectID); err != nil {
		return err
	}
	s.logger.Info("project deleted", "project_id", projectID, "actor_id", actorID)
	s.hub.Publish("project.deleted", project.TeamID, project.ID)
	return nil
}

func (s Service) get(ctx context.Context, projectID string) (*domain.Project, error) {
	project, err := s.projects.GetProjectByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("project not found")
		}
		return nil, err
	}
	return project, nil
}
