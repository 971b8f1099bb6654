package team

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
)

// Service handles team workflows.
type Service struct {
	teams  repository.TeamRepository
	engine authz.Engine
	logger *slog.Logger
}

// New constructs a Service.
func New(teams repository.TeamRepository, engine authz.Engine, logger *slog.Logger) Service {
	return Service{teams: teams, engine: engine, logger: logger}
}

// UpdateInput carries mutable team attributes. Nil fields are untouched.
type UpdateInput struct {
	Name      *string
	MemberIDs *[]string
}

// Create registers a team. The creator becomes owner and is always part of
// the members set.
func (s Service) Create(ctx context.Context, ownerID, name string, memberIDs []string) (*domain.Team, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperr.Validation(map[string][]string{"name": {"this field is required"}})
	}
	team := &domain.Team{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(name),
		OwnerID:   ownerID,
		Members:   memberIDs,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.teams.CreateTeam(ctx, team); err != nil {
		return nil, err
	}
	created, err := s.teams.GetTeamByID(ctx, team.ID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("team created", "team_id", team.ID, "owner_id", ownerID)
	return created, nil
}

// Get returns a team visible to the actor.
func (s Service) Get(ctx context.Context, actorID, teamID string) (*domain.Team, error) {
	team, err := s.get(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if err := s.engine.Authorize(ctx, actorID, authz.ActionRead, authz.TeamTarget(team)); err != nil {
		return nil, err
	}
	return team, nil
}

// List returns teams the actor owns or belongs to.
func (s Service) List(ctx context.Context, actorID string) ([]domain.Team, error) {
	return s.teams.ListTeamsByUser(ctx, actorID)
}

// Update renames a team and/or replaces its member set. Owner only; the
// owner is re-added after any member replacement.
func (s Service) Update(ctx context.Context, actorID, teamID string, input UpdateInput) (*domain.Team, error) {
	team, err := s.get(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if err := s.engine.Authorize(ctx, actorID, authz.ActionUpdate, authz.TeamTarget(team)); err != nil {
		return nil, err
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperr.Validation(map[string][]string{"name": {"this field may not be blank"}})
		}
		team.Name = name
		if err := s.teams.UpdateTeam(ctx, team); err != nil {
			return nil, err
		}
	}
	if input.MemberIDs != nil {
		if err := s.teams.ReplaceMembers(ctx, teamID, *input.MemberIDs); err != nil {
			return nil, err
		}
	}
	updated, err := s.teams.GetTeamByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("team updated", "team_id", teamID, "actor_id", actorID)
	return updated, nil
}

// Delete removes a team; projects and tasks underneath cascade away.
func (s Service) Delete(ctx context.Context, actorID, teamID string) error {
	team, err := s.get(ctx, teamID)
	if err != nil {
		return err
	}
	if err := s.engine.Authorize(ctx, actorID, authz.ActionDelete, authz.TeamTarget(team)); err != nil {
		return err
	}
	if err := s.teams.DeleteTeam(ctx, teamID); err != nil {
		return err
	}
	s.logger.Info("team deleted", "team_id", teamID, "actor_id", actorID)
	return nil
}

func (s Service) get(ctx context.Context, teamID string) (*domain.Team, error) {
	team, err := s.teams.GetTeamByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("team not found")
		}
		return nil, err
	}
	return team, nil
}
