// Package authz computes access decisions for teams, projects and tasks.
// Every decision is derived from the owning team: child resources walk up
// the Task → Project → Team tree before any rule is evaluated. An allowed
// action returns a nil error; a denial returns an *apperr.Error carrying
// the reason and HTTP status.
package authz

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/teamboard/api/internal/apperr"
	"github.com/teamboard/api/internal/domain"
	"github.com/teamboard/api/internal/repository"
)

// Action is the kind of access being requested.
type Action int

const (
	ActionRead Action = iota
	ActionCreate
	ActionUpdate
	ActionDelete
)

func (a Action) String() string {
	switch a {
	case ActionRead:
		return "read"
	case ActionCreate:
		return "create"
	case ActionUpdate:
		return "update"
	case ActionDelete:
		return "delete"
	}
	return "unknown"
}

// Denial reasons surfaced to callers.
const (
	ReasonMemberRequired    = "must be a team member"
	ReasonOwnerRequired     = "only team owner may perform this action"
	ReasonTeamRequired      = "team required"
	ReasonProjectRequired   = "project required"
	ReasonProjectCreateDeny = "only the team owner may create projects in this team"
	ReasonTaskCreateDeny    = "only the team owner may create tasks in this project"
	ReasonAssigneeStatus    = "assigned users may only change status"
	ReasonTaskModifyDeny    = "not authorized to modify this task"
	ReasonMaxProjects       = "maximum projects reached"
)

// statusMutationOnly is the field allowlist granted to a task's assignee.
// Updates are compared against it by exact set equality: touching anything
// beyond status rejects the whole mutation.
var statusMutationOnly = map[string]struct{}{"status": {}}

type targetKind int

const (
	kindTeam targetKind = iota
	kindProject
	kindTask
)

// Target identifies the object (or intended parent, for create) a decision
// is requested for.
type Target struct {
	kind         targetKind
	team         *domain.Team
	project      *domain.Project
	task         *domain.Task
	updateFields []string
}

// TeamTarget wraps an existing team.
func TeamTarget(team *domain.Team) Target {
	return Target{kind: kindTeam, team: team}
}

// ProjectTarget wraps an existing project.
func ProjectTarget(project *domain.Project) Target {
	return Target{kind: kindProject, project: project}
}

// TaskTarget wraps an existing task. For updates, fields must list the
// field names present in the incoming mutation.
func TaskTarget(task *domain.Task, fields ...string) Target {
	return Target{kind: kindTask, task: task, updateFields: fields}
}

// Engine resolves owning teams and applies per-resource rules.
type Engine struct {
	teams    repository.TeamRepository
	projects repository.ProjectRepository
}

// New constructs an Engine.
func New(teams repository.TeamRepository, projects repository.ProjectRepository) Engine {
	return Engine{teams: teams, projects: projects}
}

// Authorize decides whether the actor may perform action on target. Create
// decisions for child resources go through AuthorizeProjectCreate and
// AuthorizeTaskCreate instead, since those resolve the intended parent.
func (e Engine) Authorize(ctx context.Context, actorID string, action Action, target Target) error {
	team, err := e.owningTeam(ctx, target)
	if err != nil {
		return err
	}
	switch target.kind {
	case kindTeam:
		if action == ActionUpdate || action == ActionDelete {
			return requireOwner(team, actorID, ReasonOwnerRequired)
		}
		return requireMember(team, actorID)
	case kindProject:
		if action == ActionUpdate || action == ActionDelete {
			return requireOwner(team, actorID, ReasonOwnerRequired)
		}
		return requireMember(team, actorID)
	case kindTask:
		if err := requireMember(team, actorID); err != nil {
			return err
		}
		if action == ActionUpdate || action == ActionDelete {
			return e.authorizeTaskMutation(team, target.task, actorID, target.updateFields)
		}
		return nil
	}
	return fmt.Errorf("authz: unknown target kind %d", target.kind)
}

// AuthorizeProjectCreate checks that the actor may create a project under
// teamID and returns the resolved team on success.
func (e Engine) AuthorizeProjectCreate(ctx context.Context, actorID, teamID string) (*domain.Team, error) {
	if teamID == "" {
		return nil, apperr.BusinessRule(http.StatusBadRequest, ReasonTeamRequired)
	}
	team, err := e.teams.GetTeamByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("team not found")
		}
		return nil, err
	}
	if team.OwnerID != actorID {
		return nil, apperr.Forbidden(ReasonProjectCreateDeny)
	}
	return team, nil
}

// AuthorizeTaskCreate checks that the actor may create a task under
// projectID and returns the resolved project on success.
func (e Engine) AuthorizeTaskCreate(ctx context.Context, actorID, projectID string) (*domain.Project, error) {
	if projectID == "" {
		return nil, apperr.BusinessRule(http.StatusBadRequest, ReasonProjectRequired)
	}
	project, err := e.projects.GetProjectByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("project not found")
		}
		return nil, err
	}
	team, err := e.teams.GetTeamByID(ctx, project.TeamID)
	if err != nil {
		return nil, err
	}
	if team.OwnerID != actorID {
		return nil, apperr.Forbidden(ReasonTaskCreateDeny)
	}
	return project, nil
}

// owningTeam walks a target up to its team. This is the single place the
// ownership hierarchy is traversed.
func (e Engine) owningTeam(ctx context.Context, target Target) (*domain.Team, error) {
	switch target.kind {
	case kindTeam:
		return target.team, nil
	case kindProject:
		return e.teamByID(ctx, target.project.TeamID)
	case kindTask:
		project, err := e.projects.GetProjectByID(ctx, target.task.ProjectID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperr.NotFound("project not found")
			}
			return nil, err
		}
		return e.teamByID(ctx, project.TeamID)
	}
	return nil, fmt.Errorf("authz: unknown target kind %d", target.kind)
}

func (e Engine) teamByID(ctx context.Context, teamID string) (*domain.Team, error) {
	team, err := e.teams.GetTeamByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("team not found")
		}
		return nil, err
	}
	return team, nil
}

// authorizeTaskMutation applies the owner/assignee rules for task updates
// and deletes. The owner may do anything; the assignee may change exactly
// the status field; everyone else is denied.
func (e Engine) authorizeTaskMutation(team *domain.Team, task *domain.Task, actorID string, fields []string) error {
	if actorID == team.OwnerID {
		return nil
	}
	if task.AssigneeID != "" && task.AssigneeID == actorID {
		if fieldSetEquals(fields, statusMutationOnly) {
			return nil
		}
		return apperr.Forbidden(ReasonAssigneeStatus)
	}
	return apperr.Forbidden(ReasonTaskModifyDeny)
}

func requireMember(team *domain.Team, actorID string) error {
	if team.IsMember(actorID) {
		return nil
	}
	return apperr.Forbidden(ReasonMemberRequired)
}

func requireOwner(team *domain.Team, actorID, reason string) error {
	if team.OwnerID == actorID {
		return nil
	}
	return apperr.Forbidden(reason)
}

// fieldSetEquals reports whether fields is exactly the allowlist, ignoring
// duplicates. An empty field set never matches.
func fieldSetEquals(fields []string, allow map[string]struct{}) bool {
	if len(fields) == 0 {
		return false
	}
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if _, ok := allow[f]; !ok {
			return false
		}
		seen[f] = struct{}{}
	}
	return len(seen) == len(allow)
}
