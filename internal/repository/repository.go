package repository

import (
	"context"
	"time"

	"github.com/teamboard/api/internal/domain"
)

// ProjectFilter narrows project listings.
type ProjectFilter struct {
	TeamID   string
	IsActive *bool
}

// TaskFilter narrows task listings.
type TaskFilter struct {
	ProjectID  string
	AssigneeID string
	Status     string
	DueBefore  *time.Time
	DueAfter   *time.Time
}

// UserRepository persists users.
type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
	ListActiveUsers(ctx context.Context, excludeID string) ([]domain.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// TeamRepository manages teams and memberships.
type TeamRepository interface {
	CreateTeam(ctx context.Context, team *domain.Team) error
	GetTeamByID(ctx context.Context, teamID string) (*domain.Team, error)
	UpdateTeam(ctx context.Context, team *domain.Team) error
	DeleteTeam(ctx context.Context, teamID string) error
	ReplaceMembers(ctx context.Context, teamID string, memberIDs []string) error
	ListTeamsByUser(ctx context.Context, userID string) ([]domain.Team, error)
}

// ProjectRepository persists projects. CreateProject enforces the active
// project cap against a consistent count inside a single transaction and
// returns ErrProjectCapReached when the team is full.
type ProjectRepository interface {
	CreateProject(ctx context.Context, project *domain.Project, maxActive int) error
	GetProjectByID(ctx context.Context, projectID string) (*domain.Project, error)
	UpdateProject(ctx context.Context, project *domain.Project) error
	DeleteProject(ctx context.Context, projectID string) error
	ListProjectsByUser(ctx context.Context, userID string, filter ProjectFilter) ([]domain.Project, error)
	CountActiveProjects(ctx context.Context, teamID string) (int, error)
}

// TaskRepository persists tasks.
type TaskRepository interface {
	CreateTask(ctx context.Context, task *domain.Task) error
	GetTaskByID(ctx context.Context, taskID string) (*domain.Task, error)
	UpdateTask(ctx context.Context, task *domain.Task) error
	DeleteTask(ctx context.Context, taskID string) error
	ListTasksByUser(ctx context.Context, userID string, filter TaskFilter) ([]domain.Task, error)
}
