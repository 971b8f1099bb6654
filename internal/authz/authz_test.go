package authz

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/teamboard/api/internal/apperr"
	"github.com/teamboard/api/internal/domain"
	"github.com/teamboard/api/internal/repository"
)

type stubTeamRepo struct {
	teams map[string]domain.Team
}

func (s *stubTeamRepo) CreateTeam(ctx context.Context, team *domain.Team) error { return nil }
func (s *stubTeamRepo) GetTeamByID(ctx context.Context, teamID string) (*domain.Team, error) {
	if team, ok := s.teams[teamID]; ok {
		return &team, nil
	}
	return nil, repository.ErrNotFound
}
func (s *stubTeamRepo) UpdateTeam(ctx context.Context, team *domain.Team) error  { return nil }
func (s *stubTeamRepo) DeleteTeam(ctx context.Context, teamID string) error      { return nil }
func (s *stubTeamRepo) ReplaceMembers(ctx context.Context, teamID string, memberIDs []string) error {
	return nil
}
func (s *stubTeamRepo) ListTeamsByUser(ctx context.Context, userID string) ([]domain.Team, error) {
	return nil, nil
}

type stubProjectRepo struct {
	projects map[string]domain.Project
}

func (s *stubProjectRepo) CreateProject(ctx context.Context, project *domain.Project, maxActive int) error {
	return nil
}
func (s *stubProjectRepo) GetProjectByID(ctx context.Context, projectID string) (*domain.Project, error) {
	if project, ok := s.projects[projectID]; ok {
		return &project, nil
	}
	return nil, repository.ErrNotFound
}
func (s *stubProjectRepo) UpdateProject(ctx context.Context, project *domain.Project) error {
	return nil
}
func (s *stubProjectRepo) DeleteProject(ctx context.Context, projectID string) error { return nil }
func (s *stubProjectRepo) ListProjectsByUser(ctx context.Context, userID string, filter repository.ProjectFilter) ([]domain.Project, error) {
	return nil, nil
}
func (s *stubProjectRepo) CountActiveProjects(ctx context.Context, teamID string) (int, error) {
	return 0, nil
}

func testEngine() Engine {
	teams := &stubTeamRepo{teams: map[string]domain.Team{
		"team-1": {ID: "team-1", Name: "core", OwnerID: "owner-1", Members: []string{"owner-1", "member-1", "assignee-1"}},
	}}
	projects := &stubProjectRepo{projects: map[string]domain.Project{
		"project-1": {ID: "project-1", TeamID: "team-1", Title: "backend", IsActive: true},
	}}
	return New(teams, projects)
}

func denialStatus(t *testing.T, err error) (int, string) {
	t.Helper()
	var app *apperr.Error
	if !errors.As(err, &app) {
		t.Fatalf("expected *apperr.Error, got %v", err)
	}
	return app.Status, app.Message
}

func TestTeamReadRequiresMembership(t *testing.T) {
	engine := testEngine()
	team := &domain.Team{ID: "team-1", OwnerID: "owner-1", Members: []string{"owner-1", "member-1"}}

	if err := engine.Authorize(context.Background(), "member-1", ActionRead, TeamTarget(team)); err != nil {
		t.Fatalf("member read denied: %v", err)
	}
	err := engine.Authorize(context.Background(), "stranger", ActionRead, TeamTarget(team))
	status, msg := denialStatus(t, err)
	if status != http.StatusForbidden || msg != ReasonMemberRequired {
		t.Fatalf("unexpected denial: status=%d msg=%q", status, msg)
	}
}

func TestTeamMutationRequiresOwner(t *testing.T) {
	engine := testEngine()
	team := &domain.Team{ID: "team-1", OwnerID: "owner-1", Members: []string{"owner-1", "member-1"}}

	for _, action := range []Action{ActionUpdate, ActionDelete} {
		if err := engine.Authorize(context.Background(), "owner-1", action, TeamTarget(team)); err != nil {
			t.Fatalf("owner %s denied: %v", action, err)
		}
		err := engine.Authorize(context.Background(), "member-1", action, TeamTarget(team))
		status, msg := denialStatus(t, err)
		if status != http.StatusForbidden || msg != ReasonOwnerRequired {
			t.Fatalf("%s: unexpected denial status=%d msg=%q", action, status, msg)
		}
	}
}

func TestProjectRulesDeriveFromOwningTeam(t *testing.T) {
	engine := testEngine()
	project := &domain.Project{ID: "project-1", TeamID: "team-1"}

	if err := engine.Authorize(context.Background(), "member-1", ActionRead, ProjectTarget(project)); err != nil {
		t.Fatalf("member read denied: %v", err)
	}
	if err := engine.Authorize(context.Background(), "stranger", ActionRead, ProjectTarget(project)); err == nil {
		t.Fatal("expected denial for non-member read")
	}
	err := engine.Authorize(context.Background(), "member-1", ActionUpdate, ProjectTarget(project))
	status, _ := denialStatus(t, err)
	if status != http.StatusForbidden {
		t.Fatalf("expected 403 for member update, got %d", status)
	}
	if err := engine.Authorize(context.Background(), "owner-1", ActionDelete, ProjectTarget(project)); err != nil {
		t.Fatalf("owner delete denied: %v", err)
	}
}

func TestProjectCreateChain(t *testing.T) {
	engine := testEngine()

	_, err := engine.AuthorizeProjectCreate(context.Background(), "owner-1", "")
	status, msg := denialStatus(t, err)
	if status != http.StatusBadRequest || msg != ReasonTeamRequired {
		t.Fatalf("missing team id: status=%d msg=%q", status, msg)
	}

	_, err = engine.AuthorizeProjectCreate(context.Background(), "owner-1", "no-such-team")
	status, _ = denialStatus(t, err)
	if status != http.StatusNotFound {
		t.Fatalf("missing team: expected 404, got %d", status)
	}

	_, err = engine.AuthorizeProjectCreate(context.Background(), "member-1", "team-1")
	status, _ = denialStatus(t, err)
	if status != http.StatusForbidden {
		t.Fatalf("non-owner create: expected 403, got %d", status)
	}

	team, err := engine.AuthorizeProjectCreate(context.Background(), "owner-1", "team-1")
	if err != nil {
		t.Fatalf("owner create denied: %v", err)
	}
	if team.ID != "team-1" {
		t.Fatalf("unexpected team resolved: %s", team.ID)
	}
}

func TestTaskCreateChain(t *testing.T) {
	engine := testEngine()

	_, err := engine.AuthorizeTaskCreate(context.Background(), "owner-1", "")
	status, msg := denialStatus(t, err)
	if status != http.StatusBadRequest || msg != ReasonProjectRequired {
		t.Fatalf("missing project id: status=%d msg=%q", status, msg)
	}

	_, err = engine.AuthorizeTaskCreate(context.Background(), "owner-1", "no-such-project")
	status, _ = denialStatus(t, err)
	if status != http.StatusNotFound {
		t.Fatalf("missing project: expected 404, got %d", status)
	}

	_, err = engine.AuthorizeTaskCreate(context.Background(), "member-1", "project-1")
	status, _ = denialStatus(t, err)
	if status != http.StatusForbidden {
		t.Fatalf("non-owner create: expected 403, got %d", status)
	}

	project, err := engine.AuthorizeTaskCreate(context.Background(), "owner-1", "project-1")
	if err != nil {
		t.Fatalf("owner create denied: %v", err)
	}
	if project.ID != "project-1" {
		t.Fatalf("unexpected project resolved: %s", project.ID)
	}
}

func TestAssigneeMayOnlyChangeStatus(t *testing.T) {
	engine := testEngine()
	task := &domain.Task{ID: "task-1", ProjectID: "project-1", AssigneeID: "assignee-1", Status: domain.TaskStatusTodo}

	if err := engine.Authorize(context.Background(), "assignee-1", ActionUpdate, TaskTarget(task, "status")); err != nil {
		t.Fatalf("assignee status update denied: %v", err)
	}

	err := engine.Authorize(context.Background(), "assignee-1", ActionUpdate, TaskTarget(task, "status", "due_date"))
	status, msg := denialStatus(t, err)
	if status != http.StatusForbidden || msg != ReasonAssigneeStatus {
		t.Fatalf("status+due_date: status=%d msg=%q", status, msg)
	}

	err = engine.Authorize(context.Background(), "assignee-1", ActionUpdate, TaskTarget(task))
	if _, msg := denialStatus(t, err); msg != ReasonAssigneeStatus {
		t.Fatalf("empty field set should deny with %q, got %q", ReasonAssigneeStatus, msg)
	}

	err = engine.Authorize(context.Background(), "member-1", ActionUpdate, TaskTarget(task, "status"))
	if _, msg := denialStatus(t, err); msg != ReasonTaskModifyDeny {
		t.Fatalf("non-assignee member should deny with %q, got %q", ReasonTaskModifyDeny, msg)
	}

	if err := engine.Authorize(context.Background(), "owner-1", ActionUpdate, TaskTarget(task, "title", "status")); err != nil {
		t.Fatalf("owner update denied: %v", err)
	}
}

func TestTaskReadRequiresMembershipEvenForAssignee(t *testing.T) {
	engine := testEngine()
	// assignee outside the team: membership is still the gate
	task := &domain.Task{ID: "task-1", ProjectID: "project-1", AssigneeID: "outsider"}

	err := engine.Authorize(context.Background(), "outsider", ActionRead, TaskTarget(task))
	status, msg := denialStatus(t, err)
	if status != http.StatusForbidden || msg != ReasonMemberRequired {
		t.Fatalf("outsider read: status=%d msg=%q", status, msg)
	}

	err = engine.Authorize(context.Background(), "outsider", ActionUpdate, TaskTarget(task, "status"))
	if _, msg := denialStatus(t, err); msg != ReasonMemberRequired {
		t.Fatalf("outsider assignee update should fail membership first, got %q", msg)
	}
}

func TestFieldSetEquals(t *testing.T) {
	allow := map[string]struct{}{"status": {}}
	cases := []struct {
		name   string
		fields []string
		want   bool
	}{
		{"exact", []string{"status"}, true},
		{"duplicate", []string{"status", "status"}, true},
		{"empty", nil, false},
		{"extra", []string{"status", "title"}, false},
		{"other", []string{"title"}, false},
	}
	for _, tc := range cases {
		if got := fieldSetEquals(tc.fields, allow); got != tc.want {
			t.Errorf("%s: fieldSetEquals(%v) = %v, want %v", tc.name, tc.fields, got, tc.want)
		}
	}
}
