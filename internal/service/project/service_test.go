package project

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	"log/slog"

	"github.com/teamboard/api/internal/apperr"
	"github.com/teamboard/api/internal/authz"
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
func (s *stubTeamRepo) UpdateTeam(ctx context.Context, team *domain.Team) error { return nil }
func (s *stubTeamRepo) DeleteTeam(ctx context.Context, teamID string) error     { return nil }
func (s *stubTeamRepo) ReplaceMembers(ctx context.Context, teamID string, memberIDs []string) error {
	return nil
}
func (s *stubTeamRepo) ListTeamsByUser(ctx context.Context, userID string) ([]domain.Team, error) {
	return nil, nil
}

type stubProjectRepo struct {
	projects   map[string]domain.Project
	created    []domain.Project
	updated    []domain.Project
	deleted    []string
	maxActive  int
	capReached bool
}

func (s *stubProjectRepo) CreateProject(ctx context.Context, project *domain.Project, maxActive int) error {
	s.maxActive = maxActive
	if s.capReached {
		return repository.ErrProjectCapReached
	}
	s.created = append(s.created, *project)
	return nil
}
func (s *stubProjectRepo) GetProjectByID(ctx context.Context, projectID string) (*domain.Project, error) {
	if project, ok := s.projects[projectID]; ok {
		return &project, nil
	}
	return nil, repository.ErrNotFound
}
func (s *stubProjectRepo) UpdateProject(ctx context.Context, project *domain.Project) error {
	s.updated = append(s.updated, *project)
	return nil
}
func (s *stubProjectRepo) DeleteProject(ctx context.Context, projectID string) error {
	s.deleted = append(s.deleted, projectID)
	return nil
}
func (s *stubProjectRepo) ListProjectsByUser(ctx context.Context, userID string, filter repository.ProjectFilter) ([]domain.Project, error) {
	return nil, nil
}
func (s *stubProjectRepo) CountActiveProjects(ctx context.Context, teamID string) (int, error) {
	return len(s.created), nil
}

func newTestService() (Service, *stubProjectRepo) {
	teams := &stubTeamRepo{teams: map[string]domain.Team{
		"team-1": {ID: "team-1", Name: "core", OwnerID: "owner-1", Members: []string{"owner-1", "member-1"}},
	}}
	projects := &stubProjectRepo{projects: map[string]domain.Project{
		"project-1": {ID: "project-1", TeamID: "team-1", Title: "backend", IsActive: true},
	}}
	engine := authz.New(teams, projects)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(projects, engine, nil, log), projects
}

func appError(t *testing.T, err error) *apperr.Error {
	t.Helper()
	var app *apperr.Error
	if !errors.As(err, &app) {
		t.Fatalf("expected *apperr.Error, got %v", err)
	}
	return app
}

func TestCreateByOwner(t *testing.T) {
	svc, repo := newTestService()

	project, err := svc.Create(context.Background(), "owner-1", CreateInput{TeamID: "team-1", Title: "  mobile app  "})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if project.Title != "mobile app" {
		t.Fatalf("title = %q", project.Title)
	}
	if !project.IsActive {
		t.Fatal("new project should default to active")
	}
	if project.ID == "" {
		t.Fatal("project id not assigned")
	}
	if repo.maxActive != domain.MaxActiveProjects {
		t.Fatalf("cap passed to repository = %d, want %d", repo.maxActive, domain.MaxActiveProjects)
	}
	if len(repo.created) != 1 {
		t.Fatalf("created %d projects", len(repo.created))
	}
}

func TestCreateRequiresTitle(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Create(context.Background(), "owner-1", CreateInput{TeamID: "team-1", Title: "   "})
	app := appError(t, err)
	if app.Status != http.StatusBadRequest {
		t.Fatalf("status = %d", app.Status)
	}
	fields, ok := app.Details.(map[string][]string)
	if !ok || len(fields["title"]) == 0 {
		t.Fatalf("details = %v", app.Details)
	}
}

func TestCreateRequiresTeamOwner(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Create(context.Background(), "member-1", CreateInput{TeamID: "team-1", Title: "mobile"})
	app := appError(t, err)
	if app.Status != http.StatusForbidden || app.Message != authz.ReasonProjectCreateDeny {
		t.Fatalf("status=%d msg=%q", app.Status, app.Message)
	}

	_, err = svc.Create(context.Background(), "owner-1", CreateInput{Title: "mobile"})
	if app := appError(t, err); app.Status != http.StatusBadRequest || app.Message != authz.ReasonTeamRequired {
		t.Fatalf("missing team id: status=%d msg=%q", app.Status, app.Message)
	}
}

func TestCreateCapReached(t *testing.T) {
	svc, repo := newTestService()
	repo.capReached = true

	_, err := svc.Create(context.Background(), "owner-1", CreateInput{TeamID: "team-1", Title: "one too many"})
	app := appError(t, err)
	if app.Status != http.StatusBadRequest {
		t.Fatalf("status = %d", app.Status)
	}
	if app.Message != authz.ReasonMaxProjects {
		t.Fatalf("message = %q", app.Message)
	}
}

func TestUpdateOwnerOnly(t *testing.T) {
	svc, repo := newTestService()
	title := "renamed"

	_, err := svc.Update(context.Background(), "member-1", "project-1", UpdateInput{Title: &title})
	if app := appError(t, err); app.Status != http.StatusForbidden {
		t.Fatalf("member update: status = %d", app.Status)
	}

	project, err := svc.Update(context.Background(), "owner-1", "project-1", UpdateInput{Title: &title})
	if err != nil {
		t.Fatalf("owner update failed: %v", err)
	}
	if project.Title != "renamed" {
		t.Fatalf("title = %q", project.Title)
	}
	if len(repo.updated) != 1 {
		t.Fatalf("updated %d projects", len(repo.updated))
	}
}

func TestUpdateRejectsBlankTitle(t *testing.T) {
	svc, _ := newTestService()
	blank := "  "

	_, err := svc.Update(context.Background(), "owner-1", "project-1", UpdateInput{Title: &blank})
	if app := appError(t, err); app.Status != http.StatusBadRequest {
		t.Fatalf("status = %d", app.Status)
	}
}

func TestGetUnknownProject(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Get(context.Background(), "owner-1", "nope")
	if app := appError(t, err); app.Status != http.StatusNotFound {
		t.Fatalf("status = %d", app.Status)
	}
}

func TestDeleteOwnerOnly(t *testing.T) {
	svc, repo := newTestService()

	err := svc.Delete(context.Background(), "member-1", "project-1")
	if app := appError(t, err); app.Status != http.StatusForbidden {
		t.Fatalf("member delete: status = %d", app.Status)
	}

	if err := svc.Delete(context.Background(), "owner-1", "project-1"); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != "project-1" {
		t.Fatalf("deleted = %v", repo.deleted)
	}
}
