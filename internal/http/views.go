package httpx

import (
	"time"

	"github.com/teamboard/api/internal/domain"
)

// Wire representations. Due dates travel as date-only strings.

const dateLayout = "2006-01-02"

type userView struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	DisplayName string `json:"display_name"`
}

type teamView struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	OwnerID   string   `json:"owner"`
	MemberIDs []string `json:"members"`
	CreatedAt string   `json:"created_at"`
}

type projectView struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	TeamID      string `json:"team"`
	IsActive    bool   `json:"is_active"`
	CreatedAt   string `json:"created_at"`
}

type taskView struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	ProjectID   string  `json:"project"`
	AssigneeID  *string `json:"assignee"`
	Status      string  `json:"status"`
	DueDate     *string `json:"due_date"`
	CreatedAt   string  `json:"created_at"`
}

func viewUser(u domain.User) userView {
	return userView{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		DisplayName: u.DisplayName(),
	}
}

func viewUsers(users []domain.User) []userView {
	views := make([]userView, 0, len(users))
	for _, u := range users {
		views = append(views, viewUser(u))
	}
	return views
}

func viewTeam(t domain.Team) teamView {
	members := t.Members
	if members == nil {
		members = []string{}
	}
	return teamView{
		ID:        t.ID,
		Name:      t.Name,
		OwnerID:   t.OwnerID,
		MemberIDs: members,
		CreatedAt: t.CreatedAt.Format(time.RFC3339),
	}
}

func viewTeams(teams []domain.Team) []teamView {
	views := make([]teamView, 0, len(teams))
	for _, t := range teams {
		views = append(views, viewTeam(t))
	}
	return views
}

func viewProject(p domain.Project) projectView {
	return projectView{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		TeamID:      p.TeamID,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
	}
}

func viewProjects(projects []domain.Project) []projectView {
	views := make([]projectView, 0, len(projects))
	for _, p := range projects {
		views = append(views, viewProject(p))
	}
	return views
}

func viewTask(t domain.Task) taskView {
	view := taskView{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		ProjectID:   t.ProjectID,
		Status:      t.Status,
		CreatedAt:   t.CreatedAt.Format(time.RFC3339),
	}
	if t.AssigneeID != "" {
		assignee := t.AssigneeID
		view.AssigneeID = &assignee
	}
	if t.DueDate != nil {
		due := t.DueDate.Format(dateLayout)
		view.DueDate = &due
	}
	return view
}

func viewTasks(tasks []domain.Task) []taskView {
	views := make([]taskView, 0, len(tasks))
	for _, t := range tasks {
		views = append(views, viewTask(t))
	}
	return views
}
