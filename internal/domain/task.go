package domain

import "time"

// Task statuses.
const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in_progress"
	TaskStatusDone       = "done"
)

// ValidTaskStatus reports whether s is one of the known statuses.
func ValidTaskStatus(s string) bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

// Task is a unit of work within a project. AssigneeID is empty when the task
// is unassigned or its assignee was removed from the system.
type Task struct {
	ID          string
	ProjectID   string
	Title       string
	Description string
	AssigneeID  string
	Status      string
	DueDate     *time.Time
	CreatedAt   time.Time
}
