package httpx

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/teamboard/api/internal/apperr"
	"github.com/teamboard/api/internal/repository"
	"github.com/teamboard/api/internal/service/task"
)

func (r *Router) handleTasks(w http.ResponseWriter, req *http.Request) {
	actor, ok := actorFromContext(req.Context())
	if !ok {
		r.writeFailure(w, "tasks", apperr.Unauthenticated())
		return
	}
	switch req.Method {
	case http.MethodGet:
		filter, err := taskListFilter(req)
		if err != nil {
			r.writeFailure(w, "tasks", err)
			return
		}
		tasks, err := r.task.List(req.Context(), actor.ID, filter)
		if err != nil {
			r.writeFailure(w, "tasks", err)
			return
		}
		writeSuccess(w, http.StatusOK, viewTasks(tasks))
	case http.MethodPost:
		var payload struct {
			ProjectID   string  `json:"project"`
			Title       string  `json:"title"`
			Description string  `json:"description"`
			AssigneeID  string  `json:"assignee"`
			Status      string  `json:"status"`
			DueDate     *string `json:"due_date"`
		}
		if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
			r.writeFailure(w, "tasks", apperr.BusinessRule(http.StatusBadRequest, "invalid JSON body").Wrap(err))
			return
		}
		dueDate, err := parseDueDate(payload.DueDate)
		if err != nil {
			r.writeFailure(w, "tasks", err)
			return
		}
		created, err := r.task.Create(req.Context(), actor.ID, task.CreateInput{
			ProjectID:   payload.ProjectID,
			Title:       payload.Title,
			Description: payload.Description,
			AssigneeID:  payload.AssigneeID,
			Status:      payload.Status,
			DueDate:     dueDate,
		})
		if err != nil {
			r.writeFailure(w, "tasks", err)
			return
		}
		writeSuccess(w, http.StatusCreated, viewTask(*created))
	default:
		r.methodNotAllowed(w)
	}
}

func (r *Router) handleTaskDetail(w http.ResponseWriter, req *http.Request) {
	taskID := pathID(req, "/tasks/")
	if taskID == "" {
		r.notFound(w)
		return
	}
	actor, ok := actorFromContext(req.Context())
	if !ok {
		r.writeFailure(w, "task_detail", apperr.Unauthenticated())
		return
	}
	switch req.Method {
	case http.MethodGet:
		found, err := r.task.Get(req.Context(), actor.ID, taskID)
		if err != nil {
			r.writeFailure(w, "task_detail", err)
			return
		}
		writeSuccess(w, http.StatusOK, viewTask(*found))
	case http.MethodPut, http.MethodPatch:
		raw, err := decodeBody(req)
		if err != nil {
			r.writeFailure(w, "task_detail", err)
			return
		}
		input, err := taskUpdateInput(raw)
		if err != nil {
			r.writeFailure(w, "task_detail", err)
			return
		}
		updated, err := r.task.Update(req.Context(), actor.ID, taskID, input)
		if err != nil {
			r.writeFailure(w, "task_detail", err)
			return
		}
		writeSuccess(w, http.StatusOK, viewTask(*updated))
	case http.MethodDelete:
		if err := r.task.Delete(req.Context(), actor.ID, taskID); err != nil {
			r.writeFailure(w, "task_detail", err)
			return
		}
		writeSuccess(w, http.StatusOK, map[string]any{"message": "task deleted"})
	default:
		r.methodNotAllowed(w)
	}
}

// taskUpdateInput binds the raw field map into an update, keeping the exact
// field-name set the client submitted for the authorization check.
func taskUpdateInput(raw map[string]json.RawMessage) (task.UpdateInput, error) {
	input := task.UpdateInput{Fields: fieldNames(raw)}
	if data, ok := raw["title"]; ok {
		var title string
		if err := json.Unmarshal(data, &title); err != nil {
			return input, apperr.Validation(map[string][]string{"title": {"must be a string"}})
		}
		input.Title = &title
	}
	if data, ok := raw["description"]; ok {
		var description string
		if err := json.Unmarshal(data, &description); err != nil {
			return input, apperr.Validation(map[string][]string{"description": {"must be a string"}})
		}
		input.Description = &description
	}
	if data, ok := raw["assignee"]; ok {
		var assignee *string
		if err := json.Unmarshal(data, &assignee); err != nil {
			return input, apperr.Validation(map[string][]string{"assignee": {"must be a user id or null"}})
		}
		if assignee == nil {
			empty := ""
			assignee = &empty
		}
		input.AssigneeID = assignee
	}
	if data, ok := raw["status"]; ok {
		var status string
		if err := json.Unmarshal(data, &status); err != nil {
			return input, apperr.Validation(map[string][]string{"status": {"must be a string"}})
		}
		input.Status = &status
	}
	if data, ok := raw["due_date"]; ok {
		var due *string
		if err := json.Unmarshal(data, &due); err != nil {
			return input, apperr.Validation(map[string][]string{"due_date": {"must be a date string or null"}})
		}
		parsed, err := parseDueDate(due)
		if err != nil {
			return input, err
		}
		input.DueDate = &parsed
	}
	return input, nil
}

func taskListFilter(req *http.Request) (repository.TaskFilter, error) {
	query := req.URL.Query()
	filter := repository.TaskFilter{
		ProjectID:  query.Get("project"),
		AssigneeID: query.Get("assignee"),
		Status:     query.Get("status"),
	}
	if v := query.Get("due_before"); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			return filter, apperr.Validation(map[string][]string{"due_before": {"must be a YYYY-MM-DD date"}})
		}
		filter.DueBefore = &t
	}
	if v := query.Get("due_after"); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			return filter, apperr.Validation(map[string][]string{"due_after": {"must be a YYYY-MM-DD date"}})
		}
		filter.DueAfter = &t
	}
	return filter, nil
}

func parseDueDate(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, *raw)
	if err != nil {
		return nil, apperr.Validation(map[string][]string{"due_date": {"must be a YYYY-MM-DD date"}})
	}
	return &t, nil
}
