package httpx

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/teamboard/api/internal/apperr"
	"github.com/teamboard/api/internal/repository"
	"github.com/teamboard/api/internal/service/project"
)

func (r *Router) handleProjects(w http.ResponseWriter, req *http.Request) {
	actor, ok := actorFromContext(req.Context())
	if !ok {
		r.writeFailure(w, "projects", apperr.Unauthenticated())
		return
	}
	switch req.Method {
	case http.MethodGet:
		filter := repository.ProjectFilter{TeamID: req.URL.Query().Get("team")}
		if v := req.URL.Query().Get("is_active"); v != "" {
			active, err := strconv.ParseBool(v)
			if err != nil {
				r.writeFailure(w, "projects", apperr.Validation(map[string][]string{"is_active": {"must be a boolean"}}))
				return
			}
			filter.IsActive = &active
		}
		projects, err := r.project.List(req.Context(), actor.ID, filter)
		if err != nil {
			r.writeFailure(w, "projects", err)
			return
		}
		writeSuccess(w, http.StatusOK, viewProjects(projects))
	case http.MethodPost:
		var payload struct {
			TeamID      string `json:"team"`
			Title       string `json:"title"`
			Description string `json:"description"`
			IsActive    *bool  `json:"is_active"`
		}
		if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
			r.writeFailure(w, "projects", apperr.BusinessRule(http.StatusBadRequest, "invalid JSON body").Wrap(err))
			return
		}
		created, err := r.project.Create(req.Context(), actor.ID, project.CreateInput{
			TeamID:      payload.TeamID,
			Title:       payload.Title,
			Description: payload.Description,
			IsActive:    payload.IsActive,
		})
		if err != nil {
			r.writeFailure(w, "projects", err)
			return
		}
		writeSuccess(w, http.StatusCreated, viewProject(*created))
	default:
		r.methodNotAllowed(w)
	}
}

func (r *Router) handleProjectDetail(w http.ResponseWriter, req *http.Request) {
	projectID := pathID(req, "/projects/")
	if projectID == "" {
		r.notFound(w)
		return
	}
	actor, ok := actorFromContext(req.Context())
	if !ok {
		r.writeFailure(w, "project_detail", apperr.Unauthenticated())
		return
	}
	switch req.Method {
	case http.MethodGet:
		found, err := r.project.Get(req.Context(), actor.ID, projectID)
		if err != nil {
			r.writeFailure(w, "project_detail", err)
			return
		}
		writeSuccess(w, http.StatusOK, viewProject(*found))
	case http.MethodPut, http.MethodPatch:
		raw, err := decodeBody(req)
		if err != nil {
			r.writeFailure(w, "project_detail", err)
			return
		}
		input, err := projectUpdateInput(raw)
		if err != nil {
			r.writeFailure(w, "project_detail", err)
			return
		}
		updated, err := r.project.Update(req.Context(), actor.ID, projectID, input)
		if err != nil {
			r.writeFailure(w, "project_detail", err)
			return
		}
		writeSuccess(w, http.StatusOK, viewProject(*updated))
	case http.MethodDelete:
		if err := r.project.Delete(req.Context(), actor.ID, projectID); err != nil {
			r.writeFailure(w, "project_detail", err)
			return
		}
		writeSuccess(w, http.StatusOK, map[string]any{"message": "project deleted"})
	default:
		r.methodNotAllowed(w)
	}
}

func projectUpdateInput(raw map[string]json.RawMessage) (project.UpdateInput, error) {
	var input project.UpdateInput
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
	if data, ok := raw["is_active"]; ok {
		var active bool
		if err := json.Unmarshal(data, &active); err != nil {
			return input, apperr.Validation(map[string][]string{"is_active": {"must be a boolean"}})
		}
		input.IsActive = &active
	}
	return input, nil
}
