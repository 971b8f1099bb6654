package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/teamboard/api/internal/apperr"
	"github.com/teamboard/api/internal/service/team"
)

func (r *Router) handleTeams(w http.ResponseWriter, req *http.Request) {
	actor, ok := actorFromContext(req.Context())
	if !ok {
		r.writeFailure(w, "teams", apperr.Unauthenticated())
		return
	}
	switch req.Method {
	case http.MethodGet:
		teams, err := r.team.List(req.Context(), actor.ID)
		if err != nil {
			r.writeFailure(w, "teams", err)
			return
		}
		writeSuccess(w, http.StatusOK, viewTeams(teams))
	case http.MethodPost:
		var payload struct {
			Name      string   `json:"name"`
			MemberIDs []string `json:"member_ids"`
		}
		if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
			r.writeFailure(w, "teams", apperr.BusinessRule(http.StatusBadRequest, "invalid JSON body").Wrap(err))
			return
		}
		created, err := r.team.Create(req.Context(), actor.ID, payload.Name, payload.MemberIDs)
		if err != nil {
			r.writeFailure(w, "teams", err)
			return
		}
		writeSuccess(w, http.StatusCreated, viewTeam(*created))
	default:
		r.methodNotAllowed(w)
	}
}

func (r *Router) handleTeamDetail(w http.ResponseWriter, req *http.Request) {
	teamID := pathID(req, "/teams/")
	if teamID == "" {
		r.notFound(w)
		return
	}
	actor, ok := actorFromContext(req.Context())
	if !ok {
		r.writeFailure(w, "team_detail", apperr.Unauthenticated())
		return
	}
	switch req.Method {
	case http.MethodGet:
		found, err := r.team.Get(req.Context(), actor.ID, teamID)
		if err != nil {
			r.writeFailure(w, "team_detail", err)
			return
		}
		writeSuccess(w, http.StatusOK, viewTeam(*found))
	case http.MethodPut, http.MethodPatch:
		raw, err := decodeBody(req)
		if err != nil {
			r.writeFailure(w, "team_detail", err)
			return
		}
		input, err := teamUpdateInput(raw)
		if err != nil {
			r.writeFailure(w, "team_detail", err)
			return
		}
		updated, err := r.team.Update(req.Context(), actor.ID, teamID, input)
		if err != nil {
			r.writeFailure(w, "team_detail", err)
			return
		}
		writeSuccess(w, http.StatusOK, viewTeam(*updated))
	case http.MethodDelete:
		if err := r.team.Delete(req.Context(), actor.ID, teamID); err != nil {
			r.writeFailure(w, "team_detail", err)
			return
		}
		writeSuccess(w, http.StatusOK, map[string]any{"message": "team deleted"})
	default:
		r.methodNotAllowed(w)
	}
}

func teamUpdateInput(raw map[string]json.RawMessage) (team.UpdateInput, error) {
	var input team.UpdateInput
	if data, ok := raw["name"]; ok {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return input, apperr.Validation(map[string][]string{"name": {"must be a string"}})
		}
		input.Name = &name
	}
	if data, ok := raw["member_ids"]; ok {
		var members []string
		if err := json.Unmarshal(data, &members); err != nil {
			return input, apperr.Validation(map[string][]string{"member_ids": {"must be a list of user ids"}})
		}
		input.MemberIDs = &members
	}
	return input, nil
}
