package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/teamboard/api/internal/apperr"
	"github.com/teamboard/api/internal/service/auth"
)

func (r *Router) handleSignup(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		r.methodNotAllowed(w)
		return
	}
	var payload struct {
		Username  string `json:"username"`
		Email     string `json:"email"`
		Password  string `json:"password"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		r.writeFailure(w, "signup", apperr.BusinessRule(http.StatusBadRequest, "invalid JSON body").Wrap(err))
		return
	}
	user, tokens, err := r.auth.Signup(req.Context(), auth.SignupInput{
		Username:  payload.Username,
		Email:     payload.Email,
		Password:  payload.Password,
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
	})
	if err != nil {
		r.writeFailure(w, "signup", err)
		return
	}
	writeSuccess(w, http.StatusCreated, map[string]any{
		"message": "registration successful",
		"user":    viewUser(*user),
		"tokens":  tokens,
	})
}

func (r *Router) handleLogin(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		r.methodNotAllowed(w)
		return
	}
	var payload struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		r.writeFailure(w, "login", apperr.BusinessRule(http.StatusBadRequest, "invalid JSON body").Wrap(err))
		return
	}
	user, tokens, err := r.auth.Login(req.Context(), payload.Username, payload.Password)
	if err != nil {
		r.writeFailure(w, "login", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{
		"user":   viewUser(*user),
		"tokens": tokens,
	})
}

func (r *Router) handleMe(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		r.methodNotAllowed(w)
		return
	}
	actor, ok := actorFromContext(req.Context())
	if !ok {
		r.writeFailure(w, "me", apperr.Unauthenticated())
		return
	}
	writeSuccess(w, http.StatusOK, viewUser(*actor))
}

func (r *Router) handleUsers(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		r.methodNotAllowed(w)
		return
	}
	actor, ok := actorFromContext(req.Context())
	if !ok {
		r.writeFailure(w, "users", apperr.Unauthenticated())
		return
	}
	users, err := r.users.ListActive(req.Context(), actor.ID)
	if err != nil {
		r.writeFailure(w, "users", err)
		return
	}
	writeSuccess(w, http.StatusOK, viewUsers(users))
}

func (r *Router) handleUserSelf(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodDelete {
		r.methodNotAllowed(w)
		return
	}
	actor, ok := actorFromContext(req.Context())
	if !ok {
		r.writeFailure(w, "user_delete", apperr.Unauthenticated())
		return
	}
	if err := r.users.Delete(req.Context(), actor.ID); err != nil {
		r.writeFailure(w, "user_delete", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"message": "account deleted"})
}
