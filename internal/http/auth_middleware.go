package httpx

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/teamboard/api/internal/apperr"
	"github.com/teamboard/api/internal/domain"
)

type authContextKey string

const contextKeyActor authContextKey = "teamboard-actor"

type contextSetter interface {
	SetContext(context.Context)
}

// requireAuth ensures the request carries a valid bearer token before
// invoking the handler, placing the authenticated actor in the context.
func (r *Router) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		ctx, _, ok := r.ensureAuth(w, req)
		if !ok {
			return
		}
		if setter, ok := w.(contextSetter); ok {
			setter.SetContext(ctx)
		}
		next(w, req.WithContext(ctx))
	}
}

// ensureAuth validates the Authorization header and enriches the context.
func (r *Router) ensureAuth(w http.ResponseWriter, req *http.Request) (context.Context, *domain.User, bool) {
	token, err := bearerToken(req.Header.Get("Authorization"))
	if err != nil {
		r.writeFailure(w, "auth", apperr.Unauthenticated().Wrap(err))
		return req.Context(), nil, false
	}
	actor, err := r.auth.Authorize(req.Context(), token)
	if err != nil {
		r.writeFailure(w, "auth", err)
		return req.Context(), nil, false
	}
	ctx := context.WithValue(req.Context(), contextKeyActor, actor)
	return ctx, actor, true
}

// actorFromContext extracts the authenticated actor from context.
func actorFromContext(ctx context.Context) (*domain.User, bool) {
	actor, ok := ctx.Value(contextKeyActor).(*domain.User)
	return actor, ok && actor != nil
}

func bearerToken(header string) (string, error) {
	if strings.TrimSpace(header) == "" {
		return "", errors.New("missing authorization header")
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization header format")
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", errors.New("empty bearer token")
	}
	return token, nil
}
