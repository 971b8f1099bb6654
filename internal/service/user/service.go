package user

import (
	"context"
	"errors"

	"log/slog"

	"github.com/teamboard/api/internal/apperr"
	"github.com/teamboard/api/internal/domain"
	"github.com/teamboard/api/internal/repository"
)

// Service exposes the user directory and account removal.
type Service struct {
	users  repository.UserRepository
	logger *slog.Logger
}

// New constructs a Service.
func New(users repository.UserRepository, logger *slog.Logger) Service {
	return Service{users: users, logger: logger}
}

// ListActive returns active users excluding the caller, for assignee pickers.
func (s Service) ListActive(ctx context.Context, actorID string) ([]domain.User, error) {
	return s.users.ListActiveUsers(ctx, actorID)
}

// Delete removes the actor's own account. Tasks assigned to the user keep
// existing with a cleared assignee; teams the user owns are removed.
func (s Service) Delete(ctx context.Context, actorID string) error {
	if err := s.users.DeleteUser(ctx, actorID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("")
		}
		return err
	}
	s.logger.Info("user deleted", "user_id", actorID)
	return nil
}
