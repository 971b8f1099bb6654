package repository

import "errors"

// ErrNotFound indicates an entity was not located.
var ErrNotFound = errors.New("repository: not found")

// ErrProjectCapReached indicates the team already holds the maximum number
// of active projects; raised by CreateProject inside its transaction.
var ErrProjectCapReached = errors.New("repository: project cap reached")

// ErrDuplicate indicates a unique constraint violation, e.g. username taken.
var ErrDuplicate = errors.New("repository: duplicate entry")
