// Package repository contains session state access abstractions.
// Implementations live in subpackages (e.g., memory) inside this directory.
package repository

import (
	"context"
	"errors"

	"docqa/internal/model"
)

// ErrNotFound is returned when no session exists for the given ID.
var ErrNotFound = errors.New("session not found")

// SessionRepository defines access to per-session state. Sessions are
// transient and private to one user interaction; no business logic here.
type SessionRepository interface {
	// Create stores a new session. The caller provides all fields (ID, text,
	// timestamps). Returns the stored session.
	Create(ctx context.Context, s *model.Session) (*model.Session, error)

	// FindByID returns a session by its ID, or ErrNotFound.
	FindByID(ctx context.Context, id string) (*model.Session, error)

	// SaveResult replaces the session's last answer result.
	// Returns ErrNotFound if the session does not exist.
	SaveResult(ctx context.Context, id string, res *model.AnswerResult) error

	// Delete removes a session by ID. It returns nil if the session was
	// deleted or did not exist.
	Delete(ctx context.Context, id string) error
}
