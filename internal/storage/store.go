// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/hearthhub/hearthhub/internal/models"
)

// Sentinel errors returned by Store implementations. Service code matches
// on these with errors.Is and never inspects backend-specific failures.
var (
	// ErrNotFound means the referenced record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateCode means a family code collided with an existing one.
	ErrDuplicateCode = errors.New("family code already in use")

	// ErrNotAccepting means the family's conditional admission update was
	// rejected: the family is inactive or already at capacity.
	ErrNotAccepting = errors.New("family is not accepting new members")

	// ErrStorage wraps backend failures (timeouts, unavailability) so
	// callers can apply retry policy distinct from domain errors.
	ErrStorage = errors.New("storage failure")
)

// Store defines the persistence collaborator for the organizer core.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// a document store, ...) without changing the service layer.
//
// The store provides no multi-record transactions to its callers; the one
// multi-entity invariant (member count vs. capacity) is protected by the
// atomic conditional update in AdmitMember.
type Store interface {
	// CreateUser persists a new user.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByID retrieves a user by ID. Returns ErrNotFound if absent.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// GetUserByEmail retrieves a user by email. Returns ErrNotFound if absent.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// UpdateUser overwrites an existing user record.
	UpdateUser(ctx context.Context, user *models.User) error

	// CreateFamily persists a new family. Returns ErrDuplicateCode if the
	// family code is already taken.
	CreateFamily(ctx context.Context, family *models.Family) error

	// GetFamily retrieves a family by ID. Returns ErrNotFound if absent.
	GetFamily(ctx context.Context, familyID string) (*models.Family, error)

	// GetFamilyByCode retrieves a family by its join code. The code is
	// matched exactly; callers normalize case. Returns ErrNotFound if absent.
	GetFamilyByCode(ctx context.Context, code string) (*models.Family, error)

	// UpdateFamilyCode swaps the family's join code. Returns
	// ErrDuplicateCode on collision, ErrNotFound if the family is absent.
	UpdateFamilyCode(ctx context.Context, familyID, code string) error

	// AdmitMember atomically increments the family's member count, but only
	// while the family is active and below capacity. Returns ErrNotAccepting
	// when the conditional update is rejected. This is the single write that
	// makes concurrent joins safe near the member cap.
	AdmitMember(ctx context.Context, familyID string) error

	// ListFamilyMembers returns the users belonging to the family,
	// ordered by join time.
	ListFamilyMembers(ctx context.Context, familyID string) ([]models.User, error)

	// CreateTodo persists a new todo with its tags, attendees and comments.
	CreateTodo(ctx context.Context, todo *models.Todo) error

	// GetTodo retrieves a todo with its full comment trail.
	// Returns ErrNotFound if absent.
	GetTodo(ctx context.Context, todoID string) (*models.Todo, error)

	// UpdateTodo overwrites an existing todo record, replacing its tags and
	// attendees. Comments are untouched; use AppendComment for those.
	UpdateTodo(ctx context.Context, todo *models.Todo) error

	// DeleteTodo hard-deletes a todo and everything it owns.
	// Returns ErrNotFound if absent.
	DeleteTodo(ctx context.Context, todoID string) error

	// AppendComment adds a comment to the todo's trail.
	AppendComment(ctx context.Context, todoID string, comment *models.Comment) error

	// ListTodos returns every todo in the family, newest first, with
	// comments attached. The query engine filters and aggregates in memory.
	ListTodos(ctx context.Context, familyID string) ([]models.Todo, error)

	// Close releases any resources held by the store.
	Close() error
}
