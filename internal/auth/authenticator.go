// Package auth is the identity collaborator for the organizer core: it
// verifies credentials and issues tokens. The domain services never touch
// credentials themselves; they receive an already resolved actor.
package auth

import (
	"context"

	"github.com/hearthhub/hearthhub/internal/models"
)

// Authenticator defines the interface for authentication implementations.
// This abstraction allows swapping between different auth methods
// (password, passkeys, OAuth, ...) without changing the transport code.
type Authenticator interface {
	// Register creates a new user account with the given email and credential.
	// The credential format depends on the implementation.
	Register(ctx context.Context, email, name, credential string) (*models.User, error)

	// Authenticate verifies the user's credentials and returns the user if
	// successful.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks if the credential meets the implementation's
	// requirements.
	ValidateCredential(credential string) error
}

// Ensure PasswordAuthenticator satisfies the interface.
var _ Authenticator = (*PasswordAuthenticator)(nil)
