package auth

import (
	"context"
	"net/http"

	coreuser "github.com/frahmantamala/survey-admin/internal/core/user"
	"github.com/frahmantamala/survey-admin/internal/session"
)

// Credentials is what a login needs: the public profile plus the stored hash.
type Credentials struct {
	Profile      coreuser.Profile
	PasswordHash string
}

type RepositoryAPI interface {
	// GetCredentialsByUsername returns nil, nil when no active user has username.
	GetCredentialsByUsername(ctx context.Context, username string) (*Credentials, error)
}

type ServiceAPI interface {
	Authenticate(ctx context.Context, dto LoginDTO) (*coreuser.Profile, error)
}

// SessionManager is the part of session.Manager the handlers need.
type SessionManager interface {
	Establish(w http.ResponseWriter, r *http.Request, profile coreuser.Profile) (*session.Session, error)
	Destroy(w http.ResponseWriter, r *http.Request) error
}
