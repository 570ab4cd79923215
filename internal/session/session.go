package session

import (
	"context"
	"errors"
	"time"

	coreuser "github.com/frahmantamala/survey-admin/internal/core/user"
)

var ErrNotFound = errors.New("session not found")

// Session is the server-side record behind the session cookie.
type Session struct {
	ID        string            `json:"id"`
	User      *coreuser.Profile `json:"user"`
	CreatedAt time.Time         `json:"created_at"`
	ExpiresAt time.Time         `json:"expires_at"`
}

func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Store persists sessions with expiry. Get returns ErrNotFound for unknown
// or expired ids.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Destroy(ctx context.Context, id string) error
}

type ctxKey string

const sessionKey ctxKey = "session"

// WithSession attaches s to ctx.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// FromContext returns the session loaded for this request, if any.
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey).(*Session)
	return s, ok && s != nil
}

// UserFromContext returns the authenticated user, if any.
func UserFromContext(ctx context.Context) (*coreuser.Profile, bool) {
	s, ok := FromContext(ctx)
	if !ok || s.User == nil {
		return nil, false
	}
	return s.User, true
}
