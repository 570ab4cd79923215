package session

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	coreuser "github.com/frahmantamala/survey-admin/internal/core/user"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const DefaultCookieName = "sid"

type Config struct {
	CookieName string
	Secret     []byte
	TTL        time.Duration
	Secure     bool
}

// Manager ties the Store to the session cookie. The cookie value is an
// HS256 token whose only claim of interest is the session id; the session
// body never leaves the server.
type Manager struct {
	store  Store
	cfg    Config
	logger *slog.Logger
	now    func() time.Time
}

func NewManager(store Store, cfg Config, logger *slog.Logger) *Manager {
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultCookieName
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	return &Manager{
		store:  store,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

func (m *Manager) CookieName() string {
	return m.cfg.CookieName
}

// Middleware loads the session named by the request cookie into the request
// context. Missing, forged, or expired cookies leave the request anonymous.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(m.cfg.CookieName)
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		id, err := m.parse(cookie.Value)
		if err != nil {
			m.logger.DebugContext(r.Context(), "session cookie rejected", "error", err)
			next.ServeHTTP(w, r)
			return
		}

		s, err := m.store.Get(r.Context(), id)
		if err != nil {
			if !errors.Is(err, ErrNotFound) {
				m.logger.ErrorContext(r.Context(), "session lookup failed", "error", err)
			}
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), s)))
	})
}

// Establish starts a fresh session for profile and sets the cookie. Any
// session already attached to the request is destroyed first so a login
// never reuses a pre-existing id.
func (m *Manager) Establish(w http.ResponseWriter, r *http.Request, profile coreuser.Profile) (*Session, error) {
	ctx := r.Context()
	if old, ok := FromContext(ctx); ok {
		if err := m.store.Destroy(ctx, old.ID); err != nil {
			m.logger.WarnContext(ctx, "failed to destroy previous session", "error", err)
		}
	}

	now := m.now()
	s := &Session{
		ID:        uuid.NewString(),
		User:      &profile,
		CreatedAt: now,
		ExpiresAt: now.Add(m.cfg.TTL),
	}

	if err := m.store.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	token, err := m.sign(s)
	if err != nil {
		_ = m.store.Destroy(ctx, s.ID)
		return nil, fmt.Errorf("sign session cookie: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  s.ExpiresAt,
		MaxAge:   int(m.cfg.TTL.Seconds()),
		HttpOnly: true,
		Secure:   m.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return s, nil
}

// Destroy removes the request's session from the store and, only when that
// succeeds, clears the cookie.
func (m *Manager) Destroy(w http.ResponseWriter, r *http.Request) error {
	if s, ok := FromContext(r.Context()); ok {
		if err := m.store.Destroy(r.Context(), s.ID); err != nil {
			return fmt.Errorf("destroy session: %w", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (m *Manager) sign(s *Session) (string, error) {
	claims := jwt.RegisteredClaims{
		ID:        s.ID,
		IssuedAt:  jwt.NewNumericDate(s.CreatedAt),
		ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.cfg.Secret)
}

func (m *Manager) parse(value string) (string, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(value, &claims, func(t *jwt.Token) (interface{}, error) {
		return m.cfg.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return "", err
	}
	if claims.ID == "" {
		return "", errors.New("session cookie has no id")
	}
	return claims.ID, nil
}
