package auth_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"time"

	"github.com/frahmantamala/survey-admin/internal/auth"
	"github.com/frahmantamala/survey-admin/internal/auth/postgres"
	"github.com/frahmantamala/survey-admin/internal/core/database"
	userDatamodel "github.com/frahmantamala/survey-admin/internal/core/datamodel/user"
	coreuser "github.com/frahmantamala/survey-admin/internal/core/user"
	"github.com/frahmantamala/survey-admin/internal/session"
	"github.com/frahmantamala/survey-admin/internal/transport"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type brokenStore struct {
	*session.MemoryStore
}

func (brokenStore) Destroy(context.Context, string) error {
	return errors.New("store unavailable")
}

var _ = Describe("Auth Handler Integration", func() {
	var (
		db       *gorm.DB
		store    *session.MemoryStore
		sessions *session.Manager
		handler  *auth.Handler
		slogger  *slog.Logger
	)

	BeforeEach(func() {
		var err error
		slogger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err = database.OpenInMemory()
		Expect(err).NotTo(HaveOccurred())

		hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.MinCost)
		Expect(err).NotTo(HaveOccurred())
		Expect(db.Create(&userDatamodel.User{
			Username: "admin", Email: "admin@example.com", Name: "Administrator",
			PasswordHash: string(hash), Department: "Operations", Role: coreuser.RoleAdmin, IsActive: true,
		}).Error).To(Succeed())

		inactive := &userDatamodel.User{
			Username: "former", Email: "former@example.com", Name: "Former",
			PasswordHash: string(hash), Department: "Operations", Role: coreuser.RoleRep, IsActive: true,
		}
		Expect(db.Create(inactive).Error).To(Succeed())
		Expect(db.Model(inactive).Update("is_active", false).Error).To(Succeed())

		store = session.NewMemoryStore(0)
		sessions = session.NewManager(store, session.Config{
			Secret: []byte("test-secret-test-secret-test-secret"),
			TTL:    time.Hour,
		}, slogger)

		service := auth.NewService(postgres.NewRepository(db), bcrypt.MinCost, slogger)
		handler = auth.NewHandler(transport.NewBaseHandler(slogger), service, sessions, nil)
	})

	// serve runs h behind the session middleware, the way the router mounts it.
	serve := func(h http.HandlerFunc, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		for _, c := range cookies {
			req.AddCookie(c)
		}
		w := httptest.NewRecorder()
		sessions.Middleware(h).ServeHTTP(w, req)
		return w
	}

	login := func(username, password string) *httptest.ResponseRecorder {
		return serve(handler.Login, http.MethodPost, "/login",
			`{"username":"`+username+`","password":"`+password+`"}`)
	}

	sessionCookie := func(w *httptest.ResponseRecorder) *http.Cookie {
		for _, c := range w.Result().Cookies() {
			if c.Name == sessions.CookieName() {
				return c
			}
		}
		return nil
	}

	Describe("POST /login", func() {
		It("returns the user without any password field and sets the cookie", func() {
			w := login("admin", "admin123")

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).NotTo(ContainSubstring("password"))

			var body map[string]interface{}
			Expect(json.Unmarshal(w.Body.Bytes(), &body)).To(Succeed())
			Expect(body["username"]).To(Equal("admin"))
			Expect(body["role"]).To(Equal("Admin"))
			Expect(body).To(HaveKeyWithValue("is_active", true))

			Expect(sessionCookie(w)).NotTo(BeNil())
			Expect(store.Len()).To(Equal(1))
		})

		It("answers wrong passwords and unknown users identically", func() {
			wrong := login("admin", "nope")
			unknown := login("nobody", "admin123")

			Expect(wrong.Code).To(Equal(http.StatusUnauthorized))
			Expect(unknown.Code).To(Equal(http.StatusUnauthorized))
			Expect(wrong.Body.String()).To(Equal(unknown.Body.String()))
			Expect(wrong.Body.String()).To(ContainSubstring("Invalid username or password"))
			Expect(sessionCookie(wrong)).To(BeNil())
		})

		It("refuses inactive users", func() {
			w := login("former", "admin123")
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})

		It("validates the body before looking anything up", func() {
			w := serve(handler.Login, http.MethodPost, "/login", `{"username":""}`)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			var body transport.ErrorResponse
			Expect(json.Unmarshal(w.Body.Bytes(), &body)).To(Succeed())
			Expect(body.Errors).NotTo(BeEmpty())
		})

		It("rejects malformed JSON", func() {
			w := serve(handler.Login, http.MethodPost, "/login", `{"username":`)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("GET /verify_auth", func() {
		It("reports the session user", func() {
			cookie := sessionCookie(login("admin", "admin123"))

			w := serve(handler.VerifyAuth, http.MethodGet, "/verify_auth", "", cookie)

			Expect(w.Code).To(Equal(http.StatusOK))
			var body auth.VerifyAuthResponse
			Expect(json.Unmarshal(w.Body.Bytes(), &body)).To(Succeed())
			Expect(body.IsAuthenticated).To(BeTrue())
			Expect(body.User.Username).To(Equal("admin"))
		})

		It("returns 401 with a null user when anonymous", func() {
			w := serve(handler.VerifyAuth, http.MethodGet, "/verify_auth", "")

			Expect(w.Code).To(Equal(http.StatusUnauthorized))
			Expect(w.Body.String()).To(MatchJSON(`{"isAuthenticated":false,"user":null}`))
		})
	})

	Describe("POST /logout", func() {
		It("ends the session so verify_auth fails afterwards", func() {
			cookie := sessionCookie(login("admin", "admin123"))

			w := serve(handler.Logout, http.MethodPost, "/logout", "", cookie)
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(ContainSubstring("Logged out successfully"))
			Expect(sessionCookie(w).MaxAge).To(BeNumerically("<", 0))

			again := serve(handler.VerifyAuth, http.MethodGet, "/verify_auth", "", cookie)
			Expect(again.Code).To(Equal(http.StatusUnauthorized))
		})

		It("succeeds without a session", func() {
			w := serve(handler.Logout, http.MethodPost, "/logout", "")
			Expect(w.Code).To(Equal(http.StatusOK))
		})

		It("reports a failure and keeps the cookie when the store cannot destroy", func() {
			cookie := sessionCookie(login("admin", "admin123"))
			sessions = session.NewManager(brokenStore{store}, session.Config{
				Secret: []byte("test-secret-test-secret-test-secret"),
				TTL:    time.Hour,
			}, slogger)
			handler.Sessions = sessions

			w := serve(handler.Logout, http.MethodPost, "/logout", "", cookie)

			Expect(w.Code).To(Equal(http.StatusInternalServerError))
			Expect(w.Body.String()).To(ContainSubstring("Failed to logout"))
			Expect(sessionCookie(w)).To(BeNil())
		})
	})
})
