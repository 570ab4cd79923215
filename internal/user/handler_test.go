package user_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/frahmantamala/survey-admin/internal/auth"
	authPostgres "github.com/frahmantamala/survey-admin/internal/auth/postgres"
	"github.com/frahmantamala/survey-admin/internal/core/database"
	"github.com/frahmantamala/survey-admin/internal/transport"
	"github.com/frahmantamala/survey-admin/internal/user"
	userPostgres "github.com/frahmantamala/survey-admin/internal/user/postgres"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var _ = Describe("User Handler Integration", func() {
	var (
		db     *gorm.DB
		router chi.Router
	)

	BeforeEach(func() {
		var err error
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err = database.OpenInMemory()
		Expect(err).NotTo(HaveOccurred())

		authService := auth.NewService(authPostgres.NewRepository(db), bcrypt.MinCost, slogger)
		service := user.NewService(userPostgres.NewUserRepository(db), authService, nil, slogger)
		handler := user.NewHandler(transport.NewBaseHandler(slogger), service)

		router = chi.NewRouter()
		router.Get("/api/users", handler.ListUsers)
		router.Post("/api/users", handler.CreateUser)
		router.Put("/api/users/{id}", handler.UpdateUser)
		router.Delete("/api/users/{id}", handler.DeleteUser)
	})

	do := func(method, path, body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(method, path, strings.NewReader(body)))
		return w
	}

	createBody := func(username, email string) string {
		return `{"username":"` + username + `","password":"secret1","name":"Test User","email":"` + email + `","department":"Sales","role":"Rep"}`
	}

	It("creates a user whose hash verifies and lists it without the password", func() {
		w := do(http.MethodPost, "/api/users", createBody("jdoe", "jdoe@example.com"))
		Expect(w.Code).To(Equal(http.StatusCreated))
		Expect(w.Body.String()).To(MatchJSON(`{"id":1}`))

		var hash string
		Expect(db.Table("users").Select("password_hash").Where("id = ?", 1).Scan(&hash).Error).To(Succeed())
		Expect(bcrypt.CompareHashAndPassword([]byte(hash), []byte("secret1"))).To(Succeed())

		list := do(http.MethodGet, "/api/users", "")
		Expect(list.Code).To(Equal(http.StatusOK))
		Expect(list.Body.String()).NotTo(ContainSubstring("password"))

		var users []map[string]interface{}
		Expect(json.Unmarshal(list.Body.Bytes(), &users)).To(Succeed())
		Expect(users).To(HaveLen(1))
		Expect(users[0]).To(HaveKeyWithValue("username", "jdoe"))
		Expect(users[0]).To(HaveKeyWithValue("is_active", true))
	})

	It("answers 400 for a duplicate email", func() {
		Expect(do(http.MethodPost, "/api/users", createBody("first", "same@example.com")).Code).To(Equal(http.StatusCreated))

		w := do(http.MethodPost, "/api/users", createBody("second", "same@example.com"))

		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring("Username or email already exists"))
	})

	It("answers 400 for a duplicate username", func() {
		Expect(do(http.MethodPost, "/api/users", createBody("dup", "a@example.com")).Code).To(Equal(http.StatusCreated))

		w := do(http.MethodPost, "/api/users", createBody("dup", "b@example.com"))
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("updates the profile but never the username", func() {
		Expect(do(http.MethodPost, "/api/users", createBody("jdoe", "jdoe@example.com")).Code).To(Equal(http.StatusCreated))

		w := do(http.MethodPut, "/api/users/1", `{"name":"Jane","email":"jane@example.com","department":"Ops","role":"Manager","is_active":false}`)
		Expect(w.Code).To(Equal(http.StatusOK))

		var row struct {
			Username string
			Name     string
			Role     string
			IsActive bool
		}
		Expect(db.Table("users").Where("id = ?", 1).Scan(&row).Error).To(Succeed())
		Expect(row.Username).To(Equal("jdoe"))
		Expect(row.Name).To(Equal("Jane"))
		Expect(row.Role).To(Equal("Manager"))
		Expect(row.IsActive).To(BeFalse())
	})

	It("refuses to change username through update", func() {
		Expect(do(http.MethodPost, "/api/users", createBody("jdoe", "jdoe@example.com")).Code).To(Equal(http.StatusCreated))

		w := do(http.MethodPut, "/api/users/1", `{"username":"other","name":"Jane","email":"jane@example.com","department":"Ops","role":"Rep"}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("answers 400 when an update collides with another email", func() {
		do(http.MethodPost, "/api/users", createBody("a", "a@example.com"))
		do(http.MethodPost, "/api/users", createBody("b", "b@example.com"))

		w := do(http.MethodPut, "/api/users/2", `{"name":"B","email":"a@example.com","department":"Ops","role":"Rep"}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring("Username or email already exists"))
	})

	It("answers 404 for unknown ids", func() {
		Expect(do(http.MethodPut, "/api/users/99", `{"name":"X","email":"x@example.com","department":"Ops","role":"Rep"}`).Code).To(Equal(http.StatusNotFound))
		Expect(do(http.MethodDelete, "/api/users/99", "").Code).To(Equal(http.StatusNotFound))
	})

	It("answers 400 for non-numeric ids", func() {
		Expect(do(http.MethodDelete, "/api/users/abc", "").Code).To(Equal(http.StatusBadRequest))
	})

	It("deletes users", func() {
		do(http.MethodPost, "/api/users", createBody("jdoe", "jdoe@example.com"))

		w := do(http.MethodDelete, "/api/users/1", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring("User deleted successfully"))
		Expect(do(http.MethodGet, "/api/users", "").Body.String()).To(MatchJSON(`[]`))
	})
})
