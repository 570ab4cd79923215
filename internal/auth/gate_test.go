package auth_test

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"time"

	"github.com/frahmantamala/survey-admin/internal/auth"
	coreuser "github.com/frahmantamala/survey-admin/internal/core/user"
	"github.com/frahmantamala/survey-admin/internal/session"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Gate", func() {
	var (
		gate    *auth.Gate
		reached bool
		next    http.Handler
	)

	BeforeEach(func() {
		gate = auth.NewGate(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError})))
		reached = false
		next = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reached = true
			w.WriteHeader(http.StatusNoContent)
		})
	})

	request := func(role string) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
		if role == "" {
			return req
		}
		s := &session.Session{
			ID:        "s1",
			User:      &coreuser.Profile{ID: 9, Username: "u", Role: role},
			ExpiresAt: time.Now().Add(time.Hour),
		}
		return req.WithContext(session.WithSession(req.Context(), s))
	}

	DescribeTable("RequireAuth",
		func(role string, status int, passes bool) {
			w := httptest.NewRecorder()
			gate.RequireAuth(next).ServeHTTP(w, request(role))
			Expect(w.Code).To(Equal(status))
			Expect(reached).To(Equal(passes))
		},
		Entry("anonymous", "", http.StatusUnauthorized, false),
		Entry("rep", coreuser.RoleRep, http.StatusNoContent, true),
		Entry("admin", coreuser.RoleAdmin, http.StatusNoContent, true),
	)

	DescribeTable("RequireAdmin",
		func(role string, status int, passes bool) {
			w := httptest.NewRecorder()
			gate.RequireAdmin(next).ServeHTTP(w, request(role))
			Expect(w.Code).To(Equal(status))
			Expect(reached).To(Equal(passes))
		},
		Entry("anonymous", "", http.StatusForbidden, false),
		Entry("rep", coreuser.RoleRep, http.StatusForbidden, false),
		Entry("manager", coreuser.RoleManager, http.StatusForbidden, false),
		Entry("admin", coreuser.RoleAdmin, http.StatusNoContent, true),
	)

	It("answers with the contract messages", func() {
		w := httptest.NewRecorder()
		gate.RequireAuth(next).ServeHTTP(w, request(""))
		Expect(w.Body.String()).To(ContainSubstring(`"message":"Authentication required"`))

		w = httptest.NewRecorder()
		gate.RequireAdmin(next).ServeHTTP(w, request(coreuser.RoleRep))
		Expect(w.Body.String()).To(ContainSubstring(`"message":"Admin access required"`))
	})
})
