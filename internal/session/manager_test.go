package session

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"time"

	coreuser "github.com/frahmantamala/survey-admin/internal/core/user"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type failingStore struct {
	*MemoryStore
	destroyErr error
}

func (f *failingStore) Destroy(ctx context.Context, id string) error {
	if f.destroyErr != nil {
		return f.destroyErr
	}
	return f.MemoryStore.Destroy(ctx, id)
}

var _ = Describe("Manager", func() {
	var (
		store   *MemoryStore
		manager *Manager
		now     time.Time
		profile coreuser.Profile
	)

	BeforeEach(func() {
		now = time.Now()
		store = NewMemoryStore(0)
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		manager = NewManager(store, Config{
			CookieName: "sid",
			Secret:     []byte("0123456789abcdef0123456789abcdef"),
			TTL:        time.Hour,
		}, slogger)
		manager.now = func() time.Time { return now }
		profile = coreuser.Profile{ID: 7, Username: "rep", Name: "Rep", Role: coreuser.RoleRep, IsActive: true}
	})

	// establish logs profile in and returns the cookie the client would keep.
	establish := func() (*Session, *http.Cookie) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/login", nil)
		s, err := manager.Establish(w, r, profile)
		Expect(err).NotTo(HaveOccurred())
		cookies := w.Result().Cookies()
		Expect(cookies).To(HaveLen(1))
		return s, cookies[0]
	}

	// load runs the middleware with cookie and returns the session it attached.
	load := func(cookie *http.Cookie) (*Session, bool) {
		var (
			got *Session
			ok  bool
		)
		h := manager.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, ok = FromContext(r.Context())
		}))
		r := httptest.NewRequest(http.MethodGet, "/verify_auth", nil)
		if cookie != nil {
			r.AddCookie(cookie)
		}
		h.ServeHTTP(httptest.NewRecorder(), r)
		return got, ok
	}

	It("sets an http-only cookie that does not expose the session body", func() {
		s, cookie := establish()

		Expect(cookie.Name).To(Equal("sid"))
		Expect(cookie.HttpOnly).To(BeTrue())
		Expect(cookie.Path).To(Equal("/"))
		Expect(cookie.Value).NotTo(ContainSubstring("rep"))
		Expect(s.User.ID).To(Equal(int64(7)))
	})

	It("loads the session named by a valid cookie", func() {
		s, cookie := establish()

		got, ok := load(cookie)
		Expect(ok).To(BeTrue())
		Expect(got.ID).To(Equal(s.ID))
		Expect(got.User.Username).To(Equal("rep"))
	})

	It("leaves requests without a cookie anonymous", func() {
		_, ok := load(nil)
		Expect(ok).To(BeFalse())
	})

	It("ignores cookies signed with another secret", func() {
		_, cookie := establish()

		other := NewManager(store, Config{Secret: []byte("another-secret-another-secret-00"), TTL: time.Hour}, manager.logger)
		manager = other

		_, ok := load(cookie)
		Expect(ok).To(BeFalse())
	})

	It("ignores tampered cookies", func() {
		_, cookie := establish()
		cookie.Value = cookie.Value + "x"

		_, ok := load(cookie)
		Expect(ok).To(BeFalse())
	})

	It("ignores expired cookies", func() {
		_, cookie := establish()
		now = now.Add(2 * time.Hour)

		_, ok := load(cookie)
		Expect(ok).To(BeFalse())
	})

	It("replaces a previous session on login", func() {
		first, _ := establish()

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/login", nil)
		r = r.WithContext(WithSession(r.Context(), first))
		second, err := manager.Establish(w, r, profile)
		Expect(err).NotTo(HaveOccurred())
		Expect(second.ID).NotTo(Equal(first.ID))

		_, err = store.Get(context.Background(), first.ID)
		Expect(err).To(MatchError(ErrNotFound))
	})

	It("destroys the session and clears the cookie", func() {
		s, cookie := establish()

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/logout", nil)
		r = r.WithContext(WithSession(r.Context(), s))
		Expect(manager.Destroy(w, r)).To(Succeed())

		cleared := w.Result().Cookies()
		Expect(cleared).To(HaveLen(1))
		Expect(cleared[0].MaxAge).To(BeNumerically("<", 0))

		_, ok := load(cookie)
		Expect(ok).To(BeFalse())
	})

	It("keeps the cookie when the store cannot destroy the session", func() {
		failing := &failingStore{MemoryStore: store, destroyErr: errors.New("redis down")}
		manager = NewManager(failing, manager.cfg, manager.logger)
		s, _ := establish()

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/logout", nil)
		r = r.WithContext(WithSession(r.Context(), s))
		Expect(manager.Destroy(w, r)).To(MatchError(ContainSubstring("redis down")))
		Expect(w.Result().Cookies()).To(BeEmpty())
	})
})
