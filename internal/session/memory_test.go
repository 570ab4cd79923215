package session

import (
	"context"
	"time"

	coreuser "github.com/frahmantamala/survey-admin/internal/core/user"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("MemoryStore", func() {
	var (
		store *MemoryStore
		now   time.Time
		ctx   context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		store = NewMemoryStore(0)
		store.now = func() time.Time { return now }
	})

	AfterEach(func() {
		Expect(store.Close()).To(Succeed())
	})

	newSession := func(id string, ttl time.Duration) *Session {
		return &Session{
			ID:        id,
			User:      &coreuser.Profile{ID: 1, Username: "admin", Role: coreuser.RoleAdmin},
			CreatedAt: now,
			ExpiresAt: now.Add(ttl),
		}
	}

	It("returns saved sessions until they expire", func() {
		Expect(store.Save(ctx, newSession("a", time.Hour))).To(Succeed())

		s, err := store.Get(ctx, "a")
		Expect(err).NotTo(HaveOccurred())
		Expect(s.User.Username).To(Equal("admin"))

		now = now.Add(time.Hour)
		_, err = store.Get(ctx, "a")
		Expect(err).To(MatchError(ErrNotFound))
		Expect(store.Len()).To(Equal(0))
	})

	It("returns copies so callers cannot mutate stored sessions", func() {
		Expect(store.Save(ctx, newSession("a", time.Hour))).To(Succeed())

		s, _ := store.Get(ctx, "a")
		s.ID = "changed"

		again, err := store.Get(ctx, "a")
		Expect(err).NotTo(HaveOccurred())
		Expect(again.ID).To(Equal("a"))
	})

	It("destroys sessions", func() {
		Expect(store.Save(ctx, newSession("a", time.Hour))).To(Succeed())
		Expect(store.Destroy(ctx, "a")).To(Succeed())

		_, err := store.Get(ctx, "a")
		Expect(err).To(MatchError(ErrNotFound))
	})

	It("sweeps only expired sessions", func() {
		Expect(store.Save(ctx, newSession("short", time.Minute))).To(Succeed())
		Expect(store.Save(ctx, newSession("long", time.Hour))).To(Succeed())

		now = now.Add(2 * time.Minute)
		store.Sweep()

		Expect(store.Len()).To(Equal(1))
		_, err := store.Get(ctx, "long")
		Expect(err).NotTo(HaveOccurred())
	})

	It("stops the janitor on close", func() {
		s := NewMemoryStore(time.Millisecond)
		Expect(s.Close()).To(Succeed())
		Expect(s.Close()).To(Succeed())
	})
})
