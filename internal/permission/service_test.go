package permission_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"time"

	permissionDatamodel "github.com/frahmantamala/survey-admin/internal/core/datamodel/permission"
	"github.com/frahmantamala/survey-admin/internal/core/events"
	"github.com/frahmantamala/survey-admin/internal/permission"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type mockRepository struct {
	rows       []*permissionDatamodel.Permission
	replaceErr error
}

func (m *mockRepository) List(context.Context) ([]permission.Row, error) {
	out := []permission.Row{}
	for _, r := range m.rows {
		out = append(out, permission.Row{
			ID: r.ID, FromDepartmentID: r.FromDepartmentID, ToDepartmentID: r.ToDepartmentID,
			CanSurveySelf: r.CanSurveySelf, StartDate: r.StartDate, EndDate: r.EndDate,
		})
	}
	return out, nil
}

func (m *mockRepository) ReplaceAll(_ context.Context, rows []*permissionDatamodel.Permission) error {
	if m.replaceErr != nil {
		return m.replaceErr
	}
	m.rows = rows
	return nil
}

func (m *mockRepository) FindByPair(_ context.Context, from, to int64) ([]*permissionDatamodel.Permission, error) {
	var out []*permissionDatamodel.Permission
	for _, r := range m.rows {
		if r.FromDepartmentID == from && r.ToDepartmentID == to {
			out = append(out, r)
		}
	}
	return out, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

var _ = Describe("Permission Service", func() {
	var (
		repo      *mockRepository
		publisher *recordingPublisher
		service   *permission.Service
		ctx       context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		repo = &mockRepository{}
		publisher = &recordingPublisher{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = permission.NewService(repo, permission.NewNoopMailAlerter(publisher, logger), publisher, logger)
	})

	replace := func(pairs ...permission.PairDTO) error {
		return service.Replace(ctx, 1, permission.ReplacePermissionsDTO{
			AllowedPairs: pairs,
			StartDate:    "2024-03-01",
			EndDate:      "2024-03-31",
		})
	}

	Describe("Replace", func() {
		It("stores one row per pair sharing the window and publishes an event", func() {
			Expect(replace(
				permission.PairDTO{FromDeptID: 1, ToDeptID: 2},
				permission.PairDTO{FromDeptID: 2, ToDeptID: 2, CanSurveySelf: true},
			)).To(Succeed())

			Expect(repo.rows).To(HaveLen(2))
			for _, r := range repo.rows {
				Expect(r.StartDate).To(Equal(day("2024-03-01")))
				Expect(r.EndDate).To(Equal(day("2024-03-31")))
			}
			Expect(publisher.events).To(HaveLen(1))
			Expect(publisher.events[0].Payload()).To(HaveKeyWithValue("pair_count", 2))
		})

		It("revokes everything for an empty list", func() {
			Expect(replace(permission.PairDTO{FromDeptID: 1, ToDeptID: 2})).To(Succeed())
			Expect(replace()).To(Succeed())

			views, err := service.List(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(views).To(BeEmpty())
		})

		It("returns storage failures without publishing", func() {
			repo.replaceErr = errors.New("constraint failed")

			Expect(replace(permission.PairDTO{FromDeptID: 1, ToDeptID: 2})).To(MatchError(ContainSubstring("constraint failed")))
			Expect(publisher.events).To(BeEmpty())
		})
	})

	Describe("CanSurvey", func() {
		BeforeEach(func() {
			Expect(replace(
				permission.PairDTO{FromDeptID: 1, ToDeptID: 2},
				permission.PairDTO{FromDeptID: 1, ToDeptID: 1},
				permission.PairDTO{FromDeptID: 3, ToDeptID: 3, CanSurveySelf: true},
			)).To(Succeed())
		})

		DescribeTable("decisions",
			func(from, to int64, on string, allowed bool) {
				ok, err := service.CanSurvey(ctx, from, to, day(on).Add(12*time.Hour))
				Expect(err).NotTo(HaveOccurred())
				Expect(ok).To(Equal(allowed))
			},
			Entry("inside the window", int64(1), int64(2), "2024-03-15", true),
			Entry("first day", int64(1), int64(2), "2024-03-01", true),
			Entry("last day", int64(1), int64(2), "2024-03-31", true),
			Entry("after the window", int64(1), int64(2), "2024-04-01", false),
			Entry("no pair", int64(2), int64(1), "2024-03-15", false),
			Entry("self without canSurveySelf", int64(1), int64(1), "2024-03-15", false),
			Entry("self with canSurveySelf", int64(3), int64(3), "2024-03-15", true),
		)
	})

	Describe("RequestMailAlert", func() {
		It("records the request without failing even when publishing fails", func() {
			publisher.err = errors.New("bus closed")

			Expect(service.RequestMailAlert(ctx, 7, map[string]interface{}{"to": "all"})).To(Succeed())
			Expect(publisher.events).To(HaveLen(1))
			Expect(publisher.events[0].EventType()).To(Equal(events.EventTypeMailAlertRequested))
		})
	})
})
