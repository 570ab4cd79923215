package permission_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/frahmantamala/survey-admin/internal/core/database"
	departmentDatamodel "github.com/frahmantamala/survey-admin/internal/core/datamodel/department"
	"github.com/frahmantamala/survey-admin/internal/permission"
	permissionPostgres "github.com/frahmantamala/survey-admin/internal/permission/postgres"
	"github.com/frahmantamala/survey-admin/internal/transport"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

var _ = Describe("Permission Handler Integration", func() {
	var (
		db      *gorm.DB
		handler *permission.Handler
	)

	BeforeEach(func() {
		var err error
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err = database.OpenInMemory()
		Expect(err).NotTo(HaveOccurred())
		for _, name := range []string{"Sales", "Support"} {
			Expect(db.Create(&departmentDatamodel.Department{Name: name}).Error).To(Succeed())
		}

		service := permission.NewService(
			permissionPostgres.NewPermissionRepository(db),
			permission.NewNoopMailAlerter(nil, slogger),
			nil,
			slogger,
		)
		handler = permission.NewHandler(transport.NewBaseHandler(slogger), service)
	})

	post := func(body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		handler.ReplacePermissions(w, httptest.NewRequest(http.MethodPost, "/api/permissions", strings.NewReader(body)))
		return w
	}

	list := func() []permission.View {
		w := httptest.NewRecorder()
		handler.GetPermissions(w, httptest.NewRequest(http.MethodGet, "/api/permissions", nil))
		Expect(w.Code).To(Equal(http.StatusOK))
		var views []permission.View
		Expect(json.Unmarshal(w.Body.Bytes(), &views)).To(Succeed())
		return views
	}

	It("replaces the set and lists it with department names", func() {
		w := post(`{"allowedPairs":[{"fromDeptId":1,"toDeptId":2,"canSurveySelf":false},{"fromDeptId":2,"toDeptId":2,"canSurveySelf":true}],"startDate":"2024-01-01","endDate":"2024-06-30"}`)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring("Permissions updated successfully"))

		views := list()
		Expect(views).To(HaveLen(2))
		Expect(views[0]).To(Equal(permission.View{
			ID:                 views[0].ID,
			FromDepartmentID:   1,
			FromDepartmentName: "Sales",
			ToDepartmentID:     2,
			ToDepartmentName:   "Support",
			StartDate:          "2024-01-01",
			EndDate:            "2024-06-30",
		}))
		Expect(views[1].CanSurveySelf).To(BeTrue())
	})

	It("revokes every pair when given an empty list", func() {
		Expect(post(`{"allowedPairs":[{"fromDeptId":1,"toDeptId":2}],"startDate":"2024-01-01","endDate":"2024-06-30"}`).Code).To(Equal(http.StatusOK))

		w := post(`{"allowedPairs":[],"startDate":"2024-01-01","endDate":"2024-06-30"}`)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(list()).To(BeEmpty())
	})

	DescribeTable("rejects bad bodies with 400 and leaves the set alone",
		func(body string) {
			Expect(post(`{"allowedPairs":[{"fromDeptId":1,"toDeptId":2}],"startDate":"2024-01-01","endDate":"2024-06-30"}`).Code).To(Equal(http.StatusOK))

			w := post(body)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(list()).To(HaveLen(1))
		},
		Entry("missing pairs", `{"startDate":"2024-01-01","endDate":"2024-06-30"}`),
		Entry("pairs not an array", `{"allowedPairs":{},"startDate":"2024-01-01","endDate":"2024-06-30"}`),
		Entry("bad date", `{"allowedPairs":[],"startDate":"tomorrow","endDate":"2024-06-30"}`),
		Entry("inverted window", `{"allowedPairs":[],"startDate":"2024-07-01","endDate":"2024-06-30"}`),
		Entry("unknown field", `{"allowedPairs":[],"startDate":"2024-01-01","endDate":"2024-06-30","extra":1}`),
	)

	It("acknowledges mail alerts without sending anything", func() {
		w := httptest.NewRecorder()
		handler.MailAlert(w, httptest.NewRequest(http.MethodPost, "/api/permissions/mail-alert", strings.NewReader(`{"anything":["goes"]}`)))

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring("delivery not implemented"))
	})
})
