package survey_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"time"

	"github.com/frahmantamala/survey-admin/internal/core/database"
	departmentDatamodel "github.com/frahmantamala/survey-admin/internal/core/datamodel/department"
	coreuser "github.com/frahmantamala/survey-admin/internal/core/user"
	"github.com/frahmantamala/survey-admin/internal/department"
	departmentPostgres "github.com/frahmantamala/survey-admin/internal/department/postgres"
	"github.com/frahmantamala/survey-admin/internal/session"
	"github.com/frahmantamala/survey-admin/internal/survey"
	surveyPostgres "github.com/frahmantamala/survey-admin/internal/survey/postgres"
	"github.com/frahmantamala/survey-admin/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Survey Handler Integration", func() {
	var (
		router chi.Router
		user   *coreuser.Profile
	)

	BeforeEach(func() {
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err := database.OpenInMemory()
		Expect(err).NotTo(HaveOccurred())
		for _, name := range []string{"Sales", "Support"} {
			Expect(db.Create(&departmentDatamodel.Department{Name: name}).Error).To(Succeed())
		}

		depts := department.NewService(departmentPostgres.NewDepartmentRepository(db), nil, slogger)
		service := survey.NewService(survey.NewFixtureCatalog(), surveyPostgres.NewSubmissionRepository(db), depts, nil, nil, slogger)
		handler := survey.NewHandler(transport.NewBaseHandler(slogger), service)

		user = &coreuser.Profile{ID: 3, Username: "rep", Department: "Sales", Role: coreuser.RoleRep}

		router = chi.NewRouter()
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				s := &session.Session{ID: "test", User: user, ExpiresAt: time.Now().Add(time.Hour)}
				next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), s)))
			})
		})
		router.Get("/api/surveys", handler.ListSurveys)
		router.Get("/api/surveys/{id}", handler.GetSurvey)
		router.Post("/api/submit-survey", handler.SubmitSurvey)
		router.Get("/api/user-submissions", handler.ListUserSubmissions)
	})

	do := func(method, path, body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(method, path, strings.NewReader(body)))
		return w
	}

	It("serves the fixture catalog", func() {
		w := do(http.MethodGet, "/api/surveys", "")
		Expect(w.Code).To(Equal(http.StatusOK))

		var surveys []survey.Survey
		Expect(json.Unmarshal(w.Body.Bytes(), &surveys)).To(Succeed())
		Expect(surveys).NotTo(BeEmpty())

		Expect(do(http.MethodGet, "/api/surveys/1", "").Code).To(Equal(http.StatusOK))
		Expect(do(http.MethodGet, "/api/surveys/999", "").Code).To(Equal(http.StatusNotFound))
	})

	It("accepts a submission and lists it for the submitter", func() {
		w := do(http.MethodPost, "/api/submit-survey", `{"surveyId":1,"ratedDepartmentId":2,"overallCustomerRating":100,"suggestions":"keep it up"}`)

		Expect(w.Code).To(Equal(http.StatusOK))
		var resp survey.SubmitResponse
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.Message).To(Equal("Survey submitted successfully"))
		Expect(resp.SubmissionID).To(BeNumerically(">", 0))

		list := do(http.MethodGet, "/api/user-submissions", "")
		Expect(list.Code).To(Equal(http.StatusOK))
		var subs []survey.Submission
		Expect(json.Unmarshal(list.Body.Bytes(), &subs)).To(Succeed())
		Expect(subs).To(HaveLen(1))
		Expect(subs[0].RatedDepartmentName).To(Equal("Support"))
		Expect(subs[0].OverallCustomerRating).To(Equal(100))
	})

	DescribeTable("rating bounds over HTTP",
		func(rating string, status int) {
			w := do(http.MethodPost, "/api/submit-survey", `{"surveyId":1,"ratedDepartmentId":2,"overallCustomerRating":`+rating+`}`)
			Expect(w.Code).To(Equal(status))
		},
		Entry("0", "0", http.StatusBadRequest),
		Entry("1", "1", http.StatusOK),
		Entry("100", "100", http.StatusOK),
		Entry("101", "101", http.StatusBadRequest),
	)

	It("answers 500 when the submitter's department cannot be resolved", func() {
		user.Department = "Ghost"

		w := do(http.MethodPost, "/api/submit-survey", `{"surveyId":1,"ratedDepartmentId":2,"overallCustomerRating":50}`)

		Expect(w.Code).To(Equal(http.StatusInternalServerError))
		Expect(w.Body.String()).To(ContainSubstring("Submitter department could not be resolved"))
	})
})
