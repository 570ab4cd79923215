package survey

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	errors "github.com/frahmantamala/survey-admin/internal"
	submissionDatamodel "github.com/frahmantamala/survey-admin/internal/core/datamodel/submission"
	"github.com/frahmantamala/survey-admin/internal/core/events"
	coreuser "github.com/frahmantamala/survey-admin/internal/core/user"
	"github.com/frahmantamala/survey-admin/internal/observability/metrics"
)

type Service struct {
	catalog     Catalog
	repo        RepositoryAPI
	departments DepartmentLookup
	// windows is nil unless permission windows are enforced.
	windows WindowChecker
	events  events.Publisher
	logger  *slog.Logger
	now     func() time.Time
}

func NewService(catalog Catalog, repo RepositoryAPI, departments DepartmentLookup, windows WindowChecker, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		catalog:     catalog,
		repo:        repo,
		departments: departments,
		windows:     windows,
		events:      publisher,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *Service) ListSurveys(ctx context.Context) ([]Survey, error) {
	return s.catalog.List(ctx)
}

func (s *Service) GetSurvey(ctx context.Context, id int64) (*Survey, error) {
	survey, err := s.catalog.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get survey %d: %w", id, err)
	}
	if survey == nil {
		return nil, errors.ErrSurveyNotFound
	}
	return survey, nil
}

// Submit records submitter's answer. Only non-admin users rate departments.
// The submitter's department is found by name because users carry a
// department name, not an id.
func (s *Service) Submit(ctx context.Context, submitter *coreuser.Profile, dto SubmitSurveyDTO) (int64, error) {
	if submitter.IsAdmin() {
		return 0, errors.ErrAdminSubmission
	}
	if err := dto.Validate(); err != nil {
		return 0, err
	}

	survey, err := s.catalog.Get(ctx, dto.SurveyID)
	if err != nil {
		return 0, fmt.Errorf("get survey %d: %w", dto.SurveyID, err)
	}
	if survey == nil {
		return 0, errors.ErrUnknownSurvey
	}

	rated, err := s.departments.GetByID(ctx, dto.RatedDepartmentID)
	if err != nil {
		return 0, fmt.Errorf("lookup rated department: %w", err)
	}
	if rated == nil {
		return 0, errors.NewValidationFieldError("ratedDepartmentId", "ratedDepartmentId does not match a department", errors.ErrCodeValidationFailed)
	}

	from, err := s.departments.GetByName(ctx, submitter.Department)
	if err != nil {
		return 0, fmt.Errorf("lookup submitter department: %w", err)
	}
	if from == nil {
		s.logger.ErrorContext(ctx, "submitter department not found", "user_id", submitter.ID, "department", submitter.Department)
		return 0, errors.ErrDepartmentUnresolved
	}

	now := s.now().UTC()
	if s.windows != nil {
		allowed, err := s.windows.CanSurvey(ctx, from.ID, rated.ID, now)
		if err != nil {
			return 0, err
		}
		if !allowed {
			return 0, errors.ErrSurveyNotPermitted
		}
	}

	row := &submissionDatamodel.SurveySubmission{
		SurveyID:              survey.ID,
		SubmitterUserID:       submitter.ID,
		SubmitterDepartmentID: from.ID,
		RatedDepartmentID:     rated.ID,
		OverallCustomerRating: dto.OverallCustomerRating,
		Suggestions:           strings.TrimSpace(dto.Suggestions),
		SubmittedAt:           now,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return 0, fmt.Errorf("create submission: %w", err)
	}

	metrics.ObserveSubmission()
	s.logger.InfoContext(ctx, "survey submitted", "submission_id", row.ID, "survey_id", row.SurveyID, "rated_department_id", row.RatedDepartmentID)

	if s.events != nil {
		event := events.NewSurveySubmittedEvent(row.ID, row.SurveyID, submitter.ID, row.RatedDepartmentID, row.OverallCustomerRating)
		if err := s.events.Publish(ctx, event); err != nil {
			s.logger.WarnContext(ctx, "failed to publish survey submitted event", "error", err)
		}
	}
	return row.ID, nil
}

func (s *Service) ListUserSubmissions(ctx context.Context, userID int64) ([]Submission, error) {
	subs, err := s.repo.ListBySubmitter(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list submissions for user %d: %w", userID, err)
	}
	if subs == nil {
		subs = []Submission{}
	}
	return subs, nil
}
