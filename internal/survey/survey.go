package survey

import (
	"context"
	"time"

	submissionDatamodel "github.com/frahmantamala/survey-admin/internal/core/datamodel/submission"
	"github.com/frahmantamala/survey-admin/internal/department"
)

// Submission is one of the caller's own answers, as listed by
// GET /api/user-submissions.
type Submission struct {
	ID                    int64     `json:"id"`
	SurveyID              int64     `json:"surveyId"`
	RatedDepartmentID     int64     `json:"ratedDepartmentId"`
	RatedDepartmentName   string    `json:"ratedDepartmentName"`
	OverallCustomerRating int       `json:"overallCustomerRating"`
	Suggestions           string    `json:"suggestions"`
	SubmittedAt           time.Time `json:"submittedAt"`
}

type SubmitResponse struct {
	Message      string `json:"message"`
	SubmissionID int64  `json:"submissionId"`
}

type RepositoryAPI interface {
	Create(ctx context.Context, s *submissionDatamodel.SurveySubmission) error
	// ListBySubmitter returns the user's submissions, newest first.
	ListBySubmitter(ctx context.Context, userID int64) ([]Submission, error)
}

// DepartmentLookup resolves departments; nil, nil means absent.
type DepartmentLookup interface {
	GetByName(ctx context.Context, name string) (*department.Department, error)
	GetByID(ctx context.Context, id int64) (*department.Department, error)
}

// WindowChecker decides whether one department may rate another today.
type WindowChecker interface {
	CanSurvey(ctx context.Context, fromDepartmentID, toDepartmentID int64, now time.Time) (bool, error)
}
