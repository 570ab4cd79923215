package postgres

import (
	"context"

	submissionDatamodel "github.com/frahmantamala/survey-admin/internal/core/datamodel/submission"
	"github.com/frahmantamala/survey-admin/internal/survey"
	"gorm.io/gorm"
)

type SubmissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) survey.RepositoryAPI {
	return &SubmissionRepository{db: db}
}

func (r *SubmissionRepository) Create(ctx context.Context, s *submissionDatamodel.SurveySubmission) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *SubmissionRepository) ListBySubmitter(ctx context.Context, userID int64) ([]survey.Submission, error) {
	var subs []survey.Submission
	err := r.db.WithContext(ctx).
		Table("survey_submissions AS s").
		Select(`s.id AS id,
			s.survey_id AS survey_id,
			s.rated_department_id AS rated_department_id,
			COALESCE(d.name, '') AS rated_department_name,
			s.overall_customer_rating AS overall_customer_rating,
			COALESCE(s.suggestions, '') AS suggestions,
			s.submitted_at AS submitted_at`).
		Joins("LEFT JOIN departments AS d ON d.id = s.rated_department_id").
		Where("s.submitter_user_id = ?", userID).
		Order("s.submitted_at DESC, s.id DESC").
		Scan(&subs).Error
	return subs, err
}
