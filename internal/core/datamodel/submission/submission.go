package submission

import "time"

type SurveySubmission struct {
	ID                    int64     `gorm:"primaryKey"`
	SurveyID              int64     `gorm:"column:survey_id;not null"`
	SubmitterUserID       int64     `gorm:"column:submitter_user_id;not null;index"`
	SubmitterDepartmentID int64     `gorm:"column:submitter_department_id;not null"`
	RatedDepartmentID     int64     `gorm:"column:rated_department_id;not null;index"`
	OverallCustomerRating int       `gorm:"column:overall_customer_rating;not null"`
	Suggestions           string    `gorm:"column:suggestions"`
	SubmittedAt           time.Time `gorm:"column:submitted_at;not null"`
}

func (SurveySubmission) TableName() string {
	return "survey_submissions"
}
