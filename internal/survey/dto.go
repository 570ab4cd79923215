package survey

import (
	"strings"

	errors "github.com/frahmantamala/survey-admin/internal"
	"github.com/frahmantamala/survey-admin/internal/core/common/validation"
)

type SubmitSurveyDTO struct {
	SurveyID              int64  `json:"surveyId" validate:"gt=0"`
	RatedDepartmentID     int64  `json:"ratedDepartmentId" validate:"gt=0"`
	OverallCustomerRating int    `json:"overallCustomerRating" validate:"min=1,max=100"`
	Suggestions           string `json:"suggestions" validate:"max=2000"`
}

func (d SubmitSurveyDTO) Validate() *errors.AppError {
	d.Suggestions = strings.TrimSpace(d.Suggestions)
	return validation.Struct(d)
}
