package permission

import (
	errors "github.com/frahmantamala/survey-admin/internal"
	"github.com/frahmantamala/survey-admin/internal/core/common/validation"
)

type PairDTO struct {
	FromDeptID    int64 `json:"fromDeptId" validate:"gt=0"`
	ToDeptID      int64 `json:"toDeptId" validate:"gt=0"`
	CanSurveySelf bool  `json:"canSurveySelf"`
}

// ReplacePermissionsDTO replaces the entire permission set. An empty
// allowedPairs list revokes everything; a missing one is an error.
type ReplacePermissionsDTO struct {
	AllowedPairs []PairDTO `json:"allowedPairs" validate:"required,dive"`
	StartDate    string    `json:"startDate" validate:"required,notblank"`
	EndDate      string    `json:"endDate" validate:"required,notblank"`
}

// Validate checks the body shape and parses the window.
func (d ReplacePermissionsDTO) Validate() (Window, *errors.AppError) {
	if err := validation.Struct(d); err != nil {
		return Window{}, err
	}

	start, err := ParseDate(d.StartDate)
	if err != nil {
		return Window{}, errors.NewValidationFieldError("startDate", "startDate must be a date (YYYY-MM-DD)", errors.ErrCodeInvalidDate)
	}
	end, err := ParseDate(d.EndDate)
	if err != nil {
		return Window{}, errors.NewValidationFieldError("endDate", "endDate must be a date (YYYY-MM-DD)", errors.ErrCodeInvalidDate)
	}

	window, err := NewWindow(start, end)
	if err != nil {
		return Window{}, errors.NewValidationFieldError("endDate", "endDate must not be before startDate", errors.ErrCodeInvalidWindow)
	}
	return window, nil
}
