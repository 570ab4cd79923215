package department

import (
	errors "github.com/frahmantamala/survey-admin/internal"
	"github.com/frahmantamala/survey-admin/internal/core/common/validation"
)

type CreateDepartmentDTO struct {
	Name string `json:"name" validate:"required,notblank,max=100"`
}

func (d CreateDepartmentDTO) Validate() *errors.AppError {
	return validation.Struct(d)
}
