package auth

import (
	errors "github.com/frahmantamala/survey-admin/internal"
	"github.com/frahmantamala/survey-admin/internal/core/common/validation"
	coreuser "github.com/frahmantamala/survey-admin/internal/core/user"
)

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
type LoginDTO struct {
	Username string `json:"username" validate:"required,notblank"`
	Password string `json:"password" validate:"required"`
}

func (d LoginDTO) Validate() *errors.AppError {
	return validation.Struct(d)
}

type VerifyAuthResponse struct {
	IsAuthenticated bool              `json:"isAuthenticated"`
	User            *coreuser.Profile `json:"user"`
}
