package user

import (
	"strings"

	errors "github.com/frahmantamala/survey-admin/internal"
	"github.com/frahmantamala/survey-admin/internal/core/common/validation"
)

type CreateUserDTO struct {
	Username   string `json:"username" validate:"required,notblank,max=100"`
	Password   string `json:"password" validate:"required,min=6"`
	Name       string `json:"name" validate:"required,notblank"`
	Email      string `json:"email" validate:"required,email,max=255"`
	Department string `json:"department" validate:"required,notblank"`
	Role       string `json:"role" validate:"required,notblank,max=50"`
	IsActive   *bool  `json:"is_active"`
}

func (d CreateUserDTO) Validate() *errors.AppError {
	return validation.Struct(d)
}

// Normalize trims the identifying fields. Passwords are left untouched.
func (d CreateUserDTO) Normalize() CreateUserDTO {
	d.Username = strings.TrimSpace(d.Username)
	d.Name = strings.TrimSpace(d.Name)
	d.Email = strings.TrimSpace(d.Email)
	d.Department = strings.TrimSpace(d.Department)
	d.Role = strings.TrimSpace(d.Role)
	return d
}

// UpdateUserDTO rewrites the profile. Username and password cannot change
// here; an absent is_active keeps the current value.
type UpdateUserDTO struct {
	Name       string `json:"name" validate:"required,notblank"`
	Email      string `json:"email" validate:"required,email,max=255"`
	Department string `json:"department" validate:"required,notblank"`
	Role       string `json:"role" validate:"required,notblank,max=50"`
	IsActive   *bool  `json:"is_active"`
}

func (d UpdateUserDTO) Validate() *errors.AppError {
	return validation.Struct(d)
}

func (d UpdateUserDTO) ToProfileUpdate() ProfileUpdate {
	return ProfileUpdate{
		Name:       strings.TrimSpace(d.Name),
		Email:      strings.TrimSpace(d.Email),
		Department: strings.TrimSpace(d.Department),
		Role:       strings.TrimSpace(d.Role),
		IsActive:   d.IsActive,
	}
}

type CreateUserResponse struct {
	ID int64 `json:"id"`
}
