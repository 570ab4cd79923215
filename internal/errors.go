package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidBody      ErrorCode = "INVALID_BODY"
	ErrCodeInvalidID        ErrorCode = "INVALID_ID"
	ErrCodeInvalidDate      ErrorCode = "INVALID_DATE"
	ErrCodeInvalidWindow    ErrorCode = "INVALID_WINDOW"
	ErrCodeInvalidRating    ErrorCode = "INVALID_RATING"
	ErrCodeUnknownSurvey    ErrorCode = "UNKNOWN_SURVEY"

	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeAuthRequired       ErrorCode = "AUTHENTICATION_REQUIRED"
	ErrCodeAdminRequired      ErrorCode = "ADMIN_REQUIRED"

	ErrCodeUserNotFound        ErrorCode = "USER_NOT_FOUND"
	ErrCodeDuplicateUser       ErrorCode = "DUPLICATE_USER"
	ErrCodeDuplicateDepartment ErrorCode = "DUPLICATE_DEPARTMENT"
	ErrCodeSurveyNotFound      ErrorCode = "SURVEY_NOT_FOUND"
	ErrCodeSurveyNotPermitted  ErrorCode = "SURVEY_NOT_PERMITTED"
	ErrCodeAdminSubmission     ErrorCode = "ADMIN_SUBMISSION"

	ErrCodeDepartmentUnresolved ErrorCode = "DEPARTMENT_UNRESOLVED"
	ErrCodeInternal             ErrorCode = "INTERNAL_ERROR"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
			return validationErrors.Errors[0].Message
		}
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// GetDetailedMessage joins field-level validation messages, falling back to
// the top-level message.
func (e *AppError) GetDetailedMessage() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
			messages := make([]string, len(validationErrors.Errors))
			for i, err := range validationErrors.Errors {
				messages[i] = err.Message
			}
			return strings.Join(messages, "; ")
		}
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithCause returns a copy carrying cause. Sentinels stay untouched.
func (e *AppError) WithCause(cause error) *AppError {
	cp := *e
	cp.Cause = cause
	return &cp
}

// WithDetails returns a copy carrying details.
func (e *AppError) WithDetails(details interface{}) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

// Is matches sentinels by type and code so copies made by WithCause and
// WithDetails still satisfy errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Code == t.Code
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeValidationFailed,
		Message:    "Validation failed",
		StatusCode: http.StatusBadRequest,
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       ErrCodeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// NewConflictError reports a uniqueness violation. The API contract surfaces
// these as 400, not 409.
func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

var (
	ErrInvalidCredentials     = NewUnauthorizedError("Invalid username or password", ErrCodeInvalidCredentials)
	ErrAuthenticationRequired = NewUnauthorizedError("Authentication required", ErrCodeAuthRequired)
	ErrAdminRequired          = NewForbiddenError("Admin access required", ErrCodeAdminRequired)

	ErrUserNotFound        = NewNotFoundError("User not found", ErrCodeUserNotFound)
	ErrDuplicateUser       = NewConflictError("Username or email already exists", ErrCodeDuplicateUser)
	ErrDuplicateDepartment = NewConflictError("Department already exists", ErrCodeDuplicateDepartment)

	ErrSurveyNotFound       = NewNotFoundError("Survey not found", ErrCodeSurveyNotFound)
	ErrUnknownSurvey        = NewValidationError("Unknown survey", ErrCodeUnknownSurvey)
	ErrSurveyNotPermitted   = NewForbiddenError("Your department is not permitted to survey this department", ErrCodeSurveyNotPermitted)
	ErrAdminSubmission      = NewForbiddenError("Admins cannot submit surveys", ErrCodeAdminSubmission)
	ErrDepartmentUnresolved = &AppError{
		Type:       ErrorTypeInternal,
		Code:       ErrCodeDepartmentUnresolved,
		Message:    "Submitter department could not be resolved",
		StatusCode: http.StatusInternalServerError,
	}
)

// IsAppError unwraps err looking for an *AppError.
func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
