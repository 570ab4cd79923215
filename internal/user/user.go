package user

import (
	"context"
	"time"

	userDatamodel "github.com/frahmantamala/survey-admin/internal/core/datamodel/user"
)

// User is the admin-facing view of an account.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"` // Never expose password hash
	Department   string    `json:"department"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ProfileUpdate carries the fields PUT /api/users/{id} may rewrite.
type ProfileUpdate struct {
	Name       string
	Email      string
	Department string
	Role       string
	IsActive   *bool
}

type RepositoryAPI interface {
	List(ctx context.Context) ([]*userDatamodel.User, error)
	Create(ctx context.Context, u *userDatamodel.User) error
	// Update reports false when no row has id.
	Update(ctx context.Context, id int64, update ProfileUpdate, now time.Time) (bool, error)
	// Delete reports false when no row has id.
	Delete(ctx context.Context, id int64) (bool, error)
}

// PasswordHasher is satisfied by auth.Service.
type PasswordHasher interface {
	HashPassword(password string) (string, error)
}

func FromDataModel(u *userDatamodel.User) *User {
	return &User{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Department:   u.Department,
		Role:         u.Role,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}
