package user

import (
	"time"

	coreuser "github.com/frahmantamala/survey-admin/internal/core/user"
)

type User struct {
	ID           int64     `gorm:"primaryKey"`
	Username     string    `gorm:"column:username;size:100;uniqueIndex;not null"`
	Email        string    `gorm:"column:email;size:255;uniqueIndex;not null"`
	Name         string    `gorm:"column:name;not null"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	Department   string    `gorm:"column:department;not null"`
	Role         string    `gorm:"column:role;size:50;not null"`
	IsActive     bool      `gorm:"column:is_active;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

// Profile drops the password hash.
func (u *User) Profile() coreuser.Profile {
	return coreuser.Profile{
		ID:         u.ID,
		Username:   u.Username,
		Name:       u.Name,
		Email:      u.Email,
		Department: u.Department,
		Role:       u.Role,
		IsActive:   u.IsActive,
	}
}
