package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/survey-admin/internal/auth"
	userDatamodel "github.com/frahmantamala/survey-admin/internal/core/datamodel/user"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) GetCredentialsByUsername(ctx context.Context, username string) (*auth.Credentials, error) {
	var u userDatamodel.User
	err := r.db.WithContext(ctx).
		Where("username = ? AND is_active = ?", username, true).
		First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &auth.Credentials{
		Profile:      u.Profile(),
		PasswordHash: u.PasswordHash,
	}, nil
}
