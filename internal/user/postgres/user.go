package postgres

import (
	"context"
	"time"

	userDatamodel "github.com/frahmantamala/survey-admin/internal/core/datamodel/user"
	"github.com/frahmantamala/survey-admin/internal/user"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.RepositoryAPI {
	return &UserRepository{db: db}
}

func (r *UserRepository) List(ctx context.Context) ([]*userDatamodel.User, error) {
	var users []*userDatamodel.User
	err := r.db.WithContext(ctx).Order("id ASC").Find(&users).Error
	return users, err
}

func (r *UserRepository) Create(ctx context.Context, u *userDatamodel.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *UserRepository) Update(ctx context.Context, id int64, update user.ProfileUpdate, now time.Time) (bool, error) {
	fields := map[string]interface{}{
		"name":       update.Name,
		"email":      update.Email,
		"department": update.Department,
		"role":       update.Role,
		"updated_at": now,
	}
	if update.IsActive != nil {
		fields["is_active"] = *update.IsActive
	}

	res := r.db.WithContext(ctx).Model(&userDatamodel.User{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&userDatamodel.User{}, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
