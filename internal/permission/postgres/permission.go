package postgres

import (
	"context"

	permissionDatamodel "github.com/frahmantamala/survey-admin/internal/core/datamodel/permission"
	"github.com/frahmantamala/survey-admin/internal/permission"
	"gorm.io/gorm"
)

type PermissionRepository struct {
	db *gorm.DB
}

func NewPermissionRepository(db *gorm.DB) permission.RepositoryAPI {
	return &PermissionRepository{db: db}
}

func (r *PermissionRepository) List(ctx context.Context) ([]permission.Row, error) {
	var rows []permission.Row
	err := r.db.WithContext(ctx).
		Table("permissions AS p").
		Select(`p.id AS id,
			p.from_department_id AS from_department_id,
			COALESCE(fd.name, '') AS from_department_name,
			p.to_department_id AS to_department_id,
			COALESCE(td.name, '') AS to_department_name,
			p.can_survey_self AS can_survey_self,
			p.start_date AS start_date,
			p.end_date AS end_date`).
		Joins("LEFT JOIN departments AS fd ON fd.id = p.from_department_id").
		Joins("LEFT JOIN departments AS td ON td.id = p.to_department_id").
		Order("p.id ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *PermissionRepository) ReplaceAll(ctx context.Context, rows []*permissionDatamodel.Permission) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Delete(&permissionDatamodel.Permission{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}

func (r *PermissionRepository) FindByPair(ctx context.Context, fromDepartmentID, toDepartmentID int64) ([]*permissionDatamodel.Permission, error) {
	var rows []*permissionDatamodel.Permission
	err := r.db.WithContext(ctx).
		Where("from_department_id = ? AND to_department_id = ?", fromDepartmentID, toDepartmentID).
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}
