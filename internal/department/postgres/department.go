package postgres

import (
	"context"
	"errors"

	departmentDatamodel "github.com/frahmantamala/survey-admin/internal/core/datamodel/department"
	"github.com/frahmantamala/survey-admin/internal/department"
	"gorm.io/gorm"
)

type DepartmentRepository struct {
	db *gorm.DB
}

func NewDepartmentRepository(db *gorm.DB) department.RepositoryAPI {
	return &DepartmentRepository{db: db}
}

func (r *DepartmentRepository) GetAll(ctx context.Context) ([]*departmentDatamodel.Department, error) {
	var departments []*departmentDatamodel.Department
	err := r.db.WithContext(ctx).Order("name ASC").Find(&departments).Error
	return departments, err
}

func (r *DepartmentRepository) GetByName(ctx context.Context, name string) (*departmentDatamodel.Department, error) {
	var dept departmentDatamodel.Department
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&dept).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &dept, nil
}

func (r *DepartmentRepository) GetByID(ctx context.Context, id int64) (*departmentDatamodel.Department, error) {
	var dept departmentDatamodel.Department
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dept).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &dept, nil
}

func (r *DepartmentRepository) Create(ctx context.Context, dept *departmentDatamodel.Department) error {
	return r.db.WithContext(ctx).Create(dept).Error
}
