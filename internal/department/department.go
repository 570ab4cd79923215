package department

import (
	"context"
	"strings"
	"time"

	departmentDatamodel "github.com/frahmantamala/survey-admin/internal/core/datamodel/department"
)

type Department struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"-"`
}

type RepositoryAPI interface {
	GetAll(ctx context.Context) ([]*departmentDatamodel.Department, error)
	GetByID(ctx context.Context, id int64) (*departmentDatamodel.Department, error)
	GetByName(ctx context.Context, name string) (*departmentDatamodel.Department, error)
	Create(ctx context.Context, dept *departmentDatamodel.Department) error
}

func NewDepartment(name string) *Department {
	return &Department{
		Name:      strings.TrimSpace(name),
		CreatedAt: time.Now().UTC(),
	}
}

func ToDataModel(d *Department) *departmentDatamodel.Department {
	return &departmentDatamodel.Department{
		ID:        d.ID,
		Name:      d.Name,
		CreatedAt: d.CreatedAt,
	}
}

func FromDataModel(d *departmentDatamodel.Department) *Department {
	return &Department{
		ID:        d.ID,
		Name:      d.Name,
		CreatedAt: d.CreatedAt,
	}
}
