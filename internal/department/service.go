package department

import (
	"context"
	"fmt"
	"log/slog"

	errors "github.com/frahmantamala/survey-admin/internal"
	"github.com/frahmantamala/survey-admin/internal/core/database"
	"github.com/frahmantamala/survey-admin/internal/core/events"
)

type Service struct {
	repo   RepositoryAPI
	events events.Publisher
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		events: publisher,
		logger: logger,
	}
}

// List returns every department ordered by name.
func (s *Service) List(ctx context.Context) ([]*Department, error) {
	rows, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to get departments from repository", "error", err)
		return nil, fmt.Errorf("list departments: %w", err)
	}

	departments := make([]*Department, 0, len(rows))
	for _, row := range rows {
		departments = append(departments, FromDataModel(row))
	}
	return departments, nil
}

// Create adds a department. Names are unique; a duplicate is a 400, never a
// second row.
func (s *Service) Create(ctx context.Context, actorID int64, dto CreateDepartmentDTO) (*Department, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	dept := NewDepartment(dto.Name)

	existing, err := s.repo.GetByName(ctx, dept.Name)
	if err != nil {
		return nil, fmt.Errorf("lookup department %q: %w", dept.Name, err)
	}
	if existing != nil {
		return nil, errors.ErrDuplicateDepartment
	}

	row := ToDataModel(dept)
	if err := s.repo.Create(ctx, row); err != nil {
		// the unique index still catches a concurrent create
		if database.IsUniqueViolation(err) {
			return nil, errors.ErrDuplicateDepartment
		}
		return nil, fmt.Errorf("create department: %w", err)
	}

	created := FromDataModel(row)
	s.logger.InfoContext(ctx, "department created", "department_id", created.ID, "name", created.Name)

	if s.events != nil {
		if err := s.events.Publish(ctx, events.NewDepartmentCreatedEvent(actorID, created.ID, created.Name)); err != nil {
			s.logger.WarnContext(ctx, "failed to publish department created event", "error", err)
		}
	}
	return created, nil
}

// GetByName resolves a department by exact name; nil when absent.
func (s *Service) GetByName(ctx context.Context, name string) (*Department, error) {
	row, err := s.repo.GetByName(ctx, name)
	if err != nil || row == nil {
		return nil, err
	}
	return FromDataModel(row), nil
}

// GetByID resolves a department by id; nil when absent.
func (s *Service) GetByID(ctx context.Context, id int64) (*Department, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil || row == nil {
		return nil, err
	}
	return FromDataModel(row), nil
}
