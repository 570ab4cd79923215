package user

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	errors "github.com/frahmantamala/survey-admin/internal"
	"github.com/frahmantamala/survey-admin/internal/core/database"
	userDatamodel "github.com/frahmantamala/survey-admin/internal/core/datamodel/user"
	"github.com/frahmantamala/survey-admin/internal/core/events"
)

type Service struct {
	repo   RepositoryAPI
	hasher PasswordHasher
	events events.Publisher
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo RepositoryAPI, hasher PasswordHasher, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		hasher: hasher,
		events: publisher,
		logger: logger,
		now:    time.Now,
	}
}

func (s *Service) List(ctx context.Context) ([]*User, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]*User, 0, len(rows))
	for _, row := range rows {
		users = append(users, FromDataModel(row))
	}
	return users, nil
}

func (s *Service) Create(ctx context.Context, actorID int64, dto CreateUserDTO) (int64, error) {
	dto = dto.Normalize()
	if err := dto.Validate(); err != nil {
		return 0, err
	}

	hash, err := s.hasher.HashPassword(dto.Password)
	if err != nil {
		return 0, fmt.Errorf("failed to hash password: %w", err)
	}

	active := true
	if dto.IsActive != nil {
		active = *dto.IsActive
	}

	row := &userDatamodel.User{
		Username:     dto.Username,
		Email:        dto.Email,
		Name:         dto.Name,
		PasswordHash: hash,
		Department:   dto.Department,
		Role:         dto.Role,
		IsActive:     active,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		if database.IsUniqueViolation(err) {
			return 0, errors.ErrDuplicateUser
		}
		return 0, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.InfoContext(ctx, "user created", "user_id", row.ID, "username", row.Username, "role", row.Role)
	s.publish(ctx, events.NewUserCreatedEvent(actorID, row.ID, row.Username, row.Role))
	return row.ID, nil
}

func (s *Service) Update(ctx context.Context, id int64, dto UpdateUserDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	found, err := s.repo.Update(ctx, id, dto.ToProfileUpdate(), s.now().UTC())
	if err != nil {
		if database.IsUniqueViolation(err) {
			return errors.ErrDuplicateUser
		}
		return fmt.Errorf("failed to update user %d: %w", id, err)
	}
	if !found {
		return errors.ErrUserNotFound
	}
	return nil
}

// Delete removes the user row only. Their submissions stay.
func (s *Service) Delete(ctx context.Context, actorID, id int64) error {
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete user %d: %w", id, err)
	}
	if !found {
		return errors.ErrUserNotFound
	}

	s.logger.InfoContext(ctx, "user deleted", "user_id", id, "actor_id", actorID)
	s.publish(ctx, events.NewUserDeletedEvent(actorID, id))
	return nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish event", "event_type", event.EventType(), "error", err)
	}
}
