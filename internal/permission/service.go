package permission

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	permissionDatamodel "github.com/frahmantamala/survey-admin/internal/core/datamodel/permission"
	"github.com/frahmantamala/survey-admin/internal/core/events"
)

type Service struct {
	repo    RepositoryAPI
	alerter MailAlerter
	events  events.Publisher
	logger  *slog.Logger
}

func NewService(repo RepositoryAPI, alerter MailAlerter, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		alerter: alerter,
		events:  publisher,
		logger:  logger,
	}
}

func (s *Service) List(ctx context.Context) ([]View, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list permissions: %w", err)
	}

	views := make([]View, 0, len(rows))
	for _, row := range rows {
		views = append(views, row.View())
	}
	return views, nil
}

// Replace swaps the whole permission set for dto.AllowedPairs, all sharing
// one window. Pairs left out are revoked.
func (s *Service) Replace(ctx context.Context, actorID int64, dto ReplacePermissionsDTO) error {
	window, verr := dto.Validate()
	if verr != nil {
		return verr
	}

	rows := make([]*permissionDatamodel.Permission, 0, len(dto.AllowedPairs))
	for _, pair := range dto.AllowedPairs {
		rows = append(rows, &permissionDatamodel.Permission{
			FromDepartmentID: pair.FromDeptID,
			ToDepartmentID:   pair.ToDeptID,
			CanSurveySelf:    pair.CanSurveySelf,
			StartDate:        window.Start,
			EndDate:          window.End,
		})
	}

	if err := s.repo.ReplaceAll(ctx, rows); err != nil {
		return fmt.Errorf("replace permissions: %w", err)
	}

	start, end := window.Start.Format(DateLayout), window.End.Format(DateLayout)
	s.logger.InfoContext(ctx, "permissions replaced", "actor_id", actorID, "pairs", len(rows), "start_date", start, "end_date", end)

	if s.events != nil {
		if err := s.events.Publish(ctx, events.NewPermissionsReplacedEvent(actorID, len(rows), start, end)); err != nil {
			s.logger.WarnContext(ctx, "failed to publish permissions replaced event", "error", err)
		}
	}
	return nil
}

func (s *Service) RequestMailAlert(ctx context.Context, actorID int64, payload map[string]interface{}) error {
	if err := s.alerter.RequestAlert(ctx, actorID, payload); err != nil {
		// nothing is delivered, so a failed notification never fails the request
		s.logger.WarnContext(ctx, "mail alert request not recorded", "error", err)
	}
	return nil
}

// CanSurvey reports whether fromDepartmentID may rate toDepartmentID on the
// day of now. Rating your own department also needs canSurveySelf.
func (s *Service) CanSurvey(ctx context.Context, fromDepartmentID, toDepartmentID int64, now time.Time) (bool, error) {
	rows, err := s.repo.FindByPair(ctx, fromDepartmentID, toDepartmentID)
	if err != nil {
		return false, fmt.Errorf("find permissions: %w", err)
	}

	for _, row := range rows {
		window := Window{Start: truncateDay(row.StartDate.UTC()), End: truncateDay(row.EndDate.UTC())}
		if !window.Contains(now) {
			continue
		}
		if fromDepartmentID == toDepartmentID && !row.CanSurveySelf {
			continue
		}
		return true, nil
	}
	return false, nil
}
