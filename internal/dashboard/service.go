package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

const recentWindow = 30 * 24 * time.Hour

type Service struct {
	repo    RepositoryAPI
	catalog SurveyCatalog
	logger  *slog.Logger
	now     func() time.Time
}

func NewService(repo RepositoryAPI, catalog SurveyCatalog, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		catalog: catalog,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *Service) OverallStats(ctx context.Context) (*OverallStats, error) {
	surveys, err := s.catalog.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list surveys: %w", err)
	}

	totals, err := s.repo.Totals(ctx, s.now().UTC().Add(-recentWindow))
	if err != nil {
		return nil, fmt.Errorf("load dashboard totals: %w", err)
	}

	return &OverallStats{
		TotalSurveys:          len(surveys),
		TotalSubmissions:      totals.TotalSubmissions,
		TotalDepartments:      totals.TotalDepartments,
		TotalUsers:            totals.TotalUsers,
		AverageRating:         rating(totals.AverageRating),
		SubmissionsLast30Days: totals.SubmissionsLast30Days,
	}, nil
}

func (s *Service) DepartmentMetrics(ctx context.Context) ([]DepartmentMetric, error) {
	rows, err := s.repo.DepartmentMetrics(ctx)
	if err != nil {
		return nil, fmt.Errorf("load department metrics: %w", err)
	}

	metrics := make([]DepartmentMetric, 0, len(rows))
	for _, row := range rows {
		metrics = append(metrics, DepartmentMetric{
			DepartmentID:        row.DepartmentID,
			DepartmentName:      row.DepartmentName,
			SubmissionsReceived: row.SubmissionsReceived,
			AverageRating:       rating(row.AverageRating),
			HasData:             row.SubmissionsReceived > 0,
		})
	}
	return metrics, nil
}
