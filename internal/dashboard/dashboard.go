package dashboard

import (
	"context"
	"database/sql"
	"math"
	"time"

	"github.com/frahmantamala/survey-admin/internal/survey"
)

type OverallStats struct {
	TotalSurveys          int      `json:"totalSurveys"`
	TotalSubmissions      int64    `json:"totalSubmissions"`
	TotalDepartments      int64    `json:"totalDepartments"`
	TotalUsers            int64    `json:"totalUsers"`
	AverageRating         *float64 `json:"averageRating"`
	SubmissionsLast30Days int64    `json:"submissionsLast30Days"`
}

// DepartmentMetric describes ratings a department has received. With no
// submissions AverageRating is null and HasData is false.
type DepartmentMetric struct {
	DepartmentID        int64    `json:"departmentId"`
	DepartmentName      string   `json:"departmentName"`
	SubmissionsReceived int64    `json:"submissionsReceived"`
	AverageRating       *float64 `json:"averageRating"`
	HasData             bool     `json:"hasData"`
}

// Totals is the row produced by the overall aggregate query.
type Totals struct {
	TotalSubmissions      int64           `db:"total_submissions"`
	TotalDepartments      int64           `db:"total_departments"`
	TotalUsers            int64           `db:"total_users"`
	AverageRating         sql.NullFloat64 `db:"average_rating"`
	SubmissionsLast30Days int64           `db:"submissions_last_30_days"`
}

// MetricRow is one department in the per-department aggregate query.
type MetricRow struct {
	DepartmentID        int64           `db:"department_id"`
	DepartmentName      string          `db:"department_name"`
	SubmissionsReceived int64           `db:"submissions_received"`
	AverageRating       sql.NullFloat64 `db:"average_rating"`
}

type RepositoryAPI interface {
	Totals(ctx context.Context, since time.Time) (*Totals, error)
	DepartmentMetrics(ctx context.Context) ([]MetricRow, error)
}

// SurveyCatalog is the part of survey.Catalog the dashboard counts.
type SurveyCatalog interface {
	List(ctx context.Context) ([]survey.Survey, error)
}

// rating rounds an average to two decimals; invalid means no data.
func rating(avg sql.NullFloat64) *float64 {
	if !avg.Valid {
		return nil
	}
	v := math.Round(avg.Float64*100) / 100
	return &v
}
