package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/frahmantamala/survey-admin/internal/dashboard"
	"github.com/jmoiron/sqlx"
)

// DashboardRepository runs the aggregate queries with sqlx. Queries are
// written with ? placeholders and rebound for the connected driver.
type DashboardRepository struct {
	db *sqlx.DB
}

func NewDashboardRepository(db *sqlx.DB) dashboard.RepositoryAPI {
	return &DashboardRepository{db: db}
}

func (r *DashboardRepository) Totals(ctx context.Context, since time.Time) (*dashboard.Totals, error) {
	query := r.db.Rebind(`
		SELECT
			(SELECT COUNT(*) FROM survey_submissions) AS total_submissions,
			(SELECT COUNT(*) FROM departments) AS total_departments,
			(SELECT COUNT(*) FROM users) AS total_users,
			(SELECT AVG(overall_customer_rating) FROM survey_submissions) AS average_rating,
			(SELECT COUNT(*) FROM survey_submissions WHERE submitted_at >= ?) AS submissions_last_30_days
	`)

	var totals dashboard.Totals
	if err := r.db.GetContext(ctx, &totals, query, since.UTC()); err != nil {
		return nil, fmt.Errorf("failed to query totals: %w", err)
	}
	return &totals, nil
}

func (r *DashboardRepository) DepartmentMetrics(ctx context.Context) ([]dashboard.MetricRow, error) {
	query := `
		SELECT
			d.id AS department_id,
			d.name AS department_name,
			COUNT(s.id) AS submissions_received,
			AVG(s.overall_customer_rating) AS average_rating
		FROM departments d
		LEFT JOIN survey_submissions s ON s.rated_department_id = d.id
		GROUP BY d.id, d.name
		ORDER BY d.name ASC
	`

	var rows []dashboard.MetricRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to query department metrics: %w", err)
	}
	return rows, nil
}
