package permission

import (
	"context"
	"fmt"
	"strings"
	"time"

	permissionDatamodel "github.com/frahmantamala/survey-admin/internal/core/datamodel/permission"
)

// DateLayout is the wire format for permission window dates.
const DateLayout = "2006-01-02"

// View is a permission row joined with both department names.
type View struct {
	ID                 int64  `json:"id"`
	FromDepartmentID   int64  `json:"fromDepartmentId"`
	FromDepartmentName string `json:"fromDepartmentName"`
	ToDepartmentID     int64  `json:"toDepartmentId"`
	ToDepartmentName   string `json:"toDepartmentName"`
	CanSurveySelf      bool   `json:"canSurveySelf"`
	StartDate          string `json:"startDate"`
	EndDate            string `json:"endDate"`
}

// Row is what the repository scans for List.
type Row struct {
	ID                 int64
	FromDepartmentID   int64
	FromDepartmentName string
	ToDepartmentID     int64
	ToDepartmentName   string
	CanSurveySelf      bool
	StartDate          time.Time
	EndDate            time.Time
}

func (r Row) View() View {
	return View{
		ID:                 r.ID,
		FromDepartmentID:   r.FromDepartmentID,
		FromDepartmentName: r.FromDepartmentName,
		ToDepartmentID:     r.ToDepartmentID,
		ToDepartmentName:   r.ToDepartmentName,
		CanSurveySelf:      r.CanSurveySelf,
		StartDate:          r.StartDate.Format(DateLayout),
		EndDate:            r.EndDate.Format(DateLayout),
	}
}

type RepositoryAPI interface {
	List(ctx context.Context) ([]Row, error)
	// ReplaceAll swaps the whole permission set in one transaction.
	ReplaceAll(ctx context.Context, rows []*permissionDatamodel.Permission) error
	FindByPair(ctx context.Context, fromDepartmentID, toDepartmentID int64) ([]*permissionDatamodel.Permission, error)
}

// Window is an inclusive range of calendar days, held as UTC midnights.
type Window struct {
	Start time.Time
	End   time.Time
}

func NewWindow(start, end time.Time) (Window, error) {
	w := Window{Start: truncateDay(start), End: truncateDay(end)}
	if w.Start.After(w.End) {
		return Window{}, fmt.Errorf("start date %s is after end date %s", w.Start.Format(DateLayout), w.End.Format(DateLayout))
	}
	return w, nil
}

// Contains reports whether t falls on a day inside the window.
func (w Window) Contains(t time.Time) bool {
	day := truncateDay(t.UTC())
	return !day.Before(w.Start) && !day.After(w.End)
}

// ParseDate accepts YYYY-MM-DD or RFC 3339. For RFC 3339 the calendar day is
// taken in the offset the value was written in.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(DateLayout, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognised date %q", value)
	}
	return truncateDay(t), nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
