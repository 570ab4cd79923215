package permission

import "time"

// Permission says FromDepartmentID may survey ToDepartmentID between
// StartDate and EndDate, both inclusive.
type Permission struct {
	ID               int64     `gorm:"primaryKey"`
	FromDepartmentID int64     `gorm:"column:from_department_id;not null;index:idx_permissions_pair"`
	ToDepartmentID   int64     `gorm:"column:to_department_id;not null;index:idx_permissions_pair"`
	CanSurveySelf    bool      `gorm:"column:can_survey_self;not null;default:false"`
	StartDate        time.Time `gorm:"column:start_date;not null"`
	EndDate          time.Time `gorm:"column:end_date;not null"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Permission) TableName() string {
	return "permissions"
}
