package department

import "time"

type Department struct {
	ID        int64     `gorm:"primaryKey"`
	Name      string    `gorm:"column:name;size:100;uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Department) TableName() string {
	return "departments"
}
