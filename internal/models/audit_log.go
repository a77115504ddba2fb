package models

import "time"

// ActivityLog is a locally journaled dashboard action. The backend keeps the
// entities; this table only records who changed what from this dashboard.
type ActivityLog struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"index"`

	Username string   `gorm:"size:100;not null"`
	Role     UserRole `gorm:"type:varchar(20)"`

	Entity    string `gorm:"size:50;not null"` // "project", "employee", ...
	EntityID  string `gorm:"size:64"`
	Action    string `gorm:"size:50;not null"` // "create", "status_change", ...
	Details   string `gorm:"type:text"`
	RequestID string `gorm:"size:36"`
}
