package models

import "time"

// Activity actions recorded by the audit trail.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionLogin  = "login"
	ActionLogout = "logout"
	ActionView   = "view"
)

// ActivityLog is an append-only audit entry. Writes are best-effort; a failed
// insert never fails the request that produced it.
type ActivityLog struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint64    `gorm:"index" json:"userId"`
	UserName  string    `gorm:"size:128" json:"userName"`
	Action    string    `gorm:"size:32;not null" json:"action"`
	Module    string    `gorm:"size:64;index" json:"module"`
	Details   string    `gorm:"size:1024" json:"details"`
	Timestamp time.Time `gorm:"index" json:"timestamp"`
}

// TableName overrides the table name for ActivityLog
func (ActivityLog) TableName() string {
	return "activity_logs"
}
