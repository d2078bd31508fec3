package models

import (
	"time"

	"gorm.io/datatypes"
)

// Notification types and priorities.
const (
	NotifyInfo    = "info"
	NotifyWarning = "warning"
	NotifySuccess = "success"
	NotifyError   = "error"

	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Notification targets either the listed users or, when Users is empty,
// every user. ReadBy collects the IDs of users who acknowledged it.
type Notification struct {
	ID        uint64                       `gorm:"primaryKey;autoIncrement" json:"id"`
	Title     string                       `gorm:"size:255;not null" json:"title"`
	Message   string                       `gorm:"size:1024;not null" json:"message"`
	Type      string                       `gorm:"size:16;default:info" json:"type"`
	Priority  string                       `gorm:"size:16;default:medium" json:"priority"`
	Users     datatypes.JSONSlice[uint64]  `json:"users"`
	ReadBy    datatypes.JSONSlice[uint64]  `json:"read"`
	ExpiresAt *time.Time                   `json:"expiresAt,omitempty"`
	CreatedAt time.Time                    `json:"createdAt"`
}

// TargetsUser reports whether the notification is addressed to userID,
// either explicitly or as a broadcast.
func (n *Notification) TargetsUser(userID uint64) bool {
	if len(n.Users) == 0 {
		return true
	}
	for _, id := range n.Users {
		if id == userID {
			return true
		}
	}
	return false
}

// ReadByUser reports whether userID has already read the notification.
func (n *Notification) ReadByUser(userID uint64) bool {
	for _, id := range n.ReadBy {
		if id == userID {
			return true
		}
	}
	return false
}

// Expired reports whether the notification has passed its expiry, if any.
func (n *Notification) Expired(now time.Time) bool {
	return n.ExpiresAt != nil && n.ExpiresAt.Before(now)
}

// TableName overrides the table name for Notification
func (Notification) TableName() string {
	return "notifications"
}
