package services

import (
	"time"

	"github.com/ramnagarhs/mdm-service/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// NotificationInput is the payload for creating a notification. An empty
// Users list broadcasts to everyone.
type NotificationInput struct {
	Title     string     `json:"title" validate:"required"`
	Message   string     `json:"message" validate:"required"`
	Type      string     `json:"type"`
	Priority  string     `json:"priority"`
	Users     []uint64   `json:"users"`
	ExpiresAt *time.Time `json:"expiresAt"`
}

// CreateNotification stores a notification for later delivery.
func CreateNotification(db *gorm.DB, input NotificationInput) (*models.Notification, error) {
	n := models.Notification{
		Title:     input.Title,
		Message:   input.Message,
		Type:      input.Type,
		Priority:  input.Priority,
		Users:     datatypes.NewJSONSlice(input.Users),
		ExpiresAt: input.ExpiresAt,
	}
	if n.Type == "" {
		n.Type = models.NotifyInfo
	}
	if n.Priority == "" {
		n.Priority = models.PriorityMedium
	}

	if err := db.Create(&n).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

// NotificationView is a notification decorated with the requesting user's
// read state.
type NotificationView struct {
	models.Notification
	Read bool `json:"isRead"`
}

// ListNotificationsFor returns the unexpired notifications addressed to the
// user, newest first. Targeting and read state are evaluated in memory; the
// users and readBy lists are JSON columns.
func ListNotificationsFor(db *gorm.DB, userID uint64) ([]NotificationView, error) {
	var all []models.Notification
	if err := db.Order("created_at DESC").Find(&all).Error; err != nil {
		return nil, err
	}

	now := time.Now()
	views := make([]NotificationView, 0, len(all))
	for i := range all {
		n := all[i]
		if n.Expired(now) || !n.TargetsUser(userID) {
			continue
		}
		views = append(views, NotificationView{Notification: n, Read: n.ReadByUser(userID)})
	}
	return views, nil
}

// MarkNotificationRead records that the user has read one notification.
func MarkNotificationRead(db *gorm.DB, id, userID uint64) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var n models.Notification
		if err := tx.First(&n, id).Error; err != nil {
			return err
		}
		if n.ReadByUser(userID) {
			return nil
		}
		n.ReadBy = append(n.ReadBy, userID)
		return tx.Model(&n).Update("read_by", n.ReadBy).Error
	})
}

// MarkAllNotificationsRead records the user as having read every notification
// currently addressed to them. Returns the number updated.
func MarkAllNotificationsRead(db *gorm.DB, userID uint64) (int, error) {
	updated := 0
	err := db.Transaction(func(tx *gorm.DB) error {
		var all []models.Notification
		if err := tx.Find(&all).Error; err != nil {
			return err
		}

		now := time.Now()
		for i := range all {
			n := &all[i]
			if n.Expired(now) || !n.TargetsUser(userID) || n.ReadByUser(userID) {
				continue
			}
			n.ReadBy = append(n.ReadBy, userID)
			if err := tx.Model(n).Update("read_by", n.ReadBy).Error; err != nil {
				return err
			}
			updated++
		}
		return nil
	})
	return updated, err
}

// DeleteNotification removes a notification by id.
func DeleteNotification(db *gorm.DB, id uint64) error {
	return db.Delete(&models.Notification{}, id).Error
}

// CleanupNotifications deletes notifications older than the cutoff along with
// anything past its expiry. Returns the number removed.
func CleanupNotifications(db *gorm.DB, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	res := db.Where("created_at < ?", cutoff).
		Or("expires_at IS NOT NULL AND expires_at < ?", time.Now()).
		Delete(&models.Notification{})
	return res.RowsAffected, res.Error
}
