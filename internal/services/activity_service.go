package services

import (
	"log"
	"time"

	"github.com/ramnagarhs/mdm-service/internal/models"
	"gorm.io/gorm"
)

// LogActivity appends an audit entry. Failures are logged and swallowed so
// the request that produced the entry still succeeds.
func LogActivity(db *gorm.DB, userID uint64, userName, action, module, details string) {
	entry := models.ActivityLog{
		UserID:    userID,
		UserName:  userName,
		Action:    action,
		Module:    module,
		Details:   details,
		Timestamp: time.Now(),
	}
	if err := db.Create(&entry).Error; err != nil {
		log.Printf("activity log write failed: %v", err)
	}
}

// ListActivityLogs returns the newest entries, optionally filtered by module
// and action. A module or action of "" or "all" matches everything.
func ListActivityLogs(db *gorm.DB, module, action string, limit int) ([]models.ActivityLog, error) {
	if limit <= 0 {
		limit = 50
	}

	query := db.Model(&models.ActivityLog{})
	if module != "" && module != "all" {
		query = query.Where("module = ?", module)
	}
	if action != "" && action != "all" {
		query = query.Where("action = ?", action)
	}

	var logs []models.ActivityLog
	err := query.Order("timestamp DESC").Limit(limit).Find(&logs).Error
	return logs, err
}
