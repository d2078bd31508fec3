package services

import (
	"time"

	"gorm.io/gorm"
)

// HealthStatus is the GET /api/health payload.
type HealthStatus struct {
	Status   string    `json:"status"`
	Database string    `json:"database"`
	Time     time.Time `json:"time"`
}

// HealthCheck pings the database and reports overall liveness.
func HealthCheck(db *gorm.DB) *HealthStatus {
	status := &HealthStatus{
		Status:   "ok",
		Database: "connected",
		Time:     time.Now(),
	}

	sqlDB, err := db.DB()
	if err != nil || sqlDB.Ping() != nil {
		status.Status = "degraded"
		status.Database = "unreachable"
	}
	return status
}
