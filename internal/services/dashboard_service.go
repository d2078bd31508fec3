package services

import (
	"time"

	"github.com/ramnagarhs/mdm-service/internal/models"
	"gorm.io/gorm"
)

// DashboardStats is the GET /api/dashboard/stats payload.
type DashboardStats struct {
	FormCCount    int64   `json:"formCCount"`
	BankBalance   float64 `json:"bankBalance"`
	RiceStock     float64 `json:"riceStock"`
	MonthExpenses float64 `json:"monthExpenses"`
	ActiveUsers   int64   `json:"activeUsers"`
	Enrollment    int     `json:"enrollment"`
	MealsThisWeek int64   `json:"mealsThisWeek"`
}

// GetDashboardStats aggregates the headline numbers for the dashboard: daily
// record count, latest running balances, the last 30 days of expenses and
// the active user count.
func GetDashboardStats(db *gorm.DB) (*DashboardStats, error) {
	stats := &DashboardStats{}

	if err := db.Model(&models.FormC{}).Count(&stats.FormCCount).Error; err != nil {
		return nil, err
	}

	bank, err := lastBankBalance(db)
	if err != nil {
		return nil, err
	}
	stats.BankBalance = bank

	rice, err := lastRiceBalance(db)
	if err != nil {
		return nil, err
	}
	stats.RiceStock = rice

	cutoff := time.Now().AddDate(0, 0, -30).Format("2006-01-02")
	var total *float64
	if err := db.Model(&models.ExpenseLedgerEntry{}).
		Where("date >= ?", cutoff).
		Select("SUM(amount)").Scan(&total).Error; err != nil {
		return nil, err
	}
	if total != nil {
		stats.MonthExpenses = *total
	}

	if err := db.Model(&models.User{}).
		Where("status = ?", models.UserActive).
		Count(&stats.ActiveUsers).Error; err != nil {
		return nil, err
	}

	settings, err := GetSettings(db)
	if err != nil {
		return nil, err
	}
	stats.Enrollment = settings.Enrollment.Data().Total()

	weekCutoff := time.Now().AddDate(0, 0, -7).Format("2006-01-02")
	var meals *int64
	if err := db.Model(&models.FormC{}).
		Where("date >= ?", weekCutoff).
		Select("SUM(meals)").Scan(&meals).Error; err != nil {
		return nil, err
	}
	if meals != nil {
		stats.MealsThisWeek = *meals
	}

	return stats, nil
}
