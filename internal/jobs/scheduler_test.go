package jobs

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/ramnagarhs/mdm-service/internal/config"
	"github.com/ramnagarhs/mdm-service/internal/mailer"
	"github.com/ramnagarhs/mdm-service/internal/models"
	"github.com/ramnagarhs/mdm-service/internal/services"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestScheduler(t *testing.T) (*Scheduler, *gorm.DB, *config.Config) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	err = db.AutoMigrate(
		&models.FormC{}, &models.BankLedgerEntry{}, &models.RiceLedgerEntry{},
		&models.ExpenseLedgerEntry{}, &models.Cook{}, &models.Staff{},
		&models.Settings{}, &models.User{}, &models.Notification{},
		&models.ActivityLog{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	cfg := &config.Config{
		Timezone:          "Asia/Kolkata",
		BackupDir:         t.TempDir(),
		BackupRetention:   2,
		LowStockThreshold: 50,
	}

	// Unconfigured mailer; every send is a no-op.
	mail := mailer.New(&config.Config{})

	return New(db, cfg, mail, nil), db, cfg
}

func TestStockCheckCreatesWarningBelowThreshold(t *testing.T) {
	s, db, _ := setupTestScheduler(t)

	// Stock at 40 kg via the settings opening; no rice entries yet.
	stock := 40.0
	if _, err := services.UpdateSettings(db, services.SettingsInput{RiceStock: &stock}); err != nil {
		t.Fatal(err)
	}

	if err := s.StockCheck(); err != nil {
		t.Fatalf("StockCheck failed: %v", err)
	}

	var notifications []models.Notification
	db.Find(&notifications)
	if len(notifications) != 1 {
		t.Fatalf("Expected 1 notification, got %d", len(notifications))
	}
	if notifications[0].Type != models.NotifyWarning {
		t.Errorf("Expected warning type, got %q", notifications[0].Type)
	}
}

func TestStockCheckQuietAboveThreshold(t *testing.T) {
	s, db, _ := setupTestScheduler(t)

	stock := 80.0
	if _, err := services.UpdateSettings(db, services.SettingsInput{RiceStock: &stock}); err != nil {
		t.Fatal(err)
	}

	if err := s.StockCheck(); err != nil {
		t.Fatalf("StockCheck failed: %v", err)
	}

	var count int64
	db.Model(&models.Notification{}).Count(&count)
	if count != 0 {
		t.Errorf("Expected no notifications, got %d", count)
	}
}

func TestDailyBackupWritesAndPrunes(t *testing.T) {
	s, _, cfg := setupTestScheduler(t)

	// Retention is 2; run three backups and expect the oldest pruned.
	for i := 0; i < 3; i++ {
		if err := s.DailyBackup(); err != nil {
			t.Fatalf("DailyBackup %d failed: %v", i, err)
		}
	}

	files, err := services.ListBackupFiles(cfg.BackupDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) > cfg.BackupRetention {
		t.Errorf("Expected at most %d backups, got %d", cfg.BackupRetention, len(files))
	}
}

func TestSchedulerRegistersAllJobs(t *testing.T) {
	s, _, _ := setupTestScheduler(t)

	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer s.Stop()

	if entries := s.cron.Entries(); len(entries) != 5 {
		t.Errorf("Expected 5 cron entries, got %d", len(entries))
	}
}
