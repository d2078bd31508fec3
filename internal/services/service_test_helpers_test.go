package services

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/ramnagarhs/mdm-service/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an isolated in-memory database with all tables.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.FormC{},
		&models.BankLedgerEntry{},
		&models.RiceLedgerEntry{},
		&models.ExpenseLedgerEntry{},
		&models.Cook{},
		&models.Staff{},
		&models.Settings{},
		&models.User{},
		&models.PasswordReset{},
		&models.ActivityLog{},
		&models.Photo{},
		&models.Notification{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

// createTestUser registers an account with the given role.
func createTestUser(t *testing.T, db *gorm.DB, email, password, role string) *models.User {
	t.Helper()

	user, err := Register(db, RegisterInput{
		Name:     "Test User",
		Email:    email,
		Password: password,
		Role:     role,
	})
	if err != nil {
		t.Fatalf("Failed to create user %s: %v", email, err)
	}
	return user
}
