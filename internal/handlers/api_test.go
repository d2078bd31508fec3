// api_test.go
//
// Record-keeping service for the Ramnagar High School mid-day meal programme
// Copyright (c) 2026 Ramnagar High School <mdm@ramnagarhs.edu>
//
// This file is part of mdm-service.
// mdm-service is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// mdm-service is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with mdm-service.
// If not, see <https://www.gnu.org/licenses/>.

package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/ramnagarhs/mdm-service/internal/config"
	"github.com/ramnagarhs/mdm-service/internal/middleware"
	"github.com/ramnagarhs/mdm-service/internal/models"
	"github.com/ramnagarhs/mdm-service/internal/services"
	"github.com/ramnagarhs/mdm-service/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "test-secret"

// setupTestApp builds a Fiber app with the auth, user and ledger routes over
// an in-memory database, seeded with one admin and one teacher.
func setupTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
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
		&models.Settings{}, &models.User{}, &models.PasswordReset{},
		&models.ActivityLog{}, &models.Photo{}, &models.Notification{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	seed := []struct {
		email string
		role  string
	}{
		{"admin@ramnagarhs.edu", models.RoleAdmin},
		{"teacher@ramnagarhs.edu", models.RoleTeacher},
		{"viewer@ramnagarhs.edu", models.RoleViewer},
	}
	for _, s := range seed {
		_, err := services.Register(db, services.RegisterInput{
			Name:     s.role,
			Email:    s.email,
			Password: "admin123",
			Role:     s.role,
		})
		if err != nil {
			t.Fatalf("Failed to seed %s: %v", s.email, err)
		}
	}

	cfg := &config.Config{JWTSecret: testSecret, JWTExpiry: time.Hour}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if custom, ok := err.(*types.CustomError); ok {
				return c.Status(custom.Code).JSON(fiber.Map{"success": false, "message": custom.Message})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Server error"})
		},
	})

	authHandler := &AuthHandler{DB: db, Cfg: cfg}
	userHandler := &UserHandler{DB: db}
	ledgerHandler := &LedgerHandler{DB: db}

	protected := middleware.Protected(testSecret)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)
	canWrite := middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher)

	api := app.Group("/api")
	api.Post("/auth/login", authHandler.Login)
	api.Get("/auth/me", protected, authHandler.Me)
	api.Get("/users", protected, adminOnly, userHandler.List)
	api.Delete("/users/:id", protected, adminOnly, userHandler.Delete)
	api.Get("/formC", protected, ledgerHandler.ListFormC)
	api.Post("/formC", protected, canWrite, ledgerHandler.CreateFormC)

	return app, db
}

// login posts credentials and returns the bearer token.
func login(t *testing.T, app *fiber.App, email, password string) string {
	t.Helper()

	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	req := httptest.NewRequest("POST", "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Login request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("Login for %s: expected 200, got %d", email, resp.StatusCode)
	}

	var parsed struct {
		Success bool `json:"success"`
		Data    struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		t.Fatalf("Failed to decode login response: %v", err)
	}
	if !parsed.Success || parsed.Data.Token == "" {
		t.Fatalf("Expected success:true with a token, got %+v", parsed)
	}
	return parsed.Data.Token
}

func TestLoginAndListFormC(t *testing.T) {
	app, db := setupTestApp(t)

	if err := services.CreateFormC(db, &models.FormC{Date: "2026-08-10", Meals: 115}); err != nil {
		t.Fatal(err)
	}

	token := login(t, app, "admin@ramnagarhs.edu", "admin123")

	req := httptest.NewRequest("GET", "/api/formC", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	var parsed struct {
		Success bool           `json:"success"`
		Data    []models.FormC `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !parsed.Success {
		t.Error("Expected success:true")
	}
	if len(parsed.Data) != 1 || parsed.Data[0].Date != "2026-08-10" {
		t.Errorf("Expected the seeded entry, got %+v", parsed.Data)
	}
}

func TestMissingTokenIs401InvalidIs403(t *testing.T) {
	app, _ := setupTestApp(t)

	req := httptest.NewRequest("GET", "/api/formC", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 401 {
		t.Errorf("Missing token: expected 401, got %d", resp.StatusCode)
	}

	req = httptest.NewRequest("GET", "/api/formC", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 403 {
		t.Errorf("Invalid token: expected 403, got %d", resp.StatusCode)
	}
}

func TestUserDeletionIsRoleGated(t *testing.T) {
	app, db := setupTestApp(t)

	var victim models.User
	if err := db.Where("email = ?", "viewer@ramnagarhs.edu").First(&victim).Error; err != nil {
		t.Fatal(err)
	}
	target := fmt.Sprintf("/api/users/%d", victim.ID)

	teacherToken := login(t, app, "teacher@ramnagarhs.edu", "admin123")
	req := httptest.NewRequest("DELETE", target, nil)
	req.Header.Set("Authorization", "Bearer "+teacherToken)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 403 {
		t.Errorf("Teacher delete: expected 403, got %d", resp.StatusCode)
	}

	adminToken := login(t, app, "admin@ramnagarhs.edu", "admin123")
	req = httptest.NewRequest("DELETE", target, nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("Admin delete: expected 200, got %d", resp.StatusCode)
	}
}

func TestWrongPasswordAndUnknownEmailLookAlike(t *testing.T) {
	app, _ := setupTestApp(t)

	attempt := func(email string) (int, string) {
		body, _ := json.Marshal(map[string]string{"email": email, "password": "nope-nope"})
		req := httptest.NewRequest("POST", "/api/auth/login", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		if err != nil {
			t.Fatal(err)
		}
		var parsed struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
			t.Fatal(err)
		}
		return resp.StatusCode, parsed.Message
	}

	wrongCode, wrongMsg := attempt("admin@ramnagarhs.edu")
	unknownCode, unknownMsg := attempt("ghost@ramnagarhs.edu")

	if wrongCode != unknownCode {
		t.Errorf("Status codes differ: %d vs %d", wrongCode, unknownCode)
	}
	if wrongMsg != unknownMsg {
		t.Errorf("Messages differ: %q vs %q", wrongMsg, unknownMsg)
	}
	if wrongCode != 401 {
		t.Errorf("Expected 401, got %d", wrongCode)
	}
}

func TestCreateFormCThroughAPI(t *testing.T) {
	app, db := setupTestApp(t)
	token := login(t, app, "teacher@ramnagarhs.edu", "admin123")

	// Numbers arrive as strings from old clients; the API absorbs them.
	body := []byte(`{"date":"2026-08-11","class":"All","meals":"120","rice":"18.5","totalCost":"540"}`)
	req := httptest.NewRequest("POST", "/api/formC", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	var stored models.FormC
	if err := db.Where("date = ?", "2026-08-11").First(&stored).Error; err != nil {
		t.Fatalf("Entry not stored: %v", err)
	}
	if stored.Meals != 120 || stored.Rice != 18.5 {
		t.Errorf("Expected coerced numerics, got meals=%d rice=%.2f", stored.Meals, stored.Rice)
	}

	// Duplicate date is a conflict.
	req = httptest.NewRequest("POST", "/api/formC", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 409 {
		t.Errorf("Duplicate date: expected 409, got %d", resp.StatusCode)
	}
}
