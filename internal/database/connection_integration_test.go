package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/ramnagarhs/mdm-service/internal/config"
	"github.com/ramnagarhs/mdm-service/internal/models"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestConnectPostgres migrates and round-trips a row against a real postgres
// instance. Requires Docker; skipped in short mode.
func TestConnectPostgres(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping container test in short mode")
	}

	image := os.Getenv("TEST_DB_IMAGE")
	if image == "" {
		image = "postgres:16-alpine"
	}

	ctx := context.Background()
	port, err := nat.NewPort("tcp", "5432")
	if err != nil {
		t.Fatalf("Failed to build port: %v", err)
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        image,
			ExposedPorts: []string{string(port)},
			Env: map[string]string{
				"POSTGRES_DB":       "mdm_test",
				"POSTGRES_USER":     "mdm",
				"POSTGRES_PASSWORD": "mdm-test-password",
			},
			WaitingFor: wait.ForListeningPort(port).WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Skipf("Docker unavailable: %v", err)
	}
	defer func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	}()

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}
	mappedPort, err := container.MappedPort(ctx, port)
	if err != nil {
		t.Fatalf("Failed to get mapped port: %v", err)
	}

	cfg := &config.Config{
		DBType:            "postgres",
		DBHost:            host,
		DBPort:            mappedPort.Port(),
		DBDatabase:        "mdm_test",
		DBUser:            "mdm",
		DBPassword:        "mdm-test-password",
		DBConnectionLimit: 5,
	}

	db, err := Connect(cfg)
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer Close(db)

	if err := AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate failed: %v", err)
	}

	entry := models.FormC{Date: "2026-08-01", Class: "All", Meals: 130, Rice: 19.5}
	if err := db.Create(&entry).Error; err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	var loaded models.FormC
	if err := db.Where("date = ?", "2026-08-01").First(&loaded).Error; err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if loaded.Meals != 130 {
		t.Errorf("Expected 130 meals, got %d", loaded.Meals)
	}

	// The unique index on date must hold on a real dialect too.
	dup := models.FormC{Date: "2026-08-01"}
	if err := db.Create(&dup).Error; err == nil {
		t.Error("Expected duplicate date insert to fail")
	}
}
