package services

import (
	"encoding/json"
	"testing"

	"github.com/ramnagarhs/mdm-service/internal/models"
)

func TestImportReplacesCollectionExactly(t *testing.T) {
	db := setupTestDB(t)

	// Pre-existing rows that the import must wipe.
	for _, date := range []string{"2026-07-01", "2026-07-02", "2026-07-03", "2026-07-04", "2026-07-05"} {
		if err := CreateFormC(db, &models.FormC{Date: date}); err != nil {
			t.Fatal(err)
		}
	}

	payload := ImportPayload{
		FormC: []models.FormC{
			{ID: 999, Date: "2026-08-01", Meals: 110},
			{Date: "2026-08-02", Meals: 95},
			{Date: "2026-08-03", Meals: 102},
		},
	}

	counts, err := Import(db, payload)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if counts.FormC != 3 {
		t.Errorf("Expected 3 imported rows reported, got %d", counts.FormC)
	}

	var rows []models.FormC
	db.Order("date ASC").Find(&rows)
	if len(rows) != 3 {
		t.Fatalf("Expected exactly 3 rows after import, got %d", len(rows))
	}
	if rows[0].Date != "2026-08-01" {
		t.Errorf("Expected imported rows, got first date %q", rows[0].Date)
	}
}

func TestImportLeavesAbsentCollectionsAlone(t *testing.T) {
	db := setupTestDB(t)

	if err := CreateCook(db, &models.Cook{Name: "Radha Devi"}); err != nil {
		t.Fatal(err)
	}

	_, err := Import(db, ImportPayload{
		Staff: []models.Staff{{Name: "S Banerjee", Designation: "Clerk"}},
	})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	var cooks int64
	db.Model(&models.Cook{}).Count(&cooks)
	if cooks != 1 {
		t.Errorf("Expected untouched cooks collection, got %d rows", cooks)
	}
}

func TestImportAcceptsSingleObjectCollections(t *testing.T) {
	db := setupTestDB(t)

	// A single object where an array is expected, as old clients send.
	var payload ImportPayload
	raw := []byte(`{"formC": {"date": "2026-08-09", "meals": 80}}`)
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	counts, err := Import(db, payload)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if counts.FormC != 1 {
		t.Errorf("Expected 1 row, got %d", counts.FormC)
	}
}

func TestImportUpsertsSettings(t *testing.T) {
	db := setupTestDB(t)

	fund := 95000.0
	_, err := Import(db, ImportPayload{Settings: &SettingsInput{FundOpening: &fund}})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	settings, err := GetSettings(db)
	if err != nil {
		t.Fatal(err)
	}
	if settings.FundOpening != 95000 {
		t.Errorf("Expected fundOpening 95000, got %.2f", settings.FundOpening)
	}

	var count int64
	db.Model(&models.Settings{}).Count(&count)
	if count != 1 {
		t.Errorf("Expected the settings singleton, got %d rows", count)
	}
}
