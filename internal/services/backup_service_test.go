package services

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ramnagarhs/mdm-service/internal/models"
)

func TestWriteBackupFileRoundTrips(t *testing.T) {
	db := setupTestDB(t)
	dir := t.TempDir()

	if err := CreateFormC(db, &models.FormC{Date: "2026-08-01", Meals: 120}); err != nil {
		t.Fatal(err)
	}

	filename, err := WriteBackupFile(db, dir, BackupPrefixManual)
	if err != nil {
		t.Fatalf("WriteBackupFile failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, filename))
	if err != nil {
		t.Fatalf("Backup file unreadable: %v", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		t.Fatalf("Backup is not valid JSON: %v", err)
	}
	if len(snap.FormC) != 1 || snap.FormC[0].Date != "2026-08-01" {
		t.Errorf("Expected the daily record in the snapshot, got %+v", snap.FormC)
	}
	if snap.Settings == nil {
		t.Error("Expected settings in the snapshot")
	}
}

func TestPruneBackupsKeepsNewest(t *testing.T) {
	dir := t.TempDir()

	// Oldest first; mtimes spaced out so ordering is unambiguous.
	names := []string{"auto-backup-a.json", "auto-backup-b.json", "backup-c.json", "backup-d.json"}
	base := time.Now().Add(-time.Hour)
	for i, name := range names {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
			t.Fatal(err)
		}
		mtime := base.Add(time.Duration(i) * time.Minute)
		if err := os.Chtimes(path, mtime, mtime); err != nil {
			t.Fatal(err)
		}
	}

	removed, err := PruneBackups(dir, 2)
	if err != nil {
		t.Fatalf("PruneBackups failed: %v", err)
	}
	if removed != 2 {
		t.Errorf("Expected 2 removed, got %d", removed)
	}

	files, err := ListBackupFiles(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 {
		t.Fatalf("Expected 2 remaining, got %d", len(files))
	}
	// Newest two survive.
	if files[0].Filename != "backup-d.json" || files[1].Filename != "backup-c.json" {
		t.Errorf("Expected newest files kept, got %v", files)
	}
}

func TestResolveBackupPathRejectsTraversal(t *testing.T) {
	dir := t.TempDir()

	bad := []string{
		"../etc/passwd",
		"backup-../../x.json",
		"notes.txt",
		"backup-ok.json.exe",
		"/etc/backup-x.json",
	}
	for _, name := range bad {
		if _, err := ResolveBackupPath(dir, name); err == nil {
			t.Errorf("Expected %q to be rejected", name)
		}
	}

	// A real backup file resolves.
	path := filepath.Join(dir, "backup-real.json")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	resolved, err := ResolveBackupPath(dir, "backup-real.json")
	if err != nil {
		t.Fatalf("Expected resolution, got %v", err)
	}
	if resolved != path {
		t.Errorf("Expected %q, got %q", path, resolved)
	}
}

func TestListBackupFilesMissingDir(t *testing.T) {
	files, err := ListBackupFiles(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("Expected empty result for missing dir, got %v", err)
	}
	if len(files) != 0 {
		t.Errorf("Expected no files, got %d", len(files))
	}
}

func TestBadBackupNameError(t *testing.T) {
	_, err := ResolveBackupPath(t.TempDir(), "x.json")
	if !errors.Is(err, ErrBadBackupName) {
		t.Errorf("Expected ErrBadBackupName, got %v", err)
	}
}
