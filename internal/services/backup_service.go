// backup_service.go
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

package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ramnagarhs/mdm-service/internal/models"
	"gorm.io/gorm"
)

// Backup file name prefixes. Manual snapshots and the nightly job share the
// directory but keep distinct prefixes.
const (
	BackupPrefixManual = "backup-"
	BackupPrefixAuto   = "auto-backup-"
)

// ErrBadBackupName rejects download requests whose filename is not a plain
// backup file name.
var ErrBadBackupName = errors.New("invalid backup filename")

// Snapshot is the full-database export. Its collection keys match the import
// payload, so a downloaded backup can be pushed straight back through
// POST /api/import.
type Snapshot struct {
	ExportedAt    time.Time                   `json:"exportedAt"`
	FormC         []models.FormC              `json:"formC"`
	BankLedger    []models.BankLedgerEntry    `json:"bankLedger"`
	RiceLedger    []models.RiceLedgerEntry    `json:"riceLedger"`
	ExpenseLedger []models.ExpenseLedgerEntry `json:"expenseLedger"`
	Cooks         []models.Cook               `json:"cooks"`
	Staff         []models.Staff              `json:"staff"`
	Settings      *models.Settings            `json:"settings"`
}

// BuildSnapshot reads every collection into one export document.
func BuildSnapshot(db *gorm.DB) (*Snapshot, error) {
	snap := &Snapshot{ExportedAt: time.Now()}

	if err := db.Order("date ASC").Find(&snap.FormC).Error; err != nil {
		return nil, err
	}
	if err := db.Order("date ASC, id ASC").Find(&snap.BankLedger).Error; err != nil {
		return nil, err
	}
	if err := db.Order("date ASC, id ASC").Find(&snap.RiceLedger).Error; err != nil {
		return nil, err
	}
	if err := db.Order("date ASC, id ASC").Find(&snap.ExpenseLedger).Error; err != nil {
		return nil, err
	}
	if err := db.Find(&snap.Cooks).Error; err != nil {
		return nil, err
	}
	if err := db.Find(&snap.Staff).Error; err != nil {
		return nil, err
	}

	settings, err := GetSettings(db)
	if err != nil {
		return nil, err
	}
	snap.Settings = settings

	return snap, nil
}

// WriteBackupFile snapshots the database into a timestamped JSON file under
// dir and returns the bare filename.
func WriteBackupFile(db *gorm.DB, dir, prefix string) (string, error) {
	snap, err := BuildSnapshot(db)
	if err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	filename := fmt.Sprintf("%s%s.json", prefix, time.Now().Format("2006-01-02T15-04-05"))
	if err := os.WriteFile(filepath.Join(dir, filename), data, 0o644); err != nil {
		return "", err
	}
	return filename, nil
}

// BackupFileInfo describes one stored backup file.
type BackupFileInfo struct {
	Filename  string    `json:"filename"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"createdAt"`
}

// ListBackupFiles returns the backup files under dir, newest first. A missing
// directory is treated as empty.
func ListBackupFiles(dir string) ([]BackupFileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []BackupFileInfo{}, nil
		}
		return nil, err
	}

	files := make([]BackupFileInfo, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !isBackupName(name) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, BackupFileInfo{
			Filename:  name,
			Size:      info.Size(),
			CreatedAt: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].CreatedAt.After(files[j].CreatedAt)
	})
	return files, nil
}

// PruneBackups deletes the oldest backup files until at most keep remain.
// Returns the number removed.
func PruneBackups(dir string, keep int) (int, error) {
	files, err := ListBackupFiles(dir)
	if err != nil {
		return 0, err
	}
	if keep < 0 || len(files) <= keep {
		return 0, nil
	}

	removed := 0
	for _, file := range files[keep:] {
		if err := os.Remove(filepath.Join(dir, file.Filename)); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// ResolveBackupPath maps a requested filename to a path under dir. Anything
// that is not a bare backup filename is rejected, so requests cannot reach
// outside the backup directory.
func ResolveBackupPath(dir, filename string) (string, error) {
	if !isBackupName(filename) || filename != filepath.Base(filename) {
		return "", ErrBadBackupName
	}

	path := filepath.Join(dir, filename)
	if _, err := os.Stat(path); err != nil {
		return "", err
	}
	return path, nil
}

// isBackupName reports whether name looks like a file this service wrote.
func isBackupName(name string) bool {
	if !strings.HasSuffix(name, ".json") {
		return false
	}
	return strings.HasPrefix(name, BackupPrefixManual) || strings.HasPrefix(name, BackupPrefixAuto)
}
