// ledger_service.go
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
	"errors"
	"fmt"

	"github.com/ramnagarhs/mdm-service/internal/models"
	"gorm.io/gorm"
)

var (
	// ErrDuplicateDate is returned when a Form C entry already exists for
	// the date. Uniqueness is enforced here and by the unique index, not by
	// client-side filtering.
	ErrDuplicateDate = errors.New("an entry for this date already exists")

	ErrUnknownEntryType = errors.New("unknown entry type")
)

// ListFormC returns all Form C entries sorted by date ascending.
func ListFormC(db *gorm.DB) ([]models.FormC, error) {
	var entries []models.FormC
	err := db.Order("date ASC").Find(&entries).Error
	return entries, err
}

// ListFormCBetween returns Form C entries with from <= date <= to.
func ListFormCBetween(db *gorm.DB, from, to string) ([]models.FormC, error) {
	var entries []models.FormC
	err := db.Where("date >= ? AND date <= ?", from, to).Order("date ASC").Find(&entries).Error
	return entries, err
}

// CreateFormC inserts a daily record, rejecting duplicate dates.
func CreateFormC(db *gorm.DB, entry *models.FormC) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.FormC{}).Where("date = ?", entry.Date).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateDate
		}
		return tx.Create(entry).Error
	})
}

// UpdateFormC replaces the mutable fields of an existing entry.
func UpdateFormC(db *gorm.DB, id uint64, input *models.FormC) (*models.FormC, error) {
	var entry models.FormC
	if err := db.First(&entry, id).Error; err != nil {
		return nil, err
	}

	// A date change must not collide with another day's record.
	if input.Date != "" && input.Date != entry.Date {
		var count int64
		if err := db.Model(&models.FormC{}).Where("date = ? AND id <> ?", input.Date, id).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrDuplicateDate
		}
		entry.Date = input.Date
	}

	entry.Class = input.Class
	entry.Students = input.Students
	entry.AttendanceMale = input.AttendanceMale
	entry.AttendanceFemale = input.AttendanceFemale
	entry.Attendance = input.Attendance
	entry.Meals = input.Meals
	entry.Rice = input.Rice
	entry.CostPerMeal = input.CostPerMeal
	entry.TotalCost = input.TotalCost
	entry.Remarks = input.Remarks

	if err := db.Save(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// DeleteFormC removes an entry by id.
func DeleteFormC(db *gorm.DB, id uint64) error {
	return db.Delete(&models.FormC{}, id).Error
}

// ListBankLedger returns bank entries sorted by date ascending.
func ListBankLedger(db *gorm.DB) ([]models.BankLedgerEntry, error) {
	var entries []models.BankLedgerEntry
	err := db.Order("date ASC, id ASC").Find(&entries).Error
	return entries, err
}

// CreateBankEntry inserts a bank transaction and computes its running
// balance: previous balance + amount for credit, - amount for debit. The
// settings fundOpening seeds the balance when the ledger is empty.
func CreateBankEntry(db *gorm.DB, entry *models.BankLedgerEntry) error {
	if entry.Type != models.BankEntryCredit && entry.Type != models.BankEntryDebit {
		return fmt.Errorf("%w: %q", ErrUnknownEntryType, entry.Type)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		prev, err := lastBankBalance(tx)
		if err != nil {
			return err
		}

		if entry.Type == models.BankEntryCredit {
			entry.Balance = prev + entry.Amount
		} else {
			entry.Balance = prev - entry.Amount
		}

		return tx.Create(entry).Error
	})
}

// DeleteBankEntry removes a bank entry by id. Balances of later entries are
// not recomputed; the ledger is append-oriented and deletions are rare
// corrections.
func DeleteBankEntry(db *gorm.DB, id uint64) error {
	return db.Delete(&models.BankLedgerEntry{}, id).Error
}

// ListRiceLedger returns rice entries sorted by date ascending.
func ListRiceLedger(db *gorm.DB) ([]models.RiceLedgerEntry, error) {
	var entries []models.RiceLedgerEntry
	err := db.Order("date ASC, id ASC").Find(&entries).Error
	return entries, err
}

// CreateRiceEntry inserts a stock movement and computes the running stock
// balance in kilograms. The settings riceStock opening seeds the balance
// when the ledger is empty.
func CreateRiceEntry(db *gorm.DB, entry *models.RiceLedgerEntry) error {
	if entry.Type != models.RiceEntryReceived && entry.Type != models.RiceEntryConsumed {
		return fmt.Errorf("%w: %q", ErrUnknownEntryType, entry.Type)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		prev, err := lastRiceBalance(tx)
		if err != nil {
			return err
		}

		if entry.Type == models.RiceEntryReceived {
			entry.Balance = prev + entry.Quantity
		} else {
			entry.Balance = prev - entry.Quantity
		}

		return tx.Create(entry).Error
	})
}

// DeleteRiceEntry removes a rice entry by id.
func DeleteRiceEntry(db *gorm.DB, id uint64) error {
	return db.Delete(&models.RiceLedgerEntry{}, id).Error
}

// ListExpenseLedger returns expense entries sorted by date ascending.
func ListExpenseLedger(db *gorm.DB) ([]models.ExpenseLedgerEntry, error) {
	var entries []models.ExpenseLedgerEntry
	err := db.Order("date ASC, id ASC").Find(&entries).Error
	return entries, err
}

// CreateExpenseEntry inserts an expense and extends the cumulative total.
func CreateExpenseEntry(db *gorm.DB, entry *models.ExpenseLedgerEntry) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var last models.ExpenseLedgerEntry
		err := tx.Order("date DESC, id DESC").First(&last).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		entry.RunningTotal = last.RunningTotal + entry.Amount
		return tx.Create(entry).Error
	})
}

// DeleteExpenseEntry removes an expense entry by id.
func DeleteExpenseEntry(db *gorm.DB, id uint64) error {
	return db.Delete(&models.ExpenseLedgerEntry{}, id).Error
}

// ListCooks returns all cook records.
func ListCooks(db *gorm.DB) ([]models.Cook, error) {
	var cooks []models.Cook
	err := db.Find(&cooks).Error
	return cooks, err
}

// CreateCook inserts a cook record.
func CreateCook(db *gorm.DB, cook *models.Cook) error {
	if cook.Status == "" {
		cook.Status = models.PersonnelActive
	}
	return db.Create(cook).Error
}

// DeleteCook removes a cook record by id.
func DeleteCook(db *gorm.DB, id uint64) error {
	return db.Delete(&models.Cook{}, id).Error
}

// ListStaff returns all staff records.
func ListStaff(db *gorm.DB) ([]models.Staff, error) {
	var staff []models.Staff
	err := db.Find(&staff).Error
	return staff, err
}

// CreateStaff inserts a staff record.
func CreateStaff(db *gorm.DB, staff *models.Staff) error {
	if staff.Status == "" {
		staff.Status = models.PersonnelActive
	}
	return db.Create(staff).Error
}

// DeleteStaff removes a staff record by id.
func DeleteStaff(db *gorm.DB, id uint64) error {
	return db.Delete(&models.Staff{}, id).Error
}

// lastBankBalance returns the most recent bank balance, falling back to the
// settings opening fund.
func lastBankBalance(tx *gorm.DB) (float64, error) {
	var last models.BankLedgerEntry
	err := tx.Order("date DESC, id DESC").First(&last).Error
	if err == nil {
		return last.Balance, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	settings, err := GetSettings(tx)
	if err != nil {
		return 0, err
	}
	return settings.FundOpening, nil
}

// lastRiceBalance returns the most recent rice stock balance, falling back
// to the settings opening stock.
func lastRiceBalance(tx *gorm.DB) (float64, error) {
	var last models.RiceLedgerEntry
	err := tx.Order("date DESC, id DESC").First(&last).Error
	if err == nil {
		return last.Balance, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	settings, err := GetSettings(tx)
	if err != nil {
		return 0, err
	}
	return settings.RiceStock, nil
}
