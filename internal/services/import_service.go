// import_service.go
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
	"github.com/ramnagarhs/mdm-service/internal/models"
	"github.com/ramnagarhs/mdm-service/internal/types"
	"gorm.io/gorm"
)

// ImportPayload mirrors the browser cache document pushed by the sync
// bridge. Collections left nil or empty are not touched.
type ImportPayload struct {
	FormC         types.FlexList[models.FormC]              `json:"formC"`
	BankLedger    types.FlexList[models.BankLedgerEntry]    `json:"bankLedger"`
	RiceLedger    types.FlexList[models.RiceLedgerEntry]    `json:"riceLedger"`
	ExpenseLedger types.FlexList[models.ExpenseLedgerEntry] `json:"expenseLedger"`
	Cooks         types.FlexList[models.Cook]               `json:"cooks"`
	Staff         types.FlexList[models.Staff]              `json:"staff"`
	Settings      *SettingsInput                            `json:"settings"`
}

// ImportCounts reports how many rows each collection received.
type ImportCounts struct {
	FormC         int `json:"formC"`
	BankLedger    int `json:"bankLedger"`
	RiceLedger    int `json:"riceLedger"`
	ExpenseLedger int `json:"expenseLedger"`
	Cooks         int `json:"cooks"`
	Staff         int `json:"staff"`
}

// Import performs the bulk replace for each collection present in the
// payload: delete everything, insert the incoming rows. The whole import
// runs in one transaction, so a concurrent reader never observes a
// transiently empty collection and a failed import leaves the previous
// state intact. The observable result is still a destructive replace; the
// last writer wins. Incoming row IDs are discarded so inserts cannot
// collide with the table's own sequence.
func Import(db *gorm.DB, payload ImportPayload) (ImportCounts, error) {
	var counts ImportCounts

	err := db.Transaction(func(tx *gorm.DB) error {
		if rows := payload.FormC.Slice(); len(rows) > 0 {
			if err := clearTable(tx, &models.FormC{}); err != nil {
				return err
			}
			for i := range rows {
				rows[i].ID = 0
			}
			if err := tx.CreateInBatches(rows, 100).Error; err != nil {
				return err
			}
			counts.FormC = len(rows)
		}

		if rows := payload.BankLedger.Slice(); len(rows) > 0 {
			if err := clearTable(tx, &models.BankLedgerEntry{}); err != nil {
				return err
			}
			for i := range rows {
				rows[i].ID = 0
			}
			if err := tx.CreateInBatches(rows, 100).Error; err != nil {
				return err
			}
			counts.BankLedger = len(rows)
		}

		if rows := payload.RiceLedger.Slice(); len(rows) > 0 {
			if err := clearTable(tx, &models.RiceLedgerEntry{}); err != nil {
				return err
			}
			for i := range rows {
				rows[i].ID = 0
			}
			if err := tx.CreateInBatches(rows, 100).Error; err != nil {
				return err
			}
			counts.RiceLedger = len(rows)
		}

		if rows := payload.ExpenseLedger.Slice(); len(rows) > 0 {
			if err := clearTable(tx, &models.ExpenseLedgerEntry{}); err != nil {
				return err
			}
			for i := range rows {
				rows[i].ID = 0
			}
			if err := tx.CreateInBatches(rows, 100).Error; err != nil {
				return err
			}
			counts.ExpenseLedger = len(rows)
		}

		if rows := payload.Cooks.Slice(); len(rows) > 0 {
			if err := clearTable(tx, &models.Cook{}); err != nil {
				return err
			}
			for i := range rows {
				rows[i].ID = 0
			}
			if err := tx.CreateInBatches(rows, 100).Error; err != nil {
				return err
			}
			counts.Cooks = len(rows)
		}

		if rows := payload.Staff.Slice(); len(rows) > 0 {
			if err := clearTable(tx, &models.Staff{}); err != nil {
				return err
			}
			for i := range rows {
				rows[i].ID = 0
			}
			if err := tx.CreateInBatches(rows, 100).Error; err != nil {
				return err
			}
			counts.Staff = len(rows)
		}

		if payload.Settings != nil {
			if _, err := UpdateSettings(tx, *payload.Settings); err != nil {
				return err
			}
		}

		return nil
	})

	return counts, err
}

// clearTable deletes every row of the given model.
func clearTable(tx *gorm.DB, model interface{}) error {
	return tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error
}
