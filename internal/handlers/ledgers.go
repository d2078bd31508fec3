// ledgers.go
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
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/ramnagarhs/mdm-service/internal/models"
	"github.com/ramnagarhs/mdm-service/internal/services"
	"github.com/ramnagarhs/mdm-service/internal/types"
	"github.com/ramnagarhs/mdm-service/internal/utils"
	"gorm.io/gorm"
)

// LedgerHandler handles the daily record and the three ledgers, plus the
// cooks and staff registers.
type LedgerHandler struct {
	DB *gorm.DB
}

// formCInput tolerates string-typed numbers, which the browser clients have
// historically sent.
type formCInput struct {
	Date             string            `json:"date" validate:"required,len=10"`
	Class            string            `json:"class"`
	Students         types.FlexFloat64 `json:"students"`
	AttendanceMale   types.FlexFloat64 `json:"attendanceMale"`
	AttendanceFemale types.FlexFloat64 `json:"attendanceFemale"`
	Attendance       types.FlexFloat64 `json:"attendance"`
	Meals            types.FlexFloat64 `json:"meals"`
	Rice             types.FlexFloat64 `json:"rice"`
	CostPerMeal      types.FlexFloat64 `json:"costPerMeal"`
	TotalCost        types.FlexFloat64 `json:"totalCost"`
	Remarks          string            `json:"remarks"`
}

func (in *formCInput) toModel() *models.FormC {
	return &models.FormC{
		Date:             in.Date,
		Class:            in.Class,
		Students:         int(in.Students),
		AttendanceMale:   int(in.AttendanceMale),
		AttendanceFemale: int(in.AttendanceFemale),
		Attendance:       int(in.Attendance),
		Meals:            int(in.Meals),
		Rice:             in.Rice.Float64(),
		CostPerMeal:      in.CostPerMeal.Float64(),
		TotalCost:        in.TotalCost.Float64(),
		Remarks:          in.Remarks,
	}
}

// ListFormC handles GET /api/formC
// @Summary List daily records
// @Tags FormC
// @Produce json
// @Success 200 {object} utils.DataResponseStruct
// @Security BearerAuth
// @Router /formC [get]
func (h *LedgerHandler) ListFormC(c *fiber.Ctx) error {
	entries, err := services.ListFormC(h.DB)
	if err != nil {
		return utils.ServerErrorResponse(c)
	}
	return utils.DataResponse(c, entries)
}

// CreateFormC handles POST /api/formC
// @Summary Create a daily record
// @Tags FormC
// @Accept json
// @Produce json
// @Success 200 {object} utils.DataResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /formC [post]
func (h *LedgerHandler) CreateFormC(c *fiber.Ctx) error {
	var input formCInput
	if err := bindJSON(c, &input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "A date in YYYY-MM-DD form is required")
	}

	entry := input.toModel()
	if err := services.CreateFormC(h.DB, entry); err != nil {
		if errors.Is(err, services.ErrDuplicateDate) {
			return utils.ErrorResponse(c, fiber.StatusConflict, "An entry for this date already exists")
		}
		return utils.ServerErrorResponse(c)
	}

	h.logActivity(c, models.ActionCreate, "FormC", "Added daily record for "+entry.Date)
	return utils.DataResponse(c, entry)
}

// UpdateFormC handles PUT /api/formC/:id
// @Summary Update a daily record
// @Tags FormC
// @Accept json
// @Produce json
// @Param id path int true "Entry ID"
// @Success 200 {object} utils.DataResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /formC/{id} [put]
func (h *LedgerHandler) UpdateFormC(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid entry id")
	}

	var input formCInput
	if err := bindJSON(c, &input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "A date in YYYY-MM-DD form is required")
	}

	entry, err := services.UpdateFormC(h.DB, id, input.toModel())
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return utils.NotFoundResponse(c, "Entry not found")
		case errors.Is(err, services.ErrDuplicateDate):
			return utils.ErrorResponse(c, fiber.StatusConflict, "An entry for this date already exists")
		}
		return utils.ServerErrorResponse(c)
	}

	h.logActivity(c, models.ActionUpdate, "FormC", "Updated daily record for "+entry.Date)
	return utils.DataResponse(c, entry)
}

// DeleteFormC handles DELETE /api/formC/:id
// @Summary Delete a daily record
// @Tags FormC
// @Produce json
// @Param id path int true "Entry ID"
// @Success 200 {object} utils.DataResponseStruct
// @Security BearerAuth
// @Router /formC/{id} [delete]
func (h *LedgerHandler) DeleteFormC(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid entry id")
	}

	if err := services.DeleteFormC(h.DB, id); err != nil {
		return utils.ServerErrorResponse(c)
	}

	h.logActivity(c, models.ActionDelete, "FormC", fmt.Sprintf("Deleted daily record #%d", id))
	return utils.MessageResponse(c, "Entry deleted")
}

type bankEntryInput struct {
	Date        string            `json:"date" validate:"required,len=10"`
	Type        string            `json:"type" validate:"required"`
	Particulars string            `json:"particulars"`
	VoucherNo   string            `json:"voucherNo"`
	Amount      types.FlexFloat64 `json:"amount" validate:"required"`
	Remarks     string            `json:"remarks"`
}

// ListBank handles GET /api/bankLedger
// @Summary List bank transactions
// @Tags Ledgers
// @Produce json
// @Success 200 {object} utils.DataResponseStruct
// @Security BearerAuth
// @Router /bankLedger [get]
func (h *LedgerHandler) ListBank(c *fiber.Ctx) error {
	entries, err := services.ListBankLedger(h.DB)
	if err != nil {
		return utils.ServerErrorResponse(c)
	}
	return utils.DataResponse(c, entries)
}

// CreateBank handles POST /api/bankLedger
// @Summary Add a bank transaction
// @Tags Ledgers
// @Accept json
// @Produce json
// @Success 200 {object} utils.DataResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /bankLedger [post]
func (h *LedgerHandler) CreateBank(c *fiber.Ctx) error {
	var input bankEntryInput
	if err := bindJSON(c, &input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Date, type and amount are required")
	}

	entry := &models.BankLedgerEntry{
		Date:        input.Date,
		Type:        input.Type,
		Particulars: input.Particulars,
		VoucherNo:   input.VoucherNo,
		Amount:      input.Amount.Float64(),
		Remarks:     input.Remarks,
	}
	if err := services.CreateBankEntry(h.DB, entry); err != nil {
		if errors.Is(err, services.ErrUnknownEntryType) {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Type must be credit or debit")
		}
		return utils.ServerErrorResponse(c)
	}

	h.logActivity(c, models.ActionCreate, "BankLedger",
		fmt.Sprintf("Added %s of %.2f on %s", entry.Type, entry.Amount, entry.Date))
	return utils.DataResponse(c, entry)
}

// DeleteBank handles DELETE /api/bankLedger/:id
// @Summary Delete a bank transaction
// @Tags Ledgers
// @Produce json
// @Param id path int true "Entry ID"
// @Success 200 {object} utils.DataResponseStruct
// @Security BearerAuth
// @Router /bankLedger/{id} [delete]
func (h *LedgerHandler) DeleteBank(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid entry id")
	}
	if err := services.DeleteBankEntry(h.DB, id); err != nil {
		return utils.ServerErrorResponse(c)
	}
	h.logActivity(c, models.ActionDelete, "BankLedger", fmt.Sprintf("Deleted bank entry #%d", id))
	return utils.MessageResponse(c, "Entry deleted")
}

type riceEntryInput struct {
	Date        string            `json:"date" validate:"required,len=10"`
	Type        string            `json:"type" validate:"required"`
	Particulars string            `json:"particulars"`
	Quantity    types.FlexFloat64 `json:"quantity" validate:"required"`
	Rate        types.FlexFloat64 `json:"rate"`
	Remarks     string            `json:"remarks"`
}

// ListRice handles GET /api/riceLedger
// @Summary List rice stock movements
// @Tags Ledgers
// @Produce json
// @Success 200 {object} utils.DataResponseStruct
// @Security BearerAuth
// @Router /riceLedger [get]
func (h *LedgerHandler) ListRice(c *fiber.Ctx) error {
	entries, err := services.ListRiceLedger(h.DB)
	if err != nil {
		return utils.ServerErrorResponse(c)
	}
	return utils.DataResponse(c, entries)
}

// CreateRice handles POST /api/riceLedger
// @Summary Add a rice stock movement
// @Tags Ledgers
// @Accept json
// @Produce json
// @Success 200 {object} utils.DataResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /riceLedger [post]
func (h *LedgerHandler) CreateRice(c *fiber.Ctx) error {
	var input riceEntryInput
	if err := bindJSON(c, &input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Date, type and quantity are required")
	}

	entry := &models.RiceLedgerEntry{
		Date:        input.Date,
		Type:        input.Type,
		Particulars: input.Particulars,
		Quantity:    input.Quantity.Float64(),
		Rate:        input.Rate.Float64(),
		Remarks:     input.Remarks,
	}
	if err := services.CreateRiceEntry(h.DB, entry); err != nil {
		if errors.Is(err, services.ErrUnknownEntryType) {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Type must be received or consumed")
		}
		return utils.ServerErrorResponse(c)
	}

	h.logActivity(c, models.ActionCreate, "RiceLedger",
		fmt.Sprintf("Added %s of %.2f kg on %s", entry.Type, entry.Quantity, entry.Date))
	return utils.DataResponse(c, entry)
}

// DeleteRice handles DELETE /api/riceLedger/:id
// @Summary Delete a rice stock movement
// @Tags Ledgers
// @Produce json
// @Param id path int true "Entry ID"
// @Success 200 {object} utils.DataResponseStruct
// @Security BearerAuth
// @Router /riceLedger/{id} [delete]
func (h *LedgerHandler) DeleteRice(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid entry id")
	}
	if err := services.DeleteRiceEntry(h.DB, id); err != nil {
		return utils.ServerErrorResponse(c)
	}
	h.logActivity(c, models.ActionDelete, "RiceLedger", fmt.Sprintf("Deleted rice entry #%d", id))
	return utils.MessageResponse(c, "Entry deleted")
}

type expenseEntryInput struct {
	Date        string            `json:"date" validate:"required,len=10"`
	Particulars string            `json:"particulars"`
	VoucherNo   string            `json:"voucherNo"`
	Amount      types.FlexFloat64 `json:"amount" validate:"required"`
	Category    string            `json:"category"`
	PaymentMode string            `json:"paymentMode"`
	Remarks     string            `json:"remarks"`
}

// ListExpense handles GET /api/expenseLedger
// @Summary List expenses
// @Tags Ledgers
// @Produce json
// @Success 200 {object} utils.DataResponseStruct
// @Security BearerAuth
// @Router /expenseLedger [get]
func (h *LedgerHandler) ListExpense(c *fiber.Ctx) error {
	entries, err := services.ListExpenseLedger(h.DB)
	if err != nil {
		return utils.ServerErrorResponse(c)
	}
	return utils.DataResponse(c, entries)
}

// CreateExpense handles POST /api/expenseLedger
// @Summary Add an expense
// @Tags Ledgers
// @Accept json
// @Produce json
// @Success 200 {object} utils.DataResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /expenseLedger [post]
func (h *LedgerHandler) CreateExpense(c *fiber.Ctx) error {
	var input expenseEntryInput
	if err := bindJSON(c, &input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Date and amount are required")
	}

	entry := &models.ExpenseLedgerEntry{
		Date:        input.Date,
		Particulars: input.Particulars,
		VoucherNo:   input.VoucherNo,
		Amount:      input.Amount.Float64(),
		Category:    input.Category,
		PaymentMode: input.PaymentMode,
		Remarks:     input.Remarks,
	}
	if err := services.CreateExpenseEntry(h.DB, entry); err != nil {
		return utils.ServerErrorResponse(c)
	}

	h.logActivity(c, models.ActionCreate, "ExpenseLedger",
		fmt.Sprintf("Added expense of %.2f on %s", entry.Amount, entry.Date))
	return utils.DataResponse(c, entry)
}

// DeleteExpense handles DELETE /api/expenseLedger/:id
// @Summary Delete an expense
// @Tags Ledgers
// @Produce json
// @Param id path int true "Entry ID"
// @Success 200 {object} utils.DataResponseStruct
// @Security BearerAuth
// @Router /expenseLedger/{id} [delete]
func (h *LedgerHandler) DeleteExpense(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid entry id")
	}
	if err := services.DeleteExpenseEntry(h.DB, id); err != nil {
		return utils.ServerErrorResponse(c)
	}
	h.logActivity(c, models.ActionDelete, "ExpenseLedger", fmt.Sprintf("Deleted expense #%d", id))
	return utils.MessageResponse(c, "Entry deleted")
}

// ListCooks handles GET /api/cooks
// @Summary List cooks
// @Tags Personnel
// @Produce json
// @Success 200 {object} utils.DataResponseStruct
// @Security BearerAuth
// @Router /cooks [get]
func (h *LedgerHandler) ListCooks(c *fiber.Ctx) error {
	cooks, err := services.ListCooks(h.DB)
	if err != nil {
		return utils.ServerErrorResponse(c)
	}
	return utils.DataResponse(c, cooks)
}

// CreateCook handles POST /api/cooks
// @Summary Add a cook
// @Tags Personnel
// @Accept json
// @Produce json
// @Success 200 {object} utils.DataResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /cooks [post]
func (h *LedgerHandler) CreateCook(c *fiber.Ctx) error {
	var cook models.Cook
	if err := c.BodyParser(&cook); err != nil || cook.Name == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "A name is required")
	}
	cook.ID = 0

	if err := services.CreateCook(h.DB, &cook); err != nil {
		return utils.ServerErrorResponse(c)
	}

	h.logActivity(c, models.ActionCreate, "Cooks", "Added cook "+cook.Name)
	return utils.DataResponse(c, cook)
}

// DeleteCook handles DELETE /api/cooks/:id
// @Summary Delete a cook
// @Tags Personnel
// @Produce json
// @Param id path int true "Cook ID"
// @Success 200 {object} utils.DataResponseStruct
// @Security BearerAuth
// @Router /cooks/{id} [delete]
func (h *LedgerHandler) DeleteCook(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid cook id")
	}
	if err := services.DeleteCook(h.DB, id); err != nil {
		return utils.ServerErrorResponse(c)
	}
	h.logActivity(c, models.ActionDelete, "Cooks", fmt.Sprintf("Deleted cook #%d", id))
	return utils.MessageResponse(c, "Cook deleted")
}

// ListStaff handles GET /api/staff
// @Summary List staff
// @Tags Personnel
// @Produce json
// @Success 200 {object} utils.DataResponseStruct
// @Security BearerAuth
// @Router /staff [get]
func (h *LedgerHandler) ListStaff(c *fiber.Ctx) error {
	staff, err := services.ListStaff(h.DB)
	if err != nil {
		return utils.ServerErrorResponse(c)
	}
	return utils.DataResponse(c, staff)
}

// CreateStaff handles POST /api/staff
// @Summary Add a staff member
// @Tags Personnel
// @Accept json
// @Produce json
// @Success 200 {object} utils.DataResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /staff [post]
func (h *LedgerHandler) CreateStaff(c *fiber.Ctx) error {
	var staff models.Staff
	if err := c.BodyParser(&staff); err != nil || staff.Name == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "A name is required")
	}
	staff.ID = 0

	if err := services.CreateStaff(h.DB, &staff); err != nil {
		return utils.ServerErrorResponse(c)
	}

	h.logActivity(c, models.ActionCreate, "Staff", "Added staff member "+staff.Name)
	return utils.DataResponse(c, staff)
}

// DeleteStaff handles DELETE /api/staff/:id
// @Summary Delete a staff member
// @Tags Personnel
// @Produce json
// @Param id path int true "Staff ID"
// @Success 200 {object} utils.DataResponseStruct
// @Security BearerAuth
// @Router /staff/{id} [delete]
func (h *LedgerHandler) DeleteStaff(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid staff id")
	}
	if err := services.DeleteStaff(h.DB, id); err != nil {
		return utils.ServerErrorResponse(c)
	}
	h.logActivity(c, models.ActionDelete, "Staff", fmt.Sprintf("Deleted staff member #%d", id))
	return utils.MessageResponse(c, "Staff member deleted")
}

// logActivity records the action against the authenticated user.
func (h *LedgerHandler) logActivity(c *fiber.Ctx, action, module, details string) {
	if claims := requireClaimsQuiet(c); claims != nil {
		services.LogActivity(h.DB, claims.UserID, claims.Name, action, module, details)
	}
}
