package models

import (
	"time"
)

// Entry type values that decide the running-balance direction.
const (
	BankEntryCredit = "credit"
	BankEntryDebit  = "debit"

	RiceEntryReceived = "received"
	RiceEntryConsumed = "consumed"
)

// FormC is the daily meal/attendance record, one row per date.
// Date uniqueness is enforced at the data layer; the browser client only
// filtered duplicates best-effort.
type FormC struct {
	ID               uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Date             string    `gorm:"size:10;not null;uniqueIndex" json:"date"`
	Class            string    `gorm:"size:32" json:"class"`
	Students         int       `json:"students"`
	AttendanceMale   int       `json:"attendanceMale"`
	AttendanceFemale int       `json:"attendanceFemale"`
	Attendance       int       `json:"attendance"`
	Meals            int       `json:"meals"`
	Rice             float64   `json:"rice"`
	CostPerMeal      float64   `json:"costPerMeal"`
	TotalCost        float64   `json:"totalCost"`
	Remarks          string    `gorm:"size:512" json:"remarks"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// BankLedgerEntry is a dated bank transaction with a running balance
// computed at write time.
type BankLedgerEntry struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Date        string    `gorm:"size:10;not null;index" json:"date"`
	Type        string    `gorm:"size:16;not null" json:"type"`
	Particulars string    `gorm:"size:255" json:"particulars"`
	VoucherNo   string    `gorm:"size:64" json:"voucherNo"`
	Amount      float64   `gorm:"not null" json:"amount"`
	Balance     float64   `json:"balance"`
	Remarks     string    `gorm:"size:512" json:"remarks"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// RiceLedgerEntry tracks rice stock movements in kilograms.
type RiceLedgerEntry struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Date        string    `gorm:"size:10;not null;index" json:"date"`
	Type        string    `gorm:"size:16;not null" json:"type"`
	Particulars string    `gorm:"size:255" json:"particulars"`
	Quantity    float64   `gorm:"not null" json:"quantity"`
	Rate        float64   `json:"rate"`
	Balance     float64   `json:"balance"`
	Remarks     string    `gorm:"size:512" json:"remarks"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ExpenseLedgerEntry is a dated expense with a cumulative running total.
type ExpenseLedgerEntry struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Date         string    `gorm:"size:10;not null;index" json:"date"`
	Particulars  string    `gorm:"size:255" json:"particulars"`
	VoucherNo    string    `gorm:"size:64" json:"voucherNo"`
	Amount       float64   `gorm:"not null" json:"amount"`
	Category     string    `gorm:"size:64" json:"category"`
	PaymentMode  string    `gorm:"size:32" json:"paymentMode"`
	RunningTotal float64   `json:"runningTotal"`
	Remarks      string    `gorm:"size:512" json:"remarks"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// TableName overrides the table name for FormC
func (FormC) TableName() string {
	return "form_c_entries"
}

// TableName overrides the table name for BankLedgerEntry
func (BankLedgerEntry) TableName() string {
	return "bank_ledger"
}

// TableName overrides the table name for RiceLedgerEntry
func (RiceLedgerEntry) TableName() string {
	return "rice_ledger"
}

// TableName overrides the table name for ExpenseLedgerEntry
func (ExpenseLedgerEntry) TableName() string {
	return "expense_ledger"
}
