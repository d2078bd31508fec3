package models

import (
	"time"

	"gorm.io/datatypes"
)

// DefaultSettingsID is the fixed key of the settings singleton. Settings are
// upserted against this key, never duplicated.
const DefaultSettingsID = "default"

// SchoolInfo is the school identity block of the settings singleton.
type SchoolInfo struct {
	Name            string `json:"name"`
	Address         string `json:"address"`
	Phone           string `json:"phone"`
	Email           string `json:"email"`
	Principal       string `json:"principal"`
	TeacherInCharge string `json:"teacherInCharge"`
}

// Enrollment holds per-class enrollment counts.
type Enrollment struct {
	Class1  int `json:"class1"`
	Class2  int `json:"class2"`
	Class3  int `json:"class3"`
	Class4  int `json:"class4"`
	Class5  int `json:"class5"`
	Class6  int `json:"class6"`
	Class7  int `json:"class7"`
	Class8  int `json:"class8"`
	Class9  int `json:"class9"`
	Class10 int `json:"class10"`
	Class11 int `json:"class11"`
	Class12 int `json:"class12"`
}

// Total sums all class enrollment counts.
func (e Enrollment) Total() int {
	return e.Class1 + e.Class2 + e.Class3 + e.Class4 + e.Class5 + e.Class6 +
		e.Class7 + e.Class8 + e.Class9 + e.Class10 + e.Class11 + e.Class12
}

// BankInfo is the school bank account block.
type BankInfo struct {
	Name      string `json:"name"`
	Branch    string `json:"branch"`
	AccountNo string `json:"accountNo"`
	IFSC      string `json:"ifsc"`
}

// Settings is the singleton configuration row. The opening values seed the
// running balances when the corresponding ledger is empty.
type Settings struct {
	ID          uint64                            `gorm:"primaryKey;autoIncrement" json:"-"`
	SettingsID  string                            `gorm:"size:32;not null;uniqueIndex;default:default" json:"settingsId"`
	School      datatypes.JSONType[SchoolInfo]    `json:"school"`
	Enrollment  datatypes.JSONType[Enrollment]    `json:"enrollment"`
	Bank        datatypes.JSONType[BankInfo]      `json:"bank"`
	RiceStock   float64                           `gorm:"default:0" json:"riceStock"`
	FundOpening float64                           `gorm:"default:120000" json:"fundOpening"`
	CreatedAt   time.Time                         `json:"createdAt"`
	UpdatedAt   time.Time                         `json:"updatedAt"`
}

// TableName overrides the table name for Settings
func (Settings) TableName() string {
	return "settings"
}
