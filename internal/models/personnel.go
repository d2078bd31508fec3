package models

import "time"

const (
	PersonnelActive   = "active"
	PersonnelInactive = "inactive"
)

// Cook is a kitchen personnel record.
type Cook struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"size:128;not null" json:"name"`
	Role      string    `gorm:"size:64" json:"role"`
	Phone     string    `gorm:"size:20" json:"phone"`
	Salary    float64   `json:"salary"`
	JoinDate  string    `gorm:"size:10" json:"joinDate"`
	Status    string    `gorm:"size:16;default:active" json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Staff is a school staff record.
type Staff struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"size:128;not null" json:"name"`
	Designation string    `gorm:"size:64" json:"designation"`
	Phone       string    `gorm:"size:20" json:"phone"`
	Email       string    `gorm:"size:128" json:"email"`
	JoinDate    string    `gorm:"size:10" json:"joinDate"`
	Status      string    `gorm:"size:16;default:active" json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TableName overrides the table name for Cook
func (Cook) TableName() string {
	return "cooks"
}

// TableName overrides the table name for Staff
func (Staff) TableName() string {
	return "staff"
}
