package models

import "time"

// Role values embedded in tokens and checked by the role-gating middleware.
const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
	RoleViewer  = "viewer"

	UserActive   = "active"
	UserInactive = "inactive"
)

// User is an account that can authenticate against the API.
type User struct {
	ID        uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string     `gorm:"size:128;not null" json:"name"`
	Email     string     `gorm:"size:128;not null;uniqueIndex" json:"email"`
	Password  string     `gorm:"size:128;not null" json:"-"`
	Role      string     `gorm:"size:16;not null;default:viewer" json:"role"`
	Status    string     `gorm:"size:16;not null;default:active" json:"status"`
	Phone     string     `gorm:"size:20" json:"phone"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// ValidRole reports whether r is one of the enumerated role values.
func ValidRole(r string) bool {
	return r == RoleAdmin || r == RoleTeacher || r == RoleViewer
}

// PasswordReset is a single-use token for the forgot-password flow.
type PasswordReset struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"-"`
	Token     string    `gorm:"size:64;not null;uniqueIndex" json:"token"`
	UserID    uint64    `gorm:"not null;index" json:"userId"`
	ExpiresAt time.Time `gorm:"not null" json:"expiresAt"`
	Used      bool      `gorm:"not null;default:false" json:"used"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}

// TableName overrides the table name for PasswordReset
func (PasswordReset) TableName() string {
	return "password_resets"
}
