package models

import "time"

// Photo categories.
const (
	PhotoCategoryMeal    = "meal"
	PhotoCategoryKitchen = "kitchen"
	PhotoCategoryReceipt = "receipt"
	PhotoCategoryOther   = "other"
)

// Photo is file metadata for an uploaded image, associated with a record date.
type Photo struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Filename     string    `gorm:"size:255;not null" json:"filename"`
	OriginalName string    `gorm:"size:255" json:"originalName"`
	Path         string    `gorm:"size:512;not null" json:"path"`
	Size         int64     `json:"size"`
	MimeType     string    `gorm:"size:64" json:"mimeType"`
	UploadedBy   uint64    `gorm:"index" json:"uploadedBy"`
	Date         string    `gorm:"size:10;not null;index" json:"date"`
	Category     string    `gorm:"size:16;default:meal" json:"category"`
	Description  string    `gorm:"size:512" json:"description"`
	UploadedAt   time.Time `gorm:"autoCreateTime" json:"uploadedAt"`
}

// ValidPhotoCategory reports whether c is a known category.
func ValidPhotoCategory(c string) bool {
	switch c {
	case PhotoCategoryMeal, PhotoCategoryKitchen, PhotoCategoryReceipt, PhotoCategoryOther:
		return true
	}
	return false
}

// TableName overrides the table name for Photo
func (Photo) TableName() string {
	return "photos"
}
