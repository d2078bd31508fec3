package services

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/ramnagarhs/mdm-service/internal/models"
	"gorm.io/gorm"
)

// SavePhoto writes the uploaded bytes under uploadDir with a generated
// filename and records the metadata row. The original filename is kept for
// display only and never used on disk.
func SavePhoto(db *gorm.DB, uploadDir string, data []byte, originalName, mimeType, date, category, description string, uploadedBy uint64) (*models.Photo, error) {
	if category == "" {
		category = models.PhotoCategoryMeal
	}
	if !models.ValidPhotoCategory(category) {
		return nil, fmt.Errorf("unknown photo category %q", category)
	}

	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return nil, err
	}

	ext := filepath.Ext(originalName)
	filename := fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), uuid.NewString()[:8], ext)
	path := filepath.Join(uploadDir, filename)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, err
	}

	photo := models.Photo{
		Filename:     filename,
		OriginalName: originalName,
		Path:         path,
		Size:         int64(len(data)),
		MimeType:     mimeType,
		UploadedBy:   uploadedBy,
		Date:         date,
		Category:     category,
		Description:  description,
	}
	if err := db.Create(&photo).Error; err != nil {
		// Keep disk and table consistent if the insert fails.
		if rmErr := os.Remove(path); rmErr != nil {
			log.Printf("orphaned upload %s: %v", path, rmErr)
		}
		return nil, err
	}

	return &photo, nil
}

// ListPhotos returns photo metadata, optionally filtered by date and
// category, newest upload first. A limit of 0 means no limit.
func ListPhotos(db *gorm.DB, date, category string, limit int) ([]models.Photo, error) {
	query := db.Model(&models.Photo{})
	if date != "" {
		query = query.Where("date = ?", date)
	}
	if category != "" && category != "all" {
		query = query.Where("category = ?", category)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var photos []models.Photo
	err := query.Order("uploaded_at DESC").Find(&photos).Error
	return photos, err
}

// GetPhoto returns one photo's metadata by id.
func GetPhoto(db *gorm.DB, id uint64) (*models.Photo, error) {
	var photo models.Photo
	if err := db.First(&photo, id).Error; err != nil {
		return nil, err
	}
	return &photo, nil
}

// DeletePhoto removes the metadata row and the file on disk. A missing file
// is not an error; the row is the source of truth.
func DeletePhoto(db *gorm.DB, id uint64) error {
	var photo models.Photo
	if err := db.First(&photo, id).Error; err != nil {
		return err
	}

	if err := db.Delete(&photo).Error; err != nil {
		return err
	}

	if err := os.Remove(photo.Path); err != nil && !os.IsNotExist(err) {
		log.Printf("photo file removal failed for %s: %v", photo.Path, err)
	}
	return nil
}
