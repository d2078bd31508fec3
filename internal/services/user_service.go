package services

import (
	"errors"
	"strings"

	"github.com/ramnagarhs/mdm-service/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	// ErrLastAdmin guards the final admin account against demotion,
	// deactivation and deletion.
	ErrLastAdmin = errors.New("cannot remove the last active admin account")

	// ErrSelfDelete is returned when a user tries to delete their own account.
	ErrSelfDelete = errors.New("you cannot delete your own account")

	ErrInvalidRole = errors.New("invalid role")
)

// ListUsers returns all accounts, newest first. Password hashes never leave
// the model's json:"-" tag.
func ListUsers(db *gorm.DB) ([]models.User, error) {
	var users []models.User
	err := db.Order("created_at DESC").Find(&users).Error
	return users, err
}

// GetUser returns one account by id.
func GetUser(db *gorm.DB, id uint64) (*models.User, error) {
	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUserInput carries the mutable account fields. Nil pointers leave the
// stored value untouched.
type UpdateUserInput struct {
	Name     *string `json:"name"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=6"`
	Role     *string `json:"role"`
	Status   *string `json:"status"`
	Phone    *string `json:"phone"`
}

// UpdateUser applies the input to an existing account. Demoting or
// deactivating the last active admin is rejected.
func UpdateUser(db *gorm.DB, id uint64, input UpdateUserInput) (*models.User, error) {
	var updated *models.User
	err := db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, id).Error; err != nil {
			return err
		}

		losesAdmin := (input.Role != nil && *input.Role != models.RoleAdmin) ||
			(input.Status != nil && *input.Status != models.UserActive)
		if losesAdmin && user.Role == models.RoleAdmin && user.Status == models.UserActive {
			n, err := countOtherActiveAdmins(tx, user.ID)
			if err != nil {
				return err
			}
			if n == 0 {
				return ErrLastAdmin
			}
		}

		if input.Name != nil {
			user.Name = *input.Name
		}
		if input.Email != nil {
			email := strings.ToLower(strings.TrimSpace(*input.Email))
			if email != user.Email {
				var n int64
				if err := tx.Model(&models.User{}).
					Where("email = ? AND id <> ?", email, user.ID).
					Count(&n).Error; err != nil {
					return err
				}
				if n > 0 {
					return ErrEmailExists
				}
			}
			user.Email = email
		}
		if input.Password != nil && *input.Password != "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			user.Password = string(hash)
		}
		if input.Role != nil {
			if !models.ValidRole(*input.Role) {
				return ErrInvalidRole
			}
			user.Role = *input.Role
		}
		if input.Status != nil {
			user.Status = *input.Status
		}
		if input.Phone != nil {
			user.Phone = *input.Phone
		}

		if err := tx.Save(&user).Error; err != nil {
			return err
		}
		updated = &user
		return nil
	})
	return updated, err
}

// DeleteUser removes an account. The caller cannot delete themselves, and the
// last active admin cannot be deleted by anyone.
func DeleteUser(db *gorm.DB, id, callerID uint64) error {
	if id == callerID {
		return ErrSelfDelete
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, id).Error; err != nil {
			return err
		}

		if user.Role == models.RoleAdmin && user.Status == models.UserActive {
			n, err := countOtherActiveAdmins(tx, user.ID)
			if err != nil {
				return err
			}
			if n == 0 {
				return ErrLastAdmin
			}
		}

		return tx.Delete(&user).Error
	})
}

// countOtherActiveAdmins counts active admins excluding the given id.
func countOtherActiveAdmins(tx *gorm.DB, excludeID uint64) (int64, error) {
	var n int64
	err := tx.Model(&models.User{}).
		Where("role = ? AND status = ? AND id <> ?", models.RoleAdmin, models.UserActive, excludeID).
		Count(&n).Error
	return n, err
}
