package services

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/ramnagarhs/mdm-service/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Authentication failure modes. Unknown email and wrong password share
// ErrInvalidCredentials so login responses cannot be used for enumeration.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInactiveAccount    = errors.New("account is inactive")
	ErrEmailExists        = errors.New("user already exists")
	ErrResetTokenInvalid  = errors.New("reset token is invalid or expired")
)

const resetTokenTTL = time.Hour

// Claims is the JWT payload embedded in every bearer token.
type Claims struct {
	UserID uint64 `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

// IssueToken signs an HS256 token for the user with the given expiry.
func IssueToken(secret string, expiry time.Duration, user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		Name:   user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken verifies a bearer token and returns its claims.
func ParseToken(secret, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// Login verifies credentials and issues a token. The lastLogin stamp is
// updated and a login activity entry recorded on success.
func Login(db *gorm.DB, secret string, expiry time.Duration, email, password string) (string, *models.User, error) {
	var user models.User
	err := db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Burn a hash comparison anyway so the timing of the two
			// failure modes stays comparable.
			_ = bcrypt.CompareHashAndPassword([]byte("$2a$10$N9qo8uLOickgx2ZMRZoMye"), []byte(password))
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if user.Status != models.UserActive {
		return "", nil, ErrInactiveAccount
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	now := time.Now()
	user.LastLogin = &now
	if err := db.Model(&user).Update("last_login", now).Error; err != nil {
		return "", nil, err
	}

	token, err := IssueToken(secret, expiry, &user)
	if err != nil {
		return "", nil, err
	}

	LogActivity(db, user.ID, user.Name, models.ActionLogin, "Auth", "User logged in")

	return token, &user, nil
}

// RegisterInput is the payload for creating a new account.
type RegisterInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role"`
	Phone    string `json:"phone"`
}

// Register creates a new active user with a bcrypt-hashed password.
func Register(db *gorm.DB, input RegisterInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrEmailExists
	}

	role := input.Role
	if role == "" {
		role = models.RoleViewer
	}
	if !models.ValidRole(role) {
		return nil, ErrInvalidRole
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Name:     input.Name,
		Email:    email,
		Password: string(hashed),
		Role:     role,
		Phone:    input.Phone,
		Status:   models.UserActive,
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

// CreatePasswordReset issues a single-use reset token for the account, if it
// exists. A nil reset with a nil error means the email is unknown; callers
// must not reveal that to the requester.
func CreatePasswordReset(db *gorm.DB, email string) (*models.PasswordReset, *models.User, error) {
	var user models.User
	err := db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil
		}
		return nil, nil, err
	}

	reset := models.PasswordReset{
		Token:     strings.ReplaceAll(uuid.NewString(), "-", ""),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(resetTokenTTL),
	}
	if err := db.Create(&reset).Error; err != nil {
		return nil, nil, err
	}

	return &reset, &user, nil
}

// ResetPassword consumes a reset token and sets the new password.
func ResetPassword(db *gorm.DB, token, newPassword string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var reset models.PasswordReset
		err := tx.Where("token = ? AND used = ?", token, false).First(&reset).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrResetTokenInvalid
			}
			return err
		}
		if time.Now().After(reset.ExpiresAt) {
			return ErrResetTokenInvalid
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		if err := tx.Model(&models.User{}).Where("id = ?", reset.UserID).
			Update("password", string(hashed)).Error; err != nil {
			return err
		}

		return tx.Model(&reset).Update("used", true).Error
	})
}
