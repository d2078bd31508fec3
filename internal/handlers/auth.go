package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/ramnagarhs/mdm-service/internal/config"
	"github.com/ramnagarhs/mdm-service/internal/mailer"
	"github.com/ramnagarhs/mdm-service/internal/models"
	"github.com/ramnagarhs/mdm-service/internal/services"
	"github.com/ramnagarhs/mdm-service/internal/utils"
	"gorm.io/gorm"
)

// AuthHandler handles login, registration and the password reset flow.
type AuthHandler struct {
	DB     *gorm.DB
	Cfg    *config.Config
	Mailer *mailer.Mailer
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login handles POST /api/auth/login
// @Summary Log in
// @Description Verify credentials and issue a bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Success 200 {object} utils.DataResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := bindJSON(c, &req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Email and password are required")
	}

	token, user, err := services.Login(h.DB, h.Cfg.JWTSecret, h.Cfg.JWTExpiry, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid email or password")
		case errors.Is(err, services.ErrInactiveAccount):
			return utils.ErrorResponse(c, fiber.StatusForbidden, "Account is inactive")
		}
		return utils.ServerErrorResponse(c)
	}

	return utils.DataResponse(c, fiber.Map{
		"token": token,
		"user":  user,
	})
}

// Register handles POST /api/auth/register
// @Summary Register a user
// @Description Create a new account (admin only)
// @Tags Auth
// @Accept json
// @Produce json
// @Success 200 {object} utils.DataResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input services.RegisterInput
	if err := bindJSON(c, &input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Name, email and a password of at least 6 characters are required")
	}

	user, err := services.Register(h.DB, input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmailExists):
			return utils.ErrorResponse(c, fiber.StatusConflict, "User already exists")
		case errors.Is(err, services.ErrInvalidRole):
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid role")
		}
		return utils.ServerErrorResponse(c)
	}

	if claims := requireClaimsQuiet(c); claims != nil {
		services.LogActivity(h.DB, claims.UserID, claims.Name, models.ActionCreate, "Users", "Created user "+user.Email)
	}

	return utils.DataResponse(c, user)
}

// Me handles GET /api/auth/me
// @Summary Current user
// @Description Return the account behind the bearer token
// @Tags Auth
// @Produce json
// @Success 200 {object} utils.DataResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}

	user, err := services.GetUser(h.DB, claims.UserID)
	if wrote, resp := recordNotFound(c, err, "User"); wrote {
		return resp
	}
	return utils.DataResponse(c, user)
}

// Logout handles POST /api/auth/logout
// @Summary Log out
// @Description Record the logout; token invalidation is client-side
// @Tags Auth
// @Produce json
// @Success 200 {object} utils.DataResponseStruct
// @Security BearerAuth
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if claims := requireClaimsQuiet(c); claims != nil {
		services.LogActivity(h.DB, claims.UserID, claims.Name, models.ActionLogout, "Auth", "User logged out")
	}
	return utils.MessageResponse(c, "Logged out")
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ForgotPassword handles POST /api/auth/forgot-password
// @Summary Request a password reset
// @Description Email a single-use reset token if the account exists
// @Tags Auth
// @Accept json
// @Produce json
// @Success 200 {object} utils.DataResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req forgotPasswordRequest
	if err := bindJSON(c, &req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "A valid email is required")
	}

	reset, user, err := services.CreatePasswordReset(h.DB, req.Email)
	if err != nil {
		return utils.ServerErrorResponse(c)
	}

	// The response is identical whether or not the account exists.
	if reset != nil && h.Mailer != nil {
		h.Mailer.SendPasswordReset(user, reset, h.Cfg.FrontendURL)
	}

	return utils.MessageResponse(c, "If the account exists, a reset link has been sent")
}

type resetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

// ResetPassword handles POST /api/auth/reset-password
// @Summary Reset a password
// @Description Consume a reset token and set a new password
// @Tags Auth
// @Accept json
// @Produce json
// @Success 200 {object} utils.DataResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req resetPasswordRequest
	if err := bindJSON(c, &req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "A token and a password of at least 6 characters are required")
	}

	if err := services.ResetPassword(h.DB, req.Token, req.Password); err != nil {
		if errors.Is(err, services.ErrResetTokenInvalid) {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Reset token is invalid or expired")
		}
		return utils.ServerErrorResponse(c)
	}

	return utils.MessageResponse(c, "Password has been reset")
}
