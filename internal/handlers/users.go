package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/ramnagarhs/mdm-service/internal/models"
	"github.com/ramnagarhs/mdm-service/internal/services"
	"github.com/ramnagarhs/mdm-service/internal/utils"
	"gorm.io/gorm"
)

// UserHandler handles user management routes. All of them sit behind the
// admin role gate.
type UserHandler struct {
	DB *gorm.DB
}

// List handles GET /api/users
// @Summary List users
// @Tags Users
// @Produce json
// @Success 200 {object} utils.DataResponseStruct
// @Security BearerAuth
// @Router /users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	users, err := services.ListUsers(h.DB)
	if err != nil {
		return utils.ServerErrorResponse(c)
	}
	return utils.DataResponse(c, users)
}

// Get handles GET /api/users/:id
// @Summary Get a user
// @Tags Users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} utils.DataResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /users/{id} [get]
func (h *UserHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid user id")
	}

	user, err := services.GetUser(h.DB, id)
	if wrote, resp := recordNotFound(c, err, "User"); wrote {
		return resp
	}
	return utils.DataResponse(c, user)
}

// Update handles PUT /api/users/:id
// @Summary Update a user
// @Tags Users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} utils.DataResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /users/{id} [put]
func (h *UserHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid user id")
	}

	var input services.UpdateUserInput
	if err := bindJSON(c, &input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid user payload")
	}

	user, err := services.UpdateUser(h.DB, id, input)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return utils.NotFoundResponse(c, "User not found")
		case errors.Is(err, services.ErrLastAdmin):
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Cannot remove the last active admin account")
		case errors.Is(err, services.ErrInvalidRole):
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid role")
		case errors.Is(err, services.ErrEmailExists):
			return utils.ErrorResponse(c, fiber.StatusConflict, "User already exists")
		}
		return utils.ServerErrorResponse(c)
	}

	if claims := requireClaimsQuiet(c); claims != nil {
		services.LogActivity(h.DB, claims.UserID, claims.Name, models.ActionUpdate, "Users",
			fmt.Sprintf("Updated user %s", user.Email))
	}
	return utils.DataResponse(c, user)
}

// Delete handles DELETE /api/users/:id
// @Summary Delete a user
// @Tags Users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} utils.DataResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /users/{id} [delete]
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid user id")
	}

	claims, err := requireClaims(c)
	if err != nil {
		return err
	}

	if err := services.DeleteUser(h.DB, id, claims.UserID); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return utils.NotFoundResponse(c, "User not found")
		case errors.Is(err, services.ErrSelfDelete):
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "You cannot delete your own account")
		case errors.Is(err, services.ErrLastAdmin):
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Cannot remove the last active admin account")
		}
		return utils.ServerErrorResponse(c)
	}

	services.LogActivity(h.DB, claims.UserID, claims.Name, models.ActionDelete, "Users",
		fmt.Sprintf("Deleted user #%d", id))
	return utils.MessageResponse(c, "User deleted")
}
