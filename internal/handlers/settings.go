package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/ramnagarhs/mdm-service/internal/models"
	"github.com/ramnagarhs/mdm-service/internal/services"
	"github.com/ramnagarhs/mdm-service/internal/utils"
	"gorm.io/gorm"
)

// SettingsHandler handles the settings singleton routes.
type SettingsHandler struct {
	DB *gorm.DB
}

// Get handles GET /api/settings
// @Summary Get settings
// @Tags Settings
// @Produce json
// @Success 200 {object} utils.DataResponseStruct
// @Security BearerAuth
// @Router /settings [get]
func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	settings, err := services.GetSettings(h.DB)
	if err != nil {
		return utils.ServerErrorResponse(c)
	}
	return utils.DataResponse(c, settings)
}

// Update handles PUT /api/settings
// @Summary Update settings
// @Description Upsert the settings singleton; absent blocks are left untouched
// @Tags Settings
// @Accept json
// @Produce json
// @Success 200 {object} utils.DataResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /settings [put]
func (h *SettingsHandler) Update(c *fiber.Ctx) error {
	var input services.SettingsInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid settings payload")
	}

	settings, err := services.UpdateSettings(h.DB, input)
	if err != nil {
		return utils.ServerErrorResponse(c)
	}

	if claims := requireClaimsQuiet(c); claims != nil {
		services.LogActivity(h.DB, claims.UserID, claims.Name, models.ActionUpdate, "Settings", "Updated school settings")
	}
	return utils.DataResponse(c, settings)
}
