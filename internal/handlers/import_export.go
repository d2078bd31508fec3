package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/ramnagarhs/mdm-service/internal/models"
	"github.com/ramnagarhs/mdm-service/internal/services"
	"github.com/ramnagarhs/mdm-service/internal/utils"
	"gorm.io/gorm"
)

// ImportExportHandler handles the bulk import and full-snapshot export
// routes used by the sync bridge and by manual backup downloads.
type ImportExportHandler struct {
	DB *gorm.DB
}

// Import handles POST /api/import
// @Summary Bulk import
// @Description Replace the provided collections wholesale in one transaction
// @Tags Data
// @Accept json
// @Produce json
// @Success 200 {object} utils.DataResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /import [post]
func (h *ImportExportHandler) Import(c *fiber.Ctx) error {
	var payload services.ImportPayload
	if err := c.BodyParser(&payload); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid import payload")
	}

	counts, err := services.Import(h.DB, payload)
	if err != nil {
		return utils.ServerErrorResponse(c)
	}

	if claims := requireClaimsQuiet(c); claims != nil {
		services.LogActivity(h.DB, claims.UserID, claims.Name, models.ActionUpdate, "Import",
			fmt.Sprintf("Imported %d daily records, %d bank, %d rice, %d expense entries",
				counts.FormC, counts.BankLedger, counts.RiceLedger, counts.ExpenseLedger))
	}

	return utils.DataResponse(c, counts)
}

// Export handles GET /api/backup
// @Summary Export a full snapshot
// @Description Return every collection as one JSON document
// @Tags Data
// @Produce json
// @Success 200 {object} utils.DataResponseStruct
// @Security BearerAuth
// @Router /backup [get]
func (h *ImportExportHandler) Export(c *fiber.Ctx) error {
	snap, err := services.BuildSnapshot(h.DB)
	if err != nil {
		return utils.ServerErrorResponse(c)
	}
	return utils.DataResponse(c, snap)
}
