package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/ramnagarhs/mdm-service/internal/services"
	"github.com/ramnagarhs/mdm-service/internal/utils"
	"gorm.io/gorm"
)

// ActivityHandler handles the audit trail routes.
type ActivityHandler struct {
	DB *gorm.DB
}

// List handles GET /api/activity-logs
// @Summary List activity log entries
// @Tags Activity
// @Produce json
// @Param module query string false "Filter by module, or 'all'"
// @Param action query string false "Filter by action, or 'all'"
// @Param limit query int false "Maximum entries, default 50"
// @Success 200 {object} utils.DataResponseStruct
// @Security BearerAuth
// @Router /activity-logs [get]
func (h *ActivityHandler) List(c *fiber.Ctx) error {
	logs, err := services.ListActivityLogs(h.DB, c.Query("module"), c.Query("action"), c.QueryInt("limit", 50))
	if err != nil {
		return utils.ServerErrorResponse(c)
	}
	return utils.DataResponse(c, logs)
}
