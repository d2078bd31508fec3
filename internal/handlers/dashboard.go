package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/ramnagarhs/mdm-service/internal/services"
	"github.com/ramnagarhs/mdm-service/internal/utils"
	"gorm.io/gorm"
)

// DashboardHandler handles the stats and health routes.
type DashboardHandler struct {
	DB *gorm.DB
}

// Stats handles GET /api/dashboard/stats
// @Summary Dashboard statistics
// @Tags Dashboard
// @Produce json
// @Success 200 {object} utils.DataResponseStruct
// @Security BearerAuth
// @Router /dashboard/stats [get]
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	stats, err := services.GetDashboardStats(h.DB)
	if err != nil {
		return utils.ServerErrorResponse(c)
	}
	return utils.DataResponse(c, stats)
}

// Health handles GET /api/health
// @Summary Service health
// @Tags Dashboard
// @Produce json
// @Success 200 {object} services.HealthStatus
// @Router /health [get]
func (h *DashboardHandler) Health(c *fiber.Ctx) error {
	status := services.HealthCheck(h.DB)
	code := fiber.StatusOK
	if status.Status != "ok" {
		code = fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(status)
}
