package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/ramnagarhs/mdm-service/internal/services"
	"github.com/ramnagarhs/mdm-service/internal/utils"
	"gorm.io/gorm"
)

// NotificationHandler handles in-app notification routes.
type NotificationHandler struct {
	DB *gorm.DB
}

// Create handles POST /api/notifications
// @Summary Create a notification
// @Description An empty users list broadcasts to everyone
// @Tags Notifications
// @Accept json
// @Produce json
// @Success 200 {object} utils.DataResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /notifications [post]
func (h *NotificationHandler) Create(c *fiber.Ctx) error {
	var input services.NotificationInput
	if err := bindJSON(c, &input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "A title and message are required")
	}

	n, err := services.CreateNotification(h.DB, input)
	if err != nil {
		return utils.ServerErrorResponse(c)
	}
	return utils.DataResponse(c, n)
}

// List handles GET /api/notifications
// @Summary List my notifications
// @Tags Notifications
// @Produce json
// @Param unreadOnly query bool false "Return only unread notifications"
// @Success 200 {object} utils.DataResponseStruct
// @Security BearerAuth
// @Router /notifications [get]
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}

	views, err := services.ListNotificationsFor(h.DB, claims.UserID)
	if err != nil {
		return utils.ServerErrorResponse(c)
	}

	unread := 0
	for _, v := range views {
		if !v.Read {
			unread++
		}
	}

	if c.QueryBool("unreadOnly") {
		filtered := views[:0]
		for _, v := range views {
			if !v.Read {
				filtered = append(filtered, v)
			}
		}
		views = filtered
	}

	return utils.DataResponse(c, fiber.Map{
		"notifications": views,
		"unreadCount":   unread,
	})
}

// MarkRead handles POST /api/notifications/:id/read
// @Summary Mark a notification read
// @Tags Notifications
// @Produce json
// @Param id path int true "Notification ID"
// @Success 200 {object} utils.DataResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid notification id")
	}

	claims, err := requireClaims(c)
	if err != nil {
		return err
	}

	if err := services.MarkNotificationRead(h.DB, id, claims.UserID); err != nil {
		if wrote, resp := recordNotFound(c, err, "Notification"); wrote {
			return resp
		}
	}
	return utils.MessageResponse(c, "Notification marked read")
}

// MarkAllRead handles POST /api/notifications/read-all
// @Summary Mark all my notifications read
// @Tags Notifications
// @Produce json
// @Success 200 {object} utils.DataResponseStruct
// @Security BearerAuth
// @Router /notifications/read-all [post]
func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}

	updated, err := services.MarkAllNotificationsRead(h.DB, claims.UserID)
	if err != nil {
		return utils.ServerErrorResponse(c)
	}
	return utils.DataResponse(c, fiber.Map{"updated": updated})
}

// Delete handles DELETE /api/notifications/:id
// @Summary Delete a notification
// @Tags Notifications
// @Produce json
// @Param id path int true "Notification ID"
// @Success 200 {object} utils.DataResponseStruct
// @Security BearerAuth
// @Router /notifications/{id} [delete]
func (h *NotificationHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid notification id")
	}
	if err := services.DeleteNotification(h.DB, id); err != nil {
		return utils.ServerErrorResponse(c)
	}
	return utils.MessageResponse(c, "Notification deleted")
}
