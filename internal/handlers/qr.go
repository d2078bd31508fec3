package handlers

import (
	"encoding/base64"
	"regexp"

	"github.com/gofiber/fiber/v2"
	"github.com/ramnagarhs/mdm-service/internal/config"
	"github.com/ramnagarhs/mdm-service/internal/utils"
	qrcode "github.com/skip2/go-qrcode"
)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// QRHandler generates quick-entry QR codes that open the daily record form
// for a given date.
type QRHandler struct {
	Cfg *config.Config
}

// Daily handles GET /api/qr/daily/:date
// @Summary QR code for a daily record
// @Description Return a PNG data URL encoding the quick-entry link
// @Tags QR
// @Produce json
// @Param date path string true "Record date (YYYY-MM-DD)"
// @Success 200 {object} utils.DataResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /qr/daily/{date} [get]
func (h *QRHandler) Daily(c *fiber.Ctx) error {
	date := c.Params("date")
	if !datePattern.MatchString(date) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Date must be YYYY-MM-DD")
	}

	link := h.Cfg.FrontendURL + "/forms.html?date=" + date
	png, err := qrcode.Encode(link, qrcode.Medium, 256)
	if err != nil {
		return utils.ServerErrorResponse(c)
	}

	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
	return utils.DataResponse(c, fiber.Map{
		"date":    date,
		"link":    link,
		"dataUrl": dataURL,
	})
}
