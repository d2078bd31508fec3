package handlers

import (
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/ramnagarhs/mdm-service/internal/config"
	"github.com/ramnagarhs/mdm-service/internal/models"
	"github.com/ramnagarhs/mdm-service/internal/services"
	"github.com/ramnagarhs/mdm-service/internal/utils"
	"gorm.io/gorm"
)

// Upload limits.
const (
	maxPhotoSize  = 10 << 20 // per file
	maxPhotoCount = 10       // per request
)

// PhotoHandler handles meal photo uploads and listing.
type PhotoHandler struct {
	DB  *gorm.DB
	Cfg *config.Config
}

// Upload handles POST /api/photos/upload
// @Summary Upload photos
// @Description Multipart upload of up to 10 image files with date, category and description fields
// @Tags Photos
// @Accept multipart/form-data
// @Produce json
// @Success 200 {object} utils.DataResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /photos/upload [post]
func (h *PhotoHandler) Upload(c *fiber.Ctx) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}

	form, err := c.MultipartForm()
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "A multipart form is required")
	}

	files := form.File["photos"]
	if len(files) == 0 {
		// Single-file clients post under "photo".
		files = form.File["photo"]
	}
	if len(files) == 0 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "A photo file is required")
	}
	if len(files) > maxPhotoCount {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "At most 10 photos per upload")
	}

	var saved []*models.Photo
	for _, fileHeader := range files {
		if fileHeader.Size > maxPhotoSize {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Photo exceeds the 10 MB limit")
		}

		mimeType := fileHeader.Header.Get("Content-Type")
		if !strings.HasPrefix(mimeType, "image/") {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Only image uploads are accepted")
		}

		file, err := fileHeader.Open()
		if err != nil {
			return utils.ServerErrorResponse(c)
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return utils.ServerErrorResponse(c)
		}

		photo, err := services.SavePhoto(h.DB, h.Cfg.UploadDir, data,
			fileHeader.Filename, mimeType,
			c.FormValue("date"), c.FormValue("category"), c.FormValue("description"),
			claims.UserID)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Could not store the photo")
		}
		saved = append(saved, photo)

		services.LogActivity(h.DB, claims.UserID, claims.Name, models.ActionCreate, "Photos",
			"Uploaded photo "+photo.Filename)
	}

	return utils.DataResponse(c, saved)
}

// List handles GET /api/photos
// @Summary List photos
// @Tags Photos
// @Produce json
// @Param date query string false "Filter by record date"
// @Param category query string false "Filter by category, or 'all'"
// @Param limit query int false "Maximum number of photos"
// @Success 200 {object} utils.DataResponseStruct
// @Security BearerAuth
// @Router /photos [get]
func (h *PhotoHandler) List(c *fiber.Ctx) error {
	photos, err := services.ListPhotos(h.DB, c.Query("date"), c.Query("category"), c.QueryInt("limit"))
	if err != nil {
		return utils.ServerErrorResponse(c)
	}
	return utils.DataResponse(c, photos)
}

// Delete handles DELETE /api/photos/:id
// @Summary Delete a photo
// @Tags Photos
// @Produce json
// @Param id path int true "Photo ID"
// @Success 200 {object} utils.DataResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /photos/{id} [delete]
func (h *PhotoHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid photo id")
	}

	if err := services.DeletePhoto(h.DB, id); err != nil {
		if wrote, resp := recordNotFound(c, err, "Photo"); wrote {
			return resp
		}
	}

	if claims := requireClaimsQuiet(c); claims != nil {
		services.LogActivity(h.DB, claims.UserID, claims.Name, models.ActionDelete, "Photos", "Deleted photo")
	}
	return utils.MessageResponse(c, "Photo deleted")
}
