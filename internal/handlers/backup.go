package handlers

import (
	"errors"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/ramnagarhs/mdm-service/internal/config"
	"github.com/ramnagarhs/mdm-service/internal/models"
	"github.com/ramnagarhs/mdm-service/internal/services"
	"github.com/ramnagarhs/mdm-service/internal/utils"
	"gorm.io/gorm"
)

// BackupHandler handles the backup-file routes. Admin only.
type BackupHandler struct {
	DB  *gorm.DB
	Cfg *config.Config
}

// Create handles POST /api/backup/create
// @Summary Create a backup file
// @Tags Backup
// @Produce json
// @Success 200 {object} utils.DataResponseStruct
// @Security BearerAuth
// @Router /backup/create [post]
func (h *BackupHandler) Create(c *fiber.Ctx) error {
	filename, err := services.WriteBackupFile(h.DB, h.Cfg.BackupDir, services.BackupPrefixManual)
	if err != nil {
		return utils.ServerErrorResponse(c)
	}

	if claims := requireClaimsQuiet(c); claims != nil {
		services.LogActivity(h.DB, claims.UserID, claims.Name, models.ActionCreate, "Backup", "Created backup "+filename)
	}
	return utils.DataResponse(c, fiber.Map{"filename": filename})
}

// History handles GET /api/backup/history
// @Summary List backup files
// @Tags Backup
// @Produce json
// @Success 200 {object} utils.DataResponseStruct
// @Security BearerAuth
// @Router /backup/history [get]
func (h *BackupHandler) History(c *fiber.Ctx) error {
	files, err := services.ListBackupFiles(h.Cfg.BackupDir)
	if err != nil {
		return utils.ServerErrorResponse(c)
	}
	return utils.DataResponse(c, files)
}

// Download handles GET /api/backup/download/:filename
// @Summary Download a backup file
// @Tags Backup
// @Produce json
// @Param filename path string true "Backup filename"
// @Success 200 {file} file
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /backup/download/{filename} [get]
func (h *BackupHandler) Download(c *fiber.Ctx) error {
	path, err := services.ResolveBackupPath(h.Cfg.BackupDir, c.Params("filename"))
	if err != nil {
		if errors.Is(err, services.ErrBadBackupName) || errors.Is(err, os.ErrNotExist) {
			return utils.NotFoundResponse(c, "Backup file not found")
		}
		return utils.ServerErrorResponse(c)
	}
	return c.Download(path)
}
