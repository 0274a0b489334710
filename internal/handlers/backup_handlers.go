package handlers

import (
	"net/http"
	"time"

	"steelstore/internal/services"

	"github.com/labstack/echo/v4"
)

// BackupHandlers handles HTTP requests for database backups.
type BackupHandlers struct {
	backupService services.BackupService
}

func NewBackupHandlers(backupService services.BackupService) *BackupHandlers {
	return &BackupHandlers{backupService: backupService}
}

// UploadBackup handles POST /backups
func (h *BackupHandlers) UploadBackup(c echo.Context) error {
	tenantID, err := tenantFromContext(c)
	if err != nil {
		return err
	}

	file, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Backup file is required")
	}
	src, err := file.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Failed to read backup file")
	}
	defer src.Close()

	name := c.FormValue("name")
	if name == "" {
		name = "backup-" + time.Now().Format("20060102-150405") + ".db"
	}

	info, err := h.backupService.Upload(c.Request().Context(), tenantID, name, src)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to store backup")
	}
	return c.JSON(http.StatusCreated, info)
}

// ListBackups handles GET /backups
func (h *BackupHandlers) ListBackups(c echo.Context) error {
	tenantID, err := tenantFromContext(c)
	if err != nil {
		return err
	}

	backups, err := h.backupService.List(c.Request().Context(), tenantID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list backups")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"backups": backups,
		"count":   len(backups),
	})
}

// DownloadBackup handles GET /backups/:name
//
// The payload is verified against its stored checksum before anything is
// streamed back.
func (h *BackupHandlers) DownloadBackup(c echo.Context) error {
	tenantID, err := tenantFromContext(c)
	if err != nil {
		return err
	}
	name := c.Param("name")
	if name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Backup name is required")
	}

	reader, info, err := h.backupService.Download(c.Request().Context(), tenantID, name)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	defer reader.Close()

	c.Response().Header().Set("X-Backup-Checksum", info.Checksum)
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+name)
	return c.Stream(http.StatusOK, "application/octet-stream", reader)
}

// GetBackupURL handles GET /backups/:name/url
func (h *BackupHandlers) GetBackupURL(c echo.Context) error {
	tenantID, err := tenantFromContext(c)
	if err != nil {
		return err
	}
	name := c.Param("name")
	if name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Backup name is required")
	}

	url, err := h.backupService.PresignedURL(c.Request().Context(), tenantID, name, 15*time.Minute)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate download URL")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"url": url,
	})
}

// DeleteBackup handles DELETE /backups/:name
func (h *BackupHandlers) DeleteBackup(c echo.Context) error {
	tenantID, err := tenantFromContext(c)
	if err != nil {
		return err
	}
	name := c.Param("name")
	if name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Backup name is required")
	}

	if err := h.backupService.Delete(c.Request().Context(), tenantID, name); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete backup")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Backup deleted successfully",
	})
}
