package server

import (
	"encoding/json"
	"os"
	"path/filepath"

	"commentpulse/internal/models"
	"commentpulse/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// UploadAndClean accepts a tabular export as multipart form data and runs the
// full pipeline: parse, persist raw, clean via the worker, persist cleaned,
// sync the project into the search index.
func (s *Server) UploadAndClean(c *fiber.Ctx) error {
	ctx := c.UserContext()

	owner, err := s.tenant(c)
	if err != nil {
		return nil
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("file is required"))
	}

	projectName := c.FormValue("project_name")
	cleanType := c.FormValue("clean_type")

	var options map[string]interface{}
	if raw := c.FormValue("options"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &options); err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("options must be a JSON object"))
		}
	}

	// Spool to disk; the parser and the worker upload both read from the path.
	spoolPath := filepath.Join(os.TempDir(), "commentpulse-"+uuid.NewString())
	if err := c.SaveFile(fileHeader, spoolPath); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	defer os.Remove(spoolPath)

	result, err := s.cleanService.Run(ctx, service.CleanUploadInput{
		OwnerUUID:   owner,
		ProjectName: projectName,
		CleanType:   cleanType,
		Options:     options,
		FilePath:    spoolPath,
		FileName:    fileHeader.Filename,
	})
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}
