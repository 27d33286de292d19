package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/roster-service/internal/api/dto"
	"github.com/spec-kit/roster-service/internal/service"
)

// ExportHandler exposes roster export/import endpoints.
type ExportHandler struct {
	exportService *service.ExportService
}

// NewExportHandler constructs handler.
func NewExportHandler(exportService *service.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

// RosterXLSX handles GET /api/roster/export.xlsx?from=&to=.
func (h *ExportHandler) RosterXLSX(c *fiber.Ctx) error {
	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		return fiber.NewError(http.StatusBadRequest, "from and to required")
	}

	buf, filename, err := h.exportService.ExportRosterXLSX(c.Context(), from, to)
	if err != nil {
		return err
	}
	return sendAttachment(c, buf, filename,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
}

// StaffCSV handles GET /api/staff/export.csv.
func (h *ExportHandler) StaffCSV(c *fiber.Ctx) error {
	buf, filename, err := h.exportService.ExportStaffCSV(c.Context())
	if err != nil {
		return err
	}
	return sendAttachment(c, buf, filename, "text/csv")
}

// ImportStaff handles POST /api/staff/import with a CSV body.
func (h *ExportHandler) ImportStaff(c *fiber.Ctx) error {
	actor, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	imported, err := h.exportService.ImportStaffCSV(c.Context(), actor, bytes.NewReader(c.Body()))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.ImportResponse{Imported: imported}})
}

// StaffICS handles GET /api/staff/:id/calendar.ics?from=&to=.
func (h *ExportHandler) StaffICS(c *fiber.Ctx) error {
	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		return fiber.NewError(http.StatusBadRequest, "from and to required")
	}

	buf, filename, err := h.exportService.CalendarICS(c.Context(), c.Params("id"), from, to)
	if err != nil {
		return err
	}
	return sendAttachment(c, buf, filename, "text/calendar")
}

func sendAttachment(c *fiber.Ctx, buf *bytes.Buffer, filename, contentType string) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(buf.Bytes())
}
