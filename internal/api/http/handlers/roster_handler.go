package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/roster-service/internal/api/dto"
	"github.com/spec-kit/roster-service/internal/service"
)

// RosterHandler exposes the calendar grid endpoint.
type RosterHandler struct {
	rosterService *service.RosterService
}

// NewRosterHandler constructs handler.
func NewRosterHandler(rosterService *service.RosterService) *RosterHandler {
	return &RosterHandler{rosterService: rosterService}
}

// Schedule handles GET /api/roster?from=&to=.
func (h *RosterHandler) Schedule(c *fiber.Ctx) error {
	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		return fiber.NewError(http.StatusBadRequest, "from and to required")
	}

	grid, err := h.rosterService.Schedule(c.Context(), from, to)
	if err != nil {
		return err
	}

	resp := dto.RosterResponse{
		From:         from,
		To:           to,
		FromSnapshot: grid.FromSnapshot,
		Days:         make([]dto.DayResponse, 0, len(grid.Days)),
		Rows:         make([]dto.RosterRowResponse, 0, len(grid.Rows)),
	}
	for _, day := range grid.Days {
		resp.Days = append(resp.Days, dto.DayResponse{
			Date:       day.Date,
			Weekday:    day.Weekday,
			DayOfMonth: day.DayOfMonth,
		})
	}
	for i := range grid.Rows {
		row := &grid.Rows[i]
		slots := make([]dto.SlotResponse, 0, len(row.Slots))
		for _, slot := range row.Slots {
			slots = append(slots, dto.SlotResponse{
				Date:       slot.Date,
				IsWorking:  slot.State.Working,
				ShiftType:  string(slot.State.Type),
				VisualType: string(slot.State.Visual),
				Label:      slot.State.Label,
				StartTime:  slot.StartTime,
				EndTime:    slot.EndTime,
			})
		}
		resp.Rows = append(resp.Rows, dto.RosterRowResponse{
			Staff: staffResponse(&row.Staff),
			Slots: slots,
		})
	}

	return c.JSON(fiber.Map{"data": resp})
}
