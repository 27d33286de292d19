package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/roster-service/internal/api/dto"
	"github.com/spec-kit/roster-service/internal/auth"
	"github.com/spec-kit/roster-service/internal/domain"
	"github.com/spec-kit/roster-service/internal/service"
	"github.com/spec-kit/roster-service/internal/shift"
)

// StaffHandler exposes staff CRUD and override endpoints.
type StaffHandler struct {
	rosterService *service.RosterService
}

// NewStaffHandler constructs handler.
func NewStaffHandler(rosterService *service.RosterService) *StaffHandler {
	return &StaffHandler{rosterService: rosterService}
}

// CreateStaff handles POST /api/staff.
func (h *StaffHandler) CreateStaff(c *fiber.Ctx) error {
	actor, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	req, err := parseStaffRequest(c)
	if err != nil {
		return err
	}
	staff, err := h.rosterService.CreateStaff(c.Context(), actor, staffInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": staffResponse(staff)})
}

// ListStaff handles GET /api/staff.
func (h *StaffHandler) ListStaff(c *fiber.Ctx) error {
	list, fromSnapshot, err := h.rosterService.ListStaff(c.Context())
	if err != nil {
		return err
	}
	resp := make([]dto.StaffResponse, 0, len(list))
	for i := range list {
		resp = append(resp, staffResponse(&list[i]))
	}
	return c.JSON(fiber.Map{"data": resp, "from_snapshot": fromSnapshot})
}

// GetStaff handles GET /api/staff/:id.
func (h *StaffHandler) GetStaff(c *fiber.Ctx) error {
	staff, err := h.rosterService.GetStaff(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": staffResponse(staff)})
}

// UpdateStaff handles PUT /api/staff/:id.
func (h *StaffHandler) UpdateStaff(c *fiber.Ctx) error {
	actor, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	req, err := parseStaffRequest(c)
	if err != nil {
		return err
	}
	staff, err := h.rosterService.UpdateStaff(c.Context(), actor, c.Params("id"), staffInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": staffResponse(staff)})
}

// DeleteStaff handles DELETE /api/staff/:id.
func (h *StaffHandler) DeleteStaff(c *fiber.Ctx) error {
	actor, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	if err := h.rosterService.DeleteStaff(c.Context(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// ReorderStaff handles PUT /api/staff/order.
func (h *StaffHandler) ReorderStaff(c *fiber.Ctx) error {
	actor, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.ReorderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := h.rosterService.ReorderStaff(c.Context(), actor, req.IDs); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "reordered"}})
}

// UpsertOverride handles PUT /api/staff/:id/overrides/:date.
func (h *StaffHandler) UpsertOverride(c *fiber.Ctx) error {
	actor, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.OverrideRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	input := service.OverrideInput{
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		IsDayOff:  req.IsDayOff,
	}
	if req.ShiftType != nil {
		t := domain.ShiftType(*req.ShiftType)
		input.ShiftType = &t
	}

	override, err := h.rosterService.UpsertOverride(c.Context(), actor, c.Params("id"), c.Params("date"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": overrideResponse(override)})
}

// ClearOverride handles DELETE /api/staff/:id/overrides/:date.
func (h *StaffHandler) ClearOverride(c *fiber.Ctx) error {
	actor, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	if err := h.rosterService.ClearOverride(c.Context(), actor, c.Params("id"), c.Params("date")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// CycleShift handles POST /api/staff/:id/overrides/:date/cycle.
func (h *StaffHandler) CycleShift(c *fiber.Ctx) error {
	actor, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	state, err := h.rosterService.CycleShift(c.Context(), actor, c.Params("id"), c.Params("date"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.SlotResponse{
		Date:       c.Params("date"),
		IsWorking:  state.Working,
		ShiftType:  string(state.Type),
		VisualType: string(state.Visual),
		Label:      state.Label,
	}})
}

func requirePrincipal(c *fiber.Ctx) (*domain.Account, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Account == nil {
		return nil, fiber.NewError(http.StatusUnauthorized, "authentication required")
	}
	return principal.Account, nil
}

func parseStaffRequest(c *fiber.Ctx) (*dto.StaffRequest, error) {
	var req dto.StaffRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Name == "" && c.Method() == fiber.MethodPost {
		return nil, fiber.NewError(http.StatusBadRequest, "name required")
	}
	if req.CycleStart == "" {
		return nil, fiber.NewError(http.StatusBadRequest, "cycle_start required")
	}
	return &req, nil
}

func staffInput(req *dto.StaffRequest) service.StaffInput {
	return service.StaffInput{
		Name:         req.Name,
		Role:         req.Role,
		Status:       domain.EmploymentStatus(req.Status),
		DefaultShift: domain.ShiftType(req.DefaultShift),
		CycleStart:   req.CycleStart,
		PatternOn:    req.PatternOn,
		PatternOff:   req.PatternOff,
		DisplayOrder: req.DisplayOrder,
		Active:       req.Active,
	}
}

func staffResponse(staff *domain.StaffMember) dto.StaffResponse {
	resp := dto.StaffResponse{
		ID:           staff.ID,
		Name:         staff.Name,
		Role:         staff.Role,
		Status:       string(staff.Status),
		DefaultShift: string(staff.DefaultShift),
		CycleStart:   shift.FormatDate(staff.Rotation.CycleStart),
		PatternOn:    staff.Rotation.PatternOn,
		PatternOff:   staff.Rotation.PatternOff,
		DisplayOrder: staff.DisplayOrder,
		Active:       staff.Active,
	}
	for i := range staff.Overrides {
		resp.Overrides = append(resp.Overrides, overrideResponse(&staff.Overrides[i]))
	}
	return resp
}

func overrideResponse(ov *domain.ShiftOverride) dto.OverrideResponse {
	resp := dto.OverrideResponse{
		Date:      ov.Date,
		StartTime: ov.StartTime,
		EndTime:   ov.EndTime,
		IsDayOff:  ov.IsDayOff,
	}
	if ov.ShiftType != nil {
		t := string(*ov.ShiftType)
		resp.ShiftType = &t
	}
	return resp
}
