package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/roster-service/internal/config"
	"github.com/spec-kit/roster-service/internal/domain"
	"github.com/spec-kit/roster-service/internal/events"
	"github.com/spec-kit/roster-service/internal/persistence"
	"github.com/spec-kit/roster-service/internal/repository"
	"github.com/spec-kit/roster-service/internal/shift"
	apperrors "github.com/spec-kit/roster-service/pkg/util"

	"go.uber.org/zap"
)

// SnapshotStore abstracts the roster snapshot cache.
type SnapshotStore interface {
	Save(ctx context.Context, staff []domain.StaffMember) error
	Load(ctx context.Context) (*persistence.RosterSnapshot, error)
}

// RosterService manages staff members, their overrides and the schedule grid.
type RosterService struct {
	staff      repository.StaffRepository
	overrides  repository.OverrideRepository
	snapshots  SnapshotStore
	dispatcher events.Dispatcher
	windows    shift.Windows
	logger     *zap.Logger
}

// RosterDependencies encapsulates collaborator requirements.
type RosterDependencies struct {
	StaffRepo    repository.StaffRepository
	OverrideRepo repository.OverrideRepository
	Snapshots    SnapshotStore
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// NewRosterService constructs the service.
func NewRosterService(cfg config.Config, deps RosterDependencies) *RosterService {
	return &RosterService{
		staff:      deps.StaffRepo,
		overrides:  deps.OverrideRepo,
		snapshots:  deps.Snapshots,
		dispatcher: deps.Dispatcher,
		windows: shift.Windows{
			NormalStart: cfg.Shift.NormalStart,
			NormalEnd:   cfg.Shift.NormalEnd,
			HalfStart:   cfg.Shift.HalfStart,
			HalfEnd:     cfg.Shift.HalfEnd,
		},
		logger: deps.Logger,
	}
}

// Windows exposes the configured default shift windows.
func (s *RosterService) Windows() shift.Windows {
	return s.windows
}

// StaffInput carries staff create/update fields.
type StaffInput struct {
	Name         string
	Role         string
	Status       domain.EmploymentStatus
	DefaultShift domain.ShiftType
	CycleStart   string
	PatternOn    int
	PatternOff   int
	DisplayOrder int
	Active       *bool
}

// OverrideInput carries manual override fields for one date.
type OverrideInput struct {
	StartTime *string
	EndTime   *string
	IsDayOff  bool
	ShiftType *domain.ShiftType
}

// StaffDaySlot is one computed cell of the schedule grid.
type StaffDaySlot struct {
	Date      string
	State     shift.State
	StartTime string
	EndTime   string
}

// StaffScheduleRow pairs a staff member with their computed day slots.
type StaffScheduleRow struct {
	Staff domain.StaffMember
	Slots []StaffDaySlot
}

// ScheduleGrid is the full calendar view for a date range.
type ScheduleGrid struct {
	Days         []shift.DayStatus
	Rows         []StaffScheduleRow
	FromSnapshot bool
}

func requireAdmin(actor *domain.Account) error {
	if !actor.IsAdmin() {
		return apperrors.NewForbidden("admin role required")
	}
	return nil
}

// CreateStaff adds a new staff member after validating the rotation.
func (s *RosterService) CreateStaff(ctx context.Context, actor *domain.Account, in StaffInput) (*domain.StaffMember, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	rotation, err := parseRotation(in.CycleStart, in.PatternOn, in.PatternOff)
	if err != nil {
		return nil, err
	}

	staff := &domain.StaffMember{
		Name:         in.Name,
		Role:         in.Role,
		Status:       normalizeStatus(in.Status),
		DefaultShift: normalizeShiftType(in.DefaultShift),
		Rotation:     *rotation,
		DisplayOrder: in.DisplayOrder,
		Active:       true,
	}
	if err := s.staff.Create(ctx, staff); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.EventStaffCreated, actor, staff.ID, events.StaffChangedPayload{
		Name:       staff.Name,
		PatternOn:  staff.Rotation.PatternOn,
		PatternOff: staff.Rotation.PatternOff,
	})
	s.refreshSnapshot(ctx)
	return staff, nil
}

// UpdateStaff modifies staff details and rotation.
func (s *RosterService) UpdateStaff(ctx context.Context, actor *domain.Account, id string, in StaffInput) (*domain.StaffMember, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	staff, err := s.staff.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	rotation, err := parseRotation(in.CycleStart, in.PatternOn, in.PatternOff)
	if err != nil {
		return nil, err
	}

	if in.Name != "" {
		staff.Name = in.Name
	}
	staff.Role = in.Role
	staff.Status = normalizeStatus(in.Status)
	staff.DefaultShift = normalizeShiftType(in.DefaultShift)
	staff.Rotation = *rotation
	staff.DisplayOrder = in.DisplayOrder
	if in.Active != nil {
		staff.Active = *in.Active
	}

	if err := s.staff.Update(ctx, staff); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.EventStaffUpdated, actor, staff.ID, events.StaffChangedPayload{
		Name:       staff.Name,
		PatternOn:  staff.Rotation.PatternOn,
		PatternOff: staff.Rotation.PatternOff,
	})
	s.refreshSnapshot(ctx)
	return staff, nil
}

// GetStaff fetches one staff member with overrides attached.
func (s *RosterService) GetStaff(ctx context.Context, id string) (*domain.StaffMember, error) {
	staff, err := s.staff.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	overrides, err := s.overrides.ListByStaff(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	staff.Overrides = overrides
	return staff, nil
}

// ListStaff returns the ordered roster with overrides attached, falling back
// to the cached snapshot when the primary store is unreachable.
func (s *RosterService) ListStaff(ctx context.Context) ([]domain.StaffMember, bool, error) {
	staff, err := s.loadRoster(ctx)
	if err == nil {
		return staff, false, nil
	}

	s.logger.Warn("staff list unavailable from postgres; trying snapshot", zap.Error(err))
	snap, snapErr := s.snapshots.Load(ctx)
	if snapErr != nil {
		return nil, false, apperrors.MapError(err)
	}
	return snap.Staff, true, nil
}

// DeleteStaff removes a staff member and their overrides.
func (s *RosterService) DeleteStaff(ctx context.Context, actor *domain.Account, id string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	staff, err := s.staff.GetByID(ctx, id)
	if err != nil {
		return apperrors.MapError(err)
	}
	if err := s.staff.Delete(ctx, id); err != nil {
		return apperrors.MapError(err)
	}

	s.publish(ctx, events.EventStaffDeleted, actor, id, events.StaffChangedPayload{Name: staff.Name})
	s.refreshSnapshot(ctx)
	return nil
}

// ReorderStaff rewrites display order according to the given id sequence.
func (s *RosterService) ReorderStaff(ctx context.Context, actor *domain.Account, ids []string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if len(ids) == 0 {
		return apperrors.NewValidationError("ids required", nil)
	}
	for i, id := range ids {
		if err := s.staff.UpdateDisplayOrder(ctx, id, i); err != nil {
			return apperrors.MapError(err)
		}
	}
	s.refreshSnapshot(ctx)
	return nil
}

// UpsertOverride writes or replaces the single override for one date.
func (s *RosterService) UpsertOverride(ctx context.Context, actor *domain.Account, staffID, dateStr string, in OverrideInput) (*domain.ShiftOverride, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if _, err := shift.ParseDate(dateStr); err != nil {
		return nil, apperrors.NewValidationError(err.Error(), nil)
	}
	if err := validateOverrideTimes(in.StartTime, in.EndTime); err != nil {
		return nil, err
	}
	if in.ShiftType != nil && *in.ShiftType != domain.ShiftNormal && *in.ShiftType != domain.ShiftHalf {
		return nil, apperrors.NewValidationError("shift type must be Normal or Half", map[string]any{"shift_type": *in.ShiftType})
	}
	if _, err := s.staff.GetByID(ctx, staffID); err != nil {
		return nil, apperrors.MapError(err)
	}

	override := &domain.ShiftOverride{
		StaffID:   staffID,
		Date:      dateStr,
		StartTime: in.StartTime,
		EndTime:   in.EndTime,
		IsDayOff:  in.IsDayOff,
		ShiftType: in.ShiftType,
	}
	if err := s.overrides.Upsert(ctx, override); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.EventOverrideApplied, actor, staffID, overridePayload(override))
	s.refreshSnapshot(ctx)
	return override, nil
}

// ClearOverride removes the override for one date, if any.
func (s *RosterService) ClearOverride(ctx context.Context, actor *domain.Account, staffID, dateStr string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if _, err := shift.ParseDate(dateStr); err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}
	if err := s.overrides.DeleteByDate(ctx, staffID, dateStr); err != nil {
		return apperrors.MapError(err)
	}

	s.publish(ctx, events.EventOverrideCleared, actor, staffID, events.OverridePayload{Date: dateStr})
	s.refreshSnapshot(ctx)
	return nil
}

// CycleShift applies the quick-cycle toggle (Normal -> Half -> Off -> Normal)
// for one staff member and date, and returns the resulting state.
func (s *RosterService) CycleShift(ctx context.Context, actor *domain.Account, staffID, dateStr string) (shift.State, error) {
	if err := requireAdmin(actor); err != nil {
		return shift.State{}, err
	}
	date, err := shift.ParseDate(dateStr)
	if err != nil {
		return shift.State{}, apperrors.NewValidationError(err.Error(), nil)
	}

	staff, err := s.GetStaff(ctx, staffID)
	if err != nil {
		return shift.State{}, err
	}

	next, clear := shift.NextOverride(staff, date, s.windows)
	if clear {
		if err := s.overrides.DeleteByDate(ctx, staffID, dateStr); err != nil {
			return shift.State{}, apperrors.MapError(err)
		}
		s.publish(ctx, events.EventOverrideCleared, actor, staffID, events.OverridePayload{Date: dateStr})
	} else {
		if err := s.overrides.Upsert(ctx, next); err != nil {
			return shift.State{}, apperrors.MapError(err)
		}
		s.publish(ctx, events.EventOverrideApplied, actor, staffID, overridePayload(next))
	}
	s.refreshSnapshot(ctx)

	staff, err = s.GetStaff(ctx, staffID)
	if err != nil {
		return shift.State{}, err
	}
	return shift.Compute(staff, date), nil
}

// Schedule builds the calendar grid for the inclusive date range.
func (s *RosterService) Schedule(ctx context.Context, fromStr, toStr string) (*ScheduleGrid, error) {
	from, err := shift.ParseDate(fromStr)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error(), nil)
	}
	to, err := shift.ParseDate(toStr)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error(), nil)
	}
	if to.Before(from) {
		return nil, apperrors.NewValidationError("range end precedes start", map[string]any{"from": fromStr, "to": toStr})
	}

	staffList, fromSnapshot, err := s.ListStaff(ctx)
	if err != nil {
		return nil, err
	}

	days := shift.Days(from, to)
	rows := make([]StaffScheduleRow, 0, len(staffList))
	for i := range staffList {
		member := staffList[i]
		slots := make([]StaffDaySlot, 0, len(days))
		for _, day := range days {
			date, _ := shift.ParseDate(day.Date)
			state := shift.Compute(&member, date)
			slot := StaffDaySlot{Date: day.Date, State: state}
			if state.Working {
				slot.StartTime, slot.EndTime = shift.ResolveTimes(&member, day.Date, state.Type, s.windows)
			}
			slots = append(slots, slot)
		}
		rows = append(rows, StaffScheduleRow{Staff: member, Slots: slots})
	}

	return &ScheduleGrid{Days: days, Rows: rows, FromSnapshot: fromSnapshot}, nil
}

func (s *RosterService) loadRoster(ctx context.Context) ([]domain.StaffMember, error) {
	staffList, err := s.staff.List(ctx, repository.StaffFilter{})
	if err != nil {
		return nil, err
	}
	overrides, err := s.overrides.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	byStaff := make(map[string][]domain.ShiftOverride, len(staffList))
	for _, ov := range overrides {
		byStaff[ov.StaffID] = append(byStaff[ov.StaffID], ov)
	}
	for i := range staffList {
		staffList[i].Overrides = byStaff[staffList[i].ID]
	}
	return staffList, nil
}

func (s *RosterService) refreshSnapshot(ctx context.Context) {
	staffList, err := s.loadRoster(ctx)
	if err != nil {
		s.logger.Warn("skipping snapshot refresh", zap.Error(err))
		return
	}
	if err := s.snapshots.Save(ctx, staffList); err != nil {
		s.logger.Warn("failed to save roster snapshot", zap.Error(err))
	}
}

func (s *RosterService) publish(ctx context.Context, eventType events.EventType, actor *domain.Account, staffID string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		StaffID:   staffID,
		ActorID:   actor.ID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	})
}

func parseRotation(cycleStart string, patternOn, patternOff int) (*domain.Rotation, error) {
	start, err := shift.ParseDate(cycleStart)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error(), map[string]any{"cycle_start": cycleStart})
	}
	rotation := domain.Rotation{CycleStart: start, PatternOn: patternOn, PatternOff: patternOff}
	if !rotation.Valid() {
		return nil, apperrors.NewValidationError("cycle length must be positive", map[string]any{
			"pattern_on":  patternOn,
			"pattern_off": patternOff,
		})
	}
	return &rotation, nil
}

func validateOverrideTimes(start, end *string) error {
	for _, val := range []*string{start, end} {
		if val == nil || *val == "" {
			continue
		}
		if _, err := time.Parse("15:04", *val); err != nil {
			return apperrors.NewValidationError("times must be HH:MM", map[string]any{"value": *val})
		}
	}
	return nil
}

func normalizeStatus(status domain.EmploymentStatus) domain.EmploymentStatus {
	if status == domain.StatusCasual {
		return domain.StatusCasual
	}
	return domain.StatusPermanent
}

func normalizeShiftType(t domain.ShiftType) domain.ShiftType {
	if t == domain.ShiftHalf {
		return domain.ShiftHalf
	}
	return domain.ShiftNormal
}

func overridePayload(ov *domain.ShiftOverride) events.OverridePayload {
	payload := events.OverridePayload{Date: ov.Date, IsDayOff: ov.IsDayOff}
	if ov.ShiftType != nil {
		t := string(*ov.ShiftType)
		payload.ShiftType = &t
	}
	return payload
}
