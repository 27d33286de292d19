package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/roster-service/internal/domain"
	"github.com/spec-kit/roster-service/internal/events"
	"github.com/spec-kit/roster-service/internal/shift"
	apperrors "github.com/spec-kit/roster-service/pkg/util"
)

var staffCSVHeader = []string{
	"name", "role", "status", "default_shift",
	"cycle_start", "pattern_on", "pattern_off", "display_order", "active",
}

// ExportService renders the roster as XLSX, CSV and ICS documents and
// handles CSV staff import.
type ExportService struct {
	roster     *RosterService
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewExportService creates the service.
func NewExportService(roster *RosterService, dispatcher events.Dispatcher, logger *zap.Logger) *ExportService {
	return &ExportService{roster: roster, dispatcher: dispatcher, logger: logger}
}

// ExportRosterXLSX renders the schedule grid for the range as a spreadsheet:
// one row per staff member, one column per day, state label per cell.
func (s *ExportService) ExportRosterXLSX(ctx context.Context, fromStr, toStr string) (*bytes.Buffer, string, error) {
	grid, err := s.roster.Schedule(ctx, fromStr, toStr)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck
	const sheet = "Roster"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, "", err
	}

	setCell := func(col, row int, value any) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		return f.SetCellValue(sheet, cell, value)
	}

	if err := setCell(1, 1, "Name"); err != nil {
		return nil, "", err
	}
	if err := setCell(2, 1, "Role"); err != nil {
		return nil, "", err
	}
	for i, day := range grid.Days {
		header := fmt.Sprintf("%s %02d", day.Weekday, day.DayOfMonth)
		if err := setCell(3+i, 1, header); err != nil {
			return nil, "", err
		}
	}

	for r, row := range grid.Rows {
		if err := setCell(1, 2+r, row.Staff.Name); err != nil {
			return nil, "", err
		}
		if err := setCell(2, 2+r, row.Staff.Role); err != nil {
			return nil, "", err
		}
		for c, slot := range row.Slots {
			text := slot.State.Label
			if slot.State.Working {
				text = fmt.Sprintf("%s %s-%s", slot.State.Label, slot.StartTime, slot.EndTime)
			}
			if err := setCell(3+c, 2+r, text); err != nil {
				return nil, "", err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("failed to render roster workbook", zap.Error(err))
		return nil, "", err
	}
	filename := fmt.Sprintf("roster_%s_%s.xlsx", fromStr, toStr)
	return buf, filename, nil
}

// ExportStaffCSV writes the staff list in the import-compatible CSV layout.
func (s *ExportService) ExportStaffCSV(ctx context.Context) (*bytes.Buffer, string, error) {
	staffList, _, err := s.roster.ListStaff(ctx)
	if err != nil {
		return nil, "", err
	}

	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write(staffCSVHeader); err != nil {
		return nil, "", err
	}
	for i := range staffList {
		member := &staffList[i]
		record := []string{
			member.Name,
			member.Role,
			string(member.Status),
			string(member.DefaultShift),
			shift.FormatDate(member.Rotation.CycleStart),
			strconv.Itoa(member.Rotation.PatternOn),
			strconv.Itoa(member.Rotation.PatternOff),
			strconv.Itoa(member.DisplayOrder),
			strconv.FormatBool(member.Active),
		}
		if err := w.Write(record); err != nil {
			return nil, "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", err
	}
	return buf, "staff.csv", nil
}

// ImportStaffCSV creates staff members from CSV rows in the export layout.
// The whole file is validated row by row; the first invalid row aborts the
// import and reports its line number.
func (s *ExportService) ImportStaffCSV(ctx context.Context, actor *domain.Account, r io.Reader) (int, error) {
	if err := requireAdmin(actor); err != nil {
		return 0, err
	}

	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return 0, apperrors.NewValidationError("empty or unreadable CSV", nil)
	}
	if len(header) < len(staffCSVHeader) {
		return 0, apperrors.NewValidationError("unexpected CSV header", map[string]any{"header": header})
	}

	imported := 0
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return imported, apperrors.NewValidationError("malformed CSV row", map[string]any{"line": line})
		}

		input, err := staffInputFromRecord(record)
		if err != nil {
			return imported, apperrors.NewValidationError(err.Error(), map[string]any{"line": line})
		}
		if _, err := s.roster.CreateStaff(ctx, actor, *input); err != nil {
			return imported, err
		}
		imported++
	}

	if s.dispatcher != nil && imported > 0 {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventRosterImported,
			ActorID:   actor.ID,
			Timestamp: time.Now().UTC(),
			Payload:   events.RosterImportedPayload{Imported: imported},
		})
	}
	return imported, nil
}

// CalendarICS renders one staff member's working days in the range as an
// all-day-event calendar feed.
func (s *ExportService) CalendarICS(ctx context.Context, staffID, fromStr, toStr string) (*bytes.Buffer, string, error) {
	from, err := shift.ParseDate(fromStr)
	if err != nil {
		return nil, "", apperrors.NewValidationError(err.Error(), nil)
	}
	to, err := shift.ParseDate(toStr)
	if err != nil {
		return nil, "", apperrors.NewValidationError(err.Error(), nil)
	}
	if to.Before(from) {
		return nil, "", apperrors.NewValidationError("range end precedes start", nil)
	}

	staff, err := s.roster.GetStaff(ctx, staffID)
	if err != nil {
		return nil, "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)

	now := time.Now().UTC()
	for _, day := range shift.Days(from, to) {
		date, _ := shift.ParseDate(day.Date)
		state := shift.Compute(staff, date)
		if !state.Working {
			continue
		}
		start, end := shift.ResolveTimes(staff, day.Date, state.Type, s.roster.Windows())

		event := cal.AddEvent(fmt.Sprintf("%s-%s@roster", staff.ID, day.Date))
		event.SetCreatedTime(now)
		event.SetDtStampTime(now)
		event.SetAllDayStartAt(date)
		event.SetAllDayEndAt(date.AddDate(0, 0, 1))
		event.SetSummary(fmt.Sprintf("%s: %s (%s-%s)", staff.Name, state.Label, start, end))
	}

	buf := bytes.NewBufferString(cal.Serialize())
	filename := fmt.Sprintf("%s_%s_%s.ics", staff.Name, fromStr, toStr)
	return buf, filename, nil
}

func staffInputFromRecord(record []string) (*StaffInput, error) {
	if len(record) < len(staffCSVHeader) {
		return nil, fmt.Errorf("expected %d columns, got %d", len(staffCSVHeader), len(record))
	}
	patternOn, err := strconv.Atoi(record[5])
	if err != nil {
		return nil, fmt.Errorf("invalid pattern_on %q", record[5])
	}
	patternOff, err := strconv.Atoi(record[6])
	if err != nil {
		return nil, fmt.Errorf("invalid pattern_off %q", record[6])
	}
	displayOrder := 0
	if record[7] != "" {
		if displayOrder, err = strconv.Atoi(record[7]); err != nil {
			return nil, fmt.Errorf("invalid display_order %q", record[7])
		}
	}
	if record[0] == "" {
		return nil, fmt.Errorf("name required")
	}

	return &StaffInput{
		Name:         record[0],
		Role:         record[1],
		Status:       domain.EmploymentStatus(record[2]),
		DefaultShift: domain.ShiftType(record[3]),
		CycleStart:   record[4],
		PatternOn:    patternOn,
		PatternOff:   patternOff,
		DisplayOrder: displayOrder,
	}, nil
}
