package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/roster-service/internal/domain"
	"github.com/spec-kit/roster-service/internal/events"
)

func setupExportService() (*ExportService, *RosterService) {
	roster, _, _, _ := setupRosterService()
	export := NewExportService(roster, events.NewInMemoryDispatcher(), zap.NewNop())
	return export, roster
}

func TestExportStaffCSVRoundTrip(t *testing.T) {
	export, roster := setupExportService()
	admin := adminAccount()

	_, err := roster.CreateStaff(context.Background(), admin, fiveTwoInput())
	require.NoError(t, err)

	buf, filename, err := export.ExportStaffCSV(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "staff.csv", filename)

	records, err := csv.NewReader(bytes.NewReader(buf.Bytes())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, staffCSVHeader, records[0])
	assert.Equal(t, "Alice", records[1][0])
	assert.Equal(t, "2024-01-01", records[1][4])
	assert.Equal(t, "5", records[1][5])
	assert.Equal(t, "2", records[1][6])
}

func TestImportStaffCSV(t *testing.T) {
	export, roster := setupExportService()
	admin := adminAccount()

	csvBody := strings.Join([]string{
		strings.Join(staffCSVHeader, ","),
		"Alice,Operator,Permanent,Normal,2024-01-01,5,2,0,true",
		"Bob,Supervisor,Casual,Half,2024-01-08,3,4,1,true",
	}, "\n")

	imported, err := export.ImportStaffCSV(context.Background(), admin, strings.NewReader(csvBody))
	require.NoError(t, err)
	assert.Equal(t, 2, imported)

	list, _, err := roster.ListStaff(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Alice", list[0].Name)
	assert.Equal(t, domain.ShiftHalf, list[1].DefaultShift)
	assert.Equal(t, 3, list[1].Rotation.PatternOn)
}

func TestImportStaffCSVReportsBadRow(t *testing.T) {
	export, _ := setupExportService()
	admin := adminAccount()

	csvBody := strings.Join([]string{
		strings.Join(staffCSVHeader, ","),
		"Alice,Operator,Permanent,Normal,2024-01-01,five,2,0,true",
	}, "\n")

	imported, err := export.ImportStaffCSV(context.Background(), admin, strings.NewReader(csvBody))
	assert.Equal(t, 0, imported)
	assertDomainCode(t, err, "VALIDATION_FAILED")
}

func TestImportStaffCSVRequiresAdmin(t *testing.T) {
	export, _ := setupExportService()

	_, err := export.ImportStaffCSV(context.Background(), viewerAccount(), strings.NewReader("name\n"))
	assertDomainCode(t, err, "FORBIDDEN")
}

func TestExportRosterXLSX(t *testing.T) {
	export, roster := setupExportService()
	admin := adminAccount()

	_, err := roster.CreateStaff(context.Background(), admin, fiveTwoInput())
	require.NoError(t, err)

	buf, filename, err := export.ExportRosterXLSX(context.Background(), "2024-01-01", "2024-01-07")
	require.NoError(t, err)
	assert.Equal(t, "roster_2024-01-01_2024-01-07.xlsx", filename)

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close() //nolint:errcheck

	name, err := f.GetCellValue("Roster", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Alice", name)

	monday, err := f.GetCellValue("Roster", "C2")
	require.NoError(t, err)
	assert.Equal(t, "Normal Shift 08:00-17:00", monday)

	// Column I is the seventh day, a pattern off day.
	sunday, err := f.GetCellValue("Roster", "I2")
	require.NoError(t, err)
	assert.Equal(t, "Off", sunday)
}

func TestCalendarICSContainsWorkingDaysOnly(t *testing.T) {
	export, roster := setupExportService()
	admin := adminAccount()

	staff, err := roster.CreateStaff(context.Background(), admin, fiveTwoInput())
	require.NoError(t, err)

	buf, _, err := export.CalendarICS(context.Background(), staff.ID, "2024-01-01", "2024-01-07")
	require.NoError(t, err)

	body := buf.String()
	assert.Contains(t, body, "BEGIN:VCALENDAR")
	assert.Contains(t, body, "Alice: Normal Shift (08:00-17:00)")
	// 5 working days out of 7.
	assert.Equal(t, 5, strings.Count(body, "BEGIN:VEVENT"))
}

func TestCalendarICSUnknownStaff(t *testing.T) {
	export, _ := setupExportService()

	_, _, err := export.CalendarICS(context.Background(), "staff-missing", "2024-01-01", "2024-01-07")
	assertDomainCode(t, err, "NOT_FOUND")
}
