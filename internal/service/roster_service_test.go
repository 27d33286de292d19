package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/roster-service/internal/config"
	"github.com/spec-kit/roster-service/internal/domain"
	"github.com/spec-kit/roster-service/internal/events"
	"github.com/spec-kit/roster-service/internal/persistence"
	apperrors "github.com/spec-kit/roster-service/pkg/util"
)

func testConfig() config.Config {
	return config.Config{
		Shift: config.ShiftConfig{
			NormalStart: "08:00",
			NormalEnd:   "17:00",
			HalfStart:   "08:00",
			HalfEnd:     "13:00",
		},
		Auth: config.AuthConfig{BcryptCost: 4},
	}
}

func setupRosterService() (*RosterService, *mockStaffRepo, *mockOverrideRepo, *mockSnapshotStore) {
	staffRepo := newMockStaffRepo()
	overrideRepo := newMockOverrideRepo()
	snapshots := newMockSnapshotStore()
	svc := NewRosterService(testConfig(), RosterDependencies{
		StaffRepo:    staffRepo,
		OverrideRepo: overrideRepo,
		Snapshots:    snapshots,
		Dispatcher:   events.NewInMemoryDispatcher(),
		Logger:       zap.NewNop(),
	})
	return svc, staffRepo, overrideRepo, snapshots
}

func adminAccount() *domain.Account {
	return &domain.Account{ID: "account-admin", Role: domain.RoleAdmin, Active: true}
}

func viewerAccount() *domain.Account {
	return &domain.Account{ID: "account-viewer", Role: domain.RoleViewer, Active: true}
}

func fiveTwoInput() StaffInput {
	return StaffInput{
		Name:         "Alice",
		Role:         "Operator",
		Status:       domain.StatusPermanent,
		DefaultShift: domain.ShiftNormal,
		CycleStart:   "2024-01-01",
		PatternOn:    5,
		PatternOff:   2,
	}
}

func assertDomainCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, code, apperrors.ToDomainError(err).Code)
}

func TestCreateStaffRequiresAdmin(t *testing.T) {
	svc, _, _, _ := setupRosterService()

	_, err := svc.CreateStaff(context.Background(), viewerAccount(), fiveTwoInput())
	assertDomainCode(t, err, "FORBIDDEN")
}

func TestCreateStaffRejectsZeroCycle(t *testing.T) {
	svc, _, _, _ := setupRosterService()

	in := fiveTwoInput()
	in.PatternOn = 0
	in.PatternOff = 0
	_, err := svc.CreateStaff(context.Background(), adminAccount(), in)
	assertDomainCode(t, err, "VALIDATION_FAILED")

	in.PatternOn = -1
	in.PatternOff = 3
	_, err = svc.CreateStaff(context.Background(), adminAccount(), in)
	assertDomainCode(t, err, "VALIDATION_FAILED")
}

func TestCreateStaffRejectsMalformedCycleStart(t *testing.T) {
	svc, _, _, _ := setupRosterService()

	in := fiveTwoInput()
	in.CycleStart = "01/01/2024"
	_, err := svc.CreateStaff(context.Background(), adminAccount(), in)
	assertDomainCode(t, err, "VALIDATION_FAILED")
}

func TestCreateStaffRefreshesSnapshot(t *testing.T) {
	svc, _, _, snapshots := setupRosterService()

	staff, err := svc.CreateStaff(context.Background(), adminAccount(), fiveTwoInput())
	require.NoError(t, err)
	assert.NotEmpty(t, staff.ID)
	assert.True(t, staff.Active)

	require.Equal(t, 1, snapshots.saveCnt)
	require.Len(t, snapshots.saved, 1)
	assert.Equal(t, "Alice", snapshots.saved[0].Name)
}

func TestUpsertOverrideValidation(t *testing.T) {
	svc, _, _, _ := setupRosterService()
	admin := adminAccount()
	staff, err := svc.CreateStaff(context.Background(), admin, fiveTwoInput())
	require.NoError(t, err)

	_, err = svc.UpsertOverride(context.Background(), admin, staff.ID, "bad-date", OverrideInput{IsDayOff: true})
	assertDomainCode(t, err, "VALIDATION_FAILED")

	badTime := "25:99"
	_, err = svc.UpsertOverride(context.Background(), admin, staff.ID, "2024-01-03", OverrideInput{StartTime: &badTime})
	assertDomainCode(t, err, "VALIDATION_FAILED")

	badType := domain.ShiftType("Split")
	_, err = svc.UpsertOverride(context.Background(), admin, staff.ID, "2024-01-03", OverrideInput{ShiftType: &badType})
	assertDomainCode(t, err, "VALIDATION_FAILED")

	_, err = svc.UpsertOverride(context.Background(), admin, "staff-missing", "2024-01-03", OverrideInput{IsDayOff: true})
	assertDomainCode(t, err, "NOT_FOUND")
}

func TestUpsertOverrideReplacesExisting(t *testing.T) {
	svc, _, overrideRepo, _ := setupRosterService()
	admin := adminAccount()
	staff, err := svc.CreateStaff(context.Background(), admin, fiveTwoInput())
	require.NoError(t, err)

	_, err = svc.UpsertOverride(context.Background(), admin, staff.ID, "2024-01-03", OverrideInput{IsDayOff: true})
	require.NoError(t, err)

	half := domain.ShiftHalf
	_, err = svc.UpsertOverride(context.Background(), admin, staff.ID, "2024-01-03", OverrideInput{ShiftType: &half})
	require.NoError(t, err)

	// One override per date: the second write replaced the first.
	stored, err := overrideRepo.ListByStaff(context.Background(), staff.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.False(t, stored[0].IsDayOff)
	require.NotNil(t, stored[0].ShiftType)
	assert.Equal(t, domain.ShiftHalf, *stored[0].ShiftType)
}

func TestOverridePrecedenceThroughSchedule(t *testing.T) {
	svc, _, _, _ := setupRosterService()
	admin := adminAccount()
	staff, err := svc.CreateStaff(context.Background(), admin, fiveTwoInput())
	require.NoError(t, err)

	// Day off on a pattern working day, half shift on a pattern off day.
	_, err = svc.UpsertOverride(context.Background(), admin, staff.ID, "2024-01-03", OverrideInput{IsDayOff: true})
	require.NoError(t, err)
	half := domain.ShiftHalf
	_, err = svc.UpsertOverride(context.Background(), admin, staff.ID, "2024-01-06", OverrideInput{ShiftType: &half})
	require.NoError(t, err)

	grid, err := svc.Schedule(context.Background(), "2024-01-01", "2024-01-07")
	require.NoError(t, err)
	require.Len(t, grid.Days, 7)
	require.Len(t, grid.Rows, 1)

	slots := grid.Rows[0].Slots
	require.Len(t, slots, 7)

	assert.True(t, slots[0].State.Working)
	assert.Equal(t, "Normal Shift", slots[0].State.Label)
	assert.Equal(t, "08:00", slots[0].StartTime)
	assert.Equal(t, "17:00", slots[0].EndTime)

	assert.False(t, slots[2].State.Working)
	assert.Equal(t, "Day Off (Manual)", slots[2].State.Label)
	assert.Empty(t, slots[2].StartTime)

	assert.True(t, slots[5].State.Working)
	assert.Equal(t, "Half Shift (Manual)", slots[5].State.Label)
	assert.Equal(t, "13:00", slots[5].EndTime)

	assert.False(t, slots[6].State.Working)
	assert.Equal(t, "Off", slots[6].State.Label)
}

func TestScheduleRejectsInvertedRange(t *testing.T) {
	svc, _, _, _ := setupRosterService()
	_, err := svc.Schedule(context.Background(), "2024-01-07", "2024-01-01")
	assertDomainCode(t, err, "VALIDATION_FAILED")
}

func TestCycleShiftSequence(t *testing.T) {
	svc, _, overrideRepo, _ := setupRosterService()
	admin := adminAccount()
	staff, err := svc.CreateStaff(context.Background(), admin, fiveTwoInput())
	require.NoError(t, err)

	const day = "2024-01-03" // natural working Normal day

	state, err := svc.CycleShift(context.Background(), admin, staff.ID, day)
	require.NoError(t, err)
	assert.Equal(t, domain.ShiftHalf, state.Type)

	state, err = svc.CycleShift(context.Background(), admin, staff.ID, day)
	require.NoError(t, err)
	assert.False(t, state.Working)
	assert.Equal(t, domain.ShiftOff, state.Type)

	state, err = svc.CycleShift(context.Background(), admin, staff.ID, day)
	require.NoError(t, err)
	assert.True(t, state.Working)
	assert.Equal(t, domain.ShiftNormal, state.Type)
	assert.Equal(t, "Normal Shift", state.Label)

	// Back to the pattern's natural state: no override remains.
	stored, err := overrideRepo.ListByStaff(context.Background(), staff.ID)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestListStaffFallsBackToSnapshot(t *testing.T) {
	svc, staffRepo, _, snapshots := setupRosterService()

	snapshots.loadSnap = &persistence.RosterSnapshot{
		SavedAt: time.Now(),
		Staff:   []domain.StaffMember{{ID: "staff-1", Name: "Cached Alice"}},
	}
	staffRepo.failList = true

	list, fromSnapshot, err := svc.ListStaff(context.Background())
	require.NoError(t, err)
	assert.True(t, fromSnapshot)
	require.Len(t, list, 1)
	assert.Equal(t, "Cached Alice", list[0].Name)
}

func TestListStaffErrorsWhenNoSnapshot(t *testing.T) {
	svc, staffRepo, _, _ := setupRosterService()
	staffRepo.failList = true

	_, _, err := svc.ListStaff(context.Background())
	assertDomainCode(t, err, "INTERNAL_ERROR")
}

func TestReorderStaff(t *testing.T) {
	svc, staffRepo, _, _ := setupRosterService()
	admin := adminAccount()

	first, err := svc.CreateStaff(context.Background(), admin, fiveTwoInput())
	require.NoError(t, err)
	in := fiveTwoInput()
	in.Name = "Bob"
	second, err := svc.CreateStaff(context.Background(), admin, in)
	require.NoError(t, err)

	require.NoError(t, svc.ReorderStaff(context.Background(), admin, []string{second.ID, first.ID}))

	list, err := staffRepo.List(context.Background(), listAllFilter())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Bob", list[0].Name)
	assert.Equal(t, "Alice", list[1].Name)
}

func TestDeleteStaff(t *testing.T) {
	svc, _, _, snapshots := setupRosterService()
	admin := adminAccount()
	staff, err := svc.CreateStaff(context.Background(), admin, fiveTwoInput())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteStaff(context.Background(), admin, staff.ID))
	assert.Empty(t, snapshots.saved)

	err = svc.DeleteStaff(context.Background(), admin, staff.ID)
	assertDomainCode(t, err, "NOT_FOUND")
}
