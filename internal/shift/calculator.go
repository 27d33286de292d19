package shift

import (
	"time"

	"github.com/spec-kit/roster-service/internal/domain"
)

// State is the computed result for one (staff, date) pair. It is derived on
// every query and never persisted.
type State struct {
	Working bool
	Type    domain.ShiftType
	Visual  domain.VisualType
	Label   string
}

// Windows holds the default time windows applied when an override does not
// carry explicit times.
type Windows struct {
	NormalStart string
	NormalEnd   string
	HalfStart   string
	HalfEnd     string
}

// DefaultWindows returns the standard worksite shift windows.
func DefaultWindows() Windows {
	return Windows{
		NormalStart: "08:00",
		NormalEnd:   "17:00",
		HalfStart:   "08:00",
		HalfEnd:     "13:00",
	}
}

// IsWorking reports whether the rotation schedules a working day on date.
// Both the cycle anchor and the target are truncated to day granularity, so
// time-of-day never shifts the result. Dates before the anchor project the
// pattern backwards. The caller guarantees a positive cycle length.
func IsWorking(rot domain.Rotation, date time.Time) bool {
	diff := daysBetween(rot.CycleStart, date)
	length := rot.CycleLength()
	dayInCycle := ((diff % length) + length) % length
	return dayInCycle < rot.PatternOn
}

// Compute derives the shift state for the staff member on the given date.
// A day-off override beats a shift-type override on the same record; any
// override beats the rotation pattern.
func Compute(staff *domain.StaffMember, date time.Time) State {
	if ov := staff.OverrideFor(FormatDate(date)); ov != nil {
		if ov.IsDayOff {
			return State{Working: false, Type: domain.ShiftOff, Visual: domain.VisualDash, Label: "Day Off (Manual)"}
		}
		if ov.ShiftType != nil {
			if *ov.ShiftType == domain.ShiftHalf {
				return State{Working: true, Type: domain.ShiftHalf, Visual: domain.VisualHollow, Label: "Half Shift (Manual)"}
			}
			return State{Working: true, Type: domain.ShiftNormal, Visual: domain.VisualSolid, Label: "Normal Shift (Manual)"}
		}
	}
	if IsWorking(staff.Rotation, date) {
		return State{Working: true, Type: domain.ShiftNormal, Visual: domain.VisualSolid, Label: "Normal Shift"}
	}
	return State{Working: false, Type: domain.ShiftOff, Visual: domain.VisualDash, Label: "Off"}
}

// ResolveTimes returns the effective start and end times for the staff member
// on dateStr. Override times win when both ends are present; otherwise the
// window is fixed by shift type.
func ResolveTimes(staff *domain.StaffMember, dateStr string, shiftType domain.ShiftType, w Windows) (string, string) {
	if ov := staff.OverrideFor(dateStr); ov != nil && ov.HasTimes() {
		return *ov.StartTime, *ov.EndTime
	}
	if shiftType == domain.ShiftHalf {
		return w.HalfStart, w.HalfEnd
	}
	return w.NormalStart, w.NormalEnd
}

// NextOverride advances the three-way quick-cycle for the given date:
// Normal -> Half -> Off -> Normal. It returns the override to store, or
// (nil, true) when the existing override should simply be cleared because
// the base pattern already yields a working Normal day.
func NextOverride(staff *domain.StaffMember, date time.Time, w Windows) (*domain.ShiftOverride, bool) {
	current := Compute(staff, date)
	dateStr := FormatDate(date)

	switch {
	case current.Working && current.Type == domain.ShiftNormal:
		start, end := w.HalfStart, w.HalfEnd
		half := domain.ShiftHalf
		return &domain.ShiftOverride{
			StaffID:   staff.ID,
			Date:      dateStr,
			StartTime: &start,
			EndTime:   &end,
			IsDayOff:  false,
			ShiftType: &half,
		}, false
	case current.Working && current.Type == domain.ShiftHalf:
		return &domain.ShiftOverride{
			StaffID:  staff.ID,
			Date:     dateStr,
			IsDayOff: true,
		}, false
	default:
		if IsWorking(staff.Rotation, date) {
			return nil, true
		}
		start, end := w.NormalStart, w.NormalEnd
		normal := domain.ShiftNormal
		return &domain.ShiftOverride{
			StaffID:   staff.ID,
			Date:      dateStr,
			StartTime: &start,
			EndTime:   &end,
			IsDayOff:  false,
			ShiftType: &normal,
		}, false
	}
}

func daysBetween(from, to time.Time) int {
	a := atMidnight(from)
	b := atMidnight(to)
	return int(b.Sub(a).Hours() / 24)
}

func atMidnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
