package domain

import "time"

// ShiftType enumerates shift variants for a working day.
type ShiftType string

const (
	ShiftNormal ShiftType = "Normal"
	ShiftHalf   ShiftType = "Half"
	ShiftOff    ShiftType = "Off"
)

// VisualType is the rendering category consumed by the presentation layer.
type VisualType string

const (
	VisualSolid  VisualType = "Solid"
	VisualHollow VisualType = "Hollow"
	VisualDash   VisualType = "Dash"
	VisualNone   VisualType = "None"
)

// EmploymentStatus labels a staff member's engagement type. Informational only.
type EmploymentStatus string

const (
	StatusPermanent EmploymentStatus = "Permanent"
	StatusCasual    EmploymentStatus = "Casual"
)

// Rotation is a repeating on/off day pattern anchored at a calendar date.
type Rotation struct {
	CycleStart time.Time
	PatternOn  int
	PatternOff int
}

// CycleLength returns the period of the rotation in days.
func (r Rotation) CycleLength() int {
	return r.PatternOn + r.PatternOff
}

// Valid reports whether the rotation can drive shift derivation.
// A zero-length cycle would make the day-in-cycle computation undefined.
func (r Rotation) Valid() bool {
	return r.PatternOn >= 0 && r.PatternOff >= 0 && r.CycleLength() >= 1
}

// StaffMember models one roster participant and their rotation.
type StaffMember struct {
	ID           string
	Name         string
	Role         string
	Status       EmploymentStatus
	DefaultShift ShiftType
	Rotation     Rotation
	DisplayOrder int
	Active       bool
	Overrides    []ShiftOverride
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// OverrideFor returns the override for the given canonical date, or nil.
// At most one override per date is enforced on write; the first match wins.
func (s *StaffMember) OverrideFor(date string) *ShiftOverride {
	for i := range s.Overrides {
		if s.Overrides[i].Date == date {
			return &s.Overrides[i]
		}
	}
	return nil
}
