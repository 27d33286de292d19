package domain

import "time"

// ShiftOverride is a manual exception to the computed pattern for one date.
// Date is a canonical YYYY-MM-DD string; times are HH:MM when present.
type ShiftOverride struct {
	StaffID   string
	Date      string
	StartTime *string
	EndTime   *string
	IsDayOff  bool
	ShiftType *ShiftType
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasTimes reports whether the override carries an explicit time window.
func (o *ShiftOverride) HasTimes() bool {
	return o.StartTime != nil && *o.StartTime != "" && o.EndTime != nil && *o.EndTime != ""
}
