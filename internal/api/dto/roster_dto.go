package dto

// DayResponse describes one calendar day of the grid.
type DayResponse struct {
	Date       string `json:"date"`
	Weekday    string `json:"weekday"`
	DayOfMonth int    `json:"day_of_month"`
}

// SlotResponse is the computed shift state for one (staff, date) cell.
type SlotResponse struct {
	Date       string `json:"date"`
	IsWorking  bool   `json:"is_working"`
	ShiftType  string `json:"shift_type"`
	VisualType string `json:"visual_type"`
	Label      string `json:"label"`
	StartTime  string `json:"start_time,omitempty"`
	EndTime    string `json:"end_time,omitempty"`
}

// RosterRowResponse pairs a staff member with their computed slots.
type RosterRowResponse struct {
	Staff StaffResponse  `json:"staff"`
	Slots []SlotResponse `json:"slots"`
}

// RosterResponse is the calendar grid for a date range.
type RosterResponse struct {
	From         string              `json:"from"`
	To           string              `json:"to"`
	Days         []DayResponse       `json:"days"`
	Rows         []RosterRowResponse `json:"rows"`
	FromSnapshot bool                `json:"from_snapshot"`
}
