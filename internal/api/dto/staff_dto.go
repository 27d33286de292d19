package dto

// StaffRequest payload for staff create/update.
type StaffRequest struct {
	Name         string `json:"name"`
	Role         string `json:"role"`
	Status       string `json:"status"`
	DefaultShift string `json:"default_shift"`
	CycleStart   string `json:"cycle_start"`
	PatternOn    int    `json:"pattern_on"`
	PatternOff   int    `json:"pattern_off"`
	DisplayOrder int    `json:"display_order"`
	Active       *bool  `json:"active,omitempty"`
}

// StaffResponse describes one staff member.
type StaffResponse struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Role         string             `json:"role"`
	Status       string             `json:"status"`
	DefaultShift string             `json:"default_shift"`
	CycleStart   string             `json:"cycle_start"`
	PatternOn    int                `json:"pattern_on"`
	PatternOff   int                `json:"pattern_off"`
	DisplayOrder int                `json:"display_order"`
	Active       bool               `json:"active"`
	Overrides    []OverrideResponse `json:"overrides,omitempty"`
}

// ReorderRequest payload for display-order rewrites.
type ReorderRequest struct {
	IDs []string `json:"ids"`
}

// OverrideRequest payload for manual per-day overrides.
type OverrideRequest struct {
	StartTime *string `json:"start_time,omitempty"`
	EndTime   *string `json:"end_time,omitempty"`
	IsDayOff  bool    `json:"is_day_off"`
	ShiftType *string `json:"shift_type,omitempty"`
}

// OverrideResponse describes one stored override.
type OverrideResponse struct {
	Date      string  `json:"date"`
	StartTime *string `json:"start_time,omitempty"`
	EndTime   *string `json:"end_time,omitempty"`
	IsDayOff  bool    `json:"is_day_off"`
	ShiftType *string `json:"shift_type,omitempty"`
}

// ImportResponse reports a bulk CSV import result.
type ImportResponse struct {
	Imported int `json:"imported"`
}
