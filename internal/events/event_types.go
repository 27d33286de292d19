package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventStaffCreated    EventType = "staff_created"
	EventStaffUpdated    EventType = "staff_updated"
	EventStaffDeleted    EventType = "staff_deleted"
	EventOverrideApplied EventType = "override_applied"
	EventOverrideCleared EventType = "override_cleared"
	EventRosterImported  EventType = "roster_imported"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	StaffID   string      `json:"staff_id,omitempty"`
	ActorID   string      `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// StaffChangedPayload accompanies staff create/update/delete events.
type StaffChangedPayload struct {
	Name       string `json:"name"`
	PatternOn  int    `json:"pattern_on"`
	PatternOff int    `json:"pattern_off"`
}

// OverridePayload accompanies override apply/clear events.
type OverridePayload struct {
	Date      string  `json:"date"`
	IsDayOff  bool    `json:"is_day_off"`
	ShiftType *string `json:"shift_type,omitempty"`
}

// RosterImportedPayload accompanies bulk import events.
type RosterImportedPayload struct {
	Imported int `json:"imported"`
}
