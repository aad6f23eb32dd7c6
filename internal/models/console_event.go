package models

import "time"

// Event types written to the console event log.
const (
	EventAttach       = "ATTACH"
	EventDetach       = "DETACH"
	EventHealthChange = "HEALTH_CHANGE"
	EventModeChange   = "MODE_CHANGE"
)

// ConsoleEvent is a single log entry.
type ConsoleEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`        // ATTACH | DETACH | HEALTH_CHANGE | MODE_CHANGE
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}
