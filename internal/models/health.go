package models

import (
	"fmt"
	"time"
)

// HealthLevel is the link liveness severity. Higher values are more severe.
type HealthLevel int

const (
	HealthGood HealthLevel = iota
	HealthWarn
	HealthLost
)

func (l HealthLevel) String() string {
	switch l {
	case HealthGood:
		return "GOOD"
	case HealthWarn:
		return "WARN"
	case HealthLost:
		return "LOST"
	default:
		return "UNKNOWN"
	}
}

// MarshalText renders the level as GOOD | WARN | LOST in JSON.
func (l HealthLevel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText parses GOOD | WARN | LOST.
func (l *HealthLevel) UnmarshalText(b []byte) error {
	switch string(b) {
	case "GOOD":
		*l = HealthGood
	case "WARN":
		*l = HealthWarn
	case "LOST":
		*l = HealthLost
	default:
		return fmt.Errorf("unknown health level %q", string(b))
	}
	return nil
}

// HealthMode tells which activity source feeds LastActivityAt.
type HealthMode string

const (
	ModeLive HealthMode = "live"
	ModeDemo HealthMode = "demo"
)

// HealthState is the current liveness snapshot of the command link.
type HealthState struct {
	Level          HealthLevel `json:"level"`
	LastActivityAt time.Time   `json:"last_activity_at"`
	Mode           HealthMode  `json:"mode"`
	DemoPeriodMs   int64       `json:"demo_period_ms,omitempty"` // only meaningful in demo mode
	ElapsedMs      int64       `json:"elapsed_ms"`
}
