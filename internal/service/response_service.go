package service

import "time"

// LogFilter supports history filtering by time range, type and count.
type LogFilter struct {
	From  time.Time // inclusive; zero means no lower bound
	To    time.Time // inclusive; zero means no upper bound
	Type  string    // "", "ATTACH", "DETACH", "HEALTH_CHANGE", "MODE_CHANGE"
	Limit int       // most recent N; 0 means MaxLogLimit
}

// AuthSettings configures token issuing.
type AuthSettings struct {
	SigningKey string
	TokenTTL   time.Duration
}
