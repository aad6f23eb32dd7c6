package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"teleop_console/internal/models"
	"teleop_console/internal/repository"
)

// EventLogService reads the console event history.
type EventLogService struct {
	eventRepo repository.EventRepo
}

func NewEventLogService(eventRepo repository.EventRepo) *EventLogService {
	return &EventLogService{eventRepo: eventRepo}
}

// MaxLogLimit caps how many events one listing may return.
const MaxLogLimit = 1000

var (
	ErrInvalidTimeRange = errors.New("invalid time range: From must be <= To")
	ErrUnknownEventType = errors.New("unknown event type")
	ErrInvalidLimit     = errors.New("limit must be >= 0")
)

var knownEventTypes = map[string]struct{}{
	models.EventAttach:       {},
	models.EventDetach:       {},
	models.EventHealthChange: {},
	models.EventModeChange:   {},
}

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

// normalizeEventType trims spaces and uppercases the event type filter.
func normalizeEventType(s string) string {
	return strings.TrimSpace(strings.ToUpper(s))
}

// buildQuery validates f and turns it into a repository query. Limits above
// MaxLogLimit are clamped; a zero limit becomes MaxLogLimit.
func buildQuery(f LogFilter) (repository.EventQuery, error) {
	q := repository.EventQuery{
		From:  normalizeToUTC(f.From),
		To:    normalizeToUTC(f.To),
		Type:  normalizeEventType(f.Type),
		Limit: f.Limit,
	}

	if !q.From.IsZero() && !q.To.IsZero() && q.From.After(q.To) {
		return repository.EventQuery{}, ErrInvalidTimeRange
	}
	if q.Type != "" {
		if _, ok := knownEventTypes[q.Type]; !ok {
			return repository.EventQuery{}, fmt.Errorf("%w: %q", ErrUnknownEventType, q.Type)
		}
	}
	switch {
	case q.Limit < 0:
		return repository.EventQuery{}, ErrInvalidLimit
	case q.Limit == 0, q.Limit > MaxLogLimit:
		q.Limit = MaxLogLimit
	}
	return q, nil
}

// List returns the events matching f in chronological order.
func (s *EventLogService) List(ctx context.Context, f LogFilter) ([]models.ConsoleEvent, error) {
	q, err := buildQuery(f)
	if err != nil {
		return nil, err
	}
	events, err := s.eventRepo.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list console events: %w", err)
	}
	return events, nil
}
