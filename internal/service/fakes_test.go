package service

import (
	"sync"
	"time"

	"teleop_console/internal/devicebus"
	"teleop_console/internal/models"
)

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, time.March, 3, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// fakeSource records subscribe/unsubscribe pairing.
type fakeSource struct {
	mu           sync.Mutex
	handler      devicebus.Handler
	subscribes   int
	unsubscribes int
	err          error
}

func (s *fakeSource) Subscribe(h devicebus.Handler) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	s.subscribes++
	s.handler = h
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.unsubscribes++
		s.handler = nil
	}, nil
}

// recordingEmitter captures emitted console events.
type recordingEmitter struct {
	mu     sync.Mutex
	events []models.ConsoleEvent
}

func (r *recordingEmitter) Emit(ev models.ConsoleEvent) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

func (r *recordingEmitter) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Type)
	}
	return out
}

// fakeMetrics keeps the last reported values.
type fakeMetrics struct {
	mu           sync.Mutex
	level        models.HealthLevel
	mode         models.HealthMode
	drive, arm   int
	deviceEvents map[string]int
	activity     map[models.HealthMode]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{
		deviceEvents: map[string]int{},
		activity:     map[models.HealthMode]int{},
	}
}

func (m *fakeMetrics) SetHealth(level models.HealthLevel, _ float64) {
	m.mu.Lock()
	m.level = level
	m.mu.Unlock()
}

func (m *fakeMetrics) SetMode(mode models.HealthMode) {
	m.mu.Lock()
	m.mode = mode
	m.mu.Unlock()
}

func (m *fakeMetrics) SetAttached(drive, arm int) {
	m.mu.Lock()
	m.drive, m.arm = drive, arm
	m.mu.Unlock()
}

func (m *fakeMetrics) ObserveDeviceEvent(eventType string, role models.Role) {
	m.mu.Lock()
	m.deviceEvents[eventType+"/"+string(role)]++
	m.mu.Unlock()
}

func (m *fakeMetrics) ObserveActivity(mode models.HealthMode) {
	m.mu.Lock()
	m.activity[mode]++
	m.mu.Unlock()
}

func (m *fakeMetrics) activityCount(mode models.HealthMode) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activity[mode]
}

func (m *fakeMetrics) lastLevel() models.HealthLevel {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.level
}
