package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"teleop_console/internal/logger"
	"teleop_console/internal/models"
)

var (
	ErrMonitorRunning    = errors.New("health monitor is already running")
	ErrInvalidDemoPeriod = errors.New("demo period must be greater than zero and at most one hour")
	ErrInvalidThresholds = errors.New("thresholds must satisfy 0 < warn < lost")
	ErrInvalidTick       = errors.New("evaluation tick must be greater than zero")
)

// Thresholds is the liveness ladder: elapsed time below Warn is GOOD, below
// Lost is WARN, anything else is LOST.
type Thresholds struct {
	Warn time.Duration
	Lost time.Duration
}

var DefaultThresholds = Thresholds{Warn: 3 * time.Second, Lost: 10 * time.Second}

func (t Thresholds) Validate() error {
	if t.Warn <= 0 || t.Warn >= t.Lost {
		return ErrInvalidThresholds
	}
	return nil
}

// ClassifyLevel maps elapsed time since the last activity to a level.
// Negative elapsed (clock skew) counts as fresh.
func ClassifyLevel(elapsed time.Duration, t Thresholds) models.HealthLevel {
	switch {
	case elapsed < t.Warn:
		return models.HealthGood
	case elapsed < t.Lost:
		return models.HealthWarn
	default:
		return models.HealthLost
	}
}

// ActivitySource says where activity comes from: LiveSource or DemoSource.
type ActivitySource interface {
	Mode() models.HealthMode
	isActivitySource()
}

// LiveSource takes activity from real command-sent signals.
type LiveSource struct{}

func (LiveSource) Mode() models.HealthMode { return models.ModeLive }
func (LiveSource) isActivitySource()       {}

// DemoSource synthesises activity every Period.
type DemoSource struct {
	Period time.Duration
}

func (DemoSource) Mode() models.HealthMode { return models.ModeDemo }
func (DemoSource) isActivitySource()       {}

// MaxDemoPeriod bounds the synthetic pulse period. Anything slower than the
// LOST window is already a permanently lost link.
const MaxDemoPeriod = time.Hour

// HealthConfig is the operator-editable part of the monitor.
type HealthConfig struct {
	DemoMode   bool
	DemoPeriod time.Duration
}

// SourceFor validates cfg and returns the matching source. The period is
// checked in live mode too, it is kept for the next switch to demo.
func SourceFor(cfg HealthConfig) (ActivitySource, error) {
	if cfg.DemoPeriod <= 0 || cfg.DemoPeriod > MaxDemoPeriod {
		return nil, ErrInvalidDemoPeriod
	}
	if cfg.DemoMode {
		return DemoSource{Period: cfg.DemoPeriod}, nil
	}
	return LiveSource{}, nil
}

// MonitorOption customises a HealthMonitor.
type MonitorOption func(*HealthMonitor)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) MonitorOption {
	return func(m *HealthMonitor) { m.clock = now }
}

// HealthMonitor tracks command link liveness.
type HealthMonitor struct {
	thresholds Thresholds
	clock      func() time.Time
	events     eventEmitter
	metrics    Metrics
	log        *logger.Logger

	reconfigured chan struct{}
	running      atomic.Bool

	mu             sync.Mutex
	source         ActivitySource
	demoPeriod     time.Duration
	lastActivityAt time.Time
	level          models.HealthLevel
}

func NewHealthMonitor(th Thresholds, cfg HealthConfig, events eventEmitter, metrics Metrics, log *logger.Logger, opts ...MonitorOption) (*HealthMonitor, error) {
	if err := th.Validate(); err != nil {
		return nil, err
	}
	src, err := SourceFor(cfg)
	if err != nil {
		return nil, err
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if events == nil {
		events = discardEvents{}
	}
	if log == nil {
		log = logger.Nop()
	}

	m := &HealthMonitor{
		thresholds:   th,
		clock:        time.Now,
		events:       events,
		metrics:      metrics,
		log:          log,
		reconfigured: make(chan struct{}, 1),
		source:       src,
		demoPeriod:   cfg.DemoPeriod,
		level:        models.HealthGood,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.lastActivityAt = m.clock()

	m.metrics.SetMode(src.Mode())
	m.metrics.SetHealth(models.HealthGood, 0)
	return m, nil
}

// RecordActivity registers a real command-sent signal. It is ignored in demo
// mode; the return value reports whether it was accepted.
func (m *HealthMonitor) RecordActivity() bool {
	return m.touch(models.ModeLive)
}

// Pulse registers a synthetic signal. It is ignored in live mode.
func (m *HealthMonitor) Pulse() bool {
	return m.touch(models.ModeDemo)
}

func (m *HealthMonitor) touch(want models.HealthMode) bool {
	m.mu.Lock()
	if m.source.Mode() != want {
		m.mu.Unlock()
		return false
	}
	now := m.clock()
	m.lastActivityAt = now
	tr := m.evaluateLocked(now)
	m.mu.Unlock()

	m.metrics.ObserveActivity(want)
	m.report(tr)
	return true
}

// Evaluate recomputes the level from the current time and returns it.
func (m *HealthMonitor) Evaluate() models.HealthLevel {
	m.mu.Lock()
	tr := m.evaluateLocked(m.clock())
	m.mu.Unlock()

	m.report(tr)
	return tr.to
}

type transition struct {
	from, to models.HealthLevel
	elapsed  time.Duration
	mode     models.HealthMode
	changed  bool
}

func (m *HealthMonitor) evaluateLocked(now time.Time) transition {
	elapsed := now.Sub(m.lastActivityAt)
	next := ClassifyLevel(elapsed, m.thresholds)
	tr := transition{
		from:    m.level,
		to:      next,
		elapsed: elapsed,
		mode:    m.source.Mode(),
		changed: next != m.level,
	}
	m.level = next
	// gauge writes stay inside the critical section so they land in the
	// same order as the state changes
	m.metrics.SetHealth(next, elapsed.Seconds())
	return tr
}

func (m *HealthMonitor) report(tr transition) {
	if !tr.changed {
		return
	}

	log := m.log.Infow
	if tr.to == models.HealthLost {
		log = m.log.Warnw
	}
	log("health_level_changed", "from", tr.from, "to", tr.to, "elapsed", tr.elapsed, "mode", tr.mode)

	m.events.Emit(models.ConsoleEvent{
		Type:        models.EventHealthChange,
		Description: fmt.Sprintf("link health %s -> %s", tr.from, tr.to),
		Metadata: map[string]any{
			"from":       tr.from.String(),
			"to":         tr.to.String(),
			"elapsed_ms": tr.elapsed.Milliseconds(),
			"mode":       tr.mode,
		},
	})
}

// State returns the health computed at call time.
func (m *HealthMonitor) State() models.HealthState {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock()
	elapsed := now.Sub(m.lastActivityAt)
	st := models.HealthState{
		Level:          ClassifyLevel(elapsed, m.thresholds),
		LastActivityAt: m.lastActivityAt.UTC(),
		Mode:           m.source.Mode(),
		ElapsedMs:      elapsed.Milliseconds(),
	}
	if demo, ok := m.source.(DemoSource); ok {
		st.DemoPeriodMs = demo.Period.Milliseconds()
	}
	return st
}

// Config returns the current mode and demo period.
func (m *HealthMonitor) Config() HealthConfig {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, demo := m.source.(DemoSource)
	return HealthConfig{DemoMode: demo, DemoPeriod: m.demoPeriod}
}

// SetConfig swaps the activity source. lastActivityAt restarts at now and the
// level returns to GOOD, so a switch never reports stale LOST. A running loop
// is told to reschedule its pulse timer. Invalid configs leave state untouched.
func (m *HealthMonitor) SetConfig(cfg HealthConfig) error {
	src, err := SourceFor(cfg)
	if err != nil {
		return err
	}

	m.mu.Lock()
	prevMode, prevPeriod := m.source.Mode(), m.demoPeriod
	prevLevel := m.level
	m.source = src
	m.demoPeriod = cfg.DemoPeriod
	m.lastActivityAt = m.clock()
	m.level = models.HealthGood
	m.metrics.SetMode(src.Mode())
	m.metrics.SetHealth(models.HealthGood, 0)
	m.mu.Unlock()

	select {
	case m.reconfigured <- struct{}{}:
	default:
	}
	m.log.Infow("health_mode_changed",
		"from", prevMode, "to", src.Mode(),
		"demo_period", cfg.DemoPeriod, "prev_demo_period", prevPeriod)

	m.events.Emit(models.ConsoleEvent{
		Type:        models.EventModeChange,
		Description: fmt.Sprintf("activity source %s -> %s", prevMode, src.Mode()),
		Metadata: map[string]any{
			"from":           prevMode,
			"to":             src.Mode(),
			"demo_period_ms": cfg.DemoPeriod.Milliseconds(),
			"prev_level":     prevLevel.String(),
		},
	})
	return nil
}

// demoPulsePeriod reports the pulse period, or 0 when live.
func (m *HealthMonitor) demoPulsePeriod() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	if demo, ok := m.source.(DemoSource); ok {
		return demo.Period
	}
	return 0
}

// Run re-evaluates health every tick and, in demo mode, pulses every demo
// period, until ctx is cancelled. Only one Run may be active at a time.
func (m *HealthMonitor) Run(ctx context.Context, tick time.Duration) error {
	if tick <= 0 {
		return ErrInvalidTick
	}
	if !m.running.CompareAndSwap(false, true) {
		return ErrMonitorRunning
	}
	defer m.running.Store(false)

	eval := time.NewTicker(tick)
	defer eval.Stop()

	var pulse *time.Ticker
	var pulseC <-chan time.Time
	schedulePulse := func() {
		if pulse != nil {
			pulse.Stop()
			pulse, pulseC = nil, nil
		}
		if period := m.demoPulsePeriod(); period > 0 {
			pulse = time.NewTicker(period)
			pulseC = pulse.C
		}
	}
	schedulePulse()
	defer func() {
		if pulse != nil {
			pulse.Stop()
		}
	}()

	m.log.Infow("health_monitor_started", "tick", tick)
	for {
		select {
		case <-ctx.Done():
			m.log.Infow("health_monitor_stopped")
			return nil
		case <-m.reconfigured:
			schedulePulse()
		case <-pulseC:
			m.Pulse()
		case <-eval.C:
			m.Evaluate()
		}
	}
}
