package service

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"teleop_console/internal/devicebus"
	"teleop_console/internal/logger"
	"teleop_console/internal/models"
)

// Default identifier tokens. Browsers report mapped pads as "... (STANDARD GAMEPAD ...)"
// and the Logitech flight stick used for the arm as "Extreme 3D pro".
const (
	DefaultDriveToken = "standard"
	DefaultArmToken   = "extreme"
)

var ErrTrackerActive = errors.New("controller tracker is already subscribed to a device source")

// Classifier maps a device identifier to a role by case-insensitive token
// match. The drive token is checked first, so an identifier containing both
// tokens is a drive controller.
type Classifier struct {
	driveToken string
	armToken   string
}

func NewClassifier(driveToken, armToken string) Classifier {
	return Classifier{
		driveToken: strings.ToLower(strings.TrimSpace(driveToken)),
		armToken:   strings.ToLower(strings.TrimSpace(armToken)),
	}
}

func DefaultClassifier() Classifier {
	return NewClassifier(DefaultDriveToken, DefaultArmToken)
}

// Role classifies identifier. Empty or non-matching identifiers are unclassified.
func (c Classifier) Role(identifier string) models.Role {
	id := strings.ToLower(identifier)
	if id == "" {
		return models.RoleUnclassified
	}
	if c.driveToken != "" && strings.Contains(id, c.driveToken) {
		return models.RoleDrive
	}
	if c.armToken != "" && strings.Contains(id, c.armToken) {
		return models.RoleArm
	}
	return models.RoleUnclassified
}

// Device builds the immutable snapshot for an attach notification.
func (c Classifier) Device(ev models.AttachEvent, at time.Time) models.ControllerDevice {
	return models.ControllerDevice{
		Index:      ev.Index,
		Identifier: ev.Identifier,
		Role:       c.Role(ev.Identifier),
		AttachedAt: at.UTC(),
	}
}

// Registries holds the attached controllers per role, keyed by device index.
// An index is present in at most one of the two maps.
type Registries struct {
	Drive map[int]models.ControllerDevice `json:"drive"`
	Arm   map[int]models.ControllerDevice `json:"arm"`
}

func NewRegistries() Registries {
	return Registries{
		Drive: map[int]models.ControllerDevice{},
		Arm:   map[int]models.ControllerDevice{},
	}
}

func (r Registries) clone() Registries {
	out := Registries{
		Drive: make(map[int]models.ControllerDevice, len(r.Drive)),
		Arm:   make(map[int]models.ControllerDevice, len(r.Arm)),
	}
	for k, v := range r.Drive {
		out.Drive[k] = v
	}
	for k, v := range r.Arm {
		out.Arm[k] = v
	}
	return out
}

// Lookup finds index in either registry.
func (r Registries) Lookup(index int) (models.ControllerDevice, bool) {
	if d, ok := r.Drive[index]; ok {
		return d, true
	}
	d, ok := r.Arm[index]
	return d, ok
}

// ApplyAttach returns r with dev registered under its role. Any previous entry
// for dev.Index is dropped first, whatever its role. Unclassified devices end
// up in neither registry. r is not modified.
func ApplyAttach(r Registries, dev models.ControllerDevice) Registries {
	next := r.clone()
	delete(next.Drive, dev.Index)
	delete(next.Arm, dev.Index)

	switch dev.Role {
	case models.RoleDrive:
		next.Drive[dev.Index] = dev
	case models.RoleArm:
		next.Arm[dev.Index] = dev
	}
	return next
}

// ApplyDetach returns r without ev.Index in either registry. r is not modified.
func ApplyDetach(r Registries, ev models.DetachEvent) Registries {
	next := r.clone()
	delete(next.Drive, ev.Index)
	delete(next.Arm, ev.Index)
	return next
}

// ControllerTracker keeps the role registries in step with a device source.
type ControllerTracker struct {
	source     devicebus.Source
	classifier Classifier
	clock      func() time.Time
	events     eventEmitter
	metrics    Metrics
	log        *logger.Logger

	// lifeMu orders Activate/Deactivate. It is never held while mu is.
	lifeMu      sync.Mutex
	unsubscribe func()

	mu   sync.Mutex
	regs Registries
}

var _ devicebus.Handler = (*ControllerTracker)(nil)

func NewControllerTracker(source devicebus.Source, classifier Classifier, events eventEmitter, metrics Metrics, log *logger.Logger) *ControllerTracker {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if events == nil {
		events = discardEvents{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ControllerTracker{
		source:     source,
		classifier: classifier,
		clock:      time.Now,
		events:     events,
		metrics:    metrics,
		log:        log,
		regs:       NewRegistries(),
	}
}

// Activate subscribes to the device source. It must be paired with exactly
// one Deactivate; a second Activate returns ErrTrackerActive.
func (t *ControllerTracker) Activate() error {
	t.lifeMu.Lock()
	defer t.lifeMu.Unlock()

	if t.unsubscribe != nil {
		return ErrTrackerActive
	}
	unsub, err := t.source.Subscribe(t)
	if err != nil {
		return fmt.Errorf("subscribe to device source: %w", err)
	}
	t.unsubscribe = unsub
	t.log.Infow("controller_tracker_activated")
	return nil
}

// Deactivate releases the subscription. Calling it while inactive is a no-op.
func (t *ControllerTracker) Deactivate() {
	t.lifeMu.Lock()
	defer t.lifeMu.Unlock()

	if t.unsubscribe == nil {
		return
	}
	t.unsubscribe()
	t.unsubscribe = nil
	t.log.Infow("controller_tracker_deactivated")
}

// HandleAttach applies an attach notification.
func (t *ControllerTracker) HandleAttach(ev models.AttachEvent) {
	dev := t.classifier.Device(ev, t.clock())

	t.mu.Lock()
	prev, replaced := t.regs.Lookup(ev.Index)
	t.regs = ApplyAttach(t.regs, dev)
	drive, arm := len(t.regs.Drive), len(t.regs.Arm)
	t.mu.Unlock()

	t.metrics.SetAttached(drive, arm)
	t.metrics.ObserveDeviceEvent(models.EventAttach, dev.Role)

	if dev.Role == models.RoleUnclassified {
		t.log.Debugw("controller_unclassified", "index", dev.Index, "id", dev.Identifier)
	} else {
		t.log.Infow("controller_attached", "index", dev.Index, "id", dev.Identifier, "role", dev.Role)
	}

	meta := map[string]any{"index": dev.Index, "id": dev.Identifier, "role": dev.Role}
	if replaced {
		meta["replaced_role"] = prev.Role
	}
	t.events.Emit(models.ConsoleEvent{
		OccurredAt:  dev.AttachedAt,
		Type:        models.EventAttach,
		Description: fmt.Sprintf("controller %d attached as %s", dev.Index, dev.Role),
		Metadata:    meta,
	})
}

// HandleDetach removes ev.Index from both registries. Unknown indexes are a no-op
// for the registries but still logged.
func (t *ControllerTracker) HandleDetach(ev models.DetachEvent) {
	t.mu.Lock()
	prev, known := t.regs.Lookup(ev.Index)
	t.regs = ApplyDetach(t.regs, ev)
	drive, arm := len(t.regs.Drive), len(t.regs.Arm)
	t.mu.Unlock()

	role := models.RoleUnclassified
	if known {
		role = prev.Role
	}
	t.metrics.SetAttached(drive, arm)
	t.metrics.ObserveDeviceEvent(models.EventDetach, role)
	t.log.Infow("controller_detached", "index", ev.Index, "role", role, "known", known)

	t.events.Emit(models.ConsoleEvent{
		OccurredAt:  t.clock().UTC(),
		Type:        models.EventDetach,
		Description: fmt.Sprintf("controller %d detached", ev.Index),
		Metadata:    map[string]any{"index": ev.Index, "role": role, "known": known},
	})
}

// Registries returns a copy of the current registries.
func (t *ControllerTracker) Registries() Registries {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.regs.clone()
}
