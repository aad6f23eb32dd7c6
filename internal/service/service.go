package service

import (
	"context"
	"time"

	"teleop_console/internal/devicebus"
	"teleop_console/internal/logger"
	"teleop_console/internal/models"
	"teleop_console/internal/repository"
)

type Authorization interface {
	SignUp(ctx context.Context, username, password string) (int, error)
	GenerateToken(ctx context.Context, username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Controllers exposes the role registries and the subscription lifecycle.
type Controllers interface {
	Registries() Registries
	Activate() error
	Deactivate()
}

// Health exposes the command link liveness and its configuration.
type Health interface {
	State() models.HealthState
	RecordActivity() bool
	Config() HealthConfig
	SetConfig(cfg HealthConfig) error
	Run(ctx context.Context, tick time.Duration) error
}

// EventLog exposes append-only logs with filtering access.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.ConsoleEvent, error)
}

// DeviceInput is the producer side of the device bus.
type DeviceInput interface {
	PublishAttach(ev models.AttachEvent)
	PublishDetach(ev models.DetachEvent)
}

// Metrics is what the tracker and monitor report to. *metrics.Collector satisfies it.
type Metrics interface {
	SetHealth(level models.HealthLevel, elapsedSeconds float64)
	SetMode(mode models.HealthMode)
	SetAttached(drive, arm int)
	ObserveDeviceEvent(eventType string, role models.Role)
	ObserveActivity(mode models.HealthMode)
}

type eventEmitter interface {
	Emit(ev models.ConsoleEvent)
}

type noopMetrics struct{}

func (noopMetrics) SetHealth(models.HealthLevel, float64) {}
func (noopMetrics) SetMode(models.HealthMode) {}
func (noopMetrics) SetAttached(int, int) {}
func (noopMetrics) ObserveDeviceEvent(string, models.Role) {}
func (noopMetrics) ObserveActivity(models.HealthMode) {}

type discardEvents struct{}

func (discardEvents) Emit(models.ConsoleEvent) {}

// Service aggregates all sub-services.
type Service struct {
	Controllers
	Health
	EventLog
	DeviceInput
	Authorization
}

// Deps are the long-lived collaborators built in main.
type Deps struct {
	Repos      *repository.Repository
	Bus        *devicebus.Bus
	Classifier Classifier
	Thresholds Thresholds
	Health     HealthConfig
	Auth       AuthSettings
	Sink       *EventSink
	Metrics    Metrics
}

func NewService(d Deps, log *logger.Logger) (*Service, error) {
	monitor, err := NewHealthMonitor(d.Thresholds, d.Health, d.Sink, d.Metrics, log.Named("health"))
	if err != nil {
		return nil, err
	}
	return &Service{
		Controllers:   NewControllerTracker(d.Bus, d.Classifier, d.Sink, d.Metrics, log.Named("controllers")),
		Health:        monitor,
		EventLog:      NewEventLogService(d.Repos.EventRepo),
		DeviceInput:   d.Bus,
		Authorization: NewAuthService(d.Repos.Auth, d.Auth),
	}, nil
}
