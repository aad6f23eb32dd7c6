// Package metrics exposes console session and link health as Prometheus series.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"teleop_console/internal/models"
)

const namespace = "teleop"

// Collector owns the console series and the registry they live in.
type Collector struct {
	registry *prometheus.Registry

	healthLevel    prometheus.Gauge
	elapsedSeconds prometheus.Gauge
	demoMode       prometheus.Gauge
	attached       *prometheus.GaugeVec
	deviceEvents   *prometheus.CounterVec
	activity       *prometheus.CounterVec
}

func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		healthLevel: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "link_health_level",
			Help:      "Command link health: 0=GOOD, 1=WARN, 2=LOST.",
		}),
		elapsedSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "link_seconds_since_activity",
			Help:      "Seconds since the last command activity at the last evaluation.",
		}),
		demoMode: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "link_demo_mode",
			Help:      "1 when the health monitor is fed by synthetic pulses.",
		}),
		attached: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "controllers_attached",
			Help:      "Attached controllers per role.",
		}, []string{"role"}),
		deviceEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "device_events_total",
			Help:      "Gamepad attach/detach notifications processed, by type and resulting role.",
		}, []string{"type", "role"}),
		activity: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "link_activity_total",
			Help:      "Activity signals accepted by the health monitor, by source.",
		}, []string{"source"}),
	}

	c.registry.MustRegister(
		c.healthLevel,
		c.elapsedSeconds,
		c.demoMode,
		c.attached,
		c.deviceEvents,
		c.activity,
	)
	return c
}

// Registry returns the registry backing Handler.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) SetHealth(level models.HealthLevel, elapsedSeconds float64) {
	c.healthLevel.Set(float64(level))
	c.elapsedSeconds.Set(elapsedSeconds)
}

func (c *Collector) SetMode(mode models.HealthMode) {
	if mode == models.ModeDemo {
		c.demoMode.Set(1)
		return
	}
	c.demoMode.Set(0)
}

func (c *Collector) SetAttached(drive, arm int) {
	c.attached.WithLabelValues(string(models.RoleDrive)).Set(float64(drive))
	c.attached.WithLabelValues(string(models.RoleArm)).Set(float64(arm))
}

func (c *Collector) ObserveDeviceEvent(eventType string, role models.Role) {
	c.deviceEvents.WithLabelValues(eventType, string(role)).Inc()
}

func (c *Collector) ObserveActivity(mode models.HealthMode) {
	c.activity.WithLabelValues(string(mode)).Inc()
}
