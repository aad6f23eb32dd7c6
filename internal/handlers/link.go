package handlers

import (
	"errors"
	"net/http"
	"time"

	"teleop_console/internal/service"

	"github.com/gin-gonic/gin"
)

// LinkConfig is the activity source configuration as seen over HTTP.
type LinkConfig struct {
	DemoMode     bool  `json:"demo_mode" example:"true"`
	DemoPeriodMs int64 `json:"demo_period_ms" example:"2000"`
}

// SetLinkConfigRequest switches the activity source. An omitted
// demo_period_ms keeps the current period.
type SetLinkConfigRequest struct {
	DemoMode     *bool  `json:"demo_mode" binding:"required" example:"true"`
	DemoPeriodMs *int64 `json:"demo_period_ms,omitempty" example:"2000"`
}

func toLinkConfig(cfg service.HealthConfig) LinkConfig {
	return LinkConfig{DemoMode: cfg.DemoMode, DemoPeriodMs: cfg.DemoPeriod.Milliseconds()}
}

// @Summary      Command link health
// @Description  GOOD below the warn window, WARN below the lost window, LOST after.
// @Tags         link
// @Produce      json
// @Success      200  {object}  models.HealthState
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/link/health [get]
// @Security     BearerAuth
func (h *Handler) getLinkHealth(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Health.State())
}

// @Summary      Record command activity
// @Description  Signals that a command was sent over the link. Ignored while demo mode is on.
// @Tags         link
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "accepted, health"
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/link/activity [post]
// @Security     BearerAuth
func (h *Handler) recordActivity(c *gin.Context) {
	accepted := h.services.RecordActivity()
	c.JSON(http.StatusOK, gin.H{
		"accepted": accepted,
		"health":   h.services.Health.State(),
	})
}

// @Summary      Get activity source configuration
// @Tags         link
// @Produce      json
// @Success      200  {object}  LinkConfig
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/link/config [get]
// @Security     BearerAuth
func (h *Handler) getLinkConfig(c *gin.Context) {
	c.JSON(http.StatusOK, toLinkConfig(h.services.Config()))
}

// @Summary      Set activity source configuration
// @Description  Switching mode or period resets the link to GOOD.
// @Tags         link
// @Accept       json
// @Produce      json
// @Param        body  body      SetLinkConfigRequest  true  "Config payload"
// @Success      200   {object}  map[string]interface{}  "config, health"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/link/config [put]
// @Security     BearerAuth
func (h *Handler) setLinkConfig(c *gin.Context) {
	var req SetLinkConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}

	cfg := h.services.Config()
	cfg.DemoMode = *req.DemoMode
	if req.DemoPeriodMs != nil {
		// checked before conversion so large values cannot wrap into range
		if *req.DemoPeriodMs > service.MaxDemoPeriod.Milliseconds() {
			c.JSON(http.StatusBadRequest, gin.H{"error": service.ErrInvalidDemoPeriod.Error()})
			return
		}
		cfg.DemoPeriod = time.Duration(*req.DemoPeriodMs) * time.Millisecond
	}

	if err := h.services.SetConfig(cfg); err != nil {
		if errors.Is(err, service.ErrInvalidDemoPeriod) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to apply config", "link_set_config_failed", err)
		return
	}
	if h.log != nil {
		h.log.Infow("link_config_set", "demo_mode", cfg.DemoMode, "demo_period", cfg.DemoPeriod, "operator", operatorID(c))
	}

	c.JSON(http.StatusOK, gin.H{
		"config": toLinkConfig(h.services.Config()),
		"health": h.services.Health.State(),
	})
}
