package handlers

import (
	"net/http"
	"sort"

	"teleop_console/internal/models"
	"teleop_console/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	statusOK       = "ok"
	statusAccepted = "accepted"

	errInvalidBodyPref = "invalid body: "
	errNegativeIndex   = "index must be >= 0"
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...any) {
	if h.log != nil && err != nil {
		fields := append([]any{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// ControllersView lists attached controllers per role, ordered by index.
type ControllersView struct {
	Drive []models.ControllerDevice `json:"drive"`
	Arm   []models.ControllerDevice `json:"arm"`
}

func sortedDevices(m map[int]models.ControllerDevice) []models.ControllerDevice {
	out := make([]models.ControllerDevice, 0, len(m))
	for _, d := range m {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

func newControllersView(r service.Registries) ControllersView {
	return ControllersView{Drive: sortedDevices(r.Drive), Arm: sortedDevices(r.Arm)}
}

// AttachRequest announces a connected gamepad.
type AttachRequest struct {
	Index *int   `json:"index" binding:"required" example:"0"`
	ID    string `json:"id" example:"Xbox 360 Controller (XInput STANDARD GAMEPAD)"`
}

// DetachRequest announces a disconnected gamepad.
type DetachRequest struct {
	Index *int `json:"index" binding:"required" example:"0"`
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      List attached controllers
// @Tags         controllers
// @Produce      json
// @Success      200  {object}  ControllersView
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/controllers [get]
// @Security     BearerAuth
func (h *Handler) getControllers(c *gin.Context) {
	c.JSON(http.StatusOK, newControllersView(h.services.Controllers.Registries()))
}

// @Summary      Attach controller
// @Description  Publishes an attach notification on the device bus. The device is classified by its id.
// @Tags         controllers
// @Accept       json
// @Produce      json
// @Param        body  body      AttachRequest  true  "Attach payload"
// @Success      202   {object}  map[string]interface{}  "status, controllers"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/v1/controllers/attach [post]
// @Security     BearerAuth
func (h *Handler) attachController(c *gin.Context) {
	var req AttachRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	if *req.Index < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": errNegativeIndex})
		return
	}
	if h.log != nil {
		h.log.Debugw("controller_attach_requested", "index", *req.Index, "id", req.ID, "operator", operatorID(c))
	}
	h.attachDevice(models.AttachEvent{Index: *req.Index, Identifier: req.ID})
	h.respondWithControllers(c)
}

// @Summary      Detach controller
// @Tags         controllers
// @Accept       json
// @Produce      json
// @Param        body  body      DetachRequest  true  "Detach payload"
// @Success      202   {object}  map[string]interface{}  "status, controllers"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/v1/controllers/detach [post]
// @Security     BearerAuth
func (h *Handler) detachController(c *gin.Context) {
	var req DetachRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	if *req.Index < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": errNegativeIndex})
		return
	}
	if h.log != nil {
		h.log.Debugw("controller_detach_requested", "index", *req.Index, "operator", operatorID(c))
	}
	h.detachDevice(*req.Index)
	h.respondWithControllers(c)
}

// The bus dispatches synchronously, so the registries already reflect the event.
func (h *Handler) respondWithControllers(c *gin.Context) {
	c.JSON(http.StatusAccepted, gin.H{
		"status":      statusAccepted,
		"controllers": newControllersView(h.services.Controllers.Registries()),
	})
}

// attachDevice publishes an attach and returns the device now registered at
// that index. ok is false for unclassified devices.
func (h *Handler) attachDevice(ev models.AttachEvent) (models.ControllerDevice, bool) {
	h.inputMu.Lock()
	defer h.inputMu.Unlock()
	h.services.PublishAttach(ev)
	return h.services.Controllers.Registries().Lookup(ev.Index)
}

func (h *Handler) detachDevice(index int) {
	h.inputMu.Lock()
	defer h.inputMu.Unlock()
	h.services.PublishDetach(models.DetachEvent{Index: index})
}

// releaseDevice detaches dev only while it is still the device registered at
// dev.Index. It reports whether a detach was published.
func (h *Handler) releaseDevice(dev models.ControllerDevice) bool {
	h.inputMu.Lock()
	defer h.inputMu.Unlock()
	cur, ok := h.services.Controllers.Registries().Lookup(dev.Index)
	if !ok || !cur.SameConnection(dev) {
		return false
	}
	h.services.PublishDetach(models.DetachEvent{Index: dev.Index})
	return true
}
