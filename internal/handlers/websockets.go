package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"teleop_console/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Send/receive timing configuration and message size limits.
const (
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
	maxMsgSize       = 1 << 12 // 4 KB
	defaultInterval  = 1 * time.Second
	maxInterval      = 10 * time.Second
	maxIntervalMilli = 10_000 // 10s in ms

	msgConsole = "console"
	msgAttach  = "attach"
	msgDetach  = "detach"
	msgError   = "error"
)

// Envelope used for WebSocket messages.
type wsEnvelope struct {
	Type  string `json:"type"`
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

// consoleSnapshot is the payload of a "console" message.
type consoleSnapshot struct {
	Controllers ControllersView    `json:"controllers"`
	Health      models.HealthState `json:"health"`
}

// gamepadMessage is what the browser sends on /ws/gamepads.
type gamepadMessage struct {
	Type  string `json:"type"`
	Index *int   `json:"index"`
	ID    string `json:"id"`
}

// TODO: restrict origins once the console is served from a fixed host.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// @Summary      Console stream
// @Description  WebSocket. Pushes {"type":"console","data":{"controllers":...,"health":...}} every interval.
// @Tags         stream
// @Param        interval     query  string  false  "Go duration, max 10s"  example(500ms)
// @Param        interval_ms  query  int     false  "Milliseconds, max 10000"
// @Router       /ws [get]
func (h *Handler) wsConnect(c *gin.Context) {
	interval := h.parseInterval(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	// Configure read limits and pong handler to extend read deadline.
	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// Reader goroutine to handle control frames and detect disconnects.
	done := make(chan struct{})
	go h.startReader(conn, done)

	ticker := time.NewTicker(interval)
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		ping.Stop()
	}()

	if err := h.sendSnapshot(conn); err != nil {
		if h.log != nil {
			h.log.Infow("ws_write_failed_initial", "err", err)
		}
		return
	}

	for {
		select {
		case <-done:
			return
		case <-c.Request.Context().Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				if h.log != nil {
					h.log.Infow("ws_ping_failed", "err", err)
				}
				return
			}
		case <-ticker.C:
			if err := h.sendSnapshot(conn); err != nil {
				if h.log != nil {
					h.log.Infow("ws_write_failed", "err", err)
				}
				return
			}
		}
	}
}

// Helper: parseInterval reads ?interval=2s or ?interval_ms=2000 with bounds.
func (h *Handler) parseInterval(c *gin.Context) time.Duration {
	interval := defaultInterval

	if s := c.Query("interval"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d > 0 && d <= maxInterval {
			return d
		}
	}

	if ms := c.Query("interval_ms"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v > 0 && v <= maxIntervalMilli {
			return time.Duration(v) * time.Millisecond
		}
	}

	return interval
}

// Helper: startReader drains incoming messages to handle control frames and detect closure.
func (h *Handler) startReader(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if h.log != nil {
				h.log.Infow("ws_read_closed", "err", err)
			}
			return
		}
	}
}

func (h *Handler) snapshot() consoleSnapshot {
	return consoleSnapshot{
		Controllers: newControllersView(h.services.Controllers.Registries()),
		Health:      h.services.Health.State(),
	}
}

// Helper: sendSnapshot writes the current console snapshot with a write deadline.
func (h *Handler) sendSnapshot(conn *websocket.Conn) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(wsEnvelope{Type: msgConsole, Data: h.snapshot()})
}

// wsToken reads the bearer token from the Authorization header or, for
// browsers that cannot set headers on a WebSocket, from ?token=.
func wsToken(c *gin.Context) string {
	if token, err := bearerToken(c.GetHeader("Authorization")); err == nil {
		return token
	}
	return c.Query("token")
}

// @Summary      Browser gamepad input
// @Description  WebSocket. Accepts {"type":"attach","index":0,"id":"..."} and {"type":"detach","index":0}. Devices attached over a socket are detached when it closes.
// @Tags         stream
// @Param        token  query  string  true  "Bearer token"
// @Failure      401    {object}  map[string]string
// @Router       /ws/gamepads [get]
func (h *Handler) wsGamepads(c *gin.Context) {
	if _, err := h.services.ParseToken(wsToken(c)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// gorilla allows one concurrent writer
	var writeMu sync.Mutex
	write := func(messageType int, v any) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if v == nil {
			return conn.WriteMessage(messageType, nil)
		}
		return conn.WriteJSON(v)
	}

	stopPing := make(chan struct{})
	defer close(stopPing)
	go func() {
		ping := time.NewTicker(pingPeriod)
		defer ping.Stop()
		for {
			select {
			case <-stopPing:
				return
			case <-ping.C:
				if err := write(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	// devices this socket attached and has not detached; on close only the
	// ones still registered unchanged are released
	claims := map[int]models.ControllerDevice{}
	defer func() {
		released := 0
		for _, dev := range claims {
			if h.releaseDevice(dev) {
				released++
			}
		}
		if h.log != nil && len(claims) > 0 {
			h.log.Infow("ws_gamepads_released", "claimed", len(claims), "released", released)
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if h.log != nil {
				h.log.Infow("ws_read_closed", "err", err)
			}
			return
		}

		var msg gamepadMessage
		var errMsg string
		if err := json.Unmarshal(data, &msg); err != nil {
			errMsg = "malformed message"
		} else {
			errMsg = h.applyGamepadMessage(msg, claims)
		}
		if errMsg != "" {
			if err := write(websocket.TextMessage, wsEnvelope{Type: msgError, Error: errMsg}); err != nil {
				return
			}
		}
	}
}

func (h *Handler) applyGamepadMessage(msg gamepadMessage, claims map[int]models.ControllerDevice) string {
	if msg.Index == nil || *msg.Index < 0 {
		return "index is required and must be >= 0"
	}
	idx := *msg.Index
	switch msg.Type {
	case msgAttach:
		if dev, ok := h.attachDevice(models.AttachEvent{Index: idx, Identifier: msg.ID}); ok {
			claims[idx] = dev
		} else {
			delete(claims, idx)
		}
	case msgDetach:
		h.detachDevice(idx)
		delete(claims, idx)
	default:
		return "unknown message type " + strconv.Quote(msg.Type)
	}
	return ""
}
