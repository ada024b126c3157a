package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"temp_compliance/internal/service"

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

	wsTypeSnapshot = "snapshot"
)

// Envelope used for WebSocket messages.
type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// Upgrader for HTTP -> WebSocket. Kitchen displays connect from any origin.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// @Summary      Live cooldown countdown
// @Description  Upgrades to a WebSocket and pushes {"type":"snapshot","data":CoolingSnapshot} every interval (?interval=2s or ?interval_ms=2000, max 10s).
// @Tags         cooldowns
// @Param        id           path   string  true   "Cooldown ID"
// @Param        interval     query  string  false  "Push interval, Go duration"  example(1s)
// @Param        interval_ms  query  int     false  "Push interval in milliseconds"
// @Success      101  {string}  string  "switching protocols"
// @Failure      404  {object}  map[string]string
// @Router       /ws/cooldowns/{id} [get]
func (h *Handler) wsCooldown(c *gin.Context) {
	id := c.Param("id")
	interval := h.parseInterval(c)

	// Resolve the cooldown before upgrading so a bad id gets a plain 404.
	if _, err := h.services.Cooling.CooldownSnapshot(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": errNotFound})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errInternal, "ws_snapshot_failed", err, "cooldown_id", id)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err, "cooldown_id", id)
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

	ctx := c.Request.Context()
	if err := h.sendSnapshot(ctx, conn, id); err != nil {
		if h.log != nil {
			h.log.Infow("ws_write_failed_initial", "err", err, "cooldown_id", id)
		}
		return
	}

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
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
			if err := h.sendSnapshot(ctx, conn, id); err != nil {
				if h.log != nil {
					h.log.Infow("ws_write_failed", "err", err, "cooldown_id", id)
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

// Helper: sendSnapshot recomputes the countdown at now and writes it with a
// write deadline. A lookup failure is reported to the client before closing.
func (h *Handler) sendSnapshot(ctx context.Context, conn *websocket.Conn, id string) error {
	snap, err := h.services.Cooling.CooldownSnapshot(ctx, id)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_snapshot_failed", "err", err, "cooldown_id", id)
		}
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		_ = conn.WriteJSON(wsEnvelope{Type: wsTypeSnapshot, Error: errInternal})
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(wsEnvelope{Type: wsTypeSnapshot, Data: snap})
}
