package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/abira1/Toi-Task/internal/dto"
	"github.com/abira1/Toi-Task/internal/logger"
	"github.com/abira1/Toi-Task/internal/projector"
	"github.com/abira1/Toi-Task/internal/realtime"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// FeedHandler streams the derived feed over WebSocket: a full
// snapshot on connect and after every change event. Clients replace
// their state wholesale on each frame; there is no patching protocol.
type FeedHandler struct {
	projector *projector.Projector
	bus       *realtime.Bus
	upgrader  websocket.Upgrader
	log       *logger.Logger
}

func NewFeedHandler(p *projector.Projector, bus *realtime.Bus, allowedOrigins []string, log *logger.Logger) *FeedHandler {
	return &FeedHandler{
		projector: p,
		bus:       bus,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return originAllowed(allowedOrigins, r.Header.Get("Origin"))
			},
		},
		log: log,
	}
}

// originAllowed checks the Origin header against the configured list.
// An empty list permits any origin; browsers always send the header on
// cross-origin WebSocket handshakes, and non-browser clients omit it.
func originAllowed(allowed []string, origin string) bool {
	if len(allowed) == 0 || origin == "" {
		return true
	}
	for _, a := range allowed {
		if strings.EqualFold(a, origin) {
			return true
		}
	}
	return false
}

const feedPingInterval = 25 * time.Second

// Stream upgrades the connection and republishes the derived view on
// every remote change. Runs behind RequireAuth: without an authorized
// identity no subscription is ever opened.
func (h *FeedHandler) Stream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("feed upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	taskCh, cancelTasks := h.bus.Subscribe(realtime.CollectionTasks)
	defer cancelTasks()
	memberCh, cancelMembers := h.bus.Subscribe(realtime.CollectionTeamMembers)
	defer cancelMembers()

	// Reader loop only watches for the peer going away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := h.writeSnapshot(conn); err != nil {
		return
	}

	ticker := time.NewTicker(feedPingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-c.Request.Context().Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				return
			}
		case <-taskCh:
			if err := h.writeSnapshot(conn); err != nil {
				return
			}
		case <-memberCh:
			if err := h.writeSnapshot(conn); err != nil {
				return
			}
		}
	}
}

// writeSnapshot pushes the current derived view. When the last
// refresh failed, the stale view still goes out, followed by an error
// frame the client can show as a dismissible banner.
func (h *FeedHandler) writeSnapshot(conn *websocket.Conn) error {
	snapshot := dto.FeedSnapshot{
		Type:        "snapshot",
		Tasks:       h.projector.Tasks(),
		TeamMembers: h.projector.Members(),
	}
	if err := conn.WriteJSON(snapshot); err != nil {
		return err
	}
	if refreshErr := h.projector.Err(); refreshErr != nil {
		return conn.WriteJSON(dto.FeedError{
			Type:  "error",
			Error: "Live updates are degraded; showing last known data",
		})
	}
	return nil
}
