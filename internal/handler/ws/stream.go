package ws

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"EstatePulse/internal/domain/models"
	domrepo "EstatePulse/internal/domain/repository"
	xlogger "EstatePulse/pkg/logger"
)

const (
	writeWait    = 10 * time.Second
	pingInterval = 30 * time.Second
)

// event is the wire frame pushed to dashboard clients.
type event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub broadcasts refreshed indicator sets to connected dashboard pages.
type Hub struct {
	upgrader websocket.Upgrader
	logger   *xlogger.Logger
	metrics  domrepo.Metrics

	mu      sync.Mutex
	clients map[*websocket.Conn]chan event
}

// NewHub creates a broadcast hub.
func NewHub(logger *xlogger.Logger, metrics domrepo.Metrics) *Hub {
	if metrics == nil {
		metrics = domrepo.NopMetrics{}
	}
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		logger:  logger,
		metrics: metrics,
		clients: make(map[*websocket.Conn]chan event),
	}
}

// RegisterRoutes registers the stream endpoint.
func (h *Hub) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws/dashboard", h.Serve)
}

// Serve upgrades the connection and pumps events until the client leaves.
func (h *Hub) Serve(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	ch := make(chan event, 8)
	h.add(conn, ch)
	h.logger.Debug("stream client connected", xlogger.String("remote", conn.RemoteAddr().String()))

	go h.writeLoop(conn, ch)
	go h.readLoop(conn)
	return nil
}

// NotifyIndicators pushes a refreshed indicator set to all clients.
func (h *Hub) NotifyIndicators(set *models.IndicatorSet) {
	h.broadcast(event{Type: "indicators", Data: set})
}

// Close disconnects all clients.
func (h *Hub) Close() {
	h.mu.Lock()
	for conn, ch := range h.clients {
		close(ch)
		delete(h.clients, conn)
	}
	h.mu.Unlock()
	h.metrics.SetStreamClients(0)
}

func (h *Hub) broadcast(ev event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, ch := range h.clients {
		select {
		case ch <- ev:
		default:
			// slow client: drop it rather than block the broadcaster
			close(ch)
			delete(h.clients, conn)
		}
	}
	h.metrics.SetStreamClients(len(h.clients))
}

func (h *Hub) add(conn *websocket.Conn, ch chan event) {
	h.mu.Lock()
	h.clients[conn] = ch
	n := len(h.clients)
	h.mu.Unlock()
	h.metrics.SetStreamClients(n)
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	if ch, ok := h.clients[conn]; ok {
		close(ch)
		delete(h.clients, conn)
	}
	n := len(h.clients)
	h.mu.Unlock()
	h.metrics.SetStreamClients(n)
	_ = conn.Close()
}

func (h *Hub) writeLoop(conn *websocket.Conn, ch chan event) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage, nil, time.Now().Add(writeWait))
				_ = conn.Close()
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(ev); err != nil {
				h.remove(conn)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.remove(conn)
				return
			}
		}
	}
}

// readLoop drains client frames so pongs and close frames are processed.
func (h *Hub) readLoop(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.remove(conn)
			return
		}
	}
}
