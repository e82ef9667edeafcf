package ws

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"EstatePulse/internal/domain/models"
	xlogger "EstatePulse/pkg/logger"
)

func newHubServer(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	log, err := xlogger.New(&xlogger.Config{Level: "error", Format: "json", Output: "stderr"})
	require.NoError(t, err)

	hub := NewHub(log, nil)
	e := echo.New()
	hub.RegisterRoutes(e)

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	t.Cleanup(hub.Close)
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/dashboard"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestHubBroadcastsIndicatorUpdates(t *testing.T) {
	hub, srv := newHubServer(t)
	conn := dial(t, srv)

	v := 4.5
	set := &models.IndicatorSet{PolicyRate: &v}

	// connection registration races the broadcast, retry briefly
	go func() {
		for i := 0; i < 20; i++ {
			hub.NotifyIndicators(set)
			time.Sleep(10 * time.Millisecond)
		}
	}()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	var ev struct {
		Type string              `json:"type"`
		Data models.IndicatorSet `json:"data"`
	}
	require.NoError(t, json.Unmarshal(payload, &ev))
	assert.Equal(t, "indicators", ev.Type)
	require.NotNil(t, ev.Data.PolicyRate)
	assert.Equal(t, 4.5, *ev.Data.PolicyRate)
}

func TestHubSupportsMultipleClients(t *testing.T) {
	hub, srv := newHubServer(t)
	a := dial(t, srv)
	b := dial(t, srv)

	v := 2.8
	go func() {
		for i := 0; i < 20; i++ {
			hub.NotifyIndicators(&models.IndicatorSet{InflationRate: &v})
			time.Sleep(10 * time.Millisecond)
		}
	}()

	for _, conn := range []*websocket.Conn{a, b} {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, payload, err := conn.ReadMessage()
		require.NoError(t, err)
		assert.Contains(t, string(payload), "indicators")
	}
}

func TestHubCloseDisconnectsClients(t *testing.T) {
	hub, srv := newHubServer(t)
	conn := dial(t, srv)

	// wait until the hub has registered the connection
	require.Eventually(t, func() bool {
		hub.mu.Lock()
		defer hub.mu.Unlock()
		return len(hub.clients) == 1
	}, time.Second, 10*time.Millisecond)

	hub.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}
