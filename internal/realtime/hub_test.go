package realtime

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"clinic-backoffice/internal/events"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, hub *Hub) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Serve(conn, 7)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHubForwardsBusEvents(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	bus := events.NewBus(log)
	hub := NewHub(log)
	require.NoError(t, hub.Attach(bus))
	defer hub.Close()

	srv := newTestServer(t, hub)
	conn := dial(t, srv)

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	bus.Publish(events.SaleCreated, map[string]int64{"id": 42})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var got struct {
		Event   string           `json:"event"`
		Payload map[string]int64 `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, events.SaleCreated, got.Event)
	assert.Equal(t, int64(42), got.Payload["id"])
}

func TestHubUnregistersClosedClients(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	hub := NewHub(log)
	srv := newTestServer(t, hub)
	conn := dial(t, srv)

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()

	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHubDropsSlowClients(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	hub := NewHub(log)
	c := &client{hub: hub, send: make(chan []byte, 1), userID: 1}
	hub.clients[c] = struct{}{}

	hub.Broadcast(events.Event{Name: events.ProductUpdated})
	assert.Equal(t, 1, hub.ClientCount())

	hub.Broadcast(events.Event{Name: events.ProductUpdated})
	assert.Equal(t, 0, hub.ClientCount())
}
