package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func TestNewHub(t *testing.T) {
	hub := NewHub()

	assert.NotNil(t, hub)
	assert.NotNil(t, hub.rooms)
	assert.Equal(t, 0, hub.ConnectionCount())
}

func TestRoomNames(t *testing.T) {
	assert.Equal(t, "vendor_42", VendorRoom(42))
	assert.Equal(t, "order_1001", OrderRoom(1001))
}

func TestHub_JoinLeave(t *testing.T) {
	hub := NewHub()
	client := &Client{}

	hub.Join(client, VendorRoom(1))
	hub.Join(client, OrderRoom(7))

	assert.Equal(t, 1, hub.RoomSize(VendorRoom(1)))
	assert.Equal(t, 1, hub.RoomSize(OrderRoom(7)))
	// Same client in two rooms counts once
	assert.Equal(t, 1, hub.ConnectionCount())

	hub.Leave(client)
	assert.Equal(t, 0, hub.RoomSize(VendorRoom(1)))
	assert.Equal(t, 0, hub.RoomSize(OrderRoom(7)))
	assert.Equal(t, 0, hub.ConnectionCount())
}

func TestHub_Broadcast_EmptyRoom(t *testing.T) {
	hub := NewHub()

	// Broadcasting to a room nobody joined is a no-op, not an error
	err := hub.Broadcast(VendorRoom(99), &Message{Type: EventNewOrder})
	assert.NoError(t, err)
}

func TestHub_WithRealWebSocket(t *testing.T) {
	hub := NewHub()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Logf("upgrade error: %v", err)
			return
		}

		client := &Client{Conn: conn}
		hub.Join(client, VendorRoom(100))

		// Keep connection open for a bit
		time.Sleep(200 * time.Millisecond)

		hub.Leave(client)
		conn.Close()
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// Wait for the server side to join the room
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, hub.RoomSize(VendorRoom(100)))

	err = hub.Broadcast(VendorRoom(100), &Message{
		Type: EventNewOrder,
		Data: map[string]interface{}{"order_id": 1},
	})
	require.NoError(t, err)

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg Message
	require.NoError(t, json.Unmarshal(raw, &msg))
	assert.Equal(t, EventNewOrder, msg.Type)
}
