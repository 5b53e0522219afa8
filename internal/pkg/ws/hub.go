package ws

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// 事件类型
const (
	EventNewOrder            = "new_order"
	EventOrderStatusUpdate   = "order_status_update"
	EventVendorOrdersRefresh = "vendor_orders_refresh"
)

// VendorRoom 商户看板频道名
func VendorRoom(vendorID int64) string {
	return fmt.Sprintf("vendor_%d", vendorID)
}

// OrderRoom 订单回执频道名
func OrderRoom(orderID int64) string {
	return fmt.Sprintf("order_%d", orderID)
}

type Hub struct {
	// 每个频道可以有多个连接（看板多开、重连等场景），一个连接可加入多个频道
	rooms map[string]map[*Client]struct{}
	mu    sync.RWMutex
}

type Client struct {
	Conn *websocket.Conn
	mu   sync.Mutex // 写锁，防止并发写入
}

// Send 向单个连接发送消息
func (c *Client) Send(msg *Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Conn.WriteMessage(websocket.TextMessage, data)
}

type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

func NewHub() *Hub {
	return &Hub{
		rooms: make(map[string]map[*Client]struct{}),
	}
}

// Join 将连接加入频道。调用方负责先校验准入凭证。
func (h *Hub) Join(client *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Client]struct{})
	}
	h.rooms[room][client] = struct{}{}
	log.Printf("Client joined room %s, room_conns: %d", room, len(h.rooms[room]))
}

// Leave 将连接从所有频道移除
func (h *Hub) Leave(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for room, conns := range h.rooms {
		if _, ok := conns[client]; ok {
			delete(conns, client)
			if len(conns) == 0 {
				delete(h.rooms, room)
			}
		}
	}
}

// Broadcast 向频道内所有连接发送消息
func (h *Hub) Broadcast(room string, msg *Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	h.mu.RLock()
	conns, ok := h.rooms[room]
	if !ok {
		h.mu.RUnlock()
		return nil
	}
	// 复制一份引用，避免长时间持锁
	clients := make([]*Client, 0, len(conns))
	for c := range conns {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.mu.Lock()
		err := c.Conn.WriteMessage(websocket.TextMessage, data)
		c.mu.Unlock()
		if err != nil {
			log.Printf("Broadcast write error for room %s: %v", room, err)
		}
	}
	return nil
}

// RoomSize 频道内连接数
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// ConnectionCount 获取在线连接数（去重）
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	seen := make(map[*Client]struct{})
	for _, conns := range h.rooms {
		for c := range conns {
			seen[c] = struct{}{}
		}
	}
	return len(seen)
}
