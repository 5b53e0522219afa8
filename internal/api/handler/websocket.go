package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/kartly/kartly_go_server/internal/pkg/jwt"
	"github.com/kartly/kartly_go_server/internal/pkg/ws"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// TODO: 生产环境需要验证 Origin
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// joinMessage 客户端加入频道的请求。token 是签名过的频道准入凭证，
// 凭证的作用域和 ID 必须与要加入的频道一致。
type joinMessage struct {
	Type     string `json:"type"` // join_room / join_order_room
	VendorID int64  `json:"vendor_id,omitempty"`
	OrderID  int64  `json:"order_id,omitempty"`
	Token    string `json:"token"`
}

type WebSocketHandler struct {
	hub       *ws.Hub
	jwtSecret string
}

func NewWebSocketHandler(hub *ws.Hub, jwtSecret string) *WebSocketHandler {
	return &WebSocketHandler{
		hub:       hub,
		jwtSecret: jwtSecret,
	}
}

// Handle WebSocket 连接处理。连接先升级，之后通过 join 消息加入频道，
// 没有合法凭证的 join 一律拒绝。
// GET /api/ws
func (h *WebSocketHandler) Handle(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}

	client := &ws.Client{Conn: conn}

	go func() {
		defer func() {
			h.hub.Leave(client)
			conn.Close()
		}()

		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}

			var msg joinMessage
			if err := json.Unmarshal(data, &msg); err != nil {
				continue
			}

			h.handleJoin(client, &msg)
		}
	}()
}

func (h *WebSocketHandler) handleJoin(client *ws.Client, msg *joinMessage) {
	switch msg.Type {
	case "join_room":
		claims, err := jwt.ParseChannelToken(msg.Token, h.jwtSecret)
		if err != nil || claims.Scope != jwt.ScopeVendor || claims.RefID != msg.VendorID {
			h.refuse(client, "invalid channel token")
			return
		}
		h.hub.Join(client, ws.VendorRoom(msg.VendorID))
	case "join_order_room":
		claims, err := jwt.ParseChannelToken(msg.Token, h.jwtSecret)
		if err != nil || claims.Scope != jwt.ScopeOrder || claims.RefID != msg.OrderID {
			h.refuse(client, "invalid channel token")
			return
		}
		h.hub.Join(client, ws.OrderRoom(msg.OrderID))
	}
}

func (h *WebSocketHandler) refuse(client *ws.Client, reason string) {
	if err := client.Send(&ws.Message{Type: "error", Data: gin.H{"reason": reason}}); err != nil {
		log.Printf("failed to send refusal: %v", err)
	}
}
