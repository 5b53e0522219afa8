package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/kartly/kartly_go_server/internal/model"
)

const (
	ChannelOrderEvents = "order_events"
)

// 事件类型
const (
	TypeNewOrder          = "new_order"
	TypeOrderStatusUpdate = "order_status_update"
)

// OrderEventMessage 订单事件，经 Redis 发布，由 API 进程桥接到 WebSocket Hub。
// 走 Redis 而不是进程内直调，多实例部署时每个实例都能收到并转发给自己的连接。
type OrderEventMessage struct {
	Type        string       `json:"type"`
	VendorID    int64        `json:"vendor_id"`
	OrderID     int64        `json:"order_id"`
	OrderStatus string       `json:"order_status,omitempty"`
	Order       *model.Order `json:"order,omitempty"`
}

// Publisher Redis 发布者
type Publisher struct {
	client *redis.Client
}

// NewPublisher 创建发布者
func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

// PublishNewOrder 发布新订单事件（支付成功后推给商户看板）
func (p *Publisher) PublishNewOrder(ctx context.Context, vendorID int64, order *model.Order) error {
	return p.publish(ctx, &OrderEventMessage{
		Type:     TypeNewOrder,
		VendorID: vendorID,
		OrderID:  order.ID,
		Order:    order,
	})
}

// PublishOrderStatusChanged 发布订单状态变更事件
func (p *Publisher) PublishOrderStatusChanged(ctx context.Context, vendorID, orderID int64, status string) error {
	return p.publish(ctx, &OrderEventMessage{
		Type:        TypeOrderStatusUpdate,
		VendorID:    vendorID,
		OrderID:     orderID,
		OrderStatus: status,
	})
}

func (p *Publisher) publish(ctx context.Context, msg *OrderEventMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}
	return p.client.Publish(ctx, ChannelOrderEvents, data).Err()
}

// Subscriber Redis 订阅者
type Subscriber struct {
	client *redis.Client
}

// NewSubscriber 创建订阅者
func NewSubscriber(client *redis.Client) *Subscriber {
	return &Subscriber{client: client}
}

// Subscribe 订阅订单事件
func (s *Subscriber) Subscribe(ctx context.Context, handler func(*OrderEventMessage)) error {
	pubsub := s.client.Subscribe(ctx, ChannelOrderEvents)
	defer pubsub.Close()

	ch := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}

			var event OrderEventMessage
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				continue // 忽略解析错误
			}

			handler(&event)
		}
	}
}
