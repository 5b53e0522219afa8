package service

import (
	"context"

	"github.com/kartly/kartly_go_server/internal/model"
)

// Notifier 订单事件通知能力。生产实现是 pubsub.Publisher（经 Redis 广播到
// 各实例的 WebSocket Hub），测试里注入假实现。
type Notifier interface {
	PublishNewOrder(ctx context.Context, vendorID int64, order *model.Order) error
	PublishOrderStatusChanged(ctx context.Context, vendorID, orderID int64, status string) error
}
