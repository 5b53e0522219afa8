package gateway

import (
	"context"
)

// Gateway 支付网关能力接口，业务层依赖它而不是具体实现
type Gateway interface {
	// CreateOrder 在网关侧开立支付单，amountMinor 为最小货币单位
	CreateOrder(ctx context.Context, req *CreateOrderRequest) (*GatewayOrder, error)

	// VerifyWebhookSignature 校验 webhook 签名，必须针对原始请求字节
	VerifyWebhookSignature(payload []byte, signature string) bool
}

// CreateOrderRequest 开立支付单请求
type CreateOrderRequest struct {
	AmountMinor int64  // 最小货币单位（paise/分）
	Currency    string
	Receipt     string // 本地订单号，便于对账
}

// GatewayOrder 网关侧支付单
type GatewayOrder struct {
	ID          string `json:"id"`
	AmountMinor int64  `json:"amount"`
	Currency    string `json:"currency"`
	Receipt     string `json:"receipt"`
	Status      string `json:"status"`
}
