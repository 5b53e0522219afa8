package dto

import (
	"github.com/kartly/kartly_go_server/internal/model"
)

// OrderItemInput 下单时的单个行项目
type OrderItemInput struct {
	MenuItemID int64   `json:"menu_item_id" binding:"required"`
	Name       string  `json:"name" binding:"required,max=200"`
	Quantity   int     `json:"quantity" binding:"required,min=1"`
	UnitPrice  float64 `json:"unit_price" binding:"required"`
	TotalPrice float64 `json:"total_price" binding:"required"`
}

// CreateOrderRequest 顾客下单请求（扫码页提交的购物车）
type CreateOrderRequest struct {
	Items         []OrderItemInput `json:"items" binding:"required,min=1,dive"`
	Subtotal      float64          `json:"subtotal"`
	TaxAmount     float64          `json:"tax_amount"`
	TotalAmount   float64          `json:"total_amount"`
	CustomerPhone string           `json:"customer_phone,omitempty" binding:"omitempty,max=20"`
}

// CreateOrderResponse 下单响应
type CreateOrderResponse struct {
	OrderID        int64  `json:"order_id"`
	GatewayOrderID string `json:"gateway_order_id"`
	AmountMinor    int64  `json:"amount_minor"` // 最小货币单位（paise/分）
	TokenNumber    int    `json:"token_number"`
	ChannelToken   string `json:"channel_token"` // 订单回执实时频道的准入凭证
}

// UpdateOrderStatusRequest 商户更新订单状态请求
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// OrderReceipt 顾客回执页数据
type OrderReceipt struct {
	Order        *model.Order       `json:"order"`
	Vendor       *ReceiptVendorInfo `json:"vendor"`
	ChannelToken string             `json:"channel_token"`
}

// ReceiptVendorInfo 回执上展示的商户信息
type ReceiptVendorInfo struct {
	ShopName string `json:"shop_name"`
	Name     string `json:"name"`
}
