package model

import (
	"time"
)

const (
	PaymentStatusInitiated = "INITIATED"
	PaymentStatusSuccess   = "SUCCESS"
	PaymentStatusFailed    = "FAILED"

	OrderStatusPending   = "Pending"
	OrderStatusPreparing = "Preparing"
	OrderStatusReady     = "Ready"
	OrderStatusCompleted = "Completed"
)

// OrderItem 下单时的行项目快照，之后菜单修改不影响已有订单
type OrderItem struct {
	MenuItemID int64   `json:"menu_item_id"`
	Name       string  `json:"name"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	TotalPrice float64 `json:"total_price"`
}

type Order struct {
	ID            int64      `gorm:"primaryKey" json:"id"`
	VendorID      int64      `gorm:"not null;index" json:"vendor_id"`
	TokenNumber   int        `gorm:"not null" json:"token_number"`
	CustomerPhone string     `gorm:"size:20" json:"customer_phone,omitempty"`
	Items         OrderItems `gorm:"type:json" json:"items"`
	Subtotal      float64    `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	TaxAmount     float64    `gorm:"type:decimal(10,2);not null" json:"tax_amount"`
	TotalAmount   float64    `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	PaymentStatus string     `gorm:"size:20;default:INITIATED;index" json:"payment_status"` // INITIATED, SUCCESS, FAILED
	OrderStatus   string     `gorm:"size:20;default:Pending" json:"order_status"`           // Pending, Preparing, Ready, Completed
	CreatedAt     time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (Order) TableName() string {
	return "orders"
}

// ValidOrderStatus 校验订单状态是否为四个枚举值之一
func ValidOrderStatus(status string) bool {
	switch status {
	case OrderStatusPending, OrderStatusPreparing, OrderStatusReady, OrderStatusCompleted:
		return true
	}
	return false
}
