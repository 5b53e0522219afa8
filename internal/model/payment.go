package model

import (
	"time"
)

const (
	PaymentCreated = "CREATED"
	PaymentSuccess = "SUCCESS"
	PaymentFailed  = "FAILED"
)

// Payment 与 Order 一一对应，只由 webhook 对账路径修改
type Payment struct {
	ID               int64     `gorm:"primaryKey" json:"id"`
	VendorID         int64     `gorm:"not null;index" json:"vendor_id"`
	OrderID          int64     `gorm:"not null;index" json:"order_id"`
	GatewayOrderID   string    `gorm:"size:100;index" json:"gateway_order_id"`
	GatewayPaymentID string    `gorm:"size:100" json:"gateway_payment_id,omitempty"`
	Amount           float64   `gorm:"type:decimal(10,2);not null" json:"amount"`
	Status           string    `gorm:"size:20;default:CREATED;index" json:"status"` // CREATED, SUCCESS, FAILED
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (Payment) TableName() string {
	return "payments"
}
