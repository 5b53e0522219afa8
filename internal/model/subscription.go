package model

import (
	"time"
)

const (
	SubscriptionStatusTrial     = "TRIAL"
	SubscriptionStatusActive    = "ACTIVE"
	SubscriptionStatusExpired   = "EXPIRED"
	SubscriptionStatusCancelled = "CANCELLED"
)

type Subscription struct {
	ID               int64     `gorm:"primaryKey" json:"id"`
	VendorID         int64     `gorm:"not null;index" json:"vendor_id"`
	PlanID           int64     `gorm:"not null" json:"plan_id"`
	StartDate        time.Time `gorm:"not null" json:"start_date"`
	EndDate          time.Time `gorm:"not null;index" json:"end_date"`
	Status           string    `gorm:"size:20;default:TRIAL;index" json:"status"` // TRIAL, ACTIVE, EXPIRED, CANCELLED
	PaymentReference string    `gorm:"size:100" json:"payment_reference,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	// 关联
	Plan   *Plan   `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
	Vendor *Vendor `gorm:"foreignKey:VendorID" json:"vendor,omitempty"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
