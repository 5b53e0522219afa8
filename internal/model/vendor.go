package model

import (
	"time"
)

const (
	VendorStatusActive    = "ACTIVE"
	VendorStatusSuspended = "SUSPENDED"
)

type Vendor struct {
	ID             int64      `gorm:"primaryKey" json:"id"`
	Name           string     `gorm:"size:100;not null" json:"name"`
	ShopName       string     `gorm:"size:200;not null" json:"shop_name"`
	Phone          string     `gorm:"size:20;not null" json:"phone"`
	Email          string     `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash   string     `gorm:"size:255;not null" json:"-"`
	Status         string     `gorm:"size:20;default:ACTIVE;index" json:"status"` // ACTIVE, SUSPENDED
	ResetToken     *string    `gorm:"size:100;index" json:"-"`
	ResetExpiresAt *time.Time `json:"-"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (Vendor) TableName() string {
	return "vendors"
}
