package model

import (
	"time"
)

// Category 与 MenuItem 为租户级目录实体，历史订单仍引用时只做软下架

type Category struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	VendorID  int64     `gorm:"not null;index" json:"vendor_id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Category) TableName() string {
	return "categories"
}

type MenuItem struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	VendorID    int64     `gorm:"not null;index" json:"vendor_id"`
	CategoryID  int64     `gorm:"not null;index" json:"category_id"`
	Name        string    `gorm:"size:200;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	Price       float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	ImageURL    string    `gorm:"size:500" json:"image_url,omitempty"`
	IsAvailable bool      `gorm:"default:true" json:"is_available"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (MenuItem) TableName() string {
	return "menu_items"
}
