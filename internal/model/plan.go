package model

import (
	"time"
)

const (
	PlanTrial   = "TRIAL"
	PlanBasic   = "BASIC"
	PlanPremium = "PREMIUM"
)

// Plan 计费套餐，被订阅引用后不再修改
type Plan struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:20;uniqueIndex;not null" json:"name"` // TRIAL, BASIC, PREMIUM
	Price        float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	DurationDays int       `gorm:"not null" json:"duration_days"`
	OrderLimit   int       `json:"order_limit,omitempty"`
	Features     FeatureMap `gorm:"type:json" json:"features,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Plan) TableName() string {
	return "plans"
}
