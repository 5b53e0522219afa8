package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/kartly/kartly_go_server/internal/model"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) Create(sub *model.Subscription) error {
	return r.db.Create(sub).Error
}

// GetCurrentByVendor 取商户当前用于门禁判断的订阅：
// 状态在 {ACTIVE, TRIAL} 中、最近创建的一条。是否真正过期由调用方比较 end_date。
func (r *SubscriptionRepository) GetCurrentByVendor(vendorID int64) (*model.Subscription, error) {
	var sub model.Subscription
	err := r.db.Where("vendor_id = ? AND status IN ?", vendorID,
		[]string{model.SubscriptionStatusActive, model.SubscriptionStatusTrial}).
		Order("created_at DESC").
		Preload("Plan").
		First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *SubscriptionRepository) Update(sub *model.Subscription) error {
	return r.db.Save(sub).Error
}

// ExpireOverdue 批量将已过截止日期的 ACTIVE/TRIAL 订阅置为 EXPIRED，返回影响行数
func (r *SubscriptionRepository) ExpireOverdue(now time.Time) (int64, error) {
	result := r.db.Model(&model.Subscription{}).
		Where("end_date < ? AND status IN ?", now,
			[]string{model.SubscriptionStatusActive, model.SubscriptionStatusTrial}).
		Update("status", model.SubscriptionStatusExpired)
	return result.RowsAffected, result.Error
}

// ListWithVendor 订阅全量列表（平台后台用）
func (r *SubscriptionRepository) ListWithVendor() ([]*model.Subscription, error) {
	var subs []*model.Subscription
	err := r.db.Preload("Vendor").Preload("Plan").
		Order("created_at DESC").
		Find(&subs).Error
	return subs, err
}

func (r *SubscriptionRepository) CountByStatus(status string) (int64, error) {
	var count int64
	err := r.db.Model(&model.Subscription{}).Where("status = ?", status).Count(&count).Error
	return count, err
}
