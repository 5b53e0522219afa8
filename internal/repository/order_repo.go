package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/kartly/kartly_go_server/internal/model"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(order *model.Order) error {
	return r.db.Create(order).Error
}

func (r *OrderRepository) GetByID(id int64) (*model.Order, error) {
	var order model.Order
	err := r.db.First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetScoped 租户隔离的查找，其他租户的订单表现为不存在
func (r *OrderRepository) GetScoped(id, vendorID int64) (*model.Order, error) {
	var order model.Order
	err := r.db.Where("id = ? AND vendor_id = ?", id, vendorID).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateStatusScoped 租户隔离的订单状态流转
func (r *OrderRepository) UpdateStatusScoped(id, vendorID int64, status string) (*model.Order, error) {
	order, err := r.GetScoped(id, vendorID)
	if err != nil {
		return nil, err
	}

	if err := r.db.Model(order).Update("order_status", status).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *OrderRepository) UpdatePaymentStatus(id int64, status string) error {
	return r.db.Model(&model.Order{}).Where("id = ?", id).
		Update("payment_status", status).Error
}

// ListByVendor 商家订单列表，支持按支付状态过滤，按创建时间倒序
func (r *OrderRepository) ListByVendor(vendorID int64, paymentStatus string, page, pageSize int) ([]*model.Order, int64, error) {
	var orders []*model.Order
	var total int64

	query := r.db.Model(&model.Order{}).Where("vendor_id = ?", vendorID)
	if paymentStatus != "" {
		query = query.Where("payment_status = ?", paymentStatus)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// CountPaidSince 统计某商家在某时间点之后已支付的订单数，用于套餐额度检查
func (r *OrderRepository) CountPaidSince(vendorID int64, since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&model.Order{}).
		Where("vendor_id = ? AND payment_status = ? AND created_at >= ?",
			vendorID, model.PaymentStatusSuccess, since).
		Count(&count).Error
	return count, err
}

func (r *OrderRepository) CountAll() (int64, error) {
	var count int64
	err := r.db.Model(&model.Order{}).Count(&count).Error
	return count, err
}

func (r *OrderRepository) CountByPaymentStatus(status string) (int64, error) {
	var count int64
	err := r.db.Model(&model.Order{}).Where("payment_status = ?", status).Count(&count).Error
	return count, err
}

// SumRevenue 全平台已支付订单的金额合计
func (r *OrderRepository) SumRevenue() (float64, error) {
	var total float64
	err := r.db.Model(&model.Order{}).
		Where("payment_status = ?", model.PaymentStatusSuccess).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&total).Error
	return total, err
}

// ListStaleInitiated 查出超时仍停留在 INITIATED 的订单，供清理任务处理
func (r *OrderRepository) ListStaleInitiated(before time.Time, limit int) ([]*model.Order, error) {
	var orders []*model.Order
	err := r.db.Where("payment_status = ? AND created_at < ?", model.PaymentStatusInitiated, before).
		Order("created_at ASC").Limit(limit).Find(&orders).Error
	return orders, err
}

// MarkFailed 将订单的支付状态置为 FAILED，返回实际影响的行数
func (r *OrderRepository) MarkFailed(ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.Model(&model.Order{}).
		Where("id IN ? AND payment_status = ?", ids, model.PaymentStatusInitiated).
		Update("payment_status", model.PaymentStatusFailed)
	return result.RowsAffected, result.Error
}
