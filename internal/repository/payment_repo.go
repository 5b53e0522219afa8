package repository

import (
	"gorm.io/gorm"

	"github.com/kartly/kartly_go_server/internal/model"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(payment *model.Payment) error {
	return r.db.Create(payment).Error
}

// GetByGatewayOrderID 按网关订单号查找，webhook 对账的入口查询
func (r *PaymentRepository) GetByGatewayOrderID(gatewayOrderID string) (*model.Payment, error) {
	var payment model.Payment
	err := r.db.Where("gateway_order_id = ?", gatewayOrderID).First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *PaymentRepository) GetByOrderID(orderID int64) (*model.Payment, error) {
	var payment model.Payment
	err := r.db.Where("order_id = ?", orderID).First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// MarkSuccess 将支付记录置为成功并记录网关支付号。
// 只有仍处于 CREATED 的记录会被改写，返回值表示本次是否真正发生了状态迁移，
// 重放的 webhook 在这里自然变成 false。
func (r *PaymentRepository) MarkSuccess(id int64, gatewayPaymentID string) (bool, error) {
	result := r.db.Model(&model.Payment{}).
		Where("id = ? AND status = ?", id, model.PaymentCreated).
		Updates(map[string]interface{}{
			"status":             model.PaymentSuccess,
			"gateway_payment_id": gatewayPaymentID,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// MarkFailed 将支付记录置为失败，保留网关支付号作为排查线索
func (r *PaymentRepository) MarkFailed(id int64, gatewayPaymentID string) error {
	return r.db.Model(&model.Payment{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":             model.PaymentFailed,
			"gateway_payment_id": gatewayPaymentID,
		}).Error
}
