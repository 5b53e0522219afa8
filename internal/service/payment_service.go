package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"gorm.io/gorm"

	"github.com/kartly/kartly_go_server/internal/model"
	"github.com/kartly/kartly_go_server/internal/pkg/gateway"
	"github.com/kartly/kartly_go_server/internal/repository"
)

var (
	ErrInvalidSignature = errors.New("webhook 签名校验失败")
)

// 网关事件名
const (
	eventPaymentCaptured = "payment.captured"
	eventOrderPaid       = "order.paid"
	eventPaymentFailed   = "payment.failed"
)

// webhookEnvelope 网关回调的信封结构（Razorpay 风格）
type webhookEnvelope struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
				Amount  int64  `json:"amount"`
			} `json:"entity"`
		} `json:"payment"`
		Order struct {
			Entity struct {
				ID string `json:"id"`
			} `json:"entity"`
		} `json:"order"`
	} `json:"payload"`
}

type PaymentService struct {
	paymentRepo *repository.PaymentRepository
	orderRepo   *repository.OrderRepository
	gw          gateway.Gateway
	notifier    Notifier
}

func NewPaymentService(paymentRepo *repository.PaymentRepository, orderRepo *repository.OrderRepository, gw gateway.Gateway, notifier Notifier) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		orderRepo:   orderRepo,
		gw:          gw,
		notifier:    notifier,
	}
}

// HandleWebhook 处理支付网关回调。签名针对原始请求字节校验，
// 校验不过直接拒绝，任何解析都不发生。签名合法但事件未知或
// 订单号对不上时返回 nil，让网关收到 200 不再重试。
func (s *PaymentService) HandleWebhook(ctx context.Context, raw []byte, signature string) error {
	if !s.gw.VerifyWebhookSignature(raw, signature) {
		return ErrInvalidSignature
	}

	var envelope webhookEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		log.Printf("webhook payload unmarshable: %v", err)
		return nil
	}

	switch envelope.Event {
	case eventPaymentCaptured, eventOrderPaid:
		gatewayOrderID := envelope.Payload.Payment.Entity.OrderID
		if gatewayOrderID == "" {
			gatewayOrderID = envelope.Payload.Order.Entity.ID
		}
		return s.handleCaptured(ctx, gatewayOrderID, envelope.Payload.Payment.Entity.ID)
	case eventPaymentFailed:
		return s.handleFailed(envelope.Payload.Payment.Entity.OrderID, envelope.Payload.Payment.Entity.ID)
	default:
		log.Printf("ignoring webhook event %q", envelope.Event)
		return nil
	}
}

// handleCaptured 支付成功对账：支付记录和订单翻到 SUCCESS，推送新订单事件。
// 重放的回调在 MarkSuccess 处落空，不会产生第二次写入或第二条事件。
func (s *PaymentService) handleCaptured(ctx context.Context, gatewayOrderID, gatewayPaymentID string) error {
	payment, err := s.paymentRepo.GetByGatewayOrderID(gatewayOrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("webhook for unknown gateway order %q", gatewayOrderID)
			return nil
		}
		return err
	}

	moved, err := s.paymentRepo.MarkSuccess(payment.ID, gatewayPaymentID)
	if err != nil {
		return err
	}
	if !moved {
		// 已经成功过，重放回调
		return nil
	}

	if err := s.orderRepo.UpdatePaymentStatus(payment.OrderID, model.PaymentStatusSuccess); err != nil {
		return err
	}

	order, err := s.orderRepo.GetByID(payment.OrderID)
	if err != nil {
		return err
	}

	if err := s.notifier.PublishNewOrder(ctx, order.VendorID, order); err != nil {
		log.Printf("failed to publish new order event for order %d: %v", order.ID, err)
	}
	return nil
}

// handleFailed 支付失败只落在支付记录上，订单的支付状态不动
func (s *PaymentService) handleFailed(gatewayOrderID, gatewayPaymentID string) error {
	payment, err := s.paymentRepo.GetByGatewayOrderID(gatewayOrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("failed-payment webhook for unknown gateway order %q", gatewayOrderID)
			return nil
		}
		return err
	}

	// 已成功的支付不被迟到的失败事件覆盖
	if payment.Status == model.PaymentSuccess {
		return nil
	}

	return s.paymentRepo.MarkFailed(payment.ID, gatewayPaymentID)
}
