package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/kartly/kartly_go_server/config"
	"github.com/kartly/kartly_go_server/internal/model"
	"github.com/kartly/kartly_go_server/internal/model/dto"
	"github.com/kartly/kartly_go_server/internal/pkg/gateway"
	"github.com/kartly/kartly_go_server/internal/pkg/jwt"
	"github.com/kartly/kartly_go_server/internal/repository"
)

var (
	ErrInvalidAmount      = errors.New("订单金额校验失败")
	ErrInvalidStatus      = errors.New("无效的订单状态")
	ErrOrderNotFound      = errors.New("订单不存在")
	ErrGatewayUnavailable = errors.New("支付网关暂时不可用")
	ErrOrderLimitReached  = errors.New("当前套餐的订单额度已用完")
)

// 金额比对容差，小数累加误差以内视为一致
const amountEpsilon = 0.01

type OrderService struct {
	orderRepo   *repository.OrderRepository
	paymentRepo *repository.PaymentRepository
	tokenRepo   *repository.TokenTrackerRepository
	vendorRepo  *repository.VendorRepository
	subSvc      *SubscriptionService
	gw          gateway.Gateway
	notifier    Notifier
	cfg         *config.Config
}

func NewOrderService(
	orderRepo *repository.OrderRepository,
	paymentRepo *repository.PaymentRepository,
	tokenRepo *repository.TokenTrackerRepository,
	vendorRepo *repository.VendorRepository,
	subSvc *SubscriptionService,
	gw gateway.Gateway,
	notifier Notifier,
	cfg *config.Config,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
		tokenRepo:   tokenRepo,
		vendorRepo:  vendorRepo,
		subSvc:      subSvc,
		gw:          gw,
		notifier:    notifier,
		cfg:         cfg,
	}
}

// Create 顾客下单：金额校验、订阅闸门、当日取餐号、落库、开立支付单。
// 网关失败时订单保留在 INITIATED，由清理任务兜底，不做回滚。
func (s *OrderService) Create(ctx context.Context, vendorID int64, req *dto.CreateOrderRequest) (*dto.CreateOrderResponse, error) {
	vendor, err := s.vendorRepo.GetByID(vendorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVendorNotFound
		}
		return nil, err
	}
	if vendor.Status == model.VendorStatusSuspended {
		return nil, ErrVendorNotFound
	}

	if err := validateAmounts(req); err != nil {
		return nil, err
	}

	if err := s.subSvc.EnsureActive(vendorID); err != nil {
		return nil, err
	}

	if err := s.checkOrderLimit(vendorID); err != nil {
		return nil, err
	}

	// 取餐号按商户当天自增，跨天从 1 重新开始
	date := time.Now().UTC().Format("2006-01-02")
	tokenNumber, err := s.tokenRepo.NextToken(vendorID, date)
	if err != nil {
		return nil, err
	}

	items := make(model.OrderItems, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, model.OrderItem{
			MenuItemID: item.MenuItemID,
			Name:       item.Name,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TotalPrice: item.TotalPrice,
		})
	}

	order := &model.Order{
		VendorID:      vendorID,
		TokenNumber:   tokenNumber,
		CustomerPhone: req.CustomerPhone,
		Items:         items,
		Subtotal:      req.Subtotal,
		TaxAmount:     req.TaxAmount,
		TotalAmount:   req.TotalAmount,
		PaymentStatus: model.PaymentStatusInitiated,
		OrderStatus:   model.OrderStatusPending,
	}
	if err := s.orderRepo.Create(order); err != nil {
		return nil, err
	}

	amountMinor := int64(math.Round(req.TotalAmount * 100))
	gwOrder, err := s.gw.CreateOrder(ctx, &gateway.CreateOrderRequest{
		AmountMinor: amountMinor,
		Currency:    s.cfg.Gateway.Currency,
		Receipt:     fmt.Sprintf("order_%d", order.ID),
	})
	if err != nil {
		log.Printf("gateway order creation failed for order %d: %v", order.ID, err)
		return nil, ErrGatewayUnavailable
	}

	payment := &model.Payment{
		VendorID:       vendorID,
		OrderID:        order.ID,
		GatewayOrderID: gwOrder.ID,
		Amount:         req.TotalAmount,
		Status:         model.PaymentCreated,
	}
	if err := s.paymentRepo.Create(payment); err != nil {
		return nil, err
	}

	channelToken, err := jwt.GenerateChannelToken(jwt.ScopeOrder, order.ID, s.cfg.JWT.Secret, s.channelTokenTTL())
	if err != nil {
		return nil, err
	}

	return &dto.CreateOrderResponse{
		OrderID:        order.ID,
		GatewayOrderID: gwOrder.ID,
		AmountMinor:    amountMinor,
		TokenNumber:    tokenNumber,
		ChannelToken:   channelToken,
	}, nil
}

// UpdateStatus 商户推进订单状态，事件推给订单频道和商户看板
func (s *OrderService) UpdateStatus(ctx context.Context, vendorID, orderID int64, status string) (*model.Order, error) {
	if !model.ValidOrderStatus(status) {
		return nil, ErrInvalidStatus
	}

	order, err := s.orderRepo.UpdateStatusScoped(orderID, vendorID, status)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if err := s.notifier.PublishOrderStatusChanged(ctx, vendorID, orderID, status); err != nil {
		log.Printf("failed to publish status change for order %d: %v", orderID, err)
	}
	return order, nil
}

// GetReceipt 顾客回执页数据，附带订单频道准入凭证
func (s *OrderService) GetReceipt(orderID int64) (*dto.OrderReceipt, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	vendor, err := s.vendorRepo.GetByID(order.VendorID)
	if err != nil {
		return nil, err
	}

	channelToken, err := jwt.GenerateChannelToken(jwt.ScopeOrder, order.ID, s.cfg.JWT.Secret, s.channelTokenTTL())
	if err != nil {
		return nil, err
	}

	return &dto.OrderReceipt{
		Order: order,
		Vendor: &dto.ReceiptVendorInfo{
			ShopName: vendor.ShopName,
			Name:     vendor.Name,
		},
		ChannelToken: channelToken,
	}, nil
}

// ListByVendor 商户订单看板列表
func (s *OrderService) ListByVendor(vendorID int64, paymentStatus string, page, pageSize int) ([]*model.Order, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.orderRepo.ListByVendor(vendorID, paymentStatus, page, pageSize)
}

// checkOrderLimit 套餐额度：限额套餐统计订阅期内已支付订单数
func (s *OrderService) checkOrderLimit(vendorID int64) error {
	sub, plan, err := s.subSvc.CurrentPlan(vendorID)
	if err != nil {
		return err
	}
	if plan == nil || plan.OrderLimit <= 0 {
		return nil
	}

	count, err := s.orderRepo.CountPaidSince(vendorID, sub.StartDate)
	if err != nil {
		return err
	}
	if count >= int64(plan.OrderLimit) {
		return ErrOrderLimitReached
	}
	return nil
}

func (s *OrderService) channelTokenTTL() time.Duration {
	minutes := s.cfg.JWT.ChannelTokenMinutes
	if minutes <= 0 {
		minutes = 30
	}
	return time.Duration(minutes) * time.Minute
}

// validateAmounts 校验行项目与合计的一致性，容差 0.01
func validateAmounts(req *dto.CreateOrderRequest) error {
	var subtotal float64
	for _, item := range req.Items {
		if item.UnitPrice < 0 || item.TotalPrice < 0 {
			return ErrInvalidAmount
		}
		if math.Abs(item.TotalPrice-item.UnitPrice*float64(item.Quantity)) > amountEpsilon {
			return ErrInvalidAmount
		}
		subtotal += item.TotalPrice
	}

	if req.TaxAmount < 0 || req.TotalAmount <= 0 {
		return ErrInvalidAmount
	}
	if math.Abs(subtotal-req.Subtotal) > amountEpsilon {
		return ErrInvalidAmount
	}
	if math.Abs(req.TotalAmount-(req.Subtotal+req.TaxAmount)) > amountEpsilon {
		return ErrInvalidAmount
	}
	return nil
}
