package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kartly/kartly_go_server/config"
	"github.com/kartly/kartly_go_server/internal/model"
	"github.com/kartly/kartly_go_server/internal/model/dto"
	"github.com/kartly/kartly_go_server/internal/pkg/gateway"
	"github.com/kartly/kartly_go_server/internal/pkg/jwt"
	"github.com/kartly/kartly_go_server/internal/repository"
	"github.com/kartly/kartly_go_server/internal/testutil"
)

// fakeGateway records created gateway orders; signature verification is the
// real HMAC check so webhook tests exercise the production path.
type fakeGateway struct {
	mu      sync.Mutex
	fail    bool
	created []*gateway.CreateOrderRequest
	secret  string
}

func (f *fakeGateway) CreateOrder(_ context.Context, req *gateway.CreateOrderRequest) (*gateway.GatewayOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.fail {
		return nil, errors.New("gateway down")
	}
	f.created = append(f.created, req)
	return &gateway.GatewayOrder{
		ID:          fmt.Sprintf("order_gw_%d", len(f.created)),
		AmountMinor: req.AmountMinor,
		Currency:    req.Currency,
		Receipt:     req.Receipt,
		Status:      "created",
	}, nil
}

func (f *fakeGateway) VerifyWebhookSignature(payload []byte, signature string) bool {
	return gateway.VerifySignature(payload, signature, f.secret)
}

// recordingNotifier captures published events instead of touching Redis
type recordingNotifier struct {
	mu            sync.Mutex
	newOrders     []int64
	statusChanges []string
}

func (n *recordingNotifier) PublishNewOrder(_ context.Context, _ int64, order *model.Order) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.newOrders = append(n.newOrders, order.ID)
	return nil
}

func (n *recordingNotifier) PublishOrderStatusChanged(_ context.Context, _, orderID int64, status string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.statusChanges = append(n.statusChanges, fmt.Sprintf("%d:%s", orderID, status))
	return nil
}

func (n *recordingNotifier) newOrderCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.newOrders)
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:              "test-secret-key-for-testing",
			ExpireHours:         24,
			ChannelTokenMinutes: 30,
		},
		Gateway: config.GatewayConfig{Currency: "INR"},
		Plans: []config.PlanConfig{
			{Name: "TRIAL", Price: 0, DurationDays: 7, OrderLimit: 50},
			{Name: "BASIC", Price: 499, DurationDays: 30},
			{Name: "PREMIUM", Price: 999, DurationDays: 30},
		},
	}
}

type orderServiceDeps struct {
	db       *gorm.DB
	gw       *fakeGateway
	notifier *recordingNotifier
	cfg      *config.Config
}

func setupOrderService(t *testing.T) (*OrderService, *orderServiceDeps, func()) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	cfg := testConfig()
	gw := &fakeGateway{secret: "test-webhook-secret"}
	notifier := &recordingNotifier{}

	subSvc := NewSubscriptionService(
		repository.NewSubscriptionRepository(db),
		repository.NewPlanRepository(db),
		cfg,
	)
	svc := NewOrderService(
		repository.NewOrderRepository(db),
		repository.NewPaymentRepository(db),
		repository.NewTokenTrackerRepository(db),
		repository.NewVendorRepository(db),
		subSvc,
		gw,
		notifier,
		cfg,
	)

	deps := &orderServiceDeps{db: db, gw: gw, notifier: notifier, cfg: cfg}
	cleanup := func() {
		testutil.CleanupTestDB(t, db)
	}
	return svc, deps, cleanup
}

func validOrderRequest() *dto.CreateOrderRequest {
	return &dto.CreateOrderRequest{
		Items: []dto.OrderItemInput{
			{MenuItemID: 1, Name: "Masala Dosa", Quantity: 2, UnitPrice: 120, TotalPrice: 240},
		},
		Subtotal:    240,
		TaxAmount:   12,
		TotalAmount: 252,
	}
}

func TestOrderService_Create_Success(t *testing.T) {
	svc, deps, cleanup := setupOrderService(t)
	defer cleanup()

	vendor := testutil.TestVendor(t, deps.db)
	plan := testutil.TestPlan(t, deps.db)
	testutil.TestSubscription(t, deps.db, vendor.ID, plan.ID)

	resp, err := svc.Create(context.Background(), vendor.ID, validOrderRequest())
	require.NoError(t, err)

	assert.Equal(t, 1, resp.TokenNumber)
	assert.Equal(t, int64(25200), resp.AmountMinor)
	assert.NotEmpty(t, resp.GatewayOrderID)

	// Channel token is scoped to this order
	claims, err := jwt.ParseChannelToken(resp.ChannelToken, deps.cfg.JWT.Secret)
	require.NoError(t, err)
	assert.Equal(t, jwt.ScopeOrder, claims.Scope)
	assert.Equal(t, resp.OrderID, claims.RefID)

	// Order persisted as INITIATED/Pending with item snapshot
	var order model.Order
	require.NoError(t, deps.db.First(&order, resp.OrderID).Error)
	assert.Equal(t, model.PaymentStatusInitiated, order.PaymentStatus)
	assert.Equal(t, model.OrderStatusPending, order.OrderStatus)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Masala Dosa", order.Items[0].Name)

	// Payment row linked to the gateway order
	var payment model.Payment
	require.NoError(t, deps.db.Where("order_id = ?", order.ID).First(&payment).Error)
	assert.Equal(t, resp.GatewayOrderID, payment.GatewayOrderID)
	assert.Equal(t, model.PaymentCreated, payment.Status)

	// Gateway saw minor units
	require.Len(t, deps.gw.created, 1)
	assert.Equal(t, int64(25200), deps.gw.created[0].AmountMinor)
	assert.Equal(t, "INR", deps.gw.created[0].Currency)
}

func TestOrderService_Create_SecondOrderSameDay(t *testing.T) {
	svc, deps, cleanup := setupOrderService(t)
	defer cleanup()

	vendor := testutil.TestVendor(t, deps.db)
	plan := testutil.TestPlan(t, deps.db)
	testutil.TestSubscription(t, deps.db, vendor.ID, plan.ID)

	first, err := svc.Create(context.Background(), vendor.ID, validOrderRequest())
	require.NoError(t, err)
	second, err := svc.Create(context.Background(), vendor.ID, validOrderRequest())
	require.NoError(t, err)

	assert.Equal(t, 1, first.TokenNumber)
	assert.Equal(t, 2, second.TokenNumber)
}

func TestOrderService_Create_AmountValidation(t *testing.T) {
	svc, deps, cleanup := setupOrderService(t)
	defer cleanup()

	vendor := testutil.TestVendor(t, deps.db)
	plan := testutil.TestPlan(t, deps.db)
	testutil.TestSubscription(t, deps.db, vendor.ID, plan.ID)

	// Line total doesn't match quantity * unit price
	req := validOrderRequest()
	req.Items[0].TotalPrice = 300
	req.Subtotal = 300
	req.TotalAmount = 312
	_, err := svc.Create(context.Background(), vendor.ID, req)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	// Grand total doesn't match subtotal + tax
	req = validOrderRequest()
	req.TotalAmount = 999
	_, err = svc.Create(context.Background(), vendor.ID, req)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	// Negative unit price
	req = validOrderRequest()
	req.Items[0].UnitPrice = -120
	_, err = svc.Create(context.Background(), vendor.ID, req)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	// Tolerance of 0.01 is accepted
	req = validOrderRequest()
	req.TotalAmount = 252.009
	_, err = svc.Create(context.Background(), vendor.ID, req)
	assert.NoError(t, err)
}

func TestOrderService_Create_NoSubscription(t *testing.T) {
	svc, deps, cleanup := setupOrderService(t)
	defer cleanup()

	vendor := testutil.TestVendor(t, deps.db)

	_, err := svc.Create(context.Background(), vendor.ID, validOrderRequest())
	assert.ErrorIs(t, err, ErrNoSubscription)
}

func TestOrderService_Create_ExpiredByDate(t *testing.T) {
	svc, deps, cleanup := setupOrderService(t)
	defer cleanup()

	vendor := testutil.TestVendor(t, deps.db)
	plan := testutil.TestPlan(t, deps.db)
	// Status still ACTIVE but end date already past: the sweep hasn't run yet
	testutil.TestSubscription(t, deps.db, vendor.ID, plan.ID,
		testutil.WithEndDate(time.Now().AddDate(0, 0, -1)))

	_, err := svc.Create(context.Background(), vendor.ID, validOrderRequest())
	assert.ErrorIs(t, err, ErrSubscriptionExpired)
}

func TestOrderService_Create_GatewayDown(t *testing.T) {
	svc, deps, cleanup := setupOrderService(t)
	defer cleanup()

	vendor := testutil.TestVendor(t, deps.db)
	plan := testutil.TestPlan(t, deps.db)
	testutil.TestSubscription(t, deps.db, vendor.ID, plan.ID)

	deps.gw.fail = true
	_, err := svc.Create(context.Background(), vendor.ID, validOrderRequest())
	assert.ErrorIs(t, err, ErrGatewayUnavailable)

	// Order stays behind as INITIATED, no payment row
	var order model.Order
	require.NoError(t, deps.db.Where("vendor_id = ?", vendor.ID).First(&order).Error)
	assert.Equal(t, model.PaymentStatusInitiated, order.PaymentStatus)

	var count int64
	require.NoError(t, deps.db.Model(&model.Payment{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestOrderService_Create_OrderLimitReached(t *testing.T) {
	svc, deps, cleanup := setupOrderService(t)
	defer cleanup()

	vendor := testutil.TestVendor(t, deps.db)
	plan := testutil.TestPlan(t, deps.db, testutil.WithOrderLimit(1))
	testutil.TestSubscription(t, deps.db, vendor.ID, plan.ID)

	testutil.TestOrder(t, deps.db, vendor.ID, testutil.WithPaymentStatus(model.PaymentStatusSuccess))

	_, err := svc.Create(context.Background(), vendor.ID, validOrderRequest())
	assert.ErrorIs(t, err, ErrOrderLimitReached)
}

func TestOrderService_Create_SuspendedVendor(t *testing.T) {
	svc, deps, cleanup := setupOrderService(t)
	defer cleanup()

	vendor := testutil.TestVendor(t, deps.db, testutil.WithVendorStatus(model.VendorStatusSuspended))
	plan := testutil.TestPlan(t, deps.db)
	testutil.TestSubscription(t, deps.db, vendor.ID, plan.ID)

	_, err := svc.Create(context.Background(), vendor.ID, validOrderRequest())
	assert.ErrorIs(t, err, ErrVendorNotFound)
}

func TestOrderService_UpdateStatus(t *testing.T) {
	svc, deps, cleanup := setupOrderService(t)
	defer cleanup()

	vendor := testutil.TestVendor(t, deps.db)
	order := testutil.TestOrder(t, deps.db, vendor.ID)

	updated, err := svc.UpdateStatus(context.Background(), vendor.ID, order.ID, model.OrderStatusPreparing)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPreparing, updated.OrderStatus)

	require.Len(t, deps.notifier.statusChanges, 1)
	assert.Equal(t, fmt.Sprintf("%d:Preparing", order.ID), deps.notifier.statusChanges[0])
}

func TestOrderService_UpdateStatus_Invalid(t *testing.T) {
	svc, deps, cleanup := setupOrderService(t)
	defer cleanup()

	vendor := testutil.TestVendor(t, deps.db)
	order := testutil.TestOrder(t, deps.db, vendor.ID)

	_, err := svc.UpdateStatus(context.Background(), vendor.ID, order.ID, "Delivered")
	assert.ErrorIs(t, err, ErrInvalidStatus)
	assert.Empty(t, deps.notifier.statusChanges)
}

func TestOrderService_UpdateStatus_TenantIsolation(t *testing.T) {
	svc, deps, cleanup := setupOrderService(t)
	defer cleanup()

	vendorA := testutil.TestVendor(t, deps.db)
	vendorB := testutil.TestVendor(t, deps.db)
	order := testutil.TestOrder(t, deps.db, vendorA.ID)

	// Another vendor cannot see or move the order
	_, err := svc.UpdateStatus(context.Background(), vendorB.ID, order.ID, model.OrderStatusReady)
	assert.ErrorIs(t, err, ErrOrderNotFound)
	assert.Empty(t, deps.notifier.statusChanges)
}

func TestOrderService_GetReceipt(t *testing.T) {
	svc, deps, cleanup := setupOrderService(t)
	defer cleanup()

	vendor := testutil.TestVendor(t, deps.db)
	order := testutil.TestOrder(t, deps.db, vendor.ID)

	receipt, err := svc.GetReceipt(order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, receipt.Order.ID)
	assert.Equal(t, vendor.ShopName, receipt.Vendor.ShopName)

	claims, err := jwt.ParseChannelToken(receipt.ChannelToken, deps.cfg.JWT.Secret)
	require.NoError(t, err)
	assert.Equal(t, jwt.ScopeOrder, claims.Scope)
	assert.Equal(t, order.ID, claims.RefID)
}

func TestOrderService_GetReceipt_NotFound(t *testing.T) {
	svc, _, cleanup := setupOrderService(t)
	defer cleanup()

	_, err := svc.GetReceipt(99999)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
