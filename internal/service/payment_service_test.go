package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kartly/kartly_go_server/internal/model"
	"github.com/kartly/kartly_go_server/internal/pkg/gateway"
	"github.com/kartly/kartly_go_server/internal/repository"
	"github.com/kartly/kartly_go_server/internal/testutil"
)

const testWebhookSecret = "test-webhook-secret"

func setupPaymentService(t *testing.T) (*PaymentService, *gorm.DB, *recordingNotifier, func()) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	gw := &fakeGateway{secret: testWebhookSecret}
	notifier := &recordingNotifier{}

	svc := NewPaymentService(
		repository.NewPaymentRepository(db),
		repository.NewOrderRepository(db),
		gw,
		notifier,
	)

	cleanup := func() {
		testutil.CleanupTestDB(t, db)
	}
	return svc, db, notifier, cleanup
}

func capturedPayload(gatewayOrderID, paymentID string) []byte {
	return []byte(fmt.Sprintf(
		`{"event":"payment.captured","payload":{"payment":{"entity":{"id":%q,"order_id":%q,"amount":25200}}}}`,
		paymentID, gatewayOrderID))
}

func sign(payload []byte) string {
	return gateway.SignPayload(payload, testWebhookSecret)
}

func TestPaymentService_HandleWebhook_Captured(t *testing.T) {
	svc, db, notifier, cleanup := setupPaymentService(t)
	defer cleanup()

	vendor := testutil.TestVendor(t, db)
	order := testutil.TestOrder(t, db, vendor.ID)
	testutil.TestPayment(t, db, vendor.ID, order.ID, testutil.WithGatewayOrderID("order_gw_1"))

	payload := capturedPayload("order_gw_1", "pay_1")
	require.NoError(t, svc.HandleWebhook(context.Background(), payload, sign(payload)))

	var got model.Order
	require.NoError(t, db.First(&got, order.ID).Error)
	assert.Equal(t, model.PaymentStatusSuccess, got.PaymentStatus)

	var payment model.Payment
	require.NoError(t, db.Where("order_id = ?", order.ID).First(&payment).Error)
	assert.Equal(t, model.PaymentSuccess, payment.Status)
	assert.Equal(t, "pay_1", payment.GatewayPaymentID)

	// Exactly one new_order event
	assert.Equal(t, 1, notifier.newOrderCount())
}

func TestPaymentService_HandleWebhook_TamperedSignature(t *testing.T) {
	svc, db, notifier, cleanup := setupPaymentService(t)
	defer cleanup()

	vendor := testutil.TestVendor(t, db)
	order := testutil.TestOrder(t, db, vendor.ID)
	testutil.TestPayment(t, db, vendor.ID, order.ID, testutil.WithGatewayOrderID("order_gw_1"))

	payload := capturedPayload("order_gw_1", "pay_1")
	signature := sign(payload)

	// Payload altered after signing
	tampered := capturedPayload("order_gw_1", "pay_evil")
	err := svc.HandleWebhook(context.Background(), tampered, signature)
	assert.ErrorIs(t, err, ErrInvalidSignature)

	// Nothing moved
	var got model.Order
	require.NoError(t, db.First(&got, order.ID).Error)
	assert.Equal(t, model.PaymentStatusInitiated, got.PaymentStatus)
	assert.Equal(t, 0, notifier.newOrderCount())
}

func TestPaymentService_HandleWebhook_Replay(t *testing.T) {
	svc, db, notifier, cleanup := setupPaymentService(t)
	defer cleanup()

	vendor := testutil.TestVendor(t, db)
	order := testutil.TestOrder(t, db, vendor.ID)
	testutil.TestPayment(t, db, vendor.ID, order.ID, testutil.WithGatewayOrderID("order_gw_1"))

	payload := capturedPayload("order_gw_1", "pay_1")
	signature := sign(payload)

	require.NoError(t, svc.HandleWebhook(context.Background(), payload, signature))
	// Same webhook delivered again
	require.NoError(t, svc.HandleWebhook(context.Background(), payload, signature))

	// Still exactly one event, one state transition
	assert.Equal(t, 1, notifier.newOrderCount())

	var payment model.Payment
	require.NoError(t, db.Where("order_id = ?", order.ID).First(&payment).Error)
	assert.Equal(t, "pay_1", payment.GatewayPaymentID)
}

func TestPaymentService_HandleWebhook_Failed(t *testing.T) {
	svc, db, notifier, cleanup := setupPaymentService(t)
	defer cleanup()

	vendor := testutil.TestVendor(t, db)
	order := testutil.TestOrder(t, db, vendor.ID)
	testutil.TestPayment(t, db, vendor.ID, order.ID, testutil.WithGatewayOrderID("order_gw_1"))

	payload := []byte(`{"event":"payment.failed","payload":{"payment":{"entity":{"id":"pay_1","order_id":"order_gw_1"}}}}`)
	require.NoError(t, svc.HandleWebhook(context.Background(), payload, sign(payload)))

	var payment model.Payment
	require.NoError(t, db.Where("order_id = ?", order.ID).First(&payment).Error)
	assert.Equal(t, model.PaymentFailed, payment.Status)

	// Order payment status stays untouched on failure
	var got model.Order
	require.NoError(t, db.First(&got, order.ID).Error)
	assert.Equal(t, model.PaymentStatusInitiated, got.PaymentStatus)
	assert.Equal(t, 0, notifier.newOrderCount())
}

func TestPaymentService_HandleWebhook_UnknownEvent(t *testing.T) {
	svc, _, notifier, cleanup := setupPaymentService(t)
	defer cleanup()

	payload := []byte(`{"event":"refund.created","payload":{}}`)
	// Valid signature, unknown event: handled quietly
	require.NoError(t, svc.HandleWebhook(context.Background(), payload, sign(payload)))
	assert.Equal(t, 0, notifier.newOrderCount())
}

func TestPaymentService_HandleWebhook_UnknownGatewayOrder(t *testing.T) {
	svc, _, notifier, cleanup := setupPaymentService(t)
	defer cleanup()

	payload := capturedPayload("order_gw_missing", "pay_1")
	// No matching payment: logged and acknowledged
	require.NoError(t, svc.HandleWebhook(context.Background(), payload, sign(payload)))
	assert.Equal(t, 0, notifier.newOrderCount())
}

func TestPaymentService_HandleWebhook_OrderPaidEvent(t *testing.T) {
	svc, db, notifier, cleanup := setupPaymentService(t)
	defer cleanup()

	vendor := testutil.TestVendor(t, db)
	order := testutil.TestOrder(t, db, vendor.ID)
	testutil.TestPayment(t, db, vendor.ID, order.ID, testutil.WithGatewayOrderID("order_gw_1"))

	// order.paid carries the gateway order id in the order entity
	payload := []byte(`{"event":"order.paid","payload":{"order":{"entity":{"id":"order_gw_1"}},"payment":{"entity":{"id":"pay_1"}}}}`)
	require.NoError(t, svc.HandleWebhook(context.Background(), payload, sign(payload)))

	var got model.Order
	require.NoError(t, db.First(&got, order.ID).Error)
	assert.Equal(t, model.PaymentStatusSuccess, got.PaymentStatus)
	assert.Equal(t, 1, notifier.newOrderCount())
}
