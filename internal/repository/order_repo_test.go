package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kartly/kartly_go_server/internal/model"
	"github.com/kartly/kartly_go_server/internal/testutil"
)

func TestOrderRepository_UpdateStatusScoped(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewOrderRepository(db)
	vendor := testutil.TestVendor(t, db)
	order := testutil.TestOrder(t, db, vendor.ID)

	updated, err := repo.UpdateStatusScoped(order.ID, vendor.ID, model.OrderStatusPreparing)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPreparing, updated.OrderStatus)

	got, err := repo.GetByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPreparing, got.OrderStatus)
}

func TestOrderRepository_UpdateStatusScoped_WrongVendor(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewOrderRepository(db)
	vendorA := testutil.TestVendor(t, db)
	vendorB := testutil.TestVendor(t, db)
	order := testutil.TestOrder(t, db, vendorA.ID)

	// Another vendor's order behaves as missing
	_, err := repo.UpdateStatusScoped(order.ID, vendorB.ID, model.OrderStatusReady)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// Original order untouched
	got, err := repo.GetByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPending, got.OrderStatus)
}

func TestOrderRepository_ListByVendor_Filter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewOrderRepository(db)
	vendor := testutil.TestVendor(t, db)

	testutil.TestOrder(t, db, vendor.ID, testutil.WithPaymentStatus(model.PaymentStatusSuccess))
	testutil.TestOrder(t, db, vendor.ID, testutil.WithPaymentStatus(model.PaymentStatusSuccess))
	testutil.TestOrder(t, db, vendor.ID) // INITIATED

	orders, total, err := repo.ListByVendor(vendor.ID, model.PaymentStatusSuccess, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, orders, 2)

	orders, total, err = repo.ListByVendor(vendor.ID, "", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, orders, 3)
}

func TestOrderRepository_StaleInitiatedSweep(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewOrderRepository(db)
	vendor := testutil.TestVendor(t, db)

	old := testutil.TestOrder(t, db, vendor.ID)
	// Backdate past the threshold
	require.NoError(t, db.Model(old).Update("created_at", time.Now().Add(-48*time.Hour)).Error)

	fresh := testutil.TestOrder(t, db, vendor.ID)
	paid := testutil.TestOrder(t, db, vendor.ID, testutil.WithPaymentStatus(model.PaymentStatusSuccess))
	require.NoError(t, db.Model(paid).Update("created_at", time.Now().Add(-48*time.Hour)).Error)

	before := time.Now().Add(-24 * time.Hour)
	stale, err := repo.ListStaleInitiated(before, 100)
	require.NoError(t, err)
	require.Len(t, stale, 1)
	assert.Equal(t, old.ID, stale[0].ID)

	count, err := repo.MarkFailed([]int64{stale[0].ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	got, err := repo.GetByID(old.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusFailed, got.PaymentStatus)

	// Fresh and paid orders untouched
	got, err = repo.GetByID(fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusInitiated, got.PaymentStatus)

	got, err = repo.GetByID(paid.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusSuccess, got.PaymentStatus)
}

func TestOrderRepository_SumRevenue(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewOrderRepository(db)
	vendor := testutil.TestVendor(t, db)

	testutil.TestOrder(t, db, vendor.ID, testutil.WithPaymentStatus(model.PaymentStatusSuccess))
	testutil.TestOrder(t, db, vendor.ID, testutil.WithPaymentStatus(model.PaymentStatusSuccess))
	testutil.TestOrder(t, db, vendor.ID) // unpaid, excluded

	total, err := repo.SumRevenue()
	require.NoError(t, err)
	assert.InDelta(t, 504.0, total, 0.001)
}

func TestOrderRepository_CountPaidSince(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewOrderRepository(db)
	vendor := testutil.TestVendor(t, db)

	testutil.TestOrder(t, db, vendor.ID, testutil.WithPaymentStatus(model.PaymentStatusSuccess))
	old := testutil.TestOrder(t, db, vendor.ID, testutil.WithPaymentStatus(model.PaymentStatusSuccess))
	require.NoError(t, db.Model(old).Update("created_at", time.Now().AddDate(0, -2, 0)).Error)

	count, err := repo.CountPaidSince(vendor.ID, time.Now().AddDate(0, -1, 0))
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
