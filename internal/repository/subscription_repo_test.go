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

func TestSubscriptionRepository_GetCurrentByVendor(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewSubscriptionRepository(db)
	vendor := testutil.TestVendor(t, db)
	plan := testutil.TestPlan(t, db)

	// Cancelled subscription is not current
	testutil.TestSubscription(t, db, vendor.ID, plan.ID,
		testutil.WithSubscriptionStatus(model.SubscriptionStatusCancelled))
	current := testutil.TestSubscription(t, db, vendor.ID, plan.ID)

	got, err := repo.GetCurrentByVendor(vendor.ID)
	require.NoError(t, err)
	assert.Equal(t, current.ID, got.ID)
	require.NotNil(t, got.Plan)
	assert.Equal(t, plan.Name, got.Plan.Name)
}

func TestSubscriptionRepository_GetCurrentByVendor_None(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewSubscriptionRepository(db)
	vendor := testutil.TestVendor(t, db)

	_, err := repo.GetCurrentByVendor(vendor.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSubscriptionRepository_ExpireOverdue(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewSubscriptionRepository(db)
	vendor := testutil.TestVendor(t, db)
	plan := testutil.TestPlan(t, db)

	overdue := testutil.TestSubscription(t, db, vendor.ID, plan.ID,
		testutil.WithEndDate(time.Now().AddDate(0, 0, -1)))
	overdueTrial := testutil.TestSubscription(t, db, vendor.ID, plan.ID,
		testutil.WithSubscriptionStatus(model.SubscriptionStatusTrial),
		testutil.WithEndDate(time.Now().AddDate(0, 0, -2)))
	live := testutil.TestSubscription(t, db, vendor.ID, plan.ID)

	count, err := repo.ExpireOverdue(time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	for _, id := range []int64{overdue.ID, overdueTrial.ID} {
		var sub model.Subscription
		require.NoError(t, db.First(&sub, id).Error)
		assert.Equal(t, model.SubscriptionStatusExpired, sub.Status)
	}

	var sub model.Subscription
	require.NoError(t, db.First(&sub, live.ID).Error)
	assert.Equal(t, model.SubscriptionStatusActive, sub.Status)
}
