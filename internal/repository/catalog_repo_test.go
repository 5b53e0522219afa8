package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kartly/kartly_go_server/internal/testutil"
)

func TestCategoryRepository_UpdateScoped_WrongVendor(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewCategoryRepository(db)
	vendorA := testutil.TestVendor(t, db)
	vendorB := testutil.TestVendor(t, db)
	category := testutil.TestCategory(t, db, vendorA.ID)

	// Cross-tenant update behaves as missing
	_, err := repo.UpdateScoped(category.ID, vendorB.ID, map[string]interface{}{"name": "Hijacked"})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	got, err := repo.GetScoped(category.ID, vendorA.ID)
	require.NoError(t, err)
	assert.Equal(t, "Starters", got.Name)
}

func TestCategoryRepository_DeleteScoped(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewCategoryRepository(db)
	vendorA := testutil.TestVendor(t, db)
	vendorB := testutil.TestVendor(t, db)
	category := testutil.TestCategory(t, db, vendorA.ID)

	err := repo.DeleteScoped(category.ID, vendorB.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, repo.DeleteScoped(category.ID, vendorA.ID))

	_, err = repo.GetScoped(category.ID, vendorA.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestMenuItemRepository_Counts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	categoryRepo := NewCategoryRepository(db)
	itemRepo := NewMenuItemRepository(db)
	vendor := testutil.TestVendor(t, db)

	category := testutil.TestCategory(t, db, vendor.ID)
	testutil.TestCategory(t, db, vendor.ID, testutil.WithCategoryActive(false))

	testutil.TestMenuItem(t, db, vendor.ID, category.ID)
	testutil.TestMenuItem(t, db, vendor.ID, category.ID, testutil.WithItemAvailable(false))

	categories, err := categoryRepo.CountActive(vendor.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), categories)

	items, err := itemRepo.CountAvailable(vendor.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), items)
}

func TestMenuItemRepository_ListAvailableByVendor(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMenuItemRepository(db)
	vendor := testutil.TestVendor(t, db)
	other := testutil.TestVendor(t, db)
	category := testutil.TestCategory(t, db, vendor.ID)

	visible := testutil.TestMenuItem(t, db, vendor.ID, category.ID)
	testutil.TestMenuItem(t, db, vendor.ID, category.ID, testutil.WithItemAvailable(false))
	testutil.TestMenuItem(t, db, other.ID, category.ID)

	items, err := repo.ListAvailableByVendor(vendor.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, visible.ID, items[0].ID)
}
