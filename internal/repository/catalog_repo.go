package repository

import (
	"gorm.io/gorm"

	"github.com/kartly/kartly_go_server/internal/model"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(category *model.Category) error {
	return r.db.Create(category).Error
}

func (r *CategoryRepository) ListActiveByVendor(vendorID int64) ([]*model.Category, error) {
	var categories []*model.Category
	err := r.db.Where("vendor_id = ? AND is_active = ?", vendorID, true).Find(&categories).Error
	return categories, err
}

func (r *CategoryRepository) ListByVendor(vendorID int64) ([]*model.Category, error) {
	var categories []*model.Category
	err := r.db.Where("vendor_id = ?", vendorID).Find(&categories).Error
	return categories, err
}

// GetScoped 租户隔离的查找：同时按 id 和 vendor_id 匹配。
// 其他租户的记录一律表现为不存在，不泄露存在性。
func (r *CategoryRepository) GetScoped(id, vendorID int64) (*model.Category, error) {
	var category model.Category
	err := r.db.Where("id = ? AND vendor_id = ?", id, vendorID).First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// UpdateScoped 租户隔离的更新
func (r *CategoryRepository) UpdateScoped(id, vendorID int64, fields map[string]interface{}) (*model.Category, error) {
	category, err := r.GetScoped(id, vendorID)
	if err != nil {
		return nil, err
	}

	if err := r.db.Model(category).Updates(fields).Error; err != nil {
		return nil, err
	}
	return category, nil
}

func (r *CategoryRepository) DeleteScoped(id, vendorID int64) error {
	result := r.db.Where("id = ? AND vendor_id = ?", id, vendorID).Delete(&model.Category{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *CategoryRepository) CountActive(vendorID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Category{}).
		Where("vendor_id = ? AND is_active = ?", vendorID, true).
		Count(&count).Error
	return count, err
}

type MenuItemRepository struct {
	db *gorm.DB
}

func NewMenuItemRepository(db *gorm.DB) *MenuItemRepository {
	return &MenuItemRepository{db: db}
}

func (r *MenuItemRepository) Create(item *model.MenuItem) error {
	return r.db.Create(item).Error
}

func (r *MenuItemRepository) ListAvailableByVendor(vendorID int64) ([]*model.MenuItem, error) {
	var items []*model.MenuItem
	err := r.db.Where("vendor_id = ? AND is_available = ?", vendorID, true).Find(&items).Error
	return items, err
}

func (r *MenuItemRepository) ListByVendor(vendorID int64) ([]*model.MenuItem, error) {
	var items []*model.MenuItem
	err := r.db.Where("vendor_id = ?", vendorID).Find(&items).Error
	return items, err
}

func (r *MenuItemRepository) GetScoped(id, vendorID int64) (*model.MenuItem, error) {
	var item model.MenuItem
	err := r.db.Where("id = ? AND vendor_id = ?", id, vendorID).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateScoped 租户隔离的更新
func (r *MenuItemRepository) UpdateScoped(id, vendorID int64, fields map[string]interface{}) (*model.MenuItem, error) {
	item, err := r.GetScoped(id, vendorID)
	if err != nil {
		return nil, err
	}

	if err := r.db.Model(item).Updates(fields).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (r *MenuItemRepository) CountAvailable(vendorID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.MenuItem{}).
		Where("vendor_id = ? AND is_available = ?", vendorID, true).
		Count(&count).Error
	return count, err
}
