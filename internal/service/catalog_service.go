package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/kartly/kartly_go_server/internal/model"
	"github.com/kartly/kartly_go_server/internal/model/dto"
	"github.com/kartly/kartly_go_server/internal/repository"
)

var (
	ErrCategoryNotFound = errors.New("分类不存在")
	ErrMenuItemNotFound = errors.New("菜品不存在")
)

type CatalogService struct {
	vendorRepo   *repository.VendorRepository
	categoryRepo *repository.CategoryRepository
	menuItemRepo *repository.MenuItemRepository
}

func NewCatalogService(vendorRepo *repository.VendorRepository, categoryRepo *repository.CategoryRepository, menuItemRepo *repository.MenuItemRepository) *CatalogService {
	return &CatalogService{
		vendorRepo:   vendorRepo,
		categoryRepo: categoryRepo,
		menuItemRepo: menuItemRepo,
	}
}

// CreateCategory 创建分类
func (s *CatalogService) CreateCategory(vendorID int64, req *dto.CreateCategoryRequest) (*model.Category, error) {
	category := &model.Category{
		VendorID: vendorID,
		Name:     req.Name,
		IsActive: true,
	}
	if err := s.categoryRepo.Create(category); err != nil {
		return nil, err
	}
	return category, nil
}

// ListCategories 商户全部分类（含停用的，后台管理视图）
func (s *CatalogService) ListCategories(vendorID int64) ([]*model.Category, error) {
	return s.categoryRepo.ListByVendor(vendorID)
}

// UpdateCategory 更新分类，越权访问表现为不存在
func (s *CatalogService) UpdateCategory(vendorID, categoryID int64, req *dto.UpdateCategoryRequest) (*model.Category, error) {
	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
	}

	category, err := s.categoryRepo.UpdateScoped(categoryID, vendorID, fields)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

// DeleteCategory 删除分类
func (s *CatalogService) DeleteCategory(vendorID, categoryID int64) error {
	if err := s.categoryRepo.DeleteScoped(categoryID, vendorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	return nil
}

// CreateMenuItem 创建菜品，分类必须属于当前商户
func (s *CatalogService) CreateMenuItem(vendorID int64, req *dto.CreateMenuItemRequest) (*model.MenuItem, error) {
	if _, err := s.categoryRepo.GetScoped(req.CategoryID, vendorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	item := &model.MenuItem{
		VendorID:    vendorID,
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		IsAvailable: true,
	}
	if err := s.menuItemRepo.Create(item); err != nil {
		return nil, err
	}
	return item, nil
}

// ListMenuItems 商户全部菜品（含下架的）
func (s *CatalogService) ListMenuItems(vendorID int64) ([]*model.MenuItem, error) {
	return s.menuItemRepo.ListByVendor(vendorID)
}

// UpdateMenuItem 更新菜品，越权访问表现为不存在
func (s *CatalogService) UpdateMenuItem(vendorID, itemID int64, req *dto.UpdateMenuItemRequest) (*model.MenuItem, error) {
	fields := map[string]interface{}{}
	if req.CategoryID != nil {
		if _, err := s.categoryRepo.GetScoped(*req.CategoryID, vendorID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCategoryNotFound
			}
			return nil, err
		}
		fields["category_id"] = *req.CategoryID
	}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Price != nil {
		fields["price"] = *req.Price
	}
	if req.ImageURL != nil {
		fields["image_url"] = *req.ImageURL
	}
	if req.IsAvailable != nil {
		fields["is_available"] = *req.IsAvailable
	}

	item, err := s.menuItemRepo.UpdateScoped(itemID, vendorID, fields)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMenuItemNotFound
		}
		return nil, err
	}
	return item, nil
}

// PublicCategories 顾客扫码页的可见分类
func (s *CatalogService) PublicCategories(vendorID int64) ([]*model.Category, error) {
	if err := s.ensureVendorVisible(vendorID); err != nil {
		return nil, err
	}
	return s.categoryRepo.ListActiveByVendor(vendorID)
}

// PublicMenuItems 顾客扫码页的在售菜品
func (s *CatalogService) PublicMenuItems(vendorID int64) ([]*model.MenuItem, error) {
	if err := s.ensureVendorVisible(vendorID); err != nil {
		return nil, err
	}
	return s.menuItemRepo.ListAvailableByVendor(vendorID)
}

// CatalogReady 至少一个启用分类和一个在售菜品才算可开张
func (s *CatalogService) CatalogReady(vendorID int64) (bool, error) {
	categories, err := s.categoryRepo.CountActive(vendorID)
	if err != nil {
		return false, err
	}
	items, err := s.menuItemRepo.CountAvailable(vendorID)
	if err != nil {
		return false, err
	}
	return categories > 0 && items > 0, nil
}

// ensureVendorVisible 被停用的商户对顾客不可见
func (s *CatalogService) ensureVendorVisible(vendorID int64) error {
	vendor, err := s.vendorRepo.GetByID(vendorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVendorNotFound
		}
		return err
	}
	if vendor.Status == model.VendorStatusSuspended {
		return ErrVendorNotFound
	}
	return nil
}
