package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kartly/kartly_go_server/internal/api/middleware"
	"github.com/kartly/kartly_go_server/internal/model/dto"
	"github.com/kartly/kartly_go_server/internal/pkg/response"
	"github.com/kartly/kartly_go_server/internal/service"
)

type CatalogHandler struct {
	catalogService *service.CatalogService
}

func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
	}
}

// CreateCategory 创建分类
// POST /api/vendor/categories
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	vendorID, _ := middleware.GetVendorID(c)

	var req dto.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	category, err := h.catalogService.CreateCategory(vendorID, &req)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, category)
}

// ListCategories 商户分类列表
// GET /api/vendor/categories
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	vendorID, _ := middleware.GetVendorID(c)

	categories, err := h.catalogService.ListCategories(vendorID)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, categories)
}

// UpdateCategory 更新分类
// PUT /api/vendor/categories/:id
func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	vendorID, _ := middleware.GetVendorID(c)

	categoryID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的分类 ID")
		return
	}

	var req dto.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	category, err := h.catalogService.UpdateCategory(vendorID, categoryID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCategoryNotFound):
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, category)
}

// DeleteCategory 删除分类
// DELETE /api/vendor/categories/:id
func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	vendorID, _ := middleware.GetVendorID(c)

	categoryID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的分类 ID")
		return
	}

	if err := h.catalogService.DeleteCategory(vendorID, categoryID); err != nil {
		switch {
		case errors.Is(err, service.ErrCategoryNotFound):
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "删除成功", nil)
}

// CreateMenuItem 创建菜品
// POST /api/vendor/menu-items
func (h *CatalogHandler) CreateMenuItem(c *gin.Context) {
	vendorID, _ := middleware.GetVendorID(c)

	var req dto.CreateMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	item, err := h.catalogService.CreateMenuItem(vendorID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCategoryNotFound):
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, item)
}

// ListMenuItems 商户菜品列表
// GET /api/vendor/menu-items
func (h *CatalogHandler) ListMenuItems(c *gin.Context) {
	vendorID, _ := middleware.GetVendorID(c)

	items, err := h.catalogService.ListMenuItems(vendorID)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, items)
}

// UpdateMenuItem 更新菜品
// PUT /api/vendor/menu-items/:id
func (h *CatalogHandler) UpdateMenuItem(c *gin.Context) {
	vendorID, _ := middleware.GetVendorID(c)

	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的菜品 ID")
		return
	}

	var req dto.UpdateMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	item, err := h.catalogService.UpdateMenuItem(vendorID, itemID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMenuItemNotFound), errors.Is(err, service.ErrCategoryNotFound):
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, item)
}

// PublicCategories 顾客扫码页的分类
// GET /api/public/:vendorId/categories
func (h *CatalogHandler) PublicCategories(c *gin.Context) {
	vendorID, err := strconv.ParseInt(c.Param("vendorId"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的商户 ID")
		return
	}

	categories, err := h.catalogService.PublicCategories(vendorID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrVendorNotFound):
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, categories)
}

// PublicMenuItems 顾客扫码页的在售菜品
// GET /api/public/:vendorId/menu-items
func (h *CatalogHandler) PublicMenuItems(c *gin.Context) {
	vendorID, err := strconv.ParseInt(c.Param("vendorId"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的商户 ID")
		return
	}

	items, err := h.catalogService.PublicMenuItems(vendorID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrVendorNotFound):
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, items)
}
