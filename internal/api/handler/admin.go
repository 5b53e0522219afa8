package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kartly/kartly_go_server/internal/pkg/response"
	"github.com/kartly/kartly_go_server/internal/service"
)

type AdminHandler struct {
	adminService *service.AdminService
}

func NewAdminHandler(adminService *service.AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

// Analytics 平台汇总指标
// GET /api/admin/analytics
func (h *AdminHandler) Analytics(c *gin.Context) {
	resp, err := h.adminService.Analytics()
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, resp)
}

// ToggleVendorStatus 停用/恢复商户
// PUT /api/admin/vendor/:id/toggle-status
func (h *AdminHandler) ToggleVendorStatus(c *gin.Context) {
	vendorID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的商户 ID")
		return
	}

	vendor, err := h.adminService.ToggleVendorStatus(vendorID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrVendorNotFound):
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, vendor)
}
