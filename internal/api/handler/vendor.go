package handler

import (
	"errors"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kartly/kartly_go_server/internal/api/middleware"
	"github.com/kartly/kartly_go_server/internal/model/dto"
	"github.com/kartly/kartly_go_server/internal/pkg/response"
	"github.com/kartly/kartly_go_server/internal/service"
)

// 菜品图片上限 5MB
const maxImageSize = 5 << 20

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

type VendorHandler struct {
	vendorService       *service.VendorService
	subscriptionService *service.SubscriptionService
}

func NewVendorHandler(vendorService *service.VendorService, subscriptionService *service.SubscriptionService) *VendorHandler {
	return &VendorHandler{
		vendorService:       vendorService,
		subscriptionService: subscriptionService,
	}
}

// GetQR 点单二维码路径
// GET /api/vendor/qr
func (h *VendorHandler) GetQR(c *gin.Context) {
	vendorID, _ := middleware.GetVendorID(c)

	resp, err := h.vendorService.QRPath(vendorID)
	if err != nil {
		h.renderSellableError(c, err)
		return
	}

	response.Success(c, resp)
}

// GetQRImage 点单二维码 PNG
// GET /api/vendor/qr/image?size=256
func (h *VendorHandler) GetQRImage(c *gin.Context) {
	vendorID, _ := middleware.GetVendorID(c)

	size, _ := strconv.Atoi(c.DefaultQuery("size", "256"))
	png, err := h.vendorService.QRImage(vendorID, size)
	if err != nil {
		h.renderSellableError(c, err)
		return
	}

	c.Data(200, "image/png", png)
}

// GetRealtimeToken 商户看板频道准入凭证
// GET /api/vendor/realtime-token
func (h *VendorHandler) GetRealtimeToken(c *gin.Context) {
	vendorID, _ := middleware.GetVendorID(c)

	resp, err := h.vendorService.RealtimeToken(vendorID)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, resp)
}

// GetSubscription 当前订阅视图
// GET /api/vendor/subscription
func (h *VendorHandler) GetSubscription(c *gin.Context) {
	vendorID, _ := middleware.GetVendorID(c)

	info, err := h.subscriptionService.Current(vendorID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoSubscription):
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, info)
}

// RenewSubscription 续费
// POST /api/vendor/subscription/renew
func (h *VendorHandler) RenewSubscription(c *gin.Context) {
	vendorID, _ := middleware.GetVendorID(c)

	var req dto.RenewSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	info, err := h.subscriptionService.Renew(vendorID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownPlan):
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "订阅已开通", info)
}

// UploadImage 菜品图片上传
// POST /api/vendor/upload/image
func (h *VendorHandler) UploadImage(c *gin.Context) {
	vendorID, _ := middleware.GetVendorID(c)

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		response.ParamError(c, "请上传图片文件")
		return
	}
	defer file.Close()

	if header.Size > maxImageSize {
		response.ParamError(c, "图片大小不能超过 5MB")
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedImageExts[ext] {
		response.ParamError(c, "不支持的图片格式")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	resp, err := h.vendorService.UploadMenuImage(vendorID, data, ext)
	if err != nil {
		response.ServerError(c, "图片上传失败")
		return
	}

	response.Success(c, resp)
}

// renderSellableError 二维码发放相关错误的统一映射
func (h *VendorHandler) renderSellableError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNoSubscription):
		response.PreconditionError(c, "no_subscription", err.Error())
	case errors.Is(err, service.ErrSubscriptionExpired):
		response.PreconditionError(c, "subscription_expired", err.Error())
	case errors.Is(err, service.ErrCatalogIncomplete):
		response.PreconditionError(c, "catalog_incomplete", err.Error())
	default:
		response.ServerError(c, "")
	}
}
