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

type OrderHandler struct {
	orderService *service.OrderService
}

func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// Create 顾客下单
// POST /api/public/:vendorId/order
func (h *OrderHandler) Create(c *gin.Context) {
	vendorID, err := strconv.ParseInt(c.Param("vendorId"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的商户 ID")
		return
	}

	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.orderService.Create(c.Request.Context(), vendorID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrVendorNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrInvalidAmount):
			response.ParamError(c, err.Error())
		case errors.Is(err, service.ErrNoSubscription):
			response.PreconditionError(c, "no_subscription", err.Error())
		case errors.Is(err, service.ErrSubscriptionExpired):
			response.PreconditionError(c, "subscription_expired", err.Error())
		case errors.Is(err, service.ErrOrderLimitReached):
			response.PreconditionError(c, "order_limit_reached", err.Error())
		case errors.Is(err, service.ErrGatewayUnavailable):
			response.UpstreamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, resp)
}

// GetReceipt 顾客回执页
// GET /api/public/orders/:orderId
func (h *OrderHandler) GetReceipt(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("orderId"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的订单 ID")
		return
	}

	receipt, err := h.orderService.GetReceipt(orderID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, receipt)
}

// List 商户订单看板
// GET /api/vendor/orders?payment_status=SUCCESS&page=1&page_size=20
func (h *OrderHandler) List(c *gin.Context) {
	vendorID, _ := middleware.GetVendorID(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	paymentStatus := c.Query("payment_status")

	orders, total, err := h.orderService.ListByVendor(vendorID, paymentStatus, page, pageSize)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, gin.H{
		"orders": orders,
		"total":  total,
	})
}

// UpdateStatus 商户推进订单状态
// PUT /api/vendor/orders/:orderId/status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	vendorID, _ := middleware.GetVendorID(c)

	orderID, err := strconv.ParseInt(c.Param("orderId"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的订单 ID")
		return
	}

	var req dto.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	order, err := h.orderService.UpdateStatus(c.Request.Context(), vendorID, orderID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidStatus):
			response.ParamError(c, err.Error())
		case errors.Is(err, service.ErrOrderNotFound):
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, order)
}
