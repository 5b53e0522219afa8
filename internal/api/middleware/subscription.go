package middleware

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kartly/kartly_go_server/internal/pkg/response"
	"github.com/kartly/kartly_go_server/internal/service"
)

// SubscriptionGate 公开下单路由的订阅闸门。商户订阅不可用时顾客不能下单，
// 响应里带机器可读的原因码，扫码页据此展示不同提示。
func SubscriptionGate(subSvc *service.SubscriptionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		vendorID, err := strconv.ParseInt(c.Param("vendorId"), 10, 64)
		if err != nil {
			response.ParamError(c, "无效的商户 ID")
			c.Abort()
			return
		}

		if err := subSvc.EnsureActive(vendorID); err != nil {
			switch {
			case errors.Is(err, service.ErrNoSubscription):
				response.PreconditionError(c, "no_subscription", err.Error())
			case errors.Is(err, service.ErrSubscriptionExpired):
				response.PreconditionError(c, "subscription_expired", err.Error())
			default:
				response.ServerError(c, "")
			}
			c.Abort()
			return
		}

		c.Next()
	}
}
