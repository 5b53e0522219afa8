package api

import (
	"github.com/gin-gonic/gin"

	"github.com/kartly/kartly_go_server/config"
	"github.com/kartly/kartly_go_server/internal/api/handler"
	"github.com/kartly/kartly_go_server/internal/api/middleware"
	"github.com/kartly/kartly_go_server/internal/service"
)

type Router struct {
	authHandler      *handler.AuthHandler
	catalogHandler   *handler.CatalogHandler
	orderHandler     *handler.OrderHandler
	webhookHandler   *handler.WebhookHandler
	vendorHandler    *handler.VendorHandler
	adminHandler     *handler.AdminHandler
	websocketHandler *handler.WebSocketHandler
	subscriptionSvc  *service.SubscriptionService
	cfg              *config.Config
}

func NewRouter(
	authHandler *handler.AuthHandler,
	catalogHandler *handler.CatalogHandler,
	orderHandler *handler.OrderHandler,
	webhookHandler *handler.WebhookHandler,
	vendorHandler *handler.VendorHandler,
	adminHandler *handler.AdminHandler,
	websocketHandler *handler.WebSocketHandler,
	subscriptionSvc *service.SubscriptionService,
	cfg *config.Config,
) *Router {
	return &Router{
		authHandler:      authHandler,
		catalogHandler:   catalogHandler,
		orderHandler:     orderHandler,
		webhookHandler:   webhookHandler,
		vendorHandler:    vendorHandler,
		adminHandler:     adminHandler,
		websocketHandler: websocketHandler,
		subscriptionSvc:  subscriptionSvc,
		cfg:              cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	if r.cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS(r.cfg.CORS))

	api := engine.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{"status": "ok"})
		})

		// WebSocket
		api.GET("/ws", r.websocketHandler.Handle)

		// 公开接口 - 扫码页、下单、回执、支付回调
		public := api.Group("/public")
		{
			public.GET("/:vendorId/categories", r.catalogHandler.PublicCategories)
			public.GET("/:vendorId/menu-items", r.catalogHandler.PublicMenuItems)
			public.POST("/:vendorId/order",
				middleware.SubscriptionGate(r.subscriptionSvc),
				r.orderHandler.Create)
			public.GET("/orders/:orderId", r.orderHandler.GetReceipt)
			public.POST("/webhook/payments", r.webhookHandler.HandlePayment)
		}

		// 公开接口 - 认证
		auth := api.Group("/auth")
		{
			auth.POST("/register", r.authHandler.Register)
			auth.POST("/login", r.authHandler.Login)
			auth.POST("/forgot-password", r.authHandler.ForgotPassword)
			auth.POST("/reset-password", r.authHandler.ResetPassword)
		}

		// 商户接口（需要认证）
		vendor := api.Group("/vendor")
		vendor.Use(middleware.Auth(r.cfg.JWT.Secret))
		{
			vendor.POST("/categories", r.catalogHandler.CreateCategory)
			vendor.GET("/categories", r.catalogHandler.ListCategories)
			vendor.PUT("/categories/:id", r.catalogHandler.UpdateCategory)
			vendor.DELETE("/categories/:id", r.catalogHandler.DeleteCategory)

			vendor.POST("/menu-items", r.catalogHandler.CreateMenuItem)
			vendor.GET("/menu-items", r.catalogHandler.ListMenuItems)
			vendor.PUT("/menu-items/:id", r.catalogHandler.UpdateMenuItem)

			vendor.POST("/upload/image", r.vendorHandler.UploadImage)

			vendor.GET("/qr", r.vendorHandler.GetQR)
			vendor.GET("/qr/image", r.vendorHandler.GetQRImage)

			vendor.GET("/orders", r.orderHandler.List)
			vendor.PUT("/orders/:orderId/status", r.orderHandler.UpdateStatus)

			vendor.GET("/realtime-token", r.vendorHandler.GetRealtimeToken)
			vendor.GET("/subscription", r.vendorHandler.GetSubscription)
			vendor.POST("/subscription/renew", r.vendorHandler.RenewSubscription)
		}

		// 平台管理接口
		admin := api.Group("/admin")
		admin.Use(middleware.AdminAuth(r.cfg.Admin.Secret))
		{
			admin.GET("/analytics", r.adminHandler.Analytics)
			admin.PUT("/vendor/:id/toggle-status", r.adminHandler.ToggleVendorStatus)
		}
	}

	return engine
}
