package main

import (
	"context"
	"fmt"
	"log"

	"github.com/kartly/kartly_go_server/config"
	"github.com/kartly/kartly_go_server/internal/api"
	"github.com/kartly/kartly_go_server/internal/api/handler"
	"github.com/kartly/kartly_go_server/internal/database"
	"github.com/kartly/kartly_go_server/internal/pkg/cron"
	"github.com/kartly/kartly_go_server/internal/pkg/email"
	"github.com/kartly/kartly_go_server/internal/pkg/gateway"
	"github.com/kartly/kartly_go_server/internal/pkg/oss"
	"github.com/kartly/kartly_go_server/internal/pkg/pubsub"
	"github.com/kartly/kartly_go_server/internal/pkg/ws"
	"github.com/kartly/kartly_go_server/internal/repository"
	"github.com/kartly/kartly_go_server/internal/service"
)

func main() {
	// 加载配置
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化数据库
	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	log.Println("Database connected")

	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// 初始化 Redis
	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}
	log.Println("Redis connected")

	// 初始化 OSS
	ossClient, err := oss.NewClient(&cfg.OSS)
	if err != nil {
		log.Fatalf("Failed to create OSS client: %v", err)
	}

	// 初始化支付网关与邮件
	gw := gateway.NewClient(&cfg.Gateway)
	emailSvc := email.NewService(&cfg.Email)

	// 初始化 WebSocket Hub 与订单事件桥
	wsHub := ws.NewHub()
	publisher := pubsub.NewPublisher(rdb)
	subscriber := pubsub.NewSubscriber(rdb)
	go bridgeOrderEvents(subscriber, wsHub)
	log.Println("WebSocket hub started")

	// 初始化 Repository
	vendorRepo := repository.NewVendorRepository(db)
	planRepo := repository.NewPlanRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	menuItemRepo := repository.NewMenuItemRepository(db)
	tokenRepo := repository.NewTokenTrackerRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	// 初始化 Service
	subscriptionService := service.NewSubscriptionService(subRepo, planRepo, cfg)
	authService := service.NewAuthService(vendorRepo, subscriptionService, emailSvc, cfg)
	catalogService := service.NewCatalogService(vendorRepo, categoryRepo, menuItemRepo)
	orderService := service.NewOrderService(orderRepo, paymentRepo, tokenRepo, vendorRepo, subscriptionService, gw, publisher, cfg)
	paymentService := service.NewPaymentService(paymentRepo, orderRepo, gw, publisher)
	vendorService := service.NewVendorService(subscriptionService, catalogService, ossClient, cfg)
	adminService := service.NewAdminService(vendorRepo, orderRepo, subRepo)

	// 初始化 Handler
	authHandler := handler.NewAuthHandler(authService)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	orderHandler := handler.NewOrderHandler(orderService)
	webhookHandler := handler.NewWebhookHandler(paymentService)
	vendorHandler := handler.NewVendorHandler(vendorService, subscriptionService)
	adminHandler := handler.NewAdminHandler(adminService)
	websocketHandler := handler.NewWebSocketHandler(wsHub, cfg.JWT.Secret)

	// 初始化定时任务
	cronService := cron.NewService(subscriptionService, orderRepo, cfg.Order.StaleAfterHours)
	cronService.Start()
	defer cronService.Stop()

	// 初始化 Router
	router := api.NewRouter(
		authHandler,
		catalogHandler,
		orderHandler,
		webhookHandler,
		vendorHandler,
		adminHandler,
		websocketHandler,
		subscriptionService,
		cfg,
	)
	engine := router.Setup()

	// 启动服务器
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Server starting on %s", addr)
	if err := engine.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// bridgeOrderEvents 把 Redis 上的订单事件转发到本实例的 WebSocket 频道
func bridgeOrderEvents(subscriber *pubsub.Subscriber, hub *ws.Hub) {
	err := subscriber.Subscribe(context.Background(), func(event *pubsub.OrderEventMessage) {
		switch event.Type {
		case pubsub.TypeNewOrder:
			hub.Broadcast(ws.VendorRoom(event.VendorID), &ws.Message{
				Type: ws.EventNewOrder,
				Data: event.Order,
			})
		case pubsub.TypeOrderStatusUpdate:
			hub.Broadcast(ws.OrderRoom(event.OrderID), &ws.Message{
				Type: ws.EventOrderStatusUpdate,
				Data: map[string]interface{}{
					"order_id":     event.OrderID,
					"order_status": event.OrderStatus,
				},
			})
			hub.Broadcast(ws.VendorRoom(event.VendorID), &ws.Message{
				Type: ws.EventVendorOrdersRefresh,
			})
		}
	})
	if err != nil {
		log.Printf("Order event bridge stopped: %v", err)
	}
}
