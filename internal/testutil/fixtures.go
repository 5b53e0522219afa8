package testutil

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/kartly/kartly_go_server/internal/model"
)

// TestVendor 创建测试商户
func TestVendor(t *testing.T, db *gorm.DB, opts ...func(*model.Vendor)) *model.Vendor {
	t.Helper()

	vendor := &model.Vendor{
		Name:         "Test Owner",
		ShopName:     fmt.Sprintf("Test Shop %d", time.Now().UnixNano()%100000),
		Phone:        "13800000000",
		Email:        fmt.Sprintf("vendor_%d@example.com", time.Now().UnixNano()),
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuvwxyz123456", // bcrypt hash placeholder
		Status:       model.VendorStatusActive,
	}

	for _, opt := range opts {
		opt(vendor)
	}

	if err := db.Create(vendor).Error; err != nil {
		t.Fatalf("Failed to create test vendor: %v", err)
	}

	return vendor
}

// WithVendorStatus 设置商户状态
func WithVendorStatus(status string) func(*model.Vendor) {
	return func(v *model.Vendor) {
		v.Status = status
	}
}

// WithVendorEmail 设置商户邮箱
func WithVendorEmail(email string) func(*model.Vendor) {
	return func(v *model.Vendor) {
		v.Email = email
	}
}

// TestPlan 创建测试套餐
func TestPlan(t *testing.T, db *gorm.DB, opts ...func(*model.Plan)) *model.Plan {
	t.Helper()

	plan := &model.Plan{
		Name:         fmt.Sprintf("PLAN_%d", time.Now().UnixNano()%1000000),
		Price:        499,
		DurationDays: 30,
	}

	for _, opt := range opts {
		opt(plan)
	}

	if err := db.Create(plan).Error; err != nil {
		t.Fatalf("Failed to create test plan: %v", err)
	}

	return plan
}

// WithPlanName 设置套餐名
func WithPlanName(name string) func(*model.Plan) {
	return func(p *model.Plan) {
		p.Name = name
	}
}

// WithOrderLimit 设置套餐订单额度
func WithOrderLimit(limit int) func(*model.Plan) {
	return func(p *model.Plan) {
		p.OrderLimit = limit
	}
}

// TestSubscription 创建测试订阅，默认 ACTIVE 且 30 天后到期
func TestSubscription(t *testing.T, db *gorm.DB, vendorID, planID int64, opts ...func(*model.Subscription)) *model.Subscription {
	t.Helper()

	now := time.Now()
	sub := &model.Subscription{
		VendorID:  vendorID,
		PlanID:    planID,
		StartDate: now,
		EndDate:   now.AddDate(0, 0, 30),
		Status:    model.SubscriptionStatusActive,
	}

	for _, opt := range opts {
		opt(sub)
	}

	if err := db.Create(sub).Error; err != nil {
		t.Fatalf("Failed to create test subscription: %v", err)
	}

	return sub
}

// WithSubscriptionStatus 设置订阅状态
func WithSubscriptionStatus(status string) func(*model.Subscription) {
	return func(s *model.Subscription) {
		s.Status = status
	}
}

// WithEndDate 设置订阅到期时间
func WithEndDate(endDate time.Time) func(*model.Subscription) {
	return func(s *model.Subscription) {
		s.EndDate = endDate
	}
}

// TestCategory 创建测试分类
func TestCategory(t *testing.T, db *gorm.DB, vendorID int64, opts ...func(*model.Category)) *model.Category {
	t.Helper()

	category := &model.Category{
		VendorID: vendorID,
		Name:     "Starters",
		IsActive: true,
	}

	for _, opt := range opts {
		opt(category)
	}

	// 字段带 default:true 标签时，GORM 在插入时会忽略零值 false 并回填默认值，需显式落库
	isActive := category.IsActive

	if err := db.Create(category).Error; err != nil {
		t.Fatalf("Failed to create test category: %v", err)
	}

	if !isActive {
		if err := db.Model(category).Update("is_active", false).Error; err != nil {
			t.Fatalf("Failed to update test category: %v", err)
		}
	}

	return category
}

// WithCategoryActive 设置分类启用状态
func WithCategoryActive(active bool) func(*model.Category) {
	return func(c *model.Category) {
		c.IsActive = active
	}
}

// TestMenuItem 创建测试菜品
func TestMenuItem(t *testing.T, db *gorm.DB, vendorID, categoryID int64, opts ...func(*model.MenuItem)) *model.MenuItem {
	t.Helper()

	item := &model.MenuItem{
		VendorID:    vendorID,
		CategoryID:  categoryID,
		Name:        "Masala Dosa",
		Price:       120,
		IsAvailable: true,
	}

	for _, opt := range opts {
		opt(item)
	}

	// 字段带 default:true 标签时，GORM 在插入时会忽略零值 false 并回填默认值，需显式落库
	isAvailable := item.IsAvailable

	if err := db.Create(item).Error; err != nil {
		t.Fatalf("Failed to create test menu item: %v", err)
	}

	if !isAvailable {
		if err := db.Model(item).Update("is_available", false).Error; err != nil {
			t.Fatalf("Failed to update test menu item: %v", err)
		}
	}

	return item
}

// WithItemAvailable 设置菜品在售状态
func WithItemAvailable(available bool) func(*model.MenuItem) {
	return func(m *model.MenuItem) {
		m.IsAvailable = available
	}
}

// TestOrder 创建测试订单
func TestOrder(t *testing.T, db *gorm.DB, vendorID int64, opts ...func(*model.Order)) *model.Order {
	t.Helper()

	order := &model.Order{
		VendorID:    vendorID,
		TokenNumber: 1,
		Items: model.OrderItems{
			{MenuItemID: 1, Name: "Masala Dosa", Quantity: 2, UnitPrice: 120, TotalPrice: 240},
		},
		Subtotal:      240,
		TaxAmount:     12,
		TotalAmount:   252,
		PaymentStatus: model.PaymentStatusInitiated,
		OrderStatus:   model.OrderStatusPending,
	}

	for _, opt := range opts {
		opt(order)
	}

	if err := db.Create(order).Error; err != nil {
		t.Fatalf("Failed to create test order: %v", err)
	}

	return order
}

// WithPaymentStatus 设置订单支付状态
func WithPaymentStatus(status string) func(*model.Order) {
	return func(o *model.Order) {
		o.PaymentStatus = status
	}
}

// WithOrderStatus 设置订单状态
func WithOrderStatus(status string) func(*model.Order) {
	return func(o *model.Order) {
		o.OrderStatus = status
	}
}

// WithCreatedAt 设置订单创建时间
func WithCreatedAt(createdAt time.Time) func(*model.Order) {
	return func(o *model.Order) {
		o.CreatedAt = createdAt
	}
}

// TestPayment 创建测试支付记录
func TestPayment(t *testing.T, db *gorm.DB, vendorID, orderID int64, opts ...func(*model.Payment)) *model.Payment {
	t.Helper()

	payment := &model.Payment{
		VendorID:       vendorID,
		OrderID:        orderID,
		GatewayOrderID: fmt.Sprintf("order_gw_%d", time.Now().UnixNano()),
		Amount:         252,
		Status:         model.PaymentCreated,
	}

	for _, opt := range opts {
		opt(payment)
	}

	if err := db.Create(payment).Error; err != nil {
		t.Fatalf("Failed to create test payment: %v", err)
	}

	return payment
}

// WithGatewayOrderID 设置网关订单号
func WithGatewayOrderID(id string) func(*model.Payment) {
	return func(p *model.Payment) {
		p.GatewayOrderID = id
	}
}

// WithPaymentRecordStatus 设置支付记录状态
func WithPaymentRecordStatus(status string) func(*model.Payment) {
	return func(p *model.Payment) {
		p.Status = status
	}
}
