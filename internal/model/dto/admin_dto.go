package dto

// AdminMetrics 平台级汇总指标
type AdminMetrics struct {
	TotalVendors         int64   `json:"total_vendors"`
	ActiveVendors        int64   `json:"active_vendors"`
	TotalOrders          int64   `json:"total_orders"`
	TotalPlatformRevenue float64 `json:"total_platform_revenue"`
	ActiveSubs           int64   `json:"active_subs"`
	TrialSubs            int64   `json:"trial_subs"`
	ExpiredSubs          int64   `json:"expired_subs"`
}

// AdminSubscriptionItem 订阅列表项（带商户信息）
type AdminSubscriptionItem struct {
	ID           int64  `json:"id"`
	VendorName   string `json:"vendor_name"`
	ShopName     string `json:"shop_name"`
	VendorStatus string `json:"vendor_status"`
	Plan         string `json:"plan"`
	Status       string `json:"status"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
}

// AdminAnalyticsResponse 平台分析响应
type AdminAnalyticsResponse struct {
	Metrics       *AdminMetrics            `json:"metrics"`
	Subscriptions []*AdminSubscriptionItem `json:"subscriptions"`
}
