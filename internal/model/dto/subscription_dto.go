package dto

// RenewSubscriptionRequest 续费请求
type RenewSubscriptionRequest struct {
	Plan string `json:"plan" binding:"required,oneof=TRIAL BASIC PREMIUM"`
}

// SubscriptionInfo 当前订阅视图
type SubscriptionInfo struct {
	Plan      string `json:"plan"`
	Status    string `json:"status"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// RealtimeTokenResponse 实时频道准入凭证
type RealtimeTokenResponse struct {
	Token string `json:"token"`
}
