package model

// TokenTracker 每个 (vendor, 日期) 一行的取号计数器。
// 新的一天自然新建一行，序号从 1 重新开始。
type TokenTracker struct {
	ID        int64  `gorm:"primaryKey" json:"id"`
	VendorID  int64  `gorm:"not null;uniqueIndex:idx_vendor_date" json:"vendor_id"`
	Date      string `gorm:"size:10;not null;uniqueIndex:idx_vendor_date" json:"date"` // YYYY-MM-DD (UTC)
	LastToken int    `gorm:"default:0" json:"last_token"`
}

func (TokenTracker) TableName() string {
	return "token_trackers"
}
