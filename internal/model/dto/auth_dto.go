package dto

// RegisterRequest 商户注册请求
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	ShopName string `json:"shop_name" binding:"required,max=200"`
	Phone    string `json:"phone" binding:"required,max=20"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=32"`
}

// RegisterResponse 注册响应（注册即开通试用订阅）
type RegisterResponse struct {
	Token  string      `json:"token"`
	Vendor *VendorInfo `json:"vendor"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Token  string      `json:"token"`
	Vendor *VendorInfo `json:"vendor"`
}

// ForgotPasswordRequest 找回密码请求
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest 重置密码请求
type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=8,max=32"`
}

// VendorInfo 商户信息（返回给前端）
type VendorInfo struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	ShopName string `json:"shop_name"`
	Email    string `json:"email"`
	Status   string `json:"status"`
}
