package dto

// CreateCategoryRequest 创建分类请求
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// UpdateCategoryRequest 更新分类请求
type UpdateCategoryRequest struct {
	Name     *string `json:"name,omitempty" binding:"omitempty,max=100"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// CreateMenuItemRequest 创建菜品请求
type CreateMenuItemRequest struct {
	CategoryID  int64   `json:"category_id" binding:"required"`
	Name        string  `json:"name" binding:"required,max=200"`
	Description string  `json:"description,omitempty" binding:"omitempty,max=2000"`
	Price       float64 `json:"price" binding:"required,min=0"`
	ImageURL    string  `json:"image_url,omitempty" binding:"omitempty,max=500"`
}

// UpdateMenuItemRequest 更新菜品请求
type UpdateMenuItemRequest struct {
	CategoryID  *int64   `json:"category_id,omitempty"`
	Name        *string  `json:"name,omitempty" binding:"omitempty,max=200"`
	Description *string  `json:"description,omitempty" binding:"omitempty,max=2000"`
	Price       *float64 `json:"price,omitempty" binding:"omitempty,min=0"`
	ImageURL    *string  `json:"image_url,omitempty" binding:"omitempty,max=500"`
	IsAvailable *bool    `json:"is_available,omitempty"`
}

// QRResponse 二维码路径响应（前端用自身 origin 拼接完整链接）
type QRResponse struct {
	QRPath string `json:"qr_path"`
}

// UploadImageResponse 菜品图片上传响应
type UploadImageResponse struct {
	URL string `json:"url"`
}
