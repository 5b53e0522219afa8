package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kartly/kartly_go_server/internal/pkg/jwt"
	"github.com/kartly/kartly_go_server/internal/pkg/response"
)

const (
	VendorIDKey = "vendorID"
)

// Auth JWT 认证中间件，解析商户登录 Token 并注入 vendorID
func Auth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.AuthError(c, "请提供认证信息")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			response.AuthError(c, "认证格式错误")
			c.Abort()
			return
		}

		claims, err := jwt.ParseToken(tokenString, jwtSecret)
		if err != nil {
			response.AuthError(c, "认证失败或已过期")
			c.Abort()
			return
		}

		c.Set(VendorIDKey, claims.VendorID)
		c.Next()
	}
}

// GetVendorID 从上下文获取商户 ID
func GetVendorID(c *gin.Context) (int64, bool) {
	vendorID, exists := c.Get(VendorIDKey)
	if !exists {
		return 0, false
	}
	id, ok := vendorID.(int64)
	return id, ok
}
