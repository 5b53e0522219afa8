package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	"github.com/kartly/kartly_go_server/internal/pkg/response"
)

// AdminAuth 平台管理接口的静态密钥认证
func AdminAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := c.GetHeader("X-Admin-Secret")
		if secret == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
			response.PermissionError(c, "管理密钥无效")
			c.Abort()
			return
		}
		c.Next()
	}
}
