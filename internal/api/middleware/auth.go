package middleware

import (
	"WorkUs/internal/pkg/logger"
	"WorkUs/internal/pkg/response"
	"WorkUs/internal/pkg/security"
	"context"
	"strings"

	"github.com/gin-gonic/gin"
)

// 写入 gin.Context 的身份键
const (
	UserIDKey    = "user_id"
	UserEmailKey = "user_email"
	RolesKey     = "roles"
)

// AuthMiddleware 负责验证 JWT 并将用户身份信息注入 Context
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			response.Fail(c, response.Unauthorized, "Token 缺失或格式错误")
			c.Abort()
			return
		}

		claims, err := security.ValidateToken(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			response.Fail(c, response.Unauthorized, "Token 无效或已过期")
			c.Abort()
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(UserEmailKey, claims.Email)
		c.Set(RolesKey, claims.Roles)

		newCtx := context.WithValue(c.Request.Context(), logger.ActorIDKey, claims.UserID)
		c.Request = c.Request.WithContext(newCtx)

		c.Next()
	}
}
