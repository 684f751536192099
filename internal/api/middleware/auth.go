package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/litreview/pkg/jwt"
	"github.com/d60-Lab/litreview/pkg/response"
)

const (
	ContextUserID   = "user_id"
	ContextUsername = "username"
)

// Auth 校验 Bearer token，并把当前用户写入上下文
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || raw == "" {
			response.Unauthorized(c, "missing bearer token")
			c.Abort()
			return
		}
		claims, err := jwt.ParseToken(raw, secret)
		if err != nil {
			response.Unauthorized(c, err.Error())
			c.Abort()
			return
		}
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUsername, claims.Username)
		c.Next()
	}
}

// CurrentUserID 取出 Auth 写入的用户 ID
func CurrentUserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}
