package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/litreview/pkg/logger"
	"github.com/d60-Lab/litreview/pkg/response"
)

// Recovery 兜底 panic，返回统一的 500 响应。
// 需放在 sentrygin 之前，sentrygin 上报后会重新抛出
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("panic recovered",
					zap.Any("panic", rec),
					zap.String("path", c.Request.URL.Path),
					zap.ByteString("stack", debug.Stack()),
				)
				if c.Writer.Written() {
					c.AbortWithStatus(http.StatusInternalServerError)
					return
				}
				response.JSON(c, http.StatusInternalServerError, http.StatusInternalServerError,
					"internal server error", nil)
				c.Abort()
			}
		}()
		c.Next()
	}
}
