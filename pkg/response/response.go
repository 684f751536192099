package response

import (
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/litreview/pkg/logger"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func JSON(c *gin.Context, status int, code int, message string, data interface{}) {
	c.JSON(status, Response{Code: code, Message: message, Data: data})
}

func Success(c *gin.Context, data interface{}) {
	JSON(c, http.StatusOK, 0, "success", data)
}

func Created(c *gin.Context, data interface{}) {
	JSON(c, http.StatusCreated, 0, "created", data)
}

func BadRequest(c *gin.Context, message string) {
	JSON(c, http.StatusBadRequest, http.StatusBadRequest, message, nil)
}

// ValidationFailed 携带字段级错误明细
func ValidationFailed(c *gin.Context, message string, details interface{}) {
	JSON(c, http.StatusBadRequest, http.StatusBadRequest, message, details)
}

func Unauthorized(c *gin.Context, message string) {
	JSON(c, http.StatusUnauthorized, http.StatusUnauthorized, message, nil)
}

func Forbidden(c *gin.Context, message string) {
	JSON(c, http.StatusForbidden, http.StatusForbidden, message, nil)
}

func NotFound(c *gin.Context, message string) {
	JSON(c, http.StatusNotFound, http.StatusNotFound, message, nil)
}

func Conflict(c *gin.Context, message string) {
	JSON(c, http.StatusConflict, http.StatusConflict, message, nil)
}

func TooManyRequests(c *gin.Context) {
	JSON(c, http.StatusTooManyRequests, http.StatusTooManyRequests, "too many requests", nil)
}

// InternalError 记录并上报错误，对外只返回通用信息
func InternalError(c *gin.Context, err error) {
	logger.Error("internal error",
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	if hub := sentry.GetHubFromContext(c.Request.Context()); hub != nil {
		hub.CaptureException(err)
	} else {
		sentry.CaptureException(err)
	}
	JSON(c, http.StatusInternalServerError, http.StatusInternalServerError, "internal server error", nil)
}
