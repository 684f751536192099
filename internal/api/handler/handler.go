package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/litreview/internal/service"
	"github.com/d60-Lab/litreview/pkg/response"
)

// MediaFiles 把图片引用解析成磁盘路径
type MediaFiles interface {
	Path(ref string) (string, error)
}

// Handler 聚合全部 HTTP 处理函数
type Handler struct {
	userService service.UserService
	relService  service.RelationshipService
	content     service.ContentService
	feed        service.FeedService
	media       MediaFiles
}

func NewHandler(
	userService service.UserService,
	relService service.RelationshipService,
	content service.ContentService,
	feed service.FeedService,
	media MediaFiles,
) *Handler {
	return &Handler{
		userService: userService,
		relService:  relService,
		content:     content,
		feed:        feed,
		media:       media,
	}
}

// renderError 把服务层错误映射为 HTTP 状态码
func renderError(c *gin.Context, err error) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		response.ValidationFailed(c, ve.Error(), ve.Fields)
	case errors.Is(err, service.ErrSelfFollow):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Unauthorized(c, err.Error())
	case errors.Is(err, service.ErrNotOwner):
		response.Forbidden(c, err.Error())
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrTicketNotFound),
		errors.Is(err, service.ErrReviewNotFound),
		errors.Is(err, service.ErrPhotoNotFound),
		errors.Is(err, service.ErrNotFollowing):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrDuplicateFollow),
		errors.Is(err, service.ErrAlreadyReviewed),
		errors.Is(err, service.ErrUsernameTaken):
		response.Conflict(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}
