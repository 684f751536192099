package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/litreview/internal/api/middleware"
	"github.com/d60-Lab/litreview/pkg/response"
)

// Feed 当前用户的信息流
// @Summary 信息流
// @Description 自己与所关注用户的 Ticket，以及可见的 Review，按时间倒序
// @Tags 信息流
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]model.FeedItem}
// @Router /api/v1/feed [get]
func (h *Handler) Feed(c *gin.Context) {
	items, err := h.feed.GetFeed(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, items)
}

// Posts 当前用户自己发布的内容
// @Summary 我的发布
// @Tags 信息流
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]model.FeedItem}
// @Router /api/v1/posts [get]
func (h *Handler) Posts(c *gin.Context) {
	items, err := h.feed.GetUserPosts(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, items)
}
