package handler

import (
    "github.com/gin-gonic/gin"

    "github.com/d60-Lab/litreview/internal/api/middleware"
    "github.com/d60-Lab/litreview/pkg/response"
)

type followRequest struct {
    Username string `json:"username" binding:"required"`
}

// Follow 关注用户
// @Summary 按用户名关注
// @Tags 关系链
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body followRequest true "被关注者用户名"
// @Success 200 {object} response.Response{data=model.User}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/relations/follow [post]
func (h *Handler) Follow(c *gin.Context) {
    var req followRequest
    if err := c.ShouldBindJSON(&req); err != nil {
        response.BadRequest(c, err.Error())
        return
    }
    target, err := h.relService.Follow(c.Request.Context(), middleware.CurrentUserID(c), req.Username)
    if err != nil {
        renderError(c, err)
        return
    }
    response.Success(c, target)
}

// Unfollow 取消关注
// @Summary 取消关注
// @Tags 关系链
// @Produce json
// @Security BearerAuth
// @Param user_id path string true "被关注者ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/relations/follow/{user_id} [delete]
func (h *Handler) Unfollow(c *gin.Context) {
    if err := h.relService.Unfollow(c.Request.Context(), middleware.CurrentUserID(c), c.Param("user_id")); err != nil {
        renderError(c, err)
        return
    }
    response.Success(c, nil)
}

// ListFollowing 查询某用户关注的人
// @Summary 查询关注列表
// @Tags 关系链
// @Security BearerAuth
// @Param user_id path string true "用户ID"
// @Success 200 {object} response.Response{data=[]model.User}
// @Failure 404 {object} response.Response
// @Router /api/v1/relations/{user_id}/following [get]
func (h *Handler) ListFollowing(c *gin.Context) {
    list, err := h.relService.ListFollowing(c.Request.Context(), c.Param("user_id"))
    if err != nil {
        renderError(c, err)
        return
    }
    response.Success(c, list)
}

// ListFollowers 查询某用户的粉丝
// @Summary 查询粉丝列表
// @Tags 关系链
// @Security BearerAuth
// @Param user_id path string true "用户ID"
// @Success 200 {object} response.Response{data=[]model.User}
// @Failure 404 {object} response.Response
// @Router /api/v1/relations/{user_id}/followers [get]
func (h *Handler) ListFollowers(c *gin.Context) {
    list, err := h.relService.ListFollowers(c.Request.Context(), c.Param("user_id"))
    if err != nil {
        renderError(c, err)
        return
    }
    response.Success(c, list)
}

// Subscriptions 当前用户的关注与粉丝
// @Summary 我的订阅
// @Tags 关系链
// @Security BearerAuth
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Router /api/v1/subscriptions [get]
func (h *Handler) Subscriptions(c *gin.Context) {
    ctx := c.Request.Context()
    me := middleware.CurrentUserID(c)
    following, err := h.relService.ListFollowing(ctx, me)
    if err != nil {
        renderError(c, err)
        return
    }
    followers, err := h.relService.ListFollowers(ctx, me)
    if err != nil {
        renderError(c, err)
        return
    }
    response.Success(c, gin.H{"following": following, "followers": followers})
}
