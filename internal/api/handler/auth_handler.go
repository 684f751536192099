package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/litreview/internal/model"
	"github.com/d60-Lab/litreview/internal/service"
	"github.com/d60-Lab/litreview/pkg/response"
)

type authResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// Signup 注册
// @Summary 注册并返回 token
// @Tags 用户
// @Accept json
// @Produce json
// @Param request body service.Credentials true "用户名与密码"
// @Success 201 {object} response.Response{data=authResponse}
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/auth/signup [post]
func (h *Handler) Signup(c *gin.Context) {
	var in service.Credentials
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	u, token, err := h.userService.Register(c.Request.Context(), in)
	if err != nil {
		renderError(c, err)
		return
	}
	response.Created(c, authResponse{Token: token, User: u})
}

// Login 登录
// @Summary 登录并返回 token
// @Tags 用户
// @Accept json
// @Produce json
// @Param request body service.Credentials true "用户名与密码"
// @Success 200 {object} response.Response{data=authResponse}
// @Failure 401 {object} response.Response
// @Router /api/v1/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var in service.Credentials
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	u, token, err := h.userService.Login(c.Request.Context(), in)
	if err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, authResponse{Token: token, User: u})
}
