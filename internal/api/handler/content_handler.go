package handler

import (
	"errors"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/litreview/internal/api/middleware"
	"github.com/d60-Lab/litreview/internal/model"
	"github.com/d60-Lab/litreview/internal/service"
	"github.com/d60-Lab/litreview/internal/storage"
	"github.com/d60-Lab/litreview/pkg/response"
)

// CreateTicket 发布 Ticket
// @Summary 发布求评
// @Tags 内容
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.TicketInput true "Ticket"
// @Success 201 {object} response.Response{data=model.Ticket}
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /api/v1/tickets [post]
func (h *Handler) CreateTicket(c *gin.Context) {
	var in service.TicketInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	t, err := h.content.CreateTicket(c.Request.Context(), middleware.CurrentUserID(c), in)
	if err != nil {
		renderError(c, err)
		return
	}
	response.Created(c, t)
}

// GetTicket 查询 Ticket
// @Summary 查询求评
// @Tags 内容
// @Produce json
// @Security BearerAuth
// @Param id path string true "Ticket ID"
// @Success 200 {object} response.Response{data=model.Ticket}
// @Failure 404 {object} response.Response
// @Router /api/v1/tickets/{id} [get]
func (h *Handler) GetTicket(c *gin.Context) {
	t, err := h.content.GetTicket(c.Request.Context(), c.Param("id"))
	if err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, t)
}

// UpdateTicket 修改 Ticket，仅作者可操作
// @Summary 修改求评
// @Tags 内容
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Ticket ID"
// @Param request body service.TicketInput true "Ticket"
// @Success 200 {object} response.Response{data=model.Ticket}
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/tickets/{id} [put]
func (h *Handler) UpdateTicket(c *gin.Context) {
	var in service.TicketInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	t, err := h.content.UpdateTicket(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), in)
	if err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, t)
}

// DeleteTicket 删除 Ticket 及其全部 Review
// @Summary 删除求评
// @Tags 内容
// @Security BearerAuth
// @Param id path string true "Ticket ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/tickets/{id} [delete]
func (h *Handler) DeleteTicket(c *gin.Context) {
	if err := h.content.DeleteTicket(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id")); err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, nil)
}

// CreateReview 评论某个 Ticket
// @Summary 发表评论
// @Tags 内容
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Ticket ID"
// @Param request body service.ReviewInput true "Review"
// @Success 201 {object} response.Response{data=model.Review}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/tickets/{id}/reviews [post]
func (h *Handler) CreateReview(c *gin.Context) {
	var in service.ReviewInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	r, err := h.content.CreateReview(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), in)
	if err != nil {
		renderError(c, err)
		return
	}
	response.Created(c, r)
}

type ticketReviewRequest struct {
	Ticket service.TicketInput `json:"ticket"`
	Review service.ReviewInput `json:"review"`
}

type ticketReviewResponse struct {
	Ticket *model.Ticket `json:"ticket"`
	Review *model.Review `json:"review"`
}

// CreateTicketWithReview 一次提交 Ticket 与自己的评论
// @Summary 发布求评并评论
// @Tags 内容
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ticketReviewRequest true "Ticket 与 Review"
// @Success 201 {object} response.Response{data=ticketReviewResponse}
// @Failure 400 {object} response.Response
// @Router /api/v1/ticket-reviews [post]
func (h *Handler) CreateTicketWithReview(c *gin.Context) {
	var req ticketReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	t, r, err := h.content.CreateTicketWithReview(c.Request.Context(), middleware.CurrentUserID(c), req.Ticket, req.Review)
	if err != nil {
		renderError(c, err)
		return
	}
	response.Created(c, ticketReviewResponse{Ticket: t, Review: r})
}

// GetReview 查询 Review
// @Summary 查询评论
// @Tags 内容
// @Produce json
// @Security BearerAuth
// @Param id path string true "Review ID"
// @Success 200 {object} response.Response{data=model.Review}
// @Failure 404 {object} response.Response
// @Router /api/v1/reviews/{id} [get]
func (h *Handler) GetReview(c *gin.Context) {
	r, err := h.content.GetReview(c.Request.Context(), c.Param("id"))
	if err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, r)
}

// UpdateReview 修改 Review，仅作者可操作
// @Summary 修改评论
// @Tags 内容
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Review ID"
// @Param request body service.ReviewInput true "Review"
// @Success 200 {object} response.Response{data=model.Review}
// @Failure 403 {object} response.Response
// @Router /api/v1/reviews/{id} [put]
func (h *Handler) UpdateReview(c *gin.Context) {
	var in service.ReviewInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	r, err := h.content.UpdateReview(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), in)
	if err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, r)
}

// DeleteReview 删除 Review
// @Summary 删除评论
// @Tags 内容
// @Security BearerAuth
// @Param id path string true "Review ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /api/v1/reviews/{id} [delete]
func (h *Handler) DeleteReview(c *gin.Context) {
	if err := h.content.DeleteReview(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id")); err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, nil)
}

// UploadPhoto 上传图片
// @Summary 上传图片
// @Tags 图片
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param image formData file true "图片文件"
// @Success 201 {object} response.Response{data=model.Photo}
// @Failure 400 {object} response.Response
// @Router /api/v1/photos [post]
func (h *Handler) UploadPhoto(c *gin.Context) {
	fh, err := c.FormFile("image")
	if err != nil {
		response.BadRequest(c, "image file is required")
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	defer f.Close()

	p, err := h.content.UploadPhoto(c.Request.Context(), middleware.CurrentUserID(c), f)
	if err != nil {
		renderError(c, err)
		return
	}
	response.Created(c, p)
}

// DeletePhoto 删除图片，引用它的 Ticket 不再展示图片
// @Summary 删除图片
// @Tags 图片
// @Security BearerAuth
// @Param id path string true "Photo ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /api/v1/photos/{id} [delete]
func (h *Handler) DeletePhoto(c *gin.Context) {
	if err := h.content.DeletePhoto(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id")); err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, nil)
}

// Media 返回图片文件内容
// @Summary 读取图片
// @Tags 图片
// @Param ref path string true "图片引用"
// @Success 200 {file} file
// @Failure 404 {object} response.Response
// @Router /api/v1/media/{ref} [get]
func (h *Handler) Media(c *gin.Context) {
	path, err := h.media.Path(c.Param("ref"))
	switch {
	case errors.Is(err, storage.ErrInvalidRef), errors.Is(err, os.ErrNotExist):
		response.NotFound(c, "media not found")
		return
	case err != nil:
		response.InternalError(c, err)
		return
	}
	c.Header("Cache-Control", "public, max-age=31536000, immutable")
	c.File(path)
}
