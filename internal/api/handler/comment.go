package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/showcase_go_server/internal/api/middleware"
	"github.com/qs3c/showcase_go_server/internal/model/dto"
	"github.com/qs3c/showcase_go_server/internal/pkg/response"
	"github.com/qs3c/showcase_go_server/internal/service"
)

type CommentHandler struct {
	commentService *service.CommentService
}

func NewCommentHandler(commentService *service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// Create 创建评论
// POST /api/v1/posts/:id/comments
func (h *CommentHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	postID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的帖子ID")
		return
	}

	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	item, err := h.commentService.Create(userID, postID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPostNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrPostNotPublished):
			response.ParamError(c, err.Error())
		case errors.Is(err, service.ErrParentNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrParentMismatch):
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "评论成功", item)
}

// List 获取帖子的评论树
// GET /api/v1/posts/:id/comments
func (h *CommentHandler) List(c *gin.Context) {
	postID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的帖子ID")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	items, total, err := h.commentService.ListByPost(postID, page, pageSize)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPostNotFound):
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessPage(c, total, page, pageSize, items)
}

// Delete 删除评论及其回复
// DELETE /api/v1/comments/:id
func (h *CommentHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	commentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的评论ID")
		return
	}

	if err := h.commentService.Delete(userID, commentID); err != nil {
		switch {
		case errors.Is(err, service.ErrCommentNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrPermissionDenied):
			response.PermissionError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "删除成功", nil)
}
