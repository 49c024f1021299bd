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

type PostHandler struct {
	postService *service.PostService
}

func NewPostHandler(postService *service.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// Create 创建帖子（草稿或直接发布）
// POST /api/v1/posts
func (h *PostHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	item, err := h.postService.Create(userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDraftExists):
			response.DuplicateError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "创建成功", item)
}

// Publish 发布草稿
// POST /api/v1/posts/:id/publish
func (h *PostHandler) Publish(c *gin.Context) {
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

	item, err := h.postService.Publish(userID, postID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPostNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrNotPostOwner):
			response.PermissionError(c, err.Error())
		case errors.Is(err, service.ErrNotDraft):
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "发布成功", item)
}

// Get 获取帖子详情
// GET /api/v1/posts/:id
func (h *PostHandler) Get(c *gin.Context) {
	postID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的帖子ID")
		return
	}

	item, err := h.postService.Get(postID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPostNotFound):
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, item)
}

// List 分页列出已发布帖子
// GET /api/v1/posts
func (h *PostHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	// 带 tag 参数时走标签过滤
	if tag := c.Query("tag"); tag != "" {
		items, total, err := h.postService.ListByTag(tag, page, pageSize)
		if err != nil {
			response.ServerError(c, "")
			return
		}
		response.SuccessPage(c, total, page, pageSize, items)
		return
	}

	items, total, err := h.postService.List(page, pageSize)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessPage(c, total, page, pageSize, items)
}

// Search 按标题搜索帖子
// GET /api/v1/posts/search
func (h *PostHandler) Search(c *gin.Context) {
	keyword := c.Query("q")
	if keyword == "" {
		response.ParamError(c, "缺少搜索关键词")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	items, total, err := h.postService.Search(keyword, page, pageSize)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessPage(c, total, page, pageSize, items)
}

// Top 按净赞数排序的热门帖子，可选 days 参数限定时间窗口
// GET /api/v1/posts/top
func (h *PostHandler) Top(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	days, _ := strconv.Atoi(c.DefaultQuery("days", "0"))

	items, err := h.postService.ListTop(limit, days)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, items)
}

// Delete 删除帖子及其级联内容
// DELETE /api/v1/posts/:id
func (h *PostHandler) Delete(c *gin.Context) {
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

	if err := h.postService.Delete(userID, postID); err != nil {
		switch {
		case errors.Is(err, service.ErrPostNotFound):
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
