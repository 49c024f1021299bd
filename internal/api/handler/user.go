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

type UserHandler struct {
	userService *service.UserService
	postService *service.PostService
}

func NewUserHandler(userService *service.UserService, postService *service.PostService) *UserHandler {
	return &UserHandler{
		userService: userService,
		postService: postService,
	}
}

// GetProfile 获取当前用户资料
// GET /api/v1/user/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	info, err := h.userService.GetProfile(userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, info)
}

// UpdateProfile 更新当前用户资料
// PUT /api/v1/user/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	info, err := h.userService.UpdateProfile(userID, &req)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessWithMessage(c, "更新成功", info)
}

// GetUser 获取用户公开资料
// GET /api/v1/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	targetID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的用户ID")
		return
	}

	info, err := h.userService.GetProfile(targetID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, info)
}

// GetUserStats 获取用户统计
// GET /api/v1/users/:id/stats
func (h *UserHandler) GetUserStats(c *gin.Context) {
	targetID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的用户ID")
		return
	}

	stats, err := h.userService.GetStats(targetID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, stats)
}

// ListUserPosts 获取用户的已发布帖子
// GET /api/v1/users/:id/posts
func (h *UserHandler) ListUserPosts(c *gin.Context) {
	targetID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的用户ID")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	items, total, err := h.postService.ListByPoster(targetID, page, pageSize)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessPage(c, total, page, pageSize, items)
}

// Count 注册用户总数
// GET /api/v1/users/count
func (h *UserHandler) Count(c *gin.Context) {
	count, err := h.userService.Count()
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, gin.H{"count": count})
}

// ListLatest 最新注册用户
// GET /api/v1/users/latest
func (h *UserHandler) ListLatest(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	users, err := h.userService.ListLatest(limit)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, users)
}

// SetRole 调整用户角色（仅版主）
// PUT /api/v1/users/:id/role
func (h *UserHandler) SetRole(c *gin.Context) {
	operatorID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	targetID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的用户ID")
		return
	}

	var req dto.PromoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	info, err := h.userService.SetRole(operatorID, targetID, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrPermissionDenied):
			response.PermissionError(c, err.Error())
		case errors.Is(err, service.ErrInvalidRole):
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "角色已更新", info)
}
