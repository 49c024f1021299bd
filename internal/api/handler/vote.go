package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/showcase_go_server/internal/api/middleware"
	"github.com/qs3c/showcase_go_server/internal/model"
	"github.com/qs3c/showcase_go_server/internal/model/dto"
	"github.com/qs3c/showcase_go_server/internal/pkg/response"
	"github.com/qs3c/showcase_go_server/internal/service"
)

type VoteHandler struct {
	voteService *service.VoteService
}

func NewVoteHandler(voteService *service.VoteService) *VoteHandler {
	return &VoteHandler{voteService: voteService}
}

// Cast 投票或撤销（value 取 -1/0/1）
func (h *VoteHandler) Cast(kind model.VoteKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.GetUserID(c)
		if !ok {
			response.AuthError(c, "")
			return
		}

		targetID, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			response.ParamError(c, "无效的目标ID")
			return
		}

		var req dto.VoteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.ParamError(c, err.Error())
			return
		}

		counts, err := h.voteService.Cast(userID, kind, targetID, *req.Value)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrInvalidVoteValue):
				response.ParamError(c, err.Error())
			case errors.Is(err, service.ErrPostNotFound):
				response.NotFoundError(c, err.Error())
			case errors.Is(err, service.ErrPostNotPublished):
				response.ParamError(c, err.Error())
			case errors.Is(err, service.ErrCommentNotFound):
				response.NotFoundError(c, err.Error())
			case errors.Is(err, service.ErrReviewNotFound):
				response.NotFoundError(c, err.Error())
			default:
				response.ServerError(c, "")
			}
			return
		}

		response.SuccessWithMessage(c, "投票成功", counts)
	}
}

// GetCounts 获取目标的投票统计
func (h *VoteHandler) GetCounts(kind model.VoteKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		targetID, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			response.ParamError(c, "无效的目标ID")
			return
		}

		counts, err := h.voteService.GetCounts(kind, targetID)
		if err != nil {
			response.ServerError(c, "")
			return
		}

		// 登录用户附带自己的投票值
		if userID, ok := middleware.GetUserID(c); ok {
			own, err := h.voteService.GetOwn(userID, kind, targetID)
			if err != nil {
				response.ServerError(c, "")
				return
			}
			response.Success(c, gin.H{
				"upvotes":   counts.Upvotes,
				"downvotes": counts.Downvotes,
				"own_vote":  own,
			})
			return
		}

		response.Success(c, counts)
	}
}
