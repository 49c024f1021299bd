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

type ReportHandler struct {
	reportService *service.ReportService
}

func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Create 提交举报
// POST /api/v1/reports
func (h *ReportHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	item, err := h.reportService.Create(userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidReportType):
			response.ParamError(c, err.Error())
		case errors.Is(err, service.ErrSelfReport):
			response.PermissionError(c, err.Error())
		case errors.Is(err, service.ErrPostNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrCommentNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "举报已提交", item)
}

// List 查看举报队列（仅版主）
// GET /api/v1/reports
func (h *ReportHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	targetType := c.Query("type")
	status := c.Query("status")

	items, total, err := h.reportService.List(userID, targetType, status, page, pageSize)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPermissionDenied):
			response.PermissionError(c, err.Error())
		case errors.Is(err, service.ErrInvalidReportType):
			response.ParamError(c, err.Error())
		case errors.Is(err, service.ErrInvalidReportState):
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessPage(c, total, page, pageSize, items)
}

// UpdateStatus 更新举报状态（仅版主）
// PUT /api/v1/reports/:id/status
func (h *ReportHandler) UpdateStatus(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	reportID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的举报ID")
		return
	}

	var req dto.UpdateReportStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	item, err := h.reportService.UpdateStatus(userID, reportID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPermissionDenied):
			response.PermissionError(c, err.Error())
		case errors.Is(err, service.ErrReportNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrInvalidReportState):
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "状态已更新", item)
}
