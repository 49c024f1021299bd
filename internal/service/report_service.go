package service

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/showcase_go_server/internal/model"
	"github.com/qs3c/showcase_go_server/internal/model/dto"
	"github.com/qs3c/showcase_go_server/internal/repository"
)

var (
	ErrReportNotFound     = errors.New("举报不存在")
	ErrInvalidReportType  = errors.New("无效的举报目标类型")
	ErrInvalidReportState = errors.New("无效的举报状态")
	ErrSelfReport         = errors.New("不能举报自己的内容")
)

type ReportService struct {
	reportRepo  *repository.ReportRepository
	postRepo    *repository.PostRepository
	commentRepo *repository.CommentRepository
	userRepo    *repository.UserRepository
}

func NewReportService(
	reportRepo *repository.ReportRepository,
	postRepo *repository.PostRepository,
	commentRepo *repository.CommentRepository,
	userRepo *repository.UserRepository,
) *ReportService {
	return &ReportService{
		reportRepo:  reportRepo,
		postRepo:    postRepo,
		commentRepo: commentRepo,
		userRepo:    userRepo,
	}
}

// Create 创建举报，初始状态 pending。不能举报自己的内容或自己。
func (s *ReportService) Create(reporterID int64, req *dto.CreateReportRequest) (*dto.ReportItem, error) {
	targetType, ok := model.ParseReportTargetType(req.TargetType)
	if !ok {
		return nil, ErrInvalidReportType
	}

	switch targetType {
	case model.ReportTargetPost:
		post, err := s.postRepo.GetByID(req.TargetID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrPostNotFound
			}
			return nil, err
		}
		if post.PosterID == reporterID {
			return nil, ErrSelfReport
		}
	case model.ReportTargetComment:
		comment, err := s.commentRepo.GetByID(req.TargetID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCommentNotFound
			}
			return nil, err
		}
		if comment.CommenterID == reporterID {
			return nil, ErrSelfReport
		}
	case model.ReportTargetUser:
		if req.TargetID == reporterID {
			return nil, ErrSelfReport
		}
		if _, err := s.userRepo.GetByID(req.TargetID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, err
		}
	}

	report := &model.Report{
		ReportedByID: reporterID,
		TargetType:   targetType,
		TargetID:     req.TargetID,
		Status:       model.ReportPending,
		Description:  req.Description,
	}

	if err := s.reportRepo.Create(report); err != nil {
		return nil, err
	}

	return s.buildReportItem(report), nil
}

// List 分页获取举报列表，仅版主可见，可按目标类型和状态过滤
func (s *ReportService) List(operatorID int64, typeStr, statusStr string, page, pageSize int) ([]*dto.ReportItem, int64, error) {
	if err := s.requireModerator(operatorID); err != nil {
		return nil, 0, err
	}

	page, pageSize = normalizePage(page, pageSize)

	var targetType model.ReportTargetType
	if typeStr != "" {
		parsed, ok := model.ParseReportTargetType(typeStr)
		if !ok {
			return nil, 0, ErrInvalidReportType
		}
		targetType = parsed
	}

	var status model.ReportStatus
	if statusStr != "" {
		parsed, ok := model.ParseReportStatus(statusStr)
		if !ok {
			return nil, 0, ErrInvalidReportState
		}
		status = parsed
	}

	reports, total, err := s.reportRepo.List(targetType, status, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	items := make([]*dto.ReportItem, 0, len(reports))
	for _, report := range reports {
		items = append(items, s.buildReportItem(report))
	}

	return items, total, nil
}

// UpdateStatus 更新举报状态，仅版主可操作
func (s *ReportService) UpdateStatus(operatorID, reportID int64, statusStr string) (*dto.ReportItem, error) {
	if err := s.requireModerator(operatorID); err != nil {
		return nil, err
	}

	status, ok := model.ParseReportStatus(statusStr)
	if !ok {
		return nil, ErrInvalidReportState
	}

	report, err := s.reportRepo.GetByID(reportID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}

	if err := s.reportRepo.UpdateStatus(reportID, status); err != nil {
		return nil, err
	}
	report.Status = status

	return s.buildReportItem(report), nil
}

func (s *ReportService) requireModerator(operatorID int64) error {
	operator, err := s.userRepo.GetByID(operatorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if !operator.Role.Can(model.ActionModerate) {
		return ErrPermissionDenied
	}
	return nil
}

func (s *ReportService) buildReportItem(report *model.Report) *dto.ReportItem {
	return &dto.ReportItem{
		ID:           report.ID,
		ReportedByID: report.ReportedByID,
		TargetType:   string(report.TargetType),
		TargetID:     report.TargetID,
		Status:       string(report.Status),
		Description:  report.Description,
		CreatedAt:    report.CreatedAt.Format(time.RFC3339),
	}
}
