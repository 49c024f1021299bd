package repository

import (
	"gorm.io/gorm"

	"github.com/qs3c/showcase_go_server/internal/model"
)

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// WithTx 返回绑定到事务的副本
func (r *ReportRepository) WithTx(tx *gorm.DB) *ReportRepository {
	return &ReportRepository{db: tx}
}

// Create 创建举报
func (r *ReportRepository) Create(report *model.Report) error {
	return r.db.Create(report).Error
}

// GetByID 根据 ID 获取举报
func (r *ReportRepository) GetByID(id int64) (*model.Report, error) {
	var report model.Report
	err := r.db.Where("id = ?", id).First(&report).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// UpdateStatus 更新举报状态
func (r *ReportRepository) UpdateStatus(id int64, status model.ReportStatus) error {
	return r.db.Model(&model.Report{}).Where("id = ?", id).Update("status", status).Error
}

// List 按创建时间倒序分页获取举报，targetType 和 status 为空时不过滤
func (r *ReportRepository) List(targetType model.ReportTargetType, status model.ReportStatus, page, pageSize int) ([]*model.Report, int64, error) {
	var reports []*model.Report
	var total int64

	query := r.db.Model(&model.Report{}).Preload("ReportedBy")
	if targetType != "" {
		query = query.Where("target_type = ?", targetType)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&reports).Error
	if err != nil {
		return nil, 0, err
	}

	return reports, total, nil
}

// CloseForTarget 关闭指向某个目标的全部未关闭举报，返回关闭条数
func (r *ReportRepository) CloseForTarget(targetType model.ReportTargetType, targetID int64) (int64, error) {
	result := r.db.Model(&model.Report{}).
		Where("target_type = ? AND target_id = ? AND status <> ?", targetType, targetID, model.ReportClosed).
		Update("status", model.ReportClosed)
	return result.RowsAffected, result.Error
}

// CloseForTargets 批量关闭指向多个目标的未关闭举报
func (r *ReportRepository) CloseForTargets(targetType model.ReportTargetType, targetIDs []int64) (int64, error) {
	if len(targetIDs) == 0 {
		return 0, nil
	}

	result := r.db.Model(&model.Report{}).
		Where("target_type = ? AND target_id IN ? AND status <> ?", targetType, targetIDs, model.ReportClosed).
		Update("status", model.ReportClosed)
	return result.RowsAffected, result.Error
}
