package model

import (
	"strings"
	"time"
)

// ReportStatus 举报状态
type ReportStatus string

const (
	ReportPending ReportStatus = "pending" // 新建举报的初始状态
	ReportOpen    ReportStatus = "open"    // 版主受理中
	ReportClosed  ReportStatus = "closed"  // 已关闭，目标被删除时自动进入
)

// ParseReportStatus 大小写不敏感地解析举报状态
func ParseReportStatus(s string) (ReportStatus, bool) {
	switch ReportStatus(strings.ToLower(strings.TrimSpace(s))) {
	case ReportPending:
		return ReportPending, true
	case ReportOpen:
		return ReportOpen, true
	case ReportClosed:
		return ReportClosed, true
	}
	return "", false
}

// ReportTargetType 举报目标类型
type ReportTargetType string

const (
	ReportTargetPost    ReportTargetType = "post"
	ReportTargetComment ReportTargetType = "comment"
	ReportTargetUser    ReportTargetType = "user"
)

// ParseReportTargetType 大小写不敏感地解析目标类型
func ParseReportTargetType(s string) (ReportTargetType, bool) {
	switch ReportTargetType(strings.ToLower(strings.TrimSpace(s))) {
	case ReportTargetPost:
		return ReportTargetPost, true
	case ReportTargetComment:
		return ReportTargetComment, true
	case ReportTargetUser:
		return ReportTargetUser, true
	}
	return "", false
}

// Report 的 (target_type, target_id) 是跨三张表的松散引用，刻意不做外键。
type Report struct {
	ID           int64            `gorm:"primaryKey" json:"id"`
	ReportedByID int64            `gorm:"not null;index" json:"reported_by_id"`
	TargetType   ReportTargetType `gorm:"size:20;not null;index:idx_report_target" json:"target_type"`
	TargetID     int64            `gorm:"not null;index:idx_report_target" json:"target_id"`
	Status       ReportStatus     `gorm:"size:20;not null;default:pending" json:"status"`
	Description  string           `gorm:"type:text;not null" json:"description"`
	CreatedAt    time.Time        `gorm:"index" json:"created_at"`

	// 关联
	ReportedBy *User `gorm:"foreignKey:ReportedByID" json:"reported_by,omitempty"`
}

func (Report) TableName() string {
	return "reports"
}
