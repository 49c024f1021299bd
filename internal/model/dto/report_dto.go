package dto

// CreateReportRequest 创建举报请求
type CreateReportRequest struct {
	TargetType  string `json:"target_type" binding:"required"`
	TargetID    int64  `json:"target_id" binding:"required"`
	Description string `json:"description" binding:"required,min=1,max=2000"`
}

// UpdateReportStatusRequest 更新举报状态请求
type UpdateReportStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ReportItem 举报项
type ReportItem struct {
	ID           int64  `json:"id"`
	ReportedByID int64  `json:"reported_by_id"`
	TargetType   string `json:"target_type"`
	TargetID     int64  `json:"target_id"`
	Status       string `json:"status"`
	Description  string `json:"description"`
	CreatedAt    string `json:"created_at"`
}
