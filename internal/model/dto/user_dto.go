package dto

// UpdateProfileRequest 更新资料请求
type UpdateProfileRequest struct {
	Bio         *string `json:"bio,omitempty"`
	SocialLinks *string `json:"social_links,omitempty"`
}

// PromoteRequest 角色调整请求（仅版主）
type PromoteRequest struct {
	Role string `json:"role" binding:"required"`
}

// UserStats 用户统计
type UserStats struct {
	PostCount int64 `json:"post_count"`
	Score     int64 `json:"score"`
}
