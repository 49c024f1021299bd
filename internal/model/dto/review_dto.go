package dto

// CreateReviewRequest 创建评审请求
type CreateReviewRequest struct {
	Body       string `json:"body" binding:"required,min=1"`
	IsPositive *bool  `json:"is_positive" binding:"required"`
	Strengths  string `json:"strengths,omitempty"`
	Weaknesses string `json:"weaknesses,omitempty"`
}

// ReviewItem 评审项
type ReviewItem struct {
	ID               int64           `json:"id"`
	PostID           int64           `json:"post_id"`
	ReviewerID       int64           `json:"reviewer_id"`
	ReviewerUsername string          `json:"reviewer_username"`
	Body             string          `json:"body"`
	IsPositive       bool            `json:"is_positive"`
	Strengths        string          `json:"strengths"`
	Weaknesses       string          `json:"weaknesses"`
	Votes            *VoteCountsItem `json:"votes"`
	CreatedAt        string          `json:"created_at"`
}
