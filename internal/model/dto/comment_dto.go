package dto

// CreateCommentRequest 创建评论请求
type CreateCommentRequest struct {
	Body     string `json:"body" binding:"required,min=1,max=2000"`
	ParentID *int64 `json:"parent_id,omitempty"`
}

// CommentItem 评论项
type CommentItem struct {
	ID        int64           `json:"id"`
	User      *CommentUser    `json:"user"`
	Body      string          `json:"body"`
	ParentID  *int64          `json:"parent_id"`
	Votes     *VoteCountsItem `json:"votes"`
	Replies   []*CommentItem  `json:"replies,omitempty"`
	CreatedAt string          `json:"created_at"`
}

// CommentUser 评论用户信息
type CommentUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}
