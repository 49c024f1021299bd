package dto

// VoteRequest 投票请求。0 表示撤销投票。
type VoteRequest struct {
	Value *int `json:"value" binding:"required"`
}

// VoteCountsItem 票数聚合
type VoteCountsItem struct {
	Upvotes   int64 `json:"upvotes"`
	Downvotes int64 `json:"downvotes"`
}
