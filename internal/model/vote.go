package model

import (
	"time"
)

// VoteKind 投票目标类型
type VoteKind string

const (
	VoteKindPost    VoteKind = "post"
	VoteKindComment VoteKind = "comment"
	VoteKindReview  VoteKind = "review"
)

// VoteCounts 实时聚合的票数，不落库
type VoteCounts struct {
	Upvotes   int64 `json:"upvotes"`
	Downvotes int64 `json:"downvotes"`
}

// 三张平行的投票表，每张都有 (user, target) 唯一约束。
// 值只存 -1 / +1，0 表示撤销投票，从不落库。

type PostVote struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex:uq_post_vote" json:"user_id"`
	PostID    int64     `gorm:"not null;uniqueIndex:uq_post_vote" json:"post_id"`
	Value     int       `gorm:"not null" json:"value"`
	CreatedAt time.Time `json:"created_at"`
}

func (PostVote) TableName() string {
	return "post_votes"
}

type CommentVote struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex:uq_comment_vote" json:"user_id"`
	CommentID int64     `gorm:"not null;uniqueIndex:uq_comment_vote" json:"comment_id"`
	Value     int       `gorm:"not null" json:"value"`
	CreatedAt time.Time `json:"created_at"`
}

func (CommentVote) TableName() string {
	return "comment_votes"
}

type ReviewVote struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex:uq_review_vote" json:"user_id"`
	ReviewID  int64     `gorm:"not null;uniqueIndex:uq_review_vote" json:"review_id"`
	Value     int       `gorm:"not null" json:"value"`
	CreatedAt time.Time `json:"created_at"`
}

func (ReviewVote) TableName() string {
	return "review_votes"
}
