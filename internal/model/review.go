package model

import (
	"time"
)

type Review struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	PostID     int64     `gorm:"not null;uniqueIndex:uq_review" json:"post_id"`
	ReviewerID int64     `gorm:"not null;uniqueIndex:uq_review" json:"reviewer_id"`
	Body       string    `gorm:"type:text;not null" json:"body"`
	IsPositive bool      `gorm:"not null" json:"is_positive"`
	Strengths  string    `gorm:"type:text" json:"strengths"`
	Weaknesses string    `gorm:"type:text" json:"weaknesses"`
	CreatedAt  time.Time `json:"created_at"`

	// 关联
	Reviewer *User `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
}

func (Review) TableName() string {
	return "reviews"
}
