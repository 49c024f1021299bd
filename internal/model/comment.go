package model

import (
	"time"
)

type Comment struct {
	ID              int64     `gorm:"primaryKey" json:"id"`
	PostID          int64     `gorm:"not null;index" json:"post_id"`
	CommenterID     int64     `gorm:"not null;index" json:"commenter_id"`
	ParentCommentID *int64    `gorm:"index" json:"parent_comment_id,omitempty"`
	Body            string    `gorm:"type:text;not null" json:"body"`
	CreatedAt       time.Time `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// 关联
	Commenter *User      `gorm:"foreignKey:CommenterID" json:"commenter,omitempty"`
	Replies   []*Comment `gorm:"-" json:"replies,omitempty"`
}

func (Comment) TableName() string {
	return "comments"
}
