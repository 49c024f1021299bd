package model

import (
	"time"
)

// PostPhase 帖子阶段
type PostPhase string

const (
	PhaseDraft     PostPhase = "draft"     // 草稿，每个用户最多一篇
	PhasePublished PostPhase = "published" // 已发布，可见、可投票、可评审
)

type Post struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	PosterID    int64     `gorm:"not null;index" json:"poster_id"`
	Title       string    `gorm:"size:255;not null;index" json:"title"`
	AuthorsText string    `gorm:"size:500;not null" json:"authors_text"`
	Abstract    string    `gorm:"type:text;not null" json:"abstract"`
	Bibtex      *string   `gorm:"type:text" json:"bibtex,omitempty"`
	Body        string    `gorm:"type:text;not null" json:"body"`
	Phase       PostPhase `gorm:"size:20;not null;default:published;index" json:"phase"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// 关联
	Poster      *User        `gorm:"foreignKey:PosterID" json:"poster,omitempty"`
	Tags        []*Tag       `gorm:"many2many:post_tags" json:"tags,omitempty"`
	Attachments []*Attachment `gorm:"-" json:"attachments,omitempty"`
}

func (Post) TableName() string {
	return "posts"
}

type Tag struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func (Tag) TableName() string {
	return "tags"
}

type Attachment struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	PostID    int64     `gorm:"not null;index" json:"post_id"`
	FilePath  string    `gorm:"size:500;not null" json:"file_path"`
	MimeType  string    `gorm:"size:100;not null" json:"mime_type"`
	CreatedAt time.Time `json:"created_at"`
}

func (Attachment) TableName() string {
	return "attachments"
}
