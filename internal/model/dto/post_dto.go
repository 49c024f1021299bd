package dto

// AttachmentInput 附件输入
type AttachmentInput struct {
	FilePath string `json:"file_path" binding:"required"`
	MimeType string `json:"mime_type,omitempty"`
}

// CreatePostRequest 创建帖子请求
type CreatePostRequest struct {
	Title       string            `json:"title" binding:"required,min=1,max=255"`
	AuthorsText string            `json:"authors_text" binding:"required"`
	Abstract    string            `json:"abstract" binding:"required"`
	Bibtex      *string           `json:"bibtex,omitempty"`
	Body        string            `json:"body" binding:"required"`
	Tags        []string          `json:"tags,omitempty"`
	Attachments []AttachmentInput `json:"attachments,omitempty"`
	Draft       bool              `json:"draft,omitempty"`
}

// AttachmentItem 附件项
type AttachmentItem struct {
	ID       int64  `json:"id"`
	FilePath string `json:"file_path"`
	MimeType string `json:"mime_type"`
}

// PostItem 帖子项
type PostItem struct {
	ID          int64             `json:"id"`
	PosterID    int64             `json:"poster_id"`
	Poster      *CommentUser      `json:"poster,omitempty"`
	Title       string            `json:"title"`
	AuthorsText string            `json:"authors_text"`
	Abstract    string            `json:"abstract"`
	Bibtex      *string           `json:"bibtex,omitempty"`
	Body        string            `json:"body"`
	Phase       string            `json:"phase"`
	Tags        []string          `json:"tags"`
	Attachments []*AttachmentItem `json:"attachments"`
	Votes       *VoteCountsItem   `json:"votes"`
	CreatedAt   string            `json:"created_at"`
}
