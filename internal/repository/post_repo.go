package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/showcase_go_server/internal/model"
)

type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

// WithTx 返回绑定到事务的副本
func (r *PostRepository) WithTx(tx *gorm.DB) *PostRepository {
	return &PostRepository{db: tx}
}

// Create 创建帖子（含标签关联）
func (r *PostRepository) Create(post *model.Post) error {
	return r.db.Create(post).Error
}

// GetByID 根据 ID 获取帖子
func (r *PostRepository) GetByID(id int64) (*model.Post, error) {
	var post model.Post
	err := r.db.Where("id = ?", id).First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// GetByIDWithDetail 获取帖子及发布者、标签
func (r *PostRepository) GetByIDWithDetail(id int64) (*model.Post, error) {
	var post model.Post
	err := r.db.Preload("Poster").Preload("Tags").Where("id = ?", id).First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// GetDraftByPosterID 获取用户的草稿（每个用户至多一篇）
func (r *PostRepository) GetDraftByPosterID(posterID int64) (*model.Post, error) {
	var post model.Post
	err := r.db.Where("poster_id = ? AND phase = ?", posterID, model.PhaseDraft).First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// Update 保存帖子
func (r *PostRepository) Update(post *model.Post) error {
	return r.db.Save(post).Error
}

// UpdateFields 更新指定字段
func (r *PostRepository) UpdateFields(id int64, fields map[string]interface{}) error {
	return r.db.Model(&model.Post{}).Where("id = ?", id).Updates(fields).Error
}

// Delete 删除帖子
func (r *PostRepository) Delete(id int64) error {
	return r.db.Delete(&model.Post{}, id).Error
}

// ListPublished 按发布时间倒序分页获取已发布帖子
func (r *PostRepository) ListPublished(page, pageSize int) ([]*model.Post, int64, error) {
	var posts []*model.Post
	var total int64

	query := r.db.Model(&model.Post{}).
		Preload("Poster").Preload("Tags").
		Where("phase = ?", model.PhasePublished)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}

// ListByPosterID 获取用户的已发布帖子
func (r *PostRepository) ListByPosterID(posterID int64, page, pageSize int) ([]*model.Post, int64, error) {
	var posts []*model.Post
	var total int64

	query := r.db.Model(&model.Post{}).
		Preload("Tags").
		Where("poster_id = ? AND phase = ?", posterID, model.PhasePublished)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}

// Search 按标题模糊搜索已发布帖子，keyword 已由调用方转义
func (r *PostRepository) Search(keyword string, page, pageSize int) ([]*model.Post, int64, error) {
	var posts []*model.Post
	var total int64

	pattern := "%" + keyword + "%"
	query := r.db.Model(&model.Post{}).
		Preload("Poster").Preload("Tags").
		Where("phase = ?", model.PhasePublished).
		Where(
			"title LIKE ? ESCAPE '\\' OR abstract LIKE ? ESCAPE '\\' OR authors_text LIKE ? ESCAPE '\\' OR body LIKE ? ESCAPE '\\'",
			pattern, pattern, pattern, pattern,
		)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}

// ListByTag 按标签获取已发布帖子
func (r *PostRepository) ListByTag(tagName string, page, pageSize int) ([]*model.Post, int64, error) {
	var posts []*model.Post
	var total int64

	query := r.db.Model(&model.Post{}).
		Preload("Poster").Preload("Tags").
		Joins("JOIN post_tags ON post_tags.post_id = posts.id").
		Joins("JOIN tags ON tags.id = post_tags.tag_id").
		Where("posts.phase = ? AND tags.name = ?", model.PhasePublished, tagName)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Order("posts.created_at DESC").Offset(offset).Limit(pageSize).Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}

// ListTopByVotes 按净票数（赞减踩）倒序获取已发布帖子
func (r *PostRepository) ListTopByVotes(limit int, since *time.Time) ([]*model.Post, error) {
	query := r.db.Model(&model.Post{}).
		Preload("Poster").Preload("Tags").
		Joins("LEFT JOIN post_votes ON post_votes.post_id = posts.id").
		Where("posts.phase = ?", model.PhasePublished)
	if since != nil {
		query = query.Where("posts.created_at >= ?", *since)
	}

	var posts []*model.Post
	err := query.Group("posts.id").
		Order("COALESCE(SUM(post_votes.value), 0) DESC, posts.created_at DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

// CountByPosterID 统计用户的已发布帖子数
func (r *PostRepository) CountByPosterID(posterID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Post{}).
		Where("poster_id = ? AND phase = ?", posterID, model.PhasePublished).
		Count(&count).Error
	return count, err
}

// FindOrCreateTag 按名称获取标签，不存在则创建
func (r *PostRepository) FindOrCreateTag(name string) (*model.Tag, error) {
	var tag model.Tag
	err := r.db.Where("name = ?", name).First(&tag).Error
	if err == nil {
		return &tag, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	tag = model.Tag{Name: name}
	if err := r.db.Create(&tag).Error; err != nil {
		// 并发创建同名标签时回查一次
		if err == gorm.ErrDuplicatedKey {
			var existing model.Tag
			if qerr := r.db.Where("name = ?", name).First(&existing).Error; qerr == nil {
				return &existing, nil
			}
		}
		return nil, err
	}
	return &tag, nil
}

// CreateAttachment 创建附件记录
func (r *PostRepository) CreateAttachment(attachment *model.Attachment) error {
	return r.db.Create(attachment).Error
}

// ListAttachments 获取帖子的附件
func (r *PostRepository) ListAttachments(postID int64) ([]*model.Attachment, error) {
	var attachments []*model.Attachment
	err := r.db.Where("post_id = ?", postID).Order("created_at ASC").Find(&attachments).Error
	return attachments, err
}

// DeleteAttachmentsByPostID 删除帖子的全部附件记录
func (r *PostRepository) DeleteAttachmentsByPostID(postID int64) error {
	return r.db.Where("post_id = ?", postID).Delete(&model.Attachment{}).Error
}
