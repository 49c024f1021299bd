package repository

import (
	"gorm.io/gorm"

	"github.com/qs3c/showcase_go_server/internal/model"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// WithTx 返回绑定到事务的副本
func (r *CommentRepository) WithTx(tx *gorm.DB) *CommentRepository {
	return &CommentRepository{db: tx}
}

// Create 创建评论
func (r *CommentRepository) Create(comment *model.Comment) error {
	return r.db.Create(comment).Error
}

// GetByID 根据 ID 获取评论
func (r *CommentRepository) GetByID(id int64) (*model.Comment, error) {
	var comment model.Comment
	err := r.db.Where("id = ?", id).First(&comment).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// Delete 删除评论
func (r *CommentRepository) Delete(id int64) error {
	return r.db.Delete(&model.Comment{}, id).Error
}

// DeleteByParentID 删除直接回复，返回删除条数
func (r *CommentRepository) DeleteByParentID(parentID int64) (int64, error) {
	result := r.db.Where("parent_comment_id = ?", parentID).Delete(&model.Comment{})
	return result.RowsAffected, result.Error
}

// ListRepliesIDs 获取评论的直接回复 ID
func (r *CommentRepository) ListRepliesIDs(parentID int64) ([]int64, error) {
	var ids []int64
	err := r.db.Model(&model.Comment{}).
		Where("parent_comment_id = ?", parentID).
		Pluck("id", &ids).Error
	return ids, err
}

// ListByPostID 获取帖子的一级评论列表
func (r *CommentRepository) ListByPostID(postID int64, page, pageSize int) ([]*model.Comment, int64, error) {
	var comments []*model.Comment
	var total int64

	query := r.db.Model(&model.Comment{}).
		Preload("Commenter").
		Where("post_id = ? AND parent_comment_id IS NULL", postID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&comments).Error
	if err != nil {
		return nil, 0, err
	}

	return comments, total, nil
}

// GetRepliesByParentIDs 批量获取回复
func (r *CommentRepository) GetRepliesByParentIDs(parentIDs []int64) ([]*model.Comment, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}

	var replies []*model.Comment
	err := r.db.Preload("Commenter").
		Where("parent_comment_id IN ?", parentIDs).
		Order("created_at ASC").
		Find(&replies).Error
	return replies, err
}

// CountByPostID 获取帖子的评论数
func (r *CommentRepository) CountByPostID(postID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Comment{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}

// DeleteByPostID 删除帖子下的全部评论，返回删除的评论 ID
func (r *CommentRepository) DeleteByPostID(postID int64) ([]int64, error) {
	var ids []int64
	err := r.db.Model(&model.Comment{}).Where("post_id = ?", postID).Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	if err := r.db.Where("post_id = ?", postID).Delete(&model.Comment{}).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
