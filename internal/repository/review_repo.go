package repository

import (
	"gorm.io/gorm"

	"github.com/qs3c/showcase_go_server/internal/model"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// WithTx 返回绑定到事务的副本
func (r *ReviewRepository) WithTx(tx *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: tx}
}

// Create 创建评审，同一评审人对同一帖子重复提交时返回 gorm.ErrDuplicatedKey
func (r *ReviewRepository) Create(review *model.Review) error {
	return r.db.Create(review).Error
}

// GetByID 根据 ID 获取评审
func (r *ReviewRepository) GetByID(id int64) (*model.Review, error) {
	var review model.Review
	err := r.db.Where("id = ?", id).First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// ExistsByPostAndReviewer 检查评审人是否已评审过该帖子
func (r *ReviewRepository) ExistsByPostAndReviewer(postID, reviewerID int64) (bool, error) {
	var count int64
	err := r.db.Model(&model.Review{}).
		Where("post_id = ? AND reviewer_id = ?", postID, reviewerID).
		Count(&count).Error
	return count > 0, err
}

// ListByPostID 按时间倒序获取帖子的评审列表
func (r *ReviewRepository) ListByPostID(postID int64, page, pageSize int) ([]*model.Review, int64, error) {
	var reviews []*model.Review
	var total int64

	query := r.db.Model(&model.Review{}).
		Preload("Reviewer").
		Where("post_id = ?", postID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&reviews).Error
	if err != nil {
		return nil, 0, err
	}

	return reviews, total, nil
}

// CountPositive 统计帖子的正面评审数
func (r *ReviewRepository) CountPositive(postID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Review{}).
		Where("post_id = ? AND is_positive = ?", postID, true).
		Count(&count).Error
	return count, err
}

// ListIDsByPostID 获取帖子的全部评审 ID
func (r *ReviewRepository) ListIDsByPostID(postID int64) ([]int64, error) {
	var ids []int64
	err := r.db.Model(&model.Review{}).Where("post_id = ?", postID).Pluck("id", &ids).Error
	return ids, err
}

// DeleteByPostID 删除帖子下的全部评审
func (r *ReviewRepository) DeleteByPostID(postID int64) error {
	return r.db.Where("post_id = ?", postID).Delete(&model.Review{}).Error
}
