package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/qs3c/showcase_go_server/internal/model"
)

// voteTable 投票目标类型到物理表的映射
type voteTable struct {
	targetColumn string
	newModel     func() interface{}
	newRecord    func(userID, targetID int64, value int) interface{}
}

var voteTables = map[model.VoteKind]voteTable{
	model.VoteKindPost: {
		targetColumn: "post_id",
		newModel:     func() interface{} { return &model.PostVote{} },
		newRecord: func(userID, targetID int64, value int) interface{} {
			return &model.PostVote{UserID: userID, PostID: targetID, Value: value}
		},
	},
	model.VoteKindComment: {
		targetColumn: "comment_id",
		newModel:     func() interface{} { return &model.CommentVote{} },
		newRecord: func(userID, targetID int64, value int) interface{} {
			return &model.CommentVote{UserID: userID, CommentID: targetID, Value: value}
		},
	},
	model.VoteKindReview: {
		targetColumn: "review_id",
		newModel:     func() interface{} { return &model.ReviewVote{} },
		newRecord: func(userID, targetID int64, value int) interface{} {
			return &model.ReviewVote{UserID: userID, ReviewID: targetID, Value: value}
		},
	},
}

// VoteRepository 对三张投票表的统一访问入口
type VoteRepository struct {
	db *gorm.DB
}

func NewVoteRepository(db *gorm.DB) *VoteRepository {
	return &VoteRepository{db: db}
}

// WithTx 返回绑定到事务的副本
func (r *VoteRepository) WithTx(tx *gorm.DB) *VoteRepository {
	return &VoteRepository{db: tx}
}

func (r *VoteRepository) table(kind model.VoteKind) (voteTable, error) {
	vt, ok := voteTables[kind]
	if !ok {
		return voteTable{}, fmt.Errorf("unknown vote kind: %s", kind)
	}
	return vt, nil
}

// Get 获取用户对目标的当前投票值，未投过返回 0
func (r *VoteRepository) Get(kind model.VoteKind, userID, targetID int64) (int, error) {
	vt, err := r.table(kind)
	if err != nil {
		return 0, err
	}

	var values []int
	err = r.db.Model(vt.newModel()).
		Where(fmt.Sprintf("user_id = ? AND %s = ?", vt.targetColumn), userID, targetID).
		Limit(1).
		Pluck("value", &values).Error
	if err != nil {
		return 0, err
	}
	if len(values) == 0 {
		return 0, nil
	}
	return values[0], nil
}

// Set 写入或覆盖用户对目标的投票。并发首投撞唯一约束时退化为更新。
func (r *VoteRepository) Set(kind model.VoteKind, userID, targetID int64, value int) error {
	vt, err := r.table(kind)
	if err != nil {
		return err
	}

	err = r.db.Create(vt.newRecord(userID, targetID, value)).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return err
	}

	// 已有记录，改为更新
	return r.db.Model(vt.newModel()).
		Where(fmt.Sprintf("user_id = ? AND %s = ?", vt.targetColumn), userID, targetID).
		Update("value", value).Error
}

// Remove 撤销用户对目标的投票，不存在时静默成功
func (r *VoteRepository) Remove(kind model.VoteKind, userID, targetID int64) error {
	vt, err := r.table(kind)
	if err != nil {
		return err
	}

	return r.db.Where(fmt.Sprintf("user_id = ? AND %s = ?", vt.targetColumn), userID, targetID).
		Delete(vt.newModel()).Error
}

// Counts 实时聚合目标的赞/踩数
func (r *VoteRepository) Counts(kind model.VoteKind, targetID int64) (*model.VoteCounts, error) {
	vt, err := r.table(kind)
	if err != nil {
		return nil, err
	}

	var counts model.VoteCounts
	err = r.db.Model(vt.newModel()).
		Select("COALESCE(SUM(CASE WHEN value = 1 THEN 1 ELSE 0 END), 0) AS upvotes, COALESCE(SUM(CASE WHEN value = -1 THEN 1 ELSE 0 END), 0) AS downvotes").
		Where(fmt.Sprintf("%s = ?", vt.targetColumn), targetID).
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return &counts, nil
}

// DeleteByTarget 删除目标的全部投票记录（目标被删除时级联调用）
func (r *VoteRepository) DeleteByTarget(kind model.VoteKind, targetID int64) error {
	vt, err := r.table(kind)
	if err != nil {
		return err
	}

	return r.db.Where(fmt.Sprintf("%s = ?", vt.targetColumn), targetID).
		Delete(vt.newModel()).Error
}

// DeleteByTargets 批量删除多个目标的投票记录
func (r *VoteRepository) DeleteByTargets(kind model.VoteKind, targetIDs []int64) error {
	if len(targetIDs) == 0 {
		return nil
	}

	vt, err := r.table(kind)
	if err != nil {
		return err
	}

	return r.db.Where(fmt.Sprintf("%s IN ?", vt.targetColumn), targetIDs).
		Delete(vt.newModel()).Error
}

// UserScore 计算用户声望：已发布帖子收到的净票数加上评论收到的净票数
func (r *VoteRepository) UserScore(userID int64) (int64, error) {
	var postScore int64
	err := r.db.Model(&model.PostVote{}).
		Select("COALESCE(SUM(post_votes.value), 0)").
		Joins("JOIN posts ON posts.id = post_votes.post_id").
		Where("posts.poster_id = ? AND posts.phase = ?", userID, model.PhasePublished).
		Scan(&postScore).Error
	if err != nil {
		return 0, err
	}

	var commentScore int64
	err = r.db.Model(&model.CommentVote{}).
		Select("COALESCE(SUM(comment_votes.value), 0)").
		Joins("JOIN comments ON comments.id = comment_votes.comment_id").
		Where("comments.commenter_id = ?", userID).
		Scan(&commentScore).Error
	if err != nil {
		return 0, err
	}

	return postScore + commentScore, nil
}
