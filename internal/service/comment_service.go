package service

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/showcase_go_server/internal/model"
	"github.com/qs3c/showcase_go_server/internal/model/dto"
	"github.com/qs3c/showcase_go_server/internal/pkg/sanitize"
	"github.com/qs3c/showcase_go_server/internal/repository"
)

var (
	ErrCommentNotFound = errors.New("评论不存在")
	ErrParentNotFound  = errors.New("父评论不存在")
	ErrParentMismatch  = errors.New("父评论不属于该帖子")
	ErrNotCommentOwner = errors.New("只能操作自己的评论")
)

type CommentService struct {
	db          *gorm.DB
	commentRepo *repository.CommentRepository
	postRepo    *repository.PostRepository
	voteRepo    *repository.VoteRepository
	reportRepo  *repository.ReportRepository
	userRepo    *repository.UserRepository
}

func NewCommentService(
	db *gorm.DB,
	commentRepo *repository.CommentRepository,
	postRepo *repository.PostRepository,
	voteRepo *repository.VoteRepository,
	reportRepo *repository.ReportRepository,
	userRepo *repository.UserRepository,
) *CommentService {
	return &CommentService{
		db:          db,
		commentRepo: commentRepo,
		postRepo:    postRepo,
		voteRepo:    voteRepo,
		reportRepo:  reportRepo,
		userRepo:    userRepo,
	}
}

// Create 创建评论或回复。评论树只保留一层：
// 对回复的回复会被挂到其所在的一级评论下。
func (s *CommentService) Create(commenterID, postID int64, req *dto.CreateCommentRequest) (*dto.CommentItem, error) {
	post, err := s.postRepo.GetByID(postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	if post.Phase != model.PhasePublished {
		return nil, ErrPostNotPublished
	}

	comment := &model.Comment{
		PostID:      postID,
		CommenterID: commenterID,
		Body:        sanitize.UGC(req.Body),
	}

	if req.ParentID != nil {
		parent, err := s.commentRepo.GetByID(*req.ParentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrParentNotFound
			}
			return nil, err
		}
		if parent.PostID != postID {
			return nil, ErrParentMismatch
		}

		parentID := parent.ID
		if parent.ParentCommentID != nil {
			// 父评论本身是回复，挂到顶层评论下
			parentID = *parent.ParentCommentID
		}
		comment.ParentCommentID = &parentID
	}

	if err := s.commentRepo.Create(comment); err != nil {
		return nil, err
	}

	commenter, err := s.userRepo.GetByID(commenterID)
	if err != nil {
		return nil, err
	}
	comment.Commenter = commenter

	return s.buildCommentItem(comment, &model.VoteCounts{}), nil
}

// ListByPost 获取帖子的评论树（一级评论分页，回复全量带出）
func (s *CommentService) ListByPost(postID int64, page, pageSize int) ([]*dto.CommentItem, int64, error) {
	page, pageSize = normalizePage(page, pageSize)

	if _, err := s.postRepo.GetByID(postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrPostNotFound
		}
		return nil, 0, err
	}

	comments, total, err := s.commentRepo.ListByPostID(postID, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	parentIDs := make([]int64, 0, len(comments))
	for _, c := range comments {
		parentIDs = append(parentIDs, c.ID)
	}

	replies, err := s.commentRepo.GetRepliesByParentIDs(parentIDs)
	if err != nil {
		return nil, 0, err
	}

	replyMap := make(map[int64][]*model.Comment)
	for _, reply := range replies {
		replyMap[*reply.ParentCommentID] = append(replyMap[*reply.ParentCommentID], reply)
	}

	items := make([]*dto.CommentItem, 0, len(comments))
	for _, comment := range comments {
		counts, err := s.voteRepo.Counts(model.VoteKindComment, comment.ID)
		if err != nil {
			return nil, 0, err
		}
		item := s.buildCommentItem(comment, counts)

		for _, reply := range replyMap[comment.ID] {
			replyCounts, err := s.voteRepo.Counts(model.VoteKindComment, reply.ID)
			if err != nil {
				return nil, 0, err
			}
			item.Replies = append(item.Replies, s.buildCommentItem(reply, replyCounts))
		}

		items = append(items, item)
	}

	return items, total, nil
}

// Delete 删除评论及其回复，并清理投票、自动关闭相关举报。
// 评论人本人或版主可删除。
func (s *CommentService) Delete(operatorID, commentID int64) error {
	comment, err := s.commentRepo.GetByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return err
	}

	if comment.CommenterID != operatorID {
		operator, err := s.userRepo.GetByID(operatorID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		if !operator.Role.Can(model.ActionModerate) {
			return ErrPermissionDenied
		}
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		commentRepo := s.commentRepo.WithTx(tx)
		voteRepo := s.voteRepo.WithTx(tx)
		reportRepo := s.reportRepo.WithTx(tx)

		replyIDs, err := commentRepo.ListRepliesIDs(commentID)
		if err != nil {
			return err
		}

		if _, err := commentRepo.DeleteByParentID(commentID); err != nil {
			return err
		}
		if err := commentRepo.Delete(commentID); err != nil {
			return err
		}

		deleted := append(replyIDs, commentID)
		if err := voteRepo.DeleteByTargets(model.VoteKindComment, deleted); err != nil {
			return err
		}

		_, err = reportRepo.CloseForTargets(model.ReportTargetComment, deleted)
		return err
	})
}

func (s *CommentService) buildCommentItem(comment *model.Comment, counts *model.VoteCounts) *dto.CommentItem {
	item := &dto.CommentItem{
		ID:        comment.ID,
		Body:      comment.Body,
		ParentID:  comment.ParentCommentID,
		CreatedAt: comment.CreatedAt.Format(time.RFC3339),
	}

	if comment.Commenter != nil {
		item.User = &dto.CommentUser{
			ID:       comment.Commenter.ID,
			Username: comment.Commenter.Username,
			Role:     string(comment.Commenter.Role),
		}
	}

	if counts != nil {
		item.Votes = &dto.VoteCountsItem{
			Upvotes:   counts.Upvotes,
			Downvotes: counts.Downvotes,
		}
	}

	return item
}
