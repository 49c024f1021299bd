package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/qs3c/showcase_go_server/internal/model"
	"github.com/qs3c/showcase_go_server/internal/model/dto"
	"github.com/qs3c/showcase_go_server/internal/repository"
)

var (
	ErrInvalidVoteValue = errors.New("无效的投票值")
	ErrReviewNotFound   = errors.New("评审不存在")
)

type VoteService struct {
	voteRepo    *repository.VoteRepository
	postRepo    *repository.PostRepository
	commentRepo *repository.CommentRepository
	reviewRepo  *repository.ReviewRepository
}

func NewVoteService(
	voteRepo *repository.VoteRepository,
	postRepo *repository.PostRepository,
	commentRepo *repository.CommentRepository,
	reviewRepo *repository.ReviewRepository,
) *VoteService {
	return &VoteService{
		voteRepo:    voteRepo,
		postRepo:    postRepo,
		commentRepo: commentRepo,
		reviewRepo:  reviewRepo,
	}
}

// Cast 投票。value 取 +1 / -1，0 表示撤销。重复投票覆盖旧值。
// 返回目标的实时票数。
func (s *VoteService) Cast(userID int64, kind model.VoteKind, targetID int64, value int) (*dto.VoteCountsItem, error) {
	if value != -1 && value != 0 && value != 1 {
		return nil, ErrInvalidVoteValue
	}

	if err := s.checkTarget(kind, targetID); err != nil {
		return nil, err
	}

	if value == 0 {
		if err := s.voteRepo.Remove(kind, userID, targetID); err != nil {
			return nil, err
		}
	} else {
		if err := s.voteRepo.Set(kind, userID, targetID, value); err != nil {
			return nil, err
		}
	}

	counts, err := s.voteRepo.Counts(kind, targetID)
	if err != nil {
		return nil, err
	}

	return &dto.VoteCountsItem{
		Upvotes:   counts.Upvotes,
		Downvotes: counts.Downvotes,
	}, nil
}

// GetCounts 获取目标的实时票数
func (s *VoteService) GetCounts(kind model.VoteKind, targetID int64) (*dto.VoteCountsItem, error) {
	if err := s.checkTarget(kind, targetID); err != nil {
		return nil, err
	}

	counts, err := s.voteRepo.Counts(kind, targetID)
	if err != nil {
		return nil, err
	}

	return &dto.VoteCountsItem{
		Upvotes:   counts.Upvotes,
		Downvotes: counts.Downvotes,
	}, nil
}

// GetOwn 获取用户对目标的当前投票值
func (s *VoteService) GetOwn(userID int64, kind model.VoteKind, targetID int64) (int, error) {
	if err := s.checkTarget(kind, targetID); err != nil {
		return 0, err
	}
	return s.voteRepo.Get(kind, userID, targetID)
}

func (s *VoteService) checkTarget(kind model.VoteKind, targetID int64) error {
	switch kind {
	case model.VoteKindPost:
		post, err := s.postRepo.GetByID(targetID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPostNotFound
			}
			return err
		}
		if post.Phase != model.PhasePublished {
			return ErrPostNotPublished
		}
		return nil
	case model.VoteKindComment:
		_, err := s.commentRepo.GetByID(targetID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCommentNotFound
			}
			return err
		}
		return nil
	case model.VoteKindReview:
		_, err := s.reviewRepo.GetByID(targetID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReviewNotFound
			}
			return err
		}
		return nil
	default:
		return ErrInvalidVoteValue
	}
}
