package service

import (
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/showcase_go_server/config"
	"github.com/qs3c/showcase_go_server/internal/model"
	"github.com/qs3c/showcase_go_server/internal/model/dto"
	"github.com/qs3c/showcase_go_server/internal/pkg/sanitize"
	"github.com/qs3c/showcase_go_server/internal/repository"
)

var (
	ErrNotReviewer     = errors.New("只有研究者可以撰写评审")
	ErrSelfReview      = errors.New("不能评审自己的帖子")
	ErrAlreadyReviewed = errors.New("已评审过该帖子")
)

type ReviewService struct {
	db         *gorm.DB
	reviewRepo *repository.ReviewRepository
	postRepo   *repository.PostRepository
	userRepo   *repository.UserRepository
	voteRepo   *repository.VoteRepository
	cfg        *config.Config
}

func NewReviewService(
	db *gorm.DB,
	reviewRepo *repository.ReviewRepository,
	postRepo *repository.PostRepository,
	userRepo *repository.UserRepository,
	voteRepo *repository.VoteRepository,
	cfg *config.Config,
) *ReviewService {
	return &ReviewService{
		db:         db,
		reviewRepo: reviewRepo,
		postRepo:   postRepo,
		userRepo:   userRepo,
		voteRepo:   voteRepo,
		cfg:        cfg,
	}
}

// Create 创建评审。仅研究者及以上角色可评审，不能评审自己的帖子，
// 每人对每帖只能评审一次。正面评审达到阈值时帖子作者自动升级为研究者，
// 升级与评审写入在同一事务内完成。
func (s *ReviewService) Create(reviewerID, postID int64, req *dto.CreateReviewRequest) (*dto.ReviewItem, error) {
	reviewer, err := s.userRepo.GetByID(reviewerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !reviewer.Role.Can(model.ActionReview) {
		return nil, ErrNotReviewer
	}

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
	if post.PosterID == reviewerID {
		return nil, ErrSelfReview
	}

	exists, err := s.reviewRepo.ExistsByPostAndReviewer(postID, reviewerID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyReviewed
	}

	review := &model.Review{
		PostID:     postID,
		ReviewerID: reviewerID,
		Body:       sanitize.UGC(req.Body),
		IsPositive: *req.IsPositive,
		Strengths:  sanitize.UGC(req.Strengths),
		Weaknesses: sanitize.UGC(req.Weaknesses),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		reviewRepo := s.reviewRepo.WithTx(tx)
		userRepo := s.userRepo.WithTx(tx)

		if err := reviewRepo.Create(review); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyReviewed
			}
			return err
		}

		if !review.IsPositive {
			return nil
		}

		positive, err := reviewRepo.CountPositive(postID)
		if err != nil {
			return err
		}
		if positive < int64(s.cfg.PromotionThreshold()) {
			return nil
		}

		// 只升级普通用户，重复触发时无事可做
		poster, err := userRepo.GetByID(post.PosterID)
		if err != nil {
			return err
		}
		if poster.Role != model.RoleUser {
			return nil
		}

		if err := userRepo.UpdateRole(poster.ID, model.RoleResearcher); err != nil {
			return err
		}
		log.Printf("User %d promoted to researcher after %d positive reviews on post %d", poster.ID, positive, postID)
		return nil
	})
	if err != nil {
		return nil, err
	}

	review.Reviewer = reviewer
	return s.buildReviewItem(review, &model.VoteCounts{}), nil
}

// ListByPost 按时间倒序获取帖子的评审
func (s *ReviewService) ListByPost(postID int64, page, pageSize int) ([]*dto.ReviewItem, int64, error) {
	page, pageSize = normalizePage(page, pageSize)

	if _, err := s.postRepo.GetByID(postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrPostNotFound
		}
		return nil, 0, err
	}

	reviews, total, err := s.reviewRepo.ListByPostID(postID, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	items := make([]*dto.ReviewItem, 0, len(reviews))
	for _, review := range reviews {
		counts, err := s.voteRepo.Counts(model.VoteKindReview, review.ID)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, s.buildReviewItem(review, counts))
	}

	return items, total, nil
}

func (s *ReviewService) buildReviewItem(review *model.Review, counts *model.VoteCounts) *dto.ReviewItem {
	item := &dto.ReviewItem{
		ID:         review.ID,
		PostID:     review.PostID,
		ReviewerID: review.ReviewerID,
		Body:       review.Body,
		IsPositive: review.IsPositive,
		Strengths:  review.Strengths,
		Weaknesses: review.Weaknesses,
		CreatedAt:  review.CreatedAt.Format(time.RFC3339),
	}

	if review.Reviewer != nil {
		item.ReviewerUsername = review.Reviewer.Username
	}

	if counts != nil {
		item.Votes = &dto.VoteCountsItem{
			Upvotes:   counts.Upvotes,
			Downvotes: counts.Downvotes,
		}
	}

	return item
}
