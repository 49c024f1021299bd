package service

import (
	"errors"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/showcase_go_server/internal/model"
	"github.com/qs3c/showcase_go_server/internal/model/dto"
	"github.com/qs3c/showcase_go_server/internal/pkg/sanitize"
	"github.com/qs3c/showcase_go_server/internal/repository"
)

var (
	ErrPostNotFound     = errors.New("帖子不存在")
	ErrDraftExists      = errors.New("已存在未发布的草稿")
	ErrNotDraft         = errors.New("帖子不是草稿")
	ErrNotPostOwner     = errors.New("只能操作自己的帖子")
	ErrPostNotPublished = errors.New("帖子尚未发布")
)

type PostService struct {
	db          *gorm.DB
	postRepo    *repository.PostRepository
	commentRepo *repository.CommentRepository
	reviewRepo  *repository.ReviewRepository
	voteRepo    *repository.VoteRepository
	reportRepo  *repository.ReportRepository
	userRepo    *repository.UserRepository
}

func NewPostService(
	db *gorm.DB,
	postRepo *repository.PostRepository,
	commentRepo *repository.CommentRepository,
	reviewRepo *repository.ReviewRepository,
	voteRepo *repository.VoteRepository,
	reportRepo *repository.ReportRepository,
	userRepo *repository.UserRepository,
) *PostService {
	return &PostService{
		db:          db,
		postRepo:    postRepo,
		commentRepo: commentRepo,
		reviewRepo:  reviewRepo,
		voteRepo:    voteRepo,
		reportRepo:  reportRepo,
		userRepo:    userRepo,
	}
}

// Create 创建帖子。draft=true 时进入草稿阶段，每个用户至多一篇草稿。
func (s *PostService) Create(posterID int64, req *dto.CreatePostRequest) (*dto.PostItem, error) {
	phase := model.PhasePublished
	if req.Draft {
		phase = model.PhaseDraft

		_, err := s.postRepo.GetDraftByPosterID(posterID)
		if err == nil {
			return nil, ErrDraftExists
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	post := &model.Post{
		PosterID:    posterID,
		Title:       strings.TrimSpace(req.Title),
		AuthorsText: strings.TrimSpace(req.AuthorsText),
		Abstract:    sanitize.UGC(req.Abstract),
		Bibtex:      req.Bibtex,
		Body:        sanitize.UGC(req.Body),
		Phase:       phase,
	}

	// 标签按名称归一并去重
	for _, name := range req.Tags {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		dup := false
		for _, tag := range post.Tags {
			if tag.Name == name {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		tag, err := s.postRepo.FindOrCreateTag(name)
		if err != nil {
			return nil, err
		}
		post.Tags = append(post.Tags, tag)
	}

	if err := s.postRepo.Create(post); err != nil {
		return nil, err
	}

	for _, input := range req.Attachments {
		attachment := &model.Attachment{
			PostID:   post.ID,
			FilePath: input.FilePath,
			MimeType: resolveMimeType(input.MimeType, input.FilePath),
		}
		if err := s.postRepo.CreateAttachment(attachment); err != nil {
			return nil, err
		}
		post.Attachments = append(post.Attachments, attachment)
	}

	return s.buildPostItem(post, nil)
}

// Publish 将草稿发布
func (s *PostService) Publish(userID, postID int64) (*dto.PostItem, error) {
	post, err := s.postRepo.GetByID(postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	if post.PosterID != userID {
		return nil, ErrNotPostOwner
	}
	if post.Phase != model.PhaseDraft {
		return nil, ErrNotDraft
	}

	if err := s.postRepo.UpdateFields(postID, map[string]interface{}{"phase": model.PhasePublished}); err != nil {
		return nil, err
	}
	post.Phase = model.PhasePublished

	return s.Get(postID)
}

// Get 获取帖子详情（含发布者、标签、附件、票数）
func (s *PostService) Get(postID int64) (*dto.PostItem, error) {
	post, err := s.postRepo.GetByIDWithDetail(postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	attachments, err := s.postRepo.ListAttachments(postID)
	if err != nil {
		return nil, err
	}
	post.Attachments = attachments

	counts, err := s.voteRepo.Counts(model.VoteKindPost, postID)
	if err != nil {
		return nil, err
	}

	return s.buildPostItem(post, counts)
}

// List 分页获取已发布帖子
func (s *PostService) List(page, pageSize int) ([]*dto.PostItem, int64, error) {
	page, pageSize = normalizePage(page, pageSize)

	posts, total, err := s.postRepo.ListPublished(page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	items, err := s.buildPostItems(posts)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Search 按标题关键词搜索已发布帖子
func (s *PostService) Search(keyword string, page, pageSize int) ([]*dto.PostItem, int64, error) {
	page, pageSize = normalizePage(page, pageSize)

	keyword = escapeLike(strings.TrimSpace(keyword))
	posts, total, err := s.postRepo.Search(keyword, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	items, err := s.buildPostItems(posts)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ListByTag 按标签获取已发布帖子
func (s *PostService) ListByTag(tagName string, page, pageSize int) ([]*dto.PostItem, int64, error) {
	page, pageSize = normalizePage(page, pageSize)

	tagName = strings.ToLower(strings.TrimSpace(tagName))
	posts, total, err := s.postRepo.ListByTag(tagName, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	items, err := s.buildPostItems(posts)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ListByPoster 获取用户的已发布帖子
func (s *PostService) ListByPoster(posterID int64, page, pageSize int) ([]*dto.PostItem, int64, error) {
	page, pageSize = normalizePage(page, pageSize)

	posts, total, err := s.postRepo.ListByPosterID(posterID, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	items, err := s.buildPostItems(posts)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ListTop 按净票数获取排行。days > 0 时仅统计最近 N 天发布的帖子。
func (s *PostService) ListTop(limit, days int) ([]*dto.PostItem, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	var since *time.Time
	if days > 0 {
		t := time.Now().AddDate(0, 0, -days)
		since = &t
	}

	posts, err := s.postRepo.ListTopByVotes(limit, since)
	if err != nil {
		return nil, err
	}

	return s.buildPostItems(posts)
}

// Delete 删除帖子，并级联清理评论、评审、投票，自动关闭相关举报。
// 作者本人或版主可删除。
func (s *PostService) Delete(operatorID, postID int64) error {
	post, err := s.postRepo.GetByID(postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}
		return err
	}

	if post.PosterID != operatorID {
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
		postRepo := s.postRepo.WithTx(tx)
		commentRepo := s.commentRepo.WithTx(tx)
		reviewRepo := s.reviewRepo.WithTx(tx)
		voteRepo := s.voteRepo.WithTx(tx)
		reportRepo := s.reportRepo.WithTx(tx)

		// 评论及其投票与举报
		commentIDs, err := commentRepo.DeleteByPostID(postID)
		if err != nil {
			return err
		}
		if err := voteRepo.DeleteByTargets(model.VoteKindComment, commentIDs); err != nil {
			return err
		}
		if _, err := reportRepo.CloseForTargets(model.ReportTargetComment, commentIDs); err != nil {
			return err
		}

		// 评审及其投票
		reviewIDs, err := reviewRepo.ListIDsByPostID(postID)
		if err != nil {
			return err
		}
		if err := reviewRepo.DeleteByPostID(postID); err != nil {
			return err
		}
		if err := voteRepo.DeleteByTargets(model.VoteKindReview, reviewIDs); err != nil {
			return err
		}

		// 帖子本体
		if err := voteRepo.DeleteByTarget(model.VoteKindPost, postID); err != nil {
			return err
		}
		if err := postRepo.DeleteAttachmentsByPostID(postID); err != nil {
			return err
		}
		if err := postRepo.Delete(postID); err != nil {
			return err
		}

		_, err = reportRepo.CloseForTarget(model.ReportTargetPost, postID)
		return err
	})
}

func (s *PostService) buildPostItems(posts []*model.Post) ([]*dto.PostItem, error) {
	items := make([]*dto.PostItem, 0, len(posts))
	for _, post := range posts {
		counts, err := s.voteRepo.Counts(model.VoteKindPost, post.ID)
		if err != nil {
			return nil, err
		}
		item, err := s.buildPostItem(post, counts)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *PostService) buildPostItem(post *model.Post, counts *model.VoteCounts) (*dto.PostItem, error) {
	item := &dto.PostItem{
		ID:          post.ID,
		PosterID:    post.PosterID,
		Title:       post.Title,
		AuthorsText: post.AuthorsText,
		Abstract:    post.Abstract,
		Bibtex:      post.Bibtex,
		Body:        post.Body,
		Phase:       string(post.Phase),
		Tags:        make([]string, 0, len(post.Tags)),
		Attachments: make([]*dto.AttachmentItem, 0, len(post.Attachments)),
		CreatedAt:   post.CreatedAt.Format(time.RFC3339),
	}

	if post.Poster != nil {
		item.Poster = &dto.CommentUser{
			ID:       post.Poster.ID,
			Username: post.Poster.Username,
			Role:     string(post.Poster.Role),
		}
	}

	for _, tag := range post.Tags {
		item.Tags = append(item.Tags, tag.Name)
	}

	for _, attachment := range post.Attachments {
		item.Attachments = append(item.Attachments, &dto.AttachmentItem{
			ID:       attachment.ID,
			FilePath: attachment.FilePath,
			MimeType: attachment.MimeType,
		})
	}

	if counts != nil {
		item.Votes = &dto.VoteCountsItem{
			Upvotes:   counts.Upvotes,
			Downvotes: counts.Downvotes,
		}
	}

	return item, nil
}

// resolveMimeType 优先使用声明的类型，缺失时按扩展名推断
func resolveMimeType(declared, filePath string) string {
	declared = strings.TrimSpace(declared)
	if declared != "" {
		return declared
	}

	if byExt := mime.TypeByExtension(filepath.Ext(filePath)); byExt != "" {
		return byExt
	}
	return "application/octet-stream"
}

// escapeLike 转义 LIKE 通配符
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
