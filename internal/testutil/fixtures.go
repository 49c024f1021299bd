package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/showcase_go_server/internal/model"
)

var fixtureSeq int64

func nextSeq() int64 {
	return atomic.AddInt64(&fixtureSeq, 1)
}

// TestUser 创建测试用户
func TestUser(t *testing.T, db *gorm.DB, opts ...func(*model.User)) *model.User {
	t.Helper()

	seq := nextSeq()
	email := fmt.Sprintf("test_%d_%d@example.com", time.Now().UnixNano(), seq)
	passwordHash := "$2a$10$abcdefghijklmnopqrstuvwxyz123456" // bcrypt hash placeholder
	user := &model.User{
		Username:      fmt.Sprintf("testuser_%d_%d", time.Now().UnixNano()%100000, seq),
		Email:         &email,
		PasswordHash:  &passwordHash,
		Role:          model.RoleUser,
		EmailVerified: true,
	}

	for _, opt := range opts {
		opt(user)
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return user
}

// WithUsername 设置用户名
func WithUsername(username string) func(*model.User) {
	return func(u *model.User) {
		u.Username = username
	}
}

// WithEmail 设置邮箱
func WithEmail(email string) func(*model.User) {
	return func(u *model.User) {
		u.Email = &email
	}
}

// WithRole 设置角色
func WithRole(role model.Role) func(*model.User) {
	return func(u *model.User) {
		u.Role = role
	}
}

// WithVerified 设置邮箱验证状态
func WithVerified(verified bool) func(*model.User) {
	return func(u *model.User) {
		u.EmailVerified = verified
	}
}

// WithVerification 设置验证码与过期时间
func WithVerification(code string, expiresAt time.Time) func(*model.User) {
	return func(u *model.User) {
		u.EmailVerified = false
		u.VerificationCode = &code
		u.VerificationExpiresAt = &expiresAt
	}
}

// TestPost 创建测试帖子
func TestPost(t *testing.T, db *gorm.DB, posterID int64, opts ...func(*model.Post)) *model.Post {
	t.Helper()

	post := &model.Post{
		PosterID:    posterID,
		Title:       fmt.Sprintf("Test Post %d", nextSeq()),
		AuthorsText: "A. Author, B. Author",
		Abstract:    "Test abstract",
		Body:        "Test body",
		Phase:       model.PhasePublished,
	}

	for _, opt := range opts {
		opt(post)
	}

	if err := db.Create(post).Error; err != nil {
		t.Fatalf("Failed to create test post: %v", err)
	}

	return post
}

// WithTitle 设置帖子标题
func WithTitle(title string) func(*model.Post) {
	return func(p *model.Post) {
		p.Title = title
	}
}

// WithPhase 设置帖子阶段
func WithPhase(phase model.PostPhase) func(*model.Post) {
	return func(p *model.Post) {
		p.Phase = phase
	}
}

// WithTags 设置帖子标签
func WithTags(tags ...*model.Tag) func(*model.Post) {
	return func(p *model.Post) {
		p.Tags = tags
	}
}

// TestComment 创建测试评论
func TestComment(t *testing.T, db *gorm.DB, commenterID, postID int64, body string) *model.Comment {
	t.Helper()

	comment := &model.Comment{
		PostID:      postID,
		CommenterID: commenterID,
		Body:        body,
	}

	if err := db.Create(comment).Error; err != nil {
		t.Fatalf("Failed to create test comment: %v", err)
	}

	return comment
}

// TestReply 创建测试回复
func TestReply(t *testing.T, db *gorm.DB, commenterID, postID, parentID int64, body string) *model.Comment {
	t.Helper()

	comment := &model.Comment{
		PostID:          postID,
		CommenterID:     commenterID,
		ParentCommentID: &parentID,
		Body:            body,
	}

	if err := db.Create(comment).Error; err != nil {
		t.Fatalf("Failed to create test reply: %v", err)
	}

	return comment
}

// TestReview 创建测试评审
func TestReview(t *testing.T, db *gorm.DB, reviewerID, postID int64, positive bool) *model.Review {
	t.Helper()

	review := &model.Review{
		PostID:     postID,
		ReviewerID: reviewerID,
		Body:       "Test review body",
		IsPositive: positive,
	}

	if err := db.Create(review).Error; err != nil {
		t.Fatalf("Failed to create test review: %v", err)
	}

	return review
}

// TestReport 创建测试举报
func TestReport(t *testing.T, db *gorm.DB, reporterID int64, targetType model.ReportTargetType, targetID int64, opts ...func(*model.Report)) *model.Report {
	t.Helper()

	report := &model.Report{
		ReportedByID: reporterID,
		TargetType:   targetType,
		TargetID:     targetID,
		Status:       model.ReportPending,
		Description:  "Test report description",
	}

	for _, opt := range opts {
		opt(report)
	}

	if err := db.Create(report).Error; err != nil {
		t.Fatalf("Failed to create test report: %v", err)
	}

	return report
}

// WithReportStatus 设置举报状态
func WithReportStatus(status model.ReportStatus) func(*model.Report) {
	return func(r *model.Report) {
		r.Status = status
	}
}
