package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gorm.io/gorm"

	"github.com/qs3c/showcase_go_server/internal/model"
	"github.com/qs3c/showcase_go_server/internal/model/dto"
	"github.com/qs3c/showcase_go_server/internal/repository"
	"github.com/qs3c/showcase_go_server/internal/testutil"
)

func setupCommentService(t *testing.T) (*CommentService, *gorm.DB) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	service := NewCommentService(
		db,
		repository.NewCommentRepository(db),
		repository.NewPostRepository(db),
		repository.NewVoteRepository(db),
		repository.NewReportRepository(db),
		repository.NewUserRepository(db),
	)
	return service, db
}

func TestCommentService_Create_Success(t *testing.T) {
	service, db := setupCommentService(t)

	poster := testutil.TestUser(t, db)
	commenter := testutil.TestUser(t, db, testutil.WithUsername("commenter"))
	post := testutil.TestPost(t, db, poster.ID)

	item, err := service.Create(commenter.ID, post.ID, &dto.CreateCommentRequest{Body: "interesting result"})
	require.NoError(t, err)
	assert.NotZero(t, item.ID)
	assert.Equal(t, "interesting result", item.Body)
	assert.Nil(t, item.ParentID)
	require.NotNil(t, item.User)
	assert.Equal(t, "commenter", item.User.Username)
}

func TestCommentService_Create_SanitizesBody(t *testing.T) {
	service, db := setupCommentService(t)

	poster := testutil.TestUser(t, db)
	post := testutil.TestPost(t, db, poster.ID)

	item, err := service.Create(poster.ID, post.ID, &dto.CreateCommentRequest{
		Body: `hello <script>alert("x")</script>world`,
	})
	require.NoError(t, err)
	assert.NotContains(t, item.Body, "<script>")
	assert.Contains(t, item.Body, "hello")
}

func TestCommentService_Create_PostNotFound(t *testing.T) {
	service, db := setupCommentService(t)

	user := testutil.TestUser(t, db)

	_, err := service.Create(user.ID, 99999, &dto.CreateCommentRequest{Body: "x"})
	assert.Equal(t, ErrPostNotFound, err)
}

func TestCommentService_Create_DraftNotCommentable(t *testing.T) {
	service, db := setupCommentService(t)

	poster := testutil.TestUser(t, db)
	draft := testutil.TestPost(t, db, poster.ID, testutil.WithPhase(model.PhaseDraft))

	_, err := service.Create(poster.ID, draft.ID, &dto.CreateCommentRequest{Body: "x"})
	assert.Equal(t, ErrPostNotPublished, err)
}

func TestCommentService_Create_Reply(t *testing.T) {
	service, db := setupCommentService(t)

	poster := testutil.TestUser(t, db)
	post := testutil.TestPost(t, db, poster.ID)
	parent := testutil.TestComment(t, db, poster.ID, post.ID, "parent")

	item, err := service.Create(poster.ID, post.ID, &dto.CreateCommentRequest{
		Body:     "a reply",
		ParentID: &parent.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, item.ParentID)
	assert.Equal(t, parent.ID, *item.ParentID)
}

func TestCommentService_Create_ReplyToReplyFlattens(t *testing.T) {
	service, db := setupCommentService(t)

	poster := testutil.TestUser(t, db)
	post := testutil.TestPost(t, db, poster.ID)
	top := testutil.TestComment(t, db, poster.ID, post.ID, "top")
	reply := testutil.TestReply(t, db, poster.ID, post.ID, top.ID, "first reply")

	// Replying to a reply lands under the top level comment
	item, err := service.Create(poster.ID, post.ID, &dto.CreateCommentRequest{
		Body:     "nested attempt",
		ParentID: &reply.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, item.ParentID)
	assert.Equal(t, top.ID, *item.ParentID)
}

func TestCommentService_Create_ParentNotFound(t *testing.T) {
	service, db := setupCommentService(t)

	poster := testutil.TestUser(t, db)
	post := testutil.TestPost(t, db, poster.ID)

	ghost := int64(99999)
	_, err := service.Create(poster.ID, post.ID, &dto.CreateCommentRequest{
		Body:     "orphan",
		ParentID: &ghost,
	})
	assert.Equal(t, ErrParentNotFound, err)
}

func TestCommentService_Create_ParentMismatch(t *testing.T) {
	service, db := setupCommentService(t)

	poster := testutil.TestUser(t, db)
	post := testutil.TestPost(t, db, poster.ID)
	other := testutil.TestPost(t, db, poster.ID)
	parent := testutil.TestComment(t, db, poster.ID, other.ID, "elsewhere")

	_, err := service.Create(poster.ID, post.ID, &dto.CreateCommentRequest{
		Body:     "crossed wires",
		ParentID: &parent.ID,
	})
	assert.Equal(t, ErrParentMismatch, err)
}

func TestCommentService_ListByPost(t *testing.T) {
	service, db := setupCommentService(t)

	poster := testutil.TestUser(t, db)
	post := testutil.TestPost(t, db, poster.ID)

	top1 := testutil.TestComment(t, db, poster.ID, post.ID, "first")
	testutil.TestComment(t, db, poster.ID, post.ID, "second")
	testutil.TestReply(t, db, poster.ID, post.ID, top1.ID, "a reply")

	items, total, err := service.ListByPost(post.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, items, 2)

	// Newest first, replies attached to their parents
	var withReplies *dto.CommentItem
	for _, item := range items {
		if item.ID == top1.ID {
			withReplies = item
		}
	}
	require.NotNil(t, withReplies)
	require.Len(t, withReplies.Replies, 1)
	assert.Equal(t, "a reply", withReplies.Replies[0].Body)
}

func TestCommentService_Delete_ByOwner(t *testing.T) {
	service, db := setupCommentService(t)
	commentRepo := repository.NewCommentRepository(db)

	poster := testutil.TestUser(t, db)
	post := testutil.TestPost(t, db, poster.ID)
	comment := testutil.TestComment(t, db, poster.ID, post.ID, "delete me")
	testutil.TestReply(t, db, poster.ID, post.ID, comment.ID, "goes too")

	err := service.Delete(poster.ID, comment.ID)
	require.NoError(t, err)

	_, err = commentRepo.GetByID(comment.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	count, err := commentRepo.CountByPostID(post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestCommentService_Delete_ByModerator(t *testing.T) {
	service, db := setupCommentService(t)

	poster := testutil.TestUser(t, db)
	moderator := testutil.TestUser(t, db, testutil.WithRole(model.RoleModerator))
	post := testutil.TestPost(t, db, poster.ID)
	comment := testutil.TestComment(t, db, poster.ID, post.ID, "reported content")

	err := service.Delete(moderator.ID, comment.ID)
	require.NoError(t, err)
}

func TestCommentService_Delete_OthersForbidden(t *testing.T) {
	service, db := setupCommentService(t)

	poster := testutil.TestUser(t, db)
	stranger := testutil.TestUser(t, db)
	post := testutil.TestPost(t, db, poster.ID)
	comment := testutil.TestComment(t, db, poster.ID, post.ID, "mine")

	err := service.Delete(stranger.ID, comment.ID)
	assert.Equal(t, ErrPermissionDenied, err)
}

func TestCommentService_Delete_ClosesReports(t *testing.T) {
	service, db := setupCommentService(t)
	reportRepo := repository.NewReportRepository(db)

	poster := testutil.TestUser(t, db)
	reporter := testutil.TestUser(t, db)
	post := testutil.TestPost(t, db, poster.ID)
	comment := testutil.TestComment(t, db, poster.ID, post.ID, "offensive")
	reply := testutil.TestReply(t, db, poster.ID, post.ID, comment.ID, "also offensive")

	report := testutil.TestReport(t, db, reporter.ID, model.ReportTargetComment, comment.ID)
	replyReport := testutil.TestReport(t, db, reporter.ID, model.ReportTargetComment, reply.ID)

	err := service.Delete(poster.ID, comment.ID)
	require.NoError(t, err)

	got, err := reportRepo.GetByID(report.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ReportClosed, got.Status)

	got, err = reportRepo.GetByID(replyReport.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ReportClosed, got.Status)
}

func TestCommentService_Delete_NotFound(t *testing.T) {
	service, db := setupCommentService(t)

	user := testutil.TestUser(t, db)

	err := service.Delete(user.ID, 99999)
	assert.Equal(t, ErrCommentNotFound, err)
}
