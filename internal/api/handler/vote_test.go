package handler

import (
	"fmt"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qs3c/showcase_go_server/internal/model"
	"github.com/qs3c/showcase_go_server/internal/model/dto"
	"github.com/qs3c/showcase_go_server/internal/pkg/response"
	"github.com/qs3c/showcase_go_server/internal/repository"
	"github.com/qs3c/showcase_go_server/internal/service"
	"github.com/qs3c/showcase_go_server/internal/testutil"
)

func setupVoteHandler(t *testing.T) (*VoteHandler, *gorm.DB) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	voteRepo := repository.NewVoteRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	reviewRepo := repository.NewReviewRepository(db)

	voteService := service.NewVoteService(voteRepo, postRepo, commentRepo, reviewRepo)
	return NewVoteHandler(voteService), db
}

func intPtr(v int) *int {
	return &v
}

func TestVoteHandler_Cast_Upvote(t *testing.T) {
	handler, db := setupVoteHandler(t)

	author := testutil.TestUser(t, db)
	voter := testutil.TestUser(t, db)
	post := testutil.TestPost(t, db, author.ID)

	router := gin.New()
	router.Use(mockAuth(voter.ID))
	router.POST("/posts/:id/vote", handler.Cast(model.VoteKindPost))

	w := performRequest(router, "POST", fmt.Sprintf("/posts/%d/vote", post.ID), dto.VoteRequest{Value: intPtr(1)})
	resp := parseResponse(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(1), data["upvotes"])
	assert.Equal(t, float64(0), data["downvotes"])
}

func TestVoteHandler_Cast_OverwriteThenRemove(t *testing.T) {
	handler, db := setupVoteHandler(t)

	author := testutil.TestUser(t, db)
	voter := testutil.TestUser(t, db)
	post := testutil.TestPost(t, db, author.ID)

	router := gin.New()
	router.Use(mockAuth(voter.ID))
	router.POST("/posts/:id/vote", handler.Cast(model.VoteKindPost))

	path := fmt.Sprintf("/posts/%d/vote", post.ID)

	// Upvote, then flip to downvote
	performRequest(router, "POST", path, dto.VoteRequest{Value: intPtr(1)})
	w := performRequest(router, "POST", path, dto.VoteRequest{Value: intPtr(-1)})
	resp := parseResponse(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(0), data["upvotes"])
	assert.Equal(t, float64(1), data["downvotes"])

	// Zero removes the vote
	w = performRequest(router, "POST", path, dto.VoteRequest{Value: intPtr(0)})
	resp = parseResponse(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code)
	data = resp.Data.(map[string]interface{})
	assert.Equal(t, float64(0), data["upvotes"])
	assert.Equal(t, float64(0), data["downvotes"])
}

func TestVoteHandler_Cast_InvalidValue(t *testing.T) {
	handler, db := setupVoteHandler(t)

	author := testutil.TestUser(t, db)
	voter := testutil.TestUser(t, db)
	post := testutil.TestPost(t, db, author.ID)

	router := gin.New()
	router.Use(mockAuth(voter.ID))
	router.POST("/posts/:id/vote", handler.Cast(model.VoteKindPost))

	w := performRequest(router, "POST", fmt.Sprintf("/posts/%d/vote", post.ID), dto.VoteRequest{Value: intPtr(5)})
	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeParamError, resp.Code)
}

func TestVoteHandler_Cast_DraftPost(t *testing.T) {
	handler, db := setupVoteHandler(t)

	author := testutil.TestUser(t, db)
	voter := testutil.TestUser(t, db)
	draft := testutil.TestPost(t, db, author.ID, testutil.WithPhase(model.PhaseDraft))

	router := gin.New()
	router.Use(mockAuth(voter.ID))
	router.POST("/posts/:id/vote", handler.Cast(model.VoteKindPost))

	w := performRequest(router, "POST", fmt.Sprintf("/posts/%d/vote", draft.ID), dto.VoteRequest{Value: intPtr(1)})
	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeParamError, resp.Code)
}

func TestVoteHandler_Cast_CommentAndReview(t *testing.T) {
	handler, db := setupVoteHandler(t)

	author := testutil.TestUser(t, db)
	voter := testutil.TestUser(t, db)
	reviewer := testutil.TestUser(t, db, testutil.WithRole(model.RoleResearcher))
	post := testutil.TestPost(t, db, author.ID)
	comment := testutil.TestComment(t, db, voter.ID, post.ID, "A comment")
	review := testutil.TestReview(t, db, reviewer.ID, post.ID, true)

	router := gin.New()
	router.Use(mockAuth(voter.ID))
	router.POST("/comments/:id/vote", handler.Cast(model.VoteKindComment))
	router.POST("/reviews/:id/vote", handler.Cast(model.VoteKindReview))

	w := performRequest(router, "POST", fmt.Sprintf("/comments/%d/vote", comment.ID), dto.VoteRequest{Value: intPtr(1)})
	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeSuccess, resp.Code)

	w = performRequest(router, "POST", fmt.Sprintf("/reviews/%d/vote", review.ID), dto.VoteRequest{Value: intPtr(-1)})
	resp = parseResponse(t, w)
	assert.Equal(t, response.CodeSuccess, resp.Code)

	// Counts stay per-target
	w = performRequest(router, "POST", fmt.Sprintf("/comments/%d/vote", comment.ID), dto.VoteRequest{Value: intPtr(1)})
	resp = parseResponse(t, w)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(1), data["upvotes"])
	assert.Equal(t, float64(0), data["downvotes"])
}

func TestVoteHandler_Cast_TargetNotFound(t *testing.T) {
	handler, db := setupVoteHandler(t)

	voter := testutil.TestUser(t, db)

	router := gin.New()
	router.Use(mockAuth(voter.ID))
	router.POST("/reviews/:id/vote", handler.Cast(model.VoteKindReview))

	w := performRequest(router, "POST", "/reviews/99999/vote", dto.VoteRequest{Value: intPtr(1)})
	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeResourceNotFound, resp.Code)
}

func TestVoteHandler_GetCounts_Anonymous(t *testing.T) {
	handler, db := setupVoteHandler(t)

	author := testutil.TestUser(t, db)
	voter := testutil.TestUser(t, db)
	post := testutil.TestPost(t, db, author.ID)

	castRouter := gin.New()
	castRouter.Use(mockAuth(voter.ID))
	castRouter.POST("/posts/:id/vote", handler.Cast(model.VoteKindPost))
	performRequest(castRouter, "POST", fmt.Sprintf("/posts/%d/vote", post.ID), dto.VoteRequest{Value: intPtr(1)})

	router := gin.New()
	router.GET("/posts/:id/votes", handler.GetCounts(model.VoteKindPost))

	w := performRequest(router, "GET", fmt.Sprintf("/posts/%d/votes", post.ID), nil)
	resp := parseResponse(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(1), data["upvotes"])
	_, hasOwn := data["own_vote"]
	assert.False(t, hasOwn)
}

func TestVoteHandler_GetCounts_WithOwnVote(t *testing.T) {
	handler, db := setupVoteHandler(t)

	author := testutil.TestUser(t, db)
	voter := testutil.TestUser(t, db)
	post := testutil.TestPost(t, db, author.ID)

	router := gin.New()
	router.Use(mockAuth(voter.ID))
	router.POST("/posts/:id/vote", handler.Cast(model.VoteKindPost))
	router.GET("/posts/:id/votes", handler.GetCounts(model.VoteKindPost))

	performRequest(router, "POST", fmt.Sprintf("/posts/%d/vote", post.ID), dto.VoteRequest{Value: intPtr(-1)})

	w := performRequest(router, "GET", fmt.Sprintf("/posts/%d/votes", post.ID), nil)
	resp := parseResponse(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(-1), data["own_vote"])
	assert.Equal(t, float64(1), data["downvotes"])
}
