package handler

import (
	"fmt"
	"net/http"
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

func setupPostHandler(t *testing.T) (*PostHandler, *gorm.DB) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	voteRepo := repository.NewVoteRepository(db)
	reportRepo := repository.NewReportRepository(db)
	userRepo := repository.NewUserRepository(db)

	postService := service.NewPostService(db, postRepo, commentRepo, reviewRepo, voteRepo, reportRepo, userRepo)
	return NewPostHandler(postService), db
}

func TestPostHandler_Create_Success(t *testing.T) {
	handler, db := setupPostHandler(t)

	user := testutil.TestUser(t, db)

	router := gin.New()
	router.Use(mockAuth(user.ID))
	router.POST("/posts", handler.Create)

	req := dto.CreatePostRequest{
		Title:       "A Study of Things",
		AuthorsText: "A. Author",
		Abstract:    "We study things.",
		Body:        "Full text of the study.",
		Tags:        []string{"ml", "systems"},
	}
	w := performRequest(router, "POST", "/posts", req)

	resp := parseResponse(t, w)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, response.CodeSuccess, resp.Code)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "A Study of Things", data["title"])
	assert.Equal(t, "published", data["phase"])
}

func TestPostHandler_Create_Draft_ThenPublish(t *testing.T) {
	handler, db := setupPostHandler(t)

	user := testutil.TestUser(t, db)

	router := gin.New()
	router.Use(mockAuth(user.ID))
	router.POST("/posts", handler.Create)
	router.POST("/posts/:id/publish", handler.Publish)

	w := performRequest(router, "POST", "/posts", dto.CreatePostRequest{
		Title:       "Draft Post",
		AuthorsText: "A. Author",
		Abstract:    "Abstract",
		Body:        "Body",
		Draft:       true,
	})
	resp := parseResponse(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "draft", data["phase"])
	postID := int64(data["id"].(float64))

	// A second draft is rejected
	w = performRequest(router, "POST", "/posts", dto.CreatePostRequest{
		Title:       "Another Draft",
		AuthorsText: "A. Author",
		Abstract:    "Abstract",
		Body:        "Body",
		Draft:       true,
	})
	resp = parseResponse(t, w)
	assert.Equal(t, response.CodeDuplicateAction, resp.Code)

	// Publish the first draft
	w = performRequest(router, "POST", fmt.Sprintf("/posts/%d/publish", postID), nil)
	resp = parseResponse(t, w)
	assert.Equal(t, response.CodeSuccess, resp.Code)
	data = resp.Data.(map[string]interface{})
	assert.Equal(t, "published", data["phase"])
}

func TestPostHandler_Publish_NotOwner(t *testing.T) {
	handler, db := setupPostHandler(t)

	owner := testutil.TestUser(t, db)
	other := testutil.TestUser(t, db)
	draft := testutil.TestPost(t, db, owner.ID, testutil.WithPhase(model.PhaseDraft))

	router := gin.New()
	router.Use(mockAuth(other.ID))
	router.POST("/posts/:id/publish", handler.Publish)

	w := performRequest(router, "POST", fmt.Sprintf("/posts/%d/publish", draft.ID), nil)
	resp := parseResponse(t, w)
	assert.Equal(t, response.CodePermissionDenied, resp.Code)
}

func TestPostHandler_Get_Success(t *testing.T) {
	handler, db := setupPostHandler(t)

	user := testutil.TestUser(t, db)
	post := testutil.TestPost(t, db, user.ID)

	router := gin.New()
	router.GET("/posts/:id", handler.Get)

	w := performRequest(router, "GET", fmt.Sprintf("/posts/%d", post.ID), nil)
	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeSuccess, resp.Code)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, post.Title, data["title"])
}

func TestPostHandler_Get_NotFound(t *testing.T) {
	handler, _ := setupPostHandler(t)

	router := gin.New()
	router.GET("/posts/:id", handler.Get)

	w := performRequest(router, "GET", "/posts/99999", nil)
	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeResourceNotFound, resp.Code)
}

func TestPostHandler_Get_InvalidID(t *testing.T) {
	handler, _ := setupPostHandler(t)

	router := gin.New()
	router.GET("/posts/:id", handler.Get)

	w := performRequest(router, "GET", "/posts/invalid", nil)
	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeParamError, resp.Code)
}

func TestPostHandler_List_ExcludesDrafts(t *testing.T) {
	handler, db := setupPostHandler(t)

	user := testutil.TestUser(t, db)
	testutil.TestPost(t, db, user.ID)
	testutil.TestPost(t, db, user.ID)
	testutil.TestPost(t, db, user.ID, testutil.WithPhase(model.PhaseDraft))

	router := gin.New()
	router.GET("/posts", handler.List)

	w := performRequest(router, "GET", "/posts", nil)
	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeSuccess, resp.Code)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(2), data["total"])
}

func TestPostHandler_Search(t *testing.T) {
	handler, db := setupPostHandler(t)

	user := testutil.TestUser(t, db)
	testutil.TestPost(t, db, user.ID, testutil.WithTitle("Deep Learning Survey"))
	testutil.TestPost(t, db, user.ID, testutil.WithTitle("Database Internals"))

	router := gin.New()
	router.GET("/posts/search", handler.Search)

	w := performRequest(router, "GET", "/posts/search?q=Learning", nil)
	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeSuccess, resp.Code)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(1), data["total"])
}

func TestPostHandler_Search_MissingKeyword(t *testing.T) {
	handler, _ := setupPostHandler(t)

	router := gin.New()
	router.GET("/posts/search", handler.Search)

	w := performRequest(router, "GET", "/posts/search", nil)
	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeParamError, resp.Code)
}

func TestPostHandler_Delete_ByOwner(t *testing.T) {
	handler, db := setupPostHandler(t)

	user := testutil.TestUser(t, db)
	post := testutil.TestPost(t, db, user.ID)

	router := gin.New()
	router.Use(mockAuth(user.ID))
	router.DELETE("/posts/:id", handler.Delete)

	req := performRequest(router, "DELETE", fmt.Sprintf("/posts/%d", post.ID), nil)
	resp := parseResponse(t, req)
	assert.Equal(t, response.CodeSuccess, resp.Code)

	var count int64
	db.Model(&model.Post{}).Where("id = ?", post.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestPostHandler_Delete_NoPermission(t *testing.T) {
	handler, db := setupPostHandler(t)

	owner := testutil.TestUser(t, db)
	other := testutil.TestUser(t, db)
	post := testutil.TestPost(t, db, owner.ID)

	router := gin.New()
	router.Use(mockAuth(other.ID))
	router.DELETE("/posts/:id", handler.Delete)

	w := performRequest(router, "DELETE", fmt.Sprintf("/posts/%d", post.ID), nil)
	resp := parseResponse(t, w)
	assert.Equal(t, response.CodePermissionDenied, resp.Code)
}

func TestPostHandler_Delete_ByModerator(t *testing.T) {
	handler, db := setupPostHandler(t)

	owner := testutil.TestUser(t, db)
	moderator := testutil.TestUser(t, db, testutil.WithRole(model.RoleModerator))
	post := testutil.TestPost(t, db, owner.ID)

	router := gin.New()
	router.Use(mockAuth(moderator.ID))
	router.DELETE("/posts/:id", handler.Delete)

	w := performRequest(router, "DELETE", fmt.Sprintf("/posts/%d", post.ID), nil)
	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeSuccess, resp.Code)
}
