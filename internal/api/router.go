package api

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/showcase_go_server/config"
	"github.com/qs3c/showcase_go_server/internal/api/handler"
	"github.com/qs3c/showcase_go_server/internal/api/middleware"
	"github.com/qs3c/showcase_go_server/internal/model"
	"github.com/qs3c/showcase_go_server/internal/pkg/blacklist"
)

type Router struct {
	authHandler    *handler.AuthHandler
	userHandler    *handler.UserHandler
	postHandler    *handler.PostHandler
	commentHandler *handler.CommentHandler
	voteHandler    *handler.VoteHandler
	reviewHandler  *handler.ReviewHandler
	reportHandler  *handler.ReportHandler
	uploadHandler  *handler.UploadHandler
	tokens         *blacklist.Store
	cfg            *config.Config
}

func NewRouter(
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	postHandler *handler.PostHandler,
	commentHandler *handler.CommentHandler,
	voteHandler *handler.VoteHandler,
	reviewHandler *handler.ReviewHandler,
	reportHandler *handler.ReportHandler,
	uploadHandler *handler.UploadHandler,
	tokens *blacklist.Store,
	cfg *config.Config,
) *Router {
	return &Router{
		authHandler:    authHandler,
		userHandler:    userHandler,
		postHandler:    postHandler,
		commentHandler: commentHandler,
		voteHandler:    voteHandler,
		reviewHandler:  reviewHandler,
		reportHandler:  reportHandler,
		uploadHandler:  uploadHandler,
		tokens:         tokens,
		cfg:            cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	if r.cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS(r.cfg.CORS))
	engine.Use(middleware.RateLimit(middleware.NewRateLimiter(r.cfg.RateLimit.PerMinute)))

	jwtSecret := r.cfg.JWT.Secret

	api := engine.Group("/api/v1")
	{
		// 公开接口 - 认证
		auth := api.Group("/auth")
		{
			auth.POST("/register", r.authHandler.Register)
			auth.POST("/login", r.authHandler.Login)
			auth.POST("/verify-email", r.authHandler.VerifyEmail)
			auth.GET("/github", r.authHandler.GithubAuth)
			auth.GET("/github/callback", r.authHandler.GithubCallback)
		}

		// 登出需要携带 Token
		authLogout := api.Group("/auth")
		authLogout.Use(middleware.Auth(jwtSecret, r.tokens))
		{
			authLogout.POST("/logout", r.authHandler.Logout)
		}

		// 公开接口 - 帖子浏览（可选认证）
		postsPublic := api.Group("/posts")
		postsPublic.Use(middleware.OptionalAuth(jwtSecret, r.tokens))
		{
			postsPublic.GET("", r.postHandler.List)
			postsPublic.GET("/search", r.postHandler.Search)
			postsPublic.GET("/top", r.postHandler.Top)
			postsPublic.GET("/:id", r.postHandler.Get)
			postsPublic.GET("/:id/comments", r.commentHandler.List)
			postsPublic.GET("/:id/reviews", r.reviewHandler.List)
			postsPublic.GET("/:id/votes", r.voteHandler.GetCounts(model.VoteKindPost))
		}

		commentsPublic := api.Group("/comments")
		commentsPublic.Use(middleware.OptionalAuth(jwtSecret, r.tokens))
		{
			commentsPublic.GET("/:id/votes", r.voteHandler.GetCounts(model.VoteKindComment))
		}

		reviewsPublic := api.Group("/reviews")
		reviewsPublic.Use(middleware.OptionalAuth(jwtSecret, r.tokens))
		{
			reviewsPublic.GET("/:id/votes", r.voteHandler.GetCounts(model.VoteKindReview))
		}

		// 公开接口 - 用户主页
		usersPublic := api.Group("/users")
		usersPublic.Use(middleware.OptionalAuth(jwtSecret, r.tokens))
		{
			usersPublic.GET("/count", r.userHandler.Count)
			usersPublic.GET("/latest", r.userHandler.ListLatest)
			usersPublic.GET("/:id", r.userHandler.GetUser)
			usersPublic.GET("/:id/stats", r.userHandler.GetUserStats)
			usersPublic.GET("/:id/posts", r.userHandler.ListUserPosts)
		}

		// 需要认证的接口
		authenticated := api.Group("")
		authenticated.Use(middleware.Auth(jwtSecret, r.tokens))
		{
			// 用户
			user := authenticated.Group("/user")
			{
				user.GET("/profile", r.userHandler.GetProfile)
				user.PUT("/profile", r.userHandler.UpdateProfile)
			}

			// 角色管理（版主）
			authenticated.PUT("/users/:id/role", r.userHandler.SetRole)

			// 帖子
			posts := authenticated.Group("/posts")
			{
				posts.POST("", r.postHandler.Create)
				posts.POST("/:id/publish", r.postHandler.Publish)
				posts.DELETE("/:id", r.postHandler.Delete)
				posts.POST("/:id/comments", r.commentHandler.Create)
				posts.POST("/:id/reviews", r.reviewHandler.Create)
				posts.POST("/:id/vote", r.voteHandler.Cast(model.VoteKindPost))
			}

			// 评论与评审投票
			authenticated.DELETE("/comments/:id", r.commentHandler.Delete)
			authenticated.POST("/comments/:id/vote", r.voteHandler.Cast(model.VoteKindComment))
			authenticated.POST("/reviews/:id/vote", r.voteHandler.Cast(model.VoteKindReview))

			// 附件上传
			authenticated.POST("/upload/attachment", r.uploadHandler.UploadAttachment)

			// 举报
			reports := authenticated.Group("/reports")
			{
				reports.POST("", r.reportHandler.Create)
				reports.GET("", r.reportHandler.List)
				reports.PUT("/:id/status", r.reportHandler.UpdateStatus)
			}
		}
	}

	return engine
}
