package main

import (
	"fmt"
	"log"

	"github.com/qs3c/showcase_go_server/config"
	"github.com/qs3c/showcase_go_server/internal/api"
	"github.com/qs3c/showcase_go_server/internal/api/handler"
	"github.com/qs3c/showcase_go_server/internal/database"
	"github.com/qs3c/showcase_go_server/internal/pkg/blacklist"
	"github.com/qs3c/showcase_go_server/internal/pkg/cron"
	"github.com/qs3c/showcase_go_server/internal/pkg/email"
	"github.com/qs3c/showcase_go_server/internal/pkg/oauth"
	"github.com/qs3c/showcase_go_server/internal/pkg/oss"
	"github.com/qs3c/showcase_go_server/internal/repository"
	"github.com/qs3c/showcase_go_server/internal/service"
)

func main() {
	// 加载配置
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化数据库
	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database connected")

	// 初始化 Redis
	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}
	log.Println("Redis connected")

	// Token 黑名单与 OAuth state
	tokens := blacklist.NewStore(rdb)
	stateStore := oauth.NewStateStore(rdb)

	// 邮件服务
	emailService := email.NewService(&cfg.Email)

	// OSS（未配置时附件上传接口不可用）
	var ossClient *oss.Client
	if cfg.OSS.Endpoint != "" {
		ossClient, err = oss.NewClient(&cfg.OSS)
		if err != nil {
			log.Fatalf("Failed to init OSS client: %v", err)
		}
		log.Println("OSS client initialized")
	}

	// 初始化 Repository
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	voteRepo := repository.NewVoteRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	reportRepo := repository.NewReportRepository(db)

	// 初始化 Service
	authService := service.NewAuthService(userRepo, cfg, emailService, tokens)
	userService := service.NewUserService(userRepo, postRepo, voteRepo)
	postService := service.NewPostService(db, postRepo, commentRepo, reviewRepo, voteRepo, reportRepo, userRepo)
	commentService := service.NewCommentService(db, commentRepo, postRepo, voteRepo, reportRepo, userRepo)
	voteService := service.NewVoteService(voteRepo, postRepo, commentRepo, reviewRepo)
	reviewService := service.NewReviewService(db, reviewRepo, postRepo, userRepo, voteRepo, cfg)
	reportService := service.NewReportService(reportRepo, postRepo, commentRepo, userRepo)

	// 初始化 Handler
	authHandler := handler.NewAuthHandler(authService, stateStore)
	userHandler := handler.NewUserHandler(userService, postService)
	postHandler := handler.NewPostHandler(postService)
	commentHandler := handler.NewCommentHandler(commentService)
	voteHandler := handler.NewVoteHandler(voteService)
	reviewHandler := handler.NewReviewHandler(reviewService)
	reportHandler := handler.NewReportHandler(reportService)
	uploadHandler := handler.NewUploadHandler(ossClient)

	// 定时清理过期未验证用户
	cronService := cron.NewService(userService, cfg.Cleanup.IntervalMinutes)
	cronService.Start()
	defer cronService.Stop()

	// 初始化 Router
	router := api.NewRouter(
		authHandler,
		userHandler,
		postHandler,
		commentHandler,
		voteHandler,
		reviewHandler,
		reportHandler,
		uploadHandler,
		tokens,
		cfg,
	)
	engine := router.Setup()

	// 启动服务器
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Server starting on %s", addr)
	if err := engine.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
