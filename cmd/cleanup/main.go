package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/qs3c/showcase_go_server/config"
	"github.com/qs3c/showcase_go_server/internal/database"
	"github.com/qs3c/showcase_go_server/internal/repository"
)

var dryRun = flag.Bool("dry-run", true, "Dry run mode, don't actually delete accounts")

func main() {
	flag.Parse()

	log.Println("Starting cleanup task...")
	log.Printf("Mode: dry-run=%v", *dryRun)

	// 加载配置
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 连接数据库
	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	now := time.Now()

	// 列出验证码已过期的未验证账号
	expired, err := userRepo.ListExpiredUnverified(now)
	if err != nil {
		log.Fatalf("Failed to query expired accounts: %v", err)
	}

	if len(expired) == 0 {
		log.Println("No expired unverified accounts found")
		return
	}

	for _, user := range expired {
		email := ""
		if user.Email != nil {
			email = *user.Email
		}
		age := "unknown"
		if user.VerificationExpiresAt != nil {
			age = now.Sub(*user.VerificationExpiresAt).Round(time.Hour).String()
		}
		log.Printf("  - %s <%s> (expired %s ago)", user.Username, email, age)
	}

	if *dryRun {
		log.Printf("DRY RUN MODE - %d accounts would be deleted", len(expired))
		log.Println("Run with -dry-run=false to actually delete them")
		return
	}

	deleted, err := userRepo.DeleteExpiredUnverified(now)
	if err != nil {
		log.Fatalf("Failed to delete expired accounts: %v", err)
	}
	log.Printf("Cleanup completed, deleted %d accounts", deleted)
}
