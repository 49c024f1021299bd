package cron

import (
	"log"
	"time"

	"github.com/qs3c/showcase_go_server/internal/service"
)

type Service struct {
	userService     *service.UserService
	intervalMinutes int
	stopChan        chan struct{}
}

func NewService(userService *service.UserService, intervalMinutes int) *Service {
	return &Service{
		userService:     userService,
		intervalMinutes: intervalMinutes,
		stopChan:        make(chan struct{}),
	}
}

// Start 启动定时任务
func (s *Service) Start() {
	go s.runCleanup()
	log.Println("Cron service started (unverified user cleanup)")
}

// Stop 停止定时任务
func (s *Service) Stop() {
	close(s.stopChan)
	log.Println("Cron service stopped")
}

// runCleanup 周期性清理验证码已过期的未验证用户
func (s *Service) runCleanup() {
	interval := s.intervalMinutes
	if interval <= 0 {
		interval = 60
	}
	ticker := time.NewTicker(time.Duration(interval) * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.cleanupUnverified()
		}
	}
}

func (s *Service) cleanupUnverified() {
	deleted, err := s.userService.DeleteExpiredUnverified(time.Now())
	if err != nil {
		log.Printf("Cleanup unverified: %v", err)
		return
	}
	if deleted > 0 {
		log.Printf("Cleanup unverified: removed %d expired accounts", deleted)
	}
}

// RunNow 立即执行一次清理（用于测试或手动触发）
func (s *Service) RunNow() (int64, error) {
	return s.userService.DeleteExpiredUnverified(time.Now())
}
