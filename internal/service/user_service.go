package service

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/showcase_go_server/internal/model"
	"github.com/qs3c/showcase_go_server/internal/model/dto"
	"github.com/qs3c/showcase_go_server/internal/repository"
)

var (
	ErrPermissionDenied = errors.New("无权执行此操作")
	ErrInvalidRole      = errors.New("无效的角色")
)

type UserService struct {
	userRepo *repository.UserRepository
	postRepo *repository.PostRepository
	voteRepo *repository.VoteRepository
}

func NewUserService(userRepo *repository.UserRepository, postRepo *repository.PostRepository, voteRepo *repository.VoteRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
		postRepo: postRepo,
		voteRepo: voteRepo,
	}
}

// GetProfile 获取用户资料
func (s *UserService) GetProfile(userID int64) (*dto.UserInfo, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return BuildUserInfo(user), nil
}

// UpdateProfile 更新个人资料
func (s *UserService) UpdateProfile(userID int64, req *dto.UpdateProfileRequest) (*dto.UserInfo, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.Bio != nil {
		fields["bio"] = *req.Bio
		user.Bio = *req.Bio
	}
	if req.SocialLinks != nil {
		fields["social_links"] = *req.SocialLinks
		user.SocialLinks = *req.SocialLinks
	}

	if len(fields) > 0 {
		if err := s.userRepo.UpdateFields(userID, fields); err != nil {
			return nil, err
		}
	}

	return BuildUserInfo(user), nil
}

// GetStats 获取用户统计：已发布帖子数与净得分
func (s *UserService) GetStats(userID int64) (*dto.UserStats, error) {
	if _, err := s.userRepo.GetByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	postCount, err := s.postRepo.CountByPosterID(userID)
	if err != nil {
		return nil, err
	}

	score, err := s.voteRepo.UserScore(userID)
	if err != nil {
		return nil, err
	}

	return &dto.UserStats{
		PostCount: postCount,
		Score:     score,
	}, nil
}

// Count 统计注册用户总数
func (s *UserService) Count() (int64, error) {
	return s.userRepo.Count()
}

// ListLatest 获取最新注册用户
func (s *UserService) ListLatest(limit int) ([]*dto.UserInfo, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	users, err := s.userRepo.ListLatest(limit)
	if err != nil {
		return nil, err
	}

	infos := make([]*dto.UserInfo, 0, len(users))
	for _, user := range users {
		infos = append(infos, BuildUserInfo(user))
	}
	return infos, nil
}

// SetRole 调整用户角色，仅版主可操作
func (s *UserService) SetRole(operatorID, targetID int64, roleStr string) (*dto.UserInfo, error) {
	operator, err := s.userRepo.GetByID(operatorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !operator.Role.Can(model.ActionPromote) {
		return nil, ErrPermissionDenied
	}

	role := model.Role(roleStr)
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	target, err := s.userRepo.GetByID(targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if err := s.userRepo.UpdateRole(targetID, role); err != nil {
		return nil, err
	}
	target.Role = role

	return BuildUserInfo(target), nil
}

// DeleteExpiredUnverified 清理验证超时的未验证账号，返回清理数量
func (s *UserService) DeleteExpiredUnverified(now time.Time) (int64, error) {
	return s.userRepo.DeleteExpiredUnverified(now)
}

// ListExpiredUnverified 列出待清理的未验证账号
func (s *UserService) ListExpiredUnverified(now time.Time) ([]*model.User, error) {
	return s.userRepo.ListExpiredUnverified(now)
}
