package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/showcase_go_server/internal/model"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// WithTx 返回绑定到事务的副本
func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{db: tx}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.db.Create(user).Error
}

func (r *UserRepository) GetByID(id int64) (*model.User, error) {
	var user model.User
	err := r.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByUsername(username string) (*model.User, error) {
	var user model.User
	err := r.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByGithubID(githubID string) (*model.User, error) {
	var user model.User
	err := r.db.Where("github_id = ?", githubID).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByVerificationCode(code string) (*model.User, error) {
	var user model.User
	err := r.db.Where("verification_code = ?", code).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Update(user *model.User) error {
	return r.db.Save(user).Error
}

func (r *UserRepository) UpdateFields(id int64, fields map[string]interface{}) error {
	return r.db.Model(&model.User{}).Where("id = ?", id).Updates(fields).Error
}

// UpdateRole 更新用户角色
func (r *UserRepository) UpdateRole(id int64, role model.Role) error {
	return r.db.Model(&model.User{}).Where("id = ?", id).Update("role", role).Error
}

func (r *UserRepository) Delete(id int64) error {
	return r.db.Delete(&model.User{}, id).Error
}

func (r *UserRepository) ExistsByEmail(email string) (bool, error) {
	var count int64
	err := r.db.Model(&model.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) ExistsByUsername(username string) (bool, error) {
	var count int64
	err := r.db.Model(&model.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.User{}).Count(&count).Error
	return count, err
}

// ListLatest 按注册时间倒序获取最新用户
func (r *UserRepository) ListLatest(limit int) ([]*model.User, error) {
	var users []*model.User
	err := r.db.Order("created_at DESC").Limit(limit).Find(&users).Error
	return users, err
}

// ListExpiredUnverified 获取验证码已过期且仍未验证邮箱的用户
func (r *UserRepository) ListExpiredUnverified(now time.Time) ([]*model.User, error) {
	var users []*model.User
	err := r.db.Where("email_verified = ? AND verification_expires_at IS NOT NULL AND verification_expires_at < ?", false, now).
		Find(&users).Error
	return users, err
}

// DeleteExpiredUnverified 删除验证码已过期且仍未验证邮箱的用户
func (r *UserRepository) DeleteExpiredUnverified(now time.Time) (int64, error) {
	result := r.db.Where("email_verified = ? AND verification_expires_at IS NOT NULL AND verification_expires_at < ?", false, now).
		Delete(&model.User{})
	return result.RowsAffected, result.Error
}
