package model

import (
	"time"
)

// Role 用户角色（封闭枚举）
type Role string

const (
	RoleUser       Role = "user"
	RoleResearcher Role = "researcher"
	RoleModerator  Role = "moderator"
)

// Action 需要授权的操作
type Action string

const (
	ActionReview   Action = "review"   // 撰写评审
	ActionModerate Action = "moderate" // 处理举报、删除他人内容
	ActionPromote  Action = "promote"  // 调整用户角色
)

// 角色-操作权限表
var rolePermissions = map[Role]map[Action]bool{
	RoleUser: {},
	RoleResearcher: {
		ActionReview: true,
	},
	RoleModerator: {
		ActionReview:   true,
		ActionModerate: true,
		ActionPromote:  true,
	},
}

// Can 判断角色是否允许执行操作
func (r Role) Can(a Action) bool {
	return rolePermissions[r][a]
}

// Valid 判断角色是否合法
func (r Role) Valid() bool {
	_, ok := rolePermissions[r]
	return ok
}

type User struct {
	ID                    int64      `gorm:"primaryKey" json:"id"`
	Username              string     `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email                 *string    `gorm:"size:100;uniqueIndex" json:"email,omitempty"`
	PasswordHash          *string    `gorm:"size:255" json:"-"`
	Role                  Role       `gorm:"size:20;not null;default:user" json:"role"`
	Bio                   string     `gorm:"type:text" json:"bio"`
	SocialLinks           string     `gorm:"size:500" json:"social_links"`
	GithubID              *string    `gorm:"column:github_id;size:50;uniqueIndex" json:"-"`
	EmailVerified         bool       `gorm:"default:false" json:"email_verified"`
	VerificationCode      *string    `gorm:"size:100" json:"-"`
	VerificationExpiresAt *time.Time `json:"-"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
