package model

import (
	"time"

	"github.com/lib/pq"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Role 角色
type Role struct {
	ID   string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name string `json:"name" gorm:"uniqueIndex;not null"`
}

// Actor 操作人（审计字段）
type Actor struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Avatar 头像
type Avatar struct {
	PublicID    string `json:"public_id" binding:"required"`
	OriginalURL string `json:"original_url" binding:"required"`
	ResizedURL  string `json:"resized_url,omitempty"`
}

// User 用户模型，只做软删除
type User struct {
	ID              string         `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name            string         `json:"name" gorm:"not null"`
	Email           string         `json:"email" gorm:"uniqueIndex;not null"`
	Password        string         `json:"-" gorm:"not null"`
	RoleID          string         `json:"role_id" gorm:"type:varchar(36);index"`
	Role            *Role          `json:"role,omitempty" gorm:"foreignKey:RoleID"`
	Age             *int           `json:"age,omitempty"`
	Address         string         `json:"address,omitempty"`
	Avatar          *Avatar        `json:"avatar_url,omitempty" gorm:"embedded;embeddedPrefix:avatar_"`
	RecentMovies    pq.StringArray `json:"recent_movies" gorm:"type:text[]"`
	FavouriteMovies pq.StringArray `json:"favourite_movies" gorm:"type:text[]"`
	IsDeleted       bool           `json:"is_deleted" gorm:"index"`
	IsVerifiedEmail bool           `json:"is_verified_email"`
	CreatedBy       *Actor         `json:"created_by,omitempty" gorm:"embedded;embeddedPrefix:created_by_"`
	UpdatedBy       *Actor         `json:"updated_by,omitempty" gorm:"embedded;embeddedPrefix:updated_by_"`
	DeletedBy       *Actor         `json:"deleted_by,omitempty" gorm:"embedded;embeddedPrefix:deleted_by_"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// IsAdmin 需要预加载 Role
func (u *User) IsAdmin() bool {
	return u.Role != nil && u.Role.Name == RoleAdmin
}

// CreateUserInput 创建用户请求；RoleID、CreatedBy 由服务层填充
type CreateUserInput struct {
	Email     string  `json:"email" binding:"required,email"`
	Password  string  `json:"password" binding:"required,min=8,max=16"`
	Name      string  `json:"name" binding:"required"`
	Age       *int    `json:"age" binding:"omitempty,gte=0"`
	Address   string  `json:"address"`
	Avatar    *Avatar `json:"avatar_url"`
	RoleID    string  `json:"-"`
	CreatedBy *Actor  `json:"-"`
}

// NewRecord 用新 ID 构建待入库的用户
func (in CreateUserInput) NewRecord(id string) *User {
	return &User{
		ID:              id,
		Name:            in.Name,
		Email:           in.Email,
		Password:        in.Password,
		RoleID:          in.RoleID,
		Age:             in.Age,
		Address:         in.Address,
		Avatar:          in.Avatar,
		RecentMovies:    pq.StringArray{},
		FavouriteMovies: pq.StringArray{},
		CreatedBy:       in.CreatedBy,
	}
}

// SignUpInput 注册请求与创建用户一致
type SignUpInput = CreateUserInput

// UpdateUserInput 部分更新，nil 字段不修改
type UpdateUserInput struct {
	Name      *string `json:"name"`
	Age       *int    `json:"age" binding:"omitempty,gte=0"`
	Address   *string `json:"address"`
	Avatar    *Avatar `json:"avatar_url"`
	UpdatedBy *Actor  `json:"-"`
}

// Changes 转换为列更新
func (in UpdateUserInput) Changes() map[string]any {
	changes := map[string]any{}
	if in.Name != nil {
		changes["name"] = *in.Name
	}
	if in.Age != nil {
		changes["age"] = *in.Age
	}
	if in.Address != nil {
		changes["address"] = *in.Address
	}
	if in.Avatar != nil {
		changes["avatar_public_id"] = in.Avatar.PublicID
		changes["avatar_original_url"] = in.Avatar.OriginalURL
		changes["avatar_resized_url"] = in.Avatar.ResizedURL
	}
	if in.UpdatedBy != nil {
		changes["updated_by_id"] = in.UpdatedBy.ID
		changes["updated_by_email"] = in.UpdatedBy.Email
	}
	return changes
}

// SignInInput 登录请求
type SignInInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}
