package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/user/moovie-api/internal/apperr"
	"github.com/user/moovie-api/internal/model"
	"github.com/user/moovie-api/internal/query"
	"github.com/user/moovie-api/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 10

// UserStore 用户存储
type UserStore interface {
	repository.Store[model.User]
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	AddFavourite(ctx context.Context, userID, slug string) (bool, error)
	RemoveFavourite(ctx context.Context, userID, slug string) (bool, error)
	AddRecent(ctx context.Context, userID, slug string) (bool, error)
}

// RoleStore 角色查询
type RoleStore interface {
	FindByName(ctx context.Context, name string) (*model.Role, error)
}

type UserCRUD = CRUD[model.User, model.CreateUserInput, model.UpdateUserInput]

// UserService 用户服务
type UserService struct {
	*UserCRUD
	users UserStore
	roles RoleStore
	log   *zap.Logger
	// 未知邮箱时用于比对，使两种失败耗时一致
	dummyHash []byte
}

func NewUserService(users UserStore, roles RoleStore, log *zap.Logger) *UserService {
	dummy, _ := bcrypt.GenerateFromPassword([]byte("moovie-dummy-password"), bcryptCost)
	return &UserService{
		UserCRUD:  NewCRUD[model.User, model.CreateUserInput, model.UpdateUserInput](users, repository.UserSchema),
		users:     users,
		roles:     roles,
		log:       log,
		dummyHash: dummy,
	}
}

// CreateUser 创建用户，邮箱重复时返回 Conflict
func (s *UserService) CreateUser(ctx context.Context, in model.CreateUserInput, actor *model.Actor) (*model.User, error) {
	existing, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errUserExist()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role, err := s.roles.FindByName(ctx, model.RoleUser)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, apperr.Store(apperr.OpFind, fmt.Errorf("role %q is not seeded", model.RoleUser))
	}

	in.Password = string(hash)
	in.RoleID = role.ID
	in.CreatedBy = actor

	user, err := s.Create(ctx, in)
	if errors.Is(err, repository.ErrDuplicateKey) {
		return nil, errUserExist()
	}
	if err != nil {
		return nil, err
	}

	s.log.Info("user created", zap.String("user_id", user.ID), zap.String("email", user.Email))
	user.Password = ""
	return user, nil
}

// UpdateUser 部分更新并记录操作人
func (s *UserService) UpdateUser(ctx context.Context, id string, in model.UpdateUserInput, actor *model.Actor) error {
	in.UpdatedBy = actor
	res, err := s.UpdateOneByID(ctx, id, in)
	if err != nil {
		return err
	}
	if res.Modified == 0 && len(in.Changes()) > 0 {
		return errUserNotFound()
	}
	return nil
}

// DeleteUser 软删除，管理员不可删除
func (s *UserService) DeleteUser(ctx context.Context, id string, actor *model.Actor) error {
	user, err := s.FindOneByID(ctx, id, repository.FindOptions{Expand: []string{"Role"}})
	if err != nil {
		return err
	}
	if user == nil {
		return errUserNotFound()
	}
	if user.IsDeleted {
		return apperr.BadRequest(apperr.CodeUserNotExisted, "user has already been deleted")
	}
	if user.IsAdmin() {
		return apperr.Forbidden(apperr.CodeNotDeleteAdmin, "cannot delete an admin account")
	}

	extra := map[string]any{}
	if actor != nil {
		extra["deleted_by_id"] = actor.ID
		extra["deleted_by_email"] = actor.Email
	}
	if _, err := s.SoftDeleteByID(ctx, id, extra); err != nil {
		return err
	}

	s.log.Info("user soft-deleted", zap.String("user_id", id))
	return nil
}

// ValidateUser 校验邮箱与密码，任一不匹配都返回 nil
func (s *UserService) ValidateUser(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || user.IsDeleted {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		return nil, nil
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, nil
	}
	user.Password = ""
	return user, nil
}

// GetUserInfor 不含密码的用户信息
func (s *UserService) GetUserInfor(ctx context.Context, id string) (*model.User, error) {
	user, err := s.FindOneByID(ctx, id, repository.FindOptions{
		Projection: query.Exclude("password"),
		Expand:     []string{"Role"},
	})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errUserNotFound()
	}
	return user, nil
}

// LikeMovie 加入收藏，已存在时不变
func (s *UserService) LikeMovie(ctx context.Context, userID, slug string) error {
	_, err := s.users.AddFavourite(ctx, userID, slug)
	return err
}

// UnlikeMovie 移出收藏，不存在时不变
func (s *UserService) UnlikeMovie(ctx context.Context, userID, slug string) error {
	_, err := s.users.RemoveFavourite(ctx, userID, slug)
	return err
}

func (s *UserService) GetFavouriteMovieSlugs(ctx context.Context, userID string) ([]string, error) {
	user, err := s.FindOneByID(ctx, userID, repository.FindOptions{Projection: query.Include("favourite_movies")})
	if err != nil || user == nil {
		return []string{}, err
	}
	return append([]string{}, user.FavouriteMovies...), nil
}

func (s *UserService) GetRecentMovieSlugs(ctx context.Context, userID string) ([]string, error) {
	user, err := s.FindOneByID(ctx, userID, repository.FindOptions{Projection: query.Include("recent_movies")})
	if err != nil || user == nil {
		return []string{}, err
	}
	return append([]string{}, user.RecentMovies...), nil
}

// SaveRecentMovieIfNotExisted 最近观看中不存在时追加
func (s *UserService) SaveRecentMovieIfNotExisted(ctx context.Context, slug, userID string) error {
	_, err := s.users.AddRecent(ctx, userID, slug)
	return err
}

// UpdateAvatar 设置头像
func (s *UserService) UpdateAvatar(ctx context.Context, id string, avatar model.Avatar, actor *model.Actor) error {
	return s.UpdateUser(ctx, id, model.UpdateUserInput{Avatar: &avatar}, actor)
}

func errUserExist() error {
	return apperr.Conflict(apperr.CodeUserExist, "user already exists")
}

func errUserNotFound() error {
	return apperr.NotFound(apperr.CodeUserNotFound, "user not found")
}
