package repository

import (
	"context"
	"time"

	"github.com/user/moovie-api/internal/apperr"
	"github.com/user/moovie-api/internal/model"
	"github.com/user/moovie-api/internal/query"
	"gorm.io/gorm"
)

// UserSchema 用户列表允许过滤与排序的列
var UserSchema = query.Schema{
	"id":                query.String,
	"name":              query.String,
	"email":             query.String,
	"age":               query.Int,
	"address":           query.String,
	"role_id":           query.String,
	"is_deleted":        query.Bool,
	"is_verified_email": query.Bool,
	"created_at":        query.Time,
	"updated_at":        query.Time,
}

type UserRepository struct {
	*Base[model.User]
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{
		Base: NewBase[model.User](db, Relation{Name: "Role", ForeignKey: "role_id"}),
		db:   db,
	}
}

// FindByEmail 根据邮箱查找用户
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.FindOne(ctx, query.Where(query.Eq("email", email)), FindOptions{})
}

// AddFavourite 收藏列表中不存在时追加，返回是否修改
func (r *UserRepository) AddFavourite(ctx context.Context, userID, slug string) (bool, error) {
	return r.appendUnique(ctx, "favourite_movies", userID, slug)
}

// RemoveFavourite 从收藏列表移除，返回是否修改
func (r *UserRepository) RemoveFavourite(ctx context.Context, userID, slug string) (bool, error) {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE users SET favourite_movies = array_remove(favourite_movies, ?), updated_at = ?
		WHERE id = ? AND ? = ANY(favourite_movies)
	`, slug, time.Now(), userID, slug)
	if result.Error != nil {
		return false, apperr.Store(apperr.OpUpdate, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// AddRecent 最近观看列表中不存在时追加
func (r *UserRepository) AddRecent(ctx context.Context, userID, slug string) (bool, error) {
	return r.appendUnique(ctx, "recent_movies", userID, slug)
}

// 列名只来自本文件的常量
func (r *UserRepository) appendUnique(ctx context.Context, column, userID, slug string) (bool, error) {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE users SET `+column+` = array_append(COALESCE(`+column+`, '{}'), ?), updated_at = ?
		WHERE id = ? AND NOT (? = ANY(COALESCE(`+column+`, '{}')))
	`, slug, time.Now(), userID, slug)
	if result.Error != nil {
		return false, apperr.Store(apperr.OpUpdate, result.Error)
	}
	return result.RowsAffected > 0, nil
}
