package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/user/moovie-api/internal/apperr"
	"github.com/user/moovie-api/internal/model"
	"github.com/user/moovie-api/internal/query"
	"gorm.io/gorm"
)

type MovieRepository struct {
	*Base[model.Movie]
	db *gorm.DB
}

func NewMovieRepository(db *gorm.DB) *MovieRepository {
	return &MovieRepository{Base: NewBase[model.Movie](db), db: db}
}

// FindBySlug 根据 slug 查找本地记录
func (r *MovieRepository) FindBySlug(ctx context.Context, slug string) (*model.Movie, error) {
	return r.FindOne(ctx, query.Where(query.Eq("slug", slug)), FindOptions{})
}

// Top 按浏览量降序
func (r *MovieRepository) Top(ctx context.Context, limit int) ([]model.Movie, error) {
	return r.FindMany(ctx, query.Filter{}, ListOptions{
		FindOptions: FindOptions{Projection: query.Include("slug", "views")},
		Sort:        []query.Sort{{Field: "views", Desc: true}},
		Limit:       limit,
	})
}

// UpView 浏览量 +1，记录不存在时创建
func (r *MovieRepository) UpView(ctx context.Context, slug string) error {
	now := time.Now()
	err := r.db.WithContext(ctx).Exec(`
		INSERT INTO movies (id, slug, views, likers, created_at, updated_at)
		VALUES (?, ?, 1, '{}', ?, ?)
		ON CONFLICT (slug) DO UPDATE SET
			views = movies.views + 1,
			updated_at = EXCLUDED.updated_at
	`, uuid.NewString(), slug, now, now).Error
	if err != nil {
		return apperr.Store(apperr.OpUpdate, err)
	}
	return nil
}

// AddLiker 追加点赞用户，已点赞时返回 false
func (r *MovieRepository) AddLiker(ctx context.Context, slug, userID string) (bool, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).Exec(`
		INSERT INTO movies (id, slug, views, likers, created_at, updated_at)
		VALUES (?, ?, 0, ARRAY[?]::text[], ?, ?)
		ON CONFLICT (slug) DO UPDATE SET
			likers = array_append(COALESCE(movies.likers, '{}'), ?),
			updated_at = EXCLUDED.updated_at
		WHERE NOT (? = ANY(COALESCE(movies.likers, '{}')))
	`, uuid.NewString(), slug, userID, now, now, userID, userID)
	if result.Error != nil {
		return false, apperr.Store(apperr.OpUpdate, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// RemoveLiker 移除点赞用户，未点赞时返回 false
func (r *MovieRepository) RemoveLiker(ctx context.Context, slug, userID string) (bool, error) {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE movies SET likers = array_remove(likers, ?), updated_at = ?
		WHERE slug = ? AND ? = ANY(likers)
	`, userID, time.Now(), slug, userID)
	if result.Error != nil {
		return false, apperr.Store(apperr.OpUpdate, result.Error)
	}
	return result.RowsAffected > 0, nil
}
