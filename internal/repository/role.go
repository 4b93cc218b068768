package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/user/moovie-api/internal/apperr"
	"github.com/user/moovie-api/internal/model"
	"github.com/user/moovie-api/internal/query"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RoleRepository struct {
	*Base[model.Role]
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{Base: NewBase[model.Role](db), db: db}
}

// FindByName 根据名称查找角色
func (r *RoleRepository) FindByName(ctx context.Context, name string) (*model.Role, error) {
	return r.FindOne(ctx, query.Where(query.Eq("name", name)), FindOptions{})
}

// Seed 写入内置角色，已存在则跳过
func (r *RoleRepository) Seed(ctx context.Context, names ...string) error {
	for _, name := range names {
		role := &model.Role{ID: uuid.NewString(), Name: name}
		err := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
			Create(role).Error
		if err != nil {
			return apperr.Store(apperr.OpCreate, err)
		}
	}
	return nil
}
