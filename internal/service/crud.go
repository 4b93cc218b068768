package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/user/moovie-api/internal/apperr"
	"github.com/user/moovie-api/internal/query"
	"github.com/user/moovie-api/internal/repository"
)

const (
	defaultListLimit = 50
	defaultListPage  = 1
)

// CreateInput 由新 ID 构建待入库记录
type CreateInput[R any] interface {
	NewRecord(id string) *R
}

// UpdateInput 产生列更新
type UpdateInput interface {
	Changes() map[string]any
}

// ListOptions 列表查询选项
type ListOptions struct {
	Projection query.Projection
	Expand     []string
	Limit      int
	Page       int
	// Defaults 仅在查询串未涉及该字段时追加
	Defaults []query.Condition
}

// CRUD 通用增删改查服务
type CRUD[R any, C CreateInput[R], U UpdateInput] struct {
	store  repository.Store[R]
	schema query.Schema
	newID  func() string
}

func NewCRUD[R any, C CreateInput[R], U UpdateInput](store repository.Store[R], schema query.Schema) *CRUD[R, C, U] {
	return &CRUD[R, C, U]{
		store:  store,
		schema: schema,
		newID:  uuid.NewString,
	}
}

// FindOne 不存在时返回 nil, nil
func (s *CRUD[R, C, U]) FindOne(ctx context.Context, filter query.Filter, opts repository.FindOptions) (*R, error) {
	return s.store.FindOne(ctx, filter, opts)
}

func (s *CRUD[R, C, U]) FindOneByID(ctx context.Context, id string, opts repository.FindOptions) (*R, error) {
	return s.store.FindOneByID(ctx, id, opts)
}

// FindMany 解析查询串后分页查询
func (s *CRUD[R, C, U]) FindMany(ctx context.Context, rawQuery string, opts ListOptions) ([]R, error) {
	parsed, err := query.Parse(rawQuery, s.schema)
	if err != nil {
		return nil, apperr.Validation(err.Error())
	}

	filter := parsed.Filter
	for _, cond := range opts.Defaults {
		if !filter.Has(cond.Field) {
			filter = filter.And(cond)
		}
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	page := opts.Page
	if page <= 0 {
		page = defaultListPage
	}

	return s.store.FindMany(ctx, filter, repository.ListOptions{
		FindOptions: repository.FindOptions{Projection: opts.Projection, Expand: opts.Expand},
		Sort:        parsed.Sort,
		Limit:       limit,
		Offset:      (page - 1) * limit,
	})
}

// Create 分配新 ID 并写入
func (s *CRUD[R, C, U]) Create(ctx context.Context, in C) (*R, error) {
	record := in.NewRecord(s.newID())
	if err := s.store.Create(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *CRUD[R, C, U]) UpdateOne(ctx context.Context, filter query.Filter, in U) (repository.WriteResult, error) {
	return s.store.UpdateOne(ctx, filter, in.Changes())
}

func (s *CRUD[R, C, U]) UpdateOneByID(ctx context.Context, id string, in U) (repository.WriteResult, error) {
	return s.UpdateOne(ctx, byID(id), in)
}

// SoftDelete 置删除标记并合并 extra 列，不删除记录
func (s *CRUD[R, C, U]) SoftDelete(ctx context.Context, filter query.Filter, extra map[string]any) (repository.WriteResult, error) {
	changes := make(map[string]any, len(extra)+1)
	for k, v := range extra {
		changes[k] = v
	}
	changes["is_deleted"] = true
	return s.store.UpdateOne(ctx, filter, changes)
}

func (s *CRUD[R, C, U]) SoftDeleteByID(ctx context.Context, id string, extra map[string]any) (repository.WriteResult, error) {
	return s.SoftDelete(ctx, byID(id), extra)
}

func byID(id string) query.Filter {
	return query.Where(query.Eq("id", id))
}
