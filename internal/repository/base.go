package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/user/moovie-api/internal/apperr"
	"github.com/user/moovie-api/internal/query"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrDuplicateKey 违反唯一索引
var ErrDuplicateKey = errors.New("duplicate key")

// FindOptions 查询选项
type FindOptions struct {
	Projection query.Projection
	Expand     []string
}

// ListOptions 列表查询选项
type ListOptions struct {
	FindOptions
	Sort   []query.Sort
	Limit  int
	Offset int
}

// WriteResult 写操作结果
type WriteResult struct {
	Modified int64 `json:"modified"`
}

// Relation 可展开的关联，ForeignKey 为本表外键列
type Relation struct {
	Name       string
	ForeignKey string
}

// Store 通用存储接口
type Store[T any] interface {
	FindOne(ctx context.Context, filter query.Filter, opts FindOptions) (*T, error)
	FindOneByID(ctx context.Context, id string, opts FindOptions) (*T, error)
	FindMany(ctx context.Context, filter query.Filter, opts ListOptions) ([]T, error)
	Create(ctx context.Context, record *T) error
	UpdateOne(ctx context.Context, filter query.Filter, changes map[string]any) (WriteResult, error)
}

// Base 基于 GORM 的通用存储实现
type Base[T any] struct {
	db        *gorm.DB
	relations map[string]Relation
}

func NewBase[T any](db *gorm.DB, relations ...Relation) *Base[T] {
	m := make(map[string]Relation, len(relations))
	for _, r := range relations {
		m[r.Name] = r
	}
	return &Base[T]{db: db, relations: m}
}

// FindOne 查找单条记录，不存在时返回 nil, nil
func (b *Base[T]) FindOne(ctx context.Context, filter query.Filter, opts FindOptions) (*T, error) {
	tx, err := b.prepare(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	var record T
	err = tx.First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Store(apperr.OpFind, err)
	}
	return &record, nil
}

// FindOneByID 根据 ID 查找
func (b *Base[T]) FindOneByID(ctx context.Context, id string, opts FindOptions) (*T, error) {
	return b.FindOne(ctx, query.Where(query.Eq("id", id)), opts)
}

// FindMany 分页查询
func (b *Base[T]) FindMany(ctx context.Context, filter query.Filter, opts ListOptions) ([]T, error) {
	tx, err := b.prepare(ctx, filter, opts.FindOptions)
	if err != nil {
		return nil, err
	}

	for _, s := range opts.Sort {
		tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: s.Field}, Desc: s.Desc})
	}
	if opts.Limit > 0 {
		tx = tx.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		tx = tx.Offset(opts.Offset)
	}

	records := []T{}
	if err := tx.Find(&records).Error; err != nil {
		return nil, apperr.Store(apperr.OpFind, err)
	}
	return records, nil
}

// Create 插入记录
func (b *Base[T]) Create(ctx context.Context, record *T) error {
	err := b.db.WithContext(ctx).Create(record).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateKey
	}
	if err != nil {
		return apperr.Store(apperr.OpCreate, err)
	}
	return nil
}

// UpdateOne 按条件更新列
func (b *Base[T]) UpdateOne(ctx context.Context, filter query.Filter, changes map[string]any) (WriteResult, error) {
	if len(changes) == 0 {
		return WriteResult{}, nil
	}
	if filter.IsEmpty() {
		return WriteResult{}, apperr.Store(apperr.OpUpdate, errors.New("update without filter"))
	}

	tx := applyFilter(b.db.WithContext(ctx).Model(new(T)), filter)
	result := tx.Updates(changes)
	if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
		return WriteResult{}, ErrDuplicateKey
	}
	if result.Error != nil {
		return WriteResult{}, apperr.Store(apperr.OpUpdate, result.Error)
	}
	return WriteResult{Modified: result.RowsAffected}, nil
}

func (b *Base[T]) prepare(ctx context.Context, filter query.Filter, opts FindOptions) (*gorm.DB, error) {
	tx := applyFilter(b.db.WithContext(ctx).Model(new(T)), filter)

	fields := append([]string(nil), opts.Projection.Fields()...)
	for _, name := range opts.Expand {
		rel, ok := b.relations[name]
		if !ok {
			return nil, apperr.Validation(fmt.Sprintf("relation %q cannot be expanded", name))
		}
		tx = tx.Preload(rel.Name)
		if !opts.Projection.IsZero() && !opts.Projection.IsExclude() {
			fields = append(fields, rel.ForeignKey)
		}
	}

	switch {
	case opts.Projection.IsZero():
	case opts.Projection.IsExclude():
		tx = tx.Omit(fields...)
	default:
		tx = tx.Select(fields)
	}
	return tx, nil
}

func applyFilter(tx *gorm.DB, filter query.Filter) *gorm.DB {
	for _, c := range filter.Conditions {
		col := clause.Column{Name: c.Field}
		switch c.Op {
		case query.OpEq:
			tx = tx.Where(clause.Eq{Column: col, Value: c.Value})
		case query.OpNe:
			tx = tx.Where(clause.Neq{Column: col, Value: c.Value})
		case query.OpGt:
			tx = tx.Where(clause.Gt{Column: col, Value: c.Value})
		case query.OpGte:
			tx = tx.Where(clause.Gte{Column: col, Value: c.Value})
		case query.OpLt:
			tx = tx.Where(clause.Lt{Column: col, Value: c.Value})
		case query.OpLte:
			tx = tx.Where(clause.Lte{Column: col, Value: c.Value})
		case query.OpIn:
			values, _ := c.Value.([]any)
			tx = tx.Where(clause.IN{Column: col, Values: values})
		case query.OpContains:
			pattern := "%" + escapeLike(fmt.Sprint(c.Value)) + "%"
			tx = tx.Where(clause.Expr{SQL: "? ILIKE ?", Vars: []any{col, pattern}})
		}
	}
	return tx
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
