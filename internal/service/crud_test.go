package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/user/moovie-api/internal/apperr"
	"github.com/user/moovie-api/internal/model"
	"github.com/user/moovie-api/internal/query"
	"github.com/user/moovie-api/internal/repository"
)

func newUserCRUD(store *MockStore[model.User]) *UserCRUD {
	crud := NewCRUD[model.User, model.CreateUserInput, model.UpdateUserInput](store, repository.UserSchema)
	crud.newID = func() string { return "fixed-id" }
	return crud
}

func TestCRUD_FindMany_Pagination(t *testing.T) {
	tests := []struct {
		name       string
		opts       ListOptions
		wantLimit  int
		wantOffset int
	}{
		{"defaults", ListOptions{}, 50, 0},
		{"page 3 of 10", ListOptions{Page: 3, Limit: 10}, 10, 20},
		{"first page", ListOptions{Page: 1, Limit: 25}, 25, 0},
		{"negative values fall back", ListOptions{Page: -2, Limit: -1}, 50, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(MockStore[model.User])
			crud := newUserCRUD(store)

			store.On("FindMany", mock.Anything, query.Filter{}, mock.MatchedBy(func(o repository.ListOptions) bool {
				return o.Limit == tt.wantLimit && o.Offset == tt.wantOffset
			})).Return([]model.User{{ID: "u1"}}, nil)

			users, err := crud.FindMany(context.Background(), "", tt.opts)
			require.NoError(t, err)
			assert.Len(t, users, 1)
			store.AssertExpectations(t)
		})
	}
}

func TestCRUD_FindMany_FilterAndSort(t *testing.T) {
	store := new(MockStore[model.User])
	crud := newUserCRUD(store)

	var got repository.ListOptions
	var gotFilter query.Filter
	store.On("FindMany", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			gotFilter = args.Get(1).(query.Filter)
			got = args.Get(2).(repository.ListOptions)
		}).
		Return([]model.User{}, nil)

	_, err := crud.FindMany(context.Background(), "age>=18&sort=-created_at&page=2&limit=5", ListOptions{
		Projection: query.Exclude("password"),
		Expand:     []string{"Role"},
	})
	require.NoError(t, err)

	assert.Equal(t, []query.Condition{{Field: "age", Op: query.OpGte, Value: int64(18)}}, gotFilter.Conditions)
	assert.Equal(t, []query.Sort{{Field: "created_at", Desc: true}}, got.Sort)
	assert.Equal(t, []string{"Role"}, got.Expand)
	assert.True(t, got.Projection.IsExclude())
	// page/limit 只来自 ListOptions
	assert.Equal(t, 50, got.Limit)
	assert.Equal(t, 0, got.Offset)
}

func TestCRUD_FindMany_Defaults(t *testing.T) {
	notDeleted := query.Eq("is_deleted", false)

	t.Run("applied when absent", func(t *testing.T) {
		store := new(MockStore[model.User])
		crud := newUserCRUD(store)
		store.On("FindMany", mock.Anything, query.Where(notDeleted), mock.Anything).Return([]model.User{}, nil)

		_, err := crud.FindMany(context.Background(), "", ListOptions{Defaults: []query.Condition{notDeleted}})
		require.NoError(t, err)
		store.AssertExpectations(t)
	})

	t.Run("caller filter wins", func(t *testing.T) {
		store := new(MockStore[model.User])
		crud := newUserCRUD(store)
		want := query.Where(query.Condition{Field: "is_deleted", Op: query.OpEq, Value: true})
		store.On("FindMany", mock.Anything, want, mock.Anything).Return([]model.User{}, nil)

		_, err := crud.FindMany(context.Background(), "is_deleted=true", ListOptions{Defaults: []query.Condition{notDeleted}})
		require.NoError(t, err)
		store.AssertExpectations(t)
	})
}

func TestCRUD_FindMany_InvalidQuery(t *testing.T) {
	store := new(MockStore[model.User])
	crud := newUserCRUD(store)

	_, err := crud.FindMany(context.Background(), "password=secret", ListOptions{})
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeValidationFailed))
	store.AssertNotCalled(t, "FindMany", mock.Anything, mock.Anything, mock.Anything)
}

func TestCRUD_Create(t *testing.T) {
	store := new(MockStore[model.User])
	crud := newUserCRUD(store)

	store.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.ID == "fixed-id" && u.Email == "a@b.c"
	})).Return(nil)

	user, err := crud.Create(context.Background(), model.CreateUserInput{Email: "a@b.c", Name: "A"})
	require.NoError(t, err)
	assert.Equal(t, "fixed-id", user.ID)
	assert.NotNil(t, user.FavouriteMovies)

	t.Run("store failure passes through", func(t *testing.T) {
		store := new(MockStore[model.User])
		crud := newUserCRUD(store)
		storeErr := apperr.Store(apperr.OpCreate, errors.New("boom"))
		store.On("Create", mock.Anything, mock.Anything).Return(storeErr)

		_, err := crud.Create(context.Background(), model.CreateUserInput{})
		assert.ErrorIs(t, err, storeErr)
	})
}

func TestCRUD_UpdateOneByID(t *testing.T) {
	store := new(MockStore[model.User])
	crud := newUserCRUD(store)
	name := "new"

	store.On("UpdateOne", mock.Anything, query.Where(query.Eq("id", "u1")), map[string]any{"name": "new"}).
		Return(repository.WriteResult{Modified: 1}, nil)

	res, err := crud.UpdateOneByID(context.Background(), "u1", model.UpdateUserInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Modified)
	store.AssertExpectations(t)
}

func TestCRUD_SoftDeleteByID(t *testing.T) {
	store := new(MockStore[model.User])
	crud := newUserCRUD(store)

	extra := map[string]any{"deleted_by_id": "admin"}
	store.On("UpdateOne", mock.Anything, query.Where(query.Eq("id", "u1")), map[string]any{
		"is_deleted":    true,
		"deleted_by_id": "admin",
	}).Return(repository.WriteResult{Modified: 1}, nil)

	_, err := crud.SoftDeleteByID(context.Background(), "u1", extra)
	require.NoError(t, err)
	store.AssertExpectations(t)
	// 调用方的 map 不被修改
	assert.Len(t, extra, 1)
}
