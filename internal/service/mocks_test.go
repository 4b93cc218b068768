package service

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"
	"github.com/user/moovie-api/internal/model"
	"github.com/user/moovie-api/internal/query"
	"github.com/user/moovie-api/internal/repository"
)

// MockStore mocks repository.Store
type MockStore[T any] struct {
	mock.Mock
}

func (m *MockStore[T]) FindOne(ctx context.Context, filter query.Filter, opts repository.FindOptions) (*T, error) {
	args := m.Called(ctx, filter, opts)
	rec, _ := args.Get(0).(*T)
	return rec, args.Error(1)
}

func (m *MockStore[T]) FindOneByID(ctx context.Context, id string, opts repository.FindOptions) (*T, error) {
	args := m.Called(ctx, id, opts)
	rec, _ := args.Get(0).(*T)
	return rec, args.Error(1)
}

func (m *MockStore[T]) FindMany(ctx context.Context, filter query.Filter, opts repository.ListOptions) ([]T, error) {
	args := m.Called(ctx, filter, opts)
	recs, _ := args.Get(0).([]T)
	return recs, args.Error(1)
}

func (m *MockStore[T]) Create(ctx context.Context, record *T) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockStore[T]) UpdateOne(ctx context.Context, filter query.Filter, changes map[string]any) (repository.WriteResult, error) {
	args := m.Called(ctx, filter, changes)
	return args.Get(0).(repository.WriteResult), args.Error(1)
}

// MockUserStore mocks the UserStore interface
type MockUserStore struct {
	MockStore[model.User]
}

func (m *MockUserStore) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *MockUserStore) AddFavourite(ctx context.Context, userID, slug string) (bool, error) {
	args := m.Called(ctx, userID, slug)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserStore) RemoveFavourite(ctx context.Context, userID, slug string) (bool, error) {
	args := m.Called(ctx, userID, slug)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserStore) AddRecent(ctx context.Context, userID, slug string) (bool, error) {
	args := m.Called(ctx, userID, slug)
	return args.Bool(0), args.Error(1)
}

// MockRoleStore mocks the RoleStore interface
type MockRoleStore struct {
	mock.Mock
}

func (m *MockRoleStore) FindByName(ctx context.Context, name string) (*model.Role, error) {
	args := m.Called(ctx, name)
	r, _ := args.Get(0).(*model.Role)
	return r, args.Error(1)
}

// MockAccounts mocks the Accounts interface
type MockAccounts struct {
	mock.Mock
}

func (m *MockAccounts) CreateUser(ctx context.Context, in model.CreateUserInput, actor *model.Actor) (*model.User, error) {
	args := m.Called(ctx, in, actor)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *MockAccounts) ValidateUser(ctx context.Context, email, password string) (*model.User, error) {
	args := m.Called(ctx, email, password)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *MockAccounts) FindOneByID(ctx context.Context, id string, opts repository.FindOptions) (*model.User, error) {
	args := m.Called(ctx, id, opts)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

// MockMovieStore mocks the MovieStore interface
type MockMovieStore struct {
	mock.Mock
}

func (m *MockMovieStore) FindBySlug(ctx context.Context, slug string) (*model.Movie, error) {
	args := m.Called(ctx, slug)
	mv, _ := args.Get(0).(*model.Movie)
	return mv, args.Error(1)
}

func (m *MockMovieStore) Top(ctx context.Context, limit int) ([]model.Movie, error) {
	args := m.Called(ctx, limit)
	mv, _ := args.Get(0).([]model.Movie)
	return mv, args.Error(1)
}

func (m *MockMovieStore) UpView(ctx context.Context, slug string) error {
	args := m.Called(ctx, slug)
	return args.Error(0)
}

func (m *MockMovieStore) AddLiker(ctx context.Context, slug, userID string) (bool, error) {
	args := m.Called(ctx, slug, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockMovieStore) RemoveLiker(ctx context.Context, slug, userID string) (bool, error) {
	args := m.Called(ctx, slug, userID)
	return args.Bool(0), args.Error(1)
}

// MockMovieLists mocks the MovieLists interface
type MockMovieLists struct {
	mock.Mock
}

func (m *MockMovieLists) GetFavouriteMovieSlugs(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	s, _ := args.Get(0).([]string)
	return s, args.Error(1)
}

func (m *MockMovieLists) GetRecentMovieSlugs(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	s, _ := args.Get(0).([]string)
	return s, args.Error(1)
}

func (m *MockMovieLists) LikeMovie(ctx context.Context, userID, slug string) error {
	return m.Called(ctx, userID, slug).Error(0)
}

func (m *MockMovieLists) UnlikeMovie(ctx context.Context, userID, slug string) error {
	return m.Called(ctx, userID, slug).Error(0)
}

func (m *MockMovieLists) SaveRecentMovieIfNotExisted(ctx context.Context, slug, userID string) error {
	return m.Called(ctx, slug, userID).Error(0)
}

// MockStorage mocks the ObjectStorage interface
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	body, _ := io.ReadAll(reader)
	args := m.Called(ctx, key, body, size, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

// MockAvatarUpdater mocks the AvatarUpdater interface
type MockAvatarUpdater struct {
	mock.Mock
}

func (m *MockAvatarUpdater) UpdateAvatar(ctx context.Context, id string, avatar model.Avatar, actor *model.Actor) error {
	return m.Called(ctx, id, avatar, actor).Error(0)
}
