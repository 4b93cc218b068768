package handler

import (
	"context"
	"errors"

	"github.com/stretchr/testify/mock"
	"github.com/user/moovie-api/internal/model"
	"github.com/user/moovie-api/internal/service"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) SignUp(ctx context.Context, in model.SignUpInput) (*model.User, error) {
	args := m.Called(ctx, in)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *MockAuthService) SignIn(ctx context.Context, in model.SignInInput) (*model.TokenPair, error) {
	args := m.Called(ctx, in)
	p, _ := args.Get(0).(*model.TokenPair)
	return p, args.Error(1)
}

func (m *MockAuthService) RefreshTokenPair(ctx context.Context, token string) (*model.TokenPair, error) {
	args := m.Called(ctx, token)
	p, _ := args.Get(0).(*model.TokenPair)
	return p, args.Error(1)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) FindMany(ctx context.Context, rawQuery string, opts service.ListOptions) ([]model.User, error) {
	args := m.Called(ctx, rawQuery, opts)
	u, _ := args.Get(0).([]model.User)
	return u, args.Error(1)
}

func (m *MockUserService) GetUserInfor(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *MockUserService) CreateUser(ctx context.Context, in model.CreateUserInput, actor *model.Actor) (*model.User, error) {
	args := m.Called(ctx, in, actor)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *MockUserService) UpdateUser(ctx context.Context, id string, in model.UpdateUserInput, actor *model.Actor) error {
	return m.Called(ctx, id, in, actor).Error(0)
}

func (m *MockUserService) DeleteUser(ctx context.Context, id string, actor *model.Actor) error {
	return m.Called(ctx, id, actor).Error(0)
}

type MockMovieService struct {
	mock.Mock
}

func (m *MockMovieService) GetMoviesByType(ctx context.Context, typ string, page, limit int, userID string) (*model.MoviePage, error) {
	args := m.Called(ctx, typ, page, limit, userID)
	p, _ := args.Get(0).(*model.MoviePage)
	return p, args.Error(1)
}

func (m *MockMovieService) GetMovieDetail(ctx context.Context, slug, userID string) (*model.MovieDetail, error) {
	args := m.Called(ctx, slug, userID)
	d, _ := args.Get(0).(*model.MovieDetail)
	return d, args.Error(1)
}

func (m *MockMovieService) GetRandomMovie(ctx context.Context, userID string) (*model.MovieDetail, error) {
	args := m.Called(ctx, userID)
	d, _ := args.Get(0).(*model.MovieDetail)
	return d, args.Error(1)
}

func (m *MockMovieService) GetTopMovies(ctx context.Context, limit int, userID string) ([]model.MovieSummary, error) {
	args := m.Called(ctx, limit, userID)
	s, _ := args.Get(0).([]model.MovieSummary)
	return s, args.Error(1)
}

func (m *MockMovieService) GetFavouriteMovies(ctx context.Context, userID string) ([]model.MovieSummary, error) {
	args := m.Called(ctx, userID)
	s, _ := args.Get(0).([]model.MovieSummary)
	return s, args.Error(1)
}

func (m *MockMovieService) GetRecentMovies(ctx context.Context, userID string) ([]model.MovieSummary, error) {
	args := m.Called(ctx, userID)
	s, _ := args.Get(0).([]model.MovieSummary)
	return s, args.Error(1)
}

func (m *MockMovieService) SearchMovies(ctx context.Context, keyword string, limit int) ([]model.SearchItem, error) {
	args := m.Called(ctx, keyword, limit)
	s, _ := args.Get(0).([]model.SearchItem)
	return s, args.Error(1)
}

func (m *MockMovieService) GetMovieLink(ctx context.Context, slug, episodeSlug string) (*model.MovieLink, error) {
	args := m.Called(ctx, slug, episodeSlug)
	l, _ := args.Get(0).(*model.MovieLink)
	return l, args.Error(1)
}

func (m *MockMovieService) LikeMovie(ctx context.Context, userID, slug string) error {
	return m.Called(ctx, userID, slug).Error(0)
}

func (m *MockMovieService) UnlikeMovie(ctx context.Context, userID, slug string) error {
	return m.Called(ctx, userID, slug).Error(0)
}

func (m *MockMovieService) UpView(ctx context.Context, slug, userID string) error {
	return m.Called(ctx, slug, userID).Error(0)
}

type MockAvatarService struct {
	mock.Mock
}

func (m *MockAvatarService) Upload(ctx context.Context, actor *model.Actor, file service.AvatarFile) (*model.Avatar, error) {
	args := m.Called(ctx, actor, file.Name, file.Size)
	a, _ := args.Get(0).(*model.Avatar)
	return a, args.Error(1)
}

// stubTokens 只认 "good"
type stubTokens struct{}

func (stubTokens) ParseAccessToken(token string) (*model.TokenPayload, error) {
	if token == "good" {
		return &model.TokenPayload{ID: "u1", Email: "u1@moovie.dev"}, nil
	}
	return nil, errors.New("invalid token")
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) PingContext(ctx context.Context) error { return f(ctx) }
