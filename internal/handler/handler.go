package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/user/moovie-api/internal/apperr"
	"github.com/user/moovie-api/internal/model"
	"github.com/user/moovie-api/internal/service"
	"github.com/user/moovie-api/internal/utils"
)

// AuthService 登录注册
type AuthService interface {
	SignUp(ctx context.Context, in model.SignUpInput) (*model.User, error)
	SignIn(ctx context.Context, in model.SignInInput) (*model.TokenPair, error)
	RefreshTokenPair(ctx context.Context, token string) (*model.TokenPair, error)
}

// UserService 用户管理
type UserService interface {
	FindMany(ctx context.Context, rawQuery string, opts service.ListOptions) ([]model.User, error)
	GetUserInfor(ctx context.Context, id string) (*model.User, error)
	CreateUser(ctx context.Context, in model.CreateUserInput, actor *model.Actor) (*model.User, error)
	UpdateUser(ctx context.Context, id string, in model.UpdateUserInput, actor *model.Actor) error
	DeleteUser(ctx context.Context, id string, actor *model.Actor) error
}

// MovieService 电影
type MovieService interface {
	GetMoviesByType(ctx context.Context, typ string, page, limit int, userID string) (*model.MoviePage, error)
	GetMovieDetail(ctx context.Context, slug, userID string) (*model.MovieDetail, error)
	GetRandomMovie(ctx context.Context, userID string) (*model.MovieDetail, error)
	GetTopMovies(ctx context.Context, limit int, userID string) ([]model.MovieSummary, error)
	GetFavouriteMovies(ctx context.Context, userID string) ([]model.MovieSummary, error)
	GetRecentMovies(ctx context.Context, userID string) ([]model.MovieSummary, error)
	SearchMovies(ctx context.Context, keyword string, limit int) ([]model.SearchItem, error)
	GetMovieLink(ctx context.Context, slug, episodeSlug string) (*model.MovieLink, error)
	LikeMovie(ctx context.Context, userID, slug string) error
	UnlikeMovie(ctx context.Context, userID, slug string) error
	UpView(ctx context.Context, slug, userID string) error
}

// AvatarService 头像上传
type AvatarService interface {
	Upload(ctx context.Context, actor *model.Actor, file service.AvatarFile) (*model.Avatar, error)
}

// Pinger 健康检查依赖
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Services 处理器依赖
type Services struct {
	Auth    AuthService
	Users   UserService
	Movies  MovieService
	Avatars AvatarService
	DB      Pinger
}

// CookieOptions refresh token cookie 属性
type CookieOptions struct {
	Secure bool
	Domain string
	MaxAge time.Duration
}

// sameSite 跨域携带 cookie 需要 None，而 None 要求 Secure
func (o CookieOptions) sameSite() http.SameSite {
	if o.Secure {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}

// Handler HTTP 处理器
type Handler struct {
	svc    Services
	cookie CookieOptions
}

// NewHandler 创建处理器
func NewHandler(svc Services, cookie CookieOptions) *Handler {
	registerValidators()
	return &Handler{svc: svc, cookie: cookie}
}

// Health 健康检查
func (h *Handler) Health(c *gin.Context) {
	if h.svc.DB != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.svc.DB.PingContext(ctx); err != nil {
			utils.Fail(c, apperr.Wrap(http.StatusServiceUnavailable, apperr.CodeUnknown, "database unavailable", err))
			return
		}
	}
	utils.Success(c, gin.H{"status": "ok"})
}
