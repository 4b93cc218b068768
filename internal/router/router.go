package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/user/moovie-api/internal/handler"
)

// Guard 路由守卫类型
type Guard int

const (
	// Access 需要 Bearer access token（默认）
	Access Guard = iota
	// Refresh 需要 refresh token cookie
	Refresh
	// Public 无需认证
	Public
)

// Route 路由表条目
type Route struct {
	Method  string
	Path    string
	Guard   Guard
	Handler gin.HandlerFunc
}

// Guards 各守卫对应的中间件
type Guards struct {
	Access  gin.HandlerFunc
	Refresh gin.HandlerFunc
}

func (g Guards) chain(guard Guard, h gin.HandlerFunc) []gin.HandlerFunc {
	switch guard {
	case Access:
		return []gin.HandlerFunc{g.Access, h}
	case Refresh:
		return []gin.HandlerFunc{g.Refresh, h}
	default:
		return []gin.HandlerFunc{h}
	}
}

// Routes 全部路由
func Routes(h *handler.Handler) []Route {
	return []Route{
		// 健康检查
		{http.MethodGet, "/health", Public, h.Health},

		// ==================== 认证 ====================
		{http.MethodPost, "/auth/sign-in", Public, h.SignIn},
		{http.MethodPost, "/auth/sign-up", Public, h.SignUp},
		{http.MethodPost, "/auth/sign-out", Refresh, h.SignOut},
		{http.MethodPost, "/auth/refresh-token", Refresh, h.RefreshToken},
		{http.MethodGet, "/auth/infor", Refresh, h.AuthInfor},

		// ==================== 用户 ====================
		{http.MethodGet, "/user/many", Access, h.GetUsers},
		{http.MethodGet, "/user/infor", Access, h.GetMe},
		{http.MethodGet, "/user/:id", Access, h.GetUser},
		{http.MethodPost, "/user", Access, h.CreateUser},
		{http.MethodPut, "/user/avatar", Access, h.UploadAvatar},
		{http.MethodPut, "/user/:id", Access, h.UpdateUser},
		{http.MethodDelete, "/user/:id", Access, h.DeleteUser},

		// ==================== 电影 ====================
		{http.MethodGet, "/movie/random", Access, h.GetRandomMovie},
		{http.MethodGet, "/movie/search", Access, h.SearchMovies},
		{http.MethodGet, "/movie/top", Access, h.GetTopMovies},
		{http.MethodGet, "/movie/favourite", Access, h.GetFavouriteMovies},
		{http.MethodGet, "/movie/recent", Access, h.GetRecentMovies},
		{http.MethodGet, "/movie/:type", Access, h.GetMoviesByType},
		{http.MethodGet, "/movie/detail/:slug", Access, h.GetMovieDetail},
		{http.MethodGet, "/movie/link/:slug", Access, h.GetMovieLink},
		{http.MethodPost, "/movie/like/:slug", Access, h.LikeMovie},
		{http.MethodDelete, "/movie/unlike/:slug", Access, h.UnlikeMovie},
		{http.MethodPatch, "/movie/view/:slug", Access, h.UpView},
	}
}

// RegisterRoutes 按路由表注册
func RegisterRoutes(r gin.IRoutes, h *handler.Handler, guards Guards) {
	for _, rt := range Routes(h) {
		r.Handle(rt.Method, rt.Path, guards.chain(rt.Guard, rt.Handler)...)
	}
}
