package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/user/moovie-api/internal/middleware"
	"github.com/user/moovie-api/internal/utils"
)

// GetMoviesByType 分类列表
func (h *Handler) GetMoviesByType(c *gin.Context) {
	var uri typeURI
	if err := c.ShouldBindUri(&uri); err != nil {
		utils.Fail(c, bindError(err))
		return
	}
	var page pageQuery
	if err := c.ShouldBindQuery(&page); err != nil {
		utils.Fail(c, bindError(err))
		return
	}

	result, err := h.svc.Movies.GetMoviesByType(c.Request.Context(), uri.Type, page.Page, page.Limit, middleware.GetUserID(c))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, result)
}

// GetMovieDetail 详情
func (h *Handler) GetMovieDetail(c *gin.Context) {
	var uri slugURI
	if err := c.ShouldBindUri(&uri); err != nil {
		utils.Fail(c, bindError(err))
		return
	}

	movie, err := h.svc.Movies.GetMovieDetail(c.Request.Context(), uri.Slug, middleware.GetUserID(c))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, movie)
}

// GetRandomMovie 随机一部
func (h *Handler) GetRandomMovie(c *gin.Context) {
	movie, err := h.svc.Movies.GetRandomMovie(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, movie)
}

// GetTopMovies 热门
func (h *Handler) GetTopMovies(c *gin.Context) {
	var page pageQuery
	if err := c.ShouldBindQuery(&page); err != nil {
		utils.Fail(c, bindError(err))
		return
	}

	movies, err := h.svc.Movies.GetTopMovies(c.Request.Context(), page.Limit, middleware.GetUserID(c))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, movies)
}

// GetFavouriteMovies 收藏
func (h *Handler) GetFavouriteMovies(c *gin.Context) {
	movies, err := h.svc.Movies.GetFavouriteMovies(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, movies)
}

// GetRecentMovies 最近观看
func (h *Handler) GetRecentMovies(c *gin.Context) {
	movies, err := h.svc.Movies.GetRecentMovies(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, movies)
}

// SearchMovies 搜索
func (h *Handler) SearchMovies(c *gin.Context) {
	var q searchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.Fail(c, bindError(err))
		return
	}

	movies, err := h.svc.Movies.SearchMovies(c.Request.Context(), q.Query, q.Limit)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, movies)
}

// GetMovieLink 播放地址
func (h *Handler) GetMovieLink(c *gin.Context) {
	var uri slugURI
	if err := c.ShouldBindUri(&uri); err != nil {
		utils.Fail(c, bindError(err))
		return
	}
	var q linkQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.Fail(c, bindError(err))
		return
	}

	link, err := h.svc.Movies.GetMovieLink(c.Request.Context(), uri.Slug, q.EpisodeSlug)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, link)
}

// LikeMovie 点赞
func (h *Handler) LikeMovie(c *gin.Context) {
	var uri slugURI
	if err := c.ShouldBindUri(&uri); err != nil {
		utils.Fail(c, bindError(err))
		return
	}

	if err := h.svc.Movies.LikeMovie(c.Request.Context(), middleware.GetUserID(c), uri.Slug); err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, gin.H{"slug": uri.Slug})
}

// UnlikeMovie 取消点赞
func (h *Handler) UnlikeMovie(c *gin.Context) {
	var uri slugURI
	if err := c.ShouldBindUri(&uri); err != nil {
		utils.Fail(c, bindError(err))
		return
	}

	if err := h.svc.Movies.UnlikeMovie(c.Request.Context(), middleware.GetUserID(c), uri.Slug); err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, gin.H{"slug": uri.Slug})
}

// UpView 浏览量 +1
func (h *Handler) UpView(c *gin.Context) {
	var uri slugURI
	if err := c.ShouldBindUri(&uri); err != nil {
		utils.Fail(c, bindError(err))
		return
	}

	if err := h.svc.Movies.UpView(c.Request.Context(), uri.Slug, middleware.GetUserID(c)); err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, gin.H{"slug": uri.Slug})
}
