package service

import (
	"context"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/user/moovie-api/internal/apperr"
	"github.com/user/moovie-api/internal/model"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	defaultMoviePage   = 1
	defaultMovieLimit  = 10
	defaultTopLimit    = 5
	defaultSearchLimit = 10
	randomPoolType     = "phim-le"
	randomPoolSize     = 20
	detailFanout       = 8
)

// 目录类型 -> 站内分类 slug
var movieTypes = map[string]string{
	"series":   "phim-bo",
	"tvshows":  "tv-shows",
	"hoathinh": "hoat-hinh",
	"single":   "phim-le",
}

// Catalog 外部目录
type Catalog interface {
	ListByType(ctx context.Context, typ string, page, limit int) (*model.CatalogListResponse, error)
	Detail(ctx context.Context, slug string) (*model.CatalogMovie, error)
	Search(ctx context.Context, keyword string, limit int) (*model.CatalogListResponse, error)
}

// MovieStore 本地电影记录
type MovieStore interface {
	FindBySlug(ctx context.Context, slug string) (*model.Movie, error)
	Top(ctx context.Context, limit int) ([]model.Movie, error)
	UpView(ctx context.Context, slug string) error
	AddLiker(ctx context.Context, slug, userID string) (bool, error)
	RemoveLiker(ctx context.Context, slug, userID string) (bool, error)
}

// MovieLists 用户的收藏与最近观看
type MovieLists interface {
	GetFavouriteMovieSlugs(ctx context.Context, userID string) ([]string, error)
	GetRecentMovieSlugs(ctx context.Context, userID string) ([]string, error)
	LikeMovie(ctx context.Context, userID, slug string) error
	UnlikeMovie(ctx context.Context, userID, slug string) error
	SaveRecentMovieIfNotExisted(ctx context.Context, slug, userID string) error
}

// MovieService 电影服务：代理目录 API 并合并本地浏览量、点赞与收藏
type MovieService struct {
	catalog Catalog
	movies  MovieStore
	lists   MovieLists
	imgBase string
	intn    func(n int) int
	log     *zap.Logger
}

func NewMovieService(catalog Catalog, movies MovieStore, lists MovieLists, imgBase string, log *zap.Logger) *MovieService {
	return &MovieService{
		catalog: catalog,
		movies:  movies,
		lists:   lists,
		imgBase: strings.TrimRight(imgBase, "/"),
		intn:    rand.IntN,
		log:     log,
	}
}

// GetMoviesByType 分类列表
func (s *MovieService) GetMoviesByType(ctx context.Context, typ string, page, limit int, userID string) (*model.MoviePage, error) {
	if page <= 0 {
		page = defaultMoviePage
	}
	if limit <= 0 {
		limit = defaultMovieLimit
	}

	resp, err := s.catalog.ListByType(ctx, typ, page, limit)
	if err != nil {
		return nil, err
	}

	favourites, err := s.favouriteSet(ctx, userID)
	if err != nil {
		return nil, err
	}

	movies := make([]model.MovieListItem, 0, len(resp.Data.Items))
	for _, m := range resp.Data.Items {
		hours, minutes := splitRuntime(digits(m.Time))
		movies = append(movies, model.MovieListItem{
			ID:             m.ID,
			Name:           m.Name,
			Slug:           m.Slug,
			Type:           m.Type,
			ThumbURL:       s.imgBase + "/" + m.ThumbURL,
			Category:       model.Names(m.Category),
			Country:        model.Names(m.Country),
			Hours:          hours,
			Minutes:        minutes,
			Year:           m.Year,
			CurrentEpisode: m.EpisodeCurrent,
			IsFavourite:    favourites[m.Slug],
		})
	}

	return &model.MoviePage{
		Movies:     movies,
		Pagination: resp.Data.Params.Pagination,
	}, nil
}

// GetMovieDetail 详情，合并本地浏览量、点赞数与收藏状态
func (s *MovieService) GetMovieDetail(ctx context.Context, slug, userID string) (*model.MovieDetail, error) {
	favourites, err := s.favouriteSet(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, slug, favourites)
}

// GetRandomMovie 从电影列表中随机取一部
func (s *MovieService) GetRandomMovie(ctx context.Context, userID string) (*model.MovieDetail, error) {
	page, err := s.GetMoviesByType(ctx, randomPoolType, 1, randomPoolSize, "")
	if err != nil {
		return nil, err
	}
	if len(page.Movies) == 0 {
		return nil, apperr.NotFound(apperr.CodeMovieNotFound, msgMovieNotFound)
	}

	picked := page.Movies[s.intn(len(page.Movies))]
	return s.GetMovieDetail(ctx, picked.Slug, userID)
}

// GetTopMovies 浏览量最高的电影
func (s *MovieService) GetTopMovies(ctx context.Context, limit int, userID string) ([]model.MovieSummary, error) {
	if limit <= 0 {
		limit = defaultTopLimit
	}

	top, err := s.movies.Top(ctx, limit)
	if err != nil {
		return nil, err
	}

	slugs := make([]string, 0, len(top))
	for _, m := range top {
		slugs = append(slugs, m.Slug)
	}
	return s.summaries(ctx, slugs, userID)
}

// GetFavouriteMovies 收藏列表
func (s *MovieService) GetFavouriteMovies(ctx context.Context, userID string) ([]model.MovieSummary, error) {
	slugs, err := s.lists.GetFavouriteMovieSlugs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.summaries(ctx, slugs, userID)
}

// GetRecentMovies 最近观看列表
func (s *MovieService) GetRecentMovies(ctx context.Context, userID string) ([]model.MovieSummary, error) {
	slugs, err := s.lists.GetRecentMovieSlugs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.summaries(ctx, slugs, userID)
}

// SearchMovies 关键词搜索
func (s *MovieService) SearchMovies(ctx context.Context, keyword string, limit int) ([]model.SearchItem, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	resp, err := s.catalog.Search(ctx, keyword, limit)
	if err != nil {
		return nil, err
	}

	items := make([]model.SearchItem, 0, len(resp.Data.Items))
	for _, m := range resp.Data.Items {
		items = append(items, model.SearchItem{
			Name:      m.Name,
			Slug:      m.Slug,
			PosterURL: s.imgBase + "/" + m.PosterURL,
			Category:  model.Names(m.Category),
		})
	}
	return items, nil
}

// GetMovieLink 播放地址；单部电影取第一集，剧集按 episodeSlug 匹配
func (s *MovieService) GetMovieLink(ctx context.Context, slug, episodeSlug string) (*model.MovieLink, error) {
	movie, err := s.catalog.Detail(ctx, slug)
	if err != nil {
		return nil, err
	}

	episodes := firstServer(movie)
	if len(episodes) == 0 {
		return nil, apperr.NotFound(apperr.CodeMovieNotFound, "Not found the episode")
	}

	if movie.Type == "single" {
		return &model.MovieLink{Link: episodes[0].LinkM3U8, Name: movie.Name}, nil
	}
	for _, e := range episodes {
		if e.Slug == episodeSlug {
			return &model.MovieLink{Link: e.LinkM3U8, Name: movie.Name}, nil
		}
	}
	return nil, apperr.NotFound(apperr.CodeMovieNotFound, "Not found the episode")
}

// LikeMovie 点赞并加入收藏，重复点赞返回 Conflict
func (s *MovieService) LikeMovie(ctx context.Context, userID, slug string) error {
	added, err := s.movies.AddLiker(ctx, slug, userID)
	if err != nil {
		return err
	}
	if !added {
		return apperr.Conflict(apperr.CodeMovieAlreadyLiked, "Has already liked the movie")
	}
	if err := s.lists.LikeMovie(ctx, userID, slug); err != nil {
		// 收藏写入失败时撤销点赞，保证可以重试
		if _, rerr := s.movies.RemoveLiker(context.WithoutCancel(ctx), slug, userID); rerr != nil {
			s.log.Error("like rollback failed", zap.String("slug", slug), zap.String("user_id", userID), zap.Error(rerr))
		}
		return err
	}
	return nil
}

// UnlikeMovie 取消点赞并移出收藏，未点赞返回 Conflict
func (s *MovieService) UnlikeMovie(ctx context.Context, userID, slug string) error {
	removed, err := s.movies.RemoveLiker(ctx, slug, userID)
	if err != nil {
		return err
	}
	if !removed {
		return apperr.Conflict(apperr.CodeMovieNotLiked, "Has already unliked the movie")
	}
	if err := s.lists.UnlikeMovie(ctx, userID, slug); err != nil {
		if _, rerr := s.movies.AddLiker(context.WithoutCancel(ctx), slug, userID); rerr != nil {
			s.log.Error("unlike rollback failed", zap.String("slug", slug), zap.String("user_id", userID), zap.Error(rerr))
		}
		return err
	}
	return nil
}

// UpView 浏览量 +1 并记录到最近观看
func (s *MovieService) UpView(ctx context.Context, slug, userID string) error {
	if err := s.movies.UpView(ctx, slug); err != nil {
		return err
	}
	return s.lists.SaveRecentMovieIfNotExisted(ctx, slug, userID)
}

func (s *MovieService) detail(ctx context.Context, slug string, favourites map[string]bool) (*model.MovieDetail, error) {
	m, err := s.catalog.Detail(ctx, slug)
	if err != nil {
		return nil, err
	}

	local, err := s.movies.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	hours, minutes := splitRuntime(digits(m.Time))
	d := &model.MovieDetail{
		ID:          m.ID,
		Name:        m.Name,
		Slug:        m.Slug,
		Content:     m.Content,
		Description: plainText(m.Content),
		Status:      m.Status,
		PosterURL:   m.PosterURL,
		ThumbURL:    m.ThumbURL,
		TrailerURL:  m.TrailerURL,
		Type:        movieTypes[m.Type],
		Year:        m.Year,
		Actor:       m.Actor,
		Director:    m.Director,
		Category:    m.Category,
		Country:     m.Country,
		Hours:       hours,
		Minutes:     minutes,
		Episodes:    firstServer(m),
		IsFavourite: favourites[slug],
	}

	if m.Type == "series" {
		current, _, _ := strings.Cut(m.EpisodeCurrent, "/")
		n := digits(current)
		d.CurrentEpisode = &n
		if total, err := strconv.Atoi(strings.TrimSpace(m.EpisodeTotal)); err == nil {
			d.TotalEpisode = &total
		}
	}

	if local != nil {
		d.Views = local.Views
		d.LikeQty = len(local.Likers)
	}
	return d, nil
}

// 并发获取详情，保持输入顺序
func (s *MovieService) summaries(ctx context.Context, slugs []string, userID string) ([]model.MovieSummary, error) {
	out := make([]model.MovieSummary, len(slugs))
	if len(slugs) == 0 {
		return out, nil
	}

	favourites, err := s.favouriteSet(ctx, userID)
	if err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(detailFanout)
	for i, slug := range slugs {
		g.Go(func() error {
			d, err := s.detail(gctx, slug, favourites)
			if err != nil {
				return err
			}
			out[i] = d.Summary()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.log.Warn("movie detail fan-out failed", zap.Int("count", len(slugs)), zap.Error(err))
		return nil, err
	}
	return out, nil
}

func (s *MovieService) favouriteSet(ctx context.Context, userID string) (map[string]bool, error) {
	set := map[string]bool{}
	if userID == "" {
		return set, nil
	}
	slugs, err := s.lists.GetFavouriteMovieSlugs(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, slug := range slugs {
		set[slug] = true
	}
	return set, nil
}

func firstServer(m *model.CatalogMovie) []model.CatalogEpisode {
	if len(m.Episodes) == 0 {
		return []model.CatalogEpisode{}
	}
	return m.Episodes[0].ServerData
}

// splitRuntime 分钟拆分为小时与分钟
func splitRuntime(total int) (int, int) {
	if total < 60 {
		return 0, total
	}
	return total / 60, total % 60
}

// digits 拼接字符串中的全部数字，如 "Tập 12" -> 12
func digits(s string) int {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	n, _ := strconv.Atoi(b.String())
	return n
}

// plainText 提取 HTML 简介的纯文本
func plainText(content string) string {
	if content == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return content
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
