package model

import (
	"time"

	"github.com/lib/pq"
)

// Movie 本地电影记录，只保存浏览量与点赞用户；首次浏览或点赞时创建
type Movie struct {
	ID        string         `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Slug      string         `json:"slug" gorm:"uniqueIndex;not null"`
	Views     int64          `json:"views" gorm:"not null"`
	Likers    pq.StringArray `json:"likers" gorm:"type:text[]"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// ---------- 外部目录 API 载荷 ----------

// CatalogNamed 分类 / 国家
type CatalogNamed struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// CatalogEpisode 单集
type CatalogEpisode struct {
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	Filename  string `json:"filename"`
	LinkEmbed string `json:"link_embed"`
	LinkM3U8  string `json:"link_m3u8"`
}

// CatalogServer 播放服务器
type CatalogServer struct {
	ServerName string           `json:"server_name"`
	ServerData []CatalogEpisode `json:"server_data"`
}

// CatalogMovie 目录 API 中的电影条目（列表与详情共用）
type CatalogMovie struct {
	ID             string          `json:"_id"`
	Name           string          `json:"name"`
	OriginName     string          `json:"origin_name"`
	Slug           string          `json:"slug"`
	Content        string          `json:"content"`
	Type           string          `json:"type"`
	Status         string          `json:"status"`
	PosterURL      string          `json:"poster_url"`
	ThumbURL       string          `json:"thumb_url"`
	TrailerURL     string          `json:"trailer_url"`
	Time           string          `json:"time"`
	Year           int             `json:"year"`
	Actor          []string        `json:"actor"`
	Director       []string        `json:"director"`
	Category       []CatalogNamed  `json:"category"`
	Country        []CatalogNamed  `json:"country"`
	EpisodeCurrent string          `json:"episode_current"`
	EpisodeTotal   string          `json:"episode_total"`
	Episodes       []CatalogServer `json:"episodes"`
}

// CatalogPagination 目录分页信息
type CatalogPagination struct {
	TotalItems        int `json:"totalItems"`
	TotalItemsPerPage int `json:"totalItemsPerPage"`
	CurrentPage       int `json:"currentPage"`
	TotalPages        int `json:"totalPages"`
}

// CatalogListResponse 分类列表 / 搜索
type CatalogListResponse struct {
	Data struct {
		Items  []CatalogMovie `json:"items"`
		Params struct {
			Pagination CatalogPagination `json:"pagination"`
		} `json:"params"`
	} `json:"data"`
}

// CatalogDetailResponse 详情
type CatalogDetailResponse struct {
	Data struct {
		Item *CatalogMovie `json:"item"`
	} `json:"data"`
}

// ---------- 对外响应 ----------

// MovieListItem 分类列表条目
type MovieListItem struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Slug           string   `json:"slug"`
	Type           string   `json:"type"`
	ThumbURL       string   `json:"thumb_url"`
	Category       []string `json:"category"`
	Country        []string `json:"country"`
	Hours          int      `json:"hours"`
	Minutes        int      `json:"minutes"`
	Year           int      `json:"year"`
	CurrentEpisode string   `json:"current_episode"`
	IsFavourite    bool     `json:"isFavourite"`
}

// MoviePage 分类列表页
type MoviePage struct {
	Movies     []MovieListItem   `json:"movies"`
	Pagination CatalogPagination `json:"pagination"`
}

// MovieDetail 电影详情，合并本地浏览量、点赞数与收藏状态
type MovieDetail struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	Slug           string           `json:"slug"`
	Content        string           `json:"content"`
	Description    string           `json:"description"`
	Status         string           `json:"status"`
	PosterURL      string           `json:"poster_url"`
	ThumbURL       string           `json:"thumb_url"`
	TrailerURL     string           `json:"trailer_url"`
	Type           string           `json:"type"`
	Year           int              `json:"year"`
	Actor          []string         `json:"actor"`
	Director       []string         `json:"director"`
	Category       []CatalogNamed   `json:"category"`
	Country        []CatalogNamed   `json:"country"`
	Hours          int              `json:"hours"`
	Minutes        int              `json:"minutes"`
	CurrentEpisode *int             `json:"current_episode"`
	TotalEpisode   *int             `json:"total_episode"`
	Episodes       []CatalogEpisode `json:"episodes"`
	Views          int64            `json:"views"`
	LikeQty        int              `json:"like_qty"`
	IsFavourite    bool             `json:"isFavourite"`
}

// MovieSummary 由详情裁剪的摘要（热门 / 收藏 / 最近观看）
type MovieSummary struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Slug           string   `json:"slug"`
	Type           string   `json:"type"`
	ThumbURL       string   `json:"thumb_url"`
	Category       []string `json:"category"`
	Country        []string `json:"country"`
	Hours          int      `json:"hours"`
	Minutes        int      `json:"minutes"`
	Year           int      `json:"year"`
	IsFavourite    bool     `json:"isFavourite"`
	CurrentEpisode *int     `json:"current_episode"`
}

// Summary 裁剪详情
func (d *MovieDetail) Summary() MovieSummary {
	return MovieSummary{
		ID:             d.ID,
		Name:           d.Name,
		Slug:           d.Slug,
		Type:           d.Type,
		ThumbURL:       d.ThumbURL,
		Category:       Names(d.Category),
		Country:        Names(d.Country),
		Hours:          d.Hours,
		Minutes:        d.Minutes,
		Year:           d.Year,
		IsFavourite:    d.IsFavourite,
		CurrentEpisode: d.CurrentEpisode,
	}
}

// SearchItem 搜索结果条目
type SearchItem struct {
	Name      string   `json:"name"`
	Slug      string   `json:"slug"`
	PosterURL string   `json:"poster_url"`
	Category  []string `json:"category"`
}

// MovieLink 播放地址
type MovieLink struct {
	Link string `json:"link"`
	Name string `json:"name"`
}

// Names 提取名称列表
func Names(items []CatalogNamed) []string {
	names := make([]string, 0, len(items))
	for _, it := range items {
		names = append(names, it.Name)
	}
	return names
}
