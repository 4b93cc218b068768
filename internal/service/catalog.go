package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/user/moovie-api/internal/apperr"
	"github.com/user/moovie-api/internal/model"
	"github.com/user/moovie-api/internal/utils"
	"golang.org/x/sync/singleflight"
)

const msgMovieNotFound = "Not found the movies"

// JSONGetter 发送 GET 并解析 JSON
type JSONGetter interface {
	GetJSON(ctx context.Context, url string, target any) error
}

// CatalogOptions 目录 API 地址
type CatalogOptions struct {
	ByTypeAPI string
	DetailAPI string
	SearchAPI string
}

// CatalogClient 外部电影目录 API
type CatalogClient struct {
	http JSONGetter
	opts CatalogOptions
	sf   singleflight.Group // 合并同一 slug 的并发详情请求
}

func NewCatalogClient(client JSONGetter, opts CatalogOptions) *CatalogClient {
	return &CatalogClient{
		http: client,
		opts: opts,
		sf:   singleflight.Group{},
	}
}

// ListByType 分类列表
func (c *CatalogClient) ListByType(ctx context.Context, typ string, page, limit int) (*model.CatalogListResponse, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("limit", strconv.Itoa(limit))
	endpoint := fmt.Sprintf("%s/%s?%s", strings.TrimRight(c.opts.ByTypeAPI, "/"), url.PathEscape(typ), params.Encode())

	var resp model.CatalogListResponse
	if err := c.http.GetJSON(ctx, endpoint, &resp); err != nil {
		return nil, mapUpstreamError(err)
	}
	return &resp, nil
}

// Detail 电影详情
func (c *CatalogClient) Detail(ctx context.Context, slug string) (*model.CatalogMovie, error) {
	ch := c.sf.DoChan(slug, func() (interface{}, error) {
		endpoint := fmt.Sprintf("%s/%s", strings.TrimRight(c.opts.DetailAPI, "/"), url.PathEscape(slug))

		// 共享请求不随发起者取消，时长由 HTTP 客户端超时限制
		var resp model.CatalogDetailResponse
		if err := c.http.GetJSON(context.WithoutCancel(ctx), endpoint, &resp); err != nil {
			return nil, mapUpstreamError(err)
		}
		if resp.Data.Item == nil {
			return nil, apperr.NotFound(apperr.CodeMovieNotFound, msgMovieNotFound)
		}
		return resp.Data.Item, nil
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if res.Err != nil {
		return nil, res.Err
	}
	v := res.Val

	// 共享结果的副本，调用方可以自由修改
	movie := *v.(*model.CatalogMovie)
	return &movie, nil
}

// Search 关键词搜索
func (c *CatalogClient) Search(ctx context.Context, keyword string, limit int) (*model.CatalogListResponse, error) {
	params := url.Values{}
	params.Set("keyword", keyword)
	params.Set("limit", strconv.Itoa(limit))
	endpoint := fmt.Sprintf("%s?%s", c.opts.SearchAPI, params.Encode())

	var resp model.CatalogListResponse
	if err := c.http.GetJSON(ctx, endpoint, &resp); err != nil {
		return nil, mapUpstreamError(err)
	}
	return &resp, nil
}

// 404 -> NotFound，其他状态码原样透传，网络错误 -> 502
func mapUpstreamError(err error) error {
	var statusErr *utils.StatusError
	if errors.As(err, &statusErr) {
		if statusErr.StatusCode == http.StatusNotFound {
			return apperr.NotFound(apperr.CodeMovieNotFound, msgMovieNotFound)
		}
		return apperr.Wrap(statusErr.StatusCode, apperr.CodeUpstreamFailed, "movie catalog request failed", err)
	}
	return apperr.Wrap(http.StatusBadGateway, apperr.CodeUpstreamFailed, "movie catalog unavailable", err)
}
