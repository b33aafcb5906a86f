package searxng

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/iWorld-y/trade_radar/app/trade_radar/pkg/search"
)

// Client SearXNG API 客户端
type Client struct {
	client *resty.Client
}

// NewClient 创建 SearXNG 客户端，timeout 单位为秒，0 表示 30 秒
func NewClient(baseURL string, timeout int) *Client {
	t := time.Duration(timeout) * time.Second
	if t == 0 {
		t = 30 * time.Second
	}
	return &Client{
		client: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(t).
			// 避免被简单的反爬虫策略拦截
			SetHeader("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	}
}

var _ search.Searcher = (*Client)(nil)

// Name implements search.Searcher
func (c *Client) Name() string { return "SearXNG Search" }

type searchResponse struct {
	Query   string         `json:"query"`
	Results []searchResult `json:"results"`
}

type searchResult struct {
	Title         string  `json:"title"`
	URL           string  `json:"url"`
	Content       string  `json:"content"`
	PublishedDate string  `json:"publishedDate"`
	Score         float64 `json:"score"`
}

// Search implements search.Searcher
func (c *Client) Search(ctx context.Context, req *search.Request) (*search.Response, error) {
	categories := "general"
	if req.Topic == "news" {
		categories = "news"
	}
	params := map[string]string{
		"q":          req.Query,
		"format":     "json",
		"categories": categories,
	}
	if req.Region != "" {
		params["language"] = req.Region
	}

	var out searchResponse
	res, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(&out).
		Get("/search")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("searxng api error (status %d): %s", res.StatusCode(), res.String())
	}

	results := make([]search.Result, 0, len(out.Results))
	for _, r := range out.Results {
		results = append(results, search.Result{
			Title:         r.Title,
			URL:           r.URL,
			Snippet:       r.Content,
			Score:         r.Score,
			PublishedDate: r.PublishedDate,
		})
	}
	return &search.Response{Results: results}, nil
}
