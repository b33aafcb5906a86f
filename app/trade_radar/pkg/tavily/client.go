package tavily

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/iWorld-y/trade_radar/app/trade_radar/pkg/search"
)

const defaultEndpoint = "https://api.tavily.com"

// Client Tavily API 客户端
type Client struct {
	apiKey string
	client *resty.Client
}

// NewClient 创建 Tavily 客户端，endpoint 为空时使用官方地址
func NewClient(apiKey, endpoint string) *Client {
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	return &Client{
		apiKey: apiKey,
		client: resty.New().
			SetBaseURL(endpoint).
			SetTimeout(30*time.Second).
			SetHeader("Content-Type", "application/json"),
	}
}

var _ search.Searcher = (*Client)(nil)

// Name implements search.Searcher
func (c *Client) Name() string { return "Tavily Search" }

// searchRequest Tavily 搜索请求参数
type searchRequest struct {
	Query       string `json:"query"`
	SearchDepth string `json:"search_depth,omitempty"` // basic or advanced
	Topic       string `json:"topic,omitempty"`        // general or news
	MaxResults  int    `json:"max_results,omitempty"`
}

// searchResponse Tavily 搜索响应
type searchResponse struct {
	Query   string         `json:"query"`
	Results []searchResult `json:"results"`
}

type searchResult struct {
	Title         string  `json:"title"`
	URL           string  `json:"url"`
	Content       string  `json:"content"`
	Score         float64 `json:"score"`
	PublishedDate string  `json:"published_date"`
}

// Search implements search.Searcher
func (c *Client) Search(ctx context.Context, req *search.Request) (*search.Response, error) {
	body := searchRequest{
		Query:       req.Query,
		SearchDepth: "basic",
		Topic:       req.Topic,
		MaxResults:  req.MaxResults,
	}
	if body.Topic == "" {
		body.Topic = "general"
	}
	if body.MaxResults == 0 {
		body.MaxResults = 5
	}

	var out searchResponse
	res, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(c.apiKey).
		SetBody(body).
		SetResult(&out).
		Post("/search")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("tavily api error (status %d): %s", res.StatusCode(), res.String())
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
