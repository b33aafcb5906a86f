package rss

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/iWorld-y/trade_radar/app/trade_radar/pkg/search"
)

const (
	// DefaultFeedURL Google News 印度版搜索订阅
	DefaultFeedURL = "https://news.google.com/rss/search?q={query}&hl=en-IN&gl=IN&ceid=IN:en"
	DefaultMaxAge  = 7 * 24 * time.Hour
)

// Client 把新闻搜索订阅当作搜索提供方使用
type Client struct {
	parser  *gofeed.Parser
	feedURL string
	maxAge  time.Duration
	now     func() time.Time
}

// NewClient feedURL 为空时使用 Google News；maxAge <= 0 时使用默认值
func NewClient(feedURL string, maxAge, timeout time.Duration) *Client {
	if feedURL == "" {
		feedURL = DefaultFeedURL
	}
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	fp := gofeed.NewParser()
	fp.Client = &http.Client{Timeout: timeout}
	return &Client{
		parser:  fp,
		feedURL: feedURL,
		maxAge:  maxAge,
		now:     time.Now,
	}
}

var _ search.Searcher = (*Client)(nil)

// Name implements search.Searcher
func (c *Client) Name() string { return "RSS News" }

// Search implements search.Searcher
func (c *Client) Search(ctx context.Context, req *search.Request) (*search.Response, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, fmt.Errorf("search query cannot be empty")
	}

	feedURL := strings.ReplaceAll(c.feedURL, "{query}", url.QueryEscape(req.Query))
	feed, err := c.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed failed: %w", err)
	}

	resp := &search.Response{}
	for _, item := range feed.Items {
		// 没有发布时间的条目默认保留
		if item.PublishedParsed != nil && c.now().Sub(*item.PublishedParsed) > c.maxAge {
			continue
		}
		resp.Results = append(resp.Results, search.Result{
			Title:         strings.TrimSpace(item.Title),
			URL:           item.Link,
			Snippet:       plainText(item.Description),
			PublishedDate: item.Published,
		})
	}
	resp.Results = resp.Truncate(req.MaxResults)
	return resp, nil
}

// plainText 订阅摘要通常是 HTML 片段
func plainText(s string) string {
	if !strings.Contains(s, "<") {
		return strings.TrimSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
