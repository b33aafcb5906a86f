package duckduckgo

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	"github.com/iWorld-y/trade_radar/app/trade_radar/pkg/search"
)

const defaultBaseURL = "https://html.duckduckgo.com"

// Client 抓取 DuckDuckGo HTML 搜索结果页，无需 API Key
type Client struct {
	client *resty.Client
	region string
}

// NewClient 创建 DuckDuckGo 客户端，baseURL 为空时使用官方地址
func NewClient(baseURL, region string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		client: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetHeader("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
		region: region,
	}
}

var _ search.Searcher = (*Client)(nil)

// Name implements search.Searcher
func (c *Client) Name() string { return "DuckDuckGo Search" }

// Search implements search.Searcher
func (c *Client) Search(ctx context.Context, req *search.Request) (*search.Response, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, fmt.Errorf("search query cannot be empty")
	}

	form := map[string]string{"q": req.Query}
	region := req.Region
	if region == "" {
		region = c.region
	}
	if region != "" {
		form["kl"] = region
	}

	res, err := c.client.R().
		SetContext(ctx).
		SetFormData(form).
		Post("/html/")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("duckduckgo error (status %d)", res.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(res.String()))
	if err != nil {
		return nil, fmt.Errorf("parse result page failed: %w", err)
	}

	resp := &search.Response{Results: parseResults(doc)}
	resp.Results = resp.Truncate(req.MaxResults)
	return resp, nil
}

func parseResults(doc *goquery.Document) []search.Result {
	var results []search.Result
	doc.Find(".result").Each(func(i int, s *goquery.Selection) {
		// 广告位
		if s.HasClass("result--ad") {
			return
		}
		link := s.Find("a.result__a").First()
		title := strings.TrimSpace(link.Text())
		href, ok := link.Attr("href")
		if title == "" || !ok {
			return
		}
		results = append(results, search.Result{
			Title:   title,
			URL:     resolveLink(href),
			Snippet: strings.TrimSpace(s.Find(".result__snippet").Text()),
		})
	})
	return results
}

// resolveLink 还原 DuckDuckGo 跳转链接 //duckduckgo.com/l/?uddg=<目标地址>
func resolveLink(href string) string {
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	return href
}
