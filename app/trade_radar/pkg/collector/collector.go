package collector

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-shiori/go-readability"

	"github.com/iWorld-y/trade_radar/app/trade_radar/pkg/logger"
	dm "github.com/iWorld-y/trade_radar/app/trade_radar/pkg/model"
	"github.com/iWorld-y/trade_radar/app/trade_radar/pkg/search"
)

const (
	DefaultQueryTimeout   = 5 * time.Second
	DefaultResultsPerTerm = 3
	DefaultMaxItems       = 10

	// 摘要短于该长度时尝试抓取正文
	minSnippetLen  = 200
	maxContentRune = 2000
)

// FetchFunc 抓取网页正文
type FetchFunc func(pageURL string, timeout time.Duration) (string, error)

// Options 采集参数，零值字段使用默认值
type Options struct {
	QueryTimeout   time.Duration
	ResultsPerTerm int
	MaxItems       int
	FetchContent   bool
}

// Collector 围绕行业名称执行多路搜索并合并结果
type Collector struct {
	searcher search.Searcher
	opts     Options
	fetch    FetchFunc
	now      func() time.Time
}

// New 创建采集器
func New(searcher search.Searcher, opts Options) *Collector {
	if opts.QueryTimeout <= 0 {
		opts.QueryTimeout = DefaultQueryTimeout
	}
	if opts.ResultsPerTerm <= 0 {
		opts.ResultsPerTerm = DefaultResultsPerTerm
	}
	if opts.MaxItems <= 0 {
		opts.MaxItems = DefaultMaxItems
	}
	return &Collector{
		searcher: searcher,
		opts:     opts,
		fetch:    fetchReadable,
		now:      time.Now,
	}
}

// Queries 行业对应的查询集合，顺序决定合并后的排序
func Queries(sector string, year int) []string {
	return []string{
		fmt.Sprintf("%s sector India market news %d", sector, year),
		fmt.Sprintf("%s industry India opportunities", sector),
		fmt.Sprintf("Indian %s market trends investment", sector),
	}
}

// Collect 采集行业新闻。失败不会中断流程：错误记录在 MarketData.Partial/Err 中，News 可能为空
func (c *Collector) Collect(ctx context.Context, sector string) *dm.MarketData {
	data := &dm.MarketData{Sector: sector, Sources: []string{}}
	if c.searcher == nil {
		data.Partial = true
		data.Err = errors.New("no search provider configured")
		return data
	}

	queries := Queries(sector, c.now().Year())
	batches := make([][]dm.NewsItem, len(queries))
	errs := make([]error, len(queries))

	var wg sync.WaitGroup
	for i, q := range queries {
		wg.Add(1)
		go func(i int, q string) {
			defer wg.Done()
			batches[i], errs[i] = c.query(ctx, q)
			if errs[i] != nil {
				logger.Log.WithField("query", q).Errorf("搜索失败: %v", errs[i])
			}
		}(i, q)
	}
	wg.Wait()

	var all []dm.NewsItem
	failed := 0
	for i := range queries {
		if errs[i] != nil {
			failed++
			continue
		}
		all = append(all, batches[i]...)
	}

	if failed > 0 {
		data.Partial = true
		data.Err = errors.Join(errs...)
	}
	if failed < len(queries) {
		data.Sources = append(data.Sources, c.searcher.Name())
	}

	news := Dedup(all)
	if len(news) > c.opts.MaxItems {
		news = news[:c.opts.MaxItems]
	}
	if c.opts.FetchContent {
		c.enrich(news)
	}
	data.News = news

	logger.Log.WithField("sector", sector).Infof("采集完成: %d 条新闻, %d/%d 路查询失败", len(news), failed, len(queries))
	return data
}

func (c *Collector) query(ctx context.Context, q string) ([]dm.NewsItem, error) {
	ctx, cancel := context.WithTimeout(ctx, c.opts.QueryTimeout)
	defer cancel()

	resp, err := c.searcher.Search(ctx, &search.Request{
		Query:      q,
		Topic:      "news",
		MaxResults: c.opts.ResultsPerTerm,
	})
	if err != nil {
		return nil, err
	}

	results := resp.Truncate(c.opts.ResultsPerTerm)
	items := make([]dm.NewsItem, 0, len(results))
	for _, r := range results {
		items = append(items, dm.NewsItem{
			Title:   r.Title,
			Snippet: r.Snippet,
			URL:     r.URL,
			Source:  c.searcher.Name(),
		})
	}
	return items, nil
}

// Dedup 按标题去重，保留首次出现的条目
func Dedup(items []dm.NewsItem) []dm.NewsItem {
	seen := make(map[string]struct{}, len(items))
	out := make([]dm.NewsItem, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.Title]; ok {
			continue
		}
		seen[item.Title] = struct{}{}
		out = append(out, item)
	}
	return out
}

func (c *Collector) enrich(items []dm.NewsItem) {
	var wg sync.WaitGroup
	for i := range items {
		if len(items[i].Snippet) >= minSnippetLen || items[i].URL == "" {
			continue
		}
		wg.Add(1)
		go func(item *dm.NewsItem) {
			defer wg.Done()
			text, err := c.fetch(item.URL, c.opts.QueryTimeout)
			if err != nil {
				logger.Log.WithField("url", item.URL).Debugf("正文抓取失败: %v", err)
				return
			}
			item.Content = truncateRunes(text, maxContentRune)
		}(&items[i])
	}
	wg.Wait()
}

func fetchReadable(pageURL string, timeout time.Duration) (string, error) {
	article, err := readability.FromURL(pageURL, timeout)
	if err != nil {
		return "", err
	}
	return article.TextContent, nil
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
