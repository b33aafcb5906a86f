package factory

import (
	"fmt"
	"time"

	"github.com/iWorld-y/trade_radar/app/trade_radar/pkg/duckduckgo"
	"github.com/iWorld-y/trade_radar/app/trade_radar/pkg/rss"
	"github.com/iWorld-y/trade_radar/app/trade_radar/pkg/search"
	"github.com/iWorld-y/trade_radar/app/trade_radar/pkg/searxng"
	"github.com/iWorld-y/trade_radar/app/trade_radar/pkg/tavily"
)

// Config 搜索提供方配置
type Config struct {
	Provider          string
	TavilyAPIKey      string
	TavilyEndpoint    string
	SearXNGBaseURL    string
	SearXNGTimeout    int
	DuckDuckGoURL     string
	DuckDuckGoRegion  string
	DuckDuckGoTimeout time.Duration
	RSSFeedURL        string
	RSSMaxAge         time.Duration
	RSSTimeout        time.Duration
}

// NewSearcher 根据配置创建搜索实例
func NewSearcher(cfg Config) (search.Searcher, error) {
	provider := cfg.Provider
	if provider == "" {
		// 有 tavily key 时优先使用 tavily，否则退回无需凭证的 duckduckgo
		if cfg.TavilyAPIKey != "" {
			provider = "tavily"
		} else {
			provider = "duckduckgo"
		}
	}

	switch provider {
	case "tavily":
		if cfg.TavilyAPIKey == "" {
			return nil, fmt.Errorf("tavily api key is missing")
		}
		return tavily.NewClient(cfg.TavilyAPIKey, cfg.TavilyEndpoint), nil

	case "searxng":
		if cfg.SearXNGBaseURL == "" {
			return nil, fmt.Errorf("searxng base url is missing")
		}
		return searxng.NewClient(cfg.SearXNGBaseURL, cfg.SearXNGTimeout), nil

	case "duckduckgo":
		return duckduckgo.NewClient(cfg.DuckDuckGoURL, cfg.DuckDuckGoRegion, cfg.DuckDuckGoTimeout), nil

	case "rss":
		return rss.NewClient(cfg.RSSFeedURL, cfg.RSSMaxAge, cfg.RSSTimeout), nil

	default:
		return nil, fmt.Errorf("unknown search provider: %s", provider)
	}
}
