package server

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/trade_radar/app/trade_radar/internal/conf"
	"github.com/iWorld-y/trade_radar/app/trade_radar/internal/usecase"
	"github.com/iWorld-y/trade_radar/app/trade_radar/pkg/collector"
	"github.com/iWorld-y/trade_radar/app/trade_radar/pkg/logger"
	"github.com/iWorld-y/trade_radar/app/trade_radar/pkg/report"
	"github.com/iWorld-y/trade_radar/app/trade_radar/pkg/search/factory"
)

// NewCollector 按 radar.search / radar.collect 配置创建新闻采集器。
// 搜索提供方初始化失败时不阻止启动，采集结果会标记为 partial
func NewCollector(c *conf.Radar, logger log.Logger) usecase.Collector {
	helper := log.NewHelper(logger)
	initEngineLogger(c, helper)

	sc := factory.Config{}
	opts := collector.Options{}
	if c != nil {
		if s := c.Search; s != nil {
			sc.Provider = s.Provider
			if s.Tavily != nil {
				sc.TavilyAPIKey = s.Tavily.ApiKey
			}
			if s.Searxng != nil {
				sc.SearXNGBaseURL = s.Searxng.BaseUrl
				sc.SearXNGTimeout = int(s.Searxng.Timeout)
			}
			if s.Duckduckgo != nil {
				sc.DuckDuckGoURL = s.Duckduckgo.BaseUrl
				sc.DuckDuckGoRegion = s.Duckduckgo.Region
			}
			if s.Rss != nil {
				sc.RSSFeedURL = s.Rss.FeedUrl
				sc.RSSMaxAge = conf.Duration(s.Rss.MaxAge, 0)
			}
		}
		if cc := c.Collect; cc != nil {
			opts.QueryTimeout = conf.Duration(cc.QueryTimeout, collector.DefaultQueryTimeout)
			opts.ResultsPerTerm = int(cc.ResultsPerTerm)
			opts.MaxItems = int(cc.MaxItems)
			opts.FetchContent = cc.FetchContent
		}
	}
	sc.DuckDuckGoTimeout = opts.QueryTimeout
	sc.RSSTimeout = opts.QueryTimeout

	searcher, err := factory.NewSearcher(sc)
	if err != nil {
		helper.Errorf("search provider unavailable, collections will be empty: %v", err)
		return collector.New(nil, opts)
	}
	helper.Infof("using search provider %s", searcher.Name())
	return collector.New(searcher, opts)
}

// NewSynthesizer 按 radar.llm 配置创建报告合成器；未配置 api_key 时只使用模板报告
func NewSynthesizer(c *conf.Radar, logger log.Logger) (usecase.Synthesizer, error) {
	helper := log.NewHelper(logger)

	var (
		llm     report.LLMConfig
		timeout = report.DefaultTimeout
		rpm     int
		burst   int
	)
	if c != nil {
		if c.Llm != nil {
			llm = report.LLMConfig{Backend: c.Llm.Backend, BaseURL: c.Llm.BaseUrl, APIKey: c.Llm.ApiKey, Model: c.Llm.Model}
			timeout = conf.Duration(c.Llm.Timeout, report.DefaultTimeout)
		}
		if c.Concurrency != nil {
			rpm = int(c.Concurrency.Rpm)
			burst = int(c.Concurrency.Qps)
		}
	}

	cm, err := report.NewChatModel(context.Background(), llm)
	if err != nil {
		return nil, err
	}
	if cm == nil {
		helper.Warn("llm api_key is empty, reports will use the fallback template")
	}
	return report.NewSynthesizer(cm, report.NewLimiter(rpm, burst), timeout), nil
}

func initEngineLogger(c *conf.Radar, helper *log.Helper) {
	level, file := "info", ""
	if c != nil && c.Log != nil {
		if c.Log.Level != "" {
			level = c.Log.Level
		}
		file = c.Log.File
	}
	if err := logger.InitLogger(level, file); err != nil {
		helper.Errorf("Failed to init engine logger: %v", err)
		_ = logger.InitLogger("info", "")
	}
}
