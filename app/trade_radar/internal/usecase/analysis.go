package usecase

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"golang.org/x/sync/singleflight"

	"github.com/iWorld-y/trade_radar/app/trade_radar/internal/conf"
	"github.com/iWorld-y/trade_radar/app/trade_radar/internal/domain"
	"github.com/iWorld-y/trade_radar/app/trade_radar/internal/repo"
	dm "github.com/iWorld-y/trade_radar/app/trade_radar/pkg/model"
	"github.com/iWorld-y/trade_radar/app/trade_radar/pkg/report"
)

// internalErrorMessage 对外暴露的错误描述，具体原因只写日志
const internalErrorMessage = "internal error while building the analysis"

// Collector 行业数据采集，失败体现在返回值中而不是 error
type Collector interface {
	Collect(ctx context.Context, sector string) *dm.MarketData
}

// Synthesizer 报告合成，总能产出报告
type Synthesizer interface {
	Synthesize(ctx context.Context, data *dm.MarketData) dm.Report
}

// AnalysisUseCase 分析编排：查缓存 -> 采集 -> 合成 -> 写缓存
type AnalysisUseCase struct {
	cache     repo.AnalysisCache
	collector Collector
	synth     Synthesizer
	// flight 为 nil 时并发的相同未命中请求各自计算
	flight *singleflight.Group
	log    *log.Helper
	now    func() time.Time
}

// NewAnalysisUseCase 创建分析编排实例
func NewAnalysisUseCase(cache repo.AnalysisCache, collector Collector, synth Synthesizer, c *conf.Analysis, logger log.Logger) *AnalysisUseCase {
	uc := &AnalysisUseCase{
		cache:     cache,
		collector: collector,
		synth:     synth,
		log:       log.NewHelper(logger),
		now:       time.Now,
	}
	if c != nil && c.SingleFlight {
		uc.flight = &singleflight.Group{}
	}
	return uc
}

// Analyze 返回 (会话键, 行业) 的分析结果。命中缓存时直接返回上次的结果；
// 未命中时完整执行一次采集与合成，结果（包括 error 状态）写入缓存后返回
func (uc *AnalysisUseCase) Analyze(ctx context.Context, sessionKey, sector string) *domain.AnalysisResult {
	if res, ok := uc.cache.Get(sessionKey, sector); ok {
		cacheLookups.WithLabelValues("hit").Inc()
		uc.log.WithContext(ctx).Infof("Returning cached analysis for %s", sector)
		return res
	}
	cacheLookups.WithLabelValues("miss").Inc()

	if uc.flight == nil {
		return uc.build(ctx, sessionKey, sector)
	}
	v, _, shared := uc.flight.Do(sessionKey+"\x00"+sector, func() (interface{}, error) {
		return uc.build(ctx, sessionKey, sector), nil
	})
	if shared {
		uc.log.WithContext(ctx).Debugf("joined in-flight analysis for %s", sector)
	}
	return v.(*domain.AnalysisResult)
}

func (uc *AnalysisUseCase) build(ctx context.Context, sessionKey, sector string) (res *domain.AnalysisResult) {
	// 调用方断开不应中断采集与合成
	ctx = context.WithoutCancel(ctx)
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			uc.log.WithContext(ctx).Errorf("analysis of sector %q panicked: %v\n%s", sector, r, debug.Stack())
			res = &domain.AnalysisResult{
				Sector:      sector,
				Analysis:    report.ErrorReport(sector),
				DataSources: []string{},
				GeneratedAt: uc.now(),
				Status:      domain.StatusError,
				Error:       internalErrorMessage,
			}
			uc.cache.Put(sessionKey, sector, res)
			reportsBuilt.WithLabelValues(string(domain.StatusError), "none").Inc()
		}
		buildDuration.Observe(time.Since(start).Seconds())
	}()

	data := uc.collector.Collect(ctx, sector)
	if data.Partial {
		collectionDegraded.Inc()
		uc.log.WithContext(ctx).Warnf("market data for %s is partial: %v", sector, data.Err)
	}

	rep := uc.synth.Synthesize(ctx, data)

	sources := data.Sources
	if sources == nil {
		sources = []string{}
	}
	res = &domain.AnalysisResult{
		Sector:       sector,
		Analysis:     rep.Text,
		DataSources:  sources,
		GeneratedAt:  uc.now(),
		Status:       domain.StatusSuccess,
		ReportSource: rep.Source,
		PartialData:  data.Partial,
	}
	uc.cache.Put(sessionKey, sector, res)
	reportsBuilt.WithLabelValues(string(res.Status), string(rep.Source)).Inc()
	return res
}

// ClearSession 清除某个调用方在所有小时桶上的缓存结果
func (uc *AnalysisUseCase) ClearSession(ctx context.Context, prefix string) int {
	n := uc.cache.Invalidate(prefix)
	uc.log.WithContext(ctx).Infof("Cleared %d cached analyses for prefix %s", n, prefix)
	return n
}

// CacheStats 分析缓存统计
func (uc *AnalysisUseCase) CacheStats() domain.CacheStats {
	return uc.cache.Stats()
}
