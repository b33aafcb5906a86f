package repo

import (
	"github.com/iWorld-y/trade_radar/app/trade_radar/internal/domain"
)

// AnalysisCache 分析结果缓存，按 (会话键, 行业) 去重
type AnalysisCache interface {
	// Get 返回该键最后一次写入的结果，未命中时不阻塞
	Get(sessionKey, sector string) (*domain.AnalysisResult, bool)
	// Put 写入结果，后写覆盖先写
	Put(sessionKey, sector string, result *domain.AnalysisResult)
	// Invalidate 删除会话键以 prefix 开头的全部条目，返回删除数量
	Invalidate(prefix string) int
	// Stats 缓存统计
	Stats() domain.CacheStats
}
