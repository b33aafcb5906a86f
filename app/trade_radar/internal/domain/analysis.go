package domain

import (
	"time"

	dm "github.com/iWorld-y/trade_radar/app/trade_radar/pkg/model"
)

// AnalysisStatus 分析结果状态
type AnalysisStatus string

const (
	StatusSuccess AnalysisStatus = "success"
	StatusError   AnalysisStatus = "error"
)

// AnalysisResult 行业分析结果，构造后不可修改，可被并发读者共享
type AnalysisResult struct {
	Sector       string          `json:"sector"`
	Analysis     string          `json:"analysis"`
	DataSources  []string        `json:"data_sources"`
	GeneratedAt  time.Time       `json:"generated_at"`
	Status       AnalysisStatus  `json:"status"`
	ReportSource dm.ReportSource `json:"report_source,omitempty"`
	PartialData  bool            `json:"partial_data"`
	Error        string          `json:"error,omitempty"`
}

// CacheEntry 分析缓存条目
type CacheEntry struct {
	Result   *AnalysisResult
	StoredAt time.Time
}

// CacheStats 分析缓存统计
type CacheStats struct {
	Entries int   `json:"cached_items"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}
