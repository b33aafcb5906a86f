package model

// NewsItem 单条行业新闻，同一次采集内按标题去重
type NewsItem struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	URL     string `json:"url"`
	Source  string `json:"source"`
	Content string `json:"-"` // 抓取到的正文，仅用于构建提示词
}

// MarketData 一次行业数据采集的结果
type MarketData struct {
	Sector  string
	News    []NewsItem
	Sources []string
	// Partial 为 true 表示至少一路查询失败，News 可能为空
	Partial bool
	Err     error
}

// ReportSource 报告正文的产出路径
type ReportSource string

const (
	SourceGenerated ReportSource = "generated"
	SourceFallback  ReportSource = "fallback"
)

// Report 报告合成的结果，合成本身从不失败
type Report struct {
	Sector string
	Text   string
	Source ReportSource
	// Err 记录主路径失败的原因，走模板兜底时非空
	Err error
}
