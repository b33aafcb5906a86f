package search

import "context"

// Searcher 文本搜索提供方，返回按相关度排序的结果
type Searcher interface {
	Search(ctx context.Context, req *Request) (*Response, error)
	// Name 数据来源的展示名称，会写入报告的 data_sources
	Name() string
}

// Request 通用搜索请求
type Request struct {
	Query      string
	Topic      string // "news" or "general"
	MaxResults int
	Region     string // 例如 "in-en"，为空时由提供方决定
}

// Response 通用搜索响应
type Response struct {
	Results []Result
}

// Result 单条搜索结果
type Result struct {
	Title         string
	URL           string
	Snippet       string
	Score         float64
	PublishedDate string
}

// Truncate 截断到最多 n 条，n <= 0 时原样返回
func (r *Response) Truncate(n int) []Result {
	if r == nil {
		return nil
	}
	if n <= 0 || len(r.Results) <= n {
		return r.Results
	}
	return r.Results[:n]
}
