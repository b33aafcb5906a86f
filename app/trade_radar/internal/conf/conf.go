package conf

import "time"

type Bootstrap struct {
	Server    *Server    `json:"server"`
	Data      *Data      `json:"data"`
	Auth      *Auth      `json:"auth"`
	Radar     *Radar     `json:"radar"`
	Session   *Session   `json:"session"`
	RateLimit *RateLimit `json:"rate_limit"`
	Cache     *Cache     `json:"cache"`
	Analysis  *Analysis  `json:"analysis"`
}

type Auth struct {
	JwtKey string `json:"jwt_key"`
	// TokenTTL 例如 "30m"
	TokenTTL string `json:"token_ttl"`
}

type Server struct {
	Http *HTTP `json:"http"`
}

type HTTP struct {
	Addr    string `json:"addr"`
	Timeout string `json:"timeout"`
}

// Data 用户目录的来源：driver 为 "file" 时 Source 是 YAML 文件路径，为 "postgres" 时是连接串
type Data struct {
	Database *Database `json:"database"`
}

type Database struct {
	Driver string `json:"driver"`
	Source string `json:"source"`
}

type Radar struct {
	Llm         *LLM         `json:"llm"`
	Search      *Search      `json:"search"`
	Collect     *Collect     `json:"collect"`
	Log         *Log         `json:"log"`
	Concurrency *Concurrency `json:"concurrency"`
}

type LLM struct {
	// Backend eino（默认）| langchaingo
	Backend string `json:"backend"`
	BaseUrl string `json:"base_url"`
	ApiKey  string `json:"api_key"`
	Model   string `json:"model"`
	Timeout string `json:"timeout"`
}

type Search struct {
	Provider   string      `json:"provider"`
	Tavily     *Tavily     `json:"tavily"`
	Searxng    *SearXNG    `json:"searxng"`
	Duckduckgo *DuckDuckGo `json:"duckduckgo"`
	Rss        *RSS        `json:"rss"`
}

type Tavily struct {
	ApiKey string `json:"api_key"`
}

type SearXNG struct {
	BaseUrl string `json:"base_url"`
	Timeout int32  `json:"timeout"`
}

type DuckDuckGo struct {
	BaseUrl string `json:"base_url"`
	Region  string `json:"region"`
}

// RSS FeedUrl 中的 {query} 会被替换为转义后的查询词
type RSS struct {
	FeedUrl string `json:"feed_url"`
	MaxAge  string `json:"max_age"`
}

type Collect struct {
	QueryTimeout   string `json:"query_timeout"`
	ResultsPerTerm int32  `json:"results_per_term"`
	MaxItems       int32  `json:"max_items"`
	FetchContent   bool   `json:"fetch_content"`
}

type Log struct {
	Level string `json:"level"`
	File  string `json:"file"`
}

type Concurrency struct {
	Qps int32 `json:"qps"`
	Rpm int32 `json:"rpm"`
}

type Session struct {
	TTL           string `json:"ttl"`
	SweepInterval string `json:"sweep_interval"`
}

type RateLimit struct {
	Requests int32  `json:"requests"`
	Window   string `json:"window"`
}

// Cache 默认不设上限，与旧行为一致
type Cache struct {
	MaxEntries int32  `json:"max_entries"`
	SuccessTTL string `json:"success_ttl"`
	ErrorTTL   string `json:"error_ttl"`
}

type Analysis struct {
	SingleFlight bool `json:"single_flight"`
}

// Duration 解析配置中的时长字符串，空值或非法值返回 def
func Duration(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}
