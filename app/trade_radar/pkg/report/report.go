package report

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/time/rate"

	"github.com/iWorld-y/trade_radar/app/trade_radar/pkg/logger"
	dm "github.com/iWorld-y/trade_radar/app/trade_radar/pkg/model"
)

const (
	DefaultTimeout = 10 * time.Second

	promptNewsItems   = 5
	fallbackNewsItems = 3
)

// ErrUnconfigured 未配置生成式后端
var ErrUnconfigured = errors.New("generative backend not configured")

// ErrEmptyCompletion 后端返回空内容
var ErrEmptyCompletion = errors.New("empty completion from generative backend")

const (
	BackendEino        = "eino"
	BackendLangChainGo = "langchaingo"
)

// LLMConfig 生成式后端配置
type LLMConfig struct {
	// Backend 为空时使用 eino
	Backend string
	BaseURL string
	APIKey  string
	Model   string
}

// NewChatModel 创建 OpenAI 兼容的 ChatModel；APIKey 为空时返回 nil，表示只走模板兜底
func NewChatModel(ctx context.Context, cfg LLMConfig) (model.BaseChatModel, error) {
	if cfg.APIKey == "" {
		return nil, nil
	}
	switch cfg.Backend {
	case "", BackendEino:
	case BackendLangChainGo:
		return newLangChainModel(cfg)
	default:
		return nil, fmt.Errorf("unknown llm backend: %s", cfg.Backend)
	}

	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM 初始化失败: %w", err)
	}
	return cm, nil
}

// Synthesizer 根据采集数据生成行业报告
type Synthesizer struct {
	chatModel  model.BaseChatModel
	limiter    *rate.Limiter
	timeout    time.Duration
	maxRetries int
	baseDelay  time.Duration
}

// NewSynthesizer chatModel 为 nil 时所有请求都走模板兜底；limiter 可为 nil
func NewSynthesizer(chatModel model.BaseChatModel, limiter *rate.Limiter, timeout time.Duration) *Synthesizer {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Synthesizer{
		chatModel:  chatModel,
		limiter:    limiter,
		timeout:    timeout,
		maxRetries: 3,
		baseDelay:  500 * time.Millisecond,
	}
}

// NewLimiter 按每分钟请求数和突发量构造出站限流器，rpm <= 0 时不限流
func NewLimiter(rpm, burst int) *rate.Limiter {
	if rpm <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(float64(rpm)/60.0), burst)
}

// Configured 是否配置了生成式后端
func (s *Synthesizer) Configured() bool {
	return s.chatModel != nil
}

// Synthesize 生成报告，从不返回错误：主路径失败或未配置时使用确定性模板
func (s *Synthesizer) Synthesize(ctx context.Context, data *dm.MarketData) dm.Report {
	out := dm.Report{Sector: data.Sector}

	text, err := s.generate(ctx, data)
	if err == nil {
		out.Text = text
		out.Source = dm.SourceGenerated
		return out
	}

	if !errors.Is(err, ErrUnconfigured) {
		logger.Log.WithField("sector", data.Sector).Errorf("生成报告失败，使用模板兜底: %v", err)
	}
	out.Text = Fallback(data.Sector, data.News)
	out.Source = dm.SourceFallback
	out.Err = err
	return out
}

func (s *Synthesizer) generate(ctx context.Context, data *dm.MarketData) (string, error) {
	if s.chatModel == nil {
		return "", ErrUnconfigured
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	messages := []*schema.Message{
		schema.SystemMessage("You are a market analyst specializing in Indian markets. Answer in markdown."),
		schema.UserMessage(BuildPrompt(data.Sector, data.News)),
	}

	var lastErr error
	for i := 0; i <= s.maxRetries; i++ {
		if s.limiter != nil {
			if err := s.limiter.Wait(ctx); err != nil {
				return "", err
			}
		}

		resp, err := s.chatModel.Generate(ctx, messages)
		if err != nil {
			lastErr = err
			if isTooManyRequests(err) && i < s.maxRetries {
				select {
				case <-time.After(s.baseDelay * time.Duration(1<<i)):
					continue
				case <-ctx.Done():
					return "", ctx.Err()
				}
			}
			return "", err
		}

		text := strings.TrimSpace(resp.Content)
		if text == "" {
			return "", ErrEmptyCompletion
		}
		return text, nil
	}
	return "", lastErr
}

func isTooManyRequests(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") || strings.Contains(msg, "too many requests")
}

// TitleCase 行业名称的标题格式，例如 "renewable energy" -> "Renewable Energy"
func TitleCase(sector string) string {
	// Caser 有状态，不能跨 goroutine 共享
	return cases.Title(language.English).String(sector)
}

// BuildPrompt 构建生成式后端的提示词，只使用前 5 条新闻
func BuildPrompt(sector string, news []dm.NewsItem) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "As a market analyst specializing in Indian markets, analyze the %s sector and provide trade opportunities.\n\n", sector)
	sb.WriteString("Current Market Information:\n")
	for i, item := range news {
		if i >= promptNewsItems {
			break
		}
		summary := item.Snippet
		if item.Content != "" {
			summary = item.Content
		}
		fmt.Fprintf(&sb, "- %s: %s\n", orDefault(item.Title, "No title"), orDefault(summary, "No summary"))
	}

	title := TitleCase(sector)
	fmt.Fprintf(&sb, `
Please provide a comprehensive markdown analysis report with the following structure:

# %s Sector Analysis Report

## Executive Summary
Provide a 2-3 sentence overview of the current state and opportunities.

## Market Overview
- Current market size and growth trends
- Key players and market dynamics
- Recent developments affecting the sector

## Trade Opportunities
### Short-term Opportunities (1-3 months)
- List 3-5 specific opportunities with brief explanations

### Medium-term Opportunities (3-12 months)
- List 3-5 opportunities with market drivers

### Long-term Opportunities (1-3 years)
- List 2-3 strategic opportunities

## Risk Analysis
- Key risks and challenges
- Mitigation strategies

## Investment Recommendations
- Recommended investment strategies
- Entry and exit points to consider

## Key Metrics to Monitor
- Important indicators to track
- Regulatory changes to watch

## Conclusion
Summary of key takeaways and next steps.

Focus on Indian market context, current economic conditions, and provide actionable insights.
Make sure all recommendations are based on the provided market data and current trends.
`, title)
	return sb.String()
}

// Fallback 生成确定性的模板报告，相同输入总是得到相同输出
func Fallback(sector string, news []dm.NewsItem) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s Sector Analysis Report\n\n", TitleCase(sector))

	sb.WriteString("## Executive Summary\n")
	fmt.Fprintf(&sb, "Based on current market data, the %s sector in India shows mixed signals with both opportunities and challenges present in the current economic environment.\n\n", sector)

	sb.WriteString("## Market Overview\n")
	fmt.Fprintf(&sb, "The %s sector is experiencing dynamic changes driven by various economic and regulatory factors. Recent developments suggest:\n\n", sector)

	if len(news) > 0 {
		sb.WriteString("### Recent Market News:\n")
		for i, item := range news {
			if i >= fallbackNewsItems {
				break
			}
			fmt.Fprintf(&sb, "- **%s**: %s\n", orDefault(item.Title, "Market Update"), orDefault(item.Snippet, "No details available"))
		}
	}

	fmt.Fprintf(&sb, `
## Trade Opportunities

### Short-term Opportunities (1-3 months)
- Monitor daily price movements and volatility patterns
- Look for sector-specific news that could drive short-term price action
- Consider technical analysis for entry and exit points

### Medium-term Opportunities (3-12 months)
- Evaluate fundamental changes in sector regulation
- Assess impact of government policies on %[1]s companies
- Monitor quarterly earnings trends

### Long-term Opportunities (1-3 years)
- Consider structural changes in the Indian economy
- Evaluate demographic trends affecting %[1]s demand
- Assess technological disruption potential

## Risk Analysis
- **Market Risk**: General market volatility could affect sector performance
- **Regulatory Risk**: Changes in government policies
- **Economic Risk**: Broader economic slowdown impact
- **Competition Risk**: Increased competition from domestic and international players

## Investment Recommendations
- Diversify across multiple companies within the sector
- Consider both large-cap stability and mid-cap growth potential
- Monitor key economic indicators that affect the %[1]s sector
- Maintain appropriate position sizing based on risk tolerance

## Key Metrics to Monitor
- Sector-specific growth rates
- Government policy announcements
- Export/import data (if applicable)
- Raw material costs and availability
- Consumer demand trends

## Conclusion
The %[1]s sector presents various opportunities for traders and investors. Success will depend on careful analysis of market conditions, proper risk management, and staying informed about sector-specific developments.

*Note: This analysis is based on available market data and should not be considered as financial advice. Please consult with financial advisors before making investment decisions.*
`, sector)
	return sb.String()
}

// ErrorReport 出现内部错误时返回给调用方的报告正文，不包含任何内部细节
func ErrorReport(sector string) string {
	return fmt.Sprintf("# Error Analyzing %s Sector\n\nWe encountered an error while analyzing this sector. Please try again later.", TitleCase(sector))
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
