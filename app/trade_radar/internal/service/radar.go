package service

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/trade_radar/app/trade_radar/internal/domain"
	"github.com/iWorld-y/trade_radar/app/trade_radar/internal/usecase"
)

const (
	ReasonRateLimited    = "RATE_LIMITED"
	ReasonInvalidRequest = "INVALID_REQUEST"

	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// AnalyzeRequest 单次分析请求，Credential 为去掉 Bearer 前缀后的令牌
type AnalyzeRequest struct {
	Sector     string
	Format     string
	Credential string
	Origin     string
}

// UserContext 响应中附带的调用方信息
type UserContext struct {
	Username  string `json:"username"`
	IsGuest   bool   `json:"is_guest"`
	SessionID string `json:"session_id"`
}

// AnalyzeReply 分析结果 + 调用方信息
type AnalyzeReply struct {
	*domain.AnalysisResult
	UserContext UserContext `json:"user_context"`

	Format    string `json:"-"`
	Remaining int    `json:"-"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginReply struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type ClearCacheReply struct {
	Cleared int `json:"cleared"`
}

// RadarService 行业分析服务
type RadarService struct {
	users    *usecase.UserUseCase
	sessions *usecase.SessionManager
	limiter  *usecase.RateLimiter
	analysis *usecase.AnalysisUseCase
	log      *log.Helper
	now      func() time.Time
}

// NewRadarService 创建行业分析服务
func NewRadarService(
	users *usecase.UserUseCase,
	sessions *usecase.SessionManager,
	limiter *usecase.RateLimiter,
	analysis *usecase.AnalysisUseCase,
	logger log.Logger,
) *RadarService {
	return &RadarService{
		users:    users,
		sessions: sessions,
		limiter:  limiter,
		analysis: analysis,
		log:      log.NewHelper(logger),
		now:      time.Now,
	}
}

// Analyze 校验 -> 身份 -> 限流 -> 会话 -> 分析。前三步失败时不修改任何状态
func (s *RadarService) Analyze(ctx context.Context, req *AnalyzeRequest) (*AnalyzeReply, error) {
	sector, known, err := usecase.NormalizeSector(req.Sector)
	if err != nil {
		return nil, err
	}
	if !known {
		s.log.WithContext(ctx).Infof("Analyzing non-standard sector: %s", sector)
	}

	id, err := s.users.Resolve(ctx, req.Credential)
	if err != nil {
		return nil, err
	}

	now := s.now()
	d := s.limiter.Allow(usecase.RateKey(id.Username, req.Origin), now)
	if !d.Allowed {
		usecase.RateLimited.Inc()
		s.log.WithContext(ctx).Warnf("rate limit exceeded for %s from %s", id.Username, req.Origin)
		return nil, errRateLimited(d.RetryAfter)
	}

	sessionKey := s.sessions.Resolve(id, req.Origin, now)
	s.log.WithContext(ctx).Infof("Analysis request for sector: %s by user: %s", sector, id.Username)

	res := s.analysis.Analyze(ctx, sessionKey, sector)

	format := FormatJSON
	if strings.EqualFold(req.Format, FormatMarkdown) {
		format = FormatMarkdown
	}
	return &AnalyzeReply{
		AnalysisResult: res,
		UserContext: UserContext{
			Username:  id.Username,
			IsGuest:   id.IsGuest,
			SessionID: maskSessionID(sessionKey),
		},
		Format:    format,
		Remaining: d.Remaining,
	}, nil
}

// Login 用户名密码换取访问令牌
func (s *RadarService) Login(ctx context.Context, req *LoginRequest) (*LoginReply, error) {
	if err := domain.Validate(req); err != nil {
		field, _, _ := domain.FirstInvalid(err)
		return nil, errors.BadRequest(ReasonInvalidRequest, field+" is required")
	}
	token, expiresAt, err := s.users.Login(ctx, req.Username, req.Password)
	if err != nil {
		return nil, err
	}
	return &LoginReply{AccessToken: token, TokenType: "bearer", ExpiresAt: expiresAt}, nil
}

// SessionStats 存活会话统计
func (s *RadarService) SessionStats(ctx context.Context) (*domain.SessionStats, error) {
	stats := s.sessions.Stats(s.now())
	return &stats, nil
}

// CacheStats 分析缓存统计
func (s *RadarService) CacheStats(ctx context.Context) (*domain.CacheStats, error) {
	stats := s.analysis.CacheStats()
	return &stats, nil
}

// ClearCache 清除调用方自己在所有小时桶上的缓存分析
func (s *RadarService) ClearCache(ctx context.Context, credential, origin string) (*ClearCacheReply, error) {
	id, err := s.users.Resolve(ctx, credential)
	if err != nil {
		return nil, err
	}
	n := s.analysis.ClearSession(ctx, usecase.SessionPrefix(id.Username, origin))
	return &ClearCacheReply{Cleared: n}, nil
}

func errRateLimited(retryAfter time.Duration) error {
	secs := int(math.Ceil(retryAfter.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return errors.New(429, ReasonRateLimited, "Rate limit exceeded. Please try again later.").
		WithMetadata(map[string]string{"retry_after": strconv.Itoa(secs)})
}

func maskSessionID(key string) string {
	if len(key) <= 10 {
		return key + "..."
	}
	return key[:10] + "..."
}
