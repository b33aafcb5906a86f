package server

import (
	"context"
	"net"
	nethttp "net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware"
	"github.com/go-kratos/kratos/v2/middleware/logging"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport"
	"github.com/go-kratos/kratos/v2/transport/http"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iWorld-y/trade_radar/app/trade_radar/internal/conf"
	"github.com/iWorld-y/trade_radar/app/trade_radar/internal/service"
)

const (
	OperationAnalyze      = "/trade_radar.v1.Radar/Analyze"
	OperationLogin        = "/trade_radar.v1.Radar/Login"
	OperationSessionStats = "/trade_radar.v1.Radar/SessionStats"
	OperationCacheStats   = "/trade_radar.v1.Radar/CacheStats"
	OperationClearCache   = "/trade_radar.v1.Radar/ClearCache"

	headerRequestID = "X-Request-ID"
)

// NewHTTPServer 创建 HTTP 服务并注册路由
func NewHTTPServer(c *conf.Server, s *service.RadarService, logger log.Logger) *http.Server {
	var opts = []http.ServerOption{
		http.Middleware(
			recovery.Recovery(),
			requestID(),
			logging.Server(logger),
		),
		http.ErrorEncoder(encodeError(log.NewHelper(logger))),
	}
	if c != nil && c.Http != nil {
		if c.Http.Addr != "" {
			opts = append(opts, http.Address(c.Http.Addr))
		}
		if c.Http.Timeout != "" {
			if d, err := time.ParseDuration(c.Http.Timeout); err == nil {
				opts = append(opts, http.Timeout(d))
			}
		}
	}

	srv := http.NewServer(opts...)
	registerRadarHTTPServer(srv, s)

	srv.Handle("/metrics", promhttp.Handler())
	srv.HandleFunc("/health", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	return srv
}

func registerRadarHTTPServer(srv *http.Server, s *service.RadarService) {
	r := srv.Route("/")
	r.GET("/analyze/{sector}", analyzeHandler(s))
	r.POST("/auth/token", loginHandler(s))
	r.GET("/sessions/stats", sessionStatsHandler(s))
	r.GET("/cache/stats", cacheStatsHandler(s))
	r.DELETE("/cache", clearCacheHandler(s))
}

func analyzeHandler(s *service.RadarService) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		in := &service.AnalyzeRequest{
			Sector:     ctx.Vars().Get("sector"),
			Format:     ctx.Query().Get("format"),
			Credential: bearerToken(ctx.Header().Get("Authorization")),
			Origin:     clientOrigin(ctx.Request()),
		}
		http.SetOperation(ctx, OperationAnalyze)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return s.Analyze(ctx, req.(*service.AnalyzeRequest))
		})
		out, err := h(ctx, in)
		if err != nil {
			return err
		}
		reply := out.(*service.AnalyzeReply)

		header := ctx.Response().Header()
		header.Set("X-Analysis-Status", string(reply.Status))
		if reply.UserContext.IsGuest {
			header.Set("X-User-Type", "guest")
		} else {
			header.Set("X-User-Type", "authenticated")
		}
		header.Set("X-RateLimit-Remaining", strconv.Itoa(reply.Remaining))

		if reply.Format == service.FormatMarkdown {
			return ctx.Blob(200, "text/markdown; charset=utf-8", []byte(reply.Analysis))
		}
		return ctx.Result(200, reply)
	}
}

func loginHandler(s *service.RadarService) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in service.LoginRequest
		if err := ctx.Bind(&in); err != nil {
			return errors.BadRequest(service.ReasonInvalidRequest, "request body must be a JSON object with username and password")
		}
		http.SetOperation(ctx, OperationLogin)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return s.Login(ctx, req.(*service.LoginRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		return ctx.Result(200, out)
	}
}

func sessionStatsHandler(s *service.RadarService) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		http.SetOperation(ctx, OperationSessionStats)
		h := ctx.Middleware(func(ctx context.Context, _ interface{}) (interface{}, error) {
			return s.SessionStats(ctx)
		})
		out, err := h(ctx, nil)
		if err != nil {
			return err
		}
		return ctx.Result(200, out)
	}
}

func cacheStatsHandler(s *service.RadarService) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		http.SetOperation(ctx, OperationCacheStats)
		h := ctx.Middleware(func(ctx context.Context, _ interface{}) (interface{}, error) {
			return s.CacheStats(ctx)
		})
		out, err := h(ctx, nil)
		if err != nil {
			return err
		}
		return ctx.Result(200, out)
	}
}

func clearCacheHandler(s *service.RadarService) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		credential := bearerToken(ctx.Header().Get("Authorization"))
		origin := clientOrigin(ctx.Request())
		http.SetOperation(ctx, OperationClearCache)
		h := ctx.Middleware(func(ctx context.Context, _ interface{}) (interface{}, error) {
			return s.ClearCache(ctx, credential, origin)
		})
		out, err := h(ctx, nil)
		if err != nil {
			return err
		}
		return ctx.Result(200, out)
	}
}

// encodeError 5xx 统一替换为通用错误，限流错误附带 Retry-After
func encodeError(helper *log.Helper) http.EncodeErrorFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request, err error) {
		se := errors.FromError(err)
		if se.Code >= 500 {
			helper.Errorf("%s %s: %v", r.Method, r.URL.Path, err)
			se = errors.InternalServer("INTERNAL", "internal server error")
		}
		if v, ok := se.Metadata["retry_after"]; ok {
			w.Header().Set("Retry-After", v)
		}
		http.DefaultErrorEncoder(w, r, se)
	}
}

func requestID() middleware.Middleware {
	return func(handler middleware.Handler) middleware.Handler {
		return func(ctx context.Context, req interface{}) (interface{}, error) {
			if tr, ok := transport.FromServerContext(ctx); ok {
				id := tr.RequestHeader().Get(headerRequestID)
				if id == "" {
					id = uuid.NewString()
				}
				tr.ReplyHeader().Set(headerRequestID, id)
			}
			return handler(ctx, req)
		}
	}
}

// bearerToken 只接受 Bearer 方案，其余情况视为未携带凭证
func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// clientOrigin 调用方网络地址，去掉端口
func clientOrigin(r *nethttp.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
