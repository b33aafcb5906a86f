package server

import (
	"github.com/google/wire"

	"github.com/iWorld-y/trade_radar/app/trade_radar/internal/data"
	"github.com/iWorld-y/trade_radar/app/trade_radar/internal/service"
	"github.com/iWorld-y/trade_radar/app/trade_radar/internal/usecase"
)

// ProviderSet 是行业分析服务的依赖注入 Provider 集合
var ProviderSet = wire.NewSet(
	// Server providers
	NewHTTPServer,
	NewCollector,
	NewSynthesizer,

	// Data providers
	data.NewData,
	data.NewUserRepo,
	data.NewAnalysisCache,

	// UseCase providers
	usecase.NewUserUseCase,
	usecase.NewSessionManager,
	usecase.NewRateLimiter,
	usecase.NewAnalysisUseCase,

	// Service providers
	service.NewRadarService,
)
