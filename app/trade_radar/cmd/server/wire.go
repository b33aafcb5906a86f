//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final binary.

package main

import (
	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport/http"
	"github.com/google/wire"

	"github.com/iWorld-y/trade_radar/app/trade_radar/internal/conf"
	"github.com/iWorld-y/trade_radar/app/trade_radar/internal/server"
)

// initApp init kratos application.
func initApp(*conf.Server, *conf.Data, *conf.Auth, *conf.Radar, *conf.Session, *conf.RateLimit, *conf.Cache, *conf.Analysis, log.Logger) (*kratos.App, func(), error) {
	panic(wire.Build(
		server.ProviderSet,
		newApp,
	))
}

func newApp(logger log.Logger, hs *http.Server) *kratos.App {
	return kratos.New(
		kratos.ID(id),
		kratos.Name(Name),
		kratos.Version(Version),
		kratos.Metadata(map[string]string{}),
		kratos.Logger(logger),
		kratos.Server(hs),
	)
}
