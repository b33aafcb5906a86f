package main

import (
	"flag"
	"os"

	"github.com/go-kratos/kratos/v2/config"
	"github.com/go-kratos/kratos/v2/config/env"
	"github.com/go-kratos/kratos/v2/config/file"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/joho/godotenv"

	"github.com/iWorld-y/trade_radar/app/trade_radar/internal/conf"
)

// go build -ldflags "-X main.Version=x.y.z"
var (
	// Name 是服务的名称
	Name string = "trade_radar"
	// Version 是服务的版本号
	Version string
	// flagconf 是配置文件的路径命令行参数
	flagconf string
	// flagenv 是 .env 文件路径，文件不存在时忽略
	flagenv string

	id, _ = os.Hostname()
)

func init() {
	flag.StringVar(&flagconf, "conf", "app/trade_radar/configs/config.yaml", "config path, eg: -conf config.yaml")
	flag.StringVar(&flagenv, "env", ".env", "dotenv path, eg: -env .env")
}

func main() {
	flag.Parse()

	// .env 只补充未设置的环境变量，供配置文件中的 ${VAR} 占位符使用
	if err := godotenv.Load(flagenv); err != nil && !os.IsNotExist(err) {
		panic(err)
	}

	// 初始化配置加载器，环境变量 TRADE_RADAR_* 覆盖文件中的同名键
	c := config.New(
		config.WithSource(
			file.NewSource(flagconf),
			env.NewSource("TRADE_RADAR_"),
		),
	)
	defer c.Close()

	if err := c.Load(); err != nil {
		panic(err)
	}

	var bc conf.Bootstrap
	if err := c.Scan(&bc); err != nil {
		panic(err)
	}

	level := log.LevelInfo
	if bc.Radar != nil && bc.Radar.Log != nil && bc.Radar.Log.Level != "" {
		level = log.ParseLevel(bc.Radar.Log.Level)
	}
	// 初始化日志记录器，包含时间戳、调用者信息、服务ID等上下文
	logger := log.NewFilter(log.With(log.NewStdLogger(os.Stdout),
		"ts", log.DefaultTimestamp,
		"caller", log.DefaultCaller,
		"service.id", id,
		"service.name", Name,
		"service.version", Version,
	), log.FilterLevel(level))

	app, cleanup, err := initApp(bc.Server, bc.Data, bc.Auth, bc.Radar, bc.Session, bc.RateLimit, bc.Cache, bc.Analysis, logger)
	if err != nil {
		panic(err)
	}
	defer cleanup()

	if err := app.Run(); err != nil {
		panic(err)
	}
}
