package main

import (
	"github.com/go-kratos/kratos/v2/config"
	"github.com/go-kratos/kratos/v2/config/env"
	"github.com/go-kratos/kratos/v2/config/file"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/iWorld-y/trade_radar/app/trade_radar/internal/conf"
)

func newRootCmd() *cobra.Command {
	var confPath string

	rootCmd := &cobra.Command{
		Use:           "radarctl",
		Short:         "Trade radar admin tool: manage users, mint tokens, run one-off analyses",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().StringVar(&confPath, "conf", "app/trade_radar/configs/config.yaml", "config path")

	load := func() (*conf.Bootstrap, error) {
		return loadBootstrap(confPath)
	}

	rootCmd.AddCommand(
		newHashPasswordCmd(),
		newUserCmd(),
		newTokenCmd(load),
		newAnalyzeCmd(load),
	)
	return rootCmd
}

// loadBootstrap 与服务端相同的配置加载顺序：.env -> 配置文件 -> TRADE_RADAR_* 环境变量
func loadBootstrap(path string) (*conf.Bootstrap, error) {
	_ = godotenv.Load()

	c := config.New(config.WithSource(
		file.NewSource(path),
		env.NewSource("TRADE_RADAR_"),
	))
	defer c.Close()

	if err := c.Load(); err != nil {
		return nil, err
	}
	var bc conf.Bootstrap
	if err := c.Scan(&bc); err != nil {
		return nil, err
	}
	return &bc, nil
}
