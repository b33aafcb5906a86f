package main

import (
	"fmt"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/spf13/cobra"

	"github.com/iWorld-y/trade_radar/app/trade_radar/internal/conf"
	"github.com/iWorld-y/trade_radar/app/trade_radar/internal/server"
	"github.com/iWorld-y/trade_radar/app/trade_radar/internal/usecase"
)

// newAnalyzeCmd 不经过 HTTP、会话和限流，直接跑一次采集与合成
func newAnalyzeCmd(load func() (*conf.Bootstrap, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <sector>",
		Short: "Run one analysis locally and print the markdown report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sector, _, err := usecase.NormalizeSector(args[0])
			if err != nil {
				return err
			}
			bc, err := load()
			if err != nil {
				return err
			}

			logger := log.NewFilter(log.DefaultLogger, log.FilterLevel(log.LevelWarn))
			coll := server.NewCollector(bc.Radar, logger)
			synth, err := server.NewSynthesizer(bc.Radar, logger)
			if err != nil {
				return err
			}

			data := coll.Collect(cmd.Context(), sector)
			rep := synth.Synthesize(cmd.Context(), data)
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), rep.Text)
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "source=%s news=%d partial=%t\n", rep.Source, len(data.News), data.Partial)
			return nil
		},
	}
}
