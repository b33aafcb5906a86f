package main

import (
	"fmt"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/spf13/cobra"

	"github.com/iWorld-y/trade_radar/app/trade_radar/internal/conf"
	"github.com/iWorld-y/trade_radar/app/trade_radar/internal/usecase"
)

func newTokenCmd(load func() (*conf.Bootstrap, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "token <username>",
		Short: "Mint an access token signed with the configured auth.jwt_key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bc, err := load()
			if err != nil {
				return err
			}
			uc := usecase.NewUserUseCase(nil, bc.Auth, log.DefaultLogger)
			token, expiresAt, err := uc.IssueToken(args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", token)
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "expires at %s\n", expiresAt.Format("2006-01-02 15:04:05"))
			return nil
		},
	}
}
