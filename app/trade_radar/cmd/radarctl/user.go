package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/iWorld-y/trade_radar/app/trade_radar/internal/data"
	"github.com/iWorld-y/trade_radar/app/trade_radar/internal/domain"
)

func newHashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password",
		Short: "Read a password from stdin and print its bcrypt hash",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := readPassword(cmd.InOrStdin())
			if err != nil {
				return err
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(hash))
			return nil
		},
	}
}

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage the YAML user file",
	}
	cmd.AddCommand(newUserAddCmd(), newUserDisableCmd())
	return cmd
}

func newUserAddCmd() *cobra.Command {
	var (
		path     string
		password string
	)
	cmd := &cobra.Command{
		Use:   "add <username>",
		Short: "Add or replace a user; the password is read from stdin unless --password is set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			username := args[0]
			if username == domain.GuestUsername {
				return fmt.Errorf("%q is reserved", username)
			}
			if err := domain.ValidateUsername(username); err != nil {
				return fmt.Errorf("invalid username %q: must be printable, without spaces or '_'", username)
			}
			if password == "" {
				p, err := readPassword(cmd.InOrStdin())
				if err != nil {
					return err
				}
				password = p
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				return err
			}

			f, err := data.LoadUserFile(path)
			if err != nil {
				return err
			}
			f.Upsert(data.UserEntry{Username: username, PasswordHash: string(hash)})
			if err := data.SaveUserFile(path, f); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "saved user %s to %s\n", username, path)
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "file", "app/trade_radar/configs/users.yaml", "user file path")
	cmd.Flags().StringVar(&password, "password", "", "plain-text password")
	return cmd
}

func newUserDisableCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "disable <username>",
		Short: "Mark a user as inactive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := data.LoadUserFile(path)
			if err != nil {
				return err
			}
			for i := range f.Users {
				if f.Users[i].Username == args[0] {
					f.Users[i].Disabled = true
					if err := data.SaveUserFile(path, f); err != nil {
						return err
					}
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "disabled user %s\n", args[0])
					return nil
				}
			}
			return fmt.Errorf("user %s not found in %s", args[0], path)
		},
	}
	cmd.Flags().StringVar(&path, "file", "app/trade_radar/configs/users.yaml", "user file path")
	return cmd
}

func readPassword(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", errors.New("empty password")
	}
	return password, nil
}
