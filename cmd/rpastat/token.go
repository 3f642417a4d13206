package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sgk-rpa/rpa-dashboard/internal/auth"
)

type tokenCmd struct {
	operator string
	secret   string
	ttl      time.Duration
}

func newTokenCmd() *cobra.Command {
	tc := &tokenCmd{}
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an admin token that may trigger snapshot reloads",
		RunE:  tc.run,
	}

	cmd.Flags().StringVar(&tc.operator, "operator", "", "Operator name recorded in the token")
	cmd.Flags().StringVar(&tc.secret, "secret", os.Getenv("ADMIN_JWT_SECRET"), "Signing secret (defaults to ADMIN_JWT_SECRET)")
	cmd.Flags().DurationVar(&tc.ttl, "ttl", time.Hour, "Token lifetime")

	_ = cmd.MarkFlagRequired("operator")

	return cmd
}

func (tc *tokenCmd) run(cmd *cobra.Command, _ []string) error {
	if tc.secret == "" {
		return errors.New("a signing secret is required (--secret or ADMIN_JWT_SECRET)")
	}
	if tc.ttl <= 0 {
		return errors.New("--ttl must be positive")
	}

	token, err := auth.NewTokenManager(tc.secret, tc.ttl).GenerateToken(tc.operator, auth.ScopeReload)
	if err != nil {
		return fmt.Errorf("failed to issue token: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
	return err
}
