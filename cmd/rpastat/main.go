// Command rpastat works with robot exports outside the API: offline
// summaries, Postgres imports and admin tokens.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/sgk-rpa/rpa-dashboard/internal/infrastructure/logging"
)

func main() {
	// A missing .env file is fine
	_ = godotenv.Load()

	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:           "rpastat",
		Short:         "RPA dashboard statistics tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(out)
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	logger := func() *slog.Logger {
		return logging.NewLogger(logging.Config{
			Level:       logLevel,
			Format:      "text",
			Output:      os.Stderr,
			ServiceName: "rpastat",
			Environment: "cli",
		})
	}

	cmd.AddCommand(newSummaryCmd(logger))
	cmd.AddCommand(newTokenCmd())
	cmd.AddCommand(newImportCmd(logger))
	cmd.AddCommand(newMigrateCmd())

	return cmd
}
