// Command lineupctl builds and checks softball lineups from team files
// without running the service.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/preston-bernstein/lineup-service/internal/logging"
	"github.com/preston-bernstein/lineup-service/internal/validate"
)

// version is stamped at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var rejection *validate.RejectionError
		if !errors.As(err, &rejection) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

type rootOptions struct {
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "lineupctl",
		Short:         "Generate and validate softball lineups",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level for diagnostics on stderr")

	root.AddCommand(newGenerateCmd(opts), newValidateCmd(opts))
	return root
}

func (o *rootOptions) logger(cmd *cobra.Command) *slog.Logger {
	return logging.NewLogger(logging.Config{
		Level:   o.logLevel,
		Service: "lineupctl",
		Output:  cmd.ErrOrStderr(),
	})
}
