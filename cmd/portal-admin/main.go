// Command portal-admin is the operator CLI for the Calculate Funding portal.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/calcfunding/portal/internal/bootstrap"
	"github.com/calcfunding/portal/internal/ports"
)

// jobsFactory builds the job source used by watch-job.
type jobsFactory func(ctx context.Context, logger *slog.Logger) (ports.JobsAPI, error)

type app struct {
	logger *slog.Logger
	jobs   jobsFactory
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := &app{
		logger: bootstrap.InitLogger("warn"),
		jobs:   backendJobs,
	}
	if err := a.rootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1) //nolint:forbidigo // CLI must propagate command execution failure to callers
	}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "portal-admin",
		Short:         "Operator tools for the Calculate Funding portal",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(a.watchJobCmd(), a.templateCmd())
	return root
}

// backendJobs reads the portal configuration and connects to the funding platform.
//
//nolint:ireturn // the CLI only needs the jobs surface of the client.
func backendJobs(ctx context.Context, logger *slog.Logger) (ports.JobsAPI, error) {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return nil, err
	}
	client, err := bootstrap.NewBackendClient(ctx, cfg.Backend, logger)
	if err != nil {
		return nil, fmt.Errorf("backend client: %w", err)
	}
	return client, nil
}

func writef(cmd *cobra.Command, format string, args ...any) error {
	_, err := fmt.Fprintf(cmd.OutOrStdout(), format, args...)
	return err
}
