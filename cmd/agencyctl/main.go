package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/xavierca1/agency-backoffice/internal/app"
	"github.com/xavierca1/agency-backoffice/internal/config"
	"github.com/xavierca1/agency-backoffice/internal/logging"
)

// opener builds the application for one command run.
type opener func(ctx context.Context) (*app.App, error)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCommand(openFromEnv, os.Stdout)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "agencyctl: %v\n", err)
		os.Exit(1)
	}
}

func openFromEnv(ctx context.Context) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return app.New(ctx, cfg, logging.NewWithWriter(os.Stderr, cfg.LogLevel))
}

func newRootCommand(open opener, out io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agencyctl",
		Short: "Agency back-office CLI",
		Long: `agencyctl runs back-office jobs against the same stores and mail settings as the API:
bulk outreach campaigns, lead and subscriber exports, and the stale lead digest.`,
		SilenceUsage: true,
	}
	cmd.SetOut(out)
	cmd.AddCommand(
		newOutreachCmd(open),
		newLeadsCmd(open),
		newSubscribersCmd(open),
		newDigestCmd(open),
	)
	return cmd
}

// withApp opens the application, runs fn and waits for pending notifications.
func withApp(cmd *cobra.Command, open opener, fn func(a *app.App) error) error {
	a, err := open(cmd.Context())
	if err != nil {
		return err
	}
	runErr := fn(a)
	if err := a.Close(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}
