package cli

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"eaccal/internal/app"
	appLog "eaccal/internal/log"
	"eaccal/internal/web"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the refresh scheduler",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.listen, "listen", "", "HTTP listen address (overrides config if set)")
	return cmd
}

func runServe(cmd *cobra.Command, opts *rootOptions) error {
	appLog.Info("eaccal starting", "version", Version)

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	if cfg.Log.File != "" {
		closer := appLog.RotateFile(cfg.Log.File, cfg.Log.MaxSizeMB, cfg.Log.MaxBackups)
		defer closer.Close()
	}

	loc := cfg.Location()
	appLog.Info("effective config",
		"listen", cfg.Listen,
		"demo", cfg.Demo,
		"refresh", cfg.Refresh,
		"timezone", loc.String(),
		"request_timeout", cfg.RequestTimeout,
		"log_level", cfg.Log.Level,
	)

	clock := func() time.Time { return time.Now().In(loc) }
	repo := newRepository(cfg, nil)
	ctrl := app.New(repo,
		app.WithClock(clock),
		app.WithSchedule(cfg.Refresh),
		app.WithFetchTimeout(cfg.RequestTimeout*2),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := ctrl.Start(ctx); err != nil {
		return err
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		ctrl.Stop(stopCtx)
		appLog.Info("eaccal exiting")
	}()

	srv := web.NewServer(ctrl, repo, loc, web.WithRefreshTimeout(cfg.RequestTimeout*2))
	return srv.Serve(ctx, cfg.Listen)
}
