// Package cli wires the eaccal commands.
package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"eaccal/internal/agenda"
	"eaccal/internal/config"
	appLog "eaccal/internal/log"
	"eaccal/internal/source"
)

// Version is stamped at build time.
var Version = "0.1.0-dev"

// rootOptions holds the flags shared by the subcommands of one root command.
type rootOptions struct {
	configPath string
	listen     string
	demo       bool
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "eaccal",
		Short: "EAC community calendar",
		Long: `Serves the EAC community calendar built from the events spreadsheet.
Events are fetched from the script endpoint, normalized, classified and
exposed as a month grid, an agenda list and an iCalendar feed.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "/etc/eaccal/config.yaml", "Path to config file")
	cmd.PersistentFlags().BoolVar(&opts.demo, "demo", false, "Use generated sample events instead of the endpoint")

	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newMonthCmd(opts))
	cmd.AddCommand(newClassifyCmd())
	return cmd
}

// loadConfig reads the config file and applies the flags. With --demo the
// file is not touched, but environment overrides still apply.
func loadConfig(opts *rootOptions) (*config.Config, error) {
	var cfg *config.Config
	if opts.demo {
		cfg = config.DefaultConfig()
		cfg.ApplyEnv()
		cfg.Demo = true
	} else {
		var err error
		cfg, err = config.Load(opts.configPath)
		if err != nil {
			return nil, fmt.Errorf("loading config %s: %w", opts.configPath, err)
		}
	}

	if opts.listen != "" {
		cfg.Listen = opts.listen
	}
	appLog.SetLevel(appLog.ParseLevel(cfg.Log.Level))
	return cfg, nil
}

// newTransport picks the event source for cfg. anchor positions the demo
// window and may be nil.
func newTransport(cfg *config.Config, anchor func() time.Time) source.Transport {
	if cfg.Demo {
		d := source.NewDemo()
		if anchor != nil {
			d.Now = anchor
		}
		return d
	}
	return source.NewClient(cfg.Endpoint, cfg.RequestTimeout)
}

func newRepository(cfg *config.Config, anchor func() time.Time) *agenda.Repository {
	return agenda.NewRepository(newTransport(cfg, anchor))
}
