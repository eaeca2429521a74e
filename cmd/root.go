// Package cmd implements the webcite command line.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JakeFAU/webcite/internal/app"
	"github.com/JakeFAU/webcite/internal/citation"
	"github.com/JakeFAU/webcite/internal/config"
	"github.com/JakeFAU/webcite/internal/logging"
)

// runtimeKeyType is the key for storing the loaded runtime in the context.
type runtimeKeyType string

const runtimeKey runtimeKeyType = "runtime"

// runtime carries what every subcommand needs once flags are parsed.
type runtime struct {
	cfg    config.Config
	logger *zap.Logger
}

// App is the slice of *app.App the commands use. Tests replace newApp to
// inject a fake.
type App interface {
	Extract(ctx context.Context, rawURL string) citation.Record
	Run(ctx context.Context) error
	Close()
}

var newApp = func(cfg config.Config, logger *zap.Logger) (App, error) {
	return app.New(cfg, logger)
}

var newLogger = logging.New

func newRootCmd() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "webcite",
		Short: "Build Japanese-style web citations from page metadata.",
		Long: `webcite fetches a web page, resolves its author, publication date,
title and site name from JSON-LD, meta tags and the HTML itself, and renders
a citation line. Run it as an HTTP service with "serve" or once with "cite".`,
		SilenceUsage: true,

		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg.Logging.Development, cfg.Logging.Level)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			ctx := context.WithValue(cmd.Context(), runtimeKey, &runtime{cfg: cfg, logger: logger})
			cmd.SetContext(ctx)
			return nil
		},

		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if rt, ok := cmd.Context().Value(runtimeKey).(*runtime); ok && rt != nil {
				_ = rt.logger.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, json or toml)")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newCiteCmd())
	return cmd
}

func runtimeFrom(cmd *cobra.Command) (*runtime, error) {
	rt, ok := cmd.Context().Value(runtimeKey).(*runtime)
	if !ok || rt == nil {
		return nil, fmt.Errorf("runtime not initialized")
	}
	return rt, nil
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
