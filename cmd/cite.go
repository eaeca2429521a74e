package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newCiteCmd() *cobra.Command {
	var (
		asJSON  bool
		noDelay bool
	)

	cmd := &cobra.Command{
		Use:   "cite <url>",
		Short: "Fetch one page and print its citation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := runtimeFrom(cmd)
			if err != nil {
				return err
			}
			cfg := rt.cfg
			if noDelay {
				cfg.Politeness.MinDelay = 0
				cfg.Politeness.MaxDelay = 0
			}
			a, err := newApp(cfg, rt.logger)
			if err != nil {
				return fmt.Errorf("build application: %w", err)
			}
			defer a.Close()

			rec := a.Extract(cmd.Context(), args[0])
			rt.logger.Debug("citation built", zap.String("url", rec.URL))

			out := cmd.OutOrStdout()
			if !asJSON {
				_, err = fmt.Fprintln(out, rec.Citation)
				return err
			}
			enc := json.NewEncoder(out)
			enc.SetEscapeHTML(false)
			enc.SetIndent("", "  ")
			return enc.Encode(rec)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full record as JSON")
	cmd.Flags().BoolVar(&noDelay, "no-delay", false, "skip the politeness pause after fetching")
	return cmd
}
