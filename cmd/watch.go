package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/fitch/formatter"
	"github.com/gnoswap-labs/fitch/internal"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dirs...]",
	Short: "Re-check proof files whenever they are saved",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			args = []string{"."}
		}

		engine, err := newEngine()
		if err != nil {
			return err
		}

		w, err := internal.NewWatcher(engine, logger, args...)
		if err != nil {
			return err
		}
		defer w.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger.Info("watching", zap.Strings("dirs", args))
		out := cmd.OutOrStdout()
		for {
			select {
			case <-ctx.Done():
				return nil
			case r, ok := <-w.Results():
				if !ok {
					return nil
				}
				if r.Err != nil {
					logger.Error("check failed", zap.String("file", r.Filename), zap.Error(r.Err))
					continue
				}
				if len(r.Issues) == 0 {
					fmt.Fprintf(out, "%s: ok\n", r.Filename)
					continue
				}
				fmt.Fprint(out, formatter.GenerateFormattedIssue(r.Issues))
			}
		}
	},
}
