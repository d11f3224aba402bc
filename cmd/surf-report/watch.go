package main

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/i474232898/surf-report/internal/scheduler"
)

func newWatchCmd(flags *renderFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Re-render the report every WATCH_INTERVAL until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.logger.Sync() //nolint:errcheck

			out := cmd.OutOrStdout()
			var runs atomic.Int64
			job := func(ctx context.Context) error {
				if runs.Add(1) > 1 {
					fmt.Fprintln(out)
				}
				return a.printReport(ctx, out, flags.options(a))
			}

			sched := scheduler.New(a.cfg.WatchInterval, 0, job, a.logger)
			if err := sched.Start(cmd.Context()); err != nil {
				return fmt.Errorf("starting scheduler: %w", err)
			}
			defer sched.Stop()

			<-cmd.Context().Done()
			a.logger.Info("watch stopped", zap.Int64("runs", runs.Load()))
			return nil
		},
	}
}
