package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/i474232898/surf-report/internal/report"
)

type renderFlags struct {
	noChart     bool
	chartWidth  int
	chartHeight int
}

func (f *renderFlags) register(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolVar(&f.noChart, "no-chart", false, "omit the tide chart")
	cmd.PersistentFlags().IntVar(&f.chartWidth, "chart-width", 60, "tide chart width in columns")
	cmd.PersistentFlags().IntVar(&f.chartHeight, "chart-height", 10, "tide chart height in rows")
}

func (f *renderFlags) options(a *app) report.Options {
	return report.Options{
		Location:    a.cfg.DisplayTimezone,
		Chart:       !f.noChart,
		ChartWidth:  f.chartWidth,
		ChartHeight: f.chartHeight,
	}
}

func newRootCmd() *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "surf-report",
		Short: "Marine weather and tide report for a surf spot",
		Long: `surf-report pulls swell, wind, temperature and tide data from several
providers, falls back between them per category and prints one report
for the configured spot.

Configuration comes from the environment, a .env file in the working
directory, or the YAML file named by SURF_REPORT_CONFIG.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.logger.Sync() //nolint:errcheck

			return a.printReport(cmd.Context(), cmd.OutOrStdout(), flags.options(a))
		},
	}
	flags.register(cmd)

	cmd.AddCommand(
		newWatchCmd(&flags),
		newServeCmd(),
		newStationsCmd(),
	)
	return cmd
}

func (a *app) printReport(ctx context.Context, w io.Writer, opts report.Options) error {
	rep, err := a.service.BuildReport(ctx, a.cfg.Spot.Location())
	if err != nil {
		return fmt.Errorf("building report: %w", err)
	}

	if err := report.Render(w, rep, opts); err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}
	return nil
}
