package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/i474232898/surf-report/internal/config"
	"github.com/i474232898/surf-report/internal/stations"
)

func newStationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stations",
		Short: "List tide stations and wind buoys, nearest first for the configured spot",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			printStations(cmd.OutOrStdout(), cfg.Spot)
			return nil
		},
	}
}

func printStations(w io.Writer, spot config.SpotConfig) {
	r := lipgloss.NewRenderer(w)
	heading := r.NewStyle().Bold(true).Underline(true)
	mark := r.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)

	fmt.Fprintf(w, "%s (%s, %s)\n\n", spot.Name,
		humanize.FtoaWithDigits(spot.Latitude, 5),
		humanize.FtoaWithDigits(spot.Longitude, 5))

	tables := []struct {
		title string
		list  []stations.Station
	}{
		{"TIDE STATIONS", stations.TideStations()},
		{"WIND BUOYS", stations.WindBuoys()},
	}
	for i, t := range tables {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, heading.Render(fmt.Sprintf("%s (%s)", t.title, humanize.Comma(int64(len(t.list))))))

		nearest, _ := stations.Nearest(spot.Latitude, spot.Longitude, t.list)
		for _, s := range t.list {
			prefix := "  "
			if s.ID == nearest.ID {
				prefix = mark.Render("* ")
			}
			fmt.Fprintf(w, "%s%-8s %-48s %9.4f %10.4f  %s°\n", prefix, s.ID, s.Name, s.Latitude, s.Longitude,
				humanize.FtoaWithDigits(stations.Distance(spot.Latitude, spot.Longitude, s), 2))
		}
	}
}
