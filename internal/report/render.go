// Package report renders a reconciled marine report for the terminal.
package report

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/i474232898/surf-report/internal/marine"
	"github.com/i474232898/surf-report/internal/stations"
	"github.com/i474232898/surf-report/internal/sun"
	"github.com/i474232898/surf-report/internal/tides"
)

const labelWidth = 20

// Options control presentation only.
type Options struct {
	// Location is the display time zone. Nil means UTC.
	Location *time.Location
	// Now is the reference for relative times and the current tide. Zero
	// means the report's GeneratedAt.
	Now time.Time
	// Chart enables the tide chart.
	Chart       bool
	ChartWidth  int
	ChartHeight int
}

type styles struct {
	title   lipgloss.Style
	heading lipgloss.Style
	label   lipgloss.Style
	missing lipgloss.Style
	note    lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("45")),
		heading: r.NewStyle().Bold(true).Foreground(lipgloss.Color("81")).Underline(true),
		label:   r.NewStyle().Width(labelWidth).Foreground(lipgloss.Color("247")),
		missing: r.NewStyle().Faint(true),
		note:    r.NewStyle().Faint(true),
	}
}

type printer struct {
	b  strings.Builder
	st styles
}

func (p *printer) line(label, value string) {
	p.b.WriteString(p.st.label.Render(label))
	p.b.WriteString(": ")
	p.b.WriteString(value)
	p.b.WriteString("\n")
}

func (p *printer) na(label string) {
	p.line(label, p.st.missing.Render("N/A"))
}

func (p *printer) note(s string) {
	p.b.WriteString("  └─ ")
	p.b.WriteString(p.st.note.Render(s))
	p.b.WriteString("\n")
}

func (p *printer) blank() {
	p.b.WriteString("\n")
}

// Render writes rep to w.
func Render(w io.Writer, rep *marine.Report, opts Options) error {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now.IsZero() {
		opts.Now = rep.GeneratedAt
	}
	if opts.ChartWidth <= 0 {
		opts.ChartWidth = 60
	}
	if opts.ChartHeight <= 0 {
		opts.ChartHeight = 10
	}

	p := &printer{st: newStyles(lipgloss.NewRenderer(w))}
	loc := opts.Location

	p.b.WriteString(p.st.title.Render("🌊 Surf Report for " + locationName(rep.Location)))
	p.blank()
	latest, _ := rep.Latest()
	p.line("Time", latest.Time.In(loc).Format("2006-01-02 15:04 MST"))
	p.blank()

	if rep.Rating != nil {
		p.line("Surfline Rating", fmt.Sprintf("%s (%s, %d/5)",
			strings.Repeat("⭐", rep.Rating.Value), ratingLabel(rep.Rating.Key), rep.Rating.Value))
	}
	if src := sourcesLine(rep.Sources); src != "" {
		p.line("Data Sources", src)
	}
	p.blank()

	writeSwell(p, "Primary Swell", latest.SwellHeight, latest.SwellPeriod, latest.SwellDirection)
	if latest.SecondarySwellHeight != nil {
		writeSwell(p, "Secondary Swell", latest.SecondarySwellHeight, latest.SecondarySwellPeriod, latest.SecondarySwellDirection)
	}
	if h, ok := Ago(rep.Hours, 6*time.Hour); ok && h.SwellHeight != nil {
		writeSwell(p, "Swell 6h ago", h.SwellHeight, h.SwellPeriod, h.SwellDirection)
	}
	if h, ok := Ago(rep.Hours, 24*time.Hour); ok && h.SwellHeight != nil {
		writeSwell(p, "Swell 24h ago", h.SwellHeight, h.SwellPeriod, h.SwellDirection)
	}
	p.blank()

	writeWind(p, latest, rep.WindBuoy)
	writeTemperature(p, "Air Temperature", latest.AirTemperature)
	writeTemperature(p, "Water Temperature", latest.WaterTemperature)
	if latest.SeaLevel != nil {
		p.line("Sea Level", fmt.Sprintf("%.2f ft", MetersToFeet(latest.SeaLevel.Value)))
	}
	p.blank()

	writeTides(p, rep, opts)
	p.blank()

	ev := sun.Around(rep.Location.Latitude, rep.Location.Longitude, opts.Now)
	p.line("Sunrise", ev.Sunrise.In(loc).Format("03:04 PM"))
	p.line("Sunset", ev.Sunset.In(loc).Format("03:04 PM"))

	_, err := io.WriteString(w, p.b.String())
	return err
}

func locationName(l marine.Location) string {
	if l.Name != "" {
		return l.Name
	}
	return fmt.Sprintf("%.5f, %.5f", l.Latitude, l.Longitude)
}

func sourcesLine(s marine.Provenance) string {
	var parts []string
	add := func(label string, id marine.ProviderID) {
		if id != "" {
			parts = append(parts, label+": "+id.Title())
		}
	}
	add("Swell", s.Swell)
	add("Wind", s.Wind)
	add("Temp", s.Temperature)
	add("Tide", s.Tide)
	return strings.Join(parts, ", ")
}

func writeSwell(p *printer, label string, height, period, dir *marine.Measurement) {
	if height == nil {
		p.na(label)
		return
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%.1f ft", MetersToFeet(height.Value))
	if period != nil {
		fmt.Fprintf(&b, " @ %.1f s", period.Value)
	} else {
		b.WriteString(" @ N/A s")
	}
	if dir != nil {
		fmt.Fprintf(&b, " %.1f° (%s)", dir.Value, Cardinal(dir.Value))
	}
	p.line(label, b.String())
}

func writeWind(p *printer, h marine.HourlyRecord, buoy *stations.Station) {
	if h.WindSpeed == nil {
		p.na("Wind")
		return
	}
	v := fmt.Sprintf("%.1f mph", MPSToMPH(h.WindSpeed.Value))
	if h.WindDirection != nil {
		v += fmt.Sprintf(" from %.1f° (%s)", h.WindDirection.Value, Cardinal(h.WindDirection.Value))
	}
	if h.WindSpeed.Source != "" {
		v += " (" + h.WindSpeed.Source.Title() + ")"
	}
	p.line("Wind", v)
	if buoy != nil {
		p.note(fmt.Sprintf("Buoy: %s (ID: %s, Lat: %.3f°, Lng: %.3f°)", buoy.Name, buoy.ID, buoy.Latitude, buoy.Longitude))
	}
}

func writeTemperature(p *printer, label string, m *marine.Measurement) {
	if m == nil {
		p.na(label)
		return
	}
	p.line(label, fmt.Sprintf("%.1f °F (%s)", CelsiusToFahrenheit(m.Value), m.Source.Title()))
}

func writeTides(p *printer, rep *marine.Report, opts Options) {
	p.b.WriteString(p.st.heading.Render("TIDES"))
	p.blank()

	writeTideEvent(p, "Next High Tide", rep.HighTides, opts)
	writeTideEvent(p, "Next Low Tide", rep.LowTides, opts)

	if h := rep.TideCurve.Eval(opts.Now); !math.IsNaN(h) {
		trend := "falling"
		if rising, _ := rep.TideCurve.Rising(opts.Now); rising {
			trend = "rising"
		}
		p.line("Tide Now", fmt.Sprintf("%.2f ft, %s", MetersToFeet(h), trend))
	}

	if opts.Chart {
		if chart := tideChart(rep.TideCurve, opts.Location, opts.ChartWidth, opts.ChartHeight); chart != "" {
			p.b.WriteString(chart)
			p.blank()
		}
	}

	if st := rep.TideStation; st != nil {
		p.line("Tide Station", st.Name)
		p.note(fmt.Sprintf("Station ID: %s, Location: %.3f°, %.3f°", st.ID, st.Latitude, st.Longitude))
	}
}

func writeTideEvent(p *printer, label string, events []tides.Event, opts Options) {
	if len(events) == 0 {
		p.na(label)
		return
	}
	ev := events[0]
	p.line(label, fmt.Sprintf("%s (%.2f ft) %s",
		ev.Time.In(opts.Location).Format("03:04 PM"),
		MetersToFeet(ev.Height),
		humanize.RelTime(ev.Time, opts.Now, "ago", "from now"),
	))
}
