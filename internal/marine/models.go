package marine

import (
	"time"

	"github.com/google/uuid"

	"github.com/i474232898/surf-report/internal/stations"
	"github.com/i474232898/surf-report/internal/tides"
)

// ProviderID names an upstream data source.
type ProviderID string

const (
	ProviderStormglass ProviderID = "stormglass"
	ProviderOpenMeteo  ProviderID = "openmeteo"
	ProviderSurfline   ProviderID = "surfline"
	ProviderNOAA       ProviderID = "noaa"
	ProviderNDBC       ProviderID = "ndbc"
)

// Title returns the display name of the provider.
func (p ProviderID) Title() string {
	switch p {
	case ProviderStormglass:
		return "Stormglass"
	case ProviderOpenMeteo:
		return "Open-Meteo"
	case ProviderSurfline:
		return "Surfline"
	case ProviderNOAA:
		return "NOAA"
	case ProviderNDBC:
		return "NDBC"
	default:
		return string(p)
	}
}

// Location is the surf spot a report is built for.
type Location struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	// SpotID is the Surfline spot identifier. Empty disables Surfline.
	SpotID string `json:"spotId,omitempty"`
}

// Measurement is a single value tagged with the provider that produced it.
// Units are SI: meters, seconds, degrees, m/s and Celsius.
type Measurement struct {
	Value  float64    `json:"value"`
	Source ProviderID `json:"source"`
}

// Measure builds a measurement from src.
func Measure(v float64, src ProviderID) *Measurement {
	return &Measurement{Value: v, Source: src}
}

// Rating is a Surfline surf quality rating on a 0-5 scale.
type Rating struct {
	Key   string `json:"key"`
	Value int    `json:"value"`
}

// HourlyRecord is one hour of marine conditions. A nil field means no
// provider supplied it.
type HourlyRecord struct {
	Time time.Time `json:"time"` // always UTC

	SwellHeight    *Measurement `json:"swellHeight,omitempty"`
	SwellDirection *Measurement `json:"swellDirection,omitempty"`
	SwellPeriod    *Measurement `json:"swellPeriod,omitempty"`

	SecondarySwellHeight    *Measurement `json:"secondarySwellHeight,omitempty"`
	SecondarySwellDirection *Measurement `json:"secondarySwellDirection,omitempty"`
	SecondarySwellPeriod    *Measurement `json:"secondarySwellPeriod,omitempty"`

	WindSpeed     *Measurement `json:"windSpeed,omitempty"`
	WindDirection *Measurement `json:"windDirection,omitempty"`

	WaterTemperature *Measurement `json:"waterTemperature,omitempty"`
	AirTemperature   *Measurement `json:"airTemperature,omitempty"`

	SeaLevel *Measurement `json:"seaLevel,omitempty"`

	Rating *Rating `json:"rating,omitempty"`
}

// Key returns the canonical timestamp used to match records across providers.
func (r HourlyRecord) Key() string {
	return r.Time.UTC().Format(time.RFC3339)
}

// Temperature is the result of a dedicated temperature lookup.
type Temperature struct {
	Time  time.Time
	Water *Measurement
	Air   *Measurement
}

// WindObservation is the latest reading of a wind buoy.
type WindObservation struct {
	Time      time.Time
	Speed     *Measurement
	Direction *Measurement
}

// Provenance records which provider each category resolved to. An empty
// value means the category did not resolve.
type Provenance struct {
	Swell       ProviderID `json:"swell,omitempty"`
	Wind        ProviderID `json:"wind,omitempty"`
	Temperature ProviderID `json:"temperature,omitempty"`
	Tide        ProviderID `json:"tide,omitempty"`
	Rating      ProviderID `json:"rating,omitempty"`
}

// Report is the reconciled view of one spot at one instant.
type Report struct {
	ID          uuid.UUID      `json:"id"`
	Location    Location       `json:"location"`
	GeneratedAt time.Time      `json:"generatedAt"`
	Hours       []HourlyRecord `json:"hours"`
	Rating      *Rating        `json:"rating,omitempty"`

	HighTides []tides.Event `json:"highTides"`
	LowTides  []tides.Event `json:"lowTides"`
	TideCurve tides.Spline  `json:"-"`

	TideStation *stations.Station `json:"tideStation,omitempty"`
	WindBuoy    *stations.Station `json:"windBuoy,omitempty"`

	Sources Provenance `json:"sources"`
}

// Latest returns the most recent hourly record.
func (r *Report) Latest() (HourlyRecord, bool) {
	if len(r.Hours) == 0 {
		return HourlyRecord{}, false
	}
	return r.Hours[len(r.Hours)-1], true
}

// Window is a closed time range.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t lies within the window, bounds included.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}
