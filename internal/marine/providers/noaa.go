package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/i474232898/surf-report/internal/marine"
	"github.com/i474232898/surf-report/internal/stations"
	"github.com/i474232898/surf-report/internal/tides"
)

const (
	noaaDateFormat = "20060102"
	noaaTimeFormat = "2006-01-02 15:04"
)

// NOAAProvider reads CO-OPS tide predictions. It asks for classified highs and
// lows first and falls back to the untagged hourly series.
type NOAAProvider struct {
	baseURL string
	httpCfg HTTPClientConfig
	circuit *breakerSet
}

func NewNOAAProvider(cfg HTTPClientConfig) *NOAAProvider {
	return &NOAAProvider{
		baseURL: "https://api.tidesandcurrents.noaa.gov/api/prod/datagetter",
		httpCfg: cfg,
		circuit: newBreakerSet(marine.ProviderNOAA),
	}
}

func (p *NOAAProvider) ID() marine.ProviderID {
	return marine.ProviderNOAA
}

// noaaTime is a prediction time; requests use time_zone=gmt.
type noaaTime time.Time

func (t *noaaTime) UnmarshalJSON(buf []byte) error {
	var s string
	if err := json.Unmarshal(buf, &s); err != nil {
		return fmt.Errorf("prediction time %q not string: %w", buf, err)
	}
	parsed, err := time.ParseInLocation(noaaTimeFormat, s, time.UTC)
	if err != nil {
		return fmt.Errorf("prediction time %q not in fmt %q: %w", s, noaaTimeFormat, err)
	}
	*t = noaaTime(parsed)
	return nil
}

// noaaHeight is a water level, encoded as a string.
type noaaHeight float64

func (h *noaaHeight) UnmarshalJSON(buf []byte) error {
	var s string
	if err := json.Unmarshal(buf, &s); err != nil {
		return fmt.Errorf("water height %q not string: %w", buf, err)
	}
	parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fmt.Errorf("water height %q not a float: %w", s, err)
	}
	*h = noaaHeight(parsed)
	return nil
}

// noaaKind is "H" or "L" for hilo predictions and absent for hourly ones.
type noaaKind tides.Kind

func (k *noaaKind) UnmarshalJSON(buf []byte) error {
	var s string
	if err := json.Unmarshal(buf, &s); err != nil {
		return fmt.Errorf("tide %q not a string: %w", buf, err)
	}
	switch strings.ToUpper(s) {
	case "H", "HH", "HIGH":
		*k = noaaKind(tides.High)
	case "L", "LL", "LOW":
		*k = noaaKind(tides.Low)
	case "":
		*k = noaaKind(tides.Untagged)
	default:
		return fmt.Errorf("invalid tide type %q", s)
	}
	return nil
}

type noaaPrediction struct {
	Time   noaaTime   `json:"t"`
	Height noaaHeight `json:"v"`
	Type   noaaKind   `json:"type"`
}

type noaaResult struct {
	Predictions []noaaPrediction `json:"predictions"`
	Error       *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// FetchTideSeries returns predictions for the station over w. Hilo samples
// are tagged; hourly samples are not.
func (p *NOAAProvider) FetchTideSeries(ctx context.Context, station stations.Station, w marine.Window) marine.Result[[]tides.Sample] {
	samples, err := p.predictions(ctx, station, w, "hilo")
	if err != nil {
		p.httpCfg.logger().Debug("noaa hilo predictions unavailable, trying hourly")
		samples, err = p.predictions(ctx, station, w, "h")
	}
	return conclude(p.httpCfg.logger(), p.ID(), "tide_series", samples, err)
}

func (p *NOAAProvider) predictions(ctx context.Context, station stations.Station, w marine.Window, interval string) ([]tides.Sample, error) {
	var result noaaResult
	err := getJSON(ctx, p.httpCfg, p.circuit.get(ctx, interval), func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, p.baseURL+"?"+predictionQuery(station.ID, w, interval).Encode(), nil)
	}, &result)
	if err != nil {
		return nil, err
	}
	if result.Error != nil {
		return nil, fmt.Errorf("%w: noaa %s: %s", marine.ErrNoData, interval, result.Error.Message)
	}
	if len(result.Predictions) == 0 {
		return nil, fmt.Errorf("%w: noaa %s returned no predictions", marine.ErrNoData, interval)
	}

	samples := make([]tides.Sample, len(result.Predictions))
	for i, pr := range result.Predictions {
		samples[i] = tides.Sample{
			Time:   time.Time(pr.Time),
			Height: float64(pr.Height),
			Kind:   tides.Kind(pr.Type),
		}
	}
	return samples, nil
}

func predictionQuery(station string, w marine.Window, interval string) url.Values {
	vals := make(url.Values)
	vals.Add("product", "predictions")
	vals.Add("application", "NOS.COOPS.TAC.WL")
	vals.Add("datum", "MLLW")
	vals.Add("station", station)
	vals.Add("begin_date", w.Start.UTC().Format(noaaDateFormat))
	vals.Add("end_date", w.End.UTC().Format(noaaDateFormat))
	vals.Add("time_zone", "gmt")
	vals.Add("units", "metric")
	vals.Add("interval", interval)
	vals.Add("format", "json")
	return vals
}
