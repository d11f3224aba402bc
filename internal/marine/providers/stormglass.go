package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/i474232898/surf-report/internal/marine"
	"github.com/i474232898/surf-report/internal/tides"
)

var errMissingAPIKey = errors.New("stormglass api key not configured")

var stormglassParams = []string{
	"swellHeight", "swellDirection", "swellPeriod",
	"secondarySwellHeight", "secondarySwellDirection", "secondarySwellPeriod",
	"windSpeed", "windDirection",
	"waterTemperature", "airTemperature",
	"seaLevel",
}

// StormglassProvider is the paid marine API. Each hourly value is reported per
// model; NOAA is preferred over Stormglass's own blend.
type StormglassProvider struct {
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *breakerSet
}

func NewStormglassProvider(apiKey string, cfg HTTPClientConfig) *StormglassProvider {
	return &StormglassProvider{
		apiKey:  apiKey,
		baseURL: "https://api.stormglass.io/v2",
		httpCfg: cfg,
		circuit: newBreakerSet(marine.ProviderStormglass),
	}
}

func (p *StormglassProvider) ID() marine.ProviderID {
	return marine.ProviderStormglass
}

type sgValue struct {
	NOAA *float64 `json:"noaa"`
	SG   *float64 `json:"sg"`
}

func (v *sgValue) measurement() *marine.Measurement {
	if v == nil {
		return nil
	}
	switch {
	case v.NOAA != nil:
		return marine.Measure(*v.NOAA, marine.ProviderStormglass)
	case v.SG != nil:
		return marine.Measure(*v.SG, marine.ProviderStormglass)
	}
	return nil
}

type sgHour struct {
	Time string `json:"time"`

	SwellHeight    *sgValue `json:"swellHeight"`
	SwellDirection *sgValue `json:"swellDirection"`
	SwellPeriod    *sgValue `json:"swellPeriod"`

	SecondarySwellHeight    *sgValue `json:"secondarySwellHeight"`
	SecondarySwellDirection *sgValue `json:"secondarySwellDirection"`
	SecondarySwellPeriod    *sgValue `json:"secondarySwellPeriod"`

	WindSpeed     *sgValue `json:"windSpeed"`
	WindDirection *sgValue `json:"windDirection"`

	WaterTemperature *sgValue `json:"waterTemperature"`
	AirTemperature   *sgValue `json:"airTemperature"`

	SeaLevel *sgValue `json:"seaLevel"`
}

func (h sgHour) record() (marine.HourlyRecord, error) {
	ts, err := time.Parse(time.RFC3339, h.Time)
	if err != nil {
		return marine.HourlyRecord{}, fmt.Errorf("%w: stormglass time %q: %v", marine.ErrResponseFormat, h.Time, err)
	}
	return marine.HourlyRecord{
		Time:                    ts.UTC(),
		SwellHeight:             h.SwellHeight.measurement(),
		SwellDirection:          h.SwellDirection.measurement(),
		SwellPeriod:             h.SwellPeriod.measurement(),
		SecondarySwellHeight:    h.SecondarySwellHeight.measurement(),
		SecondarySwellDirection: h.SecondarySwellDirection.measurement(),
		SecondarySwellPeriod:    h.SecondarySwellPeriod.measurement(),
		WindSpeed:               h.WindSpeed.measurement(),
		WindDirection:           h.WindDirection.measurement(),
		WaterTemperature:        h.WaterTemperature.measurement(),
		AirTemperature:          h.AirTemperature.measurement(),
		SeaLevel:                h.SeaLevel.measurement(),
	}, nil
}

func (p *StormglassProvider) FetchHourly(ctx context.Context, loc marine.Location, w marine.Window) marine.Result[[]marine.HourlyRecord] {
	records, err := p.fetchHourly(ctx, loc, w, stormglassParams)
	return conclude(p.httpCfg.logger(), p.ID(), "hourly", records, err)
}

// FetchTemperature asks only for the two temperature parameters over a narrow
// window and reports the most recent hour.
func (p *StormglassProvider) FetchTemperature(ctx context.Context, loc marine.Location, w marine.Window) marine.Result[marine.Temperature] {
	var temp marine.Temperature
	records, err := p.fetchHourly(ctx, loc, w, []string{"waterTemperature", "airTemperature"})
	if err == nil {
		last := records[len(records)-1]
		temp = marine.Temperature{Time: last.Time, Water: last.WaterTemperature, Air: last.AirTemperature}
	}
	return conclude(p.httpCfg.logger(), p.ID(), "temperature", temp, err)
}

func (p *StormglassProvider) fetchHourly(ctx context.Context, loc marine.Location, w marine.Window, params []string) ([]marine.HourlyRecord, error) {
	if p.apiKey == "" {
		return nil, errMissingAPIKey
	}

	var payload struct {
		Hours []sgHour `json:"hours"`
	}
	err := getJSON(ctx, p.httpCfg, p.circuit.get(ctx, "/weather/point"), func() (*http.Request, error) {
		values := p.pointQuery(loc, w)
		values.Set("params", strings.Join(params, ","))
		values.Set("source", "noaa,sg")
		return p.newRequest("/weather/point", values)
	}, &payload)
	if err != nil {
		return nil, err
	}
	if len(payload.Hours) == 0 {
		return nil, fmt.Errorf("%w: stormglass returned no hours", marine.ErrNoData)
	}

	records := make([]marine.HourlyRecord, 0, len(payload.Hours))
	for _, h := range payload.Hours {
		rec, err := h.record()
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// FetchTideExtremes returns the classified highs and lows for the point.
func (p *StormglassProvider) FetchTideExtremes(ctx context.Context, loc marine.Location, w marine.Window) marine.Result[[]tides.Sample] {
	samples, err := p.fetchTideExtremes(ctx, loc, w)
	return conclude(p.httpCfg.logger(), p.ID(), "tide_extremes", samples, err)
}

func (p *StormglassProvider) fetchTideExtremes(ctx context.Context, loc marine.Location, w marine.Window) ([]tides.Sample, error) {
	if p.apiKey == "" {
		return nil, errMissingAPIKey
	}

	var payload struct {
		Data []struct {
			Time   string   `json:"time"`
			Height *float64 `json:"height"`
			Type   string   `json:"type"`
		} `json:"data"`
	}
	err := getJSON(ctx, p.httpCfg, p.circuit.get(ctx, "/tide/extremes/point"), func() (*http.Request, error) {
		return p.newRequest("/tide/extremes/point", p.pointQuery(loc, w))
	}, &payload)
	if err != nil {
		return nil, err
	}

	samples := make([]tides.Sample, 0, len(payload.Data))
	for _, d := range payload.Data {
		ts, err := time.Parse(time.RFC3339, d.Time)
		if err != nil || d.Height == nil {
			return nil, fmt.Errorf("%w: stormglass tide extreme %+v", marine.ErrResponseFormat, d)
		}
		var kind tides.Kind
		if err := kind.UnmarshalText([]byte(d.Type)); err != nil {
			return nil, fmt.Errorf("%w: %v", marine.ErrResponseFormat, err)
		}
		samples = append(samples, tides.Sample{Time: ts.UTC(), Height: *d.Height, Kind: kind})
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: stormglass returned no tide extremes", marine.ErrNoData)
	}
	return samples, nil
}

func (p *StormglassProvider) pointQuery(loc marine.Location, w marine.Window) url.Values {
	values := url.Values{}
	values.Set("lat", formatCoord(loc.Latitude))
	values.Set("lng", formatCoord(loc.Longitude))
	values.Set("start", w.Start.UTC().Format(time.RFC3339))
	values.Set("end", w.End.UTC().Format(time.RFC3339))
	return values
}

func (p *StormglassProvider) newRequest(path string, values url.Values) (*http.Request, error) {
	req, err := http.NewRequest(http.MethodGet, p.baseURL+path+"?"+values.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", p.apiKey)
	return req, nil
}
