package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/i474232898/surf-report/internal/marine"
)

// openMeteoTimeLayout is the local ISO8601 form Open-Meteo uses; with
// timezone=UTC the values are UTC.
const openMeteoTimeLayout = "2006-01-02T15:04"

// OpenMeteoProvider combines the free marine API (waves, sea surface
// temperature) with the forecast API (10 m wind, 2 m air temperature).
type OpenMeteoProvider struct {
	marineURL   string
	forecastURL string
	httpCfg     HTTPClientConfig
	circuit     *breakerSet
}

func NewOpenMeteoProvider(cfg HTTPClientConfig) *OpenMeteoProvider {
	return &OpenMeteoProvider{
		marineURL:   "https://marine-api.open-meteo.com/v1/marine",
		forecastURL: "https://api.open-meteo.com/v1/forecast",
		httpCfg:     cfg,
		circuit:     newBreakerSet(marine.ProviderOpenMeteo),
	}
}

func (p *OpenMeteoProvider) ID() marine.ProviderID {
	return marine.ProviderOpenMeteo
}

type omHourly struct {
	Hourly struct {
		Time []string `json:"time"`

		WaveHeight            []*float64 `json:"wave_height"`
		WaveDirection         []*float64 `json:"wave_direction"`
		WavePeriod            []*float64 `json:"wave_period"`
		SeaSurfaceTemperature []*float64 `json:"sea_surface_temperature"`

		Temperature2m    []*float64 `json:"temperature_2m"`
		WindSpeed10m     []*float64 `json:"wind_speed_10m"`
		WindDirection10m []*float64 `json:"wind_direction_10m"`
	} `json:"hourly"`
}

func (h *omHourly) times() ([]time.Time, error) {
	out := make([]time.Time, len(h.Hourly.Time))
	for i, s := range h.Hourly.Time {
		ts, err := time.ParseInLocation(openMeteoTimeLayout, s, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("%w: open-meteo time %q: %v", marine.ErrResponseFormat, s, err)
		}
		out[i] = ts
	}
	return out, nil
}

func omAt(vals []*float64, i int) *marine.Measurement {
	if i >= len(vals) || vals[i] == nil {
		return nil
	}
	return marine.Measure(*vals[i], marine.ProviderOpenMeteo)
}

func (p *OpenMeteoProvider) FetchHourly(ctx context.Context, loc marine.Location, w marine.Window) marine.Result[[]marine.HourlyRecord] {
	records, err := p.fetchHourly(ctx, loc)
	return conclude(p.httpCfg.logger(), p.ID(), "hourly", records, err)
}

func (p *OpenMeteoProvider) fetchHourly(ctx context.Context, loc marine.Location) ([]marine.HourlyRecord, error) {
	sea, err := p.fetch(ctx, p.marineURL, loc, "wave_height,wave_direction,wave_period,sea_surface_temperature", 2, nil)
	if err != nil {
		return nil, err
	}
	times, err := sea.times()
	if err != nil {
		return nil, err
	}
	if len(times) == 0 {
		return nil, fmt.Errorf("%w: open-meteo marine returned no hours", marine.ErrNoData)
	}

	byTime := newRecordsByTime(len(times))
	for i, ts := range times {
		rec := byTime.at(ts)
		rec.SwellHeight = omAt(sea.Hourly.WaveHeight, i)
		rec.SwellDirection = omAt(sea.Hourly.WaveDirection, i)
		rec.SwellPeriod = omAt(sea.Hourly.WavePeriod, i)
		rec.WaterTemperature = omAt(sea.Hourly.SeaSurfaceTemperature, i)
	}

	// Wind and air temperature come from a second API. Without it the
	// marine series is still usable for swell.
	atmo, err := p.fetch(ctx, p.forecastURL, loc, "temperature_2m,wind_speed_10m,wind_direction_10m", 2,
		url.Values{"wind_speed_unit": {"ms"}})
	if err != nil {
		p.httpCfg.logger().Warn("open-meteo forecast unavailable", zap.Error(err))
		return byTime.records, nil
	}
	atmoTimes, err := atmo.times()
	if err != nil {
		p.httpCfg.logger().Warn("open-meteo forecast unusable", zap.Error(err))
		return byTime.records, nil
	}
	for i, ts := range atmoTimes {
		if _, ok := byTime.index[ts.Format(time.RFC3339)]; !ok {
			continue
		}
		rec := byTime.at(ts)
		rec.WindSpeed = omAt(atmo.Hourly.WindSpeed10m, i)
		rec.WindDirection = omAt(atmo.Hourly.WindDirection10m, i)
		rec.AirTemperature = omAt(atmo.Hourly.Temperature2m, i)
	}
	return byTime.records, nil
}

// FetchTemperature reports the latest sea surface and air temperatures at or
// before the end of w. Either value may be missing.
func (p *OpenMeteoProvider) FetchTemperature(ctx context.Context, loc marine.Location, w marine.Window) marine.Result[marine.Temperature] {
	temp, err := p.fetchTemperature(ctx, loc, w)
	return conclude(p.httpCfg.logger(), p.ID(), "temperature", temp, err)
}

func (p *OpenMeteoProvider) fetchTemperature(ctx context.Context, loc marine.Location, w marine.Window) (marine.Temperature, error) {
	temp := marine.Temperature{Time: w.End.UTC()}

	sea, seaErr := p.fetch(ctx, p.marineURL, loc, "sea_surface_temperature", 1, nil)
	if seaErr == nil {
		temp.Water, seaErr = latestAtOrBefore(sea, sea.Hourly.SeaSurfaceTemperature, w.End)
	}
	atmo, airErr := p.fetch(ctx, p.forecastURL, loc, "temperature_2m", 1, nil)
	if airErr == nil {
		temp.Air, airErr = latestAtOrBefore(atmo, atmo.Hourly.Temperature2m, w.End)
	}

	if seaErr != nil && airErr != nil {
		return marine.Temperature{}, fmt.Errorf("marine: %w; forecast: %v", seaErr, airErr)
	}
	if temp.Water == nil && temp.Air == nil {
		return marine.Temperature{}, fmt.Errorf("%w: open-meteo returned no temperatures", marine.ErrNoData)
	}
	return temp, nil
}

func latestAtOrBefore(h *omHourly, vals []*float64, end time.Time) (*marine.Measurement, error) {
	times, err := h.times()
	if err != nil {
		return nil, err
	}
	var found *marine.Measurement
	for i, ts := range times {
		if ts.After(end) {
			break
		}
		if m := omAt(vals, i); m != nil {
			found = m
		}
	}
	return found, nil
}

func (p *OpenMeteoProvider) fetch(ctx context.Context, base string, loc marine.Location, hourly string, forecastDays int, extra url.Values) (*omHourly, error) {
	var payload omHourly
	err := getJSON(ctx, p.httpCfg, p.circuit.get(ctx, base), func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", formatCoord(loc.Latitude))
		values.Set("longitude", formatCoord(loc.Longitude))
		values.Set("hourly", hourly)
		values.Set("timezone", "UTC")
		values.Set("past_days", "1")
		values.Set("forecast_days", strconv.Itoa(forecastDays))
		for k, vs := range extra {
			for _, v := range vs {
				values.Add(k, v)
			}
		}
		return http.NewRequest(http.MethodGet, base+"?"+values.Encode(), nil)
	}, &payload)
	if err != nil {
		return nil, err
	}
	return &payload, nil
}
