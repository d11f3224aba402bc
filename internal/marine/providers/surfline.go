package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/i474232898/surf-report/internal/marine"
)

var errNoSpotID = errors.New("surfline spot id not configured")

const knotsToMPS = 0.514444

// SurflineProvider reads the kbyg spot forecast endpoints. Heights are
// requested in meters and wind in knots, converted to m/s.
type SurflineProvider struct {
	baseURL string
	httpCfg HTTPClientConfig
	circuit *breakerSet
}

func NewSurflineProvider(cfg HTTPClientConfig) *SurflineProvider {
	return &SurflineProvider{
		baseURL: "https://services.surfline.com/kbyg/spots/forecasts",
		httpCfg: cfg,
		circuit: newBreakerSet(marine.ProviderSurfline),
	}
}

func (p *SurflineProvider) ID() marine.ProviderID {
	return marine.ProviderSurfline
}

type slSwell struct {
	Height    *float64 `json:"height"`
	Period    *float64 `json:"period"`
	Direction *float64 `json:"direction"`
}

type slWave struct {
	Timestamp int64 `json:"timestamp"`
	Surf      struct {
		Min *float64 `json:"min"`
		Max *float64 `json:"max"`
	} `json:"surf"`
	Swells      []slSwell `json:"swells"`
	Temperature *float64  `json:"temperature"`
}

type slWind struct {
	Timestamp int64    `json:"timestamp"`
	Speed     *float64 `json:"speed"`
	Direction *float64 `json:"direction"`
}

type slRating struct {
	Timestamp int64 `json:"timestamp"`
	Rating    struct {
		Key   string `json:"key"`
		Value int    `json:"value"`
	} `json:"rating"`
}

func slAt(v *float64) *marine.Measurement {
	if v == nil {
		return nil
	}
	return marine.Measure(*v, marine.ProviderSurfline)
}

func (p *SurflineProvider) FetchHourly(ctx context.Context, loc marine.Location, w marine.Window) marine.Result[[]marine.HourlyRecord] {
	records, err := p.fetchHourly(ctx, loc)
	return conclude(p.httpCfg.logger(), p.ID(), "hourly", records, err)
}

func (p *SurflineProvider) fetchHourly(ctx context.Context, loc marine.Location) ([]marine.HourlyRecord, error) {
	if loc.SpotID == "" {
		return nil, errNoSpotID
	}

	var wave struct {
		Data struct {
			Wave []slWave `json:"wave"`
		} `json:"data"`
	}
	if err := p.get(ctx, "/wave", loc.SpotID, true, &wave); err != nil {
		return nil, err
	}
	if len(wave.Data.Wave) == 0 {
		return nil, fmt.Errorf("%w: surfline returned no wave points", marine.ErrNoData)
	}

	byTime := newRecordsByTime(len(wave.Data.Wave))
	for _, pt := range wave.Data.Wave {
		rec := byTime.at(time.Unix(pt.Timestamp, 0))
		rec.SwellHeight = slAt(pt.Surf.Min)
		if len(pt.Swells) > 0 {
			rec.SwellDirection = slAt(pt.Swells[0].Direction)
			rec.SwellPeriod = slAt(pt.Swells[0].Period)
		}
		if len(pt.Swells) > 1 {
			rec.SecondarySwellHeight = slAt(pt.Swells[1].Height)
			rec.SecondarySwellDirection = slAt(pt.Swells[1].Direction)
			rec.SecondarySwellPeriod = slAt(pt.Swells[1].Period)
		}
		rec.WaterTemperature = slAt(pt.Temperature)
	}

	var wind struct {
		Data struct {
			Wind []slWind `json:"wind"`
		} `json:"data"`
	}
	if err := p.get(ctx, "/wind", loc.SpotID, true, &wind); err != nil {
		p.httpCfg.logger().Warn("surfline wind unavailable", zap.Error(err))
	}
	for _, pt := range wind.Data.Wind {
		key := time.Unix(pt.Timestamp, 0).UTC().Format(time.RFC3339)
		if _, ok := byTime.index[key]; !ok {
			continue
		}
		rec := byTime.at(time.Unix(pt.Timestamp, 0))
		if pt.Speed != nil {
			rec.WindSpeed = marine.Measure(*pt.Speed*knotsToMPS, marine.ProviderSurfline)
		}
		rec.WindDirection = slAt(pt.Direction)
	}

	ratings, err := p.ratings(ctx, loc.SpotID)
	if err != nil {
		p.httpCfg.logger().Warn("surfline rating unavailable", zap.Error(err))
	}
	for _, pt := range ratings {
		key := time.Unix(pt.Timestamp, 0).UTC().Format(time.RFC3339)
		if _, ok := byTime.index[key]; !ok {
			continue
		}
		rating := marine.Rating{Key: pt.Rating.Key, Value: pt.Rating.Value}
		byTime.at(time.Unix(pt.Timestamp, 0)).Rating = &rating
	}

	return byTime.records, nil
}

// FetchRating returns the last rating point of the forecast.
func (p *SurflineProvider) FetchRating(ctx context.Context, loc marine.Location) marine.Result[marine.Rating] {
	rating, err := p.fetchRating(ctx, loc)
	return conclude(p.httpCfg.logger(), p.ID(), "rating", rating, err)
}

func (p *SurflineProvider) fetchRating(ctx context.Context, loc marine.Location) (marine.Rating, error) {
	if loc.SpotID == "" {
		return marine.Rating{}, errNoSpotID
	}
	points, err := p.ratings(ctx, loc.SpotID)
	if err != nil {
		return marine.Rating{}, err
	}
	last := points[len(points)-1]
	return marine.Rating{Key: last.Rating.Key, Value: last.Rating.Value}, nil
}

// ratings returns the rating points of the forecast, oldest first.
func (p *SurflineProvider) ratings(ctx context.Context, spotID string) ([]slRating, error) {
	var payload struct {
		Data struct {
			Rating []slRating `json:"rating"`
		} `json:"data"`
	}
	if err := p.get(ctx, "/rating", spotID, false, &payload); err != nil {
		return nil, err
	}
	if len(payload.Data.Rating) == 0 {
		return nil, fmt.Errorf("%w: surfline returned no ratings", marine.ErrNoData)
	}
	return payload.Data.Rating, nil
}

func (p *SurflineProvider) get(ctx context.Context, path, spotID string, hourly bool, v any) error {
	return getJSON(ctx, p.httpCfg, p.circuit.get(ctx, path), func() (*http.Request, error) {
		values := url.Values{}
		values.Set("spotId", spotID)
		values.Set("days", "2")
		if hourly {
			values.Set("intervalHours", "1")
			values.Set("units[waveHeight]", "M")
			values.Set("units[swellHeight]", "M")
			values.Set("units[windSpeed]", "KTS")
			values.Set("units[temperature]", "C")
		}
		return http.NewRequest(http.MethodGet, p.baseURL+path+"?"+values.Encode(), nil)
	}, v)
}
