package marine

import (
	"context"

	"github.com/i474232898/surf-report/internal/stations"
	"github.com/i474232898/surf-report/internal/tides"
)

// Provider is implemented by every upstream adapter.
type Provider interface {
	ID() ProviderID
}

// SeriesProvider supplies an hourly series of marine conditions.
type SeriesProvider interface {
	Provider
	FetchHourly(ctx context.Context, loc Location, w Window) Result[[]HourlyRecord]
}

// TemperatureProvider supplies current air and water temperature.
type TemperatureProvider interface {
	Provider
	FetchTemperature(ctx context.Context, loc Location, w Window) Result[Temperature]
}

// TideExtremesProvider supplies classified high and low tides for a point.
type TideExtremesProvider interface {
	Provider
	FetchTideExtremes(ctx context.Context, loc Location, w Window) Result[[]tides.Sample]
}

// TideSeriesProvider supplies tide predictions for a station. Samples may or
// may not be classified.
type TideSeriesProvider interface {
	Provider
	FetchTideSeries(ctx context.Context, station stations.Station, w Window) Result[[]tides.Sample]
}

// WindObservationProvider supplies the latest wind reading of a buoy.
type WindObservationProvider interface {
	Provider
	FetchLatestWind(ctx context.Context, buoy stations.Station) Result[WindObservation]
}

// RatingProvider supplies the latest surf rating of a spot.
type RatingProvider interface {
	Provider
	FetchRating(ctx context.Context, loc Location) Result[Rating]
}
