package marine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/i474232898/surf-report/internal/metrics"
	"github.com/i474232898/surf-report/internal/stations"
	"github.com/i474232898/surf-report/internal/tides"
)

const (
	historyWindow  = 24 * time.Hour
	tideHorizon    = 48 * time.Hour
	tideLookback   = 12 * time.Hour
	temperatureLag = time.Hour
)

// Providers lists the adapters consulted per category. Slices are in priority
// order; nil entries and nil single providers are skipped.
type Providers struct {
	Swell       []SeriesProvider
	Wind        []SeriesProvider
	Temperature []TemperatureProvider

	TideExtremes TideExtremesProvider
	TideSeries   TideSeriesProvider
	WindBuoy     WindObservationProvider
	Rating       RatingProvider
}

// Service builds reconciled reports. It holds no per-report state.
type Service struct {
	providers    Providers
	tideStations []stations.Station
	windBuoys    []stations.Station
	logger       *zap.Logger
	now          func() time.Time
}

// NewService creates a new Service using the built-in station tables.
func NewService(providers Providers, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		providers:    providers,
		tideStations: stations.TideStations(),
		windBuoys:    stations.WindBuoys(),
		logger:       logger,
		now:          time.Now,
	}
}

// BuildReport queries providers one at a time and reconciles their answers
// into a single report. The only error is ErrNoSwell; every other category
// degrades to absent fields.
func (s *Service) BuildReport(ctx context.Context, loc Location) (*Report, error) {
	now := s.now().UTC()
	log := s.logger.With(zap.String("spot", loc.Name))

	rep := &Report{
		ID:          uuid.New(),
		Location:    loc,
		GeneratedAt: now,
	}
	log = log.With(zap.String("report_id", rep.ID.String()))

	s.resolveRating(ctx, log, loc, rep)

	history := Window{Start: now.Add(-historyWindow), End: now}

	swell, swellSrc := s.firstSeries(ctx, log, CategorySwell, s.providers.Swell, loc, history, FieldSwellHeight)
	if swellSrc == "" {
		log.Error("no swell data available from any provider")
		metrics.ObserveReport(false)
		return nil, fmt.Errorf("%w for %s", ErrNoSwell, loc.Name)
	}
	rep.Sources.Swell = swellSrc
	rep.Hours = swell

	wind, windSrc := s.firstSeries(ctx, log, CategoryWind, s.providers.Wind, loc, history, FieldWindSpeed)
	rep.Sources.Wind = windSrc
	if windSrc != "" && windSrc != swellSrc {
		rep.Hours = Merge(rep.Hours, wind, WindFields...)
	}

	s.resolveTemperature(ctx, log, loc, now, rep)
	s.fillWindFromBuoy(ctx, log, loc, rep)
	s.resolveTides(ctx, log, loc, now, rep)

	metrics.ObserveReport(true)
	log.Info("report built",
		zap.String("swell", string(rep.Sources.Swell)),
		zap.String("wind", string(rep.Sources.Wind)),
		zap.String("temperature", string(rep.Sources.Temperature)),
		zap.String("tide", string(rep.Sources.Tide)),
		zap.Int("hours", len(rep.Hours)),
	)
	return rep, nil
}

func (s *Service) resolveRating(ctx context.Context, log *zap.Logger, loc Location, rep *Report) {
	p := s.providers.Rating
	if p == nil || loc.SpotID == "" {
		return
	}
	res := p.FetchRating(WithCategory(ctx, CategoryRating), loc)
	if !res.HasData() {
		log.Debug("rating unavailable", zap.String("provider", string(p.ID())), zap.Error(res.Err))
		return
	}
	rating := res.Data
	rep.Rating = &rating
	rep.Sources.Rating = p.ID()
	metrics.ObserveResolution(CategoryRating, string(p.ID()))
}

// firstSeries returns the clipped series of the first provider whose most
// recent record inside w carries required. Later providers are not called once
// one wins.
func (s *Service) firstSeries(
	ctx context.Context,
	log *zap.Logger,
	category string,
	candidates []SeriesProvider,
	loc Location,
	w Window,
	required Field,
) ([]HourlyRecord, ProviderID) {
	for _, p := range candidates {
		if p == nil {
			continue
		}
		res := p.FetchHourly(WithCategory(ctx, category), loc, w)
		if !res.HasData() {
			log.Debug("provider skipped",
				zap.String("category", category),
				zap.String("provider", string(p.ID())),
				zap.Stringer("outcome", res.Outcome),
				zap.Error(res.Err),
			)
			continue
		}
		series := Clip(res.Data, w)
		last := latest(series)
		if last == nil || last.Get(required) == nil {
			log.Debug("provider lacks latest value",
				zap.String("category", category),
				zap.String("provider", string(p.ID())),
				zap.Int("records", len(series)),
			)
			continue
		}
		log.Info("category resolved", zap.String("category", category), zap.String("provider", string(p.ID())))
		metrics.ObserveResolution(category, string(p.ID()))
		return series, p.ID()
	}
	metrics.ObserveResolution(category, "")
	return nil, ""
}

func (s *Service) resolveTemperature(ctx context.Context, log *zap.Logger, loc Location, now time.Time, rep *Report) {
	w := Window{Start: now.Add(-temperatureLag), End: now}
	for _, p := range s.providers.Temperature {
		if p == nil {
			continue
		}
		res := p.FetchTemperature(WithCategory(ctx, CategoryTemperature), loc, w)
		if !res.HasData() || (res.Data.Water == nil && res.Data.Air == nil) {
			log.Debug("provider skipped",
				zap.String("category", CategoryTemperature),
				zap.String("provider", string(p.ID())),
				zap.Stringer("outcome", res.Outcome),
				zap.Error(res.Err),
			)
			continue
		}
		last := latest(rep.Hours)
		last.Set(FieldWaterTemperature, res.Data.Water)
		last.Set(FieldAirTemperature, res.Data.Air)
		rep.Sources.Temperature = p.ID()
		log.Info("category resolved", zap.String("category", CategoryTemperature), zap.String("provider", string(p.ID())))
		metrics.ObserveResolution(CategoryTemperature, string(p.ID()))
		return
	}
	metrics.ObserveResolution(CategoryTemperature, "")
}

// fillWindFromBuoy completes the wind of the most recent hour from the nearest
// buoy when the series providers left it incomplete.
func (s *Service) fillWindFromBuoy(ctx context.Context, log *zap.Logger, loc Location, rep *Report) {
	p := s.providers.WindBuoy
	last := latest(rep.Hours)
	if p == nil || last == nil || (last.WindSpeed != nil && last.WindDirection != nil) {
		return
	}
	buoy, ok := stations.Nearest(loc.Latitude, loc.Longitude, s.windBuoys)
	if !ok {
		return
	}
	res := p.FetchLatestWind(WithCategory(ctx, CategoryWind), buoy)
	if !res.HasData() {
		log.Debug("buoy wind unavailable", zap.String("buoy", buoy.ID), zap.Error(res.Err))
		return
	}
	var filled bool
	if last.WindSpeed == nil {
		filled = last.Set(FieldWindSpeed, res.Data.Speed) || filled
	}
	if last.WindDirection == nil {
		filled = last.Set(FieldWindDirection, res.Data.Direction) || filled
	}
	if !filled {
		return
	}
	rep.WindBuoy = &buoy
	if rep.Sources.Wind == "" {
		rep.Sources.Wind = p.ID()
		metrics.ObserveResolution(CategoryWind, string(p.ID()))
	}
	log.Info("wind filled from buoy", zap.String("buoy", buoy.ID))
}

// resolveTides fills the upcoming highs and lows and builds the tide curve.
// The query reaches back tideLookback so the curve covers the report time.
func (s *Service) resolveTides(ctx context.Context, log *zap.Logger, loc Location, now time.Time, rep *Report) {
	w := Window{Start: now.Add(-tideLookback), End: now.Add(tideHorizon)}

	var all []tides.Event
	if p := s.providers.TideExtremes; p != nil {
		res := p.FetchTideExtremes(WithCategory(ctx, CategoryTide), loc, w)
		if res.HasData() {
			all = tides.Classify(res.Data)
			rep.HighTides, rep.LowTides = tides.Extract(res.Data, now)
			if len(rep.HighTides) > 0 || len(rep.LowTides) > 0 {
				rep.Sources.Tide = p.ID()
			}
		} else {
			log.Debug("tide extremes unavailable", zap.String("provider", string(p.ID())), zap.Error(res.Err))
		}
	}

	if len(rep.HighTides) == 0 || len(rep.LowTides) == 0 {
		if events := s.fillTidesFromStation(ctx, log, loc, now, w, rep); events != nil {
			all = tides.Merge(all, events)
		}
	}

	curve := tides.Merge(rep.HighTides, rep.LowTides)
	if prev, ok := tides.LastAtOrBefore(all, now); ok {
		curve = tides.Merge([]tides.Event{prev}, curve)
	}
	rep.TideCurve = tides.CurvesBetween(curve)
	metrics.ObserveResolution(CategoryTide, string(rep.Sources.Tide))
}

// fillTidesFromStation fills empty tide lists from the nearest NOAA station
// and returns every extreme the station reported, or nil if it was not used.
func (s *Service) fillTidesFromStation(ctx context.Context, log *zap.Logger, loc Location, now time.Time, w Window, rep *Report) []tides.Event {
	p := s.providers.TideSeries
	if p == nil {
		return nil
	}
	station, ok := stations.Nearest(loc.Latitude, loc.Longitude, s.tideStations)
	if !ok {
		return nil
	}
	res := p.FetchTideSeries(WithCategory(ctx, CategoryTide), station, w)
	if !res.HasData() {
		log.Debug("station tides unavailable", zap.String("station", station.ID), zap.Error(res.Err))
		return nil
	}
	highs, lows := tides.Extract(res.Data, now)
	var used bool
	if len(rep.HighTides) == 0 && len(highs) > 0 {
		rep.HighTides = highs
		used = true
	}
	if len(rep.LowTides) == 0 && len(lows) > 0 {
		rep.LowTides = lows
		used = true
	}
	if !used {
		return nil
	}
	rep.TideStation = &station
	if rep.Sources.Tide == "" {
		rep.Sources.Tide = p.ID()
	}
	log.Info("tides filled from station", zap.String("station", station.ID))
	return tides.Classify(res.Data)
}
