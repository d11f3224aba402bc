package marine

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/i474232898/surf-report/internal/stations"
	"github.com/i474232898/surf-report/internal/tides"
)

type fakeSeries struct {
	id    ProviderID
	res   Result[[]HourlyRecord]
	calls int
}

func (f *fakeSeries) ID() ProviderID { return f.id }

func (f *fakeSeries) FetchHourly(context.Context, Location, Window) Result[[]HourlyRecord] {
	f.calls++
	return f.res
}

type fakeTemperature struct {
	id    ProviderID
	res   Result[Temperature]
	calls int
}

func (f *fakeTemperature) ID() ProviderID { return f.id }

func (f *fakeTemperature) FetchTemperature(context.Context, Location, Window) Result[Temperature] {
	f.calls++
	return f.res
}

type fakeExtremes struct {
	res    Result[[]tides.Sample]
	calls  int
	window Window
}

func (f *fakeExtremes) ID() ProviderID { return ProviderStormglass }

func (f *fakeExtremes) FetchTideExtremes(_ context.Context, _ Location, w Window) Result[[]tides.Sample] {
	f.calls++
	f.window = w
	return f.res
}

type fakeTideSeries struct {
	res     Result[[]tides.Sample]
	station stations.Station
	calls   int
}

func (f *fakeTideSeries) ID() ProviderID { return ProviderNOAA }

func (f *fakeTideSeries) FetchTideSeries(_ context.Context, st stations.Station, _ Window) Result[[]tides.Sample] {
	f.calls++
	f.station = st
	return f.res
}

type fakeBuoy struct {
	res   Result[WindObservation]
	buoy  stations.Station
	calls int
}

func (f *fakeBuoy) ID() ProviderID { return ProviderNDBC }

func (f *fakeBuoy) FetchLatestWind(_ context.Context, b stations.Station) Result[WindObservation] {
	f.calls++
	f.buoy = b
	return f.res
}

type fakeRating struct {
	res   Result[Rating]
	calls int
}

func (f *fakeRating) ID() ProviderID { return ProviderSurfline }

func (f *fakeRating) FetchRating(context.Context, Location) Result[Rating] {
	f.calls++
	return f.res
}

var testSpot = Location{
	Name:      "Ocean Avenue, Melbourne Beach, FL",
	Latitude:  28.04085,
	Longitude: -80.33260,
	SpotID:    "5842041f4e65fad6a7708e1a",
}

// series builds hourly records ending at t0 with swell and, when wind > 0,
// wind speed from src.
func series(src ProviderID, hours int, swell, wind float64) []HourlyRecord {
	out := make([]HourlyRecord, 0, hours)
	for i := hours - 1; i >= 0; i-- {
		r := HourlyRecord{Time: t0.Add(-time.Duration(i) * time.Hour)}
		if swell > 0 {
			r.SwellHeight = Measure(swell, src)
			r.SwellPeriod = Measure(10, src)
			r.SwellDirection = Measure(90, src)
		}
		if wind > 0 {
			r.WindSpeed = Measure(wind, src)
			r.WindDirection = Measure(180, src)
		}
		out = append(out, r)
	}
	return out
}

func newTestService(t *testing.T, p Providers) *Service {
	s := NewService(p, zaptest.NewLogger(t))
	s.now = func() time.Time { return t0 }
	return s
}

func TestBuildReportPriorityShortCircuit(t *testing.T) {
	a := &fakeSeries{id: ProviderStormglass, res: OK(series(ProviderStormglass, 25, 1.5, 4))}
	b := &fakeSeries{id: ProviderOpenMeteo, res: OK(series(ProviderOpenMeteo, 25, 2.5, 6))}
	c := &fakeSeries{id: ProviderSurfline, res: OK(series(ProviderSurfline, 25, 3.5, 8))}

	s := newTestService(t, Providers{
		Swell: []SeriesProvider{a, b, c},
		Wind:  []SeriesProvider{a, b, c},
	})

	rep, err := s.BuildReport(context.Background(), testSpot)
	if err != nil {
		t.Fatalf("BuildReport: %v", err)
	}
	if b.calls != 0 || c.calls != 0 {
		t.Errorf("lower priority providers consulted: b=%d c=%d", b.calls, c.calls)
	}
	if a.calls != 2 {
		t.Errorf("primary called %d times, wanted once per category (2)", a.calls)
	}
	if rep.Sources.Swell != ProviderStormglass || rep.Sources.Wind != ProviderStormglass {
		t.Errorf("sources = %+v", rep.Sources)
	}
	if len(rep.Hours) != 25 {
		t.Errorf("got %d hours, wanted 25", len(rep.Hours))
	}
}

func TestBuildReportSwellFallback(t *testing.T) {
	a := &fakeSeries{id: ProviderStormglass, res: Failed[[]HourlyRecord](errors.New("boom"))}
	b := &fakeSeries{id: ProviderOpenMeteo, res: OK(series(ProviderOpenMeteo, 3, 2.0, 0))}
	c := &fakeSeries{id: ProviderSurfline, res: OK(series(ProviderSurfline, 3, 3.0, 0))}

	s := newTestService(t, Providers{Swell: []SeriesProvider{a, b, c}})

	rep, err := s.BuildReport(context.Background(), testSpot)
	if err != nil {
		t.Fatalf("BuildReport: %v", err)
	}
	if rep.Sources.Swell != ProviderOpenMeteo {
		t.Errorf("swell source = %q, wanted %q", rep.Sources.Swell, ProviderOpenMeteo)
	}
	latest, _ := rep.Latest()
	if latest.SwellHeight.Value != 2.0 {
		t.Errorf("swell height = %v, wanted 2.0", latest.SwellHeight.Value)
	}
	if c.calls != 0 {
		t.Errorf("surfline consulted after open-meteo won")
	}
}

func TestBuildReportSkipsProviderWithoutLatestSwell(t *testing.T) {
	// Swell present on older hours only.
	partial := series(ProviderStormglass, 3, 1.0, 0)
	partial[len(partial)-1].SwellHeight = nil

	a := &fakeSeries{id: ProviderStormglass, res: OK(partial)}
	b := &fakeSeries{id: ProviderOpenMeteo, res: OK(series(ProviderOpenMeteo, 3, 2.0, 0))}

	s := newTestService(t, Providers{Swell: []SeriesProvider{a, b}})

	rep, err := s.BuildReport(context.Background(), testSpot)
	if err != nil {
		t.Fatalf("BuildReport: %v", err)
	}
	if rep.Sources.Swell != ProviderOpenMeteo {
		t.Errorf("swell source = %q, wanted %q", rep.Sources.Swell, ProviderOpenMeteo)
	}
}

func TestBuildReportClipsToHistory(t *testing.T) {
	// Two days of data: yesterday plus a forecast into tomorrow.
	var records []HourlyRecord
	for i := -30; i <= 24; i++ {
		records = append(records, HourlyRecord{
			Time:        t0.Add(time.Duration(i) * time.Hour),
			SwellHeight: Measure(1, ProviderOpenMeteo),
		})
	}
	a := &fakeSeries{id: ProviderOpenMeteo, res: OK(records)}

	s := newTestService(t, Providers{Swell: []SeriesProvider{a}})

	rep, err := s.BuildReport(context.Background(), testSpot)
	if err != nil {
		t.Fatalf("BuildReport: %v", err)
	}
	latest, _ := rep.Latest()
	if !latest.Time.Equal(t0) {
		t.Errorf("latest record at %s, wanted %s", latest.Time, t0)
	}
	if !rep.Hours[0].Time.Equal(t0.Add(-24 * time.Hour)) {
		t.Errorf("first record at %s, wanted 24h before", rep.Hours[0].Time)
	}
}

func TestBuildReportNoSwell(t *testing.T) {
	a := &fakeSeries{id: ProviderStormglass, res: Failed[[]HourlyRecord](ErrTransport)}
	b := &fakeSeries{id: ProviderOpenMeteo, res: NoData[[]HourlyRecord](ErrNoData)}
	c := &fakeSeries{id: ProviderSurfline, res: OK([]HourlyRecord{})}
	tide := &fakeExtremes{}

	s := newTestService(t, Providers{
		Swell:        []SeriesProvider{a, b, c},
		TideExtremes: tide,
	})

	rep, err := s.BuildReport(context.Background(), testSpot)
	if !errors.Is(err, ErrNoSwell) {
		t.Fatalf("err = %v, wanted ErrNoSwell", err)
	}
	if rep != nil {
		t.Errorf("got a report without swell")
	}
	if tide.calls != 0 {
		t.Errorf("tides fetched after swell failed")
	}
}

func TestBuildReportWindFromDifferentProvider(t *testing.T) {
	swell := &fakeSeries{id: ProviderStormglass, res: OK(series(ProviderStormglass, 6, 1.2, 0))}
	windA := &fakeSeries{id: ProviderStormglass, res: OK(series(ProviderStormglass, 6, 1.2, 0))}
	windB := &fakeSeries{id: ProviderOpenMeteo, res: OK(series(ProviderOpenMeteo, 6, 0, 5.0))}

	s := newTestService(t, Providers{
		Swell: []SeriesProvider{swell},
		Wind:  []SeriesProvider{windA, windB},
	})

	rep, err := s.BuildReport(context.Background(), testSpot)
	if err != nil {
		t.Fatalf("BuildReport: %v", err)
	}
	if rep.Sources.Wind != ProviderOpenMeteo {
		t.Errorf("wind source = %q", rep.Sources.Wind)
	}
	for _, h := range rep.Hours {
		if h.SwellHeight == nil || h.SwellHeight.Value != 1.2 {
			t.Errorf("%s: swell = %+v", h.Key(), h.SwellHeight)
		}
		if h.WindSpeed == nil || h.WindSpeed.Value != 5.0 || h.WindSpeed.Source != ProviderOpenMeteo {
			t.Errorf("%s: wind = %+v", h.Key(), h.WindSpeed)
		}
	}
}

func TestBuildReportWindFromBuoy(t *testing.T) {
	swell := &fakeSeries{id: ProviderOpenMeteo, res: OK(series(ProviderOpenMeteo, 3, 1.0, 0))}
	buoy := &fakeBuoy{res: OK(WindObservation{
		Time:      t0,
		Speed:     Measure(6.1, ProviderNDBC),
		Direction: Measure(45, ProviderNDBC),
	})}

	s := newTestService(t, Providers{
		Swell:    []SeriesProvider{swell},
		Wind:     []SeriesProvider{swell},
		WindBuoy: buoy,
	})

	rep, err := s.BuildReport(context.Background(), testSpot)
	if err != nil {
		t.Fatalf("BuildReport: %v", err)
	}
	if rep.Sources.Wind != ProviderNDBC {
		t.Errorf("wind source = %q, wanted ndbc", rep.Sources.Wind)
	}
	if buoy.buoy.ID != "41009" {
		t.Errorf("queried buoy %s, wanted nearest 41009", buoy.buoy.ID)
	}
	latest, _ := rep.Latest()
	if latest.WindSpeed == nil || latest.WindSpeed.Value != 6.1 {
		t.Errorf("latest wind = %+v", latest.WindSpeed)
	}
	if rep.Hours[0].WindSpeed != nil {
		t.Errorf("buoy wind applied to older hour")
	}
	if rep.WindBuoy == nil || rep.WindBuoy.ID != "41009" {
		t.Errorf("wind buoy attribution = %+v", rep.WindBuoy)
	}
}

func TestBuildReportBuoyNotConsultedWhenWindComplete(t *testing.T) {
	a := &fakeSeries{id: ProviderStormglass, res: OK(series(ProviderStormglass, 3, 1.0, 4.0))}
	buoy := &fakeBuoy{}

	s := newTestService(t, Providers{
		Swell:    []SeriesProvider{a},
		Wind:     []SeriesProvider{a},
		WindBuoy: buoy,
	})

	if _, err := s.BuildReport(context.Background(), testSpot); err != nil {
		t.Fatalf("BuildReport: %v", err)
	}
	if buoy.calls != 0 {
		t.Errorf("buoy consulted with complete wind")
	}
}

func TestBuildReportTemperature(t *testing.T) {
	swell := &fakeSeries{id: ProviderSurfline, res: OK(series(ProviderSurfline, 3, 1.0, 0))}
	primary := &fakeTemperature{id: ProviderStormglass, res: NoData[Temperature](ErrNoData)}
	backup := &fakeTemperature{id: ProviderOpenMeteo, res: OK(Temperature{
		Water: Measure(24.5, ProviderOpenMeteo),
	})}

	s := newTestService(t, Providers{
		Swell:       []SeriesProvider{swell},
		Temperature: []TemperatureProvider{primary, backup},
	})

	rep, err := s.BuildReport(context.Background(), testSpot)
	if err != nil {
		t.Fatalf("BuildReport: %v", err)
	}
	if rep.Sources.Temperature != ProviderOpenMeteo {
		t.Errorf("temperature source = %q", rep.Sources.Temperature)
	}
	latest, _ := rep.Latest()
	if latest.WaterTemperature == nil || latest.WaterTemperature.Value != 24.5 {
		t.Errorf("water temperature = %+v", latest.WaterTemperature)
	}
	if latest.AirTemperature != nil {
		t.Errorf("air temperature = %+v, wanted absent", latest.AirTemperature)
	}
	if primary.calls != 1 || backup.calls != 1 {
		t.Errorf("calls primary=%d backup=%d", primary.calls, backup.calls)
	}
}

func TestBuildReportTemperatureWithoutValuesFallsThrough(t *testing.T) {
	swell := &fakeSeries{id: ProviderSurfline, res: OK(series(ProviderSurfline, 1, 1.0, 0))}
	empty := &fakeTemperature{id: ProviderStormglass, res: OK(Temperature{})}
	backup := &fakeTemperature{id: ProviderOpenMeteo, res: OK(Temperature{Air: Measure(20, ProviderOpenMeteo)})}

	s := newTestService(t, Providers{
		Swell:       []SeriesProvider{swell},
		Temperature: []TemperatureProvider{empty, backup},
	})

	rep, err := s.BuildReport(context.Background(), testSpot)
	if err != nil {
		t.Fatalf("BuildReport: %v", err)
	}
	if rep.Sources.Temperature != ProviderOpenMeteo {
		t.Errorf("temperature source = %q", rep.Sources.Temperature)
	}
}

func TestBuildReportTidesFromExtremes(t *testing.T) {
	swell := &fakeSeries{id: ProviderStormglass, res: OK(series(ProviderStormglass, 1, 1.0, 0))}
	extremes := &fakeExtremes{res: OK([]tides.Sample{
		{Time: t0.Add(-2 * time.Hour), Height: 0.9, Kind: tides.High},
		{Time: t0.Add(4 * time.Hour), Height: 0.1, Kind: tides.Low},
		{Time: t0.Add(10 * time.Hour), Height: 1.0, Kind: tides.High},
	})}
	noaa := &fakeTideSeries{}

	s := newTestService(t, Providers{
		Swell:        []SeriesProvider{swell},
		TideExtremes: extremes,
		TideSeries:   noaa,
	})

	rep, err := s.BuildReport(context.Background(), testSpot)
	if err != nil {
		t.Fatalf("BuildReport: %v", err)
	}
	if noaa.calls != 0 {
		t.Errorf("noaa consulted with both highs and lows present")
	}
	if len(rep.HighTides) != 1 || !rep.HighTides[0].Time.Equal(t0.Add(10*time.Hour)) {
		t.Errorf("highs = %v, wanted only the future high", rep.HighTides)
	}
	if rep.Sources.Tide != ProviderStormglass {
		t.Errorf("tide source = %q", rep.Sources.Tide)
	}
	if len(rep.TideCurve) != 2 {
		t.Errorf("tide curve has %d segments, wanted 2", len(rep.TideCurve))
	}
}

func TestBuildReportTideCurveCoversNow(t *testing.T) {
	swell := &fakeSeries{id: ProviderStormglass, res: OK(series(ProviderStormglass, 1, 1.0, 0))}
	extremes := &fakeExtremes{res: OK([]tides.Sample{
		{Time: t0.Add(-8 * time.Hour), Height: 0.2, Kind: tides.Low},
		{Time: t0.Add(-2 * time.Hour), Height: 0.9, Kind: tides.High},
		{Time: t0.Add(4 * time.Hour), Height: 0.1, Kind: tides.Low},
	})}

	s := newTestService(t, Providers{
		Swell:        []SeriesProvider{swell},
		TideExtremes: extremes,
	})

	rep, err := s.BuildReport(context.Background(), testSpot)
	if err != nil {
		t.Fatalf("BuildReport: %v", err)
	}

	if want := t0.Add(-12 * time.Hour); !extremes.window.Start.Equal(want) {
		t.Errorf("tide window starts %s, wanted %s", extremes.window.Start, want)
	}
	if len(rep.HighTides) != 0 || len(rep.LowTides) != 1 {
		t.Errorf("highs = %v, lows = %v, wanted only the future low", rep.HighTides, rep.LowTides)
	}
	if !rep.TideCurve[0].Start.Equal(t0.Add(-2 * time.Hour)) {
		t.Errorf("curve starts %s, wanted the last high before now", rep.TideCurve[0].Start)
	}
	h := rep.TideCurve.Eval(t0)
	if math.IsNaN(h) || h <= 0.1 || h >= 0.9 {
		t.Errorf("tide height now = %v, wanted between the high and the low", h)
	}
	if rising, ok := rep.TideCurve.Rising(t0); !ok || rising {
		t.Errorf("Rising(now) = %v, %v, wanted falling", rising, ok)
	}
}

func TestBuildReportTidesFallBackToStation(t *testing.T) {
	swell := &fakeSeries{id: ProviderStormglass, res: OK(series(ProviderStormglass, 1, 1.0, 0))}
	// Highs only from the primary provider.
	extremes := &fakeExtremes{res: OK([]tides.Sample{
		{Time: t0.Add(3 * time.Hour), Height: 1.1, Kind: tides.High},
	})}
	var hourly []tides.Sample
	for i, h := range []float64{1.0, 2.0, 3.0, 2.0, 1.0, 0.0, 1.0} {
		hourly = append(hourly, tides.Sample{Time: t0.Add(time.Duration(i+1) * time.Hour), Height: h})
	}
	noaa := &fakeTideSeries{res: OK(hourly)}

	s := newTestService(t, Providers{
		Swell:        []SeriesProvider{swell},
		TideExtremes: extremes,
		TideSeries:   noaa,
	})

	rep, err := s.BuildReport(context.Background(), testSpot)
	if err != nil {
		t.Fatalf("BuildReport: %v", err)
	}
	if noaa.station.ID != "8721604" {
		t.Errorf("queried station %s, wanted 8721604", noaa.station.ID)
	}
	if len(rep.HighTides) != 1 || rep.HighTides[0].Height != 1.1 {
		t.Errorf("highs = %v, wanted the primary provider's high kept", rep.HighTides)
	}
	if len(rep.LowTides) != 1 || rep.LowTides[0].Height != 0.0 {
		t.Errorf("lows = %v, wanted the inferred low", rep.LowTides)
	}
	if rep.TideStation == nil || rep.TideStation.ID != "8721604" {
		t.Errorf("tide station = %+v", rep.TideStation)
	}
	if rep.Sources.Tide != ProviderStormglass {
		t.Errorf("tide source = %q, wanted primary kept", rep.Sources.Tide)
	}
}

func TestBuildReportRating(t *testing.T) {
	swell := &fakeSeries{id: ProviderStormglass, res: OK(series(ProviderStormglass, 1, 1.0, 0))}
	rating := &fakeRating{res: OK(Rating{Key: "FAIR_TO_GOOD", Value: 3})}

	s := newTestService(t, Providers{Swell: []SeriesProvider{swell}, Rating: rating})

	rep, err := s.BuildReport(context.Background(), testSpot)
	if err != nil {
		t.Fatalf("BuildReport: %v", err)
	}
	if rep.Rating == nil || rep.Rating.Value != 3 || rep.Sources.Rating != ProviderSurfline {
		t.Errorf("rating = %+v, sources = %+v", rep.Rating, rep.Sources)
	}

	noSpot := testSpot
	noSpot.SpotID = ""
	rating.calls = 0
	if _, err := s.BuildReport(context.Background(), noSpot); err != nil {
		t.Fatalf("BuildReport: %v", err)
	}
	if rating.calls != 0 {
		t.Errorf("rating fetched without a spot id")
	}
}
