package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/i474232898/surf-report/internal/marine"
	"github.com/i474232898/surf-report/internal/tides"
)

const stormglassHours = `{
  "hours": [
    {
      "time": "2025-03-01T11:00:00+00:00",
      "swellHeight": {"noaa": 1.1, "sg": 1.4},
      "swellPeriod": {"sg": 9.0},
      "windSpeed": {"noaa": null, "sg": 4.2}
    },
    {
      "time": "2025-03-01T12:00:00+00:00",
      "swellHeight": {"noaa": 1.3, "sg": 1.6},
      "swellDirection": {"noaa": 95.0},
      "swellPeriod": {"noaa": 10.5},
      "secondarySwellHeight": {"noaa": 0.4},
      "windSpeed": {"noaa": 5.1},
      "windDirection": {"noaa": 200},
      "waterTemperature": {"sg": 23.0},
      "seaLevel": {"sg": 0.12}
    }
  ],
  "meta": {"cost": 1}
}`

func TestStormglassFetchHourly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/weather/point" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "secret" {
			t.Errorf("Authorization = %q", got)
		}
		if got := r.URL.Query().Get("source"); got != "noaa,sg" {
			t.Errorf("source = %q", got)
		}
		w.Write([]byte(stormglassHours))
	}))
	defer srv.Close()

	p := NewStormglassProvider("secret", testConfig(t, srv))
	p.baseURL = srv.URL

	res := p.FetchHourly(context.Background(), melbourneBeach, marine.Window{})
	if !res.HasData() {
		t.Fatalf("outcome = %s, err = %v", res.Outcome, res.Err)
	}

	sg := marine.ProviderStormglass
	want := []marine.HourlyRecord{{
		Time:        time.Date(2025, time.March, 1, 11, 0, 0, 0, time.UTC),
		SwellHeight: marine.Measure(1.1, sg),
		SwellPeriod: marine.Measure(9.0, sg),
		WindSpeed:   marine.Measure(4.2, sg),
	}, {
		Time:                 time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC),
		SwellHeight:          marine.Measure(1.3, sg),
		SwellDirection:       marine.Measure(95.0, sg),
		SwellPeriod:          marine.Measure(10.5, sg),
		SecondarySwellHeight: marine.Measure(0.4, sg),
		WindSpeed:            marine.Measure(5.1, sg),
		WindDirection:        marine.Measure(200, sg),
		WaterTemperature:     marine.Measure(23.0, sg),
		SeaLevel:             marine.Measure(0.12, sg),
	}}
	if diff := cmp.Diff(res.Data, want); diff != "" {
		t.Errorf("FetchHourly (-got,+want):\n%s", diff)
	}
}

func TestStormglassFetchTemperature(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("params"); got != "waterTemperature,airTemperature" {
			t.Errorf("params = %q", got)
		}
		w.Write([]byte(`{"hours":[
			{"time":"2025-03-01T11:00:00+00:00","waterTemperature":{"noaa":22.0},"airTemperature":{"noaa":19.0}},
			{"time":"2025-03-01T12:00:00+00:00","waterTemperature":{"noaa":22.5},"airTemperature":{"sg":20.0}}
		]}`))
	}))
	defer srv.Close()

	p := NewStormglassProvider("secret", testConfig(t, srv))
	p.baseURL = srv.URL

	res := p.FetchTemperature(context.Background(), melbourneBeach, marine.Window{})
	if !res.HasData() {
		t.Fatalf("outcome = %s, err = %v", res.Outcome, res.Err)
	}
	if res.Data.Water.Value != 22.5 || res.Data.Air.Value != 20.0 {
		t.Errorf("temperature = %+v / %+v, wanted the latest hour", res.Data.Water, res.Data.Air)
	}
}

func TestStormglassTideExtremes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tide/extremes/point" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{"data":[
			{"height":0.61,"time":"2025-03-01T14:02:00+00:00","type":"high"},
			{"height":-0.55,"time":"2025-03-01T20:15:00+00:00","type":"low"}
		]}`))
	}))
	defer srv.Close()

	p := NewStormglassProvider("secret", testConfig(t, srv))
	p.baseURL = srv.URL

	res := p.FetchTideExtremes(context.Background(), melbourneBeach, marine.Window{})
	want := []tides.Sample{
		{Time: time.Date(2025, time.March, 1, 14, 2, 0, 0, time.UTC), Height: 0.61, Kind: tides.High},
		{Time: time.Date(2025, time.March, 1, 20, 15, 0, 0, time.UTC), Height: -0.55, Kind: tides.Low},
	}
	if diff := cmp.Diff(res.Data, want); diff != "" {
		t.Errorf("FetchTideExtremes (-got,+want):\n%s", diff)
	}
}

func TestStormglassOutcomes(t *testing.T) {
	t.Run("missing key", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Errorf("request sent without api key")
		}))
		defer srv.Close()

		p := NewStormglassProvider("", testConfig(t, srv))
		p.baseURL = srv.URL

		res := p.FetchHourly(context.Background(), melbourneBeach, marine.Window{})
		if res.Outcome != marine.OutcomeFailure || !errors.Is(res.Err, errMissingAPIKey) {
			t.Errorf("outcome = %s, err = %v", res.Outcome, res.Err)
		}
	})

	t.Run("empty hours", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"hours":[]}`))
		}))
		defer srv.Close()

		p := NewStormglassProvider("secret", testConfig(t, srv))
		p.baseURL = srv.URL

		res := p.FetchHourly(context.Background(), melbourneBeach, marine.Window{})
		if res.Outcome != marine.OutcomeNoData {
			t.Errorf("outcome = %s, wanted no-data", res.Outcome)
		}
	})

	t.Run("quota exceeded", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusPaymentRequired)
		}))
		defer srv.Close()

		p := NewStormglassProvider("secret", testConfig(t, srv))
		p.baseURL = srv.URL

		res := p.FetchHourly(context.Background(), melbourneBeach, marine.Window{})
		if res.Outcome != marine.OutcomeFailure || !errors.Is(res.Err, marine.ErrTransport) {
			t.Errorf("outcome = %s, err = %v", res.Outcome, res.Err)
		}
	})
}
