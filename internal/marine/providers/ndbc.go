package providers

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/i474232898/surf-report/internal/marine"
	"github.com/i474232898/surf-report/internal/stations"
)

// Columns of the realtime2 standard meteorological file:
// YY MM DD hh mm WDIR WSPD GST WVHT DPD APD MWD PRES ATMP WTMP ...
const (
	ndbcColWindDir   = 5
	ndbcColWindSpeed = 6
	ndbcMinColumns   = 7
	ndbcMissing      = "MM"
)

// NDBCProvider reads the latest observation of a wind buoy.
type NDBCProvider struct {
	baseURL string
	httpCfg HTTPClientConfig
	circuit *breakerSet
}

func NewNDBCProvider(cfg HTTPClientConfig) *NDBCProvider {
	return &NDBCProvider{
		baseURL: "https://www.ndbc.noaa.gov/data/realtime2",
		httpCfg: cfg,
		circuit: newBreakerSet(marine.ProviderNDBC),
	}
}

func (p *NDBCProvider) ID() marine.ProviderID {
	return marine.ProviderNDBC
}

func (p *NDBCProvider) FetchLatestWind(ctx context.Context, buoy stations.Station) marine.Result[marine.WindObservation] {
	obs, err := p.fetchLatestWind(ctx, buoy)
	return conclude(p.httpCfg.logger(), p.ID(), "latest_wind", obs, err)
}

func (p *NDBCProvider) fetchLatestWind(ctx context.Context, buoy stations.Station) (marine.WindObservation, error) {
	resp, err := doRequest(ctx, p.httpCfg, p.circuit.get(ctx, "realtime2"), func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, fmt.Sprintf("%s/%s.txt", p.baseURL, buoy.ID), nil)
	})
	if err != nil {
		return marine.WindObservation{}, err
	}
	defer resp.Body.Close()

	// Observations are newest first: the first data line is the latest.
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		return parseNDBCWind(line)
	}
	if err := scanner.Err(); err != nil {
		return marine.WindObservation{}, fmt.Errorf("%w: reading ndbc %s: %v", marine.ErrTransport, buoy.ID, err)
	}
	return marine.WindObservation{}, fmt.Errorf("%w: ndbc %s has no observations", marine.ErrNoData, buoy.ID)
}

func parseNDBCWind(line string) (marine.WindObservation, error) {
	fields := strings.Fields(line)
	if len(fields) < ndbcMinColumns {
		return marine.WindObservation{}, fmt.Errorf("%w: ndbc line %q has %d columns", marine.ErrResponseFormat, line, len(fields))
	}

	ts, err := time.ParseInLocation("2006 01 02 15 04", strings.Join(fields[:5], " "), time.UTC)
	if err != nil {
		return marine.WindObservation{}, fmt.Errorf("%w: ndbc time: %v", marine.ErrResponseFormat, err)
	}

	obs := marine.WindObservation{Time: ts}
	if obs.Direction, err = ndbcValue(fields[ndbcColWindDir]); err != nil {
		return marine.WindObservation{}, err
	}
	if obs.Speed, err = ndbcValue(fields[ndbcColWindSpeed]); err != nil {
		return marine.WindObservation{}, err
	}
	if obs.Speed == nil && obs.Direction == nil {
		return marine.WindObservation{}, fmt.Errorf("%w: ndbc wind missing at %s", marine.ErrNoData, ts.Format(time.RFC3339))
	}
	return obs, nil
}

func ndbcValue(s string) (*marine.Measurement, error) {
	if s == ndbcMissing {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: ndbc value %q: %v", marine.ErrResponseFormat, s, err)
	}
	return marine.Measure(v, marine.ProviderNDBC), nil
}
