package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/i474232898/surf-report/internal/marine"
	"github.com/i474232898/surf-report/internal/metrics"
)

const userAgent = "surf-report/1.0"

// HTTPClientConfig bundles the HTTP client and logger shared by adapters.
type HTTPClientConfig struct {
	Client *http.Client
	Logger *zap.Logger
}

var (
	errRateLimited  = errors.New("rate limited")
	errServerError  = errors.New("server error")
	errUnexpected   = errors.New("unexpected status code")
	errCircuitOpen  = errors.New("circuit breaker open")
	errNoHTTPClient = errors.New("http client not configured")
)

func newCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= 3
		},
	})
}

// breakerSet holds one circuit breaker per report category and endpoint of a
// provider, so a category's single attempt is never short-circuited by
// failures of another category or endpoint.
type breakerSet struct {
	provider marine.ProviderID

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker
}

func newBreakerSet(provider marine.ProviderID) *breakerSet {
	return &breakerSet{
		provider: provider,
		breakers: make(map[string]*gobreaker.CircuitBreaker),
	}
}

// get returns the breaker for the category on ctx and endpoint.
func (b *breakerSet) get(ctx context.Context, endpoint string) *gobreaker.CircuitBreaker {
	key := marine.CategoryFromContext(ctx) + " " + endpoint

	b.mu.Lock()
	defer b.mu.Unlock()

	cb, ok := b.breakers[key]
	if !ok {
		cb = newCircuitBreaker(string(b.provider))
		b.breakers[key] = cb
	}
	return cb
}

func (c HTTPClientConfig) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

// doRequest executes a single HTTP request through the circuit breaker. There
// are no retries: a failed call is reported and the caller moves on. Every
// error wraps marine.ErrTransport.
func doRequest(
	ctx context.Context,
	cfg HTTPClientConfig,
	cb *gobreaker.CircuitBreaker,
	buildRequest func() (*http.Request, error),
) (*http.Response, error) {
	if cfg.Client == nil {
		return nil, fmt.Errorf("%w: %v", marine.ErrTransport, errNoHTTPClient)
	}

	req, err := buildRequest()
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %v", marine.ErrTransport, err)
	}
	req = req.WithContext(ctx)
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	result, err := cb.Execute(func() (interface{}, error) {
		resp, execErr := cfg.Client.Do(req)
		if execErr != nil {
			return nil, execErr
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			drain(resp)
			switch {
			case resp.StatusCode == http.StatusTooManyRequests:
				return nil, errRateLimited
			case resp.StatusCode >= 500:
				return nil, fmt.Errorf("%w: %d", errServerError, resp.StatusCode)
			default:
				return nil, fmt.Errorf("%w: %d", errUnexpected, resp.StatusCode)
			}
		}
		return resp, nil
	})
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.ObserveProviderRequest(cb.Name(), outcome, time.Since(start).Seconds())

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %w: %v", marine.ErrTransport, errCircuitOpen, err)
		}
		return nil, fmt.Errorf("%w: %v", marine.ErrTransport, err)
	}

	resp, ok := result.(*http.Response)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected result type from circuit breaker", marine.ErrTransport)
	}
	return resp, nil
}

// getJSON performs the request and decodes the body into v.
func getJSON(
	ctx context.Context,
	cfg HTTPClientConfig,
	cb *gobreaker.CircuitBreaker,
	buildRequest func() (*http.Request, error),
	v any,
) error {
	resp, err := doRequest(ctx, cfg, cb, buildRequest)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: decoding %s response: %v", marine.ErrResponseFormat, cb.Name(), err)
	}
	return nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	resp.Body.Close()
}

// conclude converts an adapter's return values into a Result, logging the
// reason when there is no data.
func conclude[T any](log *zap.Logger, provider marine.ProviderID, op string, data T, err error) marine.Result[T] {
	res := marine.Conclude(data, err)
	switch res.Outcome {
	case marine.OutcomeFailure:
		log.Warn("provider request failed",
			zap.String("provider", string(provider)),
			zap.String("op", op),
			zap.Error(err),
		)
	case marine.OutcomeNoData:
		log.Info("provider returned no data",
			zap.String("provider", string(provider)),
			zap.String("op", op),
			zap.Error(err),
		)
	}
	return res
}

// recordsByTime collects records keyed by their canonical timestamp while
// keeping the order in which keys were first seen.
type recordsByTime struct {
	index   map[string]int
	records []marine.HourlyRecord
}

func newRecordsByTime(n int) *recordsByTime {
	return &recordsByTime{index: make(map[string]int, n), records: make([]marine.HourlyRecord, 0, n)}
}

func (r *recordsByTime) at(t time.Time) *marine.HourlyRecord {
	rec := marine.HourlyRecord{Time: t.UTC()}
	k := rec.Key()
	if i, ok := r.index[k]; ok {
		return &r.records[i]
	}
	r.index[k] = len(r.records)
	r.records = append(r.records, rec)
	return &r.records[len(r.records)-1]
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
