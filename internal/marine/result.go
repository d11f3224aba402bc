package marine

import "errors"

// Outcome classifies what a provider returned.
type Outcome int

const (
	OutcomeFailure Outcome = iota
	OutcomeNoData
	OutcomeData
)

func (o Outcome) String() string {
	switch o {
	case OutcomeData:
		return "data"
	case OutcomeNoData:
		return "no-data"
	default:
		return "failure"
	}
}

var (
	// ErrTransport covers network errors, timeouts, non-2xx responses and an
	// open circuit breaker.
	ErrTransport = errors.New("transport failure")
	// ErrResponseFormat means the response could not be decoded or lacked
	// required fields.
	ErrResponseFormat = errors.New("unexpected response format")
	// ErrNoData means the provider answered but had nothing for the window.
	ErrNoData = errors.New("no data for requested window")
	// ErrNoSwell is returned by BuildReport when no provider supplied swell.
	ErrNoSwell = errors.New("no swell data available from any provider")
)

// Result is what an adapter hands back to the reconciler instead of an error.
type Result[T any] struct {
	Data    T
	Outcome Outcome
	Err     error
}

// OK wraps data.
func OK[T any](data T) Result[T] {
	return Result[T]{Data: data, Outcome: OutcomeData}
}

// NoData reports an empty but otherwise successful response.
func NoData[T any](reason error) Result[T] {
	return Result[T]{Outcome: OutcomeNoData, Err: reason}
}

// Failed reports a provider failure.
func Failed[T any](err error) Result[T] {
	return Result[T]{Outcome: OutcomeFailure, Err: err}
}

// Conclude turns an adapter's (data, err) pair into a Result: errors wrapping
// ErrNoData become no-data, any other error is a failure.
func Conclude[T any](data T, err error) Result[T] {
	switch {
	case err == nil:
		return OK(data)
	case errors.Is(err, ErrNoData):
		return NoData[T](err)
	default:
		return Failed[T](err)
	}
}

// HasData reports whether the result carries usable data.
func (r Result[T]) HasData() bool {
	return r.Outcome == OutcomeData
}
