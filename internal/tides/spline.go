package tides

import (
	"math"
	"sort"
	"time"
)

// Curve links one tide event to the next. Its slope is zero at Start and End
// and it is undefined outside them.
type Curve struct {
	Start, End time.Time
	From, To   float64
}

// Spline is a chronological chain of curves.
type Spline []Curve

// CurvesBetween links consecutive events with curves. Events must be in
// chronological order; pairs that do not move forward in time are skipped.
func CurvesBetween(events []Event) Spline {
	if len(events) < 2 {
		return nil
	}
	curves := make(Spline, 0, len(events)-1)
	for i := 0; i+1 < len(events); i++ {
		a, b := events[i], events[i+1]
		if !b.Time.After(a.Time) {
			continue
		}
		curves = append(curves, Curve{Start: a.Time, End: b.Time, From: a.Height, To: b.Height})
	}
	return curves
}

// Eval returns the height at t, or NaN when t is outside the spline.
func (s Spline) Eval(t time.Time) float64 {
	c, ok := s.at(t)
	if !ok {
		return math.NaN()
	}
	return c.Eval(t)
}

// Rising reports whether the water is going up at t. ok is false outside the
// spline.
func (s Spline) Rising(t time.Time) (rising, ok bool) {
	c, ok := s.at(t)
	if !ok {
		return false, false
	}
	return c.To > c.From, true
}

// Discrete samples n evenly spaced heights across the whole spline.
func Discrete(s Spline, n int) []float64 {
	if len(s) < 1 || n < 2 {
		return nil
	}
	start := s[0].Start
	end := s[len(s)-1].End
	step := time.Duration(float64(end.Sub(start)) / float64(n-1))

	result := make([]float64, n)
	for i := range result {
		result[i] = s.Eval(start.Add(step * time.Duration(i)))
	}
	return result
}

func (s Spline) at(t time.Time) (Curve, bool) {
	i := sort.Search(len(s), func(i int) bool {
		return !s[i].End.Before(t)
	})
	if i == len(s) || t.Before(s[i].Start) {
		return Curve{}, false
	}
	return s[i], true
}

// Eval returns the height at t, or NaN when t is outside the curve.
func (c Curve) Eval(t time.Time) float64 {
	if t.Before(c.Start) || t.After(c.End) {
		return math.NaN()
	}
	// Normalize to [0,1] to keep the cubic well conditioned.
	u := float64(t.Sub(c.Start)) / float64(c.End.Sub(c.Start))
	return c.From + (c.To-c.From)*(3*u*u-2*u*u*u)
}
