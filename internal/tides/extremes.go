package tides

import (
	"sort"
	"time"
)

// Classify returns every extreme in a chronological series, in time order.
//
// When every sample carries a provider tag the series is partitioned by tag
// and heights are ignored. Otherwise all tags are ignored and extremes are
// inferred: a sample is a high when it is above both neighbors and a low when
// it is below both. The first and last samples have only one neighbor and are
// never classified. Plateaus are not detected and a noisy hourly series can
// yield more than one event per tide.
func Classify(samples []Sample) []Event {
	tagged := len(samples) > 0
	for _, s := range samples {
		if s.Kind == Untagged {
			tagged = false
			break
		}
	}

	var events []Event
	for i, s := range samples {
		kind := s.Kind
		if !tagged {
			kind = localExtremum(samples, i)
		}
		if kind == Untagged {
			continue
		}
		events = append(events, Event{Time: s.Time, Height: s.Height, Kind: kind})
	}
	sortEvents(events)
	return events
}

// Extract splits the extremes of samples into highs and lows that occur
// strictly after now. See Classify for how extremes are found.
func Extract(samples []Sample, now time.Time) (highs, lows []Event) {
	for _, ev := range Classify(samples) {
		if !ev.Time.After(now) {
			continue
		}
		switch ev.Kind {
		case High:
			highs = append(highs, ev)
		case Low:
			lows = append(lows, ev)
		}
	}
	return highs, lows
}

// LastAtOrBefore returns the latest event of a chronological list that is not
// after t.
func LastAtOrBefore(events []Event, t time.Time) (Event, bool) {
	for i := len(events) - 1; i >= 0; i-- {
		if !events[i].Time.After(t) {
			return events[i], true
		}
	}
	return Event{}, false
}

func localExtremum(samples []Sample, i int) Kind {
	if i <= 0 || i >= len(samples)-1 {
		return Untagged
	}
	prev, cur, next := samples[i-1].Height, samples[i].Height, samples[i+1].Height
	switch {
	case cur > prev && cur > next:
		return High
	case cur < prev && cur < next:
		return Low
	}
	return Untagged
}

// Merge combines event lists into one chronological list.
func Merge(lists ...[]Event) []Event {
	var all []Event
	for _, l := range lists {
		all = append(all, l...)
	}
	sortEvents(all)
	return all
}

func sortEvents(evs []Event) {
	sort.SliceStable(evs, func(i, j int) bool {
		return evs[i].Time.Before(evs[j].Time)
	})
}
