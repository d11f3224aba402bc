package marine

import (
	"sort"
)

// Field selects one measurement of an HourlyRecord.
type Field int

const (
	FieldSwellHeight Field = iota
	FieldSwellDirection
	FieldSwellPeriod
	FieldSecondarySwellHeight
	FieldSecondarySwellDirection
	FieldSecondarySwellPeriod
	FieldWindSpeed
	FieldWindDirection
	FieldWaterTemperature
	FieldAirTemperature
	FieldSeaLevel
)

// WindFields are overlaid when wind resolves to a different provider than swell.
var WindFields = []Field{FieldWindSpeed, FieldWindDirection}

func (r *HourlyRecord) slot(f Field) **Measurement {
	switch f {
	case FieldSwellHeight:
		return &r.SwellHeight
	case FieldSwellDirection:
		return &r.SwellDirection
	case FieldSwellPeriod:
		return &r.SwellPeriod
	case FieldSecondarySwellHeight:
		return &r.SecondarySwellHeight
	case FieldSecondarySwellDirection:
		return &r.SecondarySwellDirection
	case FieldSecondarySwellPeriod:
		return &r.SecondarySwellPeriod
	case FieldWindSpeed:
		return &r.WindSpeed
	case FieldWindDirection:
		return &r.WindDirection
	case FieldWaterTemperature:
		return &r.WaterTemperature
	case FieldAirTemperature:
		return &r.AirTemperature
	case FieldSeaLevel:
		return &r.SeaLevel
	}
	return nil
}

// Get returns the measurement held in f, or nil.
func (r *HourlyRecord) Get(f Field) *Measurement {
	if s := r.slot(f); s != nil {
		return *s
	}
	return nil
}

// Set stores m in f when m is present. It reports whether anything changed.
func (r *HourlyRecord) Set(f Field, m *Measurement) bool {
	s := r.slot(f)
	if s == nil || m == nil {
		return false
	}
	v := *m
	*s = &v
	return true
}

// Merge overlays the given fields of overlay onto base. Records are matched by
// Key; base records without a match keep their values and overlay records
// without a match are dropped. A present overlay field replaces the base
// field, an absent one never clears it. base is modified in place and
// returned.
func Merge(base, overlay []HourlyRecord, fields ...Field) []HourlyRecord {
	byKey := make(map[string]*HourlyRecord, len(overlay))
	for i := range overlay {
		byKey[overlay[i].Key()] = &overlay[i]
	}
	for i := range base {
		o, ok := byKey[base[i].Key()]
		if !ok {
			continue
		}
		for _, f := range fields {
			base[i].Set(f, o.Get(f))
		}
	}
	return base
}

// Clip returns the records of series inside w in chronological order.
func Clip(series []HourlyRecord, w Window) []HourlyRecord {
	out := make([]HourlyRecord, 0, len(series))
	for _, r := range series {
		if w.Contains(r.Time) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Time.Before(out[j].Time)
	})
	return out
}

func latest(series []HourlyRecord) *HourlyRecord {
	if len(series) == 0 {
		return nil
	}
	return &series[len(series)-1]
}
