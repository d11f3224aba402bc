package report

import (
	"time"

	"github.com/i474232898/surf-report/internal/marine"
)

const offsetTolerance = 30 * time.Minute

// Ago returns the first record, in chronological order, whose distance before
// the most recent record is within half an hour of offset.
func Ago(hours []marine.HourlyRecord, offset time.Duration) (marine.HourlyRecord, bool) {
	if len(hours) == 0 {
		return marine.HourlyRecord{}, false
	}
	ref := hours[len(hours)-1].Time
	for _, h := range hours {
		d := ref.Sub(h.Time)
		if d >= offset-offsetTolerance && d <= offset+offsetTolerance {
			return h, true
		}
	}
	return marine.HourlyRecord{}, false
}
