// Package sun computes sunrise and sunset at a spot.
package sun

import (
	"time"

	"github.com/keep94/sunrise"
)

// Events holds the sunrise and sunset nearest to a reference time.
type Events struct {
	Sunrise time.Time `json:"sunrise"`
	Sunset  time.Time `json:"sunset"`
}

// Around returns the sun events for lat/lng around t. The sunrise is no
// earlier than 24 hours before t and the sunset no later than 24 hours after.
func Around(lat, lng float64, t time.Time) Events {
	var s sunrise.Sunrise
	s.Around(lat, lng, t)
	return Events{Sunrise: s.Sunrise(), Sunset: s.Sunset()}
}
