package report

import (
	"math"
	"strings"
)

const (
	feetPerMeter = 3.28084
	mphPerMPS    = 2.237
)

// MetersToFeet converts a height in meters to feet.
func MetersToFeet(m float64) float64 {
	return m * feetPerMeter
}

// MPSToMPH converts a speed in m/s to miles per hour.
func MPSToMPH(v float64) float64 {
	return v * mphPerMPS
}

// CelsiusToFahrenheit converts a temperature.
func CelsiusToFahrenheit(c float64) float64 {
	return c*9/5 + 32
}

var compass = [...]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// Cardinal maps a bearing in degrees to an 8-point compass direction. Exact
// half-way bearings round to the even sector.
func Cardinal(deg float64) string {
	i := int(math.RoundToEven(deg/45)) % len(compass)
	if i < 0 {
		i += len(compass)
	}
	return compass[i]
}

// ratingLabel turns a key like FAIR_TO_GOOD into "Fair To Good".
func ratingLabel(key string) string {
	if key == "" {
		return "N/A"
	}
	words := strings.Split(strings.ToLower(key), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
