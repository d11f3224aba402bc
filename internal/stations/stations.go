// Package stations holds the fixed reference tables of NOAA tide-prediction
// stations and NDBC wind buoys, and finds the nearest entry to a coordinate.
package stations

import (
	"math"
	"slices"
)

// Station is a tide station or buoy at a fixed position.
type Station struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Nearest returns the candidate closest to (lat, lng) using planar Euclidean
// distance on raw degrees. Ties go to the earlier candidate. ok is false when
// candidates is empty.
func Nearest(lat, lng float64, candidates []Station) (s Station, ok bool) {
	best := math.Inf(1)
	for _, c := range candidates {
		if d := Distance(lat, lng, c); d < best {
			best = d
			s = c
			ok = true
		}
	}
	return s, ok
}

// Distance is the planar distance in degrees between (lat, lng) and s.
// It is not a great-circle distance.
func Distance(lat, lng float64, s Station) float64 {
	return math.Hypot(lat-s.Latitude, lng-s.Longitude)
}

// TideStations returns a copy of the NOAA CO-OPS tide station table.
func TideStations() []Station {
	return slices.Clone(tideStations[:])
}

// WindBuoys returns a copy of the NDBC buoy table.
func WindBuoys() []Station {
	return slices.Clone(windBuoys[:])
}

var tideStations = [...]Station{
	{"8721604", "Trident Pier, Port Canaveral, FL", 28.4167, -80.5883},
	{"8723214", "Virginia Key, FL", 25.7317, -80.1617},
	{"8723970", "Vaca Key, FL", 24.7117, -81.1050},
	{"8724580", "Key West, FL", 24.5500, -81.8083},
	{"8725520", "Fort Myers, FL", 26.6467, -81.8717},
	{"8726384", "Naples, FL", 26.1317, -81.8083},
	{"8726520", "St. Petersburg, FL", 27.7600, -82.6267},
	{"8726724", "Clearwater Beach, FL", 27.9783, -82.8317},
	{"8729108", "Panama City, FL", 30.1533, -85.6667},
	{"8735180", "Dauphin Island, AL", 30.2500, -88.0750},
	{"8761305", "Pilottown, LA", 29.1783, -89.2583},
	{"8770475", "Port Aransas, TX", 27.8367, -97.0467},
	{"9410170", "San Diego, CA", 32.7150, -117.1733},
	{"9410840", "Santa Monica, CA", 34.0083, -118.5000},
	{"9413450", "Los Angeles, CA", 33.7383, -118.2733},
	{"9414750", "Santa Barbara, CA", 34.4067, -119.6917},
	{"9415144", "Port San Luis, CA", 35.1683, -120.7600},
	{"9416841", "Monterey, CA", 36.6050, -121.8883},
	{"9414290", "San Francisco, CA", 37.8067, -122.4650},
	{"9432780", "Astoria, OR", 46.2083, -123.7683},
	{"9447130", "Seattle, WA", 47.6067, -122.3383},
	{"8443970", "Boston, MA", 42.3533, -71.0500},
	{"8531680", "Sandy Hook, NJ", 40.4667, -74.0083},
	{"8518750", "The Battery, NY", 40.7000, -74.0167},
	{"8651370", "Duck, NC", 36.1833, -75.7467},
	{"8661070", "Charleston, SC", 32.7817, -79.9250},
	{"8670870", "Fort Pulaski, GA", 32.0333, -80.9017},
}

var windBuoys = [...]Station{
	{"41009", "CANAVERAL 20 NM East of Cape Canaveral, FL", 28.5, -80.18},
	{"41008", "GRAYS REEF 50 NM Southeast of Savannah, GA", 31.4, -80.87},
	{"41010", "12 NM East of Frying Pan Shoals, NC", 33.4, -77.5},
	{"41013", "Frying Pan Shoals, NC", 33.4, -77.5},
	{"41025", "Diamond Shoals, NC", 35.0, -75.4},
	{"44008", "Nantucket Sound, MA", 41.3, -70.2},
	{"44013", "Boston, MA", 42.3, -70.6},
	{"46042", "Monterey Bay, CA", 36.8, -122.0},
	{"46026", "San Francisco, CA", 37.8, -122.8},
	{"46059", "Santa Monica Basin, CA", 33.7, -118.4},
	{"46086", "San Pedro, CA", 33.7, -118.2},
	{"46214", "Half Moon Bay, CA", 37.4, -122.9},
}
