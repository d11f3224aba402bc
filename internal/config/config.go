package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelvins/geocoder"
	"github.com/spf13/viper"

	"github.com/i474232898/surf-report/internal/marine"
)

// Default spot: Ocean Avenue, Melbourne Beach, FL.
const (
	DefaultSpotName      = "Ocean Avenue, Melbourne Beach, FL"
	DefaultLatitude      = 28.04085
	DefaultLongitude     = -80.33260
	DefaultSurflineSpot  = "5842041f4e65fad6a7708e1a"
	defaultHTTPTimeout   = "10s"
	defaultWatchInterval = "1h"
)

var validate = validator.New()

type AppConfig struct {
	Spot SpotConfig

	StormglassAPIKey string

	// HTTPTimeout bounds each provider call.
	HTTPTimeout time.Duration `validate:"gt=0"`

	// DisplayTimezone is used for times in the rendered report.
	DisplayTimezone *time.Location `validate:"required"`

	LogLevel string `validate:"oneof=debug info warn error"`

	// WatchInterval controls how often the watch command re-renders.
	WatchInterval time.Duration `validate:"gt=0"`

	Port string `validate:"required,numeric"`

	// DotEnvLoaded reports whether a .env file was read.
	DotEnvLoaded bool `validate:"-"`
}

// SpotConfig describes the surf spot reports are built for.
type SpotConfig struct {
	Name       string  `validate:"required"`
	Latitude   float64 `validate:"gte=-90,lte=90"`
	Longitude  float64 `validate:"gte=-180,lte=180"`
	SurflineID string
	// Geocoded is true when the coordinates came from the address lookup.
	Geocoded bool
}

// Location converts the spot to the reconciler's location type.
func (s SpotConfig) Location() marine.Location {
	return marine.Location{
		Name:      s.Name,
		Latitude:  s.Latitude,
		Longitude: s.Longitude,
		SpotID:    s.SurflineID,
	}
}

// geocode resolves an address to coordinates. Replaced in tests.
var geocode = func(apiKey string, addr geocoder.Address) (float64, float64, error) {
	geocoder.ApiKey = apiKey
	loc, err := geocoder.Geocoding(addr)
	if err != nil {
		return 0, 0, err
	}
	return loc.Latitude, loc.Longitude, nil
}

var errGeocode = errors.New("geocoding spot address")

// Load reads configuration from .env, the environment and an optional YAML
// file named by SURF_REPORT_CONFIG, with defaults for everything.
func Load() (*AppConfig, error) {
	loaded := godotenv.Load() == nil

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("SPOT_NAME", DefaultSpotName)
	v.SetDefault("SURFLINE_SPOT_ID", DefaultSurflineSpot)
	v.SetDefault("HTTP_TIMEOUT", defaultHTTPTimeout)
	v.SetDefault("DISPLAY_TIMEZONE", "UTC")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("WATCH_INTERVAL", defaultWatchInterval)
	v.SetDefault("PORT", "8080")

	if path := v.GetString("SURF_REPORT_CONFIG"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	cfg, err := fromViper(v)
	if err != nil {
		return nil, err
	}
	cfg.DotEnvLoaded = loaded
	return cfg, nil
}

func fromViper(v *viper.Viper) (*AppConfig, error) {
	cfg := &AppConfig{
		StormglassAPIKey: v.GetString("STORMGLASS_API_KEY"),
		LogLevel:         v.GetString("LOG_LEVEL"),
		Port:             v.GetString("PORT"),
	}

	var err error
	if cfg.HTTPTimeout, err = time.ParseDuration(v.GetString("HTTP_TIMEOUT")); err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	if cfg.WatchInterval, err = time.ParseDuration(v.GetString("WATCH_INTERVAL")); err != nil {
		return nil, fmt.Errorf("invalid WATCH_INTERVAL: %w", err)
	}
	if cfg.DisplayTimezone, err = time.LoadLocation(v.GetString("DISPLAY_TIMEZONE")); err != nil {
		return nil, fmt.Errorf("invalid DISPLAY_TIMEZONE: %w", err)
	}

	if cfg.Spot, err = loadSpot(v); err != nil {
		return nil, err
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// loadSpot uses explicit coordinates when both are set, then a geocoded
// address when one is configured, then the default spot.
func loadSpot(v *viper.Viper) (SpotConfig, error) {
	spot := SpotConfig{
		Name:       v.GetString("SPOT_NAME"),
		SurflineID: v.GetString("SURFLINE_SPOT_ID"),
		Latitude:   DefaultLatitude,
		Longitude:  DefaultLongitude,
	}

	switch {
	case v.IsSet("SPOT_LATITUDE") && v.IsSet("SPOT_LONGITUDE"):
		spot.Latitude = v.GetFloat64("SPOT_LATITUDE")
		spot.Longitude = v.GetFloat64("SPOT_LONGITUDE")
	case v.GetString("SPOT_CITY") != "":
		addr := geocoder.Address{
			City:    v.GetString("SPOT_CITY"),
			State:   v.GetString("SPOT_STATE"),
			Country: v.GetString("SPOT_COUNTRY"),
		}
		lat, lng, err := geocode(v.GetString("GEOCODER_API_KEY"), addr)
		if err != nil {
			return SpotConfig{}, fmt.Errorf("%w %s: %v", errGeocode, addr.City, err)
		}
		spot.Latitude, spot.Longitude = lat, lng
		spot.Geocoded = true
	}
	return spot, nil
}
