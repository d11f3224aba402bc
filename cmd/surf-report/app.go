package main

import (
	"fmt"
	"net/http"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/i474232898/surf-report/internal/config"
	"github.com/i474232898/surf-report/internal/marine"
	"github.com/i474232898/surf-report/internal/marine/providers"
)

// app holds everything a command needs once configuration is loaded.
type app struct {
	cfg     *config.AppConfig
	logger  *zap.Logger
	service *marine.Service
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	if !cfg.DotEnvLoaded {
		logger.Debug("no .env file found")
	}
	if cfg.Spot.Geocoded {
		logger.Info("spot geocoded",
			zap.String("spot", cfg.Spot.Name),
			zap.Float64("lat", cfg.Spot.Latitude),
			zap.Float64("lng", cfg.Spot.Longitude),
		)
	}
	if cfg.StormglassAPIKey == "" {
		logger.Warn("STORMGLASS_API_KEY not set, Stormglass will be skipped")
	}

	// Shared HTTP client for outbound provider calls.
	httpCfg := providers.HTTPClientConfig{
		Client: &http.Client{Timeout: cfg.HTTPTimeout},
		Logger: logger,
	}

	return &app{
		cfg:     cfg,
		logger:  logger,
		service: marine.NewService(newProviders(cfg, httpCfg), logger),
	}, nil
}

// newProviders wires the adapters in fallback order for each category.
func newProviders(cfg *config.AppConfig, httpCfg providers.HTTPClientConfig) marine.Providers {
	stormglass := providers.NewStormglassProvider(cfg.StormglassAPIKey, httpCfg)
	openMeteo := providers.NewOpenMeteoProvider(httpCfg)
	surfline := providers.NewSurflineProvider(httpCfg)

	return marine.Providers{
		Swell:        []marine.SeriesProvider{stormglass, openMeteo, surfline},
		Wind:         []marine.SeriesProvider{stormglass, openMeteo, surfline},
		Temperature:  []marine.TemperatureProvider{stormglass, openMeteo},
		TideExtremes: stormglass,
		TideSeries:   providers.NewNOAAProvider(httpCfg),
		WindBuoy:     providers.NewNDBCProvider(httpCfg),
		Rating:       surfline,
	}
}

// newLogger writes to stderr; stdout carries the report.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(os.Stderr), lvl)
	return zap.New(core), nil
}
