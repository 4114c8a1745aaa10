package repositories

import (
	"context"
	"net/http"
	"time"

	"weathernow/config"
	"weathernow/internal/models"
	"weathernow/pkg/logger"
)

// HTTPClient is the outbound transport used by every repository.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ForecastRepository fetches and normalizes weather data for a coordinate.
type ForecastRepository interface {
	Name() string
	FetchForecast(ctx context.Context, lat, lon float64) (models.WeatherReport, error)
}

// GeocodingRepository resolves coordinates to a human-readable locality.
// An empty result with a nil error means the lookup succeeded but the place
// has no known locality.
type GeocodingRepository interface {
	Name() string
	ReverseLookup(ctx context.Context, coords models.Coordinates) (string, error)
}

// InitRepositories builds the outbound repositories from config. Both public
// APIs sit behind a shared rate-limited client so a burst of refreshes cannot
// hammer them.
func InitRepositories(cfg *config.Config, l *logger.Logger) (ForecastRepository, GeocodingRepository) {
	client := NewRateLimitedHTTPClient(
		&http.Client{Timeout: time.Duration(cfg.Weather.TimeoutSeconds) * time.Second},
		cfg.Weather.RequestsPerSecond,
		cfg.Weather.Burst,
	)

	forecast := NewOpenMeteoRepository(cfg.Weather.BaseURL, l, client)
	geocoding := NewNominatimRepository(cfg.Geocoding.BaseURL, cfg.AppName, l, client)

	return forecast, geocoding
}
