package config

import (
	"os"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Config struct {
	AppName    string `envconfig:"APP_NAME" default:"weathernow"`
	AppVersion string `envconfig:"APP_VERSION" default:"1.0.0"`
	AppEnv     string `envconfig:"APP_ENV" default:"development"`
	Port       string `envconfig:"PORT" default:"8080"`
	SentryDSN  string `envconfig:"SENTRY_DSN"`

	Weather   WeatherConfig   `yaml:"weather"`
	Geocoding GeocodingConfig `yaml:"geocoding"`
	Storage   StorageConfig   `yaml:"storage"`
	Location  LocationConfig  `yaml:"location"`
}

type WeatherConfig struct {
	BaseURL           string  `yaml:"base_url"`
	TimeoutSeconds    int     `yaml:"timeout_seconds"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

type GeocodingConfig struct {
	BaseURL string `yaml:"base_url"`
}

type StorageConfig struct {
	Path string `yaml:"path"`
}

// LocationConfig seeds the static fix provider the demo binary uses in place
// of a device location service.
type LocationConfig struct {
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
}

func NewConfig() (*Config, error) {
	return newConfig("config/config.yaml")
}

func newConfig(path string) (*Config, error) {
	var cnf Config

	// Read from YAML file first
	if yamlData, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(yamlData, &cnf); err != nil {
			return nil, errors.Wrap(err, "failed to parse YAML config")
		}
	}

	// Override with environment variables
	if err := envconfig.Process("", &cnf); err != nil {
		return nil, errors.Wrap(err, "error environment variable parsing")
	}

	cnf.applyDefaults()

	if err := cnf.validate(); err != nil {
		return nil, err
	}

	return &cnf, nil
}

func (c *Config) applyDefaults() {
	if c.Weather.TimeoutSeconds == 0 {
		c.Weather.TimeoutSeconds = 10
	}
	if c.Weather.RequestsPerSecond == 0 {
		c.Weather.RequestsPerSecond = 1
	}
	if c.Weather.Burst == 0 {
		c.Weather.Burst = 3
	}
	if c.Storage.Path == "" {
		c.Storage.Path = "weathernow.db"
	}
}

func (c *Config) validate() error {
	if c.AppName == "" {
		return errors.New("app name is required")
	}
	if c.Weather.TimeoutSeconds < 0 {
		return errors.New("weather.timeout_seconds cannot be negative")
	}
	if c.Weather.RequestsPerSecond < 0 {
		return errors.New("weather.requests_per_second cannot be negative")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
