package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	// No config file: defaults only
	config, err := newConfig("nonexistent.yaml")
	require.NoError(t, err)
	assert.NotNil(t, config)

	assert.Equal(t, "weathernow", config.AppName)
	assert.Equal(t, "1.0.0", config.AppVersion)
	assert.Equal(t, "development", config.AppEnv)
	assert.Equal(t, "8080", config.Port)
	assert.Equal(t, 10, config.Weather.TimeoutSeconds)
	assert.Equal(t, 1.0, config.Weather.RequestsPerSecond)
	assert.Equal(t, 3, config.Weather.Burst)
	assert.Equal(t, "weathernow.db", config.Storage.Path)
	assert.Empty(t, config.Weather.BaseURL)
}

func TestNewConfig_EnvironmentVariables(t *testing.T) {
	os.Setenv("APP_NAME", "test-app")
	os.Setenv("APP_ENV", "production")
	os.Setenv("PORT", "9090")

	defer func() {
		os.Unsetenv("APP_NAME")
		os.Unsetenv("APP_ENV")
		os.Unsetenv("PORT")
	}()

	config, err := newConfig("nonexistent.yaml")
	require.NoError(t, err)

	assert.Equal(t, "test-app", config.AppName)
	assert.Equal(t, "production", config.AppEnv)
	assert.Equal(t, "9090", config.Port)
	assert.True(t, config.IsProduction())
	assert.False(t, config.IsDevelopment())
}

func TestNewConfig_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `weather:
  base_url: https://weather.example.test/v1/forecast
  timeout_seconds: 5
  requests_per_second: 0.5
  burst: 2
geocoding:
  base_url: https://geo.example.test/reverse
storage:
  path: /tmp/test.db
location:
  latitude: 52.52
  longitude: 13.41
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	config, err := newConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://weather.example.test/v1/forecast", config.Weather.BaseURL)
	assert.Equal(t, 5, config.Weather.TimeoutSeconds)
	assert.Equal(t, 0.5, config.Weather.RequestsPerSecond)
	assert.Equal(t, 2, config.Weather.Burst)
	assert.Equal(t, "https://geo.example.test/reverse", config.Geocoding.BaseURL)
	assert.Equal(t, "/tmp/test.db", config.Storage.Path)
	assert.Equal(t, 52.52, config.Location.Latitude)
	assert.Equal(t, 13.41, config.Location.Longitude)
}

func TestNewConfig_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("weather: ["), 0o600))

	_, err := newConfig(path)
	assert.Error(t, err)
}

func TestConfigValidation(t *testing.T) {
	config := &Config{
		AppName: "test-app",
		Weather: WeatherConfig{TimeoutSeconds: 10, RequestsPerSecond: 1},
	}
	assert.NoError(t, config.validate())

	invalid := &Config{
		AppName: "",
		Weather: WeatherConfig{TimeoutSeconds: 10, RequestsPerSecond: 1},
	}
	err := invalid.validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "app name is required")

	negative := &Config{
		AppName: "test-app",
		Weather: WeatherConfig{TimeoutSeconds: -1, RequestsPerSecond: 1},
	}
	assert.Error(t, negative.validate())
}
