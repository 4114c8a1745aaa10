package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"weathernow/internal/models"
	"weathernow/pkg/logger"
)

const (
	OpenMeteoBaseURL = "https://api.open-meteo.com/v1/forecast"

	// Field lists requested from the API; the response parser depends on
	// exactly these.
	openMeteoCurrentFields = "temperature_2m,relative_humidity_2m,apparent_temperature,weather_code,wind_speed_10m"
	openMeteoDailyFields   = "weather_code,temperature_2m_max,temperature_2m_min"

	// The forecast shown to the user covers at most five upcoming days.
	maxForecastDays = 5
)

type OpenMeteoRepository struct {
	BaseURL    string
	httpClient HTTPClient
	l          *logger.Logger
}

func NewOpenMeteoRepository(baseURL string, l *logger.Logger, httpClient HTTPClient) *OpenMeteoRepository {
	if baseURL == "" {
		baseURL = OpenMeteoBaseURL
	}
	return &OpenMeteoRepository{
		BaseURL:    baseURL,
		httpClient: httpClient,
		l:          l,
	}
}

func (o *OpenMeteoRepository) Name() string {
	return "open-meteo"
}

type openMeteoCurrent struct {
	Temperature2m       float64 `json:"temperature_2m"`
	RelativeHumidity2m  int     `json:"relative_humidity_2m"`
	ApparentTemperature float64 `json:"apparent_temperature"`
	WeatherCode         int     `json:"weather_code"`
	WindSpeed10m        float64 `json:"wind_speed_10m"`
}

type openMeteoDaily struct {
	Time             []string  `json:"time"`
	WeatherCode      []int     `json:"weather_code"`
	Temperature2mMax []float64 `json:"temperature_2m_max"`
	Temperature2mMin []float64 `json:"temperature_2m_min"`
}

type openMeteoResponse struct {
	Current openMeteoCurrent `json:"current"`
	Daily   openMeteoDaily   `json:"daily"`
}

// FetchForecast issues one GET to the Open-Meteo forecast endpoint and maps
// the response into the domain model.
func (o *OpenMeteoRepository) FetchForecast(ctx context.Context, lat, lon float64) (models.WeatherReport, error) {
	coords := models.Coordinates{Latitude: lat, Longitude: lon}

	url := fmt.Sprintf(
		"%s?latitude=%f&longitude=%f&current=%s&daily=%s&temperature_unit=celsius&wind_speed_unit=kmh&timezone=auto",
		o.BaseURL, lat, lon, openMeteoCurrentFields, openMeteoDailyFields,
	)

	o.l.Info("making openmeteo API request", map[string]any{
		"params": coords.RequestParams(),
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return models.WeatherReport{}, errors.Wrap(err, "failed to create request")
	}
	resp, err := o.httpClient.Do(req)
	if err != nil {
		return models.WeatherReport{}, errors.Wrap(err, "failed to do request")
	}
	defer resp.Body.Close()

	o.l.Info("received openmeteo API response", map[string]any{
		"status":     resp.StatusCode,
		"statusText": resp.Status,
	})

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.WeatherReport{}, errors.Wrap(err, "failed to read response body")
	}

	if resp.StatusCode != http.StatusOK {
		return models.WeatherReport{}, errors.Errorf("HTTP error (status %d): %s", resp.StatusCode, resp.Status)
	}

	var response openMeteoResponse
	if err = json.Unmarshal(body, &response); err != nil {
		return models.WeatherReport{}, errors.Wrap(err, "failed to parse JSON response")
	}

	report, err := normalizeOpenMeteo(response)
	if err != nil {
		return models.WeatherReport{}, errors.Wrap(err, "failed to build report")
	}

	o.l.Info("parsed API response", map[string]any{
		"condition": report.Current.Condition,
		"days":      len(report.Forecast),
	})

	return report, nil
}

// normalizeOpenMeteo maps the provider response into the domain model. The
// daily series must carry today at index 0; today's high/low come from there
// and the forecast starts at index 1.
func normalizeOpenMeteo(response openMeteoResponse) (models.WeatherReport, error) {
	daily := response.Daily

	// A body without the daily block unmarshals to empty slices; treat it as
	// a malformed response rather than an empty forecast.
	minLength := min(len(daily.Time), len(daily.WeatherCode), len(daily.Temperature2mMax), len(daily.Temperature2mMin))
	if minLength == 0 {
		return models.WeatherReport{}, errors.New("no daily forecast data available")
	}

	current := models.CurrentConditions{
		Temperature: roundTemp(response.Current.Temperature2m),
		Condition:   models.ConditionFromCode(response.Current.WeatherCode),
		High:        roundTemp(daily.Temperature2mMax[0]),
		Low:         roundTemp(daily.Temperature2mMin[0]),
		FeelsLike:   roundTemp(response.Current.ApparentTemperature),
		Humidity:    response.Current.RelativeHumidity2m,
		WindSpeed:   roundTemp(response.Current.WindSpeed10m),
	}

	return models.WeatherReport{
		Current:  current,
		Forecast: forecastDays(daily, minLength),
	}, nil
}

// forecastDays builds the upcoming-days forecast from daily indices 1..5.
// Index 0 is today and is always excluded; a day whose date fails to parse is
// dropped, not an error for the whole fetch.
func forecastDays(daily openMeteoDaily, minLength int) []models.ForecastDay {
	var days []models.ForecastDay

	for i := 1; i < minLength && i <= maxForecastDays; i++ {
		date, err := time.Parse("2006-01-02", daily.Time[i])
		if err != nil {
			continue
		}

		days = append(days, models.ForecastDay{
			Label:     date.Weekday().String()[:3],
			Condition: models.ConditionFromCode(daily.WeatherCode[i]),
			High:      roundTemp(daily.Temperature2mMax[i]),
			Low:       roundTemp(daily.Temperature2mMin[i]),
		})
	}

	return days
}

// roundTemp rounds half away from zero: 21.5 becomes 22, -21.5 becomes -22.
func roundTemp(v float64) int {
	return int(math.Round(v))
}
