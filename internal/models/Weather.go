package models

// CurrentConditions holds the normalized current weather for a location.
// Temperatures and wind speed are rounded to the nearest integer from the
// source decimals; humidity is an integer in the source already.
type CurrentConditions struct {
	Temperature int       `json:"temperature" example:"19"`
	Condition   Condition `json:"condition" example:"sunny"`
	High        int       `json:"high" example:"22"`
	Low         int       `json:"low" example:"12"`
	FeelsLike   int       `json:"feels_like" example:"18"`
	Humidity    int       `json:"humidity" example:"64"`
	WindSpeed   int       `json:"wind_speed" example:"14"`
}

// ForecastDay is one upcoming day in the five-day forecast.
type ForecastDay struct {
	Label     string    `json:"label" example:"Mon"`
	Condition Condition `json:"condition" example:"rainy"`
	High      int       `json:"high" example:"21"`
	Low       int       `json:"low" example:"11"`
}

// WeatherReport is the normalized output of one provider fetch: current
// conditions plus an ordered forecast, earliest day first. The forecast never
// includes the current day and holds at most five entries.
type WeatherReport struct {
	Current  CurrentConditions `json:"current"`
	Forecast []ForecastDay     `json:"forecast"`
}
