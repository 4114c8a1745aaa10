package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"weathernow/internal/models"
	"weathernow/internal/services/weather"
)

// WeatherResponse represents a normalized weather snapshot
type WeatherResponse struct {
	Latitude  float64                  `json:"latitude" example:"37.77"`
	Longitude float64                  `json:"longitude" example:"-122.42"`
	Current   models.CurrentConditions `json:"current"`
	Forecast  []models.ForecastDay     `json:"forecast"`
	FetchedAt time.Time                `json:"fetched_at" example:"2026-08-30T12:00:00Z"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error" example:"Missing required parameter: lat"`
}

// GetWeather godoc
// @Summary Get current weather and five-day forecast
// @Description Fetches and normalizes current conditions plus a five-day forecast for a coordinate
// @Tags Weather
// @Accept json
// @Produce json
// @Param lat query number true "Latitude coordinate (-90 to 90)" minimum(-90) maximum(90) example(37.77)
// @Param lon query number true "Longitude coordinate (-180 to 180)" minimum(-180) maximum(180) example(-122.42)
// @Success 200 {object} WeatherResponse "Successful response"
// @Failure 400 {object} ErrorResponse "Bad request - invalid parameters"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /weather [get]
func (r *routes) handleWeatherCall(c *fiber.Ctx) error {
	lat := c.Query("lat")
	lon := c.Query("lon")

	// Check for required parameters
	if lat == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "Missing required parameter: lat",
		})
	}

	if lon == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "Missing required parameter: lon",
		})
	}

	latFloat, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "Invalid latitude format",
		})
	}

	if latFloat < -90 || latFloat > 90 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "Latitude must be between -90 and 90",
		})
	}

	lonFloat, err := strconv.ParseFloat(lon, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "Invalid longitude format",
		})
	}

	if lonFloat < -180 || lonFloat > 180 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "Longitude must be between -180 and 180",
		})
	}

	snap := r.fetcher.Fetch(c.Context(), latFloat, lonFloat)
	if snap.Phase != models.PhaseSuccess {
		r.l.Warning("weather fetch did not succeed", map[string]any{
			"phase": snap.Phase,
			"lat":   latFloat,
			"lon":   lonFloat,
		})

		// A fetch superseded by a newer one observes that fetch's loading
		// snapshot, which carries no message.
		msg := snap.Message
		if msg == "" {
			msg = weather.FailureMessage
		}

		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: msg,
		})
	}

	return c.JSON(snapshotResponse(snap))
}

// GetLatestSnapshot godoc
// @Summary Get the last successful weather snapshot
// @Description Returns the most recently persisted snapshot without contacting the weather API
// @Tags Weather
// @Produce json
// @Success 200 {object} WeatherResponse "Successful response"
// @Failure 404 {object} ErrorResponse "No snapshot stored yet"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /weather/latest [get]
func (r *routes) handleLatestSnapshot(c *fiber.Ctx) error {
	snap, err := r.reader.LatestSnapshot()
	if err != nil {
		r.l.Error(err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "Failed to read stored snapshot",
		})
	}

	if snap == nil {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error: "No weather snapshot stored yet",
		})
	}

	return c.JSON(snapshotResponse(*snap))
}

// GetSnapshotHistory godoc
// @Summary List recent weather snapshots
// @Description Returns up to limit persisted snapshots, newest first
// @Tags Weather
// @Produce json
// @Param limit query integer false "Maximum number of snapshots to return (1 to 100)" minimum(1) maximum(100) default(10)
// @Success 200 {array} WeatherResponse "Successful response"
// @Failure 400 {object} ErrorResponse "Bad request - invalid parameters"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /weather/history [get]
func (r *routes) handleSnapshotHistory(c *fiber.Ctx) error {
	limit := 10
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Error: "Limit must be an integer between 1 and 100",
			})
		}
		limit = parsed
	}

	snaps, err := r.reader.History(limit)
	if err != nil {
		r.l.Error(err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "Failed to read stored snapshots",
		})
	}

	out := make([]WeatherResponse, 0, len(snaps))
	for _, snap := range snaps {
		out = append(out, snapshotResponse(snap))
	}
	return c.JSON(out)
}

func snapshotResponse(snap models.Snapshot) WeatherResponse {
	resp := WeatherResponse{
		Latitude:  snap.Coordinates.Latitude,
		Longitude: snap.Coordinates.Longitude,
		Forecast:  snap.Forecast,
		FetchedAt: snap.FetchedAt,
	}
	if snap.Current != nil {
		resp.Current = *snap.Current
	}
	return resp
}
