package http

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"

	"weathernow/internal/models"
	"weathernow/internal/services/weather"
	"weathernow/pkg/logger"
)

// SnapshotReader serves persisted successful snapshots.
type SnapshotReader interface {
	LatestSnapshot() (*models.Snapshot, error)
	History(limit int) ([]models.Snapshot, error)
}

type routes struct {
	fetcher *weather.Fetcher
	reader  SnapshotReader
	l       *logger.Logger
}

func NewRouter(
	app *fiber.App,
	fetcher *weather.Fetcher,
	reader SnapshotReader,
	l *logger.Logger,
) {
	r := &routes{
		fetcher: fetcher,
		reader:  reader,
		l:       l,
	}

	// Swagger documentation
	app.Get("/swagger/doc.json", func(c *fiber.Ctx) error {
		swaggerData, err := os.ReadFile("docs/swagger.json")
		if err != nil {
			return c.Status(fiber.ErrInternalServerError.Code).JSON(fiber.Map{"error": "Failed to read Swagger documentation"})
		}

		c.Set("Content-Type", "application/json")
		return c.Send(swaggerData)
	})

	app.Get("/swagger/*", swagger.New(swagger.Config{
		URL:         "/swagger/doc.json",
		DeepLinking: true,
	}))

	// API routes
	app.Get("/weather", r.handleWeatherCall)
	app.Get("/weather/latest", r.handleLatestSnapshot)
	app.Get("/weather/history", r.handleSnapshotHistory)
}
