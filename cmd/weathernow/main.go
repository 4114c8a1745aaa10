package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"weathernow/config"
	v1 "weathernow/internal/controllers/http/v1"
	"weathernow/internal/models"
	"weathernow/internal/repositories"
	"weathernow/internal/services/location"
	"weathernow/internal/services/weather"
	"weathernow/internal/storage"
	"weathernow/pkg/httpserver"
	"weathernow/pkg/logger"
	"weathernow/pkg/observe"
)

// staticFixProvider stands in for a device location service: permission is
// always granted and the fix comes from config.
type staticFixProvider struct {
	coords models.Coordinates
}

func (p staticFixProvider) RequestPermission(ctx context.Context) (bool, error) {
	return true, nil
}

func (p staticFixProvider) CurrentFix(ctx context.Context) (models.Coordinates, error) {
	return p.coords, nil
}

// @title weathernow API
// @version 1.0.0
// @description Weather acquisition service: normalizes current conditions and a five-day forecast from Open-Meteo for a coordinate.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http

// @tag.name Weather
// @tag.description Weather snapshot operations
func main() {
	ctx, cancel := context.WithCancel(context.Background())

	_ = godotenv.Load()

	cnf, err := config.NewConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cannot load config:", err)
		os.Exit(1)
	}

	logWriters := []io.Writer{os.Stdout}
	var sentryWriter *observe.SentryWriter
	if cnf.SentryDSN != "" {
		sentryWriter, err = observe.NewSentryWriter(cnf.AppEnv, cnf.AppName, cnf.SentryDSN, cnf.IsDevelopment())
		if err != nil {
			fmt.Fprintln(os.Stderr, "sentry disabled:", err)
		} else {
			logWriters = append(logWriters, sentryWriter)
		}
	}

	l := logger.NewZapLogger(cnf.AppName, logWriters...)

	store, err := storage.NewSQLite(cnf.Storage.Path)
	if err != nil {
		l.Fatal("cannot open snapshot store", map[string]any{"err": err, "path": cnf.Storage.Path})
	}

	forecastRepo, geocodingRepo := repositories.InitRepositories(cnf, l)

	fetcher := weather.NewFetcher(forecastRepo, store, l)

	resolver := location.NewResolver(
		staticFixProvider{coords: models.Coordinates{
			Latitude:  cnf.Location.Latitude,
			Longitude: cnf.Location.Longitude,
		}},
		geocodingRepo,
		l,
	)

	app := httpserver.InitFiberServer(cnf.AppName)

	v1.NewRouter(
		app,
		fetcher,
		store,
		l,
	)

	// Location updates drive fetches: each new coordinate fix triggers one
	// weather acquisition.
	updates := resolver.Subscribe()
	go func() {
		for u := range updates {
			if u.Coordinates == nil {
				continue
			}
			fetcher.Fetch(ctx, u.Coordinates.Latitude, u.Coordinates.Longitude)
		}
	}()

	resolver.RequestAccess(ctx)

	go func() {
		if err := app.Listen(":" + cnf.Port); err != nil {
			l.Fatal("cannot run the server", map[string]any{"err": err})
		}
	}()

	l.Info("application started successfully", map[string]any{
		"port":  cnf.Port,
		"place": resolver.PlaceName(),
	})

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer func() {
		l.Warning("stopping application services")
		signal.Stop(sigCh)
		close(sigCh)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		_ = app.ShutdownWithContext(shutdownCtx)
		resolver.Unsubscribe(updates)
		_ = store.Close()
		if sentryWriter != nil {
			sentryWriter.Flush()
		}
		_ = l.Stop()
		cancel()
	}()

	select {
	case <-sigCh:
		fmt.Println("received shutdown signal")
	case <-ctx.Done():
		fmt.Println("context cancelled")
	}
}
