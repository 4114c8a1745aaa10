package weather

import (
	"context"
	"sync"
	"time"

	"weathernow/internal/models"
	"weathernow/internal/repositories"
	"weathernow/pkg/logger"
)

// FailureMessage is the single user-facing message for any failed fetch.
// Transport, HTTP and decode failures are deliberately not distinguished.
const FailureMessage = "Failed to load weather data"

// SnapshotStore is the persistence hook for successful fetches. May be nil.
type SnapshotStore interface {
	SaveSnapshot(s models.Snapshot) error
}

// Fetcher owns the weather status: one Snapshot, overwritten atomically per
// fetch attempt. Failures never escape a fetch; they collapse into the error
// phase.
type Fetcher struct {
	repo  repositories.ForecastRepository
	store SnapshotStore
	l     *logger.Logger

	mu         sync.Mutex
	generation uint64
	snapshot   models.Snapshot
	subs       map[chan models.Snapshot]struct{}
}

func NewFetcher(repo repositories.ForecastRepository, store SnapshotStore, l *logger.Logger) *Fetcher {
	return &Fetcher{
		repo:     repo,
		store:    store,
		l:        l,
		snapshot: models.Snapshot{Phase: models.PhaseIdle},
		subs:     make(map[chan models.Snapshot]struct{}),
	}
}

// Snapshot returns the current status value.
func (f *Fetcher) Snapshot() models.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshot
}

// Subscribe registers a channel receiving every status change. Slow consumers
// miss updates rather than blocking the fetcher.
func (f *Fetcher) Subscribe() chan models.Snapshot {
	ch := make(chan models.Snapshot, 8)
	f.mu.Lock()
	f.subs[ch] = struct{}{}
	f.mu.Unlock()
	return ch
}

func (f *Fetcher) Unsubscribe(ch chan models.Snapshot) {
	f.mu.Lock()
	if _, ok := f.subs[ch]; ok {
		delete(f.subs, ch)
		close(ch)
	}
	f.mu.Unlock()
}

// Fetch runs one weather acquisition for the given coordinates and returns
// the resulting status. It never returns an error: every failure is absorbed
// into the error phase with FailureMessage.
//
// Each call supersedes any in-flight one: a completion belonging to an older
// call is dropped, so a stale response can never overwrite a newer status.
func (f *Fetcher) Fetch(ctx context.Context, lat, lon float64) models.Snapshot {
	coords := models.Coordinates{Latitude: lat, Longitude: lon}

	f.mu.Lock()
	f.generation++
	gen := f.generation
	f.snapshot = models.Snapshot{Phase: models.PhaseLoading, Coordinates: coords}
	loading := f.snapshot
	f.mu.Unlock()
	f.publish(loading)

	f.l.Info("starting weather fetch", map[string]any{
		"repo":   f.repo.Name(),
		"params": coords.RequestParams(),
	})

	report, err := f.repo.FetchForecast(ctx, lat, lon)

	f.mu.Lock()
	if gen != f.generation {
		current := f.snapshot
		f.mu.Unlock()
		f.l.Warning("dropping stale fetch completion", map[string]any{
			"generation": gen,
			"params":     coords.RequestParams(),
		})
		return current
	}

	if err != nil {
		f.snapshot = models.Snapshot{
			Phase:       models.PhaseError,
			Coordinates: coords,
			Message:     FailureMessage,
		}
		result := f.snapshot
		f.mu.Unlock()

		f.l.Error(err, map[string]any{
			"repo":   f.repo.Name(),
			"params": coords.RequestParams(),
		})
		f.publish(result)
		return result
	}

	current := report.Current
	f.snapshot = models.Snapshot{
		Phase:       models.PhaseSuccess,
		Coordinates: coords,
		Current:     &current,
		Forecast:    report.Forecast,
		FetchedAt:   time.Now().UTC(),
	}
	result := f.snapshot
	f.mu.Unlock()

	f.l.Info("weather fetch succeeded", map[string]any{
		"repo":      f.repo.Name(),
		"condition": current.Condition,
		"days":      len(result.Forecast),
	})
	f.publish(result)

	if f.store != nil {
		if err := f.store.SaveSnapshot(result); err != nil {
			f.l.Warning("failed to persist snapshot", map[string]any{"err": err})
		}
	}

	return result
}

func (f *Fetcher) publish(snap models.Snapshot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.subs {
		select {
		case ch <- snap:
		default:
		}
	}
}
