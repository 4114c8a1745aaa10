package storage

import (
	"path/filepath"
	"testing"
	"time"

	"weathernow/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test_snapshots.db")

	s, err := NewSQLite(dbPath)
	if err != nil {
		t.Fatalf("NewSQLite failed: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func successSnapshot(temp int, fetchedAt time.Time) models.Snapshot {
	return models.Snapshot{
		Phase:       models.PhaseSuccess,
		Coordinates: models.Coordinates{Latitude: 37.77, Longitude: -122.42},
		Current: &models.CurrentConditions{
			Temperature: temp,
			Condition:   models.ConditionSunny,
			High:        22,
			Low:         12,
			FeelsLike:   18,
			Humidity:    64,
			WindSpeed:   14,
		},
		Forecast: []models.ForecastDay{
			{Label: "Tue", Condition: models.ConditionCloudy, High: 22, Low: 14},
			{Label: "Wed", Condition: models.ConditionRainy, High: 20, Low: 11},
		},
		FetchedAt: fetchedAt,
	}
}

func TestSQLiteSaveAndLatest(t *testing.T) {
	s := newTestStore(t)

	now := time.Now().UTC().Truncate(time.Second)
	if err := s.SaveSnapshot(successSnapshot(19, now)); err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	latest, err := s.LatestSnapshot()
	if err != nil {
		t.Fatalf("LatestSnapshot failed: %v", err)
	}
	if latest == nil {
		t.Fatal("expected a snapshot, got nil")
	}
	if latest.Phase != models.PhaseSuccess {
		t.Errorf("expected success phase, got %s", latest.Phase)
	}
	if latest.Current == nil || latest.Current.Temperature != 19 {
		t.Errorf("current conditions not restored: %+v", latest.Current)
	}
	if len(latest.Forecast) != 2 || latest.Forecast[0].Label != "Tue" {
		t.Errorf("forecast not restored: %+v", latest.Forecast)
	}
	if !latest.FetchedAt.Equal(now) {
		t.Errorf("fetched_at differs: got %v want %v", latest.FetchedAt, now)
	}
}

func TestSQLiteLatestEmpty(t *testing.T) {
	s := newTestStore(t)

	latest, err := s.LatestSnapshot()
	if err != nil {
		t.Fatalf("LatestSnapshot failed: %v", err)
	}
	if latest != nil {
		t.Fatalf("expected nil snapshot on empty store, got %+v", latest)
	}
}

func TestSQLiteHistoryOrder(t *testing.T) {
	s := newTestStore(t)

	base := time.Now().UTC().Truncate(time.Second)
	for i := 0; i < 3; i++ {
		if err := s.SaveSnapshot(successSnapshot(10+i, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("SaveSnapshot %d failed: %v", i, err)
		}
	}

	history, err := s.History(2)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 snapshots, got %d", len(history))
	}
	// Newest first
	if history[0].Current.Temperature != 12 || history[1].Current.Temperature != 11 {
		t.Errorf("unexpected history order: %d, %d", history[0].Current.Temperature, history[1].Current.Temperature)
	}
}

func TestSQLiteRejectsNonSuccess(t *testing.T) {
	s := newTestStore(t)

	err := s.SaveSnapshot(models.Snapshot{Phase: models.PhaseError, Message: "Failed to load weather data"})
	if err == nil {
		t.Fatal("expected error when saving a non-success snapshot")
	}
}
