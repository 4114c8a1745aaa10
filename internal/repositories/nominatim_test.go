package repositories

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"weathernow/internal/models"
	"weathernow/pkg/logger"
)

func newTestGeocoder(t *testing.T, handler http.HandlerFunc) *NominatimRepository {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	l := logger.NewZapLogger("test-app")
	return NewNominatimRepository(server.URL, "test-app", l, http.DefaultClient)
}

func TestNominatimRepository_ReverseLookup_City(t *testing.T) {
	repo := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"address": {"city": "San Francisco", "municipality": "San Francisco County"}}`))
	})

	name, err := repo.ReverseLookup(context.Background(), models.Coordinates{Latitude: 37.77, Longitude: -122.42})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if name != "San Francisco" {
		t.Errorf("Expected San Francisco, got %q", name)
	}
}

func TestNominatimRepository_ReverseLookup_FallsBackToTown(t *testing.T) {
	repo := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"address": {"town": "Sausalito"}}`))
	})

	name, err := repo.ReverseLookup(context.Background(), models.Coordinates{Latitude: 37.86, Longitude: -122.49})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if name != "Sausalito" {
		t.Errorf("Expected Sausalito, got %q", name)
	}
}

func TestNominatimRepository_ReverseLookup_NoLocality(t *testing.T) {
	repo := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"address": {}}`))
	})

	name, err := repo.ReverseLookup(context.Background(), models.Coordinates{Latitude: 0, Longitude: 0})
	if err != nil {
		t.Fatalf("Expected no error for an empty locality, got: %v", err)
	}
	if name != "" {
		t.Errorf("Expected empty locality, got %q", name)
	}
}

func TestNominatimRepository_ReverseLookup_SendsUserAgent(t *testing.T) {
	var agent string
	repo := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		agent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"address": {"city": "Berlin"}}`))
	})

	_, err := repo.ReverseLookup(context.Background(), models.Coordinates{Latitude: 52.52, Longitude: 13.41})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if agent != "test-app" {
		t.Errorf("Expected User-Agent test-app, got %q", agent)
	}
}

func TestNominatimRepository_ReverseLookup_HTTPError(t *testing.T) {
	repo := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := repo.ReverseLookup(context.Background(), models.Coordinates{Latitude: 37.77, Longitude: -122.42})
	if err == nil {
		t.Error("Expected error on non-2xx status, got nil")
	}
}

func TestNominatimRepository_ReverseLookup_InvalidJSON(t *testing.T) {
	repo := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("invalid json"))
	})

	_, err := repo.ReverseLookup(context.Background(), models.Coordinates{Latitude: 37.77, Longitude: -122.42})
	if err == nil {
		t.Error("Expected error when receiving invalid JSON, got nil")
	}
}

func TestNominatimRepository_Name(t *testing.T) {
	repo := &NominatimRepository{}
	expected := "nominatim"
	if name := repo.Name(); name != expected {
		t.Errorf("Expected name to be %s, got %s", expected, name)
	}
}
