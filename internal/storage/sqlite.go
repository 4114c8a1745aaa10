package storage

import (
	"database/sql"
	"encoding/json"
	"log"
	"time"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"weathernow/internal/models"
)

// Store persists successful weather snapshots so the app can show last-known
// conditions without a network round trip.
type Store interface {
	SaveSnapshot(s models.Snapshot) error
	LatestSnapshot() (*models.Snapshot, error)
	History(limit int) ([]models.Snapshot, error)
	Close() error
}

// SQLiteStore implements Store with the pure Go sqlite driver.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the database at path and applies the schema.
func NewSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}

	// WAL improves concurrency for the small frequent writes this store sees.
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		log.Println("warning: could not set WAL mode:", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS snapshots (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        latitude REAL NOT NULL,
        longitude REAL NOT NULL,
        current TEXT NOT NULL,
        forecast TEXT NOT NULL,
        fetched_at TEXT NOT NULL
    );`

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create schema")
	}

	return &SQLiteStore{db: db}, nil
}

// SaveSnapshot stores one successful fetch. Non-success snapshots are
// rejected; loading and error states are transient and never persisted.
func (s *SQLiteStore) SaveSnapshot(snap models.Snapshot) error {
	if snap.Phase != models.PhaseSuccess {
		return errors.Errorf("only success snapshots are persisted, got %s", snap.Phase)
	}
	if snap.Current == nil {
		return errors.New("success snapshot without current conditions")
	}

	current, err := json.Marshal(snap.Current)
	if err != nil {
		return errors.Wrap(err, "marshal current conditions")
	}
	forecast, err := json.Marshal(snap.Forecast)
	if err != nil {
		return errors.Wrap(err, "marshal forecast")
	}

	_, err = s.db.Exec(
		`INSERT INTO snapshots(latitude, longitude, current, forecast, fetched_at) VALUES(?,?,?,?,?)`,
		snap.Coordinates.Latitude,
		snap.Coordinates.Longitude,
		string(current),
		string(forecast),
		snap.FetchedAt.UTC().Format(time.RFC3339),
	)
	return err
}

// LatestSnapshot returns the most recently saved snapshot, or nil when the
// store is empty.
func (s *SQLiteStore) LatestSnapshot() (*models.Snapshot, error) {
	row := s.db.QueryRow(`SELECT latitude, longitude, current, forecast, fetched_at FROM snapshots ORDER BY id DESC LIMIT 1`)

	snap, err := scanSnapshot(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// History returns up to limit snapshots, newest first.
func (s *SQLiteStore) History(limit int) ([]models.Snapshot, error) {
	rows, err := s.db.Query(`SELECT latitude, longitude, current, forecast, fetched_at FROM snapshots ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.Snapshot, 0)
	for rows.Next() {
		snap, err := scanSnapshot(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *snap)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func scanSnapshot(scan func(dest ...any) error) (*models.Snapshot, error) {
	var (
		lat, lon          float64
		current, forecast string
		fetchedAt         string
	)
	if err := scan(&lat, &lon, &current, &forecast, &fetchedAt); err != nil {
		return nil, err
	}

	snap := models.Snapshot{
		Phase:       models.PhaseSuccess,
		Coordinates: models.Coordinates{Latitude: lat, Longitude: lon},
	}

	var cc models.CurrentConditions
	if err := json.Unmarshal([]byte(current), &cc); err != nil {
		return nil, errors.Wrap(err, "unmarshal current conditions")
	}
	snap.Current = &cc

	if err := json.Unmarshal([]byte(forecast), &snap.Forecast); err != nil {
		return nil, errors.Wrap(err, "unmarshal forecast")
	}

	if t, err := time.Parse(time.RFC3339, fetchedAt); err == nil {
		snap.FetchedAt = t
	}

	return &snap, nil
}
