package models

import "time"

// Phase is the mutually exclusive state of a weather fetch.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseSuccess Phase = "success"
	PhaseError   Phase = "error"
)

// Snapshot is the status value owned by the weather fetcher, overwritten
// atomically on each fetch attempt. Current and Forecast are set only in the
// success phase; Message only in the error phase.
type Snapshot struct {
	Phase       Phase              `json:"phase"`
	Coordinates Coordinates        `json:"coordinates"`
	Current     *CurrentConditions `json:"current,omitempty"`
	Forecast    []ForecastDay      `json:"forecast,omitempty"`
	Message     string             `json:"message,omitempty"`
	FetchedAt   time.Time          `json:"fetched_at"`
}
