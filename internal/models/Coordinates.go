package models

import "fmt"

// Coordinates is a single resolved GPS fix in decimal degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude" example:"37.77"`
	Longitude float64 `json:"longitude" example:"-122.42"`
}

func (c Coordinates) RequestParams() string {
	return fmt.Sprintf("lat: %.4f lon: %.4f", c.Latitude, c.Longitude)
}
