package domain

import "time"

// PositionRecord is one accepted telemetry sample for the vessel.
type PositionRecord struct {
	Latitude       float64   `json:"latitude"`
	Longitude      float64   `json:"longitude"`
	Heading        float64   `json:"angle"`
	DisplayHeading float64   `json:"display_heading"`
	Speed          float64   `json:"speed"`
	Satellites     string    `json:"satellites"`
	Timestamp      time.Time `json:"timestamp"`
}
