package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// GeoPoint stores a GeoJSON-style point with the human-readable address
// fields, persisted as JSONB.
type GeoPoint struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates,omitempty"`
	Address     string    `json:"address,omitempty"`
	City        string    `json:"city,omitempty"`
	State       string    `json:"state,omitempty"`
	Zipcode     string    `json:"zipcode,omitempty"`
	Country     string    `json:"country,omitempty"`
}

// Value marshals the point into JSON for the database.
func (g GeoPoint) Value() (driver.Value, error) {
	if g.Type == "" {
		g.Type = "Point"
	}
	buf, err := json.Marshal(g)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// Scan decodes JSONB into the point.
func (g *GeoPoint) Scan(value interface{}) error {
	if value == nil {
		*g = GeoPoint{}
		return nil
	}

	raw, err := jsonBytes(value)
	if err != nil {
		return fmt.Errorf("geo point: %w", err)
	}
	return json.Unmarshal(raw, g)
}
