package models

import "specials-server/geo"

// GeocodeResult is one candidate location for a free-text address.
type GeocodeResult struct {
	Point       geo.Point `json:"point"`
	DisplayName string    `json:"display_name,omitempty"`
	Importance  float64   `json:"importance,omitempty"`
}
