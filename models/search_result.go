package models

import (
	"time"

	"specials-server/models/venue"
)

type SearchResultItem struct {
	Venue          venue.Venue     `json:"venue"`
	DistanceMiles  float64         `json:"distance_miles"`
	ActiveSpecials []venue.Special `json:"active_specials"`
}

type SearchResult struct {
	Items            []SearchResultItem `json:"items"`
	Pagination       PageInfo           `json:"pagination"`
	Origin           GeocodeResult      `json:"origin"`
	ReferenceInstant time.Time          `json:"reference_instant"`
}
