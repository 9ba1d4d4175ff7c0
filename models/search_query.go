package models

import "time"

// SearchQuery describes a proximity search for venues with specials.
type SearchQuery struct {
	Address     string  `json:"address"`
	RadiusMiles float64 `json:"radius_miles"`
	SearchText  string  `json:"search_text,omitempty"`
	SpecialType string  `json:"special_type,omitempty"`
	// ReferenceInstant defaults to the service clock when nil.
	ReferenceInstant *time.Time `json:"reference_instant,omitempty"`
	// ActiveOnly keeps only venues with at least one active special.
	ActiveOnly bool `json:"active_only"`
	Page       int  `json:"page"`
	PageSize   int  `json:"page_size"`
}
