package models

import "specials-server/models/venue"

// VenueCatalog is the on-disk format read by the catalog importer.
type VenueCatalog struct {
	Venues []venue.Venue `json:"venues"`
}
