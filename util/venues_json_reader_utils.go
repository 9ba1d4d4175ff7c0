package util

import (
	"encoding/json"
	"fmt"
	"os"

	"specials-server/models"
	"specials-server/models/venue"
)

// ReadVenueCatalogFromJSON loads the venues of a catalog file from disk.
func ReadVenueCatalogFromJSON(filePath string) ([]venue.Venue, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", filePath, err)
	}
	var catalog models.VenueCatalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to unmarshal venue catalog: %w", err)
	}
	return catalog.Venues, nil
}

// ReadGeocodeFixturesFromJSON loads an address -> result table used by the mock geocoder.
func ReadGeocodeFixturesFromJSON(filePath string) (map[string]models.GeocodeResult, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", filePath, err)
	}
	var fixtures map[string]models.GeocodeResult
	if err := json.Unmarshal(data, &fixtures); err != nil {
		return nil, fmt.Errorf("failed to unmarshal geocode fixtures: %w", err)
	}
	return fixtures, nil
}
