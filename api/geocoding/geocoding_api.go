package geocoding

import (
	"context"

	"specials-server/models"
)

// GeocodingAPI resolves a free-text address to candidate locations, best match first.
// An address with no match yields an empty slice and a nil error.
type GeocodingAPI interface {
	Geocode(ctx context.Context, address string) ([]models.GeocodeResult, error)
}
