package services

import (
	"context"
	"log"
	"strings"

	"specials-server/api/geocoding"
	"specials-server/models"
)

// GeocodeCache is implemented by the Redis and SQLite geocode caches.
type GeocodeCache interface {
	GetGeocode(ctx context.Context, address string) (models.GeocodeResult, bool, error)
	SetGeocode(ctx context.Context, address string, res models.GeocodeResult) error
}

// LocationResolver turns an address into a point, consulting the cache before the geocoding API.
// Cache failures are logged and never fail a resolution.
type LocationResolver struct {
	geocodingAPI geocoding.GeocodingAPI
	cache        GeocodeCache
}

// NewLocationResolver creates a resolver; cache may be nil.
func NewLocationResolver(geocodingAPI geocoding.GeocodingAPI, cache GeocodeCache) *LocationResolver {
	return &LocationResolver{geocodingAPI: geocodingAPI, cache: cache}
}

// Resolve returns the best candidate for address.
// Errors match ErrLocationNotResolved; a geocoder failure additionally matches ErrProviderUnavailable.
func (r *LocationResolver) Resolve(ctx context.Context, address string) (models.GeocodeResult, error) {
	address = strings.TrimSpace(address)

	if r.cache != nil {
		res, ok, err := r.cache.GetGeocode(ctx, address)
		if err != nil {
			log.Printf("[LocationResolver] Geocode cache read failed for %q: %v", address, err)
		} else if ok {
			return res, nil
		}
	}

	candidates, err := r.geocodingAPI.Geocode(ctx, address)
	if err != nil {
		return models.GeocodeResult{}, &LocationError{Address: address, Err: providerUnavailable("geocoder", err)}
	}
	if len(candidates) == 0 {
		return models.GeocodeResult{}, &LocationError{Address: address}
	}

	best := candidates[0]
	if r.cache != nil {
		if err := r.cache.SetGeocode(ctx, address, best); err != nil {
			log.Printf("[LocationResolver] Geocode cache write failed for %q: %v", address, err)
		}
	}
	return best, nil
}
