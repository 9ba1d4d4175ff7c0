package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"specials-server/db"
	"specials-server/models"
)

// GEOCODE_CACHE_KEY_FORMAT caches geocoding candidates per normalised address.
const GEOCODE_CACHE_KEY_FORMAT = "geocode_v1:%s"

// RedisGeocodeCache stores geocoding results with a TTL.
type RedisGeocodeCache struct {
	client db.RedisClient
	ttl    time.Duration
}

func NewRedisGeocodeCache(client db.RedisClient, ttl time.Duration) *RedisGeocodeCache {
	return &RedisGeocodeCache{client: client, ttl: ttl}
}

func geocodeKey(address string) string {
	return fmt.Sprintf(GEOCODE_CACHE_KEY_FORMAT, strings.ToLower(strings.TrimSpace(address)))
}

// GetGeocode returns the cached result; ok is false on a cache miss.
func (c *RedisGeocodeCache) GetGeocode(ctx context.Context, address string) (models.GeocodeResult, bool, error) {
	raw, err := c.client.Get(ctx, geocodeKey(address))
	if errors.Is(err, db.ErrKeyNotFound) {
		return models.GeocodeResult{}, false, nil
	}
	if err != nil {
		return models.GeocodeResult{}, false, fmt.Errorf("failed to get geocode from redis: %w", err)
	}
	var res models.GeocodeResult
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		return models.GeocodeResult{}, false, fmt.Errorf("failed to unmarshal geocode JSON: %w", err)
	}
	return res, true, nil
}

func (c *RedisGeocodeCache) SetGeocode(ctx context.Context, address string, res models.GeocodeResult) error {
	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("failed to marshal geocode for %q: %w", address, err)
	}
	if err := c.client.SetWithTTL(ctx, geocodeKey(address), string(data), c.ttl); err != nil {
		return fmt.Errorf("failed to set geocode in redis: %w", err)
	}
	return nil
}
