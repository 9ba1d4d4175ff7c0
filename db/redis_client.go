package db

import (
	"context"
	"time"
)

// GeoMember is one hit from a radius query: the member name, its distance from
// the query point in meters and the JSON document stored under the member key.
type GeoMember struct {
	Name           string
	DistanceMeters float64
	Data           string
}

// RedisClient defines the methods the DAOs need from Redis.
type RedisClient interface {
	Set(ctx context.Context, key, value string) error
	SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	AddLocationWithJSON(ctx context.Context, geoKey, memberKey string, lat, lon float64, data interface{}) error
	RemoveLocation(ctx context.Context, geoKey, memberKey string) error
	GetLocationsWithinRadius(ctx context.Context, key string, lat, lon, radiusMeters float64) ([]GeoMember, error)
	Ping(ctx context.Context) error
	Keys(ctx context.Context, pattern string) ([]string, error)
	Del(ctx context.Context, key string) error
}
