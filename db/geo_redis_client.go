package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

// GeoRedisClient wraps a go-redis client with the geo-index helpers used by the DAOs.
type GeoRedisClient struct {
	client *redis.Client
}

// NewGeoRedisClient wraps an already configured go-redis client.
func NewGeoRedisClient(client *redis.Client) *GeoRedisClient {
	return &GeoRedisClient{client: client}
}

// Set sets a key-value pair in Redis
func (r *GeoRedisClient) Set(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, key, value, 0).Err()
}

// SetWithTTL sets a key that expires after ttl.
func (r *GeoRedisClient) SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

// Get retrieves the value for a given key from Redis
func (r *GeoRedisClient) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	return val, err
}

// AddLocationWithJSON stores geolocation along with associated JSON data.
func (r *GeoRedisClient) AddLocationWithJSON(ctx context.Context, geoKey, memberKey string, lat, lon float64, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.GeoAdd(ctx, geoKey, &redis.GeoLocation{
			Name:      memberKey,
			Latitude:  lat,
			Longitude: lon,
		})
		pipe.Set(ctx, memberKey, jsonData, 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to add geolocation: %w", err)
	}

	log.Printf("[GeoRedisClient] Added geolocation and JSON for member: %s", memberKey)
	return nil
}

// RemoveLocation drops a member from the geo index together with its JSON document.
func (r *GeoRedisClient) RemoveLocation(ctx context.Context, geoKey, memberKey string) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRem(ctx, geoKey, memberKey)
		pipe.Del(ctx, memberKey)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to remove geolocation %s: %w", memberKey, err)
	}
	return nil
}

// GetLocationsWithinRadius finds all members within radiusMeters of the point, nearest
// first, and returns them with their distance and JSON data.
func (r *GeoRedisClient) GetLocationsWithinRadius(ctx context.Context, key string, lat, lon, radiusMeters float64) ([]GeoMember, error) {
	results, err := r.client.GeoRadius(ctx, key, lon, lat, &redis.GeoRadiusQuery{
		Radius:   radiusMeters,
		Unit:     "m",
		WithDist: true,
		Sort:     "ASC",
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get nearby locations: %w", err)
	}
	if len(results) == 0 {
		return nil, nil
	}

	keys := make([]string, len(results))
	for i, loc := range results {
		keys[i] = loc.Name
	}
	docs, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read location documents: %w", err)
	}

	members := make([]GeoMember, 0, len(results))
	for i, loc := range results {
		data, ok := docs[i].(string)
		if !ok {
			log.Printf("[GeoRedisClient] Skipping member %s: no JSON document", loc.Name)
			continue
		}
		members = append(members, GeoMember{Name: loc.Name, DistanceMeters: loc.Dist, Data: data})
	}
	return members, nil
}

func (r *GeoRedisClient) Keys(ctx context.Context, pattern string) ([]string, error) {
	var keys []string
	iter := r.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan keys %q: %w", pattern, err)
	}
	return keys, nil
}

func (r *GeoRedisClient) Del(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

func (r *GeoRedisClient) Ping(ctx context.Context) error {
	_, err := r.client.Ping(ctx).Result()
	return err
}
