package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"specials-server/db"
	"specials-server/geo"
	"specials-server/models/venue"
)

const VENUES_GEO_KEY_V1 = "venues_geo_v1"
const VENUES_GEO_PLACE_MEMBER_FORMAT_V1 = "venues_geo_place_v1:%s"

// ErrVenueNotFound is returned when no venue is stored under the requested ID.
var ErrVenueNotFound = venue.ErrNotFound

// RedisVenueDAO handles venue operations using Redis.
type RedisVenueDAO struct {
	client db.RedisClient
}

// NewRedisVenueDAO initializes a RedisVenueDAO with the Redis client.
func NewRedisVenueDAO(client db.RedisClient) *RedisVenueDAO {
	return &RedisVenueDAO{client: client}
}

func venueKey(id string) string {
	return fmt.Sprintf(VENUES_GEO_PLACE_MEMBER_FORMAT_V1, id)
}

// UpsertVenue stores the venue as a geolocation with the venue's JSON data.
func (dao *RedisVenueDAO) UpsertVenue(ctx context.Context, v venue.Venue) error {
	if v.ID == "" {
		return errors.New("[RedisVenueDAO] venue ID is required")
	}
	return dao.client.AddLocationWithJSON(ctx, VENUES_GEO_KEY_V1, venueKey(v.ID), v.Location.Lat, v.Location.Lon, v)
}

// DeleteVenue removes the venue from the geo index.
func (dao *RedisVenueDAO) DeleteVenue(ctx context.Context, id string) error {
	if err := dao.client.RemoveLocation(ctx, VENUES_GEO_KEY_V1, venueKey(id)); err != nil {
		return fmt.Errorf("[RedisVenueDAO] failed to delete venue %s: %w", id, err)
	}
	log.Printf("[RedisVenueDAO] Deleted venue %s", id)
	return nil
}

// GetVenue loads a single venue by ID.
func (dao *RedisVenueDAO) GetVenue(ctx context.Context, id string) (*venue.Venue, error) {
	raw, err := dao.client.Get(ctx, venueKey(id))
	if errors.Is(err, db.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrVenueNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("[RedisVenueDAO] failed to get venue %s: %w", id, err)
	}
	var v venue.Venue
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, fmt.Errorf("failed to unmarshal venue JSON: %w", err)
	}
	return &v, nil
}

// FindWithinRadius returns venues within radiusMeters of the point, annotated with
// the distance Redis computed. Documents that fail to decode are skipped.
func (dao *RedisVenueDAO) FindWithinRadius(ctx context.Context, point geo.Point, radiusMeters float64) ([]venue.VenueWithDistance, error) {
	members, err := dao.client.GetLocationsWithinRadius(ctx, VENUES_GEO_KEY_V1, point.Lat, point.Lon, radiusMeters)
	if err != nil {
		return nil, fmt.Errorf("[RedisVenueDAO] failed to get venues: %w", err)
	}

	venues := make([]venue.VenueWithDistance, 0, len(members))
	for _, m := range members {
		var v venue.Venue
		if err := json.Unmarshal([]byte(m.Data), &v); err != nil {
			log.Printf("[RedisVenueDAO] Skipping %s: failed to unmarshal venue JSON: %v", m.Name, err)
			continue
		}
		venues = append(venues, venue.VenueWithDistance{Venue: v, DistanceMeters: m.DistanceMeters})
	}
	return venues, nil
}

// ListAllVenueIDs returns all venue IDs present in the geo index.
func (dao *RedisVenueDAO) ListAllVenueIDs(ctx context.Context) ([]string, error) {
	pattern := venueKey("*")
	keys, err := dao.client.Keys(ctx, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to list venue geo keys: %w", err)
	}
	ids := make([]string, 0, len(keys))
	prefix := venueKey("")
	for _, k := range keys {
		ids = append(ids, strings.TrimPrefix(k, prefix))
	}
	return ids, nil
}
