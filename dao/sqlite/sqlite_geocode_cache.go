package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"specials-server/models"
)

const timeLayout = "2006-01-02T15:04:05Z"

// SQLiteGeocodeCache stores geocoding results with an expiry timestamp.
type SQLiteGeocodeCache struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

func NewSQLiteGeocodeCache(db *sql.DB, ttl time.Duration) *SQLiteGeocodeCache {
	return &SQLiteGeocodeCache{db: db, ttl: ttl, now: time.Now}
}

func normaliseAddress(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

// GetGeocode returns the cached result; ok is false on a miss or an expired row.
func (c *SQLiteGeocodeCache) GetGeocode(ctx context.Context, address string) (models.GeocodeResult, bool, error) {
	row := c.db.QueryRowContext(ctx,
		`SELECT lat, lon, display_name, importance FROM geocode_cache
		 WHERE address = ? AND expires_at > ?`,
		normaliseAddress(address), c.now().UTC().Format(timeLayout),
	)

	var res models.GeocodeResult
	err := row.Scan(&res.Point.Lat, &res.Point.Lon, &res.DisplayName, &res.Importance)
	if errors.Is(err, sql.ErrNoRows) {
		return models.GeocodeResult{}, false, nil
	}
	if err != nil {
		return models.GeocodeResult{}, false, fmt.Errorf("query geocode cache: %w", err)
	}
	return res, true, nil
}

func (c *SQLiteGeocodeCache) SetGeocode(ctx context.Context, address string, res models.GeocodeResult) error {
	expires := c.now().Add(c.ttl).UTC().Format(timeLayout)
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO geocode_cache (address, lat, lon, display_name, importance, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (address) DO UPDATE SET
		   lat = excluded.lat, lon = excluded.lon, display_name = excluded.display_name,
		   importance = excluded.importance, expires_at = excluded.expires_at`,
		normaliseAddress(address), res.Point.Lat, res.Point.Lon, res.DisplayName, res.Importance, expires,
	)
	if err != nil {
		return fmt.Errorf("upsert geocode cache: %w", err)
	}
	return nil
}
