package db

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"path"
	"sort"
	"sync"
	"time"

	"specials-server/geo"
)

// MockRedisClient simulates a Redis client for testing purposes. Radius queries
// compute haversine distances so results match GEORADIUS semantics.
type MockRedisClient struct {
	data    map[string]string
	expires map[string]time.Time
	geoData map[string]map[string]geo.Point
	mu      sync.RWMutex
	now     func() time.Time

	// Err, when set, is returned by every operation.
	Err error
}

// NewMockRedisClient initializes a new MockRedisClient.
func NewMockRedisClient() *MockRedisClient {
	return &MockRedisClient{
		data:    make(map[string]string),
		expires: make(map[string]time.Time),
		geoData: make(map[string]map[string]geo.Point),
		now:     time.Now,
	}
}

// SetClock replaces the clock used for TTL expiry.
func (m *MockRedisClient) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

func (m *MockRedisClient) Set(ctx context.Context, key, value string) error {
	return m.SetWithTTL(ctx, key, value, 0)
}

func (m *MockRedisClient) SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	if ttl > 0 {
		m.expires[key] = m.now().Add(ttl)
	} else {
		delete(m.expires, key)
	}
	return nil
}

func (m *MockRedisClient) Get(ctx context.Context, key string) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.lookup(key)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	return value, nil
}

func (m *MockRedisClient) lookup(key string) (string, bool) {
	if exp, ok := m.expires[key]; ok && !m.now().Before(exp) {
		return "", false
	}
	v, ok := m.data[key]
	return v, ok
}

func (m *MockRedisClient) AddLocationWithJSON(ctx context.Context, geoKey, memberKey string, lat, lon float64, data interface{}) error {
	if m.Err != nil {
		return m.Err
	}
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.geoData[geoKey]; !exists {
		m.geoData[geoKey] = make(map[string]geo.Point)
	}
	m.geoData[geoKey][memberKey] = geo.Point{Lat: lat, Lon: lon}
	m.data[memberKey] = string(jsonData)
	return nil
}

func (m *MockRedisClient) RemoveLocation(ctx context.Context, geoKey, memberKey string) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.geoData[geoKey], memberKey)
	delete(m.data, memberKey)
	return nil
}

func (m *MockRedisClient) GetLocationsWithinRadius(ctx context.Context, key string, lat, lon, radiusMeters float64) ([]GeoMember, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	origin := geo.Point{Lat: lat, Lon: lon}
	var results []GeoMember
	for memberKey, p := range m.geoData[key] {
		d := geo.DistanceMeters(origin, p)
		if d > radiusMeters {
			continue
		}
		if data, ok := m.lookup(memberKey); ok {
			results = append(results, GeoMember{Name: memberKey, DistanceMeters: d, Data: data})
		}
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].DistanceMeters != results[j].DistanceMeters {
			return results[i].DistanceMeters < results[j].DistanceMeters
		}
		return results[i].Name < results[j].Name
	})
	return results, nil
}

func (m *MockRedisClient) Ping(ctx context.Context) error {
	if m.Err != nil {
		return m.Err
	}
	log.Println("[MockRedisClient] Ping successful")
	return nil
}

// Keys matches glob patterns against stored keys, like KEYS/SCAN MATCH.
func (m *MockRedisClient) Keys(ctx context.Context, pattern string) ([]string, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var keys []string
	for k := range m.data {
		if _, ok := m.lookup(k); !ok {
			continue
		}
		if ok, _ := path.Match(pattern, k); ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *MockRedisClient) Del(ctx context.Context, key string) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	delete(m.expires, key)
	return nil
}
