package geocoding

import (
	"context"
	"strings"
	"sync"

	"specials-server/models"
)

// GeocodingApiClientMock answers from an in-memory address table.
type GeocodingApiClientMock struct {
	mu      sync.Mutex
	results map[string]models.GeocodeResult
	calls   int

	// Err, when set, is returned by Geocode.
	Err error
}

// NewGeocodingApiClientMock creates a mock seeded with address -> result entries.
func NewGeocodingApiClientMock(entries map[string]models.GeocodeResult) *GeocodingApiClientMock {
	m := &GeocodingApiClientMock{results: make(map[string]models.GeocodeResult, len(entries))}
	for addr, res := range entries {
		m.results[normalise(addr)] = res
	}
	return m
}

func normalise(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

func (m *GeocodingApiClientMock) Add(address string, res models.GeocodeResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[normalise(address)] = res
}

// Calls returns how many times Geocode was invoked.
func (m *GeocodingApiClientMock) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *GeocodingApiClientMock) Geocode(ctx context.Context, address string) ([]models.GeocodeResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.Err != nil {
		return nil, m.Err
	}
	res, ok := m.results[normalise(address)]
	if !ok {
		return nil, nil
	}
	return []models.GeocodeResult{res}, nil
}
