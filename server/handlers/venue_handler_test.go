package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"specials-server/geo"
	"specials-server/models"
	"specials-server/models/venue"
)

type stubVenues struct {
	point    geo.Point
	radius   float64
	page     int
	pageSize int
	at       *time.Time
}

func (s *stubVenues) Nearby(ctx context.Context, point geo.Point, radiusMiles float64, page, pageSize int, at *time.Time) (*models.SearchResult, error) {
	s.point, s.radius, s.page, s.pageSize, s.at = point, radiusMiles, page, pageSize, at
	return &models.SearchResult{Items: []models.SearchResultItem{}, Pagination: models.NewPageInfo(page, pageSize, 0)}, nil
}

func (s *stubVenues) GetVenue(ctx context.Context, id string) (*venue.Venue, error) {
	if id != "v1" {
		return nil, fmt.Errorf("get venue %s: %w", id, venue.ErrNotFound)
	}
	return &venue.Venue{ID: "v1", Name: "The Crown"}, nil
}

func (s *stubVenues) ActiveSpecials(ctx context.Context, id string, at *time.Time) ([]venue.Special, time.Time, error) {
	if _, err := s.GetVenue(ctx, id); err != nil {
		return nil, time.Time{}, err
	}
	ref := time.Date(2024, time.June, 3, 20, 0, 0, 0, time.UTC)
	if at != nil {
		ref = *at
	}
	return []venue.Special{{ID: "s1", Content: "Happy hour"}}, ref, nil
}

func newVenueRouter(stub *stubVenues) *mux.Router {
	h := NewVenueHandler(stub, stub, 20)
	r := mux.NewRouter()
	r.HandleFunc("/v1/venues/nearby", h.GetVenuesNearby)
	r.HandleFunc("/v1/venues/{id}", h.GetVenue)
	r.HandleFunc("/v1/venues/{id}/specials/active", h.GetActiveSpecials)
	r.HandleFunc("/ping", h.Ping)
	return r
}

func TestVenueHandler_GetVenuesNearby(t *testing.T) {
	stub := &stubVenues{}
	rr := httptest.NewRecorder()

	newVenueRouter(stub).ServeHTTP(rr, httptest.NewRequest("GET", "/v1/venues/nearby?lat=-33.88&lon=151.21&radius=3&page=2", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, geo.Point{Lat: -33.88, Lon: 151.21}, stub.point)
	assert.Equal(t, 3.0, stub.radius)
	assert.Equal(t, 2, stub.page)
	assert.Equal(t, 20, stub.pageSize)
	assert.Nil(t, stub.at)
}

func TestVenueHandler_GetVenuesNearby_InvalidArgs(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"missing lat", "/v1/venues/nearby?lon=1&radius=1"},
		{"bad lon", "/v1/venues/nearby?lat=1&lon=east&radius=1"},
		{"missing radius", "/v1/venues/nearby?lat=1&lon=1"},
		{"bad page size", "/v1/venues/nearby?lat=1&lon=1&radius=1&page_size=big"},
		{"bad at", "/v1/venues/nearby?lat=1&lon=1&radius=1&at=noon"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			newVenueRouter(&stubVenues{}).ServeHTTP(rr, httptest.NewRequest("GET", tt.path, nil))
			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}
}

func TestVenueHandler_GetVenue(t *testing.T) {
	router := newVenueRouter(&stubVenues{})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", "/v1/venues/v1", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	var v venue.Venue
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v))
	assert.Equal(t, "The Crown", v.Name)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", "/v1/venues/nope", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestVenueHandler_GetActiveSpecials(t *testing.T) {
	router := newVenueRouter(&stubVenues{})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", "/v1/venues/v1/specials/active?at=2024-06-01T18:00:00%2B10:00", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var body ActiveSpecialsResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "v1", body.VenueID)
	assert.True(t, body.ReferenceInstant.Equal(time.Date(2024, time.June, 1, 8, 0, 0, 0, time.UTC)))
	require.Len(t, body.ActiveSpecials, 1)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", "/v1/venues/nope/specials/active", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestVenueHandler_Ping(t *testing.T) {
	rr := httptest.NewRecorder()
	newVenueRouter(&stubVenues{}).ServeHTTP(rr, httptest.NewRequest("GET", "/ping", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status": "pong"}`, rr.Body.String())
}
