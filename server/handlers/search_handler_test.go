package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"specials-server/geo"
	"specials-server/models"
	services "specials-server/service"
)

type stubSearcher struct {
	got    models.SearchQuery
	result *models.SearchResult
	err    error
}

func (s *stubSearcher) Search(ctx context.Context, q models.SearchQuery) (*models.SearchResult, error) {
	s.got = q
	return s.result, s.err
}

func TestSearchHandler_SearchSpecials(t *testing.T) {
	searcher := &stubSearcher{result: &models.SearchResult{
		Items:      []models.SearchResultItem{},
		Pagination: models.NewPageInfo(2, 5, 0),
		Origin:     models.GeocodeResult{Point: geo.Point{Lat: 1, Lon: 2}},
	}}
	h := NewSearchHandler(searcher, 20)

	req := httptest.NewRequest("GET", "/v1/specials/search?address=1+George+St&radius=2.5&q=pizza&type=food&at=2024-06-01T18:00:00Z&active_only=false&page=2&page_size=5", nil)
	rr := httptest.NewRecorder()
	h.SearchSpecials(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	at := time.Date(2024, time.June, 1, 18, 0, 0, 0, time.UTC)
	assert.Equal(t, models.SearchQuery{
		Address:          "1 George St",
		RadiusMiles:      2.5,
		SearchText:       "pizza",
		SpecialType:      "food",
		ReferenceInstant: &at,
		ActiveOnly:       false,
		Page:             2,
		PageSize:         5,
	}, searcher.got)

	var body models.SearchResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Pagination.Page)
}

func TestSearchHandler_Defaults(t *testing.T) {
	searcher := &stubSearcher{result: &models.SearchResult{}}
	h := NewSearchHandler(searcher, 20)

	rr := httptest.NewRecorder()
	h.SearchSpecials(rr, httptest.NewRequest("GET", "/v1/specials/search?address=x&radius=1", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, searcher.got.ActiveOnly)
	assert.Equal(t, 1, searcher.got.Page)
	assert.Equal(t, 20, searcher.got.PageSize)
	assert.Nil(t, searcher.got.ReferenceInstant)
}

func TestSearchHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		err        error
		statusCode int
		body       string
	}{
		{"missing radius", "/v1/specials/search?address=x", nil, http.StatusBadRequest, "radius"},
		{"bad at", "/v1/specials/search?address=x&radius=1&at=yesterday", nil, http.StatusBadRequest, "at"},
		{"bad page", "/v1/specials/search?address=x&radius=1&page=one", nil, http.StatusBadRequest, "page"},
		{"bad active_only", "/v1/specials/search?address=x&radius=1&active_only=maybe", nil, http.StatusBadRequest, "active_only"},
		{"invalid query", "/v1/specials/search?address=x&radius=1",
			&services.QueryError{Field: "radius", Reason: "must be positive"}, http.StatusBadRequest, "radius must be positive"},
		{"location not resolved", "/v1/specials/search?address=x&radius=1",
			&services.LocationError{Address: "x"}, http.StatusNotFound, LOCATION_NOT_FOUND_MESSAGE},
		{"geocoder down", "/v1/specials/search?address=x&radius=1",
			&services.LocationError{Address: "x", Err: services.ErrProviderUnavailable}, http.StatusServiceUnavailable, "unavailable"},
		{"unexpected", "/v1/specials/search?address=x&radius=1",
			errors.New("boom"), http.StatusInternalServerError, "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewSearchHandler(&stubSearcher{err: tt.err, result: &models.SearchResult{}}, 20)
			rr := httptest.NewRecorder()

			h.SearchSpecials(rr, httptest.NewRequest("GET", tt.path, nil))

			assert.Equal(t, tt.statusCode, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.body)
		})
	}
}
