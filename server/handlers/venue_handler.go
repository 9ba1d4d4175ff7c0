package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"specials-server/geo"
	"specials-server/models"
	"specials-server/models/venue"
)

const (
	LAT_QUERY_ARG = "lat"
	LON_QUERY_ARG = "lon"
	VENUE_ID_VAR  = "id"
)

type NearbyLister interface {
	Nearby(ctx context.Context, point geo.Point, radiusMiles float64, page, pageSize int, at *time.Time) (*models.SearchResult, error)
}

type VenueReader interface {
	GetVenue(ctx context.Context, id string) (*venue.Venue, error)
	ActiveSpecials(ctx context.Context, id string, at *time.Time) ([]venue.Special, time.Time, error)
}

// ActiveSpecialsResponse is the body of GET /v1/venues/{id}/specials/active.
type ActiveSpecialsResponse struct {
	VenueID          string          `json:"venue_id"`
	ReferenceInstant time.Time       `json:"reference_instant"`
	ActiveSpecials   []venue.Special `json:"active_specials"`
}

type VenueHandler struct {
	nearby          NearbyLister
	venues          VenueReader
	defaultPageSize int
}

func NewVenueHandler(nearby NearbyLister, venues VenueReader, defaultPageSize int) *VenueHandler {
	return &VenueHandler{nearby: nearby, venues: venues, defaultPageSize: defaultPageSize}
}

// GetVenuesNearby handles GET /v1/venues/nearby?lat=&lon=&radius=
func (h *VenueHandler) GetVenuesNearby(w http.ResponseWriter, r *http.Request) {
	vals := r.URL.Query()

	lat, err := parseArgFloat64(vals, LAT_QUERY_ARG)
	if err != nil {
		writeError(w, err)
		return
	}
	lon, err := parseArgFloat64(vals, LON_QUERY_ARG)
	if err != nil {
		writeError(w, err)
		return
	}
	radius, err := parseArgFloat64(vals, RADIUS_QUERY_ARG)
	if err != nil {
		writeError(w, err)
		return
	}
	page, err := parseArgInt(vals, PAGE_QUERY_ARG, 1)
	if err != nil {
		writeError(w, err)
		return
	}
	pageSize, err := parseArgInt(vals, PAGE_SIZE_QUERY_ARG, h.defaultPageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	at, err := parseArgTime(vals, AT_QUERY_ARG)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := h.nearby.Nearby(r.Context(), geo.Point{Lat: lat, Lon: lon}, radius, page, pageSize, at)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// GetVenue handles GET /v1/venues/{id}
func (h *VenueHandler) GetVenue(w http.ResponseWriter, r *http.Request) {
	v, err := h.venues.GetVenue(r.Context(), mux.Vars(r)[VENUE_ID_VAR])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// GetActiveSpecials handles GET /v1/venues/{id}/specials/active?at=
func (h *VenueHandler) GetActiveSpecials(w http.ResponseWriter, r *http.Request) {
	at, err := parseArgTime(r.URL.Query(), AT_QUERY_ARG)
	if err != nil {
		writeError(w, err)
		return
	}
	id := mux.Vars(r)[VENUE_ID_VAR]
	active, ref, err := h.venues.ActiveSpecials(r.Context(), id, at)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ActiveSpecialsResponse{VenueID: id, ReferenceInstant: ref, ActiveSpecials: active})
}

// Ping handles GET /ping
func (h *VenueHandler) Ping(w http.ResponseWriter, r *http.Request) {
	log.Println("Pinging server")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "pong"})
}
