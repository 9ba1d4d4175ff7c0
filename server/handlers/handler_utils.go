package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"specials-server/models/venue"
	services "specials-server/service"
)

const (
	AT_QUERY_ARG        = "at"
	PAGE_QUERY_ARG      = "page"
	PAGE_SIZE_QUERY_ARG = "page_size"
	RADIUS_QUERY_ARG    = "radius"
)

const LOCATION_NOT_FOUND_MESSAGE = "we couldn't find that location"

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Println("Error encoding response:", err)
	}
}

// writeError maps service errors onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidQuery):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, services.ErrProviderUnavailable):
		log.Println("Provider unavailable:", err)
		http.Error(w, "Service temporarily unavailable", http.StatusServiceUnavailable)
	case errors.Is(err, services.ErrLocationNotResolved):
		http.Error(w, LOCATION_NOT_FOUND_MESSAGE, http.StatusNotFound)
	case errors.Is(err, venue.ErrNotFound):
		http.Error(w, "Venue not found", http.StatusNotFound)
	default:
		log.Println("Internal error:", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func invalidArg(name string, err error) error {
	return &services.QueryError{Field: name, Reason: fmt.Sprintf("is invalid: %v", err)}
}

func parseArgFloat64(vals url.Values, name string) (float64, error) {
	f, err := strconv.ParseFloat(vals.Get(name), 64)
	if err != nil {
		return 0, invalidArg(name, err)
	}
	return f, nil
}

func parseArgInt(vals url.Values, name string, fallback int) (int, error) {
	s := vals.Get(name)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, invalidArg(name, err)
	}
	return n, nil
}

func parseArgBool(vals url.Values, name string, fallback bool) (bool, error) {
	s := vals.Get(name)
	if s == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, invalidArg(name, err)
	}
	return b, nil
}

// parseArgTime reads an RFC 3339 instant; absent means nil.
func parseArgTime(vals url.Values, name string) (*time.Time, error) {
	s := vals.Get(name)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, invalidArg(name, err)
	}
	return &t, nil
}
