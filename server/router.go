package server

import (
	"net/http"

	"github.com/gorilla/mux"
)

type SearchHandler interface {
	SearchSpecials(w http.ResponseWriter, r *http.Request)
}

type VenueHandler interface {
	GetVenuesNearby(w http.ResponseWriter, r *http.Request)
	GetVenue(w http.ResponseWriter, r *http.Request)
	GetActiveSpecials(w http.ResponseWriter, r *http.Request)
	Ping(w http.ResponseWriter, r *http.Request)
}

type Router struct {
	searchHandler SearchHandler
	venueHandler  VenueHandler
	router        *mux.Router
}

// NewRouter creates a router with the app’s routes.
func NewRouter(
	searchHandler SearchHandler,
	venueHandler VenueHandler,
	router *mux.Router) *Router {
	return &Router{
		searchHandler: searchHandler,
		venueHandler:  venueHandler,
		router:        router,
	}
}

func (r *Router) RegisterRoutes() {
	// expects ?address={string}&radius={miles(float)} with optional q, type, at, active_only, page, page_size
	r.router.HandleFunc("/v1/specials/search", r.searchHandler.SearchSpecials).Methods("GET")

	// expects ?lat={latitude(float)}&lon={longitude(float)}&radius={miles(float)}
	r.router.HandleFunc("/v1/venues/nearby", r.venueHandler.GetVenuesNearby).Methods("GET")
	r.router.HandleFunc("/v1/venues/{id}", r.venueHandler.GetVenue).Methods("GET")
	r.router.HandleFunc("/v1/venues/{id}/specials/active", r.venueHandler.GetActiveSpecials).Methods("GET")

	r.router.HandleFunc("/ping", r.venueHandler.Ping).Methods("GET")
}
