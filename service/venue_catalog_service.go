package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"specials-server/activity"
	"specials-server/api/geocoding"
	"specials-server/geo"
	"specials-server/models/venue"
	"specials-server/util"
)

// CatalogReport summarises one catalog import.
type CatalogReport struct {
	Read       int `json:"read"`
	Upserted   int `json:"upserted"`
	Geocoded   int `json:"geocoded"`
	Duplicates int `json:"duplicates"`
	Skipped    int `json:"skipped"`
	Removed    int `json:"removed"`
}

// VenueCatalogService imports a JSON venue catalog into the venue store.
type VenueCatalogService struct {
	venueStore   VenueStore
	geocodingAPI geocoding.GeocodingAPI
	recurrence   *activity.CronRecurrence
}

// NewVenueCatalogService constructs a new VenueCatalogService with its dependencies.
func NewVenueCatalogService(
	venueStore VenueStore,
	geocodingAPI geocoding.GeocodingAPI,
) *VenueCatalogService {
	return &VenueCatalogService{
		venueStore:   venueStore,
		geocodingAPI: geocodingAPI,
		recurrence:   activity.NewCronRecurrence(),
	}
}

// StartPeriodicJob reloads the catalog every interval until ctx is done.
func (cs *VenueCatalogService) StartPeriodicJob(ctx context.Context, path string, interval time.Duration) {
	go cs.startPeriodicJob(ctx, path, interval)
}

func (cs *VenueCatalogService) startPeriodicJob(ctx context.Context, path string, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("[VenueCatalogService] Periodic catalog job stopped.")
			return
		case <-ticker.C:
			log.Println("[VenueCatalogService] Running periodic catalog job.")
			if report, err := cs.LoadCatalog(ctx, path, false); err != nil {
				log.Printf("[VenueCatalogService] LoadCatalog returned error: %v", err)
			} else {
				log.Printf("[VenueCatalogService] LoadCatalog completed: %+v", *report)
			}
		}
	}
}

// LoadCatalog reads the catalog at path, assigns missing IDs, geocodes venues without a
// location and upserts the result. With prune, stored venues absent from the catalog are deleted.
func (cs *VenueCatalogService) LoadCatalog(ctx context.Context, path string, prune bool) (*CatalogReport, error) {
	venues, err := util.ReadVenueCatalogFromJSON(path)
	if err != nil {
		return nil, err
	}
	return cs.Import(ctx, venues, prune)
}

// Import upserts venues. Individual venue failures are logged and counted as skipped;
// only store-wide failures abort the import.
func (cs *VenueCatalogService) Import(ctx context.Context, venues []venue.Venue, prune bool) (*CatalogReport, error) {
	report := &CatalogReport{Read: len(venues)}
	seenIDs := make(map[string]struct{}, len(venues))

	log.Printf("[VenueCatalogService] Importing %d venues", len(venues))
	for _, v := range venues {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		if v.ID == "" {
			v.ID = uuid.NewString()
			log.Printf("[VenueCatalogService] Assigned id=%s to venue %q", v.ID, v.Name)
		}
		if _, dup := seenIDs[v.ID]; dup {
			log.Printf("[VenueCatalogService] Skipping duplicate venue ID=%s", v.ID)
			report.Duplicates++
			continue
		}
		seenIDs[v.ID] = struct{}{}

		if strings.TrimSpace(v.Name) == "" {
			log.Printf("[VenueCatalogService] Skipping venue %s without a name", v.ID)
			report.Skipped++
			continue
		}

		if v.Location.IsZero() {
			geocoded, err := cs.locate(ctx, v)
			if err != nil {
				log.Printf("[VenueCatalogService] Skipping venue %s: %v", v.ID, err)
				report.Skipped++
				continue
			}
			v.Location = geocoded
			report.Geocoded++
		}
		if !v.Location.Valid() {
			log.Printf("[VenueCatalogService] Skipping venue %s with invalid location %+v", v.ID, v.Location)
			report.Skipped++
			continue
		}
		cs.warnInvalidRules(v)

		if err := cs.venueStore.UpsertVenue(ctx, v); err != nil {
			return report, fmt.Errorf("upsert venue %s: %w", v.ID, err)
		}
		report.Upserted++
	}

	if prune {
		removed, err := cs.prune(ctx, seenIDs)
		report.Removed = removed
		if err != nil {
			return report, err
		}
	}

	log.Printf("[VenueCatalogService] Import finished: %+v", *report)
	return report, nil
}

func (cs *VenueCatalogService) locate(ctx context.Context, v venue.Venue) (geo.Point, error) {
	if strings.TrimSpace(v.Address) == "" {
		return geo.Point{}, errors.New("no location and no address")
	}
	candidates, err := cs.geocodingAPI.Geocode(ctx, v.Address)
	if err != nil {
		return geo.Point{}, fmt.Errorf("geocoding %q: %w", v.Address, err)
	}
	if len(candidates) == 0 {
		return geo.Point{}, fmt.Errorf("no geocoding match for %q", v.Address)
	}
	return candidates[0].Point, nil
}

// warnInvalidRules logs recurring specials whose rule never fires; they are still stored.
func (cs *VenueCatalogService) warnInvalidRules(v venue.Venue) {
	for _, s := range v.Specials {
		if s.IsRecurring && !cs.recurrence.Valid(s.CronSchedule) {
			log.Printf("[VenueCatalogService] Venue %s special %s has unparsable rule %q", v.ID, s.ID, s.CronSchedule)
		}
	}
}

func (cs *VenueCatalogService) prune(ctx context.Context, keep map[string]struct{}) (int, error) {
	ids, err := cs.venueStore.ListAllVenueIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("list venues: %w", err)
	}
	removed := 0
	for _, id := range ids {
		if _, ok := keep[id]; ok {
			continue
		}
		if err := cs.venueStore.DeleteVenue(ctx, id); err != nil {
			return removed, fmt.Errorf("delete venue %s: %w", id, err)
		}
		log.Printf("[VenueCatalogService] Pruned venue %s", id)
		removed++
	}
	return removed, nil
}
