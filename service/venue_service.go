package services

import (
	"context"
	"fmt"
	"time"

	"specials-server/activity"
	"specials-server/models/venue"
)

// VenueStore is the full set of venue operations both store drivers provide.
type VenueStore interface {
	SpatialProvider
	UpsertVenue(ctx context.Context, v venue.Venue) error
	DeleteVenue(ctx context.Context, id string) error
	GetVenue(ctx context.Context, id string) (*venue.Venue, error)
	ListAllVenueIDs(ctx context.Context) ([]string, error)
}

type VenueService struct {
	venueStore VenueStore
	evaluator  *activity.Evaluator
	now        func() time.Time
	zones      *zoneCache
}

// NewVenueService constructs a new VenueService over the configured store.
func NewVenueService(venueStore VenueStore, evaluator *activity.Evaluator) *VenueService {
	if evaluator == nil {
		evaluator = activity.NewEvaluator(nil)
	}
	return &VenueService{
		venueStore: venueStore,
		evaluator:  evaluator,
		now:        time.Now,
		zones:      newZoneCache(),
	}
}

func (vs *VenueService) SetClock(now func() time.Time) {
	vs.now = now
}

// GetVenue returns the stored venue; unknown IDs match venue.ErrNotFound.
func (vs *VenueService) GetVenue(ctx context.Context, id string) (*venue.Venue, error) {
	v, err := vs.venueStore.GetVenue(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get venue %s: %w", id, err)
	}
	return v, nil
}

// ActiveSpecials evaluates one venue's specials at the given instant in the venue's
// timezone. A nil instant means now.
func (vs *VenueService) ActiveSpecials(ctx context.Context, id string, at *time.Time) ([]venue.Special, time.Time, error) {
	v, err := vs.GetVenue(ctx, id)
	if err != nil {
		return nil, time.Time{}, err
	}
	ref := vs.now()
	if at != nil {
		ref = *at
	}
	active := vs.evaluator.ActiveSpecials(v.Specials, vs.zones.localTime(*v, ref))
	if active == nil {
		active = []venue.Special{}
	}
	return active, ref, nil
}
