package services

import (
	"context"
	"log"
	"math"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"specials-server/activity"
	"specials-server/config"
	"specials-server/geo"
	"specials-server/models"
	"specials-server/models/venue"
)

// SpatialProvider returns every stored venue within radiusMeters of point.
// Implemented by the Redis and SQLite venue DAOs.
type SpatialProvider interface {
	FindWithinRadius(ctx context.Context, point geo.Point, radiusMeters float64) ([]venue.VenueWithDistance, error)
}

// SearchService answers proximity searches for venues and their specials.
// It only reads from its providers and keeps no state between searches.
type SearchService struct {
	spatial           SpatialProvider
	resolver          *LocationResolver
	evaluator         *activity.Evaluator
	workers           int
	parallelThreshold int
	now               func() time.Time
	zones             *zoneCache
}

// NewSearchService wires the search pipeline. A nil evaluator uses cron recurrence rules.
func NewSearchService(
	spatial SpatialProvider,
	resolver *LocationResolver,
	evaluator *activity.Evaluator,
	cfg config.SearchConfig) *SearchService {

	if evaluator == nil {
		evaluator = activity.NewEvaluator(nil)
	}
	workers := cfg.EvaluationWorkers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &SearchService{
		spatial:           spatial,
		resolver:          resolver,
		evaluator:         evaluator,
		workers:           workers,
		parallelThreshold: cfg.ParallelThreshold,
		now:               time.Now,
		zones:             newZoneCache(),
	}
}

// SetClock replaces the clock used when a query carries no reference instant.
func (s *SearchService) SetClock(now func() time.Time) {
	s.now = now
}

// Search geocodes the query address and returns one page of matching venues.
func (s *SearchService) Search(ctx context.Context, q models.SearchQuery) (*models.SearchResult, error) {
	if err := validateSearchQuery(q); err != nil {
		return nil, err
	}
	requestID := uuid.NewString()
	at := s.referenceInstant(q.ReferenceInstant)

	origin, err := s.resolver.Resolve(ctx, q.Address)
	if err != nil {
		log.Printf("[SearchService] request=%s failed to resolve %q: %v", requestID, q.Address, err)
		return nil, err
	}
	log.Printf("[SearchService] request=%s resolved %q to lat=%.6f lon=%.6f", requestID, q.Address, origin.Point.Lat, origin.Point.Lon)

	result, err := s.search(ctx, requestID, origin.Point, q, at)
	if err != nil {
		return nil, err
	}
	result.Origin = origin
	return result, nil
}

// Nearby lists venues around a known point. No geocoding happens and inactive venues are kept.
func (s *SearchService) Nearby(ctx context.Context, point geo.Point, radiusMiles float64, page, pageSize int, at *time.Time) (*models.SearchResult, error) {
	if !point.Valid() {
		return nil, &QueryError{Field: "location", Reason: "must be a valid latitude/longitude"}
	}
	q := models.SearchQuery{
		RadiusMiles:      radiusMiles,
		ReferenceInstant: at,
		Page:             page,
		PageSize:         pageSize,
	}
	if err := validatePaging(q); err != nil {
		return nil, err
	}

	result, err := s.search(ctx, uuid.NewString(), point, q, s.referenceInstant(at))
	if err != nil {
		return nil, err
	}
	result.Origin = models.GeocodeResult{Point: point}
	return result, nil
}

func (s *SearchService) referenceInstant(at *time.Time) time.Time {
	if at != nil {
		return *at
	}
	return s.now()
}

func (s *SearchService) search(ctx context.Context, requestID string, origin geo.Point, q models.SearchQuery, at time.Time) (*models.SearchResult, error) {
	radiusMeters := geo.MilesToMeters(q.RadiusMiles)

	candidates, err := s.spatial.FindWithinRadius(ctx, origin, radiusMeters)
	if err != nil {
		log.Printf("[SearchService] request=%s spatial query failed: %v", requestID, err)
		return nil, providerUnavailable("spatial store", err)
	}

	evaluated, err := s.evaluate(ctx, origin, candidates, at)
	if err != nil {
		return nil, err
	}

	items := make([]models.SearchResultItem, 0, len(evaluated))
	for _, e := range evaluated {
		if e.distanceMeters > radiusMeters {
			continue
		}
		if item, ok := e.match(q); ok {
			items = append(items, item)
		}
	}
	sortItems(items)

	page := models.NewPageInfo(q.Page, q.PageSize, len(items))
	start, end := page.Bounds()
	log.Printf("[SearchService] request=%s candidates=%d matched=%d page=%d/%d",
		requestID, len(candidates), len(items), page.Page, page.TotalPages)

	return &models.SearchResult{
		Items:            append([]models.SearchResultItem{}, items[start:end]...),
		Pagination:       page,
		ReferenceInstant: at,
	}, nil
}

// evaluatedVenue is a candidate with its specials split by activity at the reference instant.
type evaluatedVenue struct {
	venue          venue.Venue
	distanceMeters float64
	distanceMiles  float64
	active         []venue.Special
}

func (s *SearchService) evaluate(ctx context.Context, origin geo.Point, candidates []venue.VenueWithDistance, at time.Time) ([]evaluatedVenue, error) {
	out := make([]evaluatedVenue, len(candidates))
	evaluateOne := func(i int) {
		v := candidates[i].Venue
		out[i] = evaluatedVenue{
			venue:          v,
			distanceMeters: geo.DistanceMeters(origin, v.Location),
			distanceMiles:  geo.DistanceMiles(origin, v.Location),
			active:         s.evaluator.ActiveSpecials(v.Specials, s.zones.localTime(v, at)),
		}
	}

	if len(candidates) <= s.parallelThreshold {
		for i := range candidates {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			evaluateOne(i)
		}
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i := range candidates {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			evaluateOne(i)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// match applies the active-only, special type and free-text filters.
func (e evaluatedVenue) match(q models.SearchQuery) (models.SearchResultItem, bool) {
	if q.ActiveOnly && len(e.active) == 0 {
		return models.SearchResultItem{}, false
	}

	considered := e.venue.Specials
	if q.ActiveOnly {
		considered = e.active
	}
	active := e.active

	if t := strings.TrimSpace(q.SpecialType); t != "" {
		considered = specialsOfType(considered, t)
		if len(considered) == 0 {
			return models.SearchResultItem{}, false
		}
		active = specialsOfType(active, t)
	}

	if text := strings.ToLower(strings.TrimSpace(q.SearchText)); text != "" && !matchesText(e.venue, considered, text) {
		return models.SearchResultItem{}, false
	}

	if active == nil {
		active = []venue.Special{}
	}
	return models.SearchResultItem{
		Venue:          e.venue,
		DistanceMiles:  e.distanceMiles,
		ActiveSpecials: active,
	}, true
}

func specialsOfType(specials []venue.Special, specialType string) []venue.Special {
	var out []venue.Special
	for _, sp := range specials {
		if strings.EqualFold(sp.Type, specialType) {
			out = append(out, sp)
		}
	}
	return out
}

// matchesText expects text already lower-cased.
func matchesText(v venue.Venue, specials []venue.Special, text string) bool {
	if strings.Contains(strings.ToLower(v.Name), text) || strings.Contains(strings.ToLower(v.Description), text) {
		return true
	}
	for _, sp := range specials {
		if strings.Contains(strings.ToLower(sp.Content), text) {
			return true
		}
	}
	return false
}

// sortItems orders by ascending distance; equal distances fall back to venue ID.
func sortItems(items []models.SearchResultItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].DistanceMiles != items[j].DistanceMiles {
			return items[i].DistanceMiles < items[j].DistanceMiles
		}
		return items[i].Venue.ID < items[j].Venue.ID
	})
}

func validateSearchQuery(q models.SearchQuery) error {
	if strings.TrimSpace(q.Address) == "" {
		return &QueryError{Field: "address", Reason: "must not be blank"}
	}
	return validatePaging(q)
}

func validatePaging(q models.SearchQuery) error {
	if math.IsNaN(q.RadiusMiles) || math.IsInf(q.RadiusMiles, 0) || q.RadiusMiles <= 0 {
		return &QueryError{Field: "radius", Reason: "must be a positive number of miles"}
	}
	if q.Page < 1 {
		return &QueryError{Field: "page", Reason: "must be at least 1"}
	}
	if q.PageSize < 1 {
		return &QueryError{Field: "page_size", Reason: "must be at least 1"}
	}
	return nil
}

// zoneCache memoises time.LoadLocation per IANA name. Unknown names map to nil and the
// reference instant is then used in its own location.
type zoneCache struct {
	zones sync.Map
}

func newZoneCache() *zoneCache {
	return &zoneCache{}
}

func (z *zoneCache) localTime(v venue.Venue, at time.Time) time.Time {
	if v.Timezone == "" {
		return at
	}
	if cached, ok := z.zones.Load(v.Timezone); ok {
		if loc := cached.(*time.Location); loc != nil {
			return at.In(loc)
		}
		return at
	}
	loc, err := time.LoadLocation(v.Timezone)
	if err != nil {
		log.Printf("[SearchService] Unknown timezone %q on venue %s: %v", v.Timezone, v.ID, err)
		loc = nil
	}
	z.zones.Store(v.Timezone, loc)
	if loc == nil {
		return at
	}
	return at.In(loc)
}
