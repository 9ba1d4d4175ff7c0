package geocoding

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"golang.org/x/time/rate"

	"specials-server/api"
	"specials-server/geo"
	"specials-server/models"
)

const DEFAULT_RESULT_LIMIT = 5

// nominatimPlace is one element of the /search jsonv2 response.
type nominatimPlace struct {
	Lat         string  `json:"lat"`
	Lon         string  `json:"lon"`
	DisplayName string  `json:"display_name"`
	Importance  float64 `json:"importance"`
}

// NominatimApiClient embeds the common HTTPClient and throttles calls to the
// provider's published request rate.
type NominatimApiClient struct {
	*api.HTTPClient
	limiter *rate.Limiter
	limit   int
}

// NewNominatimApiClient creates a client allowing requestsPerSecond sustained calls.
func NewNominatimApiClient(httpClient *api.HTTPClient, userAgent string, requestsPerSecond float64) *NominatimApiClient {
	if userAgent != "" {
		httpClient.Headers["User-Agent"] = userAgent
	}
	return &NominatimApiClient{
		HTTPClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		limit:      DEFAULT_RESULT_LIMIT,
	}
}

// Geocode queries /search and converts the string coordinates into points.
func (c *NominatimApiClient) Geocode(ctx context.Context, address string) ([]models.GeocodeResult, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("geocoding rate limiter: %w", err)
	}

	query := url.Values{}
	query.Set("q", address)
	query.Set("format", "jsonv2")
	query.Set("limit", strconv.Itoa(c.limit))

	var places []nominatimPlace
	if err := c.Request(ctx, "GET", "/search", query, nil, nil, &places); err != nil {
		return nil, fmt.Errorf("geocoding %q: %w", address, err)
	}

	results := make([]models.GeocodeResult, 0, len(places))
	for _, p := range places {
		lat, err := strconv.ParseFloat(p.Lat, 64)
		if err != nil {
			continue
		}
		lon, err := strconv.ParseFloat(p.Lon, 64)
		if err != nil {
			continue
		}
		point := geo.Point{Lat: lat, Lon: lon}
		if !point.Valid() {
			continue
		}
		results = append(results, models.GeocodeResult{
			Point:       point,
			DisplayName: p.DisplayName,
			Importance:  p.Importance,
		})
	}
	return results, nil
}
