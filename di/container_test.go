package di

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"specials-server/api/geocoding"
	"specials-server/config"
	"specials-server/geo"
	"specials-server/models"
	"specials-server/models/venue"
)

func sqliteConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	t.Setenv("PROJECT_ROOT", root)
	cfg := config.Default()
	cfg.Store.Driver = config.StoreDriverSQLite
	cfg.Store.SQLite.Path = filepath.Join(root, "data", "specials.db")
	return cfg
}

func TestNewContainer_SQLiteWiresSearch(t *testing.T) {
	cfg := sqliteConfig(t)
	fixtures := `{"1 George St": {"point": {"lat": -33.86, "lon": 151.2}, "display_name": "George St"}}`
	require.NoError(t, os.MkdirAll(filepath.Join(config.BaseDir(), config.RESOURCES_PATH_PREFIX), 0o755))
	require.NoError(t, os.WriteFile(config.GetResourcePath(config.GEOCODE_FIXTURES_RESOURCE), []byte(fixtures), 0o644))

	c, err := NewContainer(context.Background(), cfg)
	require.NoError(t, err)
	defer c.Close()

	assert.NotNil(t, c.SQLiteDB)
	assert.Nil(t, c.RedisClient)
	assert.IsType(t, &geocoding.GeocodingApiClientMock{}, c.GeocodingAPI)

	ctx := context.Background()
	require.NoError(t, c.VenueStore.UpsertVenue(ctx, venue.Venue{
		ID: "v1", Name: "George Bar", Location: geo.Point{Lat: -33.861, Lon: 151.2},
	}))

	result, err := c.SearchService.Search(ctx, models.SearchQuery{
		Address: "1 George St", RadiusMiles: 1, Page: 1, PageSize: 10,
	})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "v1", result.Items[0].Venue.ID)

	cached, ok, err := c.GeocodeCache.GetGeocode(ctx, "1 george st")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "George St", cached.DisplayName)
}

func TestNewContainer_ProdUsesNominatim(t *testing.T) {
	cfg := sqliteConfig(t)
	cfg.Env = "prod"
	cfg.Geocoding.TimeoutSeconds = 1

	c, err := NewContainer(context.Background(), cfg)
	require.NoError(t, err)
	defer c.Close()

	assert.IsType(t, &geocoding.NominatimApiClient{}, c.GeocodingAPI)
	assert.Equal(t, time.Second, cfg.GeocodingTimeout())
}

func TestNewContainer_UnknownDriver(t *testing.T) {
	cfg := sqliteConfig(t)
	cfg.Store.Driver = "postgres"

	_, err := NewContainer(context.Background(), cfg)

	assert.ErrorContains(t, err, `unknown store driver "postgres"`)
}

func TestNewContainer_CorruptFixtures(t *testing.T) {
	cfg := sqliteConfig(t)
	require.NoError(t, os.MkdirAll(filepath.Join(config.BaseDir(), config.RESOURCES_PATH_PREFIX), 0o755))
	require.NoError(t, os.WriteFile(config.GetResourcePath(config.GEOCODE_FIXTURES_RESOURCE), []byte("{"), 0o644))

	_, err := NewContainer(context.Background(), cfg)

	assert.ErrorContains(t, err, "geocode fixtures")
}
