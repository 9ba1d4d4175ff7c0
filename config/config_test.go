package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, StoreDriverRedis, cfg.Store.Driver)
	assert.Equal(t, REDIS_DB_ADDRESS, cfg.Store.Redis.Address)
	assert.Equal(t, HTTP_ADDRESS, cfg.HTTP.Address)
	assert.Equal(t, SEARCH_DEFAULT_PAGE_SIZE, cfg.Search.DefaultPageSize)
	assert.False(t, cfg.IsProd())
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
env: prod
http:
  address: ":9090"
store:
  driver: sqlite
  sqlite:
    path: /tmp/specials.db
geocoding:
  base_url: http://geocoder.local
  requests_per_second: 5
search:
  evaluation_workers: 4
catalog:
  refresh_minutes: 15
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.IsProd())
	assert.Equal(t, ":9090", cfg.HTTP.Address)
	assert.Equal(t, StoreDriverSQLite, cfg.Store.Driver)
	assert.Equal(t, "/tmp/specials.db", cfg.Store.SQLite.Path)
	assert.Equal(t, "http://geocoder.local", cfg.Geocoding.BaseURL)
	assert.Equal(t, 5.0, cfg.Geocoding.RequestsPerSecond)
	assert.Equal(t, 4, cfg.Search.EvaluationWorkers)
	assert.Equal(t, 15, cfg.Catalog.RefreshMinutes)
	// untouched keys keep their defaults
	assert.Equal(t, GEOCODING_USER_AGENT, cfg.Geocoding.UserAgent)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "store:\n  driver: sqlite\n")
	t.Setenv("SPECIALS_STORE_DRIVER", "redis")
	t.Setenv("SPECIALS_REDIS_ADDRESS", "localhost:6380")
	t.Setenv("SPECIALS_REDIS_DB", "3")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, StoreDriverRedis, cfg.Store.Driver)
	assert.Equal(t, "localhost:6380", cfg.Store.Redis.Address)
	assert.Equal(t, 3, cfg.Store.Redis.DB)
}

func TestLoad_InvalidEnvNumber(t *testing.T) {
	t.Setenv("SPECIALS_REDIS_DB", "three")
	_, err := Load("")
	assert.ErrorContains(t, err, "SPECIALS_REDIS_DB")
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"unknown driver", "store:\n  driver: postgres\n", `unknown store.driver "postgres"`},
		{"bad rate", "geocoding:\n  requests_per_second: 0\n", "requests_per_second"},
		{"negative workers", "search:\n  evaluation_workers: -1\n", "evaluation_workers"},
		{"bad yaml", "store: [", "parsing config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "reading config")
}

func TestGetResourcePath_UsesProjectRoot(t *testing.T) {
	t.Setenv("PROJECT_ROOT", "/srv/specials")
	assert.Equal(t, "/srv/specials/resources/venue_catalog.json", GetResourcePath(VENUE_CATALOG_RESOURCE))
}
