package cmd

import (
	"bytes"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"specials-server/geo"
	"specials-server/models"
	"specials-server/models/venue"
)

func TestPrintSearchResult(t *testing.T) {
	result := &models.SearchResult{
		Origin: models.GeocodeResult{DisplayName: "Surry Hills"},
		Items: []models.SearchResultItem{{
			Venue:          venue.Venue{ID: "v1", Name: "The Crown", Location: geo.Point{Lat: 1, Lon: 1}},
			DistanceMiles:  0.25,
			ActiveSpecials: []venue.Special{{Content: "Half price wings"}, {Content: "$5 pints"}},
		}},
		Pagination:       models.NewPageInfo(1, 20, 1),
		ReferenceInstant: time.Date(2024, time.June, 1, 18, 0, 0, 0, time.UTC),
	}

	var buf bytes.Buffer
	printSearchResult(&buf, result)

	out := buf.String()
	assert.Contains(t, out, "Near Surry Hills at 2024-06-01T18:00:00Z")
	assert.Contains(t, out, "0.25 mi")
	assert.Contains(t, out, "Half price wings; $5 pints")
	assert.Contains(t, out, "Page 1 of 1 (1 venues)")
	assert.NotContains(t, out, "More results")
}

func TestPrintSearchResult_MorePages(t *testing.T) {
	result := &models.SearchResult{
		Items:      []models.SearchResultItem{{Venue: venue.Venue{ID: "v1", Name: "The Crown"}}},
		Pagination: models.NewPageInfo(2, 1, 3),
	}

	var buf bytes.Buffer
	printSearchResult(&buf, result)

	out := buf.String()
	assert.Contains(t, out, "Page 2 of 3 (3 venues)")
	assert.Contains(t, out, "More results: --page 3")
}

func TestPrintSearchResult_Empty(t *testing.T) {
	var buf bytes.Buffer
	printSearchResult(&buf, &models.SearchResult{})
	assert.Contains(t, buf.String(), "No venues found.")
}

func TestRunMigration(t *testing.T) {
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "m.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, runMigration(db, "up"))
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM venues`).Scan(&n))
	assert.Equal(t, 0, n)

	require.NoError(t, runMigration(db, "reset"))
	_, err = db.Exec(`SELECT COUNT(*) FROM venues`)
	assert.Error(t, err)

	assert.ErrorContains(t, runMigration(db, "sideways"), "unknown command")
}

func TestRootCommand_RegistersSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "search", "load", "migrate"} {
		assert.True(t, names[want], "missing %s command", want)
	}
}
