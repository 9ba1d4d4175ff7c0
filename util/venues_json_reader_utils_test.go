package util

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"specials-server/geo"
	"specials-server/models/venue"
)

func createTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}
	return path
}

func TestReadVenueCatalogFromJSON(t *testing.T) {
	// Arrange
	content := `{
		"venues": [
			{
				"id": "v1",
				"name": "The Crown",
				"location": {"lat": -33.88, "lon": 151.21},
				"timezone": "Australia/Sydney",
				"specials": [
					{
						"id": "s1",
						"content": "$10 schnitzel",
						"type": "food",
						"start_date": "2024-06-01",
						"start_time": "17:00",
						"end_time": "19:00",
						"is_recurring": true,
						"cron_schedule": "0 17 * * 1"
					}
				],
				"operating_schedules": [
					{"day_of_week": 1, "open_time": "11:00", "close_time": "23:00"}
				]
			},
			{"name": "No ID Bar", "address": "1 George St"}
		]
	}`
	path := createTempFile(t, content)

	// Act
	venues, err := ReadVenueCatalogFromJSON(path)

	// Assert
	require.NoError(t, err)
	require.Len(t, venues, 2)

	v := venues[0]
	assert.Equal(t, "v1", v.ID)
	assert.Equal(t, geo.Point{Lat: -33.88, Lon: 151.21}, v.Location)
	require.Len(t, v.Specials, 1)
	s := v.Specials[0]
	assert.Equal(t, venue.Date{Year: 2024, Month: time.June, Day: 1}, s.StartDate)
	assert.Equal(t, venue.NewTimeOfDay(17, 0, 0), s.StartTime)
	require.NotNil(t, s.EndTime)
	assert.Equal(t, venue.NewTimeOfDay(19, 0, 0), *s.EndTime)
	assert.True(t, s.IsRecurring)
	assert.Equal(t, time.Monday, v.OperatingSchedules[0].DayOfWeek)

	assert.Empty(t, venues[1].ID)
	assert.True(t, venues[1].Location.IsZero())
}

func TestReadVenueCatalogFromJSON_Errors(t *testing.T) {
	_, err := ReadVenueCatalogFromJSON(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "failed to read file")

	_, err = ReadVenueCatalogFromJSON(createTempFile(t, `{"venues": [{"specials": [{"start_time": "25:00"}]}]}`))
	assert.ErrorContains(t, err, "failed to unmarshal venue catalog")
}

func TestReadGeocodeFixturesFromJSON(t *testing.T) {
	path := createTempFile(t, `{"1 George St": {"point": {"lat": -33.86, "lon": 151.2}, "display_name": "George St"}}`)

	fixtures, err := ReadGeocodeFixturesFromJSON(path)

	require.NoError(t, err)
	require.Contains(t, fixtures, "1 George St")
	assert.Equal(t, "George St", fixtures["1 George St"].DisplayName)
}
