package venue

import (
	"errors"
	"time"

	"specials-server/geo"
)

// ErrNotFound is returned by stores when no venue exists under the requested ID.
var ErrNotFound = errors.New("venue not found")

// Venue owns its specials as value snapshots; specials carry no reference back.
type Venue struct {
	ID                 string              `json:"id"`
	Name               string              `json:"name"`
	Description        string              `json:"description,omitempty"`
	Address            string              `json:"address,omitempty"`
	Location           geo.Point           `json:"location"`
	Timezone           string              `json:"timezone,omitempty"`
	Specials           []Special           `json:"specials,omitempty"`
	OperatingSchedules []OperatingSchedule `json:"operating_schedules,omitempty"`
}

// OperatingSchedule is a weekly open/close window. Display data only.
type OperatingSchedule struct {
	DayOfWeek time.Weekday `json:"day_of_week"`
	OpenTime  TimeOfDay    `json:"open_time"`
	CloseTime TimeOfDay    `json:"close_time"`
}

// VenueWithDistance pairs a venue with its distance from a search origin.
type VenueWithDistance struct {
	Venue          Venue   `json:"venue"`
	DistanceMeters float64 `json:"distance_meters"`
}
