package venue

// Special is a time-bound promotion published by a venue.
type Special struct {
	ID             string     `json:"id"`
	Content        string     `json:"content"`
	Type           string     `json:"type"`
	StartDate      Date       `json:"start_date"`
	StartTime      TimeOfDay  `json:"start_time"`
	EndTime        *TimeOfDay `json:"end_time,omitempty"`
	ExpirationDate *Date      `json:"expiration_date,omitempty"`
	IsRecurring    bool       `json:"is_recurring"`
	CronSchedule   string     `json:"cron_schedule,omitempty"`
}

// CrossesMidnight reports whether the end time-of-day falls before the start.
func (s Special) CrossesMidnight() bool {
	return s.EndTime != nil && *s.EndTime < s.StartTime
}
