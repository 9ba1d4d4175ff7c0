// Package activity decides whether a special is running at a given instant.
//
// Evaluation is a pure function of the special's schedule fields and the reference
// instant. Calendar dates and times of day are read from the reference instant in its
// own location, so callers convert it to venue-local time first.
package activity

import (
	"errors"
	"time"

	"specials-server/models/venue"
)

// Window is how far back a recurring special looks for its latest trigger, and how
// long an occurrence without an end time stays active.
const Window = 24 * time.Hour

var errUnparsableRule = errors.New("unparsable recurrence rule")

// Evaluator is stateless apart from the recurrence rule cache and is safe for concurrent use.
type Evaluator struct {
	recurrence Recurrence
}

func NewEvaluator(recurrence Recurrence) *Evaluator {
	if recurrence == nil {
		recurrence = NewCronRecurrence()
	}
	return &Evaluator{recurrence: recurrence}
}

var defaultEvaluator = NewEvaluator(nil)

// IsActive evaluates s at the reference instant with the default cron recurrence.
func IsActive(s venue.Special, at time.Time) bool {
	return defaultEvaluator.IsActive(s, at)
}

// IsActive never fails: malformed schedules evaluate to inactive.
func (e *Evaluator) IsActive(s venue.Special, at time.Time) bool {
	today := venue.DateOf(at)

	if s.ExpirationDate != nil && s.ExpirationDate.Before(today) {
		return false
	}
	if s.StartDate.After(today) {
		return false
	}

	if !s.IsRecurring {
		return oneTimeActive(s, at, today)
	}
	return e.recurringActive(s, at)
}

// ActiveSpecials returns the subset of specials active at the reference instant, in input order.
func (e *Evaluator) ActiveSpecials(specials []venue.Special, at time.Time) []venue.Special {
	var out []venue.Special
	for _, s := range specials {
		if e.IsActive(s, at) {
			out = append(out, s)
		}
	}
	return out
}

func oneTimeActive(s venue.Special, at time.Time, today venue.Date) bool {
	now := venue.TimeOfDayOf(at)

	if s.EndTime == nil {
		return today.Equal(s.StartDate) && now >= s.StartTime
	}

	end := *s.EndTime
	if !s.CrossesMidnight() {
		return today.Equal(s.StartDate) && now >= s.StartTime && now <= end
	}

	// Midnight-crossing: evening of the start date through the early hours of the next day.
	if today.Equal(s.StartDate) {
		return now >= s.StartTime
	}
	if today.Equal(s.StartDate.AddDays(1)) {
		return now <= end
	}
	return false
}

func (e *Evaluator) recurringActive(s venue.Special, at time.Time) bool {
	if s.CronSchedule == "" {
		return false
	}

	trigger, ok := e.recurrence.LastOccurrenceBefore(s.CronSchedule, at, Window)
	if !ok {
		return false
	}

	triggerDate := venue.DateOf(trigger.In(at.Location()))
	start := triggerDate.At(s.StartTime, at.Location())

	var end time.Time
	if s.EndTime == nil {
		end = start.Add(Window)
	} else {
		end = triggerDate.At(*s.EndTime, at.Location())
		if *s.EndTime < s.StartTime {
			end = end.Add(24 * time.Hour)
		}
	}

	return !at.Before(start) && !at.After(end)
}
