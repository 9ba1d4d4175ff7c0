package activity

import (
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Recurrence locates rule triggers. Implementations must be safe for concurrent use.
type Recurrence interface {
	// LastOccurrenceBefore returns the latest trigger t with at-lookback < t <= at.
	// ok is false when the rule is unparsable or does not fire in that window.
	LastOccurrenceBefore(rule string, at time.Time, lookback time.Duration) (t time.Time, ok bool)
}

// maxIterations bounds the forward scan for dense rules (one trigger per second over a day).
const maxIterations = 24*60*60 + 1

var ruleParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// CronRecurrence evaluates standard five-field cron rules, six-field rules with a
// leading seconds field, and descriptors such as @daily.
type CronRecurrence struct {
	schedules sync.Map // rule -> cron.Schedule (nil for unparsable)
}

func NewCronRecurrence() *CronRecurrence {
	return &CronRecurrence{}
}

// Valid reports whether rule parses.
func (c *CronRecurrence) Valid(rule string) bool {
	return c.schedule(rule) != nil
}

func (c *CronRecurrence) LastOccurrenceBefore(rule string, at time.Time, lookback time.Duration) (time.Time, bool) {
	sched := c.schedule(rule)
	if sched == nil {
		return time.Time{}, false
	}

	var last time.Time
	found := false
	next := sched.Next(at.Add(-lookback))
	for i := 0; i < maxIterations && !next.IsZero() && !next.After(at); i++ {
		last = next
		found = true
		next = sched.Next(next)
	}
	return last, found
}

func (c *CronRecurrence) schedule(rule string) cron.Schedule {
	rule = strings.TrimSpace(rule)
	if rule == "" {
		return nil
	}
	if cached, ok := c.schedules.Load(rule); ok {
		s, _ := cached.(cron.Schedule)
		return s
	}

	s, err := parseRule(rule)
	if err != nil {
		c.schedules.Store(rule, nil)
		return nil
	}
	c.schedules.Store(rule, s)
	return s
}

func parseRule(rule string) (cron.Schedule, error) {
	// A TZ= prefix would move evaluation out of venue-local time.
	if strings.HasPrefix(rule, "TZ=") || strings.HasPrefix(rule, "CRON_TZ=") {
		return nil, errUnparsableRule
	}
	return ruleParser.Parse(rule)
}
