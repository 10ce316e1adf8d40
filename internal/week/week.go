// Package week converts instants into Monday-start, Sunday-end week
// boundaries. All functions are pure; the Calculator only adds an injected
// clock and location for the "current week" questions.
package week

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Start returns Monday 00:00:00.000 of the week containing t, in t's location.
func Start(t time.Time) time.Time {
	wd := t.Weekday()
	offset := int(wd - time.Monday)
	if wd == time.Sunday {
		offset = 6
	}
	return time.Date(t.Year(), t.Month(), t.Day()-offset, 0, 0, 0, 0, t.Location())
}

// End returns Sunday 23:59:59.999 of the week starting at weekStart.
func End(weekStart time.Time) time.Time {
	return time.Date(weekStart.Year(), weekStart.Month(), weekStart.Day()+6, 23, 59, 59, int(999*time.Millisecond), weekStart.Location())
}

// Previous returns the week start seven days before weekStart.
func Previous(weekStart time.Time) time.Time {
	return weekStart.AddDate(0, 0, -7)
}

// Next returns the week start seven days after weekStart.
func Next(weekStart time.Time) time.Time {
	return weekStart.AddDate(0, 0, 7)
}

// DayIndex returns the Monday-first weekday index (Monday = 0, Sunday = 6).
func DayIndex(t time.Time) int {
	if t.Weekday() == time.Sunday {
		return 6
	}
	return int(t.Weekday() - time.Monday)
}

// FormatRange renders a week as "Jan 1 - Jan 7".
func FormatRange(weekStart time.Time) string {
	return fmt.Sprintf("%s - %s", weekStart.Format("Jan 2"), End(weekStart).Format("Jan 2"))
}

// Calculator answers questions relative to "now".
type Calculator struct {
	Now      func() time.Time
	Location *time.Location
}

// NewCalculator returns a Calculator using the wall clock in loc.
func NewCalculator(loc *time.Location) *Calculator {
	if loc == nil {
		loc = time.Local
	}
	return &Calculator{Now: time.Now, Location: loc}
}

func (c *Calculator) now() time.Time {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	loc := c.Location
	if loc == nil {
		loc = time.Local
	}
	return now().In(loc)
}

// Today returns the current instant in the calculator's location.
func (c *Calculator) Today() time.Time {
	return c.now()
}

// Current returns the start of the week containing now.
func (c *Calculator) Current() time.Time {
	return Start(c.now())
}

// Normalize returns the week start of t in the calculator's location.
func (c *Calculator) Normalize(t time.Time) time.Time {
	loc := c.Location
	if loc == nil {
		loc = time.Local
	}
	return Start(t.In(loc))
}

// IsCurrent reports whether weekStart equals the start of the current week.
func (c *Calculator) IsCurrent(weekStart time.Time) bool {
	return weekStart.Equal(c.Current())
}

// IsFuture reports whether weekStart is strictly after the current week start.
func (c *Calculator) IsFuture(weekStart time.Time) bool {
	return weekStart.After(c.Current())
}

// Parse reads a YYYY-MM-DD date in the calculator's location and returns the
// start of its week. An empty string yields the current week.
func (c *Calculator) Parse(s string) (time.Time, error) {
	if s == "" {
		return c.Current(), nil
	}
	loc := c.Location
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(dateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse week %q: %w", s, err)
	}
	return Start(t), nil
}
