// Package calendar derives the month, week and day projections the dashboard
// renders. Everything here is a pure function of an anchor date and a list
// of events; dates are interpreted in the anchor's location.
package calendar

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"planner-backend/cmd/planner/model"
)

// EventSummary is what a calendar cell needs to know about an event.
type EventSummary struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// DayKey identifies a calendar date independent of time and location.
type DayKey struct {
	Year  int
	Month time.Month
	Day   int
}

// KeyOf returns the calendar date of t in t's own location.
func KeyOf(t time.Time) DayKey {
	y, m, d := t.Date()
	return DayKey{Year: y, Month: m, Day: d}
}

func (k DayKey) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", k.Year, int(k.Month), k.Day)
}

// Buckets maps a local calendar date to the events on it, ordered by time.
type Buckets map[DayKey][]EventSummary

// BucketByDay groups events by their wall-clock date in loc.
func BucketByDay(events []model.Event, loc *time.Location) Buckets {
	buckets := Buckets{}
	for _, ev := range sortedByDate(events) {
		key := KeyOf(ev.Date.In(loc))
		buckets[key] = append(buckets[key], summarize(ev))
	}
	return buckets
}

func sortedByDate(events []model.Event) []model.Event {
	sorted := slices.Clone(events)
	slices.SortStableFunc(sorted, func(a, b model.Event) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return sorted
}

func summarize(ev model.Event) EventSummary {
	return EventSummary{ID: ev.ID, Title: ev.Title}
}

// civil is the date at midnight UTC, where every date has a midnight. Weekday
// and day arithmetic go through it so they never depend on a zone's DST rules.
func (k DayKey) civil() time.Time {
	return time.Date(k.Year, k.Month, k.Day, 0, 0, 0, 0, time.UTC)
}

// AddDays returns the date n days after k.
func (k DayKey) AddDays(n int) DayKey {
	return KeyOf(k.civil().AddDate(0, 0, n))
}

func (k DayKey) Weekday() time.Weekday {
	return k.civil().Weekday()
}

// StartOfDay returns the first instant of the date in loc. Where a DST jump
// skips local midnight, that is the instant of the jump.
func StartOfDay(k DayKey, loc *time.Location) time.Time {
	t := time.Date(k.Year, k.Month, k.Day, 0, 0, 0, 0, loc)
	if KeyOf(t) == k {
		return t
	}
	if _, end := t.ZoneBounds(); !end.IsZero() && KeyOf(end) == k {
		return end
	}
	return t
}

// EndOfDay returns the last representable instant of the date in loc.
func EndOfDay(k DayKey, loc *time.Location) time.Time {
	return StartOfDay(k.AddDays(1), loc).Add(-time.Nanosecond)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
