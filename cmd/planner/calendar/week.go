package calendar

import (
	"encoding/json"
	"time"

	"planner-backend/cmd/planner/model"
)

const (
	// DefaultStartHour is the first visible hour of the week view. An earlier
	// event in the week pulls the start back; the end never moves.
	DefaultStartHour = 5
	EndHour          = 23
)

// Slot is one hour of one day.
type Slot struct {
	Hour   int            `json:"hour"`
	Events []EventSummary `json:"events"`
}

// First is the event the slot displays; the rest show as Overflow.
func (s Slot) First() (EventSummary, bool) {
	if len(s.Events) == 0 {
		return EventSummary{}, false
	}
	return s.Events[0], true
}

func (s Slot) Overflow() int {
	if len(s.Events) <= 1 {
		return 0
	}
	return len(s.Events) - 1
}

type slotKey struct {
	day  DayKey
	hour int
}

type Week struct {
	Days      []time.Time `json:"days"`
	StartHour int         `json:"start_hour"`
	HourSlots []int       `json:"hour_slots"`

	keys  []DayKey
	loc   *time.Location
	cells map[slotKey][]EventSummary
}

// BuildWeek lays out the Sunday-to-Saturday week containing anchor and
// buckets the week's events by local date and hour.
func BuildWeek(anchor time.Time, events []model.Event) Week {
	loc := anchor.Location()
	sunday := KeyOf(anchor).AddDays(-int(anchor.Weekday()))

	w := Week{
		Days:  make([]time.Time, 7),
		keys:  make([]DayKey, 7),
		loc:   loc,
		cells: map[slotKey][]EventSummary{},
	}
	inWeek := map[DayKey]bool{}
	for i := range w.Days {
		w.keys[i] = sunday.AddDays(i)
		w.Days[i] = StartOfDay(w.keys[i], loc)
		inWeek[w.keys[i]] = true
	}

	start := DefaultStartHour
	for _, ev := range sortedByDate(events) {
		local := ev.Date.In(loc)
		key := KeyOf(local)
		if !inWeek[key] {
			continue
		}
		sk := slotKey{day: key, hour: local.Hour()}
		w.cells[sk] = append(w.cells[sk], summarize(ev))
		if local.Hour() < start {
			start = local.Hour()
		}
	}

	w.StartHour = start
	w.HourSlots = hourRange(start, EndHour)
	return w
}

func hourRange(from, to int) []int {
	hours := make([]int, 0, to-from+1)
	for h := from; h <= to; h++ {
		hours = append(hours, h)
	}
	return hours
}

// Cell returns the events of the given day index (0 = Sunday) and hour.
func (w Week) Cell(dayIndex, hour int) []EventSummary {
	if dayIndex < 0 || dayIndex >= len(w.keys) {
		return nil
	}
	return w.cells[slotKey{day: w.keys[dayIndex], hour: hour}]
}

// Slots returns the visible hour slots of one day.
func (w Week) Slots(dayIndex int) []Slot {
	slots := make([]Slot, 0, len(w.HourSlots))
	for _, h := range w.HourSlots {
		slots = append(slots, Slot{Hour: h, Events: w.Cell(dayIndex, h)})
	}
	return slots
}

// Contains reports whether t falls on one of the week's days.
func (w Week) Contains(t time.Time) bool {
	key := KeyOf(t.In(w.location()))
	for _, k := range w.keys {
		if k == key {
			return true
		}
	}
	return false
}

// NowIndicator returns the vertical offset, in percent of the visible hour
// range, of a "now" marker. ok is false when now is outside the displayed
// week or hours.
func (w Week) NowIndicator(now time.Time) (float64, bool) {
	if !w.Contains(now) || len(w.HourSlots) == 0 {
		return 0, false
	}
	local := now.In(w.location())
	if local.Hour() < w.StartHour || local.Hour() > EndHour {
		return 0, false
	}
	position := float64(local.Hour()) + float64(local.Minute())/60 - float64(w.StartHour)
	return position / float64(len(w.HourSlots)) * 100, true
}

type weekColumn struct {
	Date  time.Time `json:"date"`
	Slots []Slot    `json:"slots"`
}

// MarshalJSON renders the week as day columns of visible hour slots.
func (w Week) MarshalJSON() ([]byte, error) {
	columns := make([]weekColumn, 0, len(w.Days))
	for i, d := range w.Days {
		columns = append(columns, weekColumn{Date: d, Slots: w.Slots(i)})
	}
	return json.Marshal(struct {
		StartHour int          `json:"start_hour"`
		HourSlots []int        `json:"hour_slots"`
		Columns   []weekColumn `json:"columns"`
	}{w.StartHour, w.HourSlots, columns})
}

// Range is the inclusive window from Sunday 00:00 to the end of Saturday.
func (w Week) Range() (time.Time, time.Time) {
	if len(w.keys) == 0 {
		return time.Time{}, time.Time{}
	}
	return w.Days[0], EndOfDay(w.keys[len(w.keys)-1], w.location())
}

func (w Week) location() *time.Location {
	if w.loc == nil {
		return time.UTC
	}
	return w.loc
}

// Day is the single-day panel: all 24 hours, no dynamic start.
type Day struct {
	Date  time.Time `json:"date"`
	Slots []Slot    `json:"slots"`

	key DayKey
}

func BuildDay(date time.Time, events []model.Event) Day {
	loc := date.Location()
	key := KeyOf(date)
	d := Day{
		Date:  StartOfDay(key, loc),
		Slots: make([]Slot, 24),
		key:   key,
	}
	for h := range d.Slots {
		d.Slots[h].Hour = h
	}

	for _, ev := range sortedByDate(events) {
		local := ev.Date.In(loc)
		if KeyOf(local) != key {
			continue
		}
		d.Slots[local.Hour()].Events = append(d.Slots[local.Hour()].Events, summarize(ev))
	}
	return d
}

// Range is the inclusive window of the day.
func (d Day) Range() (time.Time, time.Time) {
	return d.Date, EndOfDay(d.key, d.Date.Location())
}
