package calendar

import (
	"time"

	"planner-backend/cmd/planner/model"
)

// GridCells is the fixed size of a month grid: six rows of seven days, even
// when the month would fit in five.
const GridCells = 42

// MonthEventCap is how many event titles a month cell shows before "+N".
const MonthEventCap = 2

type Membership string

const (
	Previous Membership = "previous"
	Current  Membership = "current"
	Next     Membership = "next"
)

type Cell struct {
	Day        int            `json:"day"`
	Membership Membership     `json:"membership"`
	Date       string         `json:"date"`
	Events     []EventSummary `json:"events"`
	Selected   bool           `json:"selected"`
	Today      bool           `json:"today"`

	key DayKey
}

// Visible splits the cell's events into the first limit summaries and the
// number left over.
func (c Cell) Visible(limit int) ([]EventSummary, int) {
	if limit < 0 {
		limit = 0
	}
	if len(c.Events) <= limit {
		return c.Events, 0
	}
	return c.Events[:limit], len(c.Events) - limit
}

type MonthGrid struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Cells []Cell     `json:"cells"`

	loc *time.Location
}

// BuildMonthGrid lays out the month containing anchor, Sunday first.
// Leading cells carry the tail of the previous month and trailing cells count
// up from the 1st of the next month.
func BuildMonthGrid(anchor time.Time, events []model.Event) MonthGrid {
	loc := anchor.Location()
	year, month, _ := anchor.Date()

	first := DayKey{Year: year, Month: month, Day: 1}
	firstWeekday := int(first.Weekday())
	days := daysIn(year, month)

	prev := first.AddDays(-1)
	next := first.AddDays(days)
	daysInPrev := prev.Day

	buckets := BucketByDay(events, loc)
	grid := MonthGrid{
		Year:  year,
		Month: month,
		Cells: make([]Cell, 0, GridCells),
		loc:   loc,
	}

	add := func(ref DayKey, day int, m Membership) {
		key := DayKey{Year: ref.Year, Month: ref.Month, Day: day}
		grid.Cells = append(grid.Cells, Cell{
			Day:        day,
			Membership: m,
			Date:       key.String(),
			Events:     buckets[key],
			key:        key,
		})
	}

	for day := daysInPrev - firstWeekday + 1; day <= daysInPrev; day++ {
		add(prev, day, Previous)
	}
	for day := 1; day <= days; day++ {
		add(first, day, Current)
	}
	for day := 1; len(grid.Cells) < GridCells; day++ {
		add(next, day, Next)
	}

	return grid
}

// Mark flags the current-month cells matching the selected date and today.
// Both are compared as calendar dates in the grid's location.
func (g MonthGrid) Mark(selected, today time.Time) MonthGrid {
	loc := g.location()
	sel := KeyOf(selected.In(loc))
	now := KeyOf(today.In(loc))

	cells := make([]Cell, len(g.Cells))
	copy(cells, g.Cells)
	for i := range cells {
		if cells[i].Membership != Current {
			continue
		}
		cells[i].Selected = !selected.IsZero() && cells[i].key == sel
		cells[i].Today = !today.IsZero() && cells[i].key == now
	}
	g.Cells = cells
	return g
}

// Range is the inclusive window covering every cell of the grid, for
// fetching the events the grid displays.
func (g MonthGrid) Range() (time.Time, time.Time) {
	if len(g.Cells) == 0 {
		return time.Time{}, time.Time{}
	}
	loc := g.location()
	first, last := g.Cells[0].key, g.Cells[len(g.Cells)-1].key
	return StartOfDay(first, loc), EndOfDay(last, loc)
}

// Count returns how many cells carry the given membership.
func (g MonthGrid) Count(m Membership) int {
	n := 0
	for _, c := range g.Cells {
		if c.Membership == m {
			n++
		}
	}
	return n
}

func (g MonthGrid) location() *time.Location {
	if g.loc == nil {
		return time.UTC
	}
	return g.loc
}
