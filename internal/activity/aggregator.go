// Package activity turns a raw stream of event timestamps into a
// calendar heat-map and a consecutive-day streak count.
package activity

import (
	"sort"
	"time"
)

// DateFormat is the wire format for calendar days.
const DateFormat = "2006-01-02"

// Item is one day of the heat-map window.
type Item struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
	Level int    `json:"level"`
}

// Result is the full aggregation output for one owner.
type Result struct {
	TotalCount        int    `json:"totalCount"`
	ThisPeriodCount   int    `json:"thisPeriodCount"`
	CurrentStreakDays int    `json:"currentStreakDays"`
	PerDay            []Item `json:"perDay"`
}

// Level buckets a per-day count into one of five heat-map intensities.
//
//	count >= 10 -> 4
//	count >= 5  -> 3
//	count >= 3  -> 2
//	count >= 1  -> 1
//	otherwise   -> 0
func Level(count int) int {
	switch {
	case count >= 10:
		return 4
	case count >= 5:
		return 3
	case count >= 3:
		return 2
	case count >= 1:
		return 1
	default:
		return 0
	}
}

// dayOf truncates a timestamp to its UTC calendar day. All day
// equality and adjacency comparisons operate on these values.
func dayOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// Aggregate computes the per-day heat-map over [from, to] inclusive,
// the current streak, and period counts for the given events.
// Events need not be sorted. asOf anchors the "this period" month.
func Aggregate(events []time.Time, from, to, asOf time.Time) Result {
	monthStart, monthEnd := MonthBounds(asOf)
	return Result{
		TotalCount:        len(events),
		ThisPeriodCount:   countBetween(events, monthStart, monthEnd),
		CurrentStreakDays: CurrentStreak(events),
		PerDay:            PerDay(events, from, to),
	}
}

// PerDay walks the window day by day from `from` to `to` inclusive,
// emitting one Item per day. Days with no events appear with count 0
// so the window is always contiguous.
func PerDay(events []time.Time, from, to time.Time) []Item {
	counts := make(map[string]int)
	for _, e := range events {
		counts[dayOf(e).Format(DateFormat)]++
	}

	start := dayOf(from)
	end := dayOf(to)
	var items []Item
	for cursor := start; !cursor.After(end); cursor = cursor.AddDate(0, 0, 1) {
		key := cursor.Format(DateFormat)
		count := counts[key]
		items = append(items, Item{
			Date:  key,
			Count: count,
			Level: Level(count),
		})
	}
	return items
}

// CurrentStreak returns the number of consecutive UTC calendar days
// with at least one event, ending at the most recent active day. The
// streak is anchored to the last activity day, not to "today": an
// empty day between the last activity and the query time does not by
// itself break the streak.
func CurrentStreak(events []time.Time) int {
	if len(events) == 0 {
		return 0
	}

	seen := make(map[time.Time]struct{})
	for _, e := range events {
		seen[dayOf(e)] = struct{}{}
	}

	days := make([]time.Time, 0, len(seen))
	for d := range seen {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	// The most recent active day counts itself.
	streak := 1
	current := days[len(days)-1]
	for i := len(days) - 2; i >= 0; i-- {
		if days[i].Equal(current.AddDate(0, 0, -1)) {
			streak++
			current = days[i]
			continue
		}
		break
	}
	return streak
}

// MonthBounds returns the UTC calendar month containing asOf as a
// half-open interval [first-of-month, first-of-next-month).
func MonthBounds(asOf time.Time) (time.Time, time.Time) {
	u := asOf.UTC()
	start := time.Date(u.Year(), u.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// YearWindow returns the inclusive heat-map window for a UTC year:
// January 1st through December 31st.
func YearWindow(year int) (time.Time, time.Time) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	return from, to
}

// countBetween counts events in the half-open interval [from, to).
func countBetween(events []time.Time, from, to time.Time) int {
	n := 0
	for _, e := range events {
		u := e.UTC()
		if !u.Before(from) && u.Before(to) {
			n++
		}
	}
	return n
}
