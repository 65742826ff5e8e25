// Package filter narrows a task collection to a date range and category.
package filter

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/harrisonrobin/dayplan/pkg/logging"
	"github.com/harrisonrobin/dayplan/pkg/model"
	"github.com/harrisonrobin/dayplan/pkg/timegrid"
	"github.com/harrisonrobin/dayplan/pkg/util"
)

// Range is the span of a query.
type Range string

const (
	Day   Range = "day"
	Week  Range = "week"
	Month Range = "month"
	Year  Range = "year"
)

// ParseRange accepts day, week, month or year (any case).
func ParseRange(s string) (Range, error) {
	switch r := Range(strings.ToLower(strings.TrimSpace(s))); r {
	case Day, Week, Month, Year:
		return r, nil
	}
	return "", fmt.Errorf("unknown range %q: use day, week, month or year", s)
}

// Query anchors a range at a calendar date. Month is zero-based (0 = January).
type Query struct {
	Range Range `json:"range"`
	Day   int   `json:"day"`
	Month int   `json:"month"`
	Year  int   `json:"year"`
}

// QueryFor builds a query anchored at t.
func QueryFor(r Range, t time.Time) Query {
	return Query{Range: r, Day: t.Day(), Month: int(t.Month()) - 1, Year: t.Year()}
}

// Anchor returns the query's anchor date at local midnight in loc.
func (q Query) Anchor(loc *time.Location) time.Time {
	return time.Date(q.Year, time.Month(q.Month+1), q.Day, 0, 0, 0, 0, loc)
}

// Interval returns the inclusive bounds of the query, from 00:00:00.000 of the
// first day to 23:59:59.999 of the last. ok is false for an unknown range.
func Interval(q Query, loc *time.Location) (start, end time.Time, ok bool) {
	if loc == nil {
		loc = time.Local
	}
	anchor := q.Anchor(loc)

	switch q.Range {
	case Day:
		return util.StartOfDay(anchor), util.EndOfDay(anchor), true
	case Week:
		weekday := int(anchor.Weekday())
		back := weekday - 1
		if weekday == 0 {
			back = 6
		}
		start = time.Date(anchor.Year(), anchor.Month(), anchor.Day()-back, 0, 0, 0, 0, loc)
		end = time.Date(start.Year(), start.Month(), start.Day()+6, 0, 0, 0, 0, loc)
		return start, util.EndOfDay(end), true
	case Month:
		start = time.Date(q.Year, time.Month(q.Month+1), 1, 0, 0, 0, 0, loc)
		// Day 0 of the next month is the last day of this one.
		end = time.Date(q.Year, time.Month(q.Month+2), 0, 0, 0, 0, 0, loc)
		return start, util.EndOfDay(end), true
	case Year:
		start = time.Date(q.Year, time.January, 1, 0, 0, 0, 0, loc)
		end = time.Date(q.Year, time.December, 31, 0, 0, 0, 0, loc)
		return start, util.EndOfDay(end), true
	}
	return time.Time{}, time.Time{}, false
}

// FilterByDateRange keeps the tasks whose day falls inside the query interval.
// Tasks with unparseable dates are dropped. An unknown range keeps everything.
func FilterByDateRange(tasks []model.Task, q Query) []model.Task {
	start, end, ok := Interval(q, time.Local)
	if !ok {
		logging.Debug("filter", "unknown range %q, skipping date filter", q.Range)
		return append([]model.Task{}, tasks...)
	}

	out := []model.Task{}
	for _, task := range tasks {
		day, err := util.ParseDateKey(task.Date, time.Local)
		if err != nil {
			logging.Debug("filter", "task %s has unusable date %q: %v", task.ID, task.Date, err)
			continue
		}
		if !day.Before(start) && !day.After(end) {
			out = append(out, task)
		}
	}
	return out
}

// FilterByCategory keeps tasks of the named category; model.AllCategories and
// the empty string keep everything.
func FilterByCategory(tasks []model.Task, category string) []model.Task {
	if category == "" || category == model.AllCategories {
		return append([]model.Task{}, tasks...)
	}
	out := []model.Task{}
	for _, task := range tasks {
		if task.Category == category {
			out = append(out, task)
		}
	}
	return out
}

// Sort orders tasks by day, then by the start minute of their first slot.
// Tasks without a usable first slot id count as minute 0.
func Sort(tasks []model.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		di, dj := dayOf(tasks[i]), dayOf(tasks[j])
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		return startMinute(tasks[i]) < startMinute(tasks[j])
	})
}

// Apply runs the date stage, the category stage and the sort.
func Apply(tasks []model.Task, q Query, category string) []model.Task {
	out := FilterByCategory(FilterByDateRange(tasks, q), category)
	Sort(out)
	return out
}

func dayOf(task model.Task) time.Time {
	day, err := util.ParseDateKey(task.Date, time.Local)
	if err != nil {
		return time.Time{}
	}
	return day
}

func startMinute(task model.Task) int {
	if len(task.TimeSlotIDs) == 0 {
		return 0
	}
	return timegrid.MinuteOfDay(task.TimeSlotIDs[0])
}
