package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrisonrobin/dayplan/pkg/model"
)

func days(start, end time.Time) int {
	n := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		n++
	}
	return n
}

func TestInterval_Day(t *testing.T) {
	start, end, ok := Interval(Query{Range: Day, Day: 5, Month: 2, Year: 2024}, time.UTC)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, time.March, 5, 23, 59, 59, int(999*time.Millisecond), time.UTC), end)
}

func TestInterval_MonthLeapYear(t *testing.T) {
	start, end, ok := Interval(Query{Range: Month, Day: 10, Month: 1, Year: 2024}, time.UTC)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, 29, end.Day())
	assert.Equal(t, time.February, end.Month())
	assert.Equal(t, 29, days(start, end))

	start, end, ok = Interval(Query{Range: Month, Day: 10, Month: 1, Year: 2023}, time.UTC)
	require.True(t, ok)
	assert.Equal(t, 28, end.Day())
	assert.Equal(t, 28, days(start, end))
}

func TestInterval_MonthLengths(t *testing.T) {
	want := []int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}
	for m, n := range want {
		_, end, ok := Interval(Query{Range: Month, Day: 1, Month: m, Year: 2025}, time.UTC)
		require.True(t, ok)
		assert.Equal(t, n, end.Day(), "month %d", m)
	}
}

func TestInterval_Week(t *testing.T) {
	tests := []struct {
		name      string
		anchor    time.Time
		wantStart time.Time
	}{
		{"wednesday", time.Date(2024, time.March, 6, 0, 0, 0, 0, time.UTC), time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)},
		{"monday", time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC), time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)},
		{"sunday", time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC), time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)},
		{"wednesday across year", time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, time.December, 30, 0, 0, 0, 0, time.UTC)},
		{"wednesday across month", time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, time.April, 29, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, ok := Interval(QueryFor(Week, tt.anchor), time.UTC)
			require.True(t, ok)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, time.Monday, start.Weekday())
			assert.Equal(t, time.Sunday, end.Weekday())
			assert.Equal(t, 7, days(start, end))
		})
	}
}

func TestInterval_Year(t *testing.T) {
	start, end, ok := Interval(Query{Range: Year, Day: 15, Month: 6, Year: 2024}, time.UTC)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.December, end.Month())
	assert.Equal(t, 31, end.Day())
	assert.Equal(t, 366, days(start, end))
}

func TestInterval_Unknown(t *testing.T) {
	_, _, ok := Interval(Query{Range: "fortnight"}, time.UTC)
	assert.False(t, ok)
}

func TestParseRange(t *testing.T) {
	r, err := ParseRange(" Week ")
	require.NoError(t, err)
	assert.Equal(t, Week, r)

	_, err = ParseRange("decade")
	assert.Error(t, err)
}

func sampleTasks() []model.Task {
	return []model.Task{
		{ID: "late", Category: "Work", Date: "2024-03-05", TimeSlotIDs: []string{"slot-14-0"}},
		{ID: "next-day", Category: "Personal", Date: "2024-03-06", TimeSlotIDs: []string{"slot-8-0"}},
		{ID: "early", Category: "Work", Date: "Tue Mar 05 2024", TimeSlotIDs: []string{"slot-9-30"}},
		{ID: "no-slots", Category: "Meeting", Date: "2024-03-05"},
		{ID: "bad-slot", Category: "Work", Date: "2024-03-05", TimeSlotIDs: []string{"oops"}},
		{ID: "feb", Category: "Work", Date: "2024-02-29", TimeSlotIDs: []string{"slot-9-0"}},
		{ID: "bad-date", Category: "Work", Date: "someday", TimeSlotIDs: []string{"slot-9-0"}},
	}
}

func ids(tasks []model.Task) []string {
	out := []string{}
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func TestApply_DaySorted(t *testing.T) {
	q := Query{Range: Day, Day: 5, Month: 2, Year: 2024}
	got := Apply(sampleTasks(), q, model.AllCategories)
	assert.Equal(t, []string{"no-slots", "bad-slot", "early", "late"}, ids(got))
}

func TestApply_CategoryStage(t *testing.T) {
	q := Query{Range: Week, Day: 5, Month: 2, Year: 2024}
	got := Apply(sampleTasks(), q, "Work")
	assert.Equal(t, []string{"bad-slot", "early", "late"}, ids(got))

	assert.Empty(t, Apply(sampleTasks(), q, "Friends"))
}

func TestApply_Month(t *testing.T) {
	q := Query{Range: Month, Day: 1, Month: 1, Year: 2024}
	assert.Equal(t, []string{"feb"}, ids(Apply(sampleTasks(), q, "")))
}

func TestApply_Idempotent(t *testing.T) {
	tasks := sampleTasks()
	q := Query{Range: Year, Day: 1, Month: 0, Year: 2024}

	first := Apply(tasks, q, model.AllCategories)
	second := Apply(tasks, q, model.AllCategories)
	assert.Equal(t, first, second)
	assert.Equal(t, sampleTasks(), tasks, "input must not be reordered")
}

func TestFilterByDateRange_UnknownRangeKeepsAll(t *testing.T) {
	got := FilterByDateRange(sampleTasks(), Query{Range: "decade"})
	assert.Len(t, got, len(sampleTasks()))
}

func TestFilterByDateRange_Inclusive(t *testing.T) {
	tasks := []model.Task{
		{ID: "first", Date: "2024-03-04"},
		{ID: "last", Date: "2024-03-10"},
		{ID: "before", Date: "2024-03-03"},
		{ID: "after", Date: "2024-03-11"},
	}
	got := FilterByDateRange(tasks, Query{Range: Week, Day: 6, Month: 2, Year: 2024})
	assert.ElementsMatch(t, []string{"first", "last"}, ids(got))
}
