// Package analytics reduces a filtered task collection into summary and chart data.
package analytics

import (
	"time"

	"github.com/harrisonrobin/dayplan/pkg/colors"
	"github.com/harrisonrobin/dayplan/pkg/model"
	"github.com/harrisonrobin/dayplan/pkg/util"
)

// NoData labels the placeholder point of an empty chart.
const NoData = "No Data"

// RecentLimit is the number of tasks shown before "view all".
const RecentLimit = 4

// TotalHours sums TotalTime, rounded to one decimal.
func TotalHours(tasks []model.Task) float64 {
	var total float64
	for _, t := range tasks {
		total += t.TotalTime
	}
	return util.RoundHours(total)
}

// ActiveDayCount counts distinct days. Equivalent day keys in different
// formats count once; unparseable keys are compared verbatim.
func ActiveDayCount(tasks []model.Task) int {
	seen := make(map[string]struct{})
	for _, t := range tasks {
		seen[util.NormalizeDateKey(t.Date)] = struct{}{}
	}
	return len(seen)
}

// knownNames lists category names in order, without the All sentinel.
func knownNames(categories []model.Category) []string {
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		if c.Name == model.AllCategories {
			continue
		}
		names = append(names, c.Name)
	}
	return names
}

// PerCategoryDurationTotals returns hours per known category. Every known
// category starts at zero; tasks naming an unknown category are ignored.
func PerCategoryDurationTotals(tasks []model.Task, categories []model.Category) map[string]float64 {
	totals := make(map[string]float64)
	for _, name := range knownNames(categories) {
		totals[name] = 0
	}
	for _, t := range tasks {
		if _, ok := totals[t.Category]; ok {
			totals[t.Category] += t.TotalTime
		}
	}
	return totals
}

// PerCategoryCounts returns the number of tasks per known category, with the
// same zero-initialisation as PerCategoryDurationTotals.
func PerCategoryCounts(tasks []model.Task, categories []model.Category) map[string]int {
	counts := make(map[string]int)
	for _, name := range knownNames(categories) {
		counts[name] = 0
	}
	for _, t := range tasks {
		if _, ok := counts[t.Category]; ok {
			counts[t.Category]++
		}
	}
	return counts
}

// Point is one chart-ready value.
type Point struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Color string  `json:"color"`
}

// BarSeries returns hours per category in category order, skipping zero
// totals. An empty result is a single NoData point with value 0.
func BarSeries(tasks []model.Task, categories []model.Category, theme colors.Theme, dark bool) []Point {
	totals := PerCategoryDurationTotals(tasks, categories)
	var points []Point
	for _, name := range knownNames(categories) {
		if totals[name] <= 0 {
			continue
		}
		points = append(points, Point{
			Label: name,
			Value: util.RoundHours(totals[name]),
			Color: colors.ResolveCategoryColor(name, categories, theme, dark),
		})
	}
	if len(points) == 0 {
		return []Point{{Label: NoData, Value: 0, Color: theme.Palette(dark).Accent()}}
	}
	return points
}

// PieSeries returns task counts per category in category order, skipping
// zero counts. An empty result is a single NoData slice of value 1 drawn in
// the disabled text color.
func PieSeries(tasks []model.Task, categories []model.Category, theme colors.Theme, dark bool) []Point {
	counts := PerCategoryCounts(tasks, categories)
	var points []Point
	for _, name := range knownNames(categories) {
		if counts[name] == 0 {
			continue
		}
		points = append(points, Point{
			Label: name,
			Value: float64(counts[name]),
			Color: colors.ResolveCategoryColor(name, categories, theme, dark),
		})
	}
	if len(points) == 0 {
		palette := theme.Palette(dark)
		color := palette["textDisabled"]
		if color == "" {
			color = colors.GenericFallback
		}
		return []Point{{Label: NoData, Value: 1, Color: color}}
	}
	return points
}

// IsEmpty reports whether a series is the NoData placeholder.
func IsEmpty(points []Point) bool {
	return len(points) == 1 && points[0].Label == NoData
}

// Summary backs the summary cards.
type Summary struct {
	Tasks      int     `json:"tasks"`
	Hours      float64 `json:"hours"`
	ActiveDays int     `json:"activeDays"`
}

func Summarize(tasks []model.Task) Summary {
	return Summary{
		Tasks:      len(tasks),
		Hours:      TotalHours(tasks),
		ActiveDays: ActiveDayCount(tasks),
	}
}

// Recent returns the first RecentLimit tasks.
func Recent(tasks []model.Task) []model.Task {
	if len(tasks) <= RecentLimit {
		return append([]model.Task{}, tasks...)
	}
	return append([]model.Task{}, tasks[:RecentLimit]...)
}

// DayActivity is one cell of the month heat-map.
type DayActivity struct {
	Day      int    `json:"day"`
	Count    int    `json:"count"`
	Category string `json:"category,omitempty"`
	Color    string `json:"color,omitempty"`
}

// Activity is a Monday-first month heat-map. Offset is the number of empty
// cells before the 1st.
type Activity struct {
	Year   int           `json:"year"`
	Month  time.Month    `json:"month"`
	Offset int           `json:"offset"`
	Days   []DayActivity `json:"days"`
}

// ActiveDays returns the number of days with at least one task.
func (a Activity) ActiveDays() int {
	n := 0
	for _, d := range a.Days {
		if d.Count > 0 {
			n++
		}
	}
	return n
}

// MonthActivity builds the heat-map for year/month (zero-based month). Each
// active day is colored after the first of its tasks in input order.
func MonthActivity(tasks []model.Task, year, month int, categories []model.Category, theme colors.Theme, dark bool) Activity {
	first := time.Date(year, time.Month(month+1), 1, 0, 0, 0, 0, time.Local)
	last := time.Date(year, time.Month(month+2), 0, 0, 0, 0, 0, time.Local)

	offset := int(first.Weekday()) - 1
	if first.Weekday() == time.Sunday {
		offset = 6
	}

	act := Activity{
		Year:   first.Year(),
		Month:  first.Month(),
		Offset: offset,
		Days:   make([]DayActivity, last.Day()),
	}
	for i := range act.Days {
		act.Days[i].Day = i + 1
	}

	for _, t := range tasks {
		day, err := util.ParseDateKey(t.Date, time.Local)
		if err != nil || day.Year() != act.Year || day.Month() != act.Month {
			continue
		}
		cell := &act.Days[day.Day()-1]
		if cell.Count == 0 {
			cell.Category = t.Category
			cell.Color = colors.ResolveCategoryColor(t.Category, categories, theme, dark)
		}
		cell.Count++
	}
	return act
}
