package analytics

import (
	"github.com/harrisonrobin/dayplan/pkg/colors"
	"github.com/harrisonrobin/dayplan/pkg/filter"
	"github.com/harrisonrobin/dayplan/pkg/model"
)

// Dashboard is everything the analytics view shows for one query.
type Dashboard struct {
	Query    filter.Query `json:"query"`
	Category string       `json:"category"`
	Filters  []string     `json:"filters"`
	Tasks    []model.Task `json:"tasks"`
	Summary  Summary      `json:"summary"`
	Hours    []Point      `json:"hours"`
	Counts   []Point      `json:"counts"`
	Activity Activity     `json:"activity"`
	Recent   []model.Task `json:"recent"`
}

// BuildDashboard derives the whole analytics view from the full task
// collection. It has no side effects and may be recomputed freely.
// The heat-map covers the anchor month and honors only the category filter.
func BuildDashboard(allTasks []model.Task, q filter.Query, category string, categories []model.Category, theme colors.Theme, dark bool) Dashboard {
	if category == "" {
		category = model.AllCategories
	}
	tasks := filter.Apply(allTasks, q, category)

	filters := []string{model.AllCategories}
	filters = append(filters, knownNames(categories)...)

	return Dashboard{
		Query:    q,
		Category: category,
		Filters:  filters,
		Tasks:    tasks,
		Summary:  Summarize(tasks),
		Hours:    BarSeries(tasks, categories, theme, dark),
		Counts:   PieSeries(tasks, categories, theme, dark),
		Activity: MonthActivity(filter.FilterByCategory(allTasks, category), q.Year, q.Month, categories, theme, dark),
		Recent:   Recent(tasks),
	}
}
