package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/harrisonrobin/dayplan/pkg/analytics"
	"github.com/harrisonrobin/dayplan/pkg/colors"
	"github.com/harrisonrobin/dayplan/pkg/model"
	"github.com/harrisonrobin/dayplan/pkg/planner"
	"github.com/harrisonrobin/dayplan/pkg/util"
)

const barWidth = 30

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#4A90E2"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#874BFD")).
			Padding(0, 1)
)

func colored(color, text string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(text)
}

func pad(text string, width int) string {
	return lipgloss.NewStyle().Width(width).Render(text)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func timeRange(t model.Task) string {
	if len(t.TimeSlots) == 0 {
		return "-"
	}
	if len(t.TimeSlots) == 1 {
		return t.TimeSlots[0]
	}
	return t.TimeSlots[0] + " … " + t.TimeSlots[len(t.TimeSlots)-1]
}

func renderDay(w io.Writer, view planner.DayView, showFree bool) {
	fmt.Fprintln(w, titleStyle.Render("Schedule for "+view.Date))
	fmt.Fprintln(w)

	prev := ""
	for _, slot := range view.Slots {
		if !slot.HasTask {
			if showFree {
				fmt.Fprintf(w, "%s %s\n", pad(slot.DisplayText, 9), mutedStyle.Render("·"))
			}
			prev = ""
			continue
		}
		color := view.Colors[slot.Category]
		text := slot.TaskText
		if slot.TaskID == prev {
			text = "│"
		}
		fmt.Fprintf(w, "%s %s %s\n", pad(slot.DisplayText, 9), colored(color, "■"), text)
		prev = slot.TaskID
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%d tasks, %s planned\n", len(view.Tasks), util.HumanHours(view.Hours))
}

func renderTasks(w io.Writer, tasks []model.Task, all []model.Category, theme colors.Theme, dark bool) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No tasks match the current filters."))
		return
	}
	fmt.Fprintln(w, headerStyle.Render(
		pad("DATE", 12)+pad("TIME", 22)+pad("CATEGORY", 14)+pad("HOURS", 7)+"TASK"))
	for _, t := range tasks {
		color := colors.ResolveCategoryColor(t.Category, all, theme, dark)
		fmt.Fprintf(w, "%s%s%s%s%s  %s\n",
			pad(util.NormalizeDateKey(t.Date), 12),
			pad(timeRange(t), 22),
			colored(color, pad(t.Category, 14)),
			pad(util.FormatHours(t.TotalTime), 7),
			t.Task,
			mutedStyle.Render(t.ID),
		)
	}
}

func renderBars(w io.Writer, title string, points []analytics.Point, unit string) {
	fmt.Fprintln(w, headerStyle.Render(title))
	if analytics.IsEmpty(points) {
		fmt.Fprintln(w, mutedStyle.Render("  No data available for the selected range."))
		return
	}
	top := 0.0
	for _, p := range points {
		top = math.Max(top, p.Value)
	}
	for _, p := range points {
		n := int(math.Round(p.Value / top * barWidth))
		if n == 0 {
			n = 1
		}
		fmt.Fprintf(w, "  %s %s %s%s\n", pad(p.Label, 12), colored(p.Color, strings.Repeat("█", n)), formatValue(p.Value), unit)
	}
}

func formatValue(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return util.FormatHours(v)
}

func renderSummary(w io.Writer, s analytics.Summary) {
	cards := []string{
		boxStyle.Render(fmt.Sprintf("%d\nTasks", s.Tasks)),
		boxStyle.Render(fmt.Sprintf("%sh\nHours Planned", util.FormatHours(s.Hours))),
		boxStyle.Render(fmt.Sprintf("%d\nActive Days", s.ActiveDays)),
	}
	fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
}

func renderActivity(w io.Writer, act analytics.Activity, muted string) {
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("Monthly Activity  %s %d", act.Month, act.Year)))
	fmt.Fprintln(w, "  M  T  W  T  F  S  S")

	var line strings.Builder
	line.WriteString(strings.Repeat("   ", act.Offset))
	col := act.Offset
	for _, d := range act.Days {
		cell := fmt.Sprintf("%3d", d.Day)
		if d.Count > 0 {
			cell = colored(d.Color, cell)
		} else {
			cell = colored(muted, cell)
		}
		line.WriteString(cell)
		col++
		if col%7 == 0 {
			fmt.Fprintln(w, line.String())
			line.Reset()
		}
	}
	if line.Len() > 0 {
		fmt.Fprintln(w, line.String())
	}
	fmt.Fprintf(w, "%d active days\n", act.ActiveDays())
}

func renderDashboard(w io.Writer, d analytics.Dashboard, theme colors.Theme, dark bool) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Analytics: %s of %04d-%02d-%02d, %s",
		d.Query.Range, d.Query.Year, d.Query.Month+1, d.Query.Day, d.Category)))
	renderSummary(w, d.Summary)
	fmt.Fprintln(w)
	renderBars(w, "Hours per Category", d.Hours, "h")
	fmt.Fprintln(w)
	renderBars(w, "Task Distribution", d.Counts, "")
	fmt.Fprintln(w)
	renderActivity(w, d.Activity, theme.Palette(dark)["textDisabled"])
	fmt.Fprintln(w)

	fmt.Fprintln(w, headerStyle.Render("Tasks Overview"))
	for _, t := range d.Recent {
		fmt.Fprintf(w, "  %s %s  %s  %s\n", util.NormalizeDateKey(t.Date), pad(timeRange(t), 20), t.Task, mutedStyle.Render(util.HumanHours(t.TotalTime)))
	}
	if len(d.Tasks) > len(d.Recent) {
		fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("  … %d more (dayplan list)", len(d.Tasks)-len(d.Recent))))
	}
	if len(d.Tasks) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("  No tasks match the current filters."))
	}
}

func renderCategories(w io.Writer, all []model.Category, theme colors.Theme, dark bool) {
	for _, c := range all {
		color := colors.ResolveColor(&c, theme, dark)
		kind := "custom"
		if c.IsDefault {
			kind = "default"
		}
		fmt.Fprintf(w, "%s %s %s %s\n", colored(color, "■"), pad(c.Name, 14), pad(color, 9), mutedStyle.Render(kind))
	}
}
