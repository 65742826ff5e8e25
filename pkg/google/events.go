// Package google projects planned tasks onto Google Calendar event resources.
package google

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"google.golang.org/api/calendar/v3"

	"github.com/harrisonrobin/dayplan/pkg/colors"
	"github.com/harrisonrobin/dayplan/pkg/logging"
	"github.com/harrisonrobin/dayplan/pkg/model"
	"github.com/harrisonrobin/dayplan/pkg/timegrid"
	"github.com/harrisonrobin/dayplan/pkg/util"
)

// Private extended property keys carried by every exported event.
const (
	PropTaskID   = "dayplan_id"
	PropCategory = "dayplan_category"
	PropColor    = "dayplan_color"
	PropRun      = "dayplan_run"
)

// eventColors is the fixed Google Calendar event palette, keyed by colorId.
var eventColors = map[string]string{
	"1":  "#a4bdfc",
	"2":  "#7ae7bf",
	"3":  "#dbadff",
	"4":  "#ff887c",
	"5":  "#fbd75b",
	"6":  "#ffb878",
	"7":  "#46d6db",
	"8":  "#e1e1e1",
	"9":  "#5484ed",
	"10": "#51b749",
	"11": "#dc2127",
}

// Exporter converts tasks into calendar events.
type Exporter struct {
	Location   *time.Location
	StartHour  int
	Categories []model.Category
	Theme      colors.Theme
	Dark       bool
}

// NewExporter returns an exporter for the local time zone and default day start.
func NewExporter(categories []model.Category, theme colors.Theme, dark bool) *Exporter {
	return &Exporter{
		Location:   time.Local,
		StartHour:  timegrid.DefaultStartHour,
		Categories: categories,
		Theme:      theme,
		Dark:       dark,
	}
}

// EventsFromTask returns one event per contiguous run of the task's slots.
// Slots earlier than the day start belong to the night after the task's day.
func (e *Exporter) EventsFromTask(task model.Task) ([]*calendar.Event, error) {
	loc := e.Location
	if loc == nil {
		loc = time.Local
	}
	day, err := util.ParseDateKey(task.Date, loc)
	if err != nil {
		return nil, fmt.Errorf("task %s: %w", task.ID, err)
	}
	if len(task.TimeSlotIDs) == 0 {
		return nil, fmt.Errorf("task %s has no time slots", task.ID)
	}

	starts := make([]time.Time, 0, len(task.TimeSlotIDs))
	for _, id := range task.TimeSlotIDs {
		hour, minute, ok := timegrid.ParseSlotID(id)
		if !ok {
			return nil, fmt.Errorf("task %s: malformed slot id %q", task.ID, id)
		}
		d := day
		if hour < e.StartHour {
			d = day.AddDate(0, 0, 1)
		}
		starts = append(starts, time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, loc))
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i].Before(starts[j]) })

	slot := timegrid.SlotMinutes * time.Minute
	color := colors.ResolveCategoryColor(task.Category, e.Categories, e.Theme, e.Dark)

	var events []*calendar.Event
	runStart := starts[0]
	for i := 1; i <= len(starts); i++ {
		if i < len(starts) && !starts[i].After(starts[i-1].Add(slot)) {
			continue
		}
		end := starts[i-1].Add(slot)
		events = append(events, e.event(task, color, len(events), runStart, end))
		if i < len(starts) {
			runStart = starts[i]
		}
	}
	return events, nil
}

func (e *Exporter) event(task model.Task, color string, run int, start, end time.Time) *calendar.Event {
	var desc strings.Builder
	desc.WriteString(fmt.Sprintf("Category: %s\n", task.Category))
	desc.WriteString(fmt.Sprintf("Slots: %s\n", strings.Join(task.TimeSlots, ", ")))
	desc.WriteString(fmt.Sprintf("Planned: %s\n", util.HumanHours(task.TotalTime)))
	desc.WriteString(fmt.Sprintf("ID: %s\n", task.ID))

	return &calendar.Event{
		Summary:     task.Task,
		Description: desc.String(),
		ColorId:     NearestColorID(color),
		Start: &calendar.EventDateTime{
			DateTime: start.Format(time.RFC3339),
		},
		End: &calendar.EventDateTime{
			DateTime: end.Format(time.RFC3339),
		},
		ExtendedProperties: &calendar.EventExtendedProperties{
			Private: map[string]string{
				PropTaskID:   task.ID,
				PropCategory: task.Category,
				PropColor:    color,
				PropRun:      strconv.Itoa(run),
			},
		},
	}
}

// Export converts every task. Tasks that cannot be placed on the calendar are
// logged and left out.
func (e *Exporter) Export(tasks []model.Task) *calendar.Events {
	doc := &calendar.Events{
		Kind:    "calendar#events",
		Summary: "dayplan",
		Items:   []*calendar.Event{},
	}
	for _, task := range tasks {
		events, err := e.EventsFromTask(task)
		if err != nil {
			logging.Warn("google", "skipping task in export: %v", err)
			continue
		}
		doc.Items = append(doc.Items, events...)
	}
	return doc
}

// TaskIDFromEvent returns the task id stored on an exported event.
func TaskIDFromEvent(event *calendar.Event) (string, bool) {
	if event == nil || event.ExtendedProperties == nil {
		return "", false
	}
	id, ok := event.ExtendedProperties.Private[PropTaskID]
	return id, ok && id != ""
}

// NearestColorID maps a #RRGGBB color to the closest Google event colorId.
// Anything unparseable maps to "8" (graphite).
func NearestColorID(hex string) string {
	r, g, b, ok := parseHex(hex)
	if !ok {
		return "8"
	}
	best, bestDist := "8", -1
	for id := 1; id <= len(eventColors); id++ {
		key := strconv.Itoa(id)
		er, eg, eb, _ := parseHex(eventColors[key])
		dist := (r-er)*(r-er) + (g-eg)*(g-eg) + (b-eb)*(b-eb)
		if bestDist < 0 || dist < bestDist {
			best, bestDist = key, dist
		}
	}
	return best
}

func parseHex(hex string) (r, g, b int, ok bool) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) == 8 {
		hex = hex[:6]
	}
	if len(hex) != 6 {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff), true
}
