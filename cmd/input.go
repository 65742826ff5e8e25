package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/harrisonrobin/dayplan/pkg/filter"
	"github.com/harrisonrobin/dayplan/pkg/timegrid"
	"github.com/harrisonrobin/dayplan/pkg/util"
)

var now = time.Now

// parseDay accepts today, tomorrow, yesterday or any stored day key form.
func parseDay(s string) (time.Time, error) {
	today := util.StartOfDay(now())
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return today, nil
	case "tomorrow":
		return today.AddDate(0, 0, 1), nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	}
	return util.ParseDateKey(s, time.Local)
}

// parseQuery builds a range query anchored at the given day.
func parseQuery(rangeName, day string) (filter.Query, error) {
	r, err := filter.ParseRange(rangeName)
	if err != nil {
		return filter.Query{}, err
	}
	anchor, err := parseDay(day)
	if err != nil {
		return filter.Query{}, err
	}
	return filter.QueryFor(r, anchor), nil
}

// parseMonth accepts YYYY-MM; empty means the current month.
func parseMonth(s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		t := now()
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.Local), nil
	}
	t, err := time.ParseInLocation("2006-01", strings.TrimSpace(s), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q: use YYYY-MM", s)
	}
	return t, nil
}

// resolveSlots expands slot specs into slot ids. A spec is a slot id
// ("slot-9-30"), a time ("9:30", "14:00", "2:30 PM") or a half-open range
// ("9:00-10:30" covers 9:00 and 9:30 and 10:00). Ranges may wrap past midnight.
func resolveSlots(specs []string) ([]string, error) {
	var ids []string
	for _, raw := range specs {
		for _, spec := range strings.Split(raw, ",") {
			spec = strings.TrimSpace(spec)
			if spec == "" {
				continue
			}
			if strings.HasPrefix(spec, "slot-") {
				if _, _, ok := timegrid.ParseSlotID(spec); !ok {
					return nil, fmt.Errorf("invalid slot id %q", spec)
				}
				ids = append(ids, spec)
				continue
			}

			from, to, isRange := strings.Cut(spec, "-")
			start, err := parseClock(from)
			if err != nil {
				return nil, err
			}
			if !isRange {
				ids = append(ids, timegrid.SlotID(start/60, start%60))
				continue
			}
			end, err := parseClock(to)
			if err != nil {
				return nil, err
			}
			if end == start {
				return nil, fmt.Errorf("empty range %q", spec)
			}
			for m := start; m != end; m = (m + timegrid.SlotMinutes) % (24 * 60) {
				ids = append(ids, timegrid.SlotID(m/60, m%60))
			}
		}
	}
	return ids, nil
}

// parseClock returns minutes since midnight for "9:30", "14:00", "9" or
// "9:30 PM". The time must fall on a slot boundary.
func parseClock(s string) (int, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	pm := strings.HasSuffix(s, "PM")
	am := strings.HasSuffix(s, "AM")
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSuffix(s, "PM"), "AM"))

	hourText, minuteText, hasMinutes := strings.Cut(s, ":")
	hour, err := strconv.Atoi(hourText)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	minute := 0
	if hasMinutes {
		if minute, err = strconv.Atoi(minuteText); err != nil {
			return 0, fmt.Errorf("invalid time %q", s)
		}
	}

	if am || pm {
		if hour < 1 || hour > 12 {
			return 0, fmt.Errorf("invalid 12-hour time %q", s)
		}
		hour %= 12
		if pm {
			hour += 12
		}
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	if minute%timegrid.SlotMinutes != 0 {
		return 0, fmt.Errorf("time %q is not on a %d minute boundary", s, timegrid.SlotMinutes)
	}
	return hour*60 + minute, nil
}
