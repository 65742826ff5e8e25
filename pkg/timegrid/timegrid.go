// Package timegrid generates the fixed half-hour slot template shared by every day.
package timegrid

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// DefaultStartHour is the hour the day view starts at.
	DefaultStartHour = 6
	// SlotsPerDay is 24 hours * 2 slots per hour.
	SlotsPerDay = 48
	// SlotMinutes is the length of one slot.
	SlotMinutes = 30

	idPrefix = "slot"
)

// Slot is one schedulable half-hour interval. Slots are day-independent.
type Slot struct {
	ID          string `json:"id"`
	DisplayText string `json:"displayText"`
}

// GenerateTimeSlots returns the 48 slots of a day starting at DefaultStartHour.
func GenerateTimeSlots() []Slot {
	return Generate(DefaultStartHour)
}

// Generate returns the 48 slots of a day starting at startHour, wrapping past
// midnight.
func Generate(startHour int) []Slot {
	startHour = ((startHour % 24) + 24) % 24

	slots := make([]Slot, 0, SlotsPerDay)
	for i := 0; i < SlotsPerDay; i++ {
		total := startHour*60 + i*SlotMinutes
		hour24 := (total / 60) % 24
		minute := total % 60

		slots = append(slots, Slot{
			ID:          SlotID(hour24, minute),
			DisplayText: DisplayText(hour24, minute),
		})
	}
	return slots
}

// SlotID encodes a time of day as a slot id, e.g. "slot-9-30".
func SlotID(hour24, minute int) string {
	return fmt.Sprintf("%s-%d-%d", idPrefix, hour24, minute)
}

// DisplayText formats a time of day as "9:30 AM".
func DisplayText(hour24, minute int) string {
	h := hour24 % 12
	if h == 0 {
		h = 12
	}
	period := "AM"
	if hour24 >= 12 {
		period = "PM"
	}
	return fmt.Sprintf("%d:%02d %s", h, minute, period)
}

// ParseSlotID decodes a slot id back into hour and minute.
func ParseSlotID(id string) (hour, minute int, ok bool) {
	parts := strings.Split(id, "-")
	if len(parts) != 3 || parts[0] != idPrefix {
		return 0, 0, false
	}
	hour, err := strconv.Atoi(parts[1])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, false
	}
	minute, err = strconv.Atoi(parts[2])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, false
	}
	return hour, minute, true
}

// MinuteOfDay returns the minutes since midnight encoded by id. Malformed ids
// yield 0 so they sort first.
func MinuteOfDay(id string) int {
	hour, minute, ok := ParseSlotID(id)
	if !ok {
		return 0
	}
	return hour*60 + minute
}

// Index maps slot ids to their position in slots.
func Index(slots []Slot) map[string]int {
	idx := make(map[string]int, len(slots))
	for i, s := range slots {
		idx[s.ID] = i
	}
	return idx
}
