package model

// SlotHours is the duration of a single time slot, in hours.
const SlotHours = 0.5

// Task is a single planned activity occupying one or more slots of one day.
type Task struct {
	ID          string   `json:"id"`
	Task        string   `json:"task"`
	Category    string   `json:"category"` // Category name, not id
	Date        string   `json:"date"`     // Day key, see util.ParseDateKey
	TimeSlotIDs []string `json:"timeSlotIds"`
	TimeSlots   []string `json:"timeSlots"` // Display text, parallel to TimeSlotIDs
	Timestamp   string   `json:"timestamp"`
	TotalTime   float64  `json:"totalTime"`
}

// HoursForSlots returns the planned duration of n slots.
func HoursForSlots(n int) float64 {
	return float64(n) * SlotHours
}

// Consistent reports whether the denormalized fields agree with TimeSlotIDs.
func (t Task) Consistent() bool {
	return len(t.TimeSlots) == len(t.TimeSlotIDs) && t.TotalTime == HoursForSlots(len(t.TimeSlotIDs))
}

// HasSlot reports whether the task occupies the given slot id.
func (t Task) HasSlot(slotID string) bool {
	for _, id := range t.TimeSlotIDs {
		if id == slotID {
			return true
		}
	}
	return false
}

// Category is a named, colored tag for tasks.
type Category struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IsDefault bool   `json:"isDefault"`
	ColorKey  string `json:"colorKey,omitempty"` // Theme slot, defaults only
	Color     string `json:"color,omitempty"`    // Hex color, custom only
}

// AllCategories is the category filter sentinel matching every task.
const AllCategories = "All"
