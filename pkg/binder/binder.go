// Package binder lays a day's tasks over the slot template and answers
// occupancy questions about it.
package binder

import (
	"time"

	"github.com/harrisonrobin/dayplan/pkg/model"
	"github.com/harrisonrobin/dayplan/pkg/timegrid"
	"github.com/harrisonrobin/dayplan/pkg/util"
)

// BoundSlot is a template slot with the occupancy of one particular day.
type BoundSlot struct {
	timegrid.Slot
	HasTask  bool   `json:"hasTask"`
	Category string `json:"category,omitempty"`
	TaskText string `json:"taskText,omitempty"`
	TaskID   string `json:"taskId,omitempty"`
}

// BindTasksToSlots marks each template slot with the task occupying it, if any.
// tasksForDate must already be restricted to one day.
func BindTasksToSlots(slots []timegrid.Slot, tasksForDate []model.Task) []BoundSlot {
	bound := make([]BoundSlot, len(slots))
	for i, slot := range slots {
		bound[i] = BoundSlot{Slot: slot}
		if task, ok := FindTaskCoveringSlot(tasksForDate, slot.ID); ok {
			bound[i].HasTask = true
			bound[i].Category = task.Category
			bound[i].TaskText = task.Task
			bound[i].TaskID = task.ID
		}
	}
	return bound
}

// FindConflict returns the first task, other than excludeTaskID, that already
// claims one of candidateSlotIDs.
func FindConflict(candidateSlotIDs []string, tasksForDate []model.Task, excludeTaskID string) (*model.Task, bool) {
	wanted := make(map[string]bool, len(candidateSlotIDs))
	for _, id := range candidateSlotIDs {
		wanted[id] = true
	}

	for i := range tasksForDate {
		task := &tasksForDate[i]
		if excludeTaskID != "" && task.ID == excludeTaskID {
			continue
		}
		for _, id := range task.TimeSlotIDs {
			if wanted[id] {
				found := *task
				return &found, true
			}
		}
	}
	return nil, false
}

// FindTaskCoveringSlot returns the task occupying slotID.
func FindTaskCoveringSlot(tasksForDate []model.Task, slotID string) (*model.Task, bool) {
	for i := range tasksForDate {
		if tasksForDate[i].HasSlot(slotID) {
			found := tasksForDate[i]
			return &found, true
		}
	}
	return nil, false
}

// TasksCoveringAny returns every task that occupies at least one of slotIDs.
func TasksCoveringAny(tasksForDate []model.Task, slotIDs []string) []model.Task {
	var out []model.Task
	for _, task := range tasksForDate {
		if _, ok := FindConflict(slotIDs, []model.Task{task}, ""); ok {
			out = append(out, task)
		}
	}
	return out
}

// TasksForDate returns the tasks whose day key falls on day.
func TasksForDate(tasks []model.Task, day time.Time) []model.Task {
	out := []model.Task{}
	for _, task := range tasks {
		if util.SameDay(task.Date, day) {
			out = append(out, task)
		}
	}
	return out
}

// Occupied returns the number of occupied slots in bound.
func Occupied(bound []BoundSlot) int {
	n := 0
	for _, b := range bound {
		if b.HasTask {
			n++
		}
	}
	return n
}
